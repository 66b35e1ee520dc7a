// Package auth establishes a caller identity from bearer tokens.
//
// Two verifiers exist: UnverifiedDecoder only decodes the token payload and
// proves that a well-formed token with a recognizable subject claim was
// supplied, nothing about its authenticity. HMACVerifier additionally checks
// the signature against a shared secret and is the mode production
// deployments should run.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoIdentity is returned for absent, malformed, and rejected tokens
// alike; callers cannot tell those apart.
var ErrNoIdentity = errors.New("auth: no identity established")

// Identity is the caller identity attached to a request. Subject is the
// email-like identifier carried in the token claims.
type Identity struct {
	Subject string
}

// Verifier turns a raw bearer token into an Identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

const bearerPrefix = "Bearer "

// TokenFromHeader extracts the raw token from an Authorization header value.
// The second return is false when the header is absent or does not use the
// Bearer scheme.
func TokenFromHeader(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimPrefix(header, bearerPrefix)
	return token, token != ""
}

// subjectClaims lists the claim names that can carry the subject, in
// priority order. The shape matches Azure AD style tokens, where any of the
// three may be present depending on account type.
var subjectClaims = []string{"preferred_username", "upn", "email"}

func subjectFromClaims(claims jwt.MapClaims) string {
	for _, name := range subjectClaims {
		if v, ok := claims[name].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// UnverifiedDecoder reads the token's payload segment without checking the
// signature or expiry.
type UnverifiedDecoder struct{}

// Verify decodes the payload segment and extracts the subject claim. Any
// malformation yields ErrNoIdentity; it never panics.
func (UnverifiedDecoder) Verify(_ context.Context, token string) (*Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, ErrNoIdentity
	}
	subject := subjectFromClaims(claims)
	if subject == "" {
		return nil, ErrNoIdentity
	}
	return &Identity{Subject: subject}, nil
}

// HMACVerifier checks the token signature against a shared secret before
// extracting the subject claim.
type HMACVerifier struct {
	secret []byte
}

// NewHMACVerifier creates a verifier for HMAC-signed tokens.
func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

// Verify parses and validates the token, then extracts the subject claim.
func (v *HMACVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrNoIdentity
	}
	subject := subjectFromClaims(claims)
	if subject == "" {
		return nil, ErrNoIdentity
	}
	return &Identity{Subject: subject}, nil
}
