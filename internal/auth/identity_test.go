package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

// unsignedToken builds a three-segment token whose payload carries the given
// claims and whose signature is garbage. Good enough for the unverified
// decoder, rejected by the HMAC verifier.
func unsignedToken(t *testing.T, claims map[string]any) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payloadJSON, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	payload := base64.RawURLEncoding.EncodeToString(payloadJSON)
	return header + "." + payload + ".c2lnbmF0dXJl"
}

func TestTokenFromHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"missing header", "", "", false},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "", false},
		{"lowercase scheme", "bearer abc.def.ghi", "", false},
		{"prefix only", "Bearer ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TokenFromHeader(tt.header)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("token = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnverifiedDecoder_ClaimPriority(t *testing.T) {
	tests := []struct {
		name   string
		claims map[string]any
		want   string
	}{
		{"email only", map[string]any{"email": "user@example.com"}, "user@example.com"},
		{"upn beats email", map[string]any{"upn": "upn@example.com", "email": "email@example.com"}, "upn@example.com"},
		{
			"preferred_username beats both",
			map[string]any{"preferred_username": "pref@example.com", "upn": "upn@example.com", "email": "email@example.com"},
			"pref@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := UnverifiedDecoder{}.Verify(context.Background(), unsignedToken(t, tt.claims))
			if err != nil {
				t.Fatalf("Verify() returned unexpected error: %v", err)
			}
			if identity.Subject != tt.want {
				t.Errorf("Subject = %q, want %q", identity.Subject, tt.want)
			}
		})
	}
}

func TestUnverifiedDecoder_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"two segments", "abc.def"},
		{"four segments", "a.b.c.d"},
		{"non-base64 payload", "header.!!!not-base64!!!.sig"},
		{"payload not json", "h." + base64.RawURLEncoding.EncodeToString([]byte("plain text")) + ".s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := UnverifiedDecoder{}.Verify(context.Background(), tt.token)
			if !errors.Is(err, ErrNoIdentity) {
				t.Errorf("err = %v, want ErrNoIdentity", err)
			}
			if identity != nil {
				t.Errorf("identity = %+v, want nil", identity)
			}
		})
	}
}

func TestUnverifiedDecoder_NoSubjectClaim(t *testing.T) {
	token := unsignedToken(t, map[string]any{"sub": "123", "name": "Someone"})

	_, err := UnverifiedDecoder{}.Verify(context.Background(), token)
	if !errors.Is(err, ErrNoIdentity) {
		t.Errorf("err = %v, want ErrNoIdentity", err)
	}
}

func TestHMACVerifier(t *testing.T) {
	const secret = "test-secret"

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "user@example.com",
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	t.Run("valid signature", func(t *testing.T) {
		identity, err := NewHMACVerifier(secret).Verify(context.Background(), signed)
		if err != nil {
			t.Fatalf("Verify() returned unexpected error: %v", err)
		}
		if identity.Subject != "user@example.com" {
			t.Errorf("Subject = %q, want user@example.com", identity.Subject)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewHMACVerifier("other-secret").Verify(context.Background(), signed)
		if !errors.Is(err, ErrNoIdentity) {
			t.Errorf("err = %v, want ErrNoIdentity", err)
		}
	})

	t.Run("unsigned token rejected", func(t *testing.T) {
		token := unsignedToken(t, map[string]any{"email": "user@example.com"})
		_, err := NewHMACVerifier(secret).Verify(context.Background(), token)
		if !errors.Is(err, ErrNoIdentity) {
			t.Errorf("err = %v, want ErrNoIdentity", err)
		}
	})
}
