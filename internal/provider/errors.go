package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind is the closed set of failure categories a provider call can
// produce. Adapters classify every provider-specific failure into one of
// these at the boundary; nothing provider-shaped leaks past them.
type ErrorKind string

const (
	// KindTimeout indicates the outbound call exceeded its deadline.
	KindTimeout ErrorKind = "timeout"
	// KindUpstream indicates the provider answered with a non-success status.
	KindUpstream ErrorKind = "upstream"
	// KindNotFound indicates a well-formed response with no data for the
	// requested symbol. Some providers signal this inside a 200 body.
	KindNotFound ErrorKind = "not_found"
	// KindUnexpected indicates anything not classified above.
	KindUnexpected ErrorKind = "unexpected"
)

// Error is a classified failure from a provider call.
type Error struct {
	Kind       ErrorKind
	Provider   string
	Symbol     string
	StatusCode int
	Body       string
	Cause      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s error (status %d) for %q: %s", e.Provider, e.Kind, e.StatusCode, e.Symbol, e.Body)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s error for %q: %v", e.Provider, e.Kind, e.Symbol, e.Cause)
	}
	return fmt.Sprintf("%s: %s error for %q", e.Provider, e.Kind, e.Symbol)
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(providerName, symbol string, cause error) *Error {
	return &Error{
		Kind:     KindTimeout,
		Provider: providerName,
		Symbol:   symbol,
		Cause:    cause,
	}
}

// NewUpstreamError creates an error carrying the provider's own status and
// body so callers can surface them for diagnostics.
func NewUpstreamError(providerName, symbol string, statusCode int, body string) *Error {
	return &Error{
		Kind:       KindUpstream,
		Provider:   providerName,
		Symbol:     symbol,
		StatusCode: statusCode,
		Body:       body,
	}
}

// NewNotFoundError creates a no-data-for-symbol error.
func NewNotFoundError(providerName, symbol string) *Error {
	return &Error{
		Kind:     KindNotFound,
		Provider: providerName,
		Symbol:   symbol,
	}
}

// NewUnexpectedError creates an error for anything not otherwise classified.
func NewUnexpectedError(providerName, symbol string, cause error) *Error {
	return &Error{
		Kind:     KindUnexpected,
		Provider: providerName,
		Symbol:   symbol,
		Cause:    cause,
	}
}

// FromTransport classifies an error returned before any response was
// decoded. Deadline expiry, in whatever wrapping the transport reports it,
// becomes a timeout; everything else is unexpected.
func FromTransport(providerName, symbol string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(providerName, symbol, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewTimeoutError(providerName, symbol, err)
	}
	return NewUnexpectedError(providerName, symbol, err)
}

// KindOf extracts the classification of err, or KindUnexpected when err is
// not a provider error.
func KindOf(err error) ErrorKind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return KindUnexpected
}
