package provider

import (
	"time"

	"resty.dev/v3"
)

// DefaultTimeout bounds every outbound provider call. The deadline is the
// only cancellation mechanism: there is no retry policy, so a timed-out call
// is reported immediately as a terminal failure.
const DefaultTimeout = 10 * time.Second

// NewHTTPClient creates the HTTP client used by provider adapters.
func NewHTTPClient(baseURL string, timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
}
