package provider

import (
	"context"

	"stockwatch/internal/quote"
)

// QuoteFetcher is implemented by adapters that can resolve a single symbol
// into a canonical quote. A failed attempt is terminal: adapters never retry.
type QuoteFetcher interface {
	Name() string
	FetchQuote(ctx context.Context, symbol string) (quote.Quote, error)
}

// BatchFetcher is implemented by adapters that can multiplex several symbols
// into one outbound call. The call as a whole fails only when the multiplexed
// request itself cannot be completed; per-symbol failures are reported inside
// the returned outcomes.
type BatchFetcher interface {
	Name() string
	FetchBatch(ctx context.Context, symbols []string) ([]Outcome, error)
}

// Outcome is one symbol's result within a batch. Exactly one of Quote and
// Err is meaningful: when Err is nil the quote is valid. Err, when set, is a
// *Error so callers can branch on its kind.
type Outcome struct {
	Symbol string
	Quote  quote.Quote
	Err    error
}
