// Package testutil provides hand-rolled mocks of the gateway's collaborator
// interfaces plus token helpers for handler tests.
package testutil

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sync/atomic"
	"testing"

	"stockwatch/internal/provider"
	"stockwatch/internal/quote"
	"stockwatch/internal/twelvedata"
	"stockwatch/internal/watchlist"
)

// MockPriceSource is a mock implementation of the gateway's PriceSource
// interface. Calls counts every invocation so tests can assert that no
// outbound call was attempted.
type MockPriceSource struct {
	FetchQuoteFunc   func(ctx context.Context, symbol string) (quote.Quote, error)
	LookupSymbolFunc func(ctx context.Context, symbol string) (twelvedata.SymbolInfo, error)
	FetchBatchFunc   func(ctx context.Context, symbols []string) ([]provider.Outcome, error)

	Calls atomic.Int64
}

// FetchQuote implements the PriceSource interface.
func (m *MockPriceSource) FetchQuote(ctx context.Context, symbol string) (quote.Quote, error) {
	m.Calls.Add(1)
	if m.FetchQuoteFunc != nil {
		return m.FetchQuoteFunc(ctx, symbol)
	}
	return quote.Quote{}, nil
}

// LookupSymbol implements the PriceSource interface.
func (m *MockPriceSource) LookupSymbol(ctx context.Context, symbol string) (twelvedata.SymbolInfo, error) {
	m.Calls.Add(1)
	if m.LookupSymbolFunc != nil {
		return m.LookupSymbolFunc(ctx, symbol)
	}
	return twelvedata.SymbolInfo{}, nil
}

// FetchBatch implements the PriceSource interface.
func (m *MockPriceSource) FetchBatch(ctx context.Context, symbols []string) ([]provider.Outcome, error) {
	m.Calls.Add(1)
	if m.FetchBatchFunc != nil {
		return m.FetchBatchFunc(ctx, symbols)
	}
	return nil, nil
}

// MockDetailSource is a mock implementation of the gateway's DetailSource
// interface.
type MockDetailSource struct {
	FetchQuoteFunc func(ctx context.Context, symbol string) (quote.Quote, error)

	Calls atomic.Int64
}

// FetchQuote implements the DetailSource interface.
func (m *MockDetailSource) FetchQuote(ctx context.Context, symbol string) (quote.Quote, error) {
	m.Calls.Add(1)
	if m.FetchQuoteFunc != nil {
		return m.FetchQuoteFunc(ctx, symbol)
	}
	return quote.Quote{}, nil
}

// MockWatchlistStore is an in-memory mock of the gateway's WatchlistStore
// interface.
type MockWatchlistStore struct {
	UpsertFunc func(ctx context.Context, userID string, stock quote.Quote) (watchlist.Entry, error)
	ListFunc   func(ctx context.Context, userID string) ([]watchlist.Entry, error)
	DeleteFunc func(ctx context.Context, userID, id string) error
}

// Upsert implements the WatchlistStore interface.
func (m *MockWatchlistStore) Upsert(ctx context.Context, userID string, stock quote.Quote) (watchlist.Entry, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, userID, stock)
	}
	return watchlist.Entry{
		ID:     watchlist.EntryID(stock.Symbol, userID),
		UserID: userID,
		Stock:  stock,
	}, nil
}

// List implements the WatchlistStore interface.
func (m *MockWatchlistStore) List(ctx context.Context, userID string) ([]watchlist.Entry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return nil, nil
}

// Delete implements the WatchlistStore interface.
func (m *MockWatchlistStore) Delete(ctx context.Context, userID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	return nil
}

// UnsignedToken builds a three-segment bearer token whose payload carries the
// given claims and whose signature is garbage. Accepted by the unverified
// decoder only.
func UnsignedToken(t *testing.T, claims map[string]any) string {
	t.Helper()

	payloadJSON, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString(payloadJSON)
	return header + "." + payload + ".c2lnbmF0dXJl"
}
