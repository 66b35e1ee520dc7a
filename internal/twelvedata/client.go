package twelvedata

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"resty.dev/v3"

	"stockwatch/internal/provider"
	"stockwatch/internal/quote"
)

const providerName = "twelvedata"

// Client calls the TwelveData time-series API: single price lookups, symbol
// reference data, and multiplexed batch requests.
type Client struct {
	apiKey string
	client *resty.Client
}

// New creates a TwelveData client.
func New(apiKey, baseURL string, timeout time.Duration) *Client {
	return &Client{
		apiKey: apiKey,
		client: provider.NewHTTPClient(baseURL, timeout),
	}
}

// Name identifies this provider in classified errors and logs.
func (c *Client) Name() string { return providerName }

// priceResponse is the /price payload. Unknown symbols still answer 200, just
// without a price field, so Price is a pointer to tell the two apart.
type priceResponse struct {
	Price  *string `json:"price"`
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
}

// FetchQuote retrieves the current price for one symbol.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (quote.Quote, error) {
	var result priceResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": symbol,
			"apikey": c.apiKey,
		}).
		SetResult(&result).
		Get("/price")

	if err != nil {
		return quote.Quote{}, provider.FromTransport(providerName, symbol, err)
	}
	if !resp.IsSuccess() {
		return quote.Quote{}, provider.NewUpstreamError(providerName, symbol, resp.StatusCode(), resp.String())
	}
	if result.Price == nil || *result.Price == "" {
		return quote.Quote{}, provider.NewNotFoundError(providerName, symbol)
	}

	price, err := strconv.ParseFloat(*result.Price, 64)
	if err != nil {
		return quote.Quote{}, provider.NewUnexpectedError(providerName, symbol,
			fmt.Errorf("parse price %q: %w", *result.Price, err))
	}

	name := symbol
	if result.Symbol != "" {
		name = result.Symbol
	}
	q := quote.New(name, price)
	q.CompanyName = quote.CompanyOrDefault(result.Name)
	return q, nil
}

// SymbolInfo is the reference data returned by a symbol lookup.
type SymbolInfo struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Type     string `json:"type"`
	Currency string `json:"currency"`
	Country  string `json:"country"`
}

type stocksResponse struct {
	Data []SymbolInfo `json:"data"`
}

// LookupSymbol retrieves reference data for a symbol from /stocks. When the
// provider matches several instruments the first one wins.
func (c *Client) LookupSymbol(ctx context.Context, symbol string) (SymbolInfo, error) {
	var result stocksResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": symbol,
			"apikey": c.apiKey,
		}).
		SetResult(&result).
		Get("/stocks")

	if err != nil {
		return SymbolInfo{}, provider.FromTransport(providerName, symbol, err)
	}
	if !resp.IsSuccess() {
		return SymbolInfo{}, provider.NewUpstreamError(providerName, symbol, resp.StatusCode(), resp.String())
	}
	if len(result.Data) == 0 {
		return SymbolInfo{}, provider.NewNotFoundError(providerName, symbol)
	}
	return result.Data[0], nil
}
