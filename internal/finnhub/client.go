package finnhub

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"resty.dev/v3"

	"stockwatch/internal/provider"
	"stockwatch/internal/quote"
)

const providerName = "finnhub"

// Client calls the Finnhub quote/profile API. One quote lookup needs two
// upstream calls: /quote for prices and /stock/profile2 for company
// enrichment.
type Client struct {
	apiKey string
	client *resty.Client
}

// New creates a Finnhub client.
func New(apiKey, baseURL string, timeout time.Duration) *Client {
	return &Client{
		apiKey: apiKey,
		client: provider.NewHTTPClient(baseURL, timeout),
	}
}

// Name identifies this provider in classified errors and logs.
func (c *Client) Name() string { return providerName }

// quoteResponse is the /quote payload. Finnhub leaves fields out for unknown
// symbols, so everything is a pointer.
type quoteResponse struct {
	Current       *float64 `json:"c"`
	Change        *float64 `json:"d"`
	PercentChange *float64 `json:"dp"`
	Open          *float64 `json:"o"`
}

// profileResponse is the /stock/profile2 payload. All fields are optional
// enrichments.
type profileResponse struct {
	Name     string `json:"name"`
	Logo     string `json:"logo"`
	Currency string `json:"currency"`
}

// FetchQuote retrieves a full quote for one symbol. The two upstream calls
// have no ordering dependency and are issued concurrently; both must
// complete. Missing profile fields degrade to placeholders, but a missing
// quote price means the symbol has no data.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (quote.Quote, error) {
	var (
		quoteRes   quoteResponse
		profileRes profileResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.get(gctx, "/quote", symbol, &quoteRes)
	})
	g.Go(func() error {
		return c.get(gctx, "/stock/profile2", symbol, &profileRes)
	})
	if err := g.Wait(); err != nil {
		return quote.Quote{}, err
	}

	if quoteRes.Current == nil {
		return quote.Quote{}, provider.NewNotFoundError(providerName, symbol)
	}

	q := quote.New(symbol, *quoteRes.Current)
	q.CompanyName = quote.CompanyOrDefault(profileRes.Name)
	q.Currency = quote.CurrencyOrDefault(profileRes.Currency)
	if profileRes.Logo != "" {
		q.Logo = &profileRes.Logo
	}
	q.Change = quoteRes.Change
	q.PercentChange = quoteRes.PercentChange
	return q, nil
}

// get performs one Finnhub call and classifies its failure modes.
func (c *Client) get(ctx context.Context, path, symbol string, out any) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": symbol,
			"token":  c.apiKey,
		}).
		SetResult(out).
		Get(path)

	if err != nil {
		return provider.FromTransport(providerName, symbol, err)
	}
	if !resp.IsSuccess() {
		return provider.NewUpstreamError(providerName, symbol, resp.StatusCode(), resp.String())
	}
	return nil
}
