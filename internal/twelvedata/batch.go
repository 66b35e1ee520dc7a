package twelvedata

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"stockwatch/internal/provider"
	"stockwatch/internal/quote"
)

// batchKeyPrefix names the sub-requests inside a multiplexed batch call.
const batchKeyPrefix = "req_"

type batchSubRequest struct {
	URL string `json:"url"`
}

// batchMember is one sub-request's result. The outer Status reports whether
// the sub-request itself ran; the nested Response carries the provider's own
// per-call status and data.
type batchMember struct {
	Status   string `json:"status"`
	Response struct {
		Status string `json:"status"`
		Meta   struct {
			Symbol   string `json:"symbol"`
			Currency string `json:"currency"`
		} `json:"meta"`
		Values []struct {
			Open  string `json:"open"`
			Close string `json:"close"`
		} `json:"values"`
	} `json:"response"`
}

type batchResponse struct {
	Data map[string]batchMember `json:"data"`
}

// FetchBatch issues one outbound call carrying all symbols as named
// sub-requests and returns one outcome per input symbol. Results come back
// keyed by sub-request name, not in input order, so they are re-associated
// here. A symbol with missing or malformed data yields an explicit error
// outcome rather than disappearing from the result.
//
// The call as a whole fails only when the multiplexed request itself cannot
// be completed: timeout, transport failure, or a non-success top-level
// status.
func (c *Client) FetchBatch(ctx context.Context, symbols []string) ([]provider.Outcome, error) {
	body := make(map[string]batchSubRequest, len(symbols))
	for _, symbol := range symbols {
		body[batchKeyPrefix+symbol] = batchSubRequest{
			URL: fmt.Sprintf("/time_series?symbol=%s&interval=1min&apikey=%s",
				url.QueryEscape(symbol), url.QueryEscape(c.apiKey)),
		}
	}

	var result batchResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&result).
		Post("/batch")

	if err != nil {
		return nil, provider.FromTransport(providerName, "", err)
	}
	if !resp.IsSuccess() {
		return nil, provider.NewUpstreamError(providerName, "", resp.StatusCode(), resp.String())
	}

	outcomes := make([]provider.Outcome, 0, len(symbols))
	for _, symbol := range symbols {
		member, ok := result.Data[batchKeyPrefix+symbol]
		if !ok {
			outcomes = append(outcomes, provider.Outcome{
				Symbol: quote.CanonicalSymbol(symbol),
				Err:    provider.NewNotFoundError(providerName, symbol),
			})
			continue
		}
		outcomes = append(outcomes, classifyMember(symbol, member))
	}
	return outcomes, nil
}

// classifyMember resolves a single sub-result independently of its siblings.
func classifyMember(symbol string, member batchMember) provider.Outcome {
	canonical := quote.CanonicalSymbol(symbol)

	if member.Status != "success" || member.Response.Status != "ok" || len(member.Response.Values) == 0 {
		return provider.Outcome{
			Symbol: canonical,
			Err:    provider.NewNotFoundError(providerName, symbol),
		}
	}

	latest := member.Response.Values[0]
	open, openErr := strconv.ParseFloat(latest.Open, 64)
	closePrice, closeErr := strconv.ParseFloat(latest.Close, 64)
	if openErr != nil || closeErr != nil {
		return provider.Outcome{
			Symbol: canonical,
			Err: provider.NewUnexpectedError(providerName, symbol,
				fmt.Errorf("parse values open=%q close=%q", latest.Open, latest.Close)),
		}
	}

	metaSymbol := member.Response.Meta.Symbol
	if metaSymbol == "" {
		metaSymbol = symbol
	}
	q := quote.FromOpenClose(metaSymbol, member.Response.Meta.Currency, open, closePrice)
	return provider.Outcome{Symbol: q.Symbol, Quote: q}
}
