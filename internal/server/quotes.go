package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stockwatch/internal/quote"
)

// symbolFromRequest reads the symbol from the query string or, on POST, from
// the JSON body. A missing symbol is the caller's problem, never a panic.
func symbolFromRequest(c *gin.Context) string {
	symbol := c.Query("symbol")
	if symbol == "" && c.Request.Method == http.MethodPost {
		var body struct {
			Symbol string `json:"symbol"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			symbol = body.Symbol
		}
	}
	return strings.TrimSpace(symbol)
}

// symbolsFromRequest reads a symbol list from a comma-separated query
// parameter or a JSON body.
func symbolsFromRequest(c *gin.Context) []string {
	if raw := c.Query("symbols"); raw != "" {
		parts := strings.Split(raw, ",")
		symbols := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				symbols = append(symbols, p)
			}
		}
		return symbols
	}

	if c.Request.Method == http.MethodPost {
		var body struct {
			Symbols []string `json:"symbols"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			symbols := make([]string, 0, len(body.Symbols))
			for _, s := range body.Symbols {
				if s = strings.TrimSpace(s); s != "" {
					symbols = append(symbols, s)
				}
			}
			return symbols
		}
	}
	return nil
}

// getPrice handles single-symbol price lookups against the time-series
// provider.
func (s *Server) getPrice(c *gin.Context) {
	symbol := symbolFromRequest(c)
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'symbol' query parameter or body field"})
		return
	}

	q, err := s.prices.FetchQuote(c.Request.Context(), symbol)
	if err != nil {
		s.writeProviderError(c, symbol, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// lookupSymbol handles symbol reference lookups.
func (s *Server) lookupSymbol(c *gin.Context) {
	symbol := strings.TrimSpace(c.Query("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'symbol' query parameter"})
		return
	}

	info, err := s.prices.LookupSymbol(c.Request.Context(), symbol)
	if err != nil {
		s.writeProviderError(c, symbol, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// getDetail handles enriched single-symbol lookups against the quote/profile
// provider.
func (s *Server) getDetail(c *gin.Context) {
	symbol := symbolFromRequest(c)
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'symbol' query parameter or body field"})
		return
	}

	q, err := s.details.FetchQuote(c.Request.Context(), symbol)
	if err != nil {
		s.writeProviderError(c, symbol, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// batchEntry is one symbol's slot in a batch response. Quote and Error are
// mutually exclusive; failed symbols stay present instead of disappearing.
type batchEntry struct {
	Symbol string       `json:"symbol"`
	Quote  *quote.Quote `json:"quote,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// getBatch handles multi-symbol lookups multiplexed into one provider call.
func (s *Server) getBatch(c *gin.Context) {
	symbols := symbolsFromRequest(c)
	if len(symbols) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'symbols' query parameter or body field"})
		return
	}

	outcomes, err := s.prices.FetchBatch(c.Request.Context(), symbols)
	if err != nil {
		s.writeProviderError(c, strings.Join(symbols, ","), err)
		return
	}

	results := make([]batchEntry, 0, len(outcomes))
	for _, outcome := range outcomes {
		entry := batchEntry{Symbol: outcome.Symbol}
		if outcome.Err != nil {
			entry.Error = outcomeMessage(outcome.Err)
		} else {
			q := outcome.Quote
			entry.Quote = &q
		}
		results = append(results, entry)
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
