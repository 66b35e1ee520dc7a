package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"stockwatch/internal/provider"
)

// writeProviderError maps a classified provider failure onto the outbound
// response. The upstream's own status and body are surfaced for diagnostics;
// unexpected causes are logged and replaced with a generic message so they
// never leak verbatim to the caller.
func (s *Server) writeProviderError(c *gin.Context, symbol string, err error) {
	var perr *provider.Error
	if !errors.As(err, &perr) {
		s.log.Error("unclassified provider failure",
			"symbol", symbol, "err", err, "request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected error fetching quote data"})
		return
	}

	switch perr.Kind {
	case provider.KindTimeout:
		c.JSON(http.StatusGatewayTimeout, gin.H{
			"error": fmt.Sprintf("request to %s timed out", perr.Provider),
		})
	case provider.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{
			"error": fmt.Sprintf("no data found for symbol %q", symbol),
		})
	case provider.KindUpstream:
		status := perr.StatusCode
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{
			"error": fmt.Sprintf("%s error: %s", perr.Provider, perr.Body),
		})
	default:
		s.log.Error("provider failure",
			"provider", perr.Provider, "symbol", symbol, "err", perr,
			"request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected error fetching quote data"})
	}
}

// outcomeMessage summarizes a per-symbol batch failure for the response.
func outcomeMessage(err error) string {
	switch provider.KindOf(err) {
	case provider.KindNotFound:
		return "no data found for symbol"
	default:
		return "invalid provider data for symbol"
	}
}
