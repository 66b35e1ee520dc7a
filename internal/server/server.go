// Package server is the HTTP gateway: it validates inbound requests,
// establishes the caller identity, dispatches to the provider adapters or the
// watchlist store, and maps every failure onto one of the response categories.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"stockwatch/internal/auth"
	"stockwatch/internal/provider"
	"stockwatch/internal/quote"
	"stockwatch/internal/twelvedata"
	"stockwatch/internal/watchlist"
)

// PriceSource is the time-series provider: single price lookups, symbol
// reference data, and the multiplexed batch call.
type PriceSource interface {
	FetchQuote(ctx context.Context, symbol string) (quote.Quote, error)
	LookupSymbol(ctx context.Context, symbol string) (twelvedata.SymbolInfo, error)
	FetchBatch(ctx context.Context, symbols []string) ([]provider.Outcome, error)
}

// DetailSource is the quote/profile provider used for enriched single-symbol
// lookups.
type DetailSource interface {
	FetchQuote(ctx context.Context, symbol string) (quote.Quote, error)
}

// WatchlistStore persists the per-user stock documents.
type WatchlistStore interface {
	Upsert(ctx context.Context, userID string, stock quote.Quote) (watchlist.Entry, error)
	List(ctx context.Context, userID string) ([]watchlist.Entry, error)
	Delete(ctx context.Context, userID, id string) error
}

// Options collects the collaborators a Server needs.
type Options struct {
	Logger       *slog.Logger
	Verifier     auth.Verifier
	Prices       PriceSource
	Details      DetailSource
	Watchlist    WatchlistStore
	AllowOrigins []string
}

// Server routes inbound HTTP requests to the providers and the store.
type Server struct {
	log       *slog.Logger
	verifier  auth.Verifier
	prices    PriceSource
	details   DetailSource
	watchlist WatchlistStore
	origins   []string
}

// New creates a Server from its collaborators.
func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		log:       log,
		verifier:  opts.Verifier,
		prices:    opts.Prices,
		details:   opts.Details,
		watchlist: opts.Watchlist,
		origins:   opts.AllowOrigins,
	}
}

// Router builds the gin engine with all routes registered. Everything under
// /api requires a bearer token; /health is public for the hosting platform.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), s.requestLogger())

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(s.origins) == 0 || (len(s.origins) == 1 && s.origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.origins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", s.health)

	api := r.Group("/api", s.requireIdentity())
	api.GET("/quotes/price", s.getPrice)
	api.POST("/quotes/price", s.getPrice)
	api.GET("/quotes/lookup", s.lookupSymbol)
	api.GET("/quotes/detail", s.getDetail)
	api.POST("/quotes/detail", s.getDetail)
	api.GET("/quotes/batch", s.getBatch)
	api.POST("/quotes/batch", s.getBatch)
	api.GET("/watchlist", s.listWatchlist)
	api.POST("/watchlist", s.upsertWatchlist)
	api.DELETE("/watchlist", s.deleteWatchlist)

	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
