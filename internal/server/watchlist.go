package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"stockwatch/internal/quote"
	"stockwatch/internal/watchlist"
)

// listWatchlist returns every entry saved by one user.
func (s *Server) listWatchlist(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'userId' query parameter"})
		return
	}

	entries, err := s.watchlist.List(c.Request.Context(), userID)
	if err != nil {
		s.log.Error("list watchlist", "userId", userID, "err", err,
			"request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch watchlist"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

type upsertRequest struct {
	UserID string       `json:"userId"`
	Stock  *quote.Quote `json:"stock"`
}

// upsertWatchlist saves one stock for one user. Repeating the write for the
// same (symbol, userId) overwrites the previous document.
func (s *Server) upsertWatchlist(c *gin.Context) {
	var body upsertRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if body.UserID == "" || body.Stock == nil || body.Stock.Symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing userId or stock data in request body"})
		return
	}

	entry, err := s.watchlist.Upsert(c.Request.Context(), body.UserID, *body.Stock)
	if err != nil {
		s.log.Error("save watchlist entry", "userId", body.UserID, "err", err,
			"request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save stock"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "stock saved", "data": entry})
}

// deleteWatchlist removes one entry, addressed either by its document id or
// by symbol (from which the id is derived).
func (s *Server) deleteWatchlist(c *gin.Context) {
	userID := c.Query("userId")
	id := c.Query("stockId")
	if id == "" {
		if symbol := c.Query("stockSymbol"); symbol != "" {
			id = watchlist.EntryID(symbol, userID)
		}
	}
	if userID == "" || id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'userId' or 'stockId'/'stockSymbol' query parameters"})
		return
	}

	err := s.watchlist.Delete(c.Request.Context(), userID, id)
	switch {
	case errors.Is(err, watchlist.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no watchlist entry %q for user %q", id, userID)})
	case err != nil:
		s.log.Error("delete watchlist entry", "userId", userID, "id", id, "err", err,
			"request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete stock"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("stock %q deleted", id)})
	}
}
