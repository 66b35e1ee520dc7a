// Package watchlist persists each user's saved stocks as JSON documents in
// Redis, one hash per user keyed by document id.
package watchlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"stockwatch/internal/quote"
)

// ErrNotFound is returned when a delete targets an entry that does not
// exist.
var ErrNotFound = errors.New("watchlist: entry not found")

// Entry is one saved stock for one user.
type Entry struct {
	ID     string      `json:"id"`
	UserID string      `json:"userId"`
	Stock  quote.Quote `json:"stock"`
}

// EntryID derives the document id for a (symbol, user) pair. The same pair
// always maps to the same id, which is what makes writes upserts rather than
// inserts: saving the same stock twice overwrites instead of duplicating.
func EntryID(symbol, userID string) string {
	return fmt.Sprintf("%s-%s", quote.CanonicalSymbol(symbol), userID)
}

// Store is the Redis-backed document store for watchlist entries.
type Store struct {
	client *redis.Client
}

// NewStore creates a store on top of an established Redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func userKey(userID string) string {
	return "watchlist:" + userID
}

// Upsert writes the entry for (stock.Symbol, userID), overwriting any
// previous version, and returns the stored document.
func (s *Store) Upsert(ctx context.Context, userID string, stock quote.Quote) (Entry, error) {
	entry := Entry{
		ID:     EntryID(stock.Symbol, userID),
		UserID: userID,
		Stock:  stock,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return Entry{}, fmt.Errorf("marshal entry: %w", err)
	}
	if err := s.client.HSet(ctx, userKey(userID), entry.ID, data).Err(); err != nil {
		return Entry{}, fmt.Errorf("store entry %s: %w", entry.ID, err)
	}
	return entry, nil
}

// List returns all entries saved by one user, ordered by id for stable
// output (hash field order is not).
func (s *Store) List(ctx context.Context, userID string) ([]Entry, error) {
	fields, err := s.client.HGetAll(ctx, userKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list entries for %s: %w", userID, err)
	}

	entries := make([]Entry, 0, len(fields))
	for id, raw := range fields {
		var entry Entry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			return nil, fmt.Errorf("decode entry %s: %w", id, err)
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

// Delete removes one entry by its composite (id, userID) key.
func (s *Store) Delete(ctx context.Context, userID, id string) error {
	removed, err := s.client.HDel(ctx, userKey(userID), id).Result()
	if err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}
