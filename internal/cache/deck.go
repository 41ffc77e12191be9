// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// deck.go keeps each account's most recent normalized deck in Valkey.
// Presentation generation and the local preview read from here, so a user
// can structure text once and restyle or re-render it without another
// model invocation.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"deckpress/internal/models"
)

const (
	// deckKeyPrefix namespaces per-user deck keys in Valkey.
	deckKeyPrefix = "deck:last:"

	// DefaultDeckTTL is how long a structured deck stays available for
	// follow-up presentation rendering.
	DefaultDeckTTL = time.Hour
)

// DeckCache stores the last normalized deck per account.
type DeckCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDeckCache creates a deck cache backed by the given Valkey client.
func NewDeckCache(client *redis.Client, ttl time.Duration) *DeckCache {
	if ttl == 0 {
		ttl = DefaultDeckTTL
	}
	return &DeckCache{client: client, ttl: ttl}
}

// Get retrieves the user's last deck. Returns nil on miss or any error;
// callers fall back to requiring a deck in the request body.
func (dc *DeckCache) Get(ctx context.Context, userID uuid.UUID) *models.Deck {
	payload, err := dc.client.Get(ctx, deckKeyPrefix+userID.String()).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		slog.Warn("deck cache get error", "user_id", userID, "error", err)
		return nil
	}

	var deck models.Deck
	if err := json.Unmarshal(payload, &deck); err != nil {
		slog.Warn("deck cache unmarshal error", "user_id", userID, "error", err)
		return nil
	}
	return &deck
}

// Set stores the user's last deck with the configured TTL. Failures are
// logged and swallowed; caching is never on the request's critical path.
func (dc *DeckCache) Set(ctx context.Context, userID uuid.UUID, deck *models.Deck) {
	payload, err := json.Marshal(deck)
	if err != nil {
		slog.Warn("deck cache marshal error", "user_id", userID, "error", err)
		return
	}
	if err := dc.client.Set(ctx, deckKeyPrefix+userID.String(), payload, dc.ttl).Err(); err != nil {
		slog.Warn("deck cache set error", "user_id", userID, "error", err)
	}
}

// Invalidate drops the user's cached deck.
func (dc *DeckCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if err := dc.client.Del(ctx, deckKeyPrefix+userID.String()).Err(); err != nil {
		slog.Warn("deck cache invalidate error", "user_id", userID, "error", err)
	}
}
