// Package cache stores computed compatibility scores in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/heartline/heartline/backend/internal/compatibility"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultScoreTTL = time.Hour

	scoreKeyPrefix = "compat:score"
	userKeyPrefix  = "compat:user"
)

// ScoreCache caches compatibility results per ordered user pair. The pair is
// ordered because the score is not symmetric. A nil client turns every
// operation into a no-op.
type ScoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewScoreCache(client *redis.Client, ttl time.Duration) *ScoreCache {
	if ttl <= 0 {
		ttl = DefaultScoreTTL
	}
	return &ScoreCache{client: client, ttl: ttl}
}

func scoreKey(a, b uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", scoreKeyPrefix, a, b)
}

// userKey names the set of score keys a user takes part in.
func userKey(id uuid.UUID) string {
	return fmt.Sprintf("%s:%s", userKeyPrefix, id)
}

// Get returns the cached result for (a, b). A miss is reported as (nil, nil).
func (c *ScoreCache) Get(ctx context.Context, a, b uuid.UUID) (*compatibility.Result, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}

	raw, err := c.client.Get(ctx, scoreKey(a, b)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached score: %w", err)
	}

	var result compatibility.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode cached score: %w", err)
	}
	return &result, nil
}

func (c *ScoreCache) Set(ctx context.Context, a, b uuid.UUID, result compatibility.Result) error {
	if c == nil || c.client == nil {
		return nil
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode score: %w", err)
	}

	key := scoreKey(a, b)
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, payload, c.ttl)
	for _, id := range []uuid.UUID{a, b} {
		pipe.SAdd(ctx, userKey(id), key)
		pipe.Expire(ctx, userKey(id), c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache score: %w", err)
	}
	return nil
}

// InvalidateUser drops every cached score involving userID.
func (c *ScoreCache) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}

	setKey := userKey(userID)
	keys, err := c.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list cached scores: %w", err)
	}

	if err := c.client.Del(ctx, append(keys, setKey)...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached scores: %w", err)
	}
	return nil
}
