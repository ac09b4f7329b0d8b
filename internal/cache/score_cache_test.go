package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/heartline/heartline/backend/internal/compatibility"
	"github.com/heartline/heartline/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreCache_NilClientIsNoop(t *testing.T) {
	ctx := context.Background()
	c := NewScoreCache(nil, 0)
	a, b := uuid.New(), uuid.New()

	require.NoError(t, c.Set(ctx, a, b, compatibility.Result{Score: 80}))
	got, err := c.Get(ctx, a, b)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.InvalidateUser(ctx, a))

	var unset *ScoreCache
	got, err = unset.Get(ctx, a, b)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestScoreCache_Redis(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	ctx := context.Background()
	c := NewScoreCache(client, time.Minute)

	a, b, other := uuid.New(), uuid.New(), uuid.New()
	ab := compatibility.Result{Score: 75, Breakdown: compatibility.Breakdown{Personality: 100, Lifestyle: 100, DealBreaker: 0}}
	ba := compatibility.Result{Score: 100, Breakdown: compatibility.Breakdown{Personality: 100, Lifestyle: 100, DealBreaker: 100}}

	require.NoError(t, c.Set(ctx, a, b, ab))
	require.NoError(t, c.Set(ctx, b, a, ba))
	require.NoError(t, c.Set(ctx, b, other, ba))

	got, err := c.Get(ctx, a, b)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ab, *got)

	got, err = c.Get(ctx, b, a)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 100, got.Score, "pairs are ordered")

	require.NoError(t, c.InvalidateUser(ctx, a))

	got, err = c.Get(ctx, a, b)
	require.NoError(t, err)
	assert.Nil(t, got)
	got, err = c.Get(ctx, b, a)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = c.Get(ctx, b, other)
	require.NoError(t, err)
	assert.NotNil(t, got, "unrelated pairs survive")
}
