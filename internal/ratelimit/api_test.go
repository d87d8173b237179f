package ratelimit

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, rate float64, burst int) (*miniredis.Miniredis, *APILimiter) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewAPILimiter(client, rate, burst)
}

func TestAllowOrgExhaustsBurst(t *testing.T) {
	mr, l := newTestLimiter(t, 0.001, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := l.AllowOrg(ctx, "100")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2, res.Limit)
	}
	assert.True(t, mr.Exists("reservaspro:ratelimit:org:100"))

	res, err := l.AllowOrg(ctx, "100")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Positive(t, res.RetryAfter)
}

func TestAllowOrgIsolatesTenants(t *testing.T) {
	_, l := newTestLimiter(t, 0.001, 1)
	ctx := context.Background()

	res, err := l.AllowOrg(ctx, "100")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = l.AllowOrg(ctx, "100")
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	res, err = l.AllowOrg(ctx, "200")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestAllowOrgRejectsEmptyOrg(t *testing.T) {
	_, l := newTestLimiter(t, 1, 1)
	_, err := l.AllowOrg(context.Background(), " ")
	assert.ErrorIs(t, err, ErrMissingOrg)
}

func TestTokenBucketValidatesArguments(t *testing.T) {
	var nilBucket *TokenBucket
	_, err := nilBucket.Allow(context.Background(), "k", 1, 1)
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	bucket := NewTokenBucket(client)

	_, err = bucket.Allow(context.Background(), "k", 0, 1)
	assert.Error(t, err)
	_, err = bucket.Allow(context.Background(), "k", 1, 0)
	assert.Error(t, err)
	_, err = bucket.Allow(context.Background(), "", 1, 1)
	assert.Error(t, err)
}

func TestDefaultBucketTTL(t *testing.T) {
	assert.Equal(t, "1s", defaultBucketTTL(0, 0).String())
	assert.Equal(t, "4s", defaultBucketTTL(10, 20).String())
	assert.Equal(t, "1s", defaultBucketTTL(1000, 1).String())
}
