package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unreachable(t *testing.T) *RedisCache {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 50 * time.Millisecond,
	})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCacheFromClient(client)
}

func TestRedisCache_ConnectionErrorsAreNotMisses(t *testing.T) {
	c := unreachable(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)

	var dest map[string]int
	err = c.GetJSON(ctx, "k", &dest)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)

	assert.Error(t, c.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))

	_, err = c.Incr(ctx, "gen")
	assert.ErrorContains(t, err, "gen")
}

func TestRedisCache_SetRejectsUnmarshalableValues(t *testing.T) {
	err := unreachable(t).Set(context.Background(), "k", make(chan int), time.Minute)
	assert.ErrorContains(t, err, "failed to marshal value")
}

func TestNewRedisCache_FailsWithoutServer(t *testing.T) {
	_, err := NewRedisCache("127.0.0.1:1", "", 0)
	assert.ErrorContains(t, err, "failed to connect to Redis")
}
