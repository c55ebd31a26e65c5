package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCacheFromClient(client, "test:"), mr
}

type payload struct {
	Authors []string `json:"authors"`
	Years   []int    `json:"years"`
}

func TestRedisCacheSetGet(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	in := payload{Authors: []string{"Pramoedya"}, Years: []int{2024, 1980}}
	require.NoError(t, c.Set(ctx, "books:filters", in, time.Minute))
	assert.True(t, mr.Exists("test:books:filters"))

	var out payload
	found, err := c.Get(ctx, "books:filters", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)

	mr.FastForward(2 * time.Minute)
	found, err = c.Get(ctx, "books:filters", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCacheMiss(t *testing.T) {
	c, _ := newTestCache(t)

	var out payload
	found, err := c.Get(context.Background(), "nope", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCacheDeletePattern(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "books:filters", 1, 0))
	require.NoError(t, c.Set(ctx, "books:list:a", 1, 0))
	require.NoError(t, c.Set(ctx, "members:filters", 1, 0))

	require.NoError(t, c.DeletePattern(ctx, "books:*"))

	assert.False(t, mr.Exists("test:books:filters"))
	assert.False(t, mr.Exists("test:books:list:a"))
	assert.True(t, mr.Exists("test:members:filters"))
}

func TestRedisCacheCounters(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	n, err := c.Increment(ctx, "login:fail:a@b.c")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = c.Increment(ctx, "login:fail:a@b.c")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, c.Expire(ctx, "login:fail:a@b.c", 15*time.Minute))
	ttl, err := c.TTL(ctx, "login:fail:a@b.c")
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, ttl)

	ok, err := c.Exists(ctx, "login:fail:a@b.c")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, "login:fail:a@b.c"))
	ok, err = c.Exists(ctx, "login:fail:a@b.c")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCachePingAfterClose(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, c.Ping(context.Background()))

	mr.Close()
	assert.Error(t, c.Ping(context.Background()))
}
