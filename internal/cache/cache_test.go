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

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "test:"), mr
}

func TestRedisStoreCounters(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	n, err := s.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = s.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, time.Minute, mr.TTL("test:k"))

	mr.FastForward(time.Minute)
	n, err = s.Count(ctx, "k")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisStoreIncrRestoresMissingTTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	require.NoError(t, mr.Set("test:k", "4"))
	assert.Zero(t, mr.TTL("test:k"))

	n, err := s.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)
	assert.Equal(t, time.Minute, mr.TTL("test:k"))

	mr.FastForward(time.Minute)
	n, err = s.Count(ctx, "k")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisStoreFlags(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	require.NoError(t, s.SetFlag(ctx, "f", time.Second))
	ok, err := s.HasFlag(ctx, "f")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Second)
	ok, err = s.HasFlag(ctx, "f")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Now()
	s.now = func() time.Time { return now }

	_, err := s.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.NoError(t, s.SetFlag(ctx, "f", time.Minute))

	now = now.Add(time.Minute)
	n, err := s.Count(ctx, "k")
	require.NoError(t, err)
	assert.Zero(t, n)
	ok, err := s.HasFlag(ctx, "f")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBlacklist(t *testing.T) {
	ctx := context.Background()
	s, _ := newRedisStore(t)
	b := NewBlacklist(s)

	require.NoError(t, b.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))
	require.NoError(t, b.Revoke(ctx, "jti-old", time.Now().Add(-time.Minute)))

	revoked, err := b.Revoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	revoked, err = b.Revoked(ctx, "jti-old")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestAttemptLimiter(t *testing.T) {
	for name, store := range map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  func() Store { s, _ := newRedisStore(t); return s }(),
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			l := NewAttemptLimiter(store, "pin", 2, time.Minute)

			for i := 0; i < 2; i++ {
				blocked, err := l.Blocked(ctx, "10.0.0.1")
				require.NoError(t, err)
				assert.False(t, blocked)
				require.NoError(t, l.Fail(ctx, "10.0.0.1"))
			}
			blocked, err := l.Blocked(ctx, "10.0.0.1")
			require.NoError(t, err)
			assert.True(t, blocked)

			blocked, err = l.Blocked(ctx, "10.0.0.2")
			require.NoError(t, err)
			assert.False(t, blocked)

			require.NoError(t, l.Reset(ctx, "10.0.0.1"))
			blocked, err = l.Blocked(ctx, "10.0.0.1")
			require.NoError(t, err)
			assert.False(t, blocked)
		})
	}
}
