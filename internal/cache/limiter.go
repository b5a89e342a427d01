package cache

import (
	"context"
	"time"
)

// AttemptLimiter counts failures per key in a fixed window.
type AttemptLimiter struct {
	store  Store
	max    int64
	window time.Duration
	prefix string
}

func NewAttemptLimiter(store Store, prefix string, max int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{store: store, prefix: prefix + ":", max: int64(max), window: window}
}

// Blocked reports whether key has used up its failures for the window.
func (l *AttemptLimiter) Blocked(ctx context.Context, key string) (bool, error) {
	n, err := l.store.Count(ctx, l.prefix+key)
	if err != nil {
		return false, err
	}
	return n >= l.max, nil
}

func (l *AttemptLimiter) Fail(ctx context.Context, key string) error {
	_, err := l.store.Incr(ctx, l.prefix+key, l.window)
	return err
}

func (l *AttemptLimiter) Reset(ctx context.Context, key string) error {
	return l.store.Delete(ctx, l.prefix+key)
}
