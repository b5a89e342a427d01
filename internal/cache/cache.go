// Package cache holds short-lived counters and flags: the access token
// blacklist and the PIN attempt counter. Redis backs it in deployments with
// REDIS_ADDR set, an in-process map otherwise.
package cache

import (
	"context"
	"time"
)

type Store interface {
	// Incr bumps the counter at key, starting its ttl on first increment.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// Count returns the counter at key, zero when absent or expired.
	Count(ctx context.Context, key string) (int64, error)
	SetFlag(ctx context.Context, key string, ttl time.Duration) error
	HasFlag(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}
