package cache

import (
	"context"
	"time"
)

// Blacklist remembers revoked access token ids until the token would have
// expired anyway.
type Blacklist struct {
	store Store
	now   func() time.Time
}

func NewBlacklist(store Store) *Blacklist {
	return &Blacklist{store: store, now: time.Now}
}

func (b *Blacklist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(b.now())
	if ttl <= 0 {
		return nil
	}
	return b.store.SetFlag(ctx, "blacklist:"+jti, ttl)
}

func (b *Blacklist) Revoked(ctx context.Context, jti string) (bool, error) {
	return b.store.HasFlag(ctx, "blacklist:"+jti)
}
