package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist remembers session token ids that were logged out before their
// natural expiry.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// NopDenylist is used without Redis; logout then relies on the cleared
// cookie alone.
type NopDenylist struct{}

func (NopDenylist) Revoke(context.Context, string, time.Time) error { return nil }
func (NopDenylist) IsRevoked(context.Context, string) (bool, error) { return false, nil }

// RedisDenylist stores one key per revoked token, expiring with the token.
type RedisDenylist struct {
	rdb    *redis.Client
	prefix string
	now    func() time.Time
}

// NewDenylist returns a Redis-backed deny-list, or NopDenylist when rdb is nil.
func NewDenylist(rdb *redis.Client, prefix string) Denylist {
	if rdb == nil {
		return NopDenylist{}
	}
	return &RedisDenylist{rdb: rdb, prefix: prefix, now: time.Now}
}

func (d *RedisDenylist) key(id string) string { return d.prefix + ":" + id }

func (d *RedisDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	return d.rdb.Set(ctx, d.key(tokenID), 1, ttl).Err()
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := d.rdb.Get(ctx, d.key(tokenID)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
