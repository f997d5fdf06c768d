// Package redis is a thin metered client over a redigo pool, used as the
// shared layer of the oracle answer cache.
package redis

import (
	"errors"
	"time"

	"github.com/x-xyz/marketplace/base/ctx"
)

// Forever stores a key without expiry.
const Forever time.Duration = -1

var (
	// ErrNotFound is returned for a missing key.
	ErrNotFound = errors.New("redis: key not found")
	// ErrNoTTL is returned by TTL for a key without expiry.
	ErrNoTTL = errors.New("redis: key has no ttl")
)

type Service interface {
	Get(c ctx.Ctx, key string) ([]byte, error)
	Set(c ctx.Ctx, key string, val []byte, expire time.Duration) error
	Del(c ctx.Ctx, keys ...string) (int, error)
	// TTL is the remaining lifetime of key.
	TTL(c ctx.Ctx, key string) (time.Duration, error)
}
