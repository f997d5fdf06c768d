// Package cache layers typed values with a ttl over a byte provider.
package cache

import (
	"errors"
	"time"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/service/cache/provider"
)

var (
	ErrNotFound = errors.New("cache not found")
)

// Loader produces the value for a missing key.
type Loader func() (interface{}, error)

// Codec turns values into provider bytes, json by default.
type Codec interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

type Service interface {
	// GetOrLoad fills container from cache, or from loader on a miss.
	// Concurrent misses on one key share a single loader call.
	GetOrLoad(c ctx.Ctx, key string, container interface{}, loader Loader) error
	Get(c ctx.Ctx, key string, container interface{}) error
	Set(c ctx.Ctx, key string, value interface{}) error
	Del(c ctx.Ctx, key string) error
}

type ServiceConfig struct {
	Ttl      time.Duration
	Pfx      string
	Provider provider.Provider
	Codec    Codec
}
