package primitive

import (
	"time"

	"github.com/coocood/freecache"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/service/cache/provider"
)

var timeNow = time.Now

// impl keeps entries in an in-process freecache. ttl has second resolution.
type impl struct {
	name  string
	cache *freecache.Cache
}

// NewPrimitive allocates a freecache of sizeMB megabytes.
func NewPrimitive(name string, sizeMB int) provider.Provider {
	if sizeMB <= 0 {
		sizeMB = 1
	}
	return &impl{name, freecache.NewCache(sizeMB * 1024 * 1024)}
}

func (im *impl) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	val, expireAt, err := im.cache.GetWithExpiration([]byte(key))
	if err == freecache.ErrNotFound {
		return nil, 0, provider.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "cache": im.name, "key": key}).Error("freecache.GetWithExpiration failed")
		return nil, 0, err
	}
	if expireAt == 0 {
		return val, 0, nil
	}
	ttl := time.Unix(int64(expireAt), 0).Sub(timeNow())
	if ttl < time.Second {
		ttl = time.Second
	}
	return val, ttl, nil
}

func (im *impl) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	secs := 0
	if ttl > 0 {
		// round up so that sub-second ttl does not become no expiry
		secs = int((ttl + time.Second - 1) / time.Second)
	}
	if err := im.cache.Set([]byte(key), value, secs); err != nil {
		c.WithFields(log.Fields{"err": err, "cache": im.name, "key": key}).Error("freecache.Set failed")
		return err
	}
	return nil
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	im.cache.Del([]byte(key))
	return nil
}
