package cache

import (
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/base/metrics"
	"github.com/x-xyz/marketplace/domain/keys"
	"github.com/x-xyz/marketplace/service/cache/provider"
)

var met = metrics.New("cache")

type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }

type impl struct {
	ttl      time.Duration
	pfx      string
	provider provider.Provider
	codec    Codec
	group    singleflight.Group
}

func New(config ServiceConfig) Service {
	codec := config.Codec
	if codec == nil {
		codec = jsonCodec{}
	}
	return &impl{
		ttl:      config.Ttl,
		pfx:      config.Pfx,
		provider: config.Provider,
		codec:    codec,
	}
}

func (im *impl) GetOrLoad(c ctx.Ctx, key string, container interface{}, loader Loader) error {
	err := im.Get(c, key, container)
	if err == nil {
		met.BumpSum("hit", 1, "pfx", im.pfx)
		return nil
	} else if err != ErrNotFound {
		return err
	}
	met.BumpSum("miss", 1, "pfx", im.pfx)

	raw, err, shared := im.group.Do(key, func() (interface{}, error) {
		val, err := loader()
		if err != nil {
			return nil, err
		}
		data, err := im.codec.Marshal(val)
		if err != nil {
			return nil, err
		}
		if err := im.provider.Set(c, keys.RedisKey(im.pfx, key), data, im.ttl); err != nil {
			// the loaded value is still served
			c.WithFields(log.Fields{"err": err, "key": key}).Warn("provider.Set failed")
		}
		return data, nil
	})
	if err != nil {
		c.WithFields(log.Fields{"err": err, "key": key, "shared": shared}).Error("loader failed")
		return err
	}
	if err := im.codec.Unmarshal(raw.([]byte), container); err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("codec.Unmarshal failed")
		return err
	}
	return nil
}

func (im *impl) Get(c ctx.Ctx, key string, container interface{}) error {
	key = keys.RedisKey(im.pfx, key)

	val, _, err := im.provider.Get(c, key)
	if err == provider.ErrNotFound {
		return ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("provider.Get failed")
		return err
	}
	if err := im.codec.Unmarshal(val, container); err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("codec.Unmarshal failed")
		return err
	}
	return nil
}

func (im *impl) Set(c ctx.Ctx, key string, value interface{}) error {
	key = keys.RedisKey(im.pfx, key)

	val, err := im.codec.Marshal(value)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("codec.Marshal failed")
		return err
	}
	if err := im.provider.Set(c, key, val, im.ttl); err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("provider.Set failed")
		return err
	}
	return nil
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	key = keys.RedisKey(im.pfx, key)

	if err := im.provider.Del(c, key); err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("provider.Del failed")
		return err
	}
	return nil
}
