// Package chainlink reads Chainlink aggregator feeds as price oracles.
package chainlink

import (
	"math/big"
	"strconv"
	"time"

	"github.com/x-xyz/marketplace/base/abi"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/keys"
	"github.com/x-xyz/marketplace/domain/pricefeed"
	"github.com/x-xyz/marketplace/service/cache"
	"github.com/x-xyz/marketplace/service/cache/provider"
	"github.com/x-xyz/marketplace/service/cache/provider/primitive"
	"github.com/x-xyz/marketplace/service/chain"
	"golang.org/x/xerrors"
)

const defaultTtl = 30 * time.Second

type Config struct {
	ChainId  domain.ChainId
	Address  domain.Address
	Decimals int32
	// Ttl bounds how long an answer is served from cache.
	Ttl time.Duration
	// Cache defaults to an in-process freecache.
	Cache provider.Provider
}

type impl struct {
	chainClient chain.Client
	chainId     domain.ChainId
	address     domain.Address
	decimals    int32
	cache       cache.Service
}

func New(chainClient chain.Client, cfg Config) pricefeed.Oracle {
	ttl := cfg.Ttl
	if ttl <= 0 {
		ttl = defaultTtl
	}
	p := cfg.Cache
	if p == nil {
		p = primitive.NewPrimitive("chainlink_cache", 1)
	}
	return &impl{
		chainClient: chainClient,
		chainId:     cfg.ChainId,
		address:     cfg.Address.ToLower(),
		decimals:    cfg.Decimals,
		cache: cache.New(cache.ServiceConfig{
			Ttl:      ttl,
			Pfx:      keys.PfxOracle,
			Provider: p,
		}),
	}
}

func (im *impl) Address() domain.Address {
	return im.address
}

func (im *impl) Decimals() int32 {
	return im.decimals
}

func (im *impl) LatestAnswer(c ctx.Ctx) (*big.Int, error) {
	var res big.Int

	key := keys.RedisKey(strconv.Itoa(int(im.chainId)), string(im.address), "latest")

	if err := im.cache.GetOrLoad(c, key, &res, func() (interface{}, error) {
		if res, err := im.latestAnswer(c); err != nil {
			c.WithFields(log.Fields{
				"err":     err,
				"chainId": im.chainId,
				"address": im.address,
			}).Error("latestAnswer failed")
			return nil, err
		} else {
			return res, nil
		}
	}); err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"chainId": im.chainId,
			"address": im.address,
		}).Error("cache.GetOrLoad failed")
		return nil, err
	}

	return &res, nil
}

func (im *impl) latestAnswer(c ctx.Ctx) (*big.Int, error) {
	res, err := im.chainClient.Call(c, int32(im.chainId), im.address.ToCommon(), nil, abi.ChainlinkFeedABI, "latestAnswer")
	if err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"chainId": im.chainId,
			"address": im.address,
		}).Error("chainClient.Call failed")
		return nil, xerrors.Errorf("%w: %v", domain.ErrDependencyUnresolved, err)
	}
	if len(res) == 0 {
		return nil, xerrors.Errorf("%w: empty answer from %s", domain.ErrDependencyUnresolved, im.address)
	}
	answer, ok := res[0].(*big.Int)
	if !ok {
		return nil, xerrors.Errorf("%w: unexpected answer type %T", domain.ErrDependencyUnresolved, res[0])
	}
	return answer, nil
}

// FetchDecimals asks the feed for its answer precision.
func FetchDecimals(c ctx.Ctx, chainClient chain.Client, chainId domain.ChainId, address domain.Address) (int32, error) {
	res, err := chainClient.Call(c, int32(chainId), address.ToCommon(), nil, abi.ChainlinkFeedABI, "decimals")
	if err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"chainId": chainId,
			"address": address,
		}).Error("chainClient.Call failed")
		return 0, err
	}
	if len(res) == 0 {
		return 0, xerrors.Errorf("%w: empty decimals from %s", domain.ErrDependencyUnresolved, address)
	}
	decimals, ok := res[0].(uint8)
	if !ok {
		return 0, xerrors.Errorf("%w: unexpected decimals type %T", domain.ErrDependencyUnresolved, res[0])
	}
	return int32(decimals), nil
}
