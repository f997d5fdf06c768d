package main

import (
	"math/big"
	"time"

	"github.com/spf13/viper"

	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/collection"
	"github.com/x-xyz/marketplace/domain/registry"
	"github.com/x-xyz/marketplace/service/erc20"
	"golang.org/x/xerrors"
)

type staticOracleCfg struct {
	Token    domain.Address `mapstructure:"token"`
	Address  domain.Address `mapstructure:"address"`
	Decimals int32          `mapstructure:"decimals"`
	Answer   string         `mapstructure:"answer"`
}

type chainlinkOracleCfg struct {
	Token   domain.Address `mapstructure:"token"`
	Address domain.Address `mapstructure:"address"`
	ChainId int32          `mapstructure:"chainId"`
	// Decimals is read from the feed when zero.
	Decimals int32 `mapstructure:"decimals"`
}

type factoryCfg struct {
	Address      domain.Address `mapstructure:"address"`
	MintFee      string         `mapstructure:"mintFee"`
	PlatformFee  string         `mapstructure:"platformFee"`
	FeeRecipient domain.Address `mapstructure:"feeRecipient"`
	FeeCurrency  domain.Address `mapstructure:"feeCurrency"`
}

func (f factoryCfg) fees() (collection.FactoryFees, error) {
	mintFee, err := parseAmount(f.MintFee)
	if err != nil {
		return collection.FactoryFees{}, err
	}
	platformFee, err := parseAmount(f.PlatformFee)
	if err != nil {
		return collection.FactoryFees{}, err
	}
	return collection.FactoryFees{
		MintFee:      mintFee,
		PlatformFee:  platformFee,
		FeeRecipient: f.FeeRecipient,
		FeeCurrency:  f.FeeCurrency,
	}, nil
}

// factoryKinds lists the factory roles with the collections they deploy.
var factoryKinds = []struct {
	role    registry.Role
	kind    collection.Kind
	private bool
}{
	{registry.RoleFactory, collection.KindSingle, false},
	{registry.RolePrivateFactory, collection.KindSingle, true},
	{registry.RoleArtFactory, collection.KindMulti, false},
	{registry.RolePrivateArtFactory, collection.KindMulti, true},
}

func parseAmount(s string) (*big.Int, error) {
	if len(s) == 0 {
		return big.NewInt(0), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, xerrors.Errorf("%w: amount %q", domain.ErrInvalidParameters, s)
	}
	return v, nil
}

func mustUnmarshal(key string, out interface{}) {
	if err := viper.UnmarshalKey(key, out); err != nil {
		panic(xerrors.Errorf("config %s: %w", key, err))
	}
}

func feeConfig(key string) domain.FeeConfig {
	fee := domain.FeeConfig{}
	mustUnmarshal(key, &fee)
	if err := fee.Validate(); err != nil {
		panic(xerrors.Errorf("config %s: %w", key, err))
	}
	return fee
}

func currencyConfigs() []erc20.Config {
	cfgs := []erc20.Config{}
	mustUnmarshal("currencies", &cfgs)
	return cfgs
}

func address(key string) domain.Address {
	return domain.Address(viper.GetString(key)).ToLower()
}

func duration(key string, fallback time.Duration) time.Duration {
	if !viper.IsSet(key) {
		return fallback
	}
	return viper.GetDuration(key)
}
