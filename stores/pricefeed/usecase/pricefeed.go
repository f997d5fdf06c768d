package usecase

import (
	"math/big"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/event"
	"github.com/x-xyz/marketplace/domain/pricefeed"
	"github.com/x-xyz/marketplace/domain/registry"
	"golang.org/x/xerrors"
)

type PriceFeedUseCaseCfg struct {
	Address  domain.Address
	Admins   domain.Admins
	Registry registry.AddressRegistry
	Emitter  event.Emitter
	// WrappedNative is quoted when the empty token is asked for.
	WrappedNative domain.Address
}

type impl struct {
	address       domain.Address
	admins        domain.Admins
	registry      registry.AddressRegistry
	emitter       event.Emitter
	wrappedNative domain.Address
	mu            sync.RWMutex
	oracles       map[domain.Address]domain.Address
}

func New(cfg *PriceFeedUseCaseCfg) pricefeed.PriceFeed {
	return &impl{
		address:       cfg.Address.ToLower(),
		admins:        cfg.Admins,
		registry:      cfg.Registry,
		emitter:       cfg.Emitter,
		wrappedNative: cfg.WrappedNative.ToLower(),
		oracles:       make(map[domain.Address]domain.Address),
	}
}

func (im *impl) RegisterOracle(c ctx.Ctx, caller, token, oracle domain.Address) error {
	if !im.admins.Contains(caller) {
		return domain.ErrUnauthorized
	}
	token, oracle = token.ToLower(), oracle.ToLower()

	tokens, err := im.registry.TokenRegistry(c)
	if err != nil {
		c.WithField("err", err).Error("registry.TokenRegistry failed")
		return err
	}
	if !tokens.Enabled(c, token) {
		return xerrors.Errorf("%w: %s", domain.ErrNotWhitelisted, token)
	}
	if _, err := im.registry.Oracle(c, oracle); err != nil {
		c.WithFields(log.Fields{"err": err, "oracle": oracle}).Error("registry.Oracle failed")
		return err
	}

	im.mu.Lock()
	if _, ok := im.oracles[token]; ok {
		im.mu.Unlock()
		return xerrors.Errorf("%w: oracle for %s already registered", domain.ErrInvalidParameters, token)
	}
	im.oracles[token] = oracle
	im.mu.Unlock()

	im.emitter.Emit(c, im.address, event.OracleRegistered, event.OraclePayload{Token: token, Oracle: oracle})
	return nil
}

func (im *impl) UpdateOracle(c ctx.Ctx, caller, token, oracle domain.Address) error {
	if !im.admins.Contains(caller) {
		return domain.ErrUnauthorized
	}
	token, oracle = token.ToLower(), oracle.ToLower()

	if _, err := im.registry.Oracle(c, oracle); err != nil {
		c.WithFields(log.Fields{"err": err, "oracle": oracle}).Error("registry.Oracle failed")
		return err
	}

	im.mu.Lock()
	if _, ok := im.oracles[token]; !ok {
		im.mu.Unlock()
		return xerrors.Errorf("%w: no oracle registered for %s", domain.ErrInvalidParameters, token)
	}
	im.oracles[token] = oracle
	im.mu.Unlock()

	im.emitter.Emit(c, im.address, event.OracleUpdated, event.OraclePayload{Token: token, Oracle: oracle})
	return nil
}

func (im *impl) FindAll(c ctx.Ctx) ([]pricefeed.Record, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	res := make([]pricefeed.Record, 0, len(im.oracles))
	for token, oracle := range im.oracles {
		res = append(res, pricefeed.Record{Token: token, Oracle: oracle})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Token < res[j].Token })
	return res, nil
}

func (im *impl) GetPrice(c ctx.Ctx, token domain.Address) (pricefeed.Price, error) {
	if token.IsEmpty() {
		token = im.wrappedNative
	}

	im.mu.RLock()
	oracleAddr, ok := im.oracles[token.ToLower()]
	im.mu.RUnlock()
	if !ok {
		return pricefeed.Price{Answer: big.NewInt(0)}, nil
	}

	oracle, err := im.registry.Oracle(c, oracleAddr)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "oracle": oracleAddr}).Error("registry.Oracle failed")
		return pricefeed.Price{}, err
	}
	answer, err := oracle.LatestAnswer(c)
	if err != nil {
		c.WithFields(log.Fields{
			"err":    err,
			"token":  token,
			"oracle": oracleAddr,
		}).Error("oracle.LatestAnswer failed")
		return pricefeed.Price{}, err
	}
	return pricefeed.Price{Answer: answer, Decimals: oracle.Decimals()}, nil
}

func (im *impl) Quote(c ctx.Ctx, token domain.Address, amount *big.Int) (decimal.Decimal, error) {
	if amount == nil || amount.Sign() < 0 {
		return decimal.Zero, domain.ErrInvalidParameters
	}
	price, err := im.GetPrice(c, token)
	if err != nil {
		return decimal.Zero, err
	}
	if price.Answer.Sign() == 0 {
		return decimal.Zero, nil
	}

	if token.IsEmpty() {
		token = im.wrappedNative
	}
	cur, err := im.registry.Currency(c, token)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "token": token}).Error("registry.Currency failed")
		return decimal.Zero, err
	}

	return decimal.NewFromBigInt(amount, -cur.Decimals()).Mul(price.Value()), nil
}
