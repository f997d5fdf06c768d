package usecase

import (
	"math/big"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/base/metrics"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/collection"
	"github.com/x-xyz/marketplace/domain/event"
	"github.com/x-xyz/marketplace/domain/registry"
	"github.com/x-xyz/marketplace/service/nft"
	"golang.org/x/xerrors"
)

var met metrics.Service

// engineRoles are approved as operators on every deployed collection.
var engineRoles = []registry.Role{
	registry.RoleAuction,
	registry.RoleMarketplace,
	registry.RoleBundleMarketplace,
}

type FactoryUseCaseCfg struct {
	Address  domain.Address
	Kind     collection.Kind
	Private  bool
	Admins   domain.Admins
	Registry registry.AddressRegistry
	Emitter  event.Emitter
	Fees     collection.FactoryFees
	// Treasury receives the mint fee of deployed collections.
	Treasury domain.Address
}

type impl struct {
	address  domain.Address
	kind     collection.Kind
	private  bool
	admins   domain.Admins
	registry registry.AddressRegistry
	emitter  event.Emitter
	treasury domain.Address

	mu    sync.Mutex
	fees  collection.FactoryFees
	nonce uint64
	// known collections, deployed here or registered by an admin
	exists map[domain.Address]bool
}

func New(cfg *FactoryUseCaseCfg) (collection.Factory, error) {
	met = metrics.New("factory")

	kind := cfg.Kind
	if kind == "" {
		kind = collection.KindSingle
	}
	if kind != collection.KindSingle && kind != collection.KindMulti {
		return nil, xerrors.Errorf("%w: collection kind %s", domain.ErrInvalidParameters, kind)
	}
	fees := collection.FactoryFees{
		MintFee:      nonNegative(cfg.Fees.MintFee),
		PlatformFee:  nonNegative(cfg.Fees.PlatformFee),
		FeeRecipient: cfg.Fees.FeeRecipient.ToLower(),
		FeeCurrency:  cfg.Fees.FeeCurrency.ToLower(),
	}
	if fees.MintFee == nil || fees.PlatformFee == nil {
		return nil, xerrors.Errorf("%w: negative factory fee", domain.ErrInvalidParameters)
	}

	return &impl{
		address:  cfg.Address.ToLower(),
		kind:     kind,
		private:  cfg.Private,
		admins:   cfg.Admins,
		registry: cfg.Registry,
		emitter:  cfg.Emitter,
		treasury: cfg.Treasury.ToLower(),
		fees:     fees,
		nonce:    1,
		exists:   make(map[domain.Address]bool),
	}, nil
}

func nonNegative(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	if v.Sign() < 0 {
		return nil
	}
	return new(big.Int).Set(v)
}

func (im *impl) Address() domain.Address {
	return im.address
}

func (im *impl) Kind() collection.Kind {
	return im.kind
}

func (im *impl) Private() bool {
	return im.private
}

func (im *impl) Fees(c ctx.Ctx) collection.FactoryFees {
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.copyFees()
}

func (im *impl) copyFees() collection.FactoryFees {
	fees := im.fees
	fees.MintFee = domain.CopyBig(fees.MintFee)
	fees.PlatformFee = domain.CopyBig(fees.PlatformFee)
	return fees
}

// DeployCollection charges the platform fee to caller and creates a
// collection owned by caller at the next contract address of the factory.
func (im *impl) DeployCollection(c ctx.Ctx, caller domain.Address, name, symbol string) (domain.Address, error) {
	defer met.BumpTime("deployCollection.time").End()

	caller = caller.ToLower()
	if caller.IsEmpty() || len(name) == 0 || len(symbol) == 0 {
		return "", xerrors.Errorf("%w: name %q symbol %q", domain.ErrInvalidParameters, name, symbol)
	}

	operators := []domain.Address{}
	for _, role := range engineRoles {
		addr, err := im.registry.AddressOf(c, role)
		if err != nil {
			c.WithFields(log.Fields{"err": err, "role": role}).Error("registry.AddressOf failed")
			return "", err
		}
		operators = append(operators, addr)
	}

	im.mu.Lock()
	defer im.mu.Unlock()

	fees := im.copyFees()
	feeCurrency, err := im.registry.Currency(c, fees.FeeCurrency)
	if fees.PlatformFee.Sign() > 0 || fees.MintFee.Sign() > 0 {
		if err != nil {
			c.WithFields(log.Fields{"err": err, "feeCurrency": fees.FeeCurrency}).Error("registry.Currency failed")
			return "", err
		}
	}
	if fees.PlatformFee.Sign() > 0 {
		if err := feeCurrency.TransferFrom(c, im.address, caller, fees.FeeRecipient, fees.PlatformFee); err != nil {
			c.WithFields(log.Fields{
				"err":          err,
				"caller":       caller,
				"platformFee":  fees.PlatformFee,
				"feeRecipient": fees.FeeRecipient,
			}).Error("feeCurrency.TransferFrom failed")
			return "", err
		}
	}

	address := domain.AddressFromCommon(crypto.CreateAddress(im.address.ToCommon(), im.nonce))
	im.nonce++

	coll := nft.New(nft.Config{
		Address:     address,
		Name:        name,
		Symbol:      symbol,
		Kind:        im.kind,
		Owner:       caller,
		Private:     im.private,
		MintFee:     fees.MintFee,
		FeeCurrency: feeCurrency,
		Treasury:    im.treasury,
		Operators:   operators,
		Emitter:     im.emitter,
	})
	im.registry.Bind(address, coll)
	im.exists[address] = true

	met.BumpSum("deployed", 1, "kind", string(im.kind))
	c.WithFields(log.Fields{"caller": caller, "nft": address, "kind": im.kind}).Info("collection deployed")

	im.emitter.Emit(c, im.address, event.ContractCreated, event.ContractPayload{Caller: caller, Nft: address})
	return address, nil
}

// RegisterCollection records a collection deployed elsewhere.
func (im *impl) RegisterCollection(c ctx.Ctx, caller, nft domain.Address) error {
	if !im.admins.Contains(caller) {
		return domain.ErrUnauthorized
	}
	nft = nft.ToLower()
	coll, err := im.registry.Collection(c, nft)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "nft": nft}).Error("registry.Collection failed")
		return err
	}
	if coll.Kind() != im.kind {
		return xerrors.Errorf("%w: %s is a %s collection", domain.ErrInvalidParameters, nft, coll.Kind())
	}

	im.mu.Lock()
	if im.exists[nft] {
		im.mu.Unlock()
		return xerrors.Errorf("%w: %s already registered", domain.ErrInvalidParameters, nft)
	}
	im.exists[nft] = true
	im.mu.Unlock()

	im.emitter.Emit(c, im.address, event.ContractCreated, event.ContractPayload{Caller: caller.ToLower(), Nft: nft})
	return nil
}

func (im *impl) DisableCollection(c ctx.Ctx, caller, nft domain.Address) error {
	if !im.admins.Contains(caller) {
		return domain.ErrUnauthorized
	}
	nft = nft.ToLower()

	im.mu.Lock()
	if !im.exists[nft] {
		im.mu.Unlock()
		return xerrors.Errorf("%w: %s not registered", domain.ErrInvalidParameters, nft)
	}
	delete(im.exists, nft)
	im.mu.Unlock()

	im.emitter.Emit(c, im.address, event.ContractDisabled, event.ContractPayload{Caller: caller.ToLower(), Nft: nft})
	return nil
}

func (im *impl) Exists(c ctx.Ctx, nft domain.Address) bool {
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.exists[nft.ToLower()]
}

func (im *impl) FindAll(c ctx.Ctx) []domain.Address {
	im.mu.Lock()
	res := make([]domain.Address, 0, len(im.exists))
	for addr := range im.exists {
		res = append(res, addr)
	}
	im.mu.Unlock()
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

func (im *impl) UpdateMintFee(c ctx.Ctx, caller domain.Address, fee *big.Int) error {
	return im.updateAmount(c, caller, fee, event.UpdateMintFee, func(fees *collection.FactoryFees, v *big.Int) {
		fees.MintFee = v
	})
}

func (im *impl) UpdatePlatformFee(c ctx.Ctx, caller domain.Address, fee *big.Int) error {
	return im.updateAmount(c, caller, fee, event.UpdatePlatformFee, func(fees *collection.FactoryFees, v *big.Int) {
		fees.PlatformFee = v
	})
}

func (im *impl) updateAmount(c ctx.Ctx, caller domain.Address, fee *big.Int, name event.Name, set func(*collection.FactoryFees, *big.Int)) error {
	if !im.admins.Contains(caller) {
		return domain.ErrUnauthorized
	}
	if fee == nil || fee.Sign() < 0 {
		return xerrors.Errorf("%w: fee %v", domain.ErrInvalidParameters, fee)
	}

	im.mu.Lock()
	set(&im.fees, new(big.Int).Set(fee))
	im.mu.Unlock()

	im.emitter.Emit(c, im.address, name, event.AmountPayload{Amount: domain.CopyBig(fee)})
	return nil
}

func (im *impl) UpdateFeeRecipient(c ctx.Ctx, caller, recipient domain.Address) error {
	if !im.admins.Contains(caller) {
		return domain.ErrUnauthorized
	}
	if recipient.IsEmpty() {
		return domain.ErrInvalidParameters
	}

	im.mu.Lock()
	im.fees.FeeRecipient = recipient.ToLower()
	im.mu.Unlock()

	im.emitter.Emit(c, im.address, event.UpdatePlatformFeeRecipient, event.FeeRecipientPayload{Recipient: recipient.ToLower()})
	return nil
}
