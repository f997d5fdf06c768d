package usecase

import (
	"sort"
	"sync"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/collection"
	"github.com/x-xyz/marketplace/domain/currency"
	"github.com/x-xyz/marketplace/domain/event"
	"github.com/x-xyz/marketplace/domain/pricefeed"
	"github.com/x-xyz/marketplace/domain/registry"
	"github.com/x-xyz/marketplace/domain/royalty"
	"golang.org/x/xerrors"
)

type RegistryUseCaseCfg struct {
	Address domain.Address
	Admins  domain.Admins
	Emitter event.Emitter
}

type impl struct {
	address  domain.Address
	admins   domain.Admins
	emitter  event.Emitter
	mu       sync.RWMutex
	roles    map[registry.Role]domain.Address
	services map[domain.Address]interface{}
}

func New(cfg *RegistryUseCaseCfg) registry.AddressRegistry {
	return &impl{
		address:  cfg.Address.ToLower(),
		admins:   cfg.Admins,
		emitter:  cfg.Emitter,
		roles:    make(map[registry.Role]domain.Address),
		services: make(map[domain.Address]interface{}),
	}
}

func (im *impl) Update(c ctx.Ctx, caller domain.Address, role registry.Role, address domain.Address) error {
	if !im.admins.Contains(caller) {
		return domain.ErrUnauthorized
	}
	if !role.IsValid() {
		return xerrors.Errorf("%w: unknown role %s", domain.ErrInvalidParameters, role)
	}
	if address.IsEmpty() {
		return xerrors.Errorf("%w: empty address for %s", domain.ErrInvalidParameters, role)
	}

	im.mu.Lock()
	im.roles[role] = address.ToLower()
	im.mu.Unlock()

	c.WithFields(log.Fields{"role": role, "address": address}).Info("registry updated")
	if im.emitter != nil {
		im.emitter.Emit(c, im.address, event.AddressUpdated, event.AddressUpdatedPayload{
			Role:    string(role),
			Address: address.ToLower(),
		})
	}
	return nil
}

func (im *impl) AddressOf(c ctx.Ctx, role registry.Role) (domain.Address, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	addr, ok := im.roles[role]
	if !ok {
		return "", xerrors.Errorf("%w: role %s not set", domain.ErrDependencyUnresolved, role)
	}
	return addr, nil
}

func (im *impl) FindAll(c ctx.Ctx) ([]registry.Record, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	res := make([]registry.Record, 0, len(im.roles))
	for role, addr := range im.roles {
		res = append(res, registry.Record{Role: role, Address: addr})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Role < res[j].Role })
	return res, nil
}

func (im *impl) Bind(address domain.Address, service interface{}) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.services[address.ToLower()] = service
}

func (im *impl) Lookup(address domain.Address) (interface{}, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	svc, ok := im.services[address.ToLower()]
	if !ok || svc == nil {
		return nil, xerrors.Errorf("%w: nothing bound at %s", domain.ErrDependencyUnresolved, address)
	}
	return svc, nil
}

func (im *impl) resolve(c ctx.Ctx, role registry.Role) (interface{}, error) {
	addr, err := im.AddressOf(c, role)
	if err != nil {
		return nil, err
	}
	return im.Lookup(addr)
}

func (im *impl) TokenRegistry(c ctx.Ctx) (domain.TokenRegistry, error) {
	svc, err := im.resolve(c, registry.RoleTokenRegistry)
	if err != nil {
		return nil, err
	}
	res, ok := svc.(domain.TokenRegistry)
	if !ok {
		return nil, mismatch(registry.RoleTokenRegistry)
	}
	return res, nil
}

func (im *impl) RoyaltyRegistry(c ctx.Ctx) (royalty.Registry, error) {
	svc, err := im.resolve(c, registry.RoleRoyaltyRegistry)
	if err != nil {
		return nil, err
	}
	res, ok := svc.(royalty.Registry)
	if !ok {
		return nil, mismatch(registry.RoleRoyaltyRegistry)
	}
	return res, nil
}

func (im *impl) PriceFeed(c ctx.Ctx) (pricefeed.PriceFeed, error) {
	svc, err := im.resolve(c, registry.RolePriceFeed)
	if err != nil {
		return nil, err
	}
	res, ok := svc.(pricefeed.PriceFeed)
	if !ok {
		return nil, mismatch(registry.RolePriceFeed)
	}
	return res, nil
}

func (im *impl) Factory(c ctx.Ctx, role registry.Role) (collection.Factory, error) {
	if !role.IsFactory() {
		return nil, xerrors.Errorf("%w: %s is not a factory role", domain.ErrInvalidParameters, role)
	}
	svc, err := im.resolve(c, role)
	if err != nil {
		return nil, err
	}
	res, ok := svc.(collection.Factory)
	if !ok {
		return nil, mismatch(role)
	}
	return res, nil
}

func (im *impl) Collection(c ctx.Ctx, address domain.Address) (collection.Collection, error) {
	svc, err := im.Lookup(address)
	if err != nil {
		return nil, err
	}
	res, ok := svc.(collection.Collection)
	if !ok {
		return nil, xerrors.Errorf("%w: %s is not a collection", domain.ErrDependencyUnresolved, address)
	}
	return res, nil
}

func (im *impl) Currency(c ctx.Ctx, address domain.Address) (currency.Currency, error) {
	svc, err := im.Lookup(address)
	if err != nil {
		return nil, err
	}
	res, ok := svc.(currency.Currency)
	if !ok {
		return nil, xerrors.Errorf("%w: %s is not a currency", domain.ErrDependencyUnresolved, address)
	}
	return res, nil
}

func (im *impl) Oracle(c ctx.Ctx, address domain.Address) (pricefeed.Oracle, error) {
	svc, err := im.Lookup(address)
	if err != nil {
		return nil, err
	}
	res, ok := svc.(pricefeed.Oracle)
	if !ok {
		return nil, xerrors.Errorf("%w: %s is not an oracle", domain.ErrDependencyUnresolved, address)
	}
	return res, nil
}

func mismatch(role registry.Role) error {
	return xerrors.Errorf("%w: service bound for %s has the wrong type", domain.ErrDependencyUnresolved, role)
}
