package registry

import (
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/collection"
	"github.com/x-xyz/marketplace/domain/currency"
	"github.com/x-xyz/marketplace/domain/pricefeed"
	"github.com/x-xyz/marketplace/domain/royalty"
)

type Role string

const (
	RoleItemCollection    Role = "itemCollection"
	RoleAuction           Role = "auction"
	RoleMarketplace       Role = "marketplace"
	RoleBundleMarketplace Role = "bundleMarketplace"
	RoleFactory           Role = "factory"
	RolePrivateFactory    Role = "privateFactory"
	RoleArtFactory        Role = "artFactory"
	RolePrivateArtFactory Role = "privateArtFactory"
	RoleTokenRegistry     Role = "tokenRegistry"
	RolePriceFeed         Role = "priceFeed"
	RoleRoyaltyRegistry   Role = "royaltyRegistry"
)

var Roles = []Role{
	RoleItemCollection,
	RoleAuction,
	RoleMarketplace,
	RoleBundleMarketplace,
	RoleFactory,
	RolePrivateFactory,
	RoleArtFactory,
	RolePrivateArtFactory,
	RoleTokenRegistry,
	RolePriceFeed,
	RoleRoyaltyRegistry,
}

func (r Role) IsValid() bool {
	for _, role := range Roles {
		if role == r {
			return true
		}
	}
	return false
}

func (r Role) IsFactory() bool {
	switch r {
	case RoleFactory, RolePrivateFactory, RoleArtFactory, RolePrivateArtFactory:
		return true
	}
	return false
}

type Record struct {
	Role    Role           `json:"role"`
	Address domain.Address `json:"address"`
}

// AddressRegistry resolves logical roles to the service currently serving
// them. An unset role or an address with no bound service resolves to
// domain.ErrDependencyUnresolved.
type AddressRegistry interface {
	Update(c ctx.Ctx, caller domain.Address, role Role, address domain.Address) error
	AddressOf(c ctx.Ctx, role Role) (domain.Address, error)
	FindAll(c ctx.Ctx) ([]Record, error)

	// Bind attaches the in-process service reachable at address.
	Bind(address domain.Address, service interface{})
	Lookup(address domain.Address) (interface{}, error)

	TokenRegistry(c ctx.Ctx) (domain.TokenRegistry, error)
	RoyaltyRegistry(c ctx.Ctx) (royalty.Registry, error)
	PriceFeed(c ctx.Ctx) (pricefeed.PriceFeed, error)
	Factory(c ctx.Ctx, role Role) (collection.Factory, error)
	Collection(c ctx.Ctx, address domain.Address) (collection.Collection, error)
	Currency(c ctx.Ctx, address domain.Address) (currency.Currency, error)
	Oracle(c ctx.Ctx, address domain.Address) (pricefeed.Oracle, error)
}
