// Package testenv wires the registries, a payment token and item collections
// in memory for engine tests.
package testenv

import (
	"math/big"
	"sync"
	"time"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/collection"
	"github.com/x-xyz/marketplace/domain/event"
	"github.com/x-xyz/marketplace/domain/pricefeed"
	"github.com/x-xyz/marketplace/domain/registry"
	"github.com/x-xyz/marketplace/domain/royalty"
	"github.com/x-xyz/marketplace/service/erc20"
	"github.com/x-xyz/marketplace/service/nft"
	"github.com/x-xyz/marketplace/service/oracle"
	eventUsecase "github.com/x-xyz/marketplace/stores/event/usecase"
	paytokenUsecase "github.com/x-xyz/marketplace/stores/paytoken/usecase"
	pricefeedUsecase "github.com/x-xyz/marketplace/stores/pricefeed/usecase"
	registryUsecase "github.com/x-xyz/marketplace/stores/registry/usecase"
	royaltyUsecase "github.com/x-xyz/marketplace/stores/royalty/usecase"
)

var (
	Admin        = domain.Address("0x00000000000000000000000000000000000000ad")
	FeeRecipient = domain.Address("0x00000000000000000000000000000000000000fe")
	Treasury     = domain.Address("0x00000000000000000000000000000000000000e5")

	Marketplace = domain.Address("0x0000000000000000000000000000000000000a01")
	Auction     = domain.Address("0x0000000000000000000000000000000000000a02")
	Bundle      = domain.Address("0x0000000000000000000000000000000000000a03")

	RegistryAddress  = domain.Address("0x0000000000000000000000000000000000000b01")
	TokenRegAddress  = domain.Address("0x0000000000000000000000000000000000000b02")
	RoyaltyAddress   = domain.Address("0x0000000000000000000000000000000000000b03")
	PriceFeedAddress = domain.Address("0x0000000000000000000000000000000000000b04")

	WETH       = domain.Address("0x0000000000000000000000000000000000000c01")
	Unlisted   = domain.Address("0x0000000000000000000000000000000000000c02")
	OracleAddr = domain.Address("0x0000000000000000000000000000000000000c03")
	Single     = domain.Address("0x0000000000000000000000000000000000000d01")
	Multi      = domain.Address("0x0000000000000000000000000000000000000d02")

	Start = time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)
)

// Env is a fully wired in-memory deployment.
type Env struct {
	Ctx ctx.Ctx

	Events    event.UseCase
	Registry  registry.AddressRegistry
	Tokens    domain.TokenRegistry
	Royalties royalty.Registry
	PriceFeed pricefeed.PriceFeed

	Currency *erc20.Token
	// Other is bound in the directory but never whitelisted.
	Other  *erc20.Token
	Oracle *oracle.Static
	Single *nft.Collection
	Multi  *nft.Collection

	mu  sync.Mutex
	now time.Time
}

func New() *Env {
	env := &Env{Ctx: ctx.Background(), now: Start}
	c := env.Ctx
	admins := domain.NewAdmins([]string{string(Admin)})

	env.Events = eventUsecase.New(&eventUsecase.EventUseCaseCfg{Clock: env.Now})
	env.Registry = registryUsecase.New(&registryUsecase.RegistryUseCaseCfg{
		Address: RegistryAddress,
		Admins:  admins,
		Emitter: env.Events,
	})
	env.Tokens = paytokenUsecase.New(&paytokenUsecase.PayTokenUseCaseCfg{
		Address: TokenRegAddress,
		Admins:  admins,
		Emitter: env.Events,
	})
	env.Royalties = royaltyUsecase.New(&royaltyUsecase.RoyaltyUseCaseCfg{
		Address:  RoyaltyAddress,
		Admins:   admins,
		Registry: env.Registry,
		Emitter:  env.Events,
	})
	env.PriceFeed = pricefeedUsecase.New(&pricefeedUsecase.PriceFeedUseCaseCfg{
		Address:       PriceFeedAddress,
		Admins:        admins,
		Registry:      env.Registry,
		Emitter:       env.Events,
		WrappedNative: WETH,
	})

	env.Currency = erc20.New(erc20.Config{Address: WETH, Symbol: "WETH", Decimals: 18})
	env.Other = erc20.New(erc20.Config{Address: Unlisted, Symbol: "OTHER", Decimals: 18})
	env.Oracle = oracle.NewStatic(OracleAddr, 8, big.NewInt(2000_00000000))

	operators := []domain.Address{Marketplace, Auction, Bundle}
	env.Single = nft.New(nft.Config{
		Address:   Single,
		Name:      "Single",
		Symbol:    "ONE",
		Kind:      collection.KindSingle,
		Owner:     Admin,
		Operators: operators,
		Emitter:   env.Events,
	})
	env.Multi = nft.New(nft.Config{
		Address:   Multi,
		Name:      "Multi",
		Symbol:    "MANY",
		Kind:      collection.KindMulti,
		Owner:     Admin,
		Operators: operators,
		Emitter:   env.Events,
	})

	for _, svc := range []struct {
		address domain.Address
		service interface{}
	}{
		{TokenRegAddress, env.Tokens},
		{RoyaltyAddress, env.Royalties},
		{PriceFeedAddress, env.PriceFeed},
		{WETH, env.Currency},
		{Unlisted, env.Other},
		{OracleAddr, env.Oracle},
		{Single, env.Single},
		{Multi, env.Multi},
	} {
		env.Registry.Bind(svc.address, svc.service)
	}

	must(env.Registry.Update(c, Admin, registry.RoleTokenRegistry, TokenRegAddress))
	must(env.Registry.Update(c, Admin, registry.RoleRoyaltyRegistry, RoyaltyAddress))
	must(env.Registry.Update(c, Admin, registry.RolePriceFeed, PriceFeedAddress))
	must(env.Registry.Update(c, Admin, registry.RoleItemCollection, Single))
	must(env.Tokens.Add(c, Admin, WETH))
	must(env.PriceFeed.RegisterOracle(c, Admin, WETH, OracleAddr))
	return env
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func (env *Env) Now() time.Time {
	env.mu.Lock()
	defer env.mu.Unlock()
	return env.now
}

func (env *Env) Advance(d time.Duration) {
	env.mu.Lock()
	defer env.mu.Unlock()
	env.now = env.now.Add(d)
}

// Bind registers an engine under role and address.
func (env *Env) Bind(role registry.Role, address domain.Address, service interface{}) {
	env.Registry.Bind(address, service)
	must(env.Registry.Update(env.Ctx, Admin, role, address))
}

// Fund mints amount to owner and approves spender for it.
func (env *Env) Fund(owner, spender domain.Address, amount int64) {
	must(env.Currency.Mint(env.Ctx, owner, big.NewInt(amount)))
	allowance, _ := env.Currency.Allowance(env.Ctx, owner, spender)
	must(env.Currency.Approve(env.Ctx, owner, spender, new(big.Int).Add(allowance, big.NewInt(amount))))
}

func (env *Env) Balance(owner domain.Address) int64 {
	b, err := env.Currency.BalanceOf(env.Ctx, owner)
	must(err)
	return b.Int64()
}

// MintItem issues one token of the single edition collection to owner.
func (env *Env) MintItem(owner domain.Address) domain.TokenId {
	tokenId, err := env.Single.Mint(env.Ctx, Admin, owner, "ipfs://item", 1)
	must(err)
	return tokenId
}

func (env *Env) MintMulti(owner domain.Address, supply int64) domain.TokenId {
	tokenId, err := env.Multi.Mint(env.Ctx, Admin, owner, "ipfs://multi", supply)
	must(err)
	return tokenId
}

func (env *Env) Holding(coll *nft.Collection, owner domain.Address, tokenId domain.TokenId) int64 {
	n, err := coll.BalanceOf(env.Ctx, owner, tokenId)
	must(err)
	return n
}

// EventNames lists the journal in order.
func (env *Env) EventNames() []event.Name {
	res := []event.Name{}
	for _, e := range env.Events.Journal(env.Ctx) {
		res = append(res, e.Name)
	}
	return res
}

// LastEvent returns the latest journal entry with name.
func (env *Env) LastEvent(name event.Name) *event.Event {
	journal := env.Events.Journal(env.Ctx)
	for i := len(journal) - 1; i >= 0; i-- {
		if journal[i].Name == name {
			return journal[i]
		}
	}
	return nil
}
