package usecase

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/event"
	"github.com/x-xyz/marketplace/domain/marketplace"
	"github.com/x-xyz/marketplace/domain/registry"
	"github.com/x-xyz/marketplace/service/erc20"
	"github.com/x-xyz/marketplace/service/nft"
	"github.com/x-xyz/marketplace/stores/internal/testenv"
)

var (
	seller  = domain.Address("0x0000000000000000000000000000000000005e11")
	buyer   = domain.Address("0x000000000000000000000000000000000000b0b0")
	other   = domain.Address("0x0000000000000000000000000000000000000777")
	creator = domain.Address("0x000000000000000000000000000000000000c4ea")
	unknown = domain.Address("0x0000000000000000000000000000000000000404")
)

type testsuite struct {
	suite.Suite
	env     *testenv.Env
	subject marketplace.UseCase
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.env = testenv.New()
	subject, err := New(&MarketplaceUseCaseCfg{
		Address:  testenv.Marketplace,
		Admins:   domain.NewAdmins([]string{string(testenv.Admin)}),
		Registry: t.env.Registry,
		Emitter:  t.env.Events,
		Fee:      domain.FeeConfig{PlatformFeeBps: 500, FeeRecipient: testenv.FeeRecipient},
		Clock:    t.env.Now,
	})
	t.Require().NoError(err)
	t.subject = subject
	t.env.Bind(registry.RoleMarketplace, testenv.Marketplace, subject)
}

func (t *testsuite) TestNewRejectsInvalidFee() {
	_, err := New(&MarketplaceUseCaseCfg{Fee: domain.FeeConfig{PlatformFeeBps: 10001, FeeRecipient: testenv.FeeRecipient}})
	t.ErrorIs(err, domain.ErrInvalidParameters)
}

func (t *testsuite) TestBuyItem() {
	c := t.env.Ctx
	tokenId := t.env.MintItem(seller)
	t.env.Fund(buyer, testenv.Marketplace, 50)

	t.NoError(t.subject.ListItem(c, seller, testenv.Single, tokenId, 1, testenv.WETH, big.NewInt(20), testenv.Start))
	listing := t.subject.GetListing(c, testenv.Single, tokenId, seller)
	t.Equal(int64(1), listing.Quantity)
	t.Equal(big.NewInt(20), listing.PricePerItem)

	t.NoError(t.subject.BuyItem(c, buyer, testenv.Single, tokenId, testenv.WETH, seller))

	t.Equal(int64(30), t.env.Balance(buyer))
	t.Equal(int64(19), t.env.Balance(seller))
	t.Equal(int64(1), t.env.Balance(testenv.FeeRecipient))
	t.Equal(int64(0), t.env.Balance(testenv.Marketplace))
	t.Equal(int64(1), t.env.Holding(t.env.Single, buyer, tokenId))
	t.Equal(int64(0), t.env.Holding(t.env.Single, seller, tokenId))

	listing = t.subject.GetListing(c, testenv.Single, tokenId, seller)
	t.Equal(int64(0), listing.Quantity)
	t.Equal(big.NewInt(0), listing.PricePerItem)

	sold := t.env.LastEvent(event.ItemSold)
	t.Require().NotNil(sold)
	t.Equal(testenv.Marketplace.ToLower(), sold.Source)
	t.Equal(event.ItemSoldPayload{
		Seller:       seller,
		Buyer:        buyer,
		Nft:          testenv.Single.ToLower(),
		TokenId:      tokenId,
		Quantity:     1,
		PayToken:     testenv.WETH.ToLower(),
		UnitPrice:    big.NewInt(2000_00000000),
		PricePerItem: big.NewInt(20),
	}, sold.Payload)

	err := t.subject.BuyItem(c, other, testenv.Single, tokenId, testenv.WETH, seller)
	t.ErrorIs(err, domain.ErrEntityNotActive)
}

func (t *testsuite) TestBuyItemWithRoyalty() {
	c := t.env.Ctx
	tokenId := t.env.MintItem(seller)
	t.env.Fund(buyer, testenv.Marketplace, 100)
	t.NoError(t.env.Royalties.SetRoyaltyForItem(c, testenv.Admin, testenv.Single, tokenId, creator, 1000))

	t.NoError(t.subject.ListItem(c, seller, testenv.Single, tokenId, 1, testenv.WETH, big.NewInt(100), testenv.Start))
	t.NoError(t.subject.BuyItem(c, buyer, testenv.Single, tokenId, testenv.WETH, seller))

	// fee 5, royalty on the remaining 95
	t.Equal(int64(5), t.env.Balance(testenv.FeeRecipient))
	t.Equal(int64(9), t.env.Balance(creator))
	t.Equal(int64(86), t.env.Balance(seller))
	t.Equal(int64(0), t.env.Balance(buyer))
}

func (t *testsuite) TestRoyaltyToSellerIsSkipped() {
	c := t.env.Ctx
	tokenId := t.env.MintItem(seller)
	t.env.Fund(buyer, testenv.Marketplace, 100)
	t.NoError(t.env.Royalties.SetRoyaltyForItem(c, testenv.Admin, testenv.Single, tokenId, seller, 1000))

	t.NoError(t.subject.ListItem(c, seller, testenv.Single, tokenId, 1, testenv.WETH, big.NewInt(100), testenv.Start))
	t.NoError(t.subject.BuyItem(c, buyer, testenv.Single, tokenId, testenv.WETH, seller))
	t.Equal(int64(95), t.env.Balance(seller))
}

func (t *testsuite) TestBuyMultiEdition() {
	c := t.env.Ctx
	tokenId := t.env.MintMulti(seller, 5)
	t.env.Fund(buyer, testenv.Marketplace, 100)

	t.NoError(t.subject.ListItem(c, seller, testenv.Multi, tokenId, 3, testenv.WETH, big.NewInt(20), testenv.Start))
	t.NoError(t.subject.BuyItem(c, buyer, testenv.Multi, tokenId, testenv.WETH, seller))

	t.Equal(int64(40), t.env.Balance(buyer))
	t.Equal(int64(57), t.env.Balance(seller))
	t.Equal(int64(3), t.env.Balance(testenv.FeeRecipient))
	t.Equal(int64(3), t.env.Holding(t.env.Multi, buyer, tokenId))
	t.Equal(int64(2), t.env.Holding(t.env.Multi, seller, tokenId))
}

func (t *testsuite) TestListItemErrors() {
	c := t.env.Ctx
	tokenId := t.env.MintItem(seller)

	tests := []struct {
		desc     string
		caller   domain.Address
		nft      domain.Address
		quantity int64
		payToken domain.Address
		price    *big.Int
		expErr   error
	}{
		{"not the owner", other, testenv.Single, 1, testenv.WETH, big.NewInt(1), domain.ErrUnauthorized},
		{"more than owned", seller, testenv.Single, 2, testenv.WETH, big.NewInt(1), domain.ErrUnauthorized},
		{"zero price", seller, testenv.Single, 1, testenv.WETH, big.NewInt(0), domain.ErrInvalidParameters},
		{"nil price", seller, testenv.Single, 1, testenv.WETH, nil, domain.ErrInvalidParameters},
		{"zero quantity", seller, testenv.Single, 0, testenv.WETH, big.NewInt(1), domain.ErrInvalidParameters},
		{"not whitelisted", seller, testenv.Single, 1, testenv.Unlisted, big.NewInt(1), domain.ErrNotWhitelisted},
		{"unknown collection", seller, unknown, 1, testenv.WETH, big.NewInt(1), domain.ErrDependencyUnresolved},
	}

	for _, tt := range tests {
		err := t.subject.ListItem(c, tt.caller, tt.nft, tokenId, tt.quantity, tt.payToken, tt.price, testenv.Start)
		t.ErrorIs(err, tt.expErr, tt.desc)
	}
	t.NotContains(t.env.EventNames(), event.ItemListed)
}

func (t *testsuite) TestListItemWithoutApproval() {
	c := t.env.Ctx
	coll := nft.New(nft.Config{Address: unknown, Owner: testenv.Admin})
	t.env.Registry.Bind(unknown, coll)
	tokenId, err := coll.Mint(c, testenv.Admin, seller, "ipfs://x", 1)
	t.Require().NoError(err)

	err = t.subject.ListItem(c, seller, unknown, tokenId, 1, testenv.WETH, big.NewInt(1), testenv.Start)
	t.ErrorIs(err, domain.ErrUnauthorized)

	t.NoError(coll.SetApprovalForAll(c, seller, testenv.Marketplace, true))
	t.NoError(t.subject.ListItem(c, seller, unknown, tokenId, 1, testenv.WETH, big.NewInt(1), testenv.Start))
}

func (t *testsuite) TestBuyItemErrors() {
	c := t.env.Ctx
	tokenId := t.env.MintItem(seller)
	t.NoError(t.subject.ListItem(c, seller, testenv.Single, tokenId, 1, testenv.WETH, big.NewInt(20), testenv.Start.Add(time.Hour)))

	t.env.Fund(buyer, testenv.Marketplace, 50)
	err := t.subject.BuyItem(c, buyer, testenv.Single, tokenId, testenv.WETH, seller)
	t.ErrorIs(err, domain.ErrOutsideTimeWindow)

	t.env.Advance(time.Hour)
	err = t.subject.BuyItem(c, buyer, testenv.Single, tokenId, testenv.Unlisted, seller)
	t.ErrorIs(err, domain.ErrInvalidParameters)
	err = t.subject.BuyItem(c, buyer, testenv.Single, tokenId, testenv.WETH, other)
	t.ErrorIs(err, domain.ErrEntityNotActive)

	poor := domain.Address("0x0000000000000000000000000000000000000001")
	t.env.Fund(poor, testenv.Marketplace, 10)
	err = t.subject.BuyItem(c, poor, testenv.Single, tokenId, testenv.WETH, seller)
	t.ErrorIs(err, domain.ErrInsufficientFunds)

	stingy := domain.Address("0x0000000000000000000000000000000000000002")
	t.NoError(t.env.Currency.Mint(c, stingy, big.NewInt(50)))
	err = t.subject.BuyItem(c, stingy, testenv.Single, tokenId, testenv.WETH, seller)
	t.ErrorIs(err, domain.ErrInsufficientAllowance)

	// whitelist removal applies to existing listings
	t.NoError(t.env.Tokens.Remove(c, testenv.Admin, testenv.WETH))
	err = t.subject.BuyItem(c, buyer, testenv.Single, tokenId, testenv.WETH, seller)
	t.ErrorIs(err, domain.ErrNotWhitelisted)

	t.Equal(int64(1), t.subject.GetListing(c, testenv.Single, tokenId, seller).Quantity)
	t.Equal(int64(50), t.env.Balance(buyer))
	t.Equal(int64(1), t.env.Holding(t.env.Single, seller, tokenId))
}

func (t *testsuite) TestBuyItemAfterSellerMovedItem() {
	c := t.env.Ctx
	tokenId := t.env.MintItem(seller)
	t.env.Fund(buyer, testenv.Marketplace, 50)
	t.NoError(t.subject.ListItem(c, seller, testenv.Single, tokenId, 1, testenv.WETH, big.NewInt(20), testenv.Start))

	t.NoError(t.env.Single.TransferFrom(c, seller, seller, other, tokenId, 1))

	err := t.subject.BuyItem(c, buyer, testenv.Single, tokenId, testenv.WETH, seller)
	t.ErrorIs(err, domain.ErrTransferRejected)
	t.Equal(int64(50), t.env.Balance(buyer))
	t.Equal(int64(1), t.subject.GetListing(c, testenv.Single, tokenId, seller).Quantity)
}

func (t *testsuite) TestUpdateAndCancelListing() {
	c := t.env.Ctx
	tokenId := t.env.MintItem(seller)

	err := t.subject.UpdateListing(c, seller, testenv.Single, tokenId, testenv.WETH, big.NewInt(5))
	t.ErrorIs(err, domain.ErrEntityNotActive)

	t.NoError(t.subject.ListItem(c, seller, testenv.Single, tokenId, 1, testenv.WETH, big.NewInt(20), testenv.Start))

	err = t.subject.UpdateListing(c, seller, testenv.Single, tokenId, testenv.WETH, big.NewInt(0))
	t.ErrorIs(err, domain.ErrInvalidParameters)
	err = t.subject.UpdateListing(c, seller, testenv.Single, tokenId, testenv.Unlisted, big.NewInt(5))
	t.ErrorIs(err, domain.ErrNotWhitelisted)
	err = t.subject.UpdateListing(c, other, testenv.Single, tokenId, testenv.WETH, big.NewInt(5))
	t.ErrorIs(err, domain.ErrEntityNotActive)

	t.NoError(t.subject.UpdateListing(c, seller, testenv.Single, tokenId, testenv.WETH, big.NewInt(5)))
	t.Equal(big.NewInt(5), t.subject.GetListing(c, testenv.Single, tokenId, seller).PricePerItem)

	err = t.subject.CancelListing(c, other, testenv.Single, tokenId)
	t.ErrorIs(err, domain.ErrEntityNotActive)
	t.NoError(t.subject.CancelListing(c, seller, testenv.Single, tokenId))
	err = t.subject.CancelListing(c, seller, testenv.Single, tokenId)
	t.ErrorIs(err, domain.ErrEntityNotActive)

	t.env.Fund(buyer, testenv.Marketplace, 50)
	err = t.subject.BuyItem(c, buyer, testenv.Single, tokenId, testenv.WETH, seller)
	t.ErrorIs(err, domain.ErrEntityNotActive)

	t.Equal([]event.Name{event.ItemListed, event.ItemUpdated, event.ItemCanceled}, marketplaceEvents(t.env))
}

func (t *testsuite) TestOffers() {
	c := t.env.Ctx
	tokenId := t.env.MintItem(seller)
	t.env.Fund(buyer, testenv.Marketplace, 50)
	deadline := testenv.Start.Add(24 * time.Hour)

	err := t.subject.CreateOffer(c, buyer, testenv.Single, tokenId, testenv.WETH, 1, big.NewInt(30), testenv.Start)
	t.ErrorIs(err, domain.ErrInvalidParameters)
	err = t.subject.CreateOffer(c, buyer, testenv.Single, tokenId, testenv.Unlisted, 1, big.NewInt(30), deadline)
	t.ErrorIs(err, domain.ErrNotWhitelisted)
	err = t.subject.CreateOffer(c, buyer, unknown, tokenId, testenv.WETH, 1, big.NewInt(30), deadline)
	t.ErrorIs(err, domain.ErrDependencyUnresolved)

	t.NoError(t.subject.CreateOffer(c, buyer, testenv.Single, tokenId, testenv.WETH, 1, big.NewInt(30), deadline))
	err = t.subject.CreateOffer(c, buyer, testenv.Single, tokenId, testenv.WETH, 1, big.NewInt(31), deadline)
	t.ErrorIs(err, domain.ErrInvalidParameters)
	t.Equal(big.NewInt(30), t.subject.GetOffer(c, testenv.Single, tokenId, buyer).PricePerItem)

	// the seller's listing is consumed by accepting an offer
	t.NoError(t.subject.ListItem(c, seller, testenv.Single, tokenId, 1, testenv.WETH, big.NewInt(100), testenv.Start))

	err = t.subject.AcceptOffer(c, other, testenv.Single, tokenId, buyer)
	t.ErrorIs(err, domain.ErrTransferRejected)

	t.NoError(t.subject.AcceptOffer(c, seller, testenv.Single, tokenId, buyer))
	// fee rounds down from 1.5
	t.Equal(int64(20), t.env.Balance(buyer))
	t.Equal(int64(29), t.env.Balance(seller))
	t.Equal(int64(1), t.env.Balance(testenv.FeeRecipient))
	t.Equal(int64(1), t.env.Holding(t.env.Single, buyer, tokenId))
	t.Equal(int64(0), t.subject.GetListing(c, testenv.Single, tokenId, seller).Quantity)
	t.Equal(int64(0), t.subject.GetOffer(c, testenv.Single, tokenId, buyer).Quantity)

	names := marketplaceEvents(t.env)
	t.Equal([]event.Name{event.OfferCreated, event.ItemListed, event.ItemSold, event.OfferCanceled}, names)
}

func (t *testsuite) TestOfferExpiry() {
	c := t.env.Ctx
	tokenId := t.env.MintItem(seller)
	t.env.Fund(buyer, testenv.Marketplace, 50)

	t.NoError(t.subject.CreateOffer(c, buyer, testenv.Single, tokenId, testenv.WETH, 1, big.NewInt(30), testenv.Start.Add(time.Hour)))
	t.env.Advance(time.Hour)

	err := t.subject.AcceptOffer(c, seller, testenv.Single, tokenId, buyer)
	t.ErrorIs(err, domain.ErrEntityNotActive)
	err = t.subject.CancelOffer(c, buyer, testenv.Single, tokenId)
	t.ErrorIs(err, domain.ErrEntityNotActive)

	// an expired offer may be replaced
	t.NoError(t.subject.CreateOffer(c, buyer, testenv.Single, tokenId, testenv.WETH, 1, big.NewInt(10), testenv.Start.Add(2*time.Hour)))
	t.NoError(t.subject.CancelOffer(c, buyer, testenv.Single, tokenId))
	err = t.subject.AcceptOffer(c, seller, testenv.Single, tokenId, buyer)
	t.ErrorIs(err, domain.ErrEntityNotActive)
}

type brokenCollection struct {
	*nft.Collection
}

func (b *brokenCollection) TransferFrom(c ctx.Ctx, operator, from, to domain.Address, tokenId domain.TokenId, quantity int64) error {
	return errors.New("transfers paused")
}

func (t *testsuite) TestItemTransferFailureRollsBack() {
	c := t.env.Ctx
	coll := nft.New(nft.Config{Address: unknown, Owner: testenv.Admin, Operators: []domain.Address{testenv.Marketplace}})
	t.env.Registry.Bind(unknown, &brokenCollection{coll})
	tokenId, err := coll.Mint(c, testenv.Admin, seller, "ipfs://x", 1)
	t.Require().NoError(err)
	t.env.Fund(buyer, testenv.Marketplace, 50)

	t.NoError(t.subject.ListItem(c, seller, unknown, tokenId, 1, testenv.WETH, big.NewInt(20), testenv.Start))
	err = t.subject.BuyItem(c, buyer, unknown, tokenId, testenv.WETH, seller)
	t.ErrorIs(err, domain.ErrTransferRejected)

	t.Equal(int64(50), t.env.Balance(buyer))
	t.Equal(int64(0), t.env.Balance(seller))
	t.Equal(int64(0), t.env.Balance(testenv.Marketplace))
	t.Equal(int64(0), t.env.Balance(testenv.FeeRecipient))
	t.Equal(int64(1), t.subject.GetListing(c, unknown, tokenId, seller).Quantity)
	t.NotContains(t.env.EventNames(), event.ItemSold)
}

// hookedToken runs hook before every pull, as a malicious token could.
type hookedToken struct {
	*erc20.Token
	hook func(c ctx.Ctx)
}

func (h *hookedToken) TransferFrom(c ctx.Ctx, spender, from, to domain.Address, amount *big.Int) error {
	if h.hook != nil {
		hook := h.hook
		h.hook = nil
		hook(c)
	}
	return h.Token.TransferFrom(c, spender, from, to, amount)
}

func (t *testsuite) TestReentrantBuyObservesInactiveListing() {
	c := t.env.Ctx
	hooked := &hookedToken{Token: erc20.New(erc20.Config{Address: unknown, Symbol: "HOOK", Decimals: 18})}
	t.env.Registry.Bind(unknown, hooked)
	t.NoError(t.env.Tokens.Add(c, testenv.Admin, unknown))

	tokenId := t.env.MintItem(seller)
	t.NoError(hooked.Mint(c, buyer, big.NewInt(100)))
	t.NoError(hooked.Approve(c, buyer, testenv.Marketplace, big.NewInt(100)))
	t.NoError(t.subject.ListItem(c, seller, testenv.Single, tokenId, 1, unknown, big.NewInt(20), testenv.Start))

	var reentrantErr error
	hooked.hook = func(inner ctx.Ctx) {
		reentrantErr = t.subject.BuyItem(inner, buyer, testenv.Single, tokenId, unknown, seller)
	}

	t.NoError(t.subject.BuyItem(c, buyer, testenv.Single, tokenId, unknown, seller))
	t.ErrorIs(reentrantErr, domain.ErrEntityNotActive)

	balance, err := hooked.BalanceOf(c, buyer)
	t.NoError(err)
	t.Equal(big.NewInt(80), balance)
	t.Equal(int64(1), t.env.Holding(t.env.Single, buyer, tokenId))
}

func (t *testsuite) TestNestedCallWithFreshContextFailsFast() {
	c := t.env.Ctx
	subject, err := New(&MarketplaceUseCaseCfg{
		Address:  testenv.Marketplace,
		Registry: t.env.Registry,
		Emitter:  t.env.Events,
		Fee:      domain.FeeConfig{PlatformFeeBps: 500, FeeRecipient: testenv.FeeRecipient},
		Clock:    t.env.Now,
		LockWait: 50 * time.Millisecond,
	})
	t.Require().NoError(err)

	hooked := &hookedToken{Token: erc20.New(erc20.Config{Address: unknown, Symbol: "HOOK", Decimals: 18})}
	t.env.Registry.Bind(unknown, hooked)
	t.NoError(t.env.Tokens.Add(c, testenv.Admin, unknown))

	tokenId := t.env.MintItem(seller)
	t.NoError(hooked.Mint(c, buyer, big.NewInt(100)))
	t.NoError(hooked.Approve(c, buyer, testenv.Marketplace, big.NewInt(100)))
	t.NoError(subject.ListItem(c, seller, testenv.Single, tokenId, 1, unknown, big.NewInt(20), testenv.Start))

	var nestedErr error
	hooked.hook = func(ctx.Ctx) {
		nestedErr = subject.CancelListing(ctx.Background(), seller, testenv.Single, tokenId)
	}

	done := make(chan error, 1)
	go func() { done <- subject.BuyItem(c, buyer, testenv.Single, tokenId, unknown, seller) }()

	select {
	case err := <-done:
		t.NoError(err)
	case <-time.After(5 * time.Second):
		t.FailNow("BuyItem deadlocked")
	}
	t.ErrorIs(nestedErr, domain.ErrEntityNotActive)
	t.Equal(int64(1), t.env.Holding(t.env.Single, buyer, tokenId))
	t.NotContains(marketplaceEvents(t.env), event.ItemCanceled)
}

// refusingToken rejects every transfer to refused.
type refusingToken struct {
	*erc20.Token
	refused domain.Address
}

func (r *refusingToken) Transfer(c ctx.Ctx, from, to domain.Address, amount *big.Int) error {
	if to.Equals(r.refused) {
		return errors.New("recipient is blocklisted")
	}
	return r.Token.Transfer(c, from, to, amount)
}

func (t *testsuite) TestRefusedSellerPayoutIsHeldForWithdrawal() {
	c := t.env.Ctx
	token := &refusingToken{Token: erc20.New(erc20.Config{Address: unknown, Symbol: "BLK", Decimals: 18}), refused: seller}
	t.env.Registry.Bind(unknown, token)
	t.NoError(t.env.Tokens.Add(c, testenv.Admin, unknown))

	tokenId := t.env.MintItem(seller)
	t.NoError(token.Mint(c, buyer, big.NewInt(100)))
	t.NoError(token.Approve(c, buyer, testenv.Marketplace, big.NewInt(100)))
	t.NoError(t.subject.ListItem(c, seller, testenv.Single, tokenId, 1, unknown, big.NewInt(100), testenv.Start))

	t.NoError(t.subject.BuyItem(c, buyer, testenv.Single, tokenId, unknown, seller))

	balanceOf := func(owner domain.Address) int64 {
		b, err := token.BalanceOf(c, owner)
		t.Require().NoError(err)
		return b.Int64()
	}
	t.Equal(int64(0), balanceOf(buyer))
	t.Equal(int64(5), balanceOf(testenv.FeeRecipient))
	t.Equal(int64(0), balanceOf(seller))
	t.Equal(int64(95), balanceOf(testenv.Marketplace))
	t.Equal(big.NewInt(95), t.subject.PendingPayout(c, unknown, seller))
	t.Equal(int64(1), t.env.Holding(t.env.Single, buyer, tokenId))
	t.False(t.subject.GetListing(c, testenv.Single, tokenId, seller).IsActive())
	t.Contains(marketplaceEvents(t.env), event.ItemSold)

	err := t.subject.WithdrawPayout(c, seller, unknown)
	t.Error(err)
	t.Equal(big.NewInt(95), t.subject.PendingPayout(c, unknown, seller))

	token.refused = ""
	t.NoError(t.subject.WithdrawPayout(c, seller, unknown))
	t.Equal(int64(95), balanceOf(seller))
	t.Equal(int64(0), balanceOf(testenv.Marketplace))
	t.Equal(big.NewInt(0), t.subject.PendingPayout(c, unknown, seller))

	withdrawn := t.env.LastEvent(event.PayoutWithdrawn)
	t.Require().NotNil(withdrawn)
	t.Equal(event.PayoutPayload{Recipient: seller, PayToken: unknown.ToLower(), Amount: big.NewInt(95)}, withdrawn.Payload)

	err = t.subject.WithdrawPayout(c, seller, unknown)
	t.ErrorIs(err, domain.ErrNotFound)
}

func (t *testsuite) TestConcurrentBuyersOneWins() {
	c := t.env.Ctx
	tokenId := t.env.MintItem(seller)
	t.NoError(t.subject.ListItem(c, seller, testenv.Single, tokenId, 1, testenv.WETH, big.NewInt(20), testenv.Start))

	buyers := []domain.Address{}
	for i := 0; i < 8; i++ {
		b := domain.Address(fmt.Sprintf("0x%040x", 0x1000+i))
		t.env.Fund(b, testenv.Marketplace, 20)
		buyers = append(buyers, b)
	}

	var wg sync.WaitGroup
	errs := make([]error, len(buyers))
	for i, b := range buyers {
		wg.Add(1)
		go func(i int, b domain.Address) {
			defer wg.Done()
			errs[i] = t.subject.BuyItem(ctx.Background(), b, testenv.Single, tokenId, testenv.WETH, seller)
		}(i, b)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			t.ErrorIs(err, domain.ErrEntityNotActive)
		}
	}
	t.Equal(1, wins)
	t.Equal(int64(19), t.env.Balance(seller))
	t.Equal(int64(0), t.env.Balance(testenv.Marketplace))
}

func (t *testsuite) TestFeeUpdates() {
	c := t.env.Ctx

	t.ErrorIs(t.subject.UpdatePlatformFee(c, other, 100), domain.ErrUnauthorized)
	t.ErrorIs(t.subject.UpdatePlatformFee(c, testenv.Admin, 10001), domain.ErrInvalidParameters)
	t.NoError(t.subject.UpdatePlatformFee(c, testenv.Admin, 250))

	t.ErrorIs(t.subject.UpdatePlatformFeeRecipient(c, other, other), domain.ErrUnauthorized)
	t.ErrorIs(t.subject.UpdatePlatformFeeRecipient(c, testenv.Admin, ""), domain.ErrInvalidParameters)
	t.NoError(t.subject.UpdatePlatformFeeRecipient(c, testenv.Admin, other))

	t.Equal(domain.FeeConfig{PlatformFeeBps: 250, FeeRecipient: other}, t.subject.FeeConfig(c))

	tokenId := t.env.MintItem(seller)
	t.env.Fund(buyer, testenv.Marketplace, 400)
	t.NoError(t.subject.ListItem(c, seller, testenv.Single, tokenId, 1, testenv.WETH, big.NewInt(400), testenv.Start))
	t.NoError(t.subject.BuyItem(c, buyer, testenv.Single, tokenId, testenv.WETH, seller))
	t.Equal(int64(10), t.env.Balance(other))
	t.Equal(int64(390), t.env.Balance(seller))
}

func marketplaceEvents(env *testenv.Env) []event.Name {
	res := []event.Name{}
	for _, e := range env.Events.Journal(env.Ctx) {
		if e.Source == testenv.Marketplace.ToLower() {
			res = append(res, e.Name)
		}
	}
	return res
}
