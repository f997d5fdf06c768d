package usecase

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/bundle"
	"github.com/x-xyz/marketplace/domain/event"
	"github.com/x-xyz/marketplace/domain/registry"
	"github.com/x-xyz/marketplace/service/nft"
	"github.com/x-xyz/marketplace/stores/internal/testenv"
)

var (
	seller  = domain.Address("0x0000000000000000000000000000000000005e11")
	buyer   = domain.Address("0x000000000000000000000000000000000000b0b0")
	other   = domain.Address("0x0000000000000000000000000000000000000777")
	creator = domain.Address("0x000000000000000000000000000000000000c4ea")
	broken  = domain.Address("0x0000000000000000000000000000000000000404")
)

type testsuite struct {
	suite.Suite
	env     *testenv.Env
	subject bundle.UseCase
	first   domain.TokenId
	second  domain.TokenId
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.env = testenv.New()
	subject, err := New(&BundleUseCaseCfg{
		Address:  testenv.Bundle,
		Admins:   domain.NewAdmins([]string{string(testenv.Admin)}),
		Registry: t.env.Registry,
		Emitter:  t.env.Events,
		Fee:      domain.FeeConfig{PlatformFeeBps: 500, FeeRecipient: testenv.FeeRecipient},
		Clock:    t.env.Now,
	})
	t.Require().NoError(err)
	t.subject = subject
	t.env.Bind(registry.RoleBundleMarketplace, testenv.Bundle, subject)

	t.first = t.env.MintItem(seller)
	t.second = t.env.MintItem(seller)
}

func (t *testsuite) listPair(bundleId string, price int64) error {
	return t.subject.ListItem(t.env.Ctx, seller, bundleId,
		[]domain.Address{testenv.Single, testenv.Single},
		[]domain.TokenId{t.first, t.second},
		[]int64{1, 1},
		testenv.WETH, big.NewInt(price), testenv.Start)
}

func (t *testsuite) TestBundleScenario() {
	c := t.env.Ctx
	t.env.Fund(buyer, testenv.Bundle, 50)
	t.NoError(t.listPair("pair", 20))

	owner, ok := t.subject.OwnerOf(c, "pair")
	t.True(ok)
	t.Equal(seller, owner)

	t.NoError(t.subject.BuyItem(c, buyer, "pair", testenv.WETH))

	t.Equal(int64(30), t.env.Balance(buyer))
	t.Equal(int64(19), t.env.Balance(seller))
	t.Equal(int64(1), t.env.Balance(testenv.FeeRecipient))
	t.Equal(int64(0), t.env.Balance(testenv.Bundle))
	t.Equal(int64(1), t.env.Holding(t.env.Single, buyer, t.first))
	t.Equal(int64(1), t.env.Holding(t.env.Single, buyer, t.second))

	listing := t.subject.GetListing(c, seller, "pair")
	t.False(listing.IsActive())
	_, ok = t.subject.OwnerOf(c, "pair")
	t.False(ok)

	sold := t.env.LastEvent(event.ItemSold)
	t.Require().NotNil(sold)
	t.Equal(event.BundleSoldPayload{
		Seller:    seller,
		Buyer:     buyer,
		BundleId:  "pair",
		PayToken:  testenv.WETH.ToLower(),
		UnitPrice: big.NewInt(2000_00000000),
		Price:     big.NewInt(20),
	}, sold.Payload)

	t.ErrorIs(t.subject.BuyItem(c, buyer, "pair", testenv.WETH), domain.ErrEntityNotActive)
}

func (t *testsuite) TestRoyaltyFromFirstEntry() {
	c := t.env.Ctx
	t.NoError(t.env.Royalties.SetRoyaltyForItem(c, testenv.Admin, testenv.Single, t.first, creator, 1000))
	t.NoError(t.env.Royalties.SetRoyaltyForItem(c, testenv.Admin, testenv.Single, t.second, other, 5000))
	t.env.Fund(buyer, testenv.Bundle, 200)

	t.NoError(t.listPair("pair", 200))
	t.NoError(t.subject.BuyItem(c, buyer, "pair", testenv.WETH))

	t.Equal(int64(10), t.env.Balance(testenv.FeeRecipient))
	t.Equal(int64(19), t.env.Balance(creator))
	t.Equal(int64(0), t.env.Balance(other))
	t.Equal(int64(171), t.env.Balance(seller))
}

func (t *testsuite) TestListItemErrors() {
	c := t.env.Ctx
	multi := t.env.MintMulti(seller, 5)

	tests := []struct {
		desc       string
		caller     domain.Address
		bundleId   string
		nfts       []domain.Address
		tokenIds   []domain.TokenId
		quantities []int64
		payToken   domain.Address
		price      *big.Int
		expErr     error
	}{
		{"empty bundle id", seller, "", []domain.Address{testenv.Single}, []domain.TokenId{t.first}, []int64{1}, testenv.WETH, big.NewInt(1), domain.ErrInvalidParameters},
		{"no items", seller, "b", nil, nil, nil, testenv.WETH, big.NewInt(1), domain.ErrInvalidParameters},
		{"length mismatch", seller, "b", []domain.Address{testenv.Single, testenv.Single}, []domain.TokenId{t.first}, []int64{1, 1}, testenv.WETH, big.NewInt(1), domain.ErrInvalidParameters},
		{"zero quantity", seller, "b", []domain.Address{testenv.Single}, []domain.TokenId{t.first}, []int64{0}, testenv.WETH, big.NewInt(1), domain.ErrInvalidParameters},
		{"zero price", seller, "b", []domain.Address{testenv.Single}, []domain.TokenId{t.first}, []int64{1}, testenv.WETH, big.NewInt(0), domain.ErrInvalidParameters},
		{"not whitelisted", seller, "b", []domain.Address{testenv.Single}, []domain.TokenId{t.first}, []int64{1}, testenv.Unlisted, big.NewInt(1), domain.ErrNotWhitelisted},
		{"not the owner", other, "b", []domain.Address{testenv.Single}, []domain.TokenId{t.first}, []int64{1}, testenv.WETH, big.NewInt(1), domain.ErrUnauthorized},
		{"repeated entries exceed holding", seller, "b", []domain.Address{testenv.Multi, testenv.Multi}, []domain.TokenId{multi, multi}, []int64{3, 3}, testenv.WETH, big.NewInt(1), domain.ErrUnauthorized},
		{"unknown collection", seller, "b", []domain.Address{broken}, []domain.TokenId{t.first}, []int64{1}, testenv.WETH, big.NewInt(1), domain.ErrDependencyUnresolved},
	}
	for _, tt := range tests {
		err := t.subject.ListItem(c, tt.caller, tt.bundleId, tt.nfts, tt.tokenIds, tt.quantities, tt.payToken, tt.price, testenv.Start)
		t.ErrorIs(err, tt.expErr, tt.desc)
	}

	t.NoError(t.listPair("pair", 20))
	t.ErrorIs(t.listPair("pair", 30), domain.ErrInvalidParameters)

	otherItem := t.env.MintItem(other)
	err := t.subject.ListItem(c, other, "pair", []domain.Address{testenv.Single}, []domain.TokenId{otherItem}, []int64{1}, testenv.WETH, big.NewInt(1), testenv.Start)
	t.ErrorIs(err, domain.ErrInvalidParameters)

	// an id is free again once cancelled
	t.NoError(t.subject.CancelListing(c, seller, "pair"))
	t.NoError(t.subject.ListItem(c, other, "pair", []domain.Address{testenv.Single}, []domain.TokenId{otherItem}, []int64{1}, testenv.WETH, big.NewInt(1), testenv.Start))
}

type brokenCollection struct {
	*nft.Collection
}

func (b *brokenCollection) TransferFrom(c ctx.Ctx, operator, from, to domain.Address, tokenId domain.TokenId, quantity int64) error {
	return errors.New("transfers paused")
}

func (t *testsuite) TestAllOrNothing() {
	c := t.env.Ctx
	coll := nft.New(nft.Config{Address: broken, Owner: testenv.Admin, Operators: []domain.Address{testenv.Bundle}})
	t.env.Registry.Bind(broken, &brokenCollection{coll})
	brokenId, err := coll.Mint(c, testenv.Admin, seller, "ipfs://x", 1)
	t.Require().NoError(err)
	t.env.Fund(buyer, testenv.Bundle, 50)

	t.NoError(t.subject.ListItem(c, seller, "mixed",
		[]domain.Address{testenv.Single, broken},
		[]domain.TokenId{t.first, brokenId},
		[]int64{1, 1},
		testenv.WETH, big.NewInt(20), testenv.Start))

	err = t.subject.BuyItem(c, buyer, "mixed", testenv.WETH)
	t.ErrorIs(err, domain.ErrTransferRejected)

	t.Equal(int64(50), t.env.Balance(buyer))
	t.Equal(int64(0), t.env.Balance(seller))
	t.Equal(int64(0), t.env.Balance(testenv.Bundle))
	t.Equal(int64(1), t.env.Holding(t.env.Single, seller, t.first))
	t.Equal(int64(0), t.env.Holding(t.env.Single, buyer, t.first))
	t.True(t.subject.GetListing(c, seller, "mixed").IsActive())
	t.NotContains(t.env.EventNames(), event.ItemSold)
}

func (t *testsuite) TestSellerMovedOneItem() {
	c := t.env.Ctx
	t.env.Fund(buyer, testenv.Bundle, 50)
	t.NoError(t.listPair("pair", 20))
	t.NoError(t.env.Single.TransferFrom(c, seller, seller, other, t.second, 1))

	t.ErrorIs(t.subject.BuyItem(c, buyer, "pair", testenv.WETH), domain.ErrTransferRejected)
	t.Equal(int64(50), t.env.Balance(buyer))
	t.Equal(int64(1), t.env.Holding(t.env.Single, seller, t.first))
}

func (t *testsuite) TestBuyItemErrors() {
	c := t.env.Ctx
	t.NoError(t.subject.ListItem(c, seller, "later",
		[]domain.Address{testenv.Single}, []domain.TokenId{t.first}, []int64{1},
		testenv.WETH, big.NewInt(20), testenv.Start.Add(time.Hour)))
	t.env.Fund(buyer, testenv.Bundle, 10)

	t.ErrorIs(t.subject.BuyItem(c, buyer, "missing", testenv.WETH), domain.ErrEntityNotActive)
	t.ErrorIs(t.subject.BuyItem(c, buyer, "later", testenv.Unlisted), domain.ErrInvalidParameters)
	t.ErrorIs(t.subject.BuyItem(c, buyer, "later", testenv.WETH), domain.ErrOutsideTimeWindow)

	t.env.Advance(time.Hour)
	t.ErrorIs(t.subject.BuyItem(c, buyer, "later", testenv.WETH), domain.ErrInsufficientFunds)
}

func (t *testsuite) TestUpdateListing() {
	c := t.env.Ctx
	t.NoError(t.subject.ListItem(c, seller, "b",
		[]domain.Address{testenv.Single}, []domain.TokenId{t.first}, []int64{1},
		testenv.WETH, big.NewInt(20), testenv.Start))

	t.ErrorIs(t.subject.UpdateListing(c, other, "b", nil, nil, nil, testenv.WETH, big.NewInt(5)), domain.ErrEntityNotActive)
	t.ErrorIs(t.subject.UpdateListing(c, seller, "b", nil, nil, nil, testenv.WETH, nil), domain.ErrInvalidParameters)

	t.NoError(t.subject.UpdateListing(c, seller, "b", nil, nil, nil, testenv.WETH, big.NewInt(5)))
	listing := t.subject.GetListing(c, seller, "b")
	t.Equal(big.NewInt(5), listing.Price)
	t.Len(listing.Items, 1)

	t.NoError(t.subject.UpdateListing(c, seller, "b",
		[]domain.Address{testenv.Single, testenv.Single}, []domain.TokenId{t.first, t.second}, []int64{1, 1},
		testenv.WETH, big.NewInt(7)))
	listing = t.subject.GetListing(c, seller, "b")
	t.Equal([]bundle.Item{
		{Nft: testenv.Single.ToLower(), TokenId: t.first, Quantity: 1},
		{Nft: testenv.Single.ToLower(), TokenId: t.second, Quantity: 1},
	}, listing.Items)

	updated := t.env.LastEvent(event.ItemUpdated)
	t.Require().NotNil(updated)
	t.Equal([]domain.TokenId{t.first, t.second}, updated.Payload.(event.BundleUpdatedPayload).TokenIds)

	t.ErrorIs(t.subject.CancelListing(c, other, "b"), domain.ErrEntityNotActive)
	t.NoError(t.subject.CancelListing(c, seller, "b"))
	t.ErrorIs(t.subject.CancelListing(c, seller, "b"), domain.ErrEntityNotActive)
}

func (t *testsuite) TestOffers() {
	c := t.env.Ctx
	deadline := testenv.Start.Add(time.Hour)
	t.env.Fund(buyer, testenv.Bundle, 50)

	t.ErrorIs(t.subject.CreateOffer(c, buyer, "pair", testenv.WETH, big.NewInt(15), deadline), domain.ErrEntityNotActive)
	t.NoError(t.listPair("pair", 20))

	t.ErrorIs(t.subject.CreateOffer(c, buyer, "pair", testenv.WETH, big.NewInt(0), deadline), domain.ErrInvalidParameters)
	t.ErrorIs(t.subject.CreateOffer(c, buyer, "pair", testenv.WETH, big.NewInt(15), testenv.Start), domain.ErrInvalidParameters)
	t.ErrorIs(t.subject.CreateOffer(c, buyer, "pair", testenv.Unlisted, big.NewInt(15), deadline), domain.ErrNotWhitelisted)

	t.NoError(t.subject.CreateOffer(c, buyer, "pair", testenv.WETH, big.NewInt(15), deadline))
	t.ErrorIs(t.subject.CreateOffer(c, buyer, "pair", testenv.WETH, big.NewInt(16), deadline), domain.ErrInvalidParameters)
	t.Equal(big.NewInt(15), t.subject.GetOffer(c, "pair", buyer).Price)

	t.ErrorIs(t.subject.AcceptOffer(c, other, "pair", buyer), domain.ErrEntityNotActive)
	t.ErrorIs(t.subject.AcceptOffer(c, seller, "pair", other), domain.ErrEntityNotActive)

	t.NoError(t.subject.AcceptOffer(c, seller, "pair", buyer))
	t.Equal(int64(35), t.env.Balance(buyer))
	t.Equal(int64(15), t.env.Balance(seller)) // 15 minus a fee rounded down to 0
	t.Equal(int64(1), t.env.Holding(t.env.Single, buyer, t.second))
	t.False(t.subject.GetListing(c, seller, "pair").IsActive())
	t.Equal(big.NewInt(0), t.subject.GetOffer(c, "pair", buyer).Price)
}

func (t *testsuite) TestOfferExpiry() {
	c := t.env.Ctx
	t.NoError(t.listPair("pair", 20))
	t.NoError(t.subject.CreateOffer(c, buyer, "pair", testenv.WETH, big.NewInt(15), testenv.Start.Add(time.Minute)))
	t.NoError(t.subject.CancelOffer(c, buyer, "pair"))
	t.ErrorIs(t.subject.CancelOffer(c, buyer, "pair"), domain.ErrEntityNotActive)

	t.NoError(t.subject.CreateOffer(c, buyer, "pair", testenv.WETH, big.NewInt(15), testenv.Start.Add(time.Minute)))
	t.env.Advance(time.Minute)
	t.ErrorIs(t.subject.AcceptOffer(c, seller, "pair", buyer), domain.ErrEntityNotActive)
}

func (t *testsuite) TestFeeUpdates() {
	c := t.env.Ctx
	t.ErrorIs(t.subject.UpdatePlatformFee(c, other, 1), domain.ErrUnauthorized)
	t.NoError(t.subject.UpdatePlatformFee(c, testenv.Admin, 1000))
	t.ErrorIs(t.subject.UpdatePlatformFeeRecipient(c, testenv.Admin, ""), domain.ErrInvalidParameters)
	t.NoError(t.subject.UpdatePlatformFeeRecipient(c, testenv.Admin, other))
	t.Equal(domain.FeeConfig{PlatformFeeBps: 1000, FeeRecipient: other}, t.subject.FeeConfig(c))
}
