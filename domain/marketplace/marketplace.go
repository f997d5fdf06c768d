package marketplace

import (
	"math/big"
	"time"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
)

// Listing is keyed by (Nft, TokenId, Owner). Quantity 0 means absent.
type Listing struct {
	Owner        domain.Address `json:"owner"`
	Nft          domain.Address `json:"nft"`
	TokenId      domain.TokenId `json:"tokenId"`
	Quantity     int64          `json:"quantity"`
	PayToken     domain.Address `json:"payToken"`
	PricePerItem *big.Int       `json:"pricePerItem"`
	StartingTime time.Time      `json:"startingTime"`
}

func (l Listing) IsActive() bool {
	return l.Quantity > 0
}

func (l Listing) TotalPrice() *big.Int {
	return new(big.Int).Mul(l.PricePerItem, big.NewInt(l.Quantity))
}

// Offer is keyed by (Nft, TokenId, Creator). Offers hold no funds, payment is
// pulled from the creator on acceptance.
type Offer struct {
	Creator      domain.Address `json:"creator"`
	Nft          domain.Address `json:"nft"`
	TokenId      domain.TokenId `json:"tokenId"`
	PayToken     domain.Address `json:"payToken"`
	Quantity     int64          `json:"quantity"`
	PricePerItem *big.Int       `json:"pricePerItem"`
	Deadline     time.Time      `json:"deadline"`
}

func (o Offer) IsActive(now time.Time) bool {
	return o.Quantity > 0 && o.Deadline.After(now)
}

func (o Offer) TotalPrice() *big.Int {
	return new(big.Int).Mul(o.PricePerItem, big.NewInt(o.Quantity))
}

type UseCase interface {
	Address() domain.Address

	ListItem(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId, quantity int64, payToken domain.Address, pricePerItem *big.Int, startingTime time.Time) error
	UpdateListing(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId, payToken domain.Address, newPrice *big.Int) error
	CancelListing(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId) error
	BuyItem(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId, payToken, owner domain.Address) error

	CreateOffer(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId, payToken domain.Address, quantity int64, pricePerItem *big.Int, deadline time.Time) error
	CancelOffer(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId) error
	AcceptOffer(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId, creator domain.Address) error

	UpdatePlatformFee(c ctx.Ctx, caller domain.Address, bps int64) error
	UpdatePlatformFeeRecipient(c ctx.Ctx, caller, recipient domain.Address) error
	FeeConfig(c ctx.Ctx) domain.FeeConfig

	GetListing(c ctx.Ctx, nft domain.Address, tokenId domain.TokenId, owner domain.Address) Listing
	GetOffer(c ctx.Ctx, nft domain.Address, tokenId domain.TokenId, creator domain.Address) Offer

	domain.PayoutAccount
}
