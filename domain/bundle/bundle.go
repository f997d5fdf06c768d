package bundle

import (
	"math/big"
	"time"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
)

type Item struct {
	Nft      domain.Address `json:"nft"`
	TokenId  domain.TokenId `json:"tokenId"`
	Quantity int64          `json:"quantity"`
}

// Listing is keyed by (Owner, BundleId). A bundle id belongs to one seller at
// a time. No items means absent.
type Listing struct {
	Owner        domain.Address `json:"owner"`
	BundleId     string         `json:"bundleId"`
	Items        []Item         `json:"items"`
	PayToken     domain.Address `json:"payToken"`
	Price        *big.Int       `json:"price"`
	StartingTime time.Time      `json:"startingTime"`
}

func (l Listing) IsActive() bool {
	return len(l.Items) > 0
}

// Offer is keyed by (BundleId, Creator).
type Offer struct {
	Creator  domain.Address `json:"creator"`
	BundleId string         `json:"bundleId"`
	PayToken domain.Address `json:"payToken"`
	Price    *big.Int       `json:"price"`
	Deadline time.Time      `json:"deadline"`
}

func (o Offer) IsActive(now time.Time) bool {
	return domain.IsPositive(o.Price) && o.Deadline.After(now)
}

// ToItems zips the parallel argument arrays of listItem.
func ToItems(nfts []domain.Address, tokenIds []domain.TokenId, quantities []int64) ([]Item, error) {
	if len(nfts) == 0 || len(nfts) != len(tokenIds) || len(nfts) != len(quantities) {
		return nil, domain.ErrInvalidParameters
	}
	items := make([]Item, 0, len(nfts))
	for i := range nfts {
		if quantities[i] <= 0 || nfts[i].IsEmpty() {
			return nil, domain.ErrInvalidParameters
		}
		items = append(items, Item{
			Nft:      nfts[i].ToLower(),
			TokenId:  tokenIds[i],
			Quantity: quantities[i],
		})
	}
	return items, nil
}

type UseCase interface {
	Address() domain.Address

	ListItem(c ctx.Ctx, caller domain.Address, bundleId string, nfts []domain.Address, tokenIds []domain.TokenId, quantities []int64, payToken domain.Address, price *big.Int, startingTime time.Time) error
	// UpdateListing replaces the items when nfts is non-empty.
	UpdateListing(c ctx.Ctx, caller domain.Address, bundleId string, nfts []domain.Address, tokenIds []domain.TokenId, quantities []int64, payToken domain.Address, newPrice *big.Int) error
	CancelListing(c ctx.Ctx, caller domain.Address, bundleId string) error
	BuyItem(c ctx.Ctx, caller domain.Address, bundleId string, payToken domain.Address) error

	CreateOffer(c ctx.Ctx, caller domain.Address, bundleId string, payToken domain.Address, price *big.Int, deadline time.Time) error
	CancelOffer(c ctx.Ctx, caller domain.Address, bundleId string) error
	AcceptOffer(c ctx.Ctx, caller domain.Address, bundleId string, creator domain.Address) error

	UpdatePlatformFee(c ctx.Ctx, caller domain.Address, bps int64) error
	UpdatePlatformFeeRecipient(c ctx.Ctx, caller, recipient domain.Address) error
	FeeConfig(c ctx.Ctx) domain.FeeConfig

	GetListing(c ctx.Ctx, owner domain.Address, bundleId string) Listing
	GetOffer(c ctx.Ctx, bundleId string, creator domain.Address) Offer
	OwnerOf(c ctx.Ctx, bundleId string) (domain.Address, bool)

	domain.PayoutAccount
}
