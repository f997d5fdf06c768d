package royalty

import (
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
)

// Rule routes Bps basis points of a secondary sale to Recipient. An empty
// TokenId marks the collection default.
type Rule struct {
	Collection domain.Address `json:"collection"`
	TokenId    domain.TokenId `json:"tokenId,omitempty"`
	Recipient  domain.Address `json:"recipient"`
	Bps        int64          `json:"bps"`
}

type Registry interface {
	SetDefaultRoyalty(c ctx.Ctx, caller, collection, recipient domain.Address, bps int64) error
	SetRoyaltyForItem(c ctx.Ctx, caller, collection domain.Address, tokenId domain.TokenId, recipient domain.Address, bps int64) error
	// RoyaltyOf returns the item rule if any, else the collection default.
	RoyaltyOf(c ctx.Ctx, collection domain.Address, tokenId domain.TokenId) (Rule, bool)
}
