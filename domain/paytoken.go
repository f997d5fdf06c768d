package domain

import (
	"github.com/x-xyz/marketplace/base/ctx"
)

type PayToken struct {
	Address  Address `json:"address"`
	Symbol   string  `json:"symbol"`
	Decimals int32   `json:"decimals"`
}

// TokenRegistry is the whitelist of payment currencies usable in listings,
// offers and auctions.
type TokenRegistry interface {
	Add(c ctx.Ctx, caller Address, token Address) error
	Remove(c ctx.Ctx, caller Address, token Address) error
	Enabled(c ctx.Ctx, token Address) bool
	FindAll(c ctx.Ctx) ([]Address, error)
}
