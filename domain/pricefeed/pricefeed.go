package pricefeed

import (
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
)

// Oracle is a read-only price source quoting one currency in USD.
type Oracle interface {
	Address() domain.Address
	Decimals() int32
	LatestAnswer(c ctx.Ctx) (*big.Int, error)
}

type Price struct {
	Answer   *big.Int `json:"answer"`
	Decimals int32    `json:"decimals"`
}

// Value is the price as a decimal number.
func (p Price) Value() decimal.Decimal {
	if p.Answer == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(p.Answer, -p.Decimals)
}

type Record struct {
	Token  domain.Address `json:"token"`
	Oracle domain.Address `json:"oracle"`
}

type PriceFeed interface {
	RegisterOracle(c ctx.Ctx, caller, token, oracle domain.Address) error
	UpdateOracle(c ctx.Ctx, caller, token, oracle domain.Address) error
	FindAll(c ctx.Ctx) ([]Record, error)
	// GetPrice quotes token, the empty address standing for the wrapped
	// native token. A token with no oracle quotes zero.
	GetPrice(c ctx.Ctx, token domain.Address) (Price, error)
	// Quote values amount base units of token in USD.
	Quote(c ctx.Ctx, token domain.Address, amount *big.Int) (decimal.Decimal, error)
}
