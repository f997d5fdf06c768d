package domain

import (
	"math/big"

	"github.com/x-xyz/marketplace/base/ctx"
)

// FeeConfig is the platform fee setting of one engine. Engines copy it at the
// start of a settlement so a concurrent update never changes a sale in flight.
type FeeConfig struct {
	PlatformFeeBps int64   `json:"platformFee" mapstructure:"platform_fee_bps"`
	FeeRecipient   Address `json:"feeRecipient" mapstructure:"fee_recipient"`
}

func (f FeeConfig) Validate() error {
	if f.PlatformFeeBps < 0 || f.PlatformFeeBps > MaxBps {
		return ErrInvalidParameters
	}
	if f.PlatformFeeBps > 0 && f.FeeRecipient.IsEmpty() {
		return ErrInvalidParameters
	}
	return nil
}

// Split is how one settled sale is distributed.
type Split struct {
	Gross   *big.Int `json:"gross"`
	Fee     *big.Int `json:"fee"`
	Royalty *big.Int `json:"royalty"`
	Seller  *big.Int `json:"seller"`
}

// ComputeSplit charges feeBps on feeBase (the gross price when nil), then
// royaltyBps on what is left, the seller keeping the remainder.
func ComputeSplit(gross, feeBase *big.Int, feeBps, royaltyBps int64) Split {
	if feeBase == nil {
		feeBase = gross
	}
	if feeBase.Sign() < 0 {
		feeBase = Big0
	}

	fee := MulBps(feeBase, feeBps)
	if fee.Cmp(gross) > 0 {
		fee = new(big.Int).Set(gross)
	}
	residual := new(big.Int).Sub(gross, fee)
	royalty := MulBps(residual, royaltyBps)

	return Split{
		Gross:   new(big.Int).Set(gross),
		Fee:     fee,
		Royalty: royalty,
		Seller:  new(big.Int).Sub(residual, royalty),
	}
}

// MulBps returns v * bps / 10000, rounded down.
func MulBps(v *big.Int, bps int64) *big.Int {
	res := new(big.Int).Mul(v, big.NewInt(bps))
	return res.Div(res, Big10000)
}

// PayoutAccount is implemented by engines paying out of escrow. A payout the
// currency refused stays in escrow until the payee withdraws it.
type PayoutAccount interface {
	PendingPayout(c ctx.Ctx, payToken, recipient Address) *big.Int
	WithdrawPayout(c ctx.Ctx, caller, payToken Address) error
}
