package currency

import (
	"math/big"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
)

// Currency is the payment-currency service (erc20 semantics). Implementations
// return domain.ErrInsufficientFunds / domain.ErrInsufficientAllowance when
// they refuse a pull.
type Currency interface {
	Address() domain.Address
	Symbol() string
	Decimals() int32
	BalanceOf(c ctx.Ctx, owner domain.Address) (*big.Int, error)
	Allowance(c ctx.Ctx, owner, spender domain.Address) (*big.Int, error)
	Approve(c ctx.Ctx, owner, spender domain.Address, amount *big.Int) error
	Transfer(c ctx.Ctx, from, to domain.Address, amount *big.Int) error
	TransferFrom(c ctx.Ctx, spender, from, to domain.Address, amount *big.Int) error
}

// CanPull checks that spender may pull amount from owner right now.
func CanPull(c ctx.Ctx, cur Currency, owner, spender domain.Address, amount *big.Int) error {
	balance, err := cur.BalanceOf(c, owner)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return domain.ErrInsufficientFunds
	}
	allowance, err := cur.Allowance(c, owner, spender)
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) < 0 {
		return domain.ErrInsufficientAllowance
	}
	return nil
}
