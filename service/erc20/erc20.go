// Package erc20 is an in-process payment currency with erc20 balance and
// allowance semantics.
package erc20

import (
	"math/big"
	"sync"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	"golang.org/x/xerrors"
)

type Config struct {
	Address  domain.Address `mapstructure:"address"`
	Symbol   string         `mapstructure:"symbol"`
	Decimals int32          `mapstructure:"decimals"`
}

type Token struct {
	cfg        Config
	mu         sync.RWMutex
	balances   map[domain.Address]*big.Int
	allowances map[domain.Address]map[domain.Address]*big.Int
}

func New(cfg Config) *Token {
	cfg.Address = cfg.Address.ToLower()
	return &Token{
		cfg:        cfg,
		balances:   make(map[domain.Address]*big.Int),
		allowances: make(map[domain.Address]map[domain.Address]*big.Int),
	}
}

func (t *Token) Address() domain.Address {
	return t.cfg.Address
}

func (t *Token) Symbol() string {
	return t.cfg.Symbol
}

func (t *Token) Decimals() int32 {
	return t.cfg.Decimals
}

func (t *Token) BalanceOf(c ctx.Ctx, owner domain.Address) (*big.Int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.balanceOf(owner.ToLower()), nil
}

func (t *Token) Allowance(c ctx.Ctx, owner, spender domain.Address) (*big.Int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.allowance(owner.ToLower(), spender.ToLower()), nil
}

func (t *Token) Approve(c ctx.Ctx, owner, spender domain.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return domain.ErrInvalidParameters
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	owner = owner.ToLower()
	if _, ok := t.allowances[owner]; !ok {
		t.allowances[owner] = make(map[domain.Address]*big.Int)
	}
	t.allowances[owner][spender.ToLower()] = new(big.Int).Set(amount)
	return nil
}

// Mint credits amount to to out of thin air.
func (t *Token) Mint(c ctx.Ctx, to domain.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return domain.ErrInvalidParameters
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	to = to.ToLower()
	t.balances[to] = new(big.Int).Add(t.balanceOf(to), amount)
	return nil
}

func (t *Token) Transfer(c ctx.Ctx, from, to domain.Address, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.move(from.ToLower(), to.ToLower(), amount)
}

func (t *Token) TransferFrom(c ctx.Ctx, spender, from, to domain.Address, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	spender, from = spender.ToLower(), from.ToLower()
	if spender != from {
		allowance := t.allowance(from, spender)
		if allowance.Cmp(amount) < 0 {
			return xerrors.Errorf("%w: %s allows %s to spend %s of %s, needs %s", domain.ErrInsufficientAllowance, from, spender, allowance, t.cfg.Symbol, amount)
		}
		if err := t.move(from, to.ToLower(), amount); err != nil {
			return err
		}
		t.allowances[from][spender] = new(big.Int).Sub(allowance, amount)
		return nil
	}
	return t.move(from, to.ToLower(), amount)
}

func (t *Token) move(from, to domain.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return domain.ErrInvalidParameters
	}
	balance := t.balanceOf(from)
	if balance.Cmp(amount) < 0 {
		return xerrors.Errorf("%w: %s holds %s of %s, needs %s", domain.ErrInsufficientFunds, from, balance, t.cfg.Symbol, amount)
	}
	t.balances[from] = new(big.Int).Sub(balance, amount)
	t.balances[to] = new(big.Int).Add(t.balanceOf(to), amount)
	return nil
}

func (t *Token) balanceOf(owner domain.Address) *big.Int {
	if b, ok := t.balances[owner]; ok {
		return new(big.Int).Set(b)
	}
	return big.NewInt(0)
}

func (t *Token) allowance(owner, spender domain.Address) *big.Int {
	if a, ok := t.allowances[owner][spender]; ok {
		return new(big.Int).Set(a)
	}
	return big.NewInt(0)
}
