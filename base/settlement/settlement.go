// Package settlement moves funds and items for one sale through the engine's
// escrow account and undoes every completed step when a later one fails.
//
// Order of a sale: Pull buyer funds into escrow, MoveItem to the buyer, then
// Pay the split out of escrow. Pull and MoveItem are journaled. Pay cannot
// fail: a payout the currency refuses stays in escrow as a credit on the
// engine's Payouts, which the payee withdraws later.
package settlement

import (
	"math/big"
	"sync"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/collection"
	"github.com/x-xyz/marketplace/domain/currency"
	"golang.org/x/xerrors"
)

type undo struct {
	name string
	fn   func(c ctx.Ctx) error
}

type Settlement struct {
	c       ctx.Ctx
	escrow  domain.Address
	payouts *Payouts
	journal []undo
}

// New starts a settlement run by escrow, the engine's own account. escrow is
// also the operator collections must approve. Refused payouts are credited
// on payouts.
func New(c ctx.Ctx, escrow domain.Address, payouts *Payouts) *Settlement {
	return &Settlement{c: c, escrow: escrow, payouts: payouts}
}

// Pull moves amount from owner into escrow.
func (s *Settlement) Pull(cur currency.Currency, from domain.Address, amount *big.Int) error {
	if !domain.IsPositive(amount) {
		return nil
	}
	if err := cur.TransferFrom(s.c, s.escrow, from, s.escrow, amount); err != nil {
		s.c.WithFields(log.Fields{
			"err":      err,
			"currency": cur.Address(),
			"from":     from,
			"amount":   amount,
		}).Error("currency.TransferFrom failed")
		return err
	}
	refund := domain.CopyBig(amount)
	s.journal = append(s.journal, undo{"refund", func(c ctx.Ctx) error {
		return cur.Transfer(c, s.escrow, from, refund)
	}})
	return nil
}

// MoveItem transfers quantity of tokenId from seller to buyer with escrow as
// operator.
func (s *Settlement) MoveItem(coll collection.Collection, from, to domain.Address, tokenId domain.TokenId, quantity int64) error {
	if err := coll.TransferFrom(s.c, s.escrow, from, to, tokenId, quantity); err != nil {
		s.c.WithFields(log.Fields{
			"err":     err,
			"nft":     coll.Address(),
			"tokenId": tokenId,
			"from":    from,
			"to":      to,
		}).Error("collection.TransferFrom failed")
		if domain.KindOf(err) == domain.KindUnknown {
			return xerrors.Errorf("%w: %v", domain.ErrTransferRejected, err)
		}
		return err
	}
	s.journal = append(s.journal, undo{"returnItem", func(c ctx.Ctx) error {
		return coll.TransferFrom(c, to, to, from, tokenId, quantity)
	}})
	return nil
}

// Pay sends amount held in escrow to recipient. A refused transfer leaves
// the amount in escrow, credited to recipient.
func (s *Settlement) Pay(cur currency.Currency, to domain.Address, amount *big.Int) {
	if !domain.IsPositive(amount) {
		return
	}
	if err := cur.Transfer(s.c, s.escrow, to, amount); err != nil {
		s.c.WithFields(log.Fields{
			"err":      err,
			"currency": cur.Address(),
			"to":       to,
			"amount":   amount,
		}).Warn("currency.Transfer failed, payout deferred")
		s.payouts.credit(cur.Address(), to, amount)
	}
}

// PaySplit distributes a sale: fee, royalty, then seller.
func (s *Settlement) PaySplit(cur currency.Currency, split domain.Split, feeRecipient, royaltyRecipient, seller domain.Address) {
	s.Pay(cur, feeRecipient, split.Fee)
	s.Pay(cur, royaltyRecipient, split.Royalty)
	s.Pay(cur, seller, split.Seller)
}

// Rollback reverts journaled steps newest first. Every step is attempted.
func (s *Settlement) Rollback() {
	for i := len(s.journal) - 1; i >= 0; i-- {
		u := s.journal[i]
		if err := u.fn(s.c); err != nil {
			s.c.WithFields(log.Fields{
				"err":  err,
				"step": u.name,
			}).Error("settlement rollback failed")
		}
	}
	s.journal = nil
}

// Steps returns the number of journaled steps.
func (s *Settlement) Steps() int {
	return len(s.journal)
}

type payoutKey struct {
	token domain.Address
	to    domain.Address
}

// Payouts records what an engine's escrow owes payees whose transfer was
// refused. Credits are backed by funds escrow keeps for them.
type Payouts struct {
	mu   sync.Mutex
	owed map[payoutKey]*big.Int
}

func NewPayouts() *Payouts {
	return &Payouts{owed: make(map[payoutKey]*big.Int)}
}

func (p *Payouts) credit(token, to domain.Address, amount *big.Int) {
	key := payoutKey{token.ToLower(), to.ToLower()}
	p.mu.Lock()
	defer p.mu.Unlock()
	if owed, ok := p.owed[key]; ok {
		p.owed[key] = new(big.Int).Add(owed, amount)
		return
	}
	p.owed[key] = domain.CopyBig(amount)
}

// Owed returns what escrow holds for to in token.
func (p *Payouts) Owed(token, to domain.Address) *big.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if owed, ok := p.owed[payoutKey{token.ToLower(), to.ToLower()}]; ok {
		return domain.CopyBig(owed)
	}
	return big.NewInt(0)
}

// Withdraw sends to everything owed in cur out of escrow and returns the
// amount. On failure the credit is kept.
func (p *Payouts) Withdraw(c ctx.Ctx, cur currency.Currency, escrow, to domain.Address) (*big.Int, error) {
	key := payoutKey{cur.Address().ToLower(), to.ToLower()}

	p.mu.Lock()
	amount, ok := p.owed[key]
	delete(p.owed, key)
	p.mu.Unlock()
	if !ok {
		return nil, xerrors.Errorf("%w: nothing owed to %s in %s", domain.ErrNotFound, to, cur.Address())
	}

	if err := cur.Transfer(c, escrow, to, amount); err != nil {
		c.WithFields(log.Fields{
			"err":      err,
			"currency": cur.Address(),
			"to":       to,
			"amount":   amount,
		}).Error("currency.Transfer failed")
		p.credit(key.token, key.to, amount)
		return nil, err
	}
	return amount, nil
}
