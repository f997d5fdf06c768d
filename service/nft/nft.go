// Package nft is an in-process item collection. A single-kind collection
// holds one unit per token id; a multi-kind collection holds editions.
package nft

import (
	"math/big"
	"strconv"
	"sync"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/collection"
	"github.com/x-xyz/marketplace/domain/currency"
	"github.com/x-xyz/marketplace/domain/event"
	"golang.org/x/xerrors"
)

type Config struct {
	Address domain.Address
	Name    string
	Symbol  string
	Kind    collection.Kind
	Owner   domain.Address
	// Private collections mint only for the owner and added minters.
	Private bool
	MintFee *big.Int
	// FeeCurrency is charged MintFee on every mint, paid to Treasury.
	FeeCurrency currency.Currency
	Treasury    domain.Address
	// Operators are approved for every holder, e.g. the engines.
	Operators []domain.Address
	Emitter   event.Emitter
}

type Collection struct {
	cfg       Config
	mu        sync.RWMutex
	mintFee   *big.Int
	nextId    int64
	balances  map[domain.TokenId]map[domain.Address]int64
	uris      map[domain.TokenId]string
	approvals map[domain.Address]map[domain.Address]bool
	operators map[domain.Address]bool
	minters   map[domain.Address]bool
}

func New(cfg Config) *Collection {
	cfg.Address = cfg.Address.ToLower()
	cfg.Owner = cfg.Owner.ToLower()
	if cfg.Kind == "" {
		cfg.Kind = collection.KindSingle
	}
	mintFee := big.NewInt(0)
	if cfg.MintFee != nil {
		mintFee.Set(cfg.MintFee)
	}
	operators := make(map[domain.Address]bool)
	for _, op := range cfg.Operators {
		if !op.IsEmpty() {
			operators[op.ToLower()] = true
		}
	}
	return &Collection{
		cfg:       cfg,
		mintFee:   mintFee,
		nextId:    1,
		balances:  make(map[domain.TokenId]map[domain.Address]int64),
		uris:      make(map[domain.TokenId]string),
		approvals: make(map[domain.Address]map[domain.Address]bool),
		operators: operators,
		minters:   make(map[domain.Address]bool),
	}
}

func (n *Collection) Address() domain.Address {
	return n.cfg.Address
}

func (n *Collection) Name() string {
	return n.cfg.Name
}

func (n *Collection) Symbol() string {
	return n.cfg.Symbol
}

func (n *Collection) Kind() collection.Kind {
	return n.cfg.Kind
}

func (n *Collection) Private() bool {
	return n.cfg.Private
}

func (n *Collection) Owner(c ctx.Ctx) (domain.Address, error) {
	return n.cfg.Owner, nil
}

func (n *Collection) MintFee() *big.Int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return new(big.Int).Set(n.mintFee)
}

func (n *Collection) BalanceOf(c ctx.Ctx, owner domain.Address, tokenId domain.TokenId) (int64, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.balances[tokenId][owner.ToLower()], nil
}

// OwnerOf returns the holder of a single-kind token.
func (n *Collection) OwnerOf(c ctx.Ctx, tokenId domain.TokenId) (domain.Address, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for holder, balance := range n.balances[tokenId] {
		if balance > 0 {
			return holder, nil
		}
	}
	return "", domain.ErrNotFound
}

func (n *Collection) TokenURI(c ctx.Ctx, tokenId domain.TokenId) (string, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	uri, ok := n.uris[tokenId]
	if !ok {
		return "", domain.ErrNotFound
	}
	return uri, nil
}

func (n *Collection) IsApprovedForAll(c ctx.Ctx, owner, operator domain.Address) (bool, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.isApprovedForAll(owner.ToLower(), operator.ToLower()), nil
}

func (n *Collection) SetApprovalForAll(c ctx.Ctx, owner, operator domain.Address, approved bool) error {
	owner, operator = owner.ToLower(), operator.ToLower()
	if owner == operator {
		return domain.ErrInvalidParameters
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.approvals[owner]; !ok {
		n.approvals[owner] = make(map[domain.Address]bool)
	}
	n.approvals[owner][operator] = approved
	return nil
}

func (n *Collection) AddMinter(c ctx.Ctx, caller, minter domain.Address) error {
	if !caller.Equals(n.cfg.Owner) {
		return domain.ErrUnauthorized
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minters[minter.ToLower()] = true
	return nil
}

func (n *Collection) RemoveMinter(c ctx.Ctx, caller, minter domain.Address) error {
	if !caller.Equals(n.cfg.Owner) {
		return domain.ErrUnauthorized
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.minters, minter.ToLower())
	return nil
}

func (n *Collection) UpdateMintFee(c ctx.Ctx, caller domain.Address, fee *big.Int) error {
	if !caller.Equals(n.cfg.Owner) {
		return domain.ErrUnauthorized
	}
	if fee == nil || fee.Sign() < 0 {
		return domain.ErrInvalidParameters
	}
	n.mu.Lock()
	n.mintFee = new(big.Int).Set(fee)
	n.mu.Unlock()

	if n.cfg.Emitter != nil {
		n.cfg.Emitter.Emit(c, n.cfg.Address, event.UpdateMintFee, event.AmountPayload{Amount: domain.CopyBig(fee)})
	}
	return nil
}

// Mint issues supply units of a new token to to, charging the mint fee to
// minter.
func (n *Collection) Mint(c ctx.Ctx, minter, to domain.Address, tokenUri string, supply int64) (domain.TokenId, error) {
	minter, to = minter.ToLower(), to.ToLower()
	if to.IsEmpty() || len(tokenUri) == 0 {
		return "", domain.ErrInvalidParameters
	}
	if n.cfg.Kind == collection.KindSingle {
		if supply == 0 {
			supply = 1
		}
		if supply != 1 {
			return "", xerrors.Errorf("%w: single edition supply %d", domain.ErrInvalidParameters, supply)
		}
	} else if supply <= 0 {
		return "", domain.ErrInvalidParameters
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.cfg.Private && minter != n.cfg.Owner && !n.minters[minter] {
		return "", xerrors.Errorf("%w: %s may not mint on %s", domain.ErrUnauthorized, minter, n.cfg.Address)
	}

	if n.mintFee.Sign() > 0 {
		if n.cfg.FeeCurrency == nil {
			return "", domain.ErrDependencyUnresolved
		}
		if err := n.cfg.FeeCurrency.TransferFrom(c, n.cfg.Address, minter, n.cfg.Treasury, n.mintFee); err != nil {
			c.WithFields(log.Fields{
				"err":      err,
				"minter":   minter,
				"mintFee":  n.mintFee,
				"treasury": n.cfg.Treasury,
			}).Error("FeeCurrency.TransferFrom failed")
			return "", err
		}
	}

	tokenId := domain.TokenId(strconv.FormatInt(n.nextId, 10))
	n.nextId++
	n.balances[tokenId] = map[domain.Address]int64{to: supply}
	n.uris[tokenId] = tokenUri

	if n.cfg.Emitter != nil {
		n.cfg.Emitter.Emit(c, n.cfg.Address, event.Minted, event.MintedPayload{
			TokenId:     tokenId,
			Beneficiary: to,
			TokenUri:    tokenUri,
			Minter:      minter,
		})
	}

	return tokenId, nil
}

func (n *Collection) TransferFrom(c ctx.Ctx, operator, from, to domain.Address, tokenId domain.TokenId, quantity int64) error {
	operator, from, to = operator.ToLower(), from.ToLower(), to.ToLower()
	if quantity <= 0 || to.IsEmpty() {
		return domain.ErrInvalidParameters
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if operator != from && !n.isApprovedForAll(from, operator) {
		return xerrors.Errorf("%w: %s not approved by %s on %s", domain.ErrTransferRejected, operator, from, n.cfg.Address)
	}
	holders := n.balances[tokenId]
	if holders[from] < quantity {
		return xerrors.Errorf("%w: %s holds %d of %s/%s, needs %d", domain.ErrTransferRejected, from, holders[from], n.cfg.Address, tokenId, quantity)
	}
	holders[from] -= quantity
	if holders[from] == 0 {
		delete(holders, from)
	}
	holders[to] += quantity
	return nil
}

func (n *Collection) isApprovedForAll(owner, operator domain.Address) bool {
	return n.operators[operator] || n.approvals[owner][operator]
}
