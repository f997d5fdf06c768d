package collection

import (
	"math/big"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	"golang.org/x/xerrors"
)

type Kind string

const (
	// KindSingle collections hold exactly one unit per token id
	KindSingle Kind = "single"
	// KindMulti collections hold editions of a token id
	KindMulti Kind = "multi"
)

// Collection is the item-collection service the engines move items through.
type Collection interface {
	Address() domain.Address
	Kind() Kind
	Owner(c ctx.Ctx) (domain.Address, error)
	BalanceOf(c ctx.Ctx, owner domain.Address, tokenId domain.TokenId) (int64, error)
	IsApprovedForAll(c ctx.Ctx, owner, operator domain.Address) (bool, error)
	// TransferFrom moves quantity units of tokenId. operator must be from or
	// approved for all of from's items.
	TransferFrom(c ctx.Ctx, operator, from, to domain.Address, tokenId domain.TokenId, quantity int64) error
}

// Mintable is implemented by collections deployed through the factory.
type Mintable interface {
	Collection
	Name() string
	Symbol() string
	Private() bool
	MintFee() *big.Int
	Mint(c ctx.Ctx, minter, to domain.Address, tokenUri string, supply int64) (domain.TokenId, error)
	SetApprovalForAll(c ctx.Ctx, owner, operator domain.Address, approved bool) error
	AddMinter(c ctx.Ctx, caller, minter domain.Address) error
	RemoveMinter(c ctx.Ctx, caller, minter domain.Address) error
	UpdateMintFee(c ctx.Ctx, caller domain.Address, fee *big.Int) error
	TokenURI(c ctx.Ctx, tokenId domain.TokenId) (string, error)
}

// CanTransfer checks that operator may move quantity of tokenId out of owner.
func CanTransfer(c ctx.Ctx, coll Collection, owner, operator domain.Address, tokenId domain.TokenId, quantity int64) error {
	balance, err := coll.BalanceOf(c, owner, tokenId)
	if err != nil {
		return err
	}
	if balance < quantity {
		return xerrors.Errorf("%w: %s holds %d of %s, needs %d", domain.ErrTransferRejected, owner, balance, tokenId, quantity)
	}
	if operator.Equals(owner) {
		return nil
	}
	approved, err := coll.IsApprovedForAll(c, owner, operator)
	if err != nil {
		return err
	}
	if !approved {
		return xerrors.Errorf("%w: %s not approved by %s", domain.ErrTransferRejected, operator, owner)
	}
	return nil
}
