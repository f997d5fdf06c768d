package collection

import (
	"math/big"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
)

type FactoryFees struct {
	// MintFee is charged by every deployed collection on each mint.
	MintFee *big.Int `json:"mintFee"`
	// PlatformFee is charged once per deployment.
	PlatformFee  *big.Int       `json:"platformFee"`
	FeeRecipient domain.Address `json:"feeRecipient"`
	FeeCurrency  domain.Address `json:"feeCurrency"`
}

type Factory interface {
	Address() domain.Address
	Kind() Kind
	Private() bool
	Fees(c ctx.Ctx) FactoryFees

	DeployCollection(c ctx.Ctx, caller domain.Address, name, symbol string) (domain.Address, error)
	RegisterCollection(c ctx.Ctx, caller, nft domain.Address) error
	DisableCollection(c ctx.Ctx, caller, nft domain.Address) error
	Exists(c ctx.Ctx, nft domain.Address) bool
	FindAll(c ctx.Ctx) []domain.Address

	UpdateMintFee(c ctx.Ctx, caller domain.Address, fee *big.Int) error
	UpdatePlatformFee(c ctx.Ctx, caller domain.Address, fee *big.Int) error
	UpdateFeeRecipient(c ctx.Ctx, caller, recipient domain.Address) error
}
