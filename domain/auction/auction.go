package auction

import (
	"math/big"
	"time"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
)

type Status string

const (
	StatusNotStarted Status = "NotStarted"
	StatusCreated    Status = "Created"
	StatusActive     Status = "Active"
	StatusResulted   Status = "Resulted"
	StatusCancelled  Status = "Cancelled"
)

// Auction is keyed by (Nft, TokenId). MinBidReserve makes the reserve a floor
// for the first bid as well as for settlement.
type Auction struct {
	Owner         domain.Address `json:"owner"`
	Nft           domain.Address `json:"nft"`
	TokenId       domain.TokenId `json:"tokenId"`
	PayToken      domain.Address `json:"payToken"`
	ReservePrice  *big.Int       `json:"reservePrice"`
	StartTime     time.Time      `json:"startTime"`
	EndTime       time.Time      `json:"endTime"`
	MinBidReserve bool           `json:"minBidReserve"`
	Resulted      bool           `json:"resulted"`
	Cancelled     bool           `json:"cancelled"`
	Status        Status         `json:"status"`
}

// IsOpen reports an auction that still holds the key.
func (a *Auction) IsOpen() bool {
	return !a.Owner.IsEmpty() && !a.Resulted && !a.Cancelled
}

type HighestBid struct {
	Bidder      domain.Address `json:"bidder"`
	Bid         *big.Int       `json:"bid"`
	LastBidTime time.Time      `json:"lastBidTime"`
}

func (h HighestBid) Exists() bool {
	return !h.Bidder.IsEmpty()
}

type UseCase interface {
	Address() domain.Address

	CreateAuction(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId, payToken domain.Address, reservePrice *big.Int, startTime time.Time, minBidReserve bool, endTime time.Time) error
	PlaceBid(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId, amount *big.Int) error
	WithdrawBid(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId) error
	ResultAuction(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId) error
	CancelAuction(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId) error

	UpdateAuctionReservePrice(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId, reservePrice *big.Int) error
	UpdateAuctionStartTime(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId, startTime time.Time) error
	UpdateAuctionEndTime(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId, endTime time.Time) error

	UpdateMinBidIncrement(c ctx.Ctx, caller domain.Address, increment *big.Int) error
	UpdateBidWithdrawalLockTime(c ctx.Ctx, caller domain.Address, lockTime time.Duration) error
	UpdatePlatformFee(c ctx.Ctx, caller domain.Address, bps int64) error
	UpdatePlatformFeeRecipient(c ctx.Ctx, caller, recipient domain.Address) error
	FeeConfig(c ctx.Ctx) domain.FeeConfig

	GetAuction(c ctx.Ctx, nft domain.Address, tokenId domain.TokenId) (*Auction, error)
	GetHighestBid(c ctx.Ctx, nft domain.Address, tokenId domain.TokenId) HighestBid

	domain.PayoutAccount
}
