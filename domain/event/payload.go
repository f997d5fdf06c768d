package event

import (
	"math/big"
	"time"

	"github.com/x-xyz/marketplace/domain"
)

type ItemListedPayload struct {
	Owner        domain.Address `json:"owner"`
	Nft          domain.Address `json:"nft"`
	TokenId      domain.TokenId `json:"tokenId"`
	Quantity     int64          `json:"quantity"`
	PayToken     domain.Address `json:"payToken"`
	PricePerItem *big.Int       `json:"pricePerItem"`
	StartingTime time.Time      `json:"startingTime"`
}

type ItemUpdatedPayload struct {
	Owner    domain.Address `json:"owner"`
	Nft      domain.Address `json:"nft"`
	TokenId  domain.TokenId `json:"tokenId"`
	PayToken domain.Address `json:"payToken"`
	NewPrice *big.Int       `json:"newPrice"`
}

type ItemCanceledPayload struct {
	Owner   domain.Address `json:"owner"`
	Nft     domain.Address `json:"nft"`
	TokenId domain.TokenId `json:"tokenId"`
}

type ItemSoldPayload struct {
	Seller       domain.Address `json:"seller"`
	Buyer        domain.Address `json:"buyer"`
	Nft          domain.Address `json:"nft"`
	TokenId      domain.TokenId `json:"tokenId"`
	Quantity     int64          `json:"quantity"`
	PayToken     domain.Address `json:"payToken"`
	UnitPrice    *big.Int       `json:"unitPrice"`
	PricePerItem *big.Int       `json:"pricePerItem"`
}

type OfferCreatedPayload struct {
	Creator      domain.Address `json:"creator"`
	Nft          domain.Address `json:"nft"`
	TokenId      domain.TokenId `json:"tokenId"`
	Quantity     int64          `json:"quantity"`
	PayToken     domain.Address `json:"payToken"`
	PricePerItem *big.Int       `json:"pricePerItem"`
	Deadline     time.Time      `json:"deadline"`
}

type OfferCanceledPayload struct {
	Creator domain.Address `json:"creator"`
	Nft     domain.Address `json:"nft"`
	TokenId domain.TokenId `json:"tokenId"`
}

type BundleListedPayload struct {
	Owner    domain.Address `json:"owner"`
	BundleId string         `json:"bundleId"`
	PayToken domain.Address `json:"payToken"`
	Price    *big.Int       `json:"price"`
}

type BundleUpdatedPayload struct {
	Owner      domain.Address   `json:"owner"`
	BundleId   string           `json:"bundleId"`
	Nfts       []domain.Address `json:"nfts"`
	TokenIds   []domain.TokenId `json:"tokenIds"`
	Quantities []int64          `json:"quantities"`
	PayToken   domain.Address   `json:"payToken"`
	NewPrice   *big.Int         `json:"newPrice"`
}

type BundleCanceledPayload struct {
	Owner    domain.Address `json:"owner"`
	BundleId string         `json:"bundleId"`
}

type BundleSoldPayload struct {
	Seller    domain.Address `json:"seller"`
	Buyer     domain.Address `json:"buyer"`
	BundleId  string         `json:"bundleId"`
	PayToken  domain.Address `json:"payToken"`
	UnitPrice *big.Int       `json:"unitPrice"`
	Price     *big.Int       `json:"price"`
}

type BundleOfferCreatedPayload struct {
	Creator  domain.Address `json:"creator"`
	BundleId string         `json:"bundleId"`
	PayToken domain.Address `json:"payToken"`
	Price    *big.Int       `json:"price"`
	Deadline time.Time      `json:"deadline"`
}

type BundleOfferCanceledPayload struct {
	Creator  domain.Address `json:"creator"`
	BundleId string         `json:"bundleId"`
}

type AuctionCreatedPayload struct {
	Nft      domain.Address `json:"nftAddress"`
	TokenId  domain.TokenId `json:"tokenId"`
	PayToken domain.Address `json:"payToken"`
}

type AuctionUpdatedPayload struct {
	Nft          domain.Address `json:"nftAddress"`
	TokenId      domain.TokenId `json:"tokenId"`
	PayToken     domain.Address `json:"payToken,omitempty"`
	ReservePrice *big.Int       `json:"reservePrice,omitempty"`
	StartTime    *time.Time     `json:"startTime,omitempty"`
	EndTime      *time.Time     `json:"endTime,omitempty"`
}

type BidPayload struct {
	Nft     domain.Address `json:"nftAddress"`
	TokenId domain.TokenId `json:"tokenId"`
	Bidder  domain.Address `json:"bidder"`
	Bid     *big.Int       `json:"bid"`
}

type AuctionResultedPayload struct {
	OldOwner   domain.Address `json:"oldOwner"`
	Nft        domain.Address `json:"nftAddress"`
	TokenId    domain.TokenId `json:"tokenId"`
	Winner     domain.Address `json:"winner"`
	PayToken   domain.Address `json:"payToken"`
	UnitPrice  *big.Int       `json:"unitPrice"`
	WinningBid *big.Int       `json:"winningBid"`
}

type AuctionCancelledPayload struct {
	Nft     domain.Address `json:"nftAddress"`
	TokenId domain.TokenId `json:"tokenId"`
}

type PayoutPayload struct {
	Recipient domain.Address `json:"recipient"`
	PayToken  domain.Address `json:"payToken"`
	Amount    *big.Int       `json:"amount"`
}

type PlatformFeePayload struct {
	PlatformFee int64 `json:"platformFee"`
}

type FeeRecipientPayload struct {
	Recipient domain.Address `json:"recipient"`
}

type AmountPayload struct {
	Amount *big.Int `json:"amount"`
}

type LockTimePayload struct {
	LockTime time.Duration `json:"lockTime"`
}

type MintedPayload struct {
	TokenId     domain.TokenId `json:"tokenId"`
	Beneficiary domain.Address `json:"beneficiary"`
	TokenUri    string         `json:"tokenUri"`
	Minter      domain.Address `json:"minter"`
}

type ContractPayload struct {
	Caller domain.Address `json:"caller"`
	Nft    domain.Address `json:"nft"`
}

type TokenPayload struct {
	Token domain.Address `json:"token"`
}

type OraclePayload struct {
	Token  domain.Address `json:"token"`
	Oracle domain.Address `json:"oracle"`
}

type AddressUpdatedPayload struct {
	Role    string         `json:"role"`
	Address domain.Address `json:"address"`
}
