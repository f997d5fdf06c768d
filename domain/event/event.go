package event

import (
	"time"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
)

type Name string

const (
	ItemListed                  Name = "ItemListed"
	ItemUpdated                 Name = "ItemUpdated"
	ItemCanceled                Name = "ItemCanceled"
	ItemSold                    Name = "ItemSold"
	OfferCreated                Name = "OfferCreated"
	OfferCanceled               Name = "OfferCanceled"
	AuctionCreated              Name = "AuctionCreated"
	UpdateAuctionReservePrice   Name = "UpdateAuctionReservePrice"
	UpdateAuctionStartTime      Name = "UpdateAuctionStartTime"
	UpdateAuctionEndTime        Name = "UpdateAuctionEndTime"
	BidPlaced                   Name = "BidPlaced"
	BidRefunded                 Name = "BidRefunded"
	BidWithdrawn                Name = "BidWithdrawn"
	AuctionResulted             Name = "AuctionResulted"
	AuctionCancelled            Name = "AuctionCancelled"
	PayoutWithdrawn             Name = "PayoutWithdrawn"
	UpdatePlatformFee           Name = "UpdatePlatformFee"
	UpdatePlatformFeeRecipient  Name = "UpdatePlatformFeeRecipient"
	UpdateMinBidIncrement       Name = "UpdateMinBidIncrement"
	UpdateBidWithdrawalLockTime Name = "UpdateBidWithdrawalLockTime"
	Minted                      Name = "Minted"
	ContractCreated             Name = "ContractCreated"
	ContractDisabled            Name = "ContractDisabled"
	UpdateMintFee               Name = "UpdateMintFee"
	TokenAdded                  Name = "TokenAdded"
	TokenRemoved                Name = "TokenRemoved"
	RoyaltySet                  Name = "RoyaltySet"
	OracleRegistered            Name = "OracleRegistered"
	OracleUpdated               Name = "OracleUpdated"
	AddressUpdated              Name = "AddressUpdated"
)

// Event is the audit record of one committed state transition.
type Event struct {
	Id      string         `json:"id" bson:"id"`
	Name    Name           `json:"name" bson:"name"`
	Source  domain.Address `json:"source" bson:"source"`
	Time    time.Time      `json:"time" bson:"time"`
	Payload interface{}    `json:"payload" bson:"payload"`
}

// Emitter records committed transitions. Emit never fails the caller.
type Emitter interface {
	Emit(c ctx.Ctx, source domain.Address, name Name, payload interface{})
}

// Handler consumes dispatched events, e.g. persisting or notifying.
type Handler interface {
	Handle(c ctx.Ctx, e *Event) error
}

type FindAllOptions struct {
	Name   *Name
	Source *domain.Address
	Offset *int32
	Limit  *int32
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func WithName(name Name) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Name = &name
		return nil
	}
}

func WithSource(source domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		source = source.ToLower()
		options.Source = &source
		return nil
	}
}

func WithPagination(offset int32, limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

type Repo interface {
	Insert(c ctx.Ctx, e *Event) error
	FindAll(c ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Event, error)
}

type UseCase interface {
	Emitter
	// Journal returns the latest events emitted by this process, oldest
	// first. It is empty when events are persisted to a Repo.
	Journal(c ctx.Ctx) []*Event
	FindAll(c ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Event, error)
}
