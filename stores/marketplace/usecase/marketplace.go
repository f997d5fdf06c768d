package usecase

import (
	"math/big"
	"sync"
	"time"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/keymutex"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/base/metrics"
	"github.com/x-xyz/marketplace/base/settlement"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/collection"
	"github.com/x-xyz/marketplace/domain/event"
	"github.com/x-xyz/marketplace/domain/marketplace"
	"github.com/x-xyz/marketplace/domain/registry"
	"golang.org/x/xerrors"
)

var met metrics.Service

type MarketplaceUseCaseCfg struct {
	// Address is the marketplace account: escrow for payments and the
	// operator sellers approve.
	Address  domain.Address
	Admins   domain.Admins
	Registry registry.AddressRegistry
	Emitter  event.Emitter
	Fee      domain.FeeConfig
	Clock    domain.Clock
	// LockWait bounds how long a call waits on a busy item. Defaults to
	// one second.
	LockWait time.Duration
}

type accountKey struct {
	item    domain.ItemKey
	account domain.Address
}

type impl struct {
	address  domain.Address
	admins   domain.Admins
	registry registry.AddressRegistry
	emitter  event.Emitter
	now      domain.Clock
	locks    *keymutex.KeyMutex
	payouts  *settlement.Payouts

	feeMu sync.RWMutex
	fee   domain.FeeConfig

	mu       sync.RWMutex
	listings map[accountKey]marketplace.Listing
	offers   map[accountKey]marketplace.Offer
}

func New(cfg *MarketplaceUseCaseCfg) (marketplace.UseCase, error) {
	met = metrics.New("marketplace")

	if err := cfg.Fee.Validate(); err != nil {
		return nil, err
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	fee := cfg.Fee
	fee.FeeRecipient = fee.FeeRecipient.ToLower()

	return &impl{
		address:  cfg.Address.ToLower(),
		admins:   cfg.Admins,
		registry: cfg.Registry,
		emitter:  cfg.Emitter,
		now:      now,
		locks:    keymutex.New("marketplace", keymutex.WithWait(cfg.LockWait)),
		payouts:  settlement.NewPayouts(),
		fee:      fee,
		listings: make(map[accountKey]marketplace.Listing),
		offers:   make(map[accountKey]marketplace.Offer),
	}, nil
}

func (im *impl) Address() domain.Address {
	return im.address
}

func (im *impl) ListItem(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId, quantity int64, payToken domain.Address, pricePerItem *big.Int, startingTime time.Time) error {
	defer met.BumpTime("listItem.time").End()

	caller, nft, payToken = caller.ToLower(), nft.ToLower(), payToken.ToLower()
	if quantity <= 0 || !domain.IsPositive(pricePerItem) {
		return xerrors.Errorf("%w: quantity %d price %v", domain.ErrInvalidParameters, quantity, pricePerItem)
	}
	if err := settlement.Whitelisted(c, im.registry, payToken); err != nil {
		return err
	}

	item := domain.NewItemKey(nft, tokenId)
	c, unlock, err := im.locks.Lock(c, item.String())
	if err != nil {
		return err
	}
	defer unlock()

	if err := im.checkHolder(c, nft, tokenId, caller, quantity); err != nil {
		return err
	}

	listing := marketplace.Listing{
		Owner:        caller,
		Nft:          nft,
		TokenId:      tokenId,
		Quantity:     quantity,
		PayToken:     payToken,
		PricePerItem: domain.CopyBig(pricePerItem),
		StartingTime: startingTime,
	}
	im.mu.Lock()
	im.listings[accountKey{item, caller}] = listing
	im.mu.Unlock()

	im.emitter.Emit(c, im.address, event.ItemListed, event.ItemListedPayload{
		Owner:        caller,
		Nft:          nft,
		TokenId:      tokenId,
		Quantity:     quantity,
		PayToken:     payToken,
		PricePerItem: domain.CopyBig(pricePerItem),
		StartingTime: startingTime,
	})
	return nil
}

func (im *impl) UpdateListing(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId, payToken domain.Address, newPrice *big.Int) error {
	caller, nft, payToken = caller.ToLower(), nft.ToLower(), payToken.ToLower()
	if !domain.IsPositive(newPrice) {
		return xerrors.Errorf("%w: price %v", domain.ErrInvalidParameters, newPrice)
	}
	if err := settlement.Whitelisted(c, im.registry, payToken); err != nil {
		return err
	}

	item := domain.NewItemKey(nft, tokenId)
	c, unlock, err := im.locks.Lock(c, item.String())
	if err != nil {
		return err
	}
	defer unlock()

	key := accountKey{item, caller}
	listing, ok := im.listing(key)
	if !ok {
		return xerrors.Errorf("%w: %s not listed by %s", domain.ErrEntityNotActive, item, caller)
	}
	if err := im.checkHolder(c, nft, tokenId, caller, listing.Quantity); err != nil {
		return err
	}

	listing.PayToken = payToken
	listing.PricePerItem = domain.CopyBig(newPrice)
	im.mu.Lock()
	im.listings[key] = listing
	im.mu.Unlock()

	im.emitter.Emit(c, im.address, event.ItemUpdated, event.ItemUpdatedPayload{
		Owner:    caller,
		Nft:      nft,
		TokenId:  tokenId,
		PayToken: payToken,
		NewPrice: domain.CopyBig(newPrice),
	})
	return nil
}

func (im *impl) CancelListing(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId) error {
	caller, nft = caller.ToLower(), nft.ToLower()

	item := domain.NewItemKey(nft, tokenId)
	c, unlock, err := im.locks.Lock(c, item.String())
	if err != nil {
		return err
	}
	defer unlock()

	key := accountKey{item, caller}
	if _, ok := im.listing(key); !ok {
		return xerrors.Errorf("%w: %s not listed by %s", domain.ErrEntityNotActive, item, caller)
	}
	im.mu.Lock()
	delete(im.listings, key)
	im.mu.Unlock()

	im.emitter.Emit(c, im.address, event.ItemCanceled, event.ItemCanceledPayload{
		Owner:   caller,
		Nft:     nft,
		TokenId: tokenId,
	})
	return nil
}

func (im *impl) BuyItem(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId, payToken, owner domain.Address) error {
	defer met.BumpTime("buyItem.time").End()

	caller, nft, payToken, owner = caller.ToLower(), nft.ToLower(), payToken.ToLower(), owner.ToLower()

	item := domain.NewItemKey(nft, tokenId)
	c, unlock, err := im.locks.Lock(c, item.String())
	if err != nil {
		return err
	}
	defer unlock()

	key := accountKey{item, owner}
	listing, ok := im.listing(key)
	if !ok {
		return xerrors.Errorf("%w: %s not listed by %s", domain.ErrEntityNotActive, item, owner)
	}
	if !listing.PayToken.Equals(payToken) {
		return xerrors.Errorf("%w: listing is priced in %s", domain.ErrInvalidParameters, listing.PayToken)
	}
	if im.now().Before(listing.StartingTime) {
		return xerrors.Errorf("%w: listing starts at %s", domain.ErrOutsideTimeWindow, listing.StartingTime)
	}
	if err := settlement.Whitelisted(c, im.registry, payToken); err != nil {
		return err
	}

	sale := &sale{
		seller:       owner,
		buyer:        caller,
		nft:          nft,
		tokenId:      tokenId,
		quantity:     listing.Quantity,
		payToken:     payToken,
		pricePerItem: listing.PricePerItem,
	}

	return im.settle(c, sale, func() {
		im.mu.Lock()
		delete(im.listings, key)
		im.mu.Unlock()
	}, func() {
		im.mu.Lock()
		im.listings[key] = listing
		im.mu.Unlock()
	})
}

func (im *impl) CreateOffer(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId, payToken domain.Address, quantity int64, pricePerItem *big.Int, deadline time.Time) error {
	caller, nft, payToken = caller.ToLower(), nft.ToLower(), payToken.ToLower()
	if quantity <= 0 || !domain.IsPositive(pricePerItem) {
		return xerrors.Errorf("%w: quantity %d price %v", domain.ErrInvalidParameters, quantity, pricePerItem)
	}
	if !deadline.After(im.now()) {
		return xerrors.Errorf("%w: deadline %s already passed", domain.ErrInvalidParameters, deadline)
	}
	if err := settlement.Whitelisted(c, im.registry, payToken); err != nil {
		return err
	}
	if _, err := im.registry.Collection(c, nft); err != nil {
		c.WithFields(log.Fields{"err": err, "nft": nft}).Error("registry.Collection failed")
		return err
	}

	item := domain.NewItemKey(nft, tokenId)
	c, unlock, err := im.locks.Lock(c, item.String())
	if err != nil {
		return err
	}
	defer unlock()

	key := accountKey{item, caller}
	if _, ok := im.offer(key); ok {
		return xerrors.Errorf("%w: offer already created", domain.ErrInvalidParameters)
	}

	offer := marketplace.Offer{
		Creator:      caller,
		Nft:          nft,
		TokenId:      tokenId,
		PayToken:     payToken,
		Quantity:     quantity,
		PricePerItem: domain.CopyBig(pricePerItem),
		Deadline:     deadline,
	}
	im.mu.Lock()
	im.offers[key] = offer
	im.mu.Unlock()

	im.emitter.Emit(c, im.address, event.OfferCreated, event.OfferCreatedPayload{
		Creator:      caller,
		Nft:          nft,
		TokenId:      tokenId,
		Quantity:     quantity,
		PayToken:     payToken,
		PricePerItem: domain.CopyBig(pricePerItem),
		Deadline:     deadline,
	})
	return nil
}

func (im *impl) CancelOffer(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId) error {
	caller, nft = caller.ToLower(), nft.ToLower()

	item := domain.NewItemKey(nft, tokenId)
	c, unlock, err := im.locks.Lock(c, item.String())
	if err != nil {
		return err
	}
	defer unlock()

	key := accountKey{item, caller}
	if _, ok := im.offer(key); !ok {
		return xerrors.Errorf("%w: no active offer from %s", domain.ErrEntityNotActive, caller)
	}
	im.mu.Lock()
	delete(im.offers, key)
	im.mu.Unlock()

	im.emitter.Emit(c, im.address, event.OfferCanceled, event.OfferCanceledPayload{
		Creator: caller,
		Nft:     nft,
		TokenId: tokenId,
	})
	return nil
}

func (im *impl) AcceptOffer(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId, creator domain.Address) error {
	defer met.BumpTime("acceptOffer.time").End()

	caller, nft, creator = caller.ToLower(), nft.ToLower(), creator.ToLower()

	item := domain.NewItemKey(nft, tokenId)
	c, unlock, err := im.locks.Lock(c, item.String())
	if err != nil {
		return err
	}
	defer unlock()

	offerKey := accountKey{item, creator}
	offer, ok := im.offer(offerKey)
	if !ok {
		return xerrors.Errorf("%w: no active offer from %s", domain.ErrEntityNotActive, creator)
	}
	if err := settlement.Whitelisted(c, im.registry, offer.PayToken); err != nil {
		return err
	}

	listingKey := accountKey{item, caller}
	listing, listed := im.listing(listingKey)

	sale := &sale{
		seller:       caller,
		buyer:        creator,
		nft:          nft,
		tokenId:      tokenId,
		quantity:     offer.Quantity,
		payToken:     offer.PayToken,
		pricePerItem: offer.PricePerItem,
	}

	err = im.settle(c, sale, func() {
		im.mu.Lock()
		delete(im.offers, offerKey)
		delete(im.listings, listingKey)
		im.mu.Unlock()
	}, func() {
		im.mu.Lock()
		im.offers[offerKey] = offer
		if listed {
			im.listings[listingKey] = listing
		}
		im.mu.Unlock()
	})
	if err != nil {
		return err
	}

	im.emitter.Emit(c, im.address, event.OfferCanceled, event.OfferCanceledPayload{
		Creator: creator,
		Nft:     nft,
		TokenId: tokenId,
	})
	return nil
}

func (im *impl) UpdatePlatformFee(c ctx.Ctx, caller domain.Address, bps int64) error {
	if !im.admins.Contains(caller) {
		return domain.ErrUnauthorized
	}

	im.feeMu.Lock()
	fee := im.fee
	fee.PlatformFeeBps = bps
	if err := fee.Validate(); err != nil {
		im.feeMu.Unlock()
		return err
	}
	im.fee = fee
	im.feeMu.Unlock()

	im.emitter.Emit(c, im.address, event.UpdatePlatformFee, event.PlatformFeePayload{PlatformFee: bps})
	return nil
}

func (im *impl) UpdatePlatformFeeRecipient(c ctx.Ctx, caller, recipient domain.Address) error {
	if !im.admins.Contains(caller) {
		return domain.ErrUnauthorized
	}
	if recipient.IsEmpty() {
		return domain.ErrInvalidParameters
	}

	im.feeMu.Lock()
	im.fee.FeeRecipient = recipient.ToLower()
	im.feeMu.Unlock()

	im.emitter.Emit(c, im.address, event.UpdatePlatformFeeRecipient, event.FeeRecipientPayload{Recipient: recipient.ToLower()})
	return nil
}

func (im *impl) FeeConfig(c ctx.Ctx) domain.FeeConfig {
	im.feeMu.RLock()
	defer im.feeMu.RUnlock()
	return im.fee
}

func (im *impl) GetListing(c ctx.Ctx, nft domain.Address, tokenId domain.TokenId, owner domain.Address) marketplace.Listing {
	listing, ok := im.listing(accountKey{domain.NewItemKey(nft, tokenId), owner.ToLower()})
	if !ok {
		return marketplace.Listing{PricePerItem: big.NewInt(0)}
	}
	listing.PricePerItem = domain.CopyBig(listing.PricePerItem)
	return listing
}

func (im *impl) GetOffer(c ctx.Ctx, nft domain.Address, tokenId domain.TokenId, creator domain.Address) marketplace.Offer {
	im.mu.RLock()
	offer, ok := im.offers[accountKey{domain.NewItemKey(nft, tokenId), creator.ToLower()}]
	im.mu.RUnlock()
	if !ok {
		return marketplace.Offer{PricePerItem: big.NewInt(0)}
	}
	offer.PricePerItem = domain.CopyBig(offer.PricePerItem)
	return offer
}

func (im *impl) listing(key accountKey) (marketplace.Listing, bool) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	listing, ok := im.listings[key]
	if !ok || !listing.IsActive() {
		return marketplace.Listing{}, false
	}
	return listing, true
}

// offer returns the creator's offer while it is before its deadline.
func (im *impl) offer(key accountKey) (marketplace.Offer, bool) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	offer, ok := im.offers[key]
	if !ok || !offer.IsActive(im.now()) {
		return marketplace.Offer{}, false
	}
	return offer, true
}

// checkHolder requires holder to own quantity of the item and to have
// approved the marketplace.
func (im *impl) checkHolder(c ctx.Ctx, nft domain.Address, tokenId domain.TokenId, holder domain.Address, quantity int64) error {
	coll, err := im.registry.Collection(c, nft)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "nft": nft}).Error("registry.Collection failed")
		return err
	}
	if err := collection.CanTransfer(c, coll, holder, im.address, tokenId, quantity); err != nil {
		if domain.KindOf(err) == domain.KindTransferRejected {
			return xerrors.Errorf("%w: %v", domain.ErrUnauthorized, err)
		}
		return err
	}
	return nil
}
