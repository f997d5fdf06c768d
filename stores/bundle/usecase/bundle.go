package usecase

import (
	"math/big"
	"sync"
	"time"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/keymutex"
	"github.com/x-xyz/marketplace/base/metrics"
	"github.com/x-xyz/marketplace/base/settlement"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/bundle"
	"github.com/x-xyz/marketplace/domain/event"
	"github.com/x-xyz/marketplace/domain/registry"
	"golang.org/x/xerrors"
)

var met metrics.Service

type BundleUseCaseCfg struct {
	// Address is the bundle marketplace account: escrow for payments and the
	// operator sellers approve.
	Address  domain.Address
	Admins   domain.Admins
	Registry registry.AddressRegistry
	Emitter  event.Emitter
	Fee      domain.FeeConfig
	Clock    domain.Clock
	// LockWait bounds how long a call waits on a busy bundle. Defaults to
	// one second.
	LockWait time.Duration
}

type offerKey struct {
	bundleId string
	creator  domain.Address
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

	mu sync.RWMutex
	// listings by bundle id; each id has a single owner
	listings map[string]bundle.Listing
	offers   map[offerKey]bundle.Offer
}

func New(cfg *BundleUseCaseCfg) (bundle.UseCase, error) {
	met = metrics.New("bundle")

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
		locks:    keymutex.New("bundle", keymutex.WithWait(cfg.LockWait)),
		payouts:  settlement.NewPayouts(),
		fee:      fee,
		listings: make(map[string]bundle.Listing),
		offers:   make(map[offerKey]bundle.Offer),
	}, nil
}

func (im *impl) Address() domain.Address {
	return im.address
}

func (im *impl) ListItem(c ctx.Ctx, caller domain.Address, bundleId string, nfts []domain.Address, tokenIds []domain.TokenId, quantities []int64, payToken domain.Address, price *big.Int, startingTime time.Time) error {
	defer met.BumpTime("listItem.time").End()

	caller, payToken = caller.ToLower(), payToken.ToLower()
	if len(bundleId) == 0 || !domain.IsPositive(price) {
		return xerrors.Errorf("%w: bundle %q price %v", domain.ErrInvalidParameters, bundleId, price)
	}
	items, err := bundle.ToItems(nfts, tokenIds, quantities)
	if err != nil {
		return err
	}
	if err := settlement.Whitelisted(c, im.registry, payToken); err != nil {
		return err
	}

	c, unlock, err := im.locks.Lock(c, bundleId)
	if err != nil {
		return err
	}
	defer unlock()

	if listing, ok := im.listing(bundleId); ok {
		if listing.Owner.Equals(caller) {
			return xerrors.Errorf("%w: %s already listed", domain.ErrInvalidParameters, bundleId)
		}
		return xerrors.Errorf("%w: %s is held by another seller", domain.ErrInvalidParameters, bundleId)
	}
	if err := im.checkHolder(c, items, caller); err != nil {
		return err
	}

	im.mu.Lock()
	im.listings[bundleId] = bundle.Listing{
		Owner:        caller,
		BundleId:     bundleId,
		Items:        items,
		PayToken:     payToken,
		Price:        domain.CopyBig(price),
		StartingTime: startingTime,
	}
	im.mu.Unlock()

	im.emitter.Emit(c, im.address, event.ItemListed, event.BundleListedPayload{
		Owner:    caller,
		BundleId: bundleId,
		PayToken: payToken,
		Price:    domain.CopyBig(price),
	})
	return nil
}

func (im *impl) UpdateListing(c ctx.Ctx, caller domain.Address, bundleId string, nfts []domain.Address, tokenIds []domain.TokenId, quantities []int64, payToken domain.Address, newPrice *big.Int) error {
	caller, payToken = caller.ToLower(), payToken.ToLower()
	if !domain.IsPositive(newPrice) {
		return xerrors.Errorf("%w: price %v", domain.ErrInvalidParameters, newPrice)
	}
	var items []bundle.Item
	if len(nfts) > 0 {
		var err error
		if items, err = bundle.ToItems(nfts, tokenIds, quantities); err != nil {
			return err
		}
	}
	if err := settlement.Whitelisted(c, im.registry, payToken); err != nil {
		return err
	}

	c, unlock, err := im.locks.Lock(c, bundleId)
	if err != nil {
		return err
	}
	defer unlock()

	listing, err := im.ownedListing(bundleId, caller)
	if err != nil {
		return err
	}
	if items != nil {
		listing.Items = items
	}
	if err := im.checkHolder(c, listing.Items, caller); err != nil {
		return err
	}
	listing.PayToken = payToken
	listing.Price = domain.CopyBig(newPrice)

	im.mu.Lock()
	im.listings[bundleId] = listing
	im.mu.Unlock()

	payload := event.BundleUpdatedPayload{
		Owner:    caller,
		BundleId: bundleId,
		PayToken: payToken,
		NewPrice: domain.CopyBig(newPrice),
	}
	for _, item := range listing.Items {
		payload.Nfts = append(payload.Nfts, item.Nft)
		payload.TokenIds = append(payload.TokenIds, item.TokenId)
		payload.Quantities = append(payload.Quantities, item.Quantity)
	}
	im.emitter.Emit(c, im.address, event.ItemUpdated, payload)
	return nil
}

func (im *impl) CancelListing(c ctx.Ctx, caller domain.Address, bundleId string) error {
	caller = caller.ToLower()

	c, unlock, err := im.locks.Lock(c, bundleId)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := im.ownedListing(bundleId, caller); err != nil {
		return err
	}
	im.mu.Lock()
	delete(im.listings, bundleId)
	im.mu.Unlock()

	im.emitter.Emit(c, im.address, event.ItemCanceled, event.BundleCanceledPayload{
		Owner:    caller,
		BundleId: bundleId,
	})
	return nil
}

func (im *impl) BuyItem(c ctx.Ctx, caller domain.Address, bundleId string, payToken domain.Address) error {
	defer met.BumpTime("buyItem.time").End()

	caller, payToken = caller.ToLower(), payToken.ToLower()

	c, unlock, err := im.locks.Lock(c, bundleId)
	if err != nil {
		return err
	}
	defer unlock()

	listing, ok := im.listing(bundleId)
	if !ok {
		return xerrors.Errorf("%w: bundle %s not listed", domain.ErrEntityNotActive, bundleId)
	}
	if !listing.PayToken.Equals(payToken) {
		return xerrors.Errorf("%w: bundle is priced in %s", domain.ErrInvalidParameters, listing.PayToken)
	}
	if im.now().Before(listing.StartingTime) {
		return xerrors.Errorf("%w: bundle listed from %s", domain.ErrOutsideTimeWindow, listing.StartingTime)
	}
	if err := settlement.Whitelisted(c, im.registry, payToken); err != nil {
		return err
	}

	return im.settle(c, listing, caller, payToken, listing.Price, func() {
		im.mu.Lock()
		delete(im.listings, bundleId)
		im.mu.Unlock()
	}, func() {
		im.mu.Lock()
		im.listings[bundleId] = listing
		im.mu.Unlock()
	})
}

func (im *impl) CreateOffer(c ctx.Ctx, caller domain.Address, bundleId string, payToken domain.Address, price *big.Int, deadline time.Time) error {
	caller, payToken = caller.ToLower(), payToken.ToLower()
	if !domain.IsPositive(price) {
		return xerrors.Errorf("%w: price %v", domain.ErrInvalidParameters, price)
	}
	if !deadline.After(im.now()) {
		return xerrors.Errorf("%w: deadline %s already passed", domain.ErrInvalidParameters, deadline)
	}
	if err := settlement.Whitelisted(c, im.registry, payToken); err != nil {
		return err
	}

	c, unlock, err := im.locks.Lock(c, bundleId)
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := im.listing(bundleId); !ok {
		return xerrors.Errorf("%w: bundle %s not listed", domain.ErrEntityNotActive, bundleId)
	}
	key := offerKey{bundleId, caller}
	if _, ok := im.offer(key); ok {
		return xerrors.Errorf("%w: offer already created", domain.ErrInvalidParameters)
	}

	im.mu.Lock()
	im.offers[key] = bundle.Offer{
		Creator:  caller,
		BundleId: bundleId,
		PayToken: payToken,
		Price:    domain.CopyBig(price),
		Deadline: deadline,
	}
	im.mu.Unlock()

	im.emitter.Emit(c, im.address, event.OfferCreated, event.BundleOfferCreatedPayload{
		Creator:  caller,
		BundleId: bundleId,
		PayToken: payToken,
		Price:    domain.CopyBig(price),
		Deadline: deadline,
	})
	return nil
}

func (im *impl) CancelOffer(c ctx.Ctx, caller domain.Address, bundleId string) error {
	caller = caller.ToLower()

	c, unlock, err := im.locks.Lock(c, bundleId)
	if err != nil {
		return err
	}
	defer unlock()

	key := offerKey{bundleId, caller}
	if _, ok := im.offer(key); !ok {
		return xerrors.Errorf("%w: no active offer from %s", domain.ErrEntityNotActive, caller)
	}
	im.mu.Lock()
	delete(im.offers, key)
	im.mu.Unlock()

	im.emitter.Emit(c, im.address, event.OfferCanceled, event.BundleOfferCanceledPayload{
		Creator:  caller,
		BundleId: bundleId,
	})
	return nil
}

func (im *impl) AcceptOffer(c ctx.Ctx, caller domain.Address, bundleId string, creator domain.Address) error {
	defer met.BumpTime("acceptOffer.time").End()

	caller, creator = caller.ToLower(), creator.ToLower()

	c, unlock, err := im.locks.Lock(c, bundleId)
	if err != nil {
		return err
	}
	defer unlock()

	listing, err := im.ownedListing(bundleId, caller)
	if err != nil {
		return err
	}
	key := offerKey{bundleId, creator}
	offer, ok := im.offer(key)
	if !ok {
		return xerrors.Errorf("%w: no active offer from %s", domain.ErrEntityNotActive, creator)
	}
	if err := settlement.Whitelisted(c, im.registry, offer.PayToken); err != nil {
		return err
	}

	err = im.settle(c, listing, creator, offer.PayToken, offer.Price, func() {
		im.mu.Lock()
		delete(im.listings, bundleId)
		delete(im.offers, key)
		im.mu.Unlock()
	}, func() {
		im.mu.Lock()
		im.listings[bundleId] = listing
		im.offers[key] = offer
		im.mu.Unlock()
	})
	if err != nil {
		return err
	}

	im.emitter.Emit(c, im.address, event.OfferCanceled, event.BundleOfferCanceledPayload{
		Creator:  creator,
		BundleId: bundleId,
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

func (im *impl) GetListing(c ctx.Ctx, owner domain.Address, bundleId string) bundle.Listing {
	listing, ok := im.listing(bundleId)
	if !ok || !listing.Owner.Equals(owner) {
		return bundle.Listing{Price: big.NewInt(0)}
	}
	listing.Items = append([]bundle.Item(nil), listing.Items...)
	listing.Price = domain.CopyBig(listing.Price)
	return listing
}

func (im *impl) GetOffer(c ctx.Ctx, bundleId string, creator domain.Address) bundle.Offer {
	im.mu.RLock()
	offer, ok := im.offers[offerKey{bundleId, creator.ToLower()}]
	im.mu.RUnlock()
	if !ok {
		return bundle.Offer{Price: big.NewInt(0)}
	}
	offer.Price = domain.CopyBig(offer.Price)
	return offer
}

func (im *impl) OwnerOf(c ctx.Ctx, bundleId string) (domain.Address, bool) {
	listing, ok := im.listing(bundleId)
	if !ok {
		return "", false
	}
	return listing.Owner, true
}

func (im *impl) listing(bundleId string) (bundle.Listing, bool) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	listing, ok := im.listings[bundleId]
	if !ok || !listing.IsActive() {
		return bundle.Listing{}, false
	}
	return listing, true
}

func (im *impl) ownedListing(bundleId string, owner domain.Address) (bundle.Listing, error) {
	listing, ok := im.listing(bundleId)
	if !ok || !listing.Owner.Equals(owner) {
		return bundle.Listing{}, xerrors.Errorf("%w: %s not listed by %s", domain.ErrEntityNotActive, bundleId, owner)
	}
	return listing, nil
}

func (im *impl) offer(key offerKey) (bundle.Offer, bool) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	offer, ok := im.offers[key]
	if !ok || !offer.IsActive(im.now()) {
		return bundle.Offer{}, false
	}
	return offer, true
}
