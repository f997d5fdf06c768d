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
	"github.com/x-xyz/marketplace/domain/auction"
	"github.com/x-xyz/marketplace/domain/collection"
	"github.com/x-xyz/marketplace/domain/currency"
	"github.com/x-xyz/marketplace/domain/event"
	"github.com/x-xyz/marketplace/domain/registry"
	"golang.org/x/xerrors"
)

var met metrics.Service

type AuctionUseCaseCfg struct {
	// Address is the auction engine account. Bids are escrowed here and
	// sellers approve it as operator.
	Address  domain.Address
	Admins   domain.Admins
	Registry registry.AddressRegistry
	Emitter  event.Emitter
	Fee      domain.FeeConfig
	// MinBidIncrement defaults to 1.
	MinBidIncrement *big.Int
	// BidWithdrawalLockTime of 0 disables WithdrawBid.
	BidWithdrawalLockTime time.Duration
	Clock                 domain.Clock
	// LockWait bounds how long a call waits on a busy item. Defaults to
	// one second.
	LockWait time.Duration
}

type impl struct {
	address  domain.Address
	admins   domain.Admins
	registry registry.AddressRegistry
	emitter  event.Emitter
	now      domain.Clock
	locks    *keymutex.KeyMutex
	payouts  *settlement.Payouts

	cfgMu           sync.RWMutex
	fee             domain.FeeConfig
	minBidIncrement *big.Int
	lockTime        time.Duration

	mu       sync.RWMutex
	auctions map[domain.ItemKey]auction.Auction
	bids     map[domain.ItemKey]auction.HighestBid
}

func New(cfg *AuctionUseCaseCfg) (auction.UseCase, error) {
	met = metrics.New("auction")

	if err := cfg.Fee.Validate(); err != nil {
		return nil, err
	}
	if cfg.BidWithdrawalLockTime < 0 {
		return nil, xerrors.Errorf("%w: negative lock time", domain.ErrInvalidParameters)
	}
	increment := big.NewInt(1)
	if cfg.MinBidIncrement != nil {
		if cfg.MinBidIncrement.Sign() < 0 {
			return nil, xerrors.Errorf("%w: negative bid increment", domain.ErrInvalidParameters)
		}
		increment = domain.CopyBig(cfg.MinBidIncrement)
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	fee := cfg.Fee
	fee.FeeRecipient = fee.FeeRecipient.ToLower()

	return &impl{
		address:         cfg.Address.ToLower(),
		admins:          cfg.Admins,
		registry:        cfg.Registry,
		emitter:         cfg.Emitter,
		now:             now,
		locks:           keymutex.New("auction", keymutex.WithWait(cfg.LockWait)),
		payouts:         settlement.NewPayouts(),
		fee:             fee,
		minBidIncrement: increment,
		lockTime:        cfg.BidWithdrawalLockTime,
		auctions:        make(map[domain.ItemKey]auction.Auction),
		bids:            make(map[domain.ItemKey]auction.HighestBid),
	}, nil
}

func (im *impl) Address() domain.Address {
	return im.address
}

func (im *impl) CreateAuction(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId, payToken domain.Address, reservePrice *big.Int, startTime time.Time, minBidReserve bool, endTime time.Time) error {
	defer met.BumpTime("createAuction.time").End()

	caller, nft, payToken = caller.ToLower(), nft.ToLower(), payToken.ToLower()
	if reservePrice == nil || reservePrice.Sign() < 0 {
		return xerrors.Errorf("%w: reserve %v", domain.ErrInvalidParameters, reservePrice)
	}
	if !endTime.After(startTime) || !endTime.After(im.now()) {
		return xerrors.Errorf("%w: window %s - %s", domain.ErrInvalidParameters, startTime, endTime)
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

	if a, ok := im.auction(item); ok && a.IsOpen() {
		return xerrors.Errorf("%w: %s already on auction", domain.ErrInvalidParameters, item)
	}
	if err := im.checkHolder(c, nft, tokenId, caller); err != nil {
		return err
	}

	im.mu.Lock()
	im.auctions[item] = auction.Auction{
		Owner:         caller,
		Nft:           nft,
		TokenId:       tokenId,
		PayToken:      payToken,
		ReservePrice:  domain.CopyBig(reservePrice),
		StartTime:     startTime,
		EndTime:       endTime,
		MinBidReserve: minBidReserve,
	}
	delete(im.bids, item)
	im.mu.Unlock()

	im.emitter.Emit(c, im.address, event.AuctionCreated, event.AuctionCreatedPayload{
		Nft:      nft,
		TokenId:  tokenId,
		PayToken: payToken,
	})
	return nil
}

func (im *impl) PlaceBid(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId, amount *big.Int) error {
	defer met.BumpTime("placeBid.time").End()

	caller, nft = caller.ToLower(), nft.ToLower()
	if !domain.IsPositive(amount) {
		return xerrors.Errorf("%w: bid %v", domain.ErrInvalidParameters, amount)
	}

	item := domain.NewItemKey(nft, tokenId)
	c, unlock, err := im.locks.Lock(c, item.String())
	if err != nil {
		return err
	}
	defer unlock()

	a, err := im.openAuction(item)
	if err != nil {
		return err
	}
	now := im.now()
	if now.Before(a.StartTime) || now.After(a.EndTime) {
		return xerrors.Errorf("%w: bidding runs %s - %s", domain.ErrOutsideTimeWindow, a.StartTime, a.EndTime)
	}

	prev, hasPrev := im.highestBid(item)
	if err := im.checkBid(a, prev, hasPrev, amount); err != nil {
		return err
	}

	cur, err := im.registry.Currency(c, a.PayToken)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "payToken": a.PayToken}).Error("registry.Currency failed")
		return err
	}
	if err := currency.CanPull(c, cur, caller, im.address, amount); err != nil {
		return err
	}

	bid := auction.HighestBid{Bidder: caller, Bid: domain.CopyBig(amount), LastBidTime: now}
	im.setBid(item, bid)

	st := settlement.New(c, im.address, im.payouts)
	if err := st.Pull(cur, caller, amount); err != nil {
		im.restoreBid(item, prev, hasPrev)
		return err
	}
	if hasPrev {
		st.Pay(cur, prev.Bidder, prev.Bid)
	}

	met.BumpSum("bid", 1, "payToken", string(a.PayToken))
	im.emitter.Emit(c, im.address, event.BidPlaced, event.BidPayload{
		Nft:     nft,
		TokenId: tokenId,
		Bidder:  caller,
		Bid:     domain.CopyBig(amount),
	})
	if hasPrev {
		im.emitter.Emit(c, im.address, event.BidRefunded, event.BidPayload{
			Nft:     nft,
			TokenId: tokenId,
			Bidder:  prev.Bidder,
			Bid:     domain.CopyBig(prev.Bid),
		})
	}
	return nil
}

func (im *impl) checkBid(a auction.Auction, prev auction.HighestBid, hasPrev bool, amount *big.Int) error {
	if !hasPrev && a.MinBidReserve && amount.Cmp(a.ReservePrice) < 0 {
		return xerrors.Errorf("%w: first bid must reach reserve %s", domain.ErrBidTooLow, a.ReservePrice)
	}

	highest := big.NewInt(0)
	if hasPrev {
		highest = prev.Bid
	}
	if amount.Cmp(highest) <= 0 {
		return xerrors.Errorf("%w: highest bid is %s", domain.ErrBidTooLow, highest)
	}

	im.cfgMu.RLock()
	required := new(big.Int).Add(highest, im.minBidIncrement)
	im.cfgMu.RUnlock()
	if amount.Cmp(required) < 0 {
		return xerrors.Errorf("%w: at least %s required", domain.ErrBidTooLow, required)
	}
	return nil
}

func (im *impl) WithdrawBid(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId) error {
	caller, nft = caller.ToLower(), nft.ToLower()

	im.cfgMu.RLock()
	lockTime := im.lockTime
	im.cfgMu.RUnlock()
	if lockTime <= 0 {
		return xerrors.Errorf("%w: bid withdrawal disabled", domain.ErrUnauthorized)
	}

	item := domain.NewItemKey(nft, tokenId)
	c, unlock, err := im.locks.Lock(c, item.String())
	if err != nil {
		return err
	}
	defer unlock()

	a, err := im.openAuction(item)
	if err != nil {
		return err
	}
	bid, ok := im.highestBid(item)
	if !ok || !bid.Bidder.Equals(caller) {
		return xerrors.Errorf("%w: %s is not the highest bidder", domain.ErrUnauthorized, caller)
	}
	if unlockAt := a.EndTime.Add(lockTime); im.now().Before(unlockAt) {
		return xerrors.Errorf("%w: withdrawal opens at %s", domain.ErrOutsideTimeWindow, unlockAt)
	}

	cur, err := im.registry.Currency(c, a.PayToken)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "payToken": a.PayToken}).Error("registry.Currency failed")
		return err
	}

	im.mu.Lock()
	delete(im.bids, item)
	im.mu.Unlock()

	settlement.New(c, im.address, im.payouts).Pay(cur, caller, bid.Bid)

	im.emitter.Emit(c, im.address, event.BidWithdrawn, event.BidPayload{
		Nft:     nft,
		TokenId: tokenId,
		Bidder:  caller,
		Bid:     domain.CopyBig(bid.Bid),
	})
	return nil
}

func (im *impl) ResultAuction(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId) error {
	defer met.BumpTime("resultAuction.time").End()

	caller, nft = caller.ToLower(), nft.ToLower()

	item := domain.NewItemKey(nft, tokenId)
	c, unlock, err := im.locks.Lock(c, item.String())
	if err != nil {
		return err
	}
	defer unlock()

	a, err := im.openAuction(item)
	if err != nil {
		return err
	}
	if !a.Owner.Equals(caller) && !im.admins.Contains(caller) {
		return domain.ErrUnauthorized
	}
	if im.now().Before(a.EndTime) {
		return xerrors.Errorf("%w: auction ends at %s", domain.ErrOutsideTimeWindow, a.EndTime)
	}
	bid, ok := im.highestBid(item)
	if !ok || bid.Bid.Cmp(a.ReservePrice) < 0 {
		return xerrors.Errorf("%w: reserve %s", domain.ErrReserveNotMet, a.ReservePrice)
	}

	coll, err := im.registry.Collection(c, nft)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "nft": nft}).Error("registry.Collection failed")
		return err
	}
	if err := collection.CanTransfer(c, coll, a.Owner, im.address, tokenId, 1); err != nil {
		return err
	}
	cur, err := im.registry.Currency(c, a.PayToken)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "payToken": a.PayToken}).Error("registry.Currency failed")
		return err
	}
	unitPrice, err := settlement.UnitPrice(c, im.registry, a.PayToken)
	if err != nil {
		return err
	}
	rule, err := settlement.Royalty(c, im.registry, nft, tokenId, a.Owner)
	if err != nil {
		return err
	}
	fee := im.FeeConfig(c)
	split := domain.ComputeSplit(bid.Bid, new(big.Int).Sub(bid.Bid, a.ReservePrice), fee.PlatformFeeBps, rule.Bps)

	im.mu.Lock()
	resulted := a
	resulted.Resulted = true
	im.auctions[item] = resulted
	delete(im.bids, item)
	im.mu.Unlock()

	restore := func() {
		im.mu.Lock()
		im.auctions[item] = a
		im.bids[item] = bid
		im.mu.Unlock()
	}

	st := settlement.New(c, im.address, im.payouts)
	if err := st.MoveItem(coll, a.Owner, bid.Bidder, tokenId, 1); err != nil {
		restore()
		return err
	}
	st.PaySplit(cur, split, fee.FeeRecipient, rule.Recipient, a.Owner)

	met.BumpSum("resulted", 1, "payToken", string(a.PayToken))
	c.WithFields(log.Fields{
		"owner":   a.Owner,
		"winner":  bid.Bidder,
		"nft":     nft,
		"tokenId": tokenId,
		"bid":     bid.Bid,
		"fee":     split.Fee,
		"royalty": split.Royalty,
	}).Info("auction resulted")

	im.emitter.Emit(c, im.address, event.AuctionResulted, event.AuctionResultedPayload{
		OldOwner:   a.Owner,
		Nft:        nft,
		TokenId:    tokenId,
		Winner:     bid.Bidder,
		PayToken:   a.PayToken,
		UnitPrice:  unitPrice,
		WinningBid: domain.CopyBig(bid.Bid),
	})
	return nil
}

// CancelAuction closes an auction without a sale. With a bid on record it is
// only allowed once the auction ended unsettleable: below reserve, or with
// the item no longer transferable. The bid is refunded.
func (im *impl) CancelAuction(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId) error {
	caller, nft = caller.ToLower(), nft.ToLower()

	item := domain.NewItemKey(nft, tokenId)
	c, unlock, err := im.locks.Lock(c, item.String())
	if err != nil {
		return err
	}
	defer unlock()

	a, err := im.openAuction(item)
	if err != nil {
		return err
	}
	if !a.Owner.Equals(caller) && !im.admins.Contains(caller) {
		return domain.ErrUnauthorized
	}

	bid, hasBid := im.highestBid(item)
	var cur currency.Currency
	if hasBid {
		if im.now().Before(a.EndTime) {
			return xerrors.Errorf("%w: auction with bids ends at %s", domain.ErrOutsideTimeWindow, a.EndTime)
		}
		if bid.Bid.Cmp(a.ReservePrice) >= 0 && im.transferable(c, a) {
			return xerrors.Errorf("%w: reserve met, result the auction instead", domain.ErrInvalidParameters)
		}
		if cur, err = im.registry.Currency(c, a.PayToken); err != nil {
			c.WithFields(log.Fields{"err": err, "payToken": a.PayToken}).Error("registry.Currency failed")
			return err
		}
	}

	im.mu.Lock()
	cancelled := a
	cancelled.Cancelled = true
	im.auctions[item] = cancelled
	delete(im.bids, item)
	im.mu.Unlock()

	if hasBid {
		settlement.New(c, im.address, im.payouts).Pay(cur, bid.Bidder, bid.Bid)
		im.emitter.Emit(c, im.address, event.BidRefunded, event.BidPayload{
			Nft:     nft,
			TokenId: tokenId,
			Bidder:  bid.Bidder,
			Bid:     domain.CopyBig(bid.Bid),
		})
	}

	im.emitter.Emit(c, im.address, event.AuctionCancelled, event.AuctionCancelledPayload{
		Nft:     nft,
		TokenId: tokenId,
	})
	return nil
}

func (im *impl) transferable(c ctx.Ctx, a auction.Auction) bool {
	coll, err := im.registry.Collection(c, a.Nft)
	if err != nil {
		return false
	}
	return collection.CanTransfer(c, coll, a.Owner, im.address, a.TokenId, 1) == nil
}

func (im *impl) UpdateAuctionReservePrice(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId, reservePrice *big.Int) error {
	if reservePrice == nil || reservePrice.Sign() < 0 {
		return xerrors.Errorf("%w: reserve %v", domain.ErrInvalidParameters, reservePrice)
	}
	return im.update(c, caller, nft, tokenId, event.UpdateAuctionReservePrice, func(a *auction.Auction) (event.AuctionUpdatedPayload, error) {
		a.ReservePrice = domain.CopyBig(reservePrice)
		return event.AuctionUpdatedPayload{ReservePrice: domain.CopyBig(reservePrice)}, nil
	})
}

func (im *impl) UpdateAuctionStartTime(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId, startTime time.Time) error {
	return im.update(c, caller, nft, tokenId, event.UpdateAuctionStartTime, func(a *auction.Auction) (event.AuctionUpdatedPayload, error) {
		if !a.EndTime.After(startTime) {
			return event.AuctionUpdatedPayload{}, xerrors.Errorf("%w: start %s not before end %s", domain.ErrInvalidParameters, startTime, a.EndTime)
		}
		a.StartTime = startTime
		return event.AuctionUpdatedPayload{StartTime: &startTime}, nil
	})
}

func (im *impl) UpdateAuctionEndTime(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId, endTime time.Time) error {
	return im.update(c, caller, nft, tokenId, event.UpdateAuctionEndTime, func(a *auction.Auction) (event.AuctionUpdatedPayload, error) {
		if !endTime.After(a.StartTime) || !endTime.After(im.now()) {
			return event.AuctionUpdatedPayload{}, xerrors.Errorf("%w: end %s", domain.ErrInvalidParameters, endTime)
		}
		a.EndTime = endTime
		return event.AuctionUpdatedPayload{EndTime: &endTime}, nil
	})
}

// update applies fn to an open auction of caller that has no bid yet.
func (im *impl) update(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId, name event.Name, fn func(a *auction.Auction) (event.AuctionUpdatedPayload, error)) error {
	caller, nft = caller.ToLower(), nft.ToLower()

	item := domain.NewItemKey(nft, tokenId)
	c, unlock, err := im.locks.Lock(c, item.String())
	if err != nil {
		return err
	}
	defer unlock()

	a, err := im.openAuction(item)
	if err != nil {
		return err
	}
	if !a.Owner.Equals(caller) {
		return domain.ErrUnauthorized
	}
	if _, ok := im.highestBid(item); ok {
		return xerrors.Errorf("%w: auction already has bids", domain.ErrInvalidParameters)
	}

	payload, err := fn(&a)
	if err != nil {
		return err
	}
	im.mu.Lock()
	im.auctions[item] = a
	im.mu.Unlock()

	payload.Nft = nft
	payload.TokenId = tokenId
	im.emitter.Emit(c, im.address, name, payload)
	return nil
}

func (im *impl) UpdateMinBidIncrement(c ctx.Ctx, caller domain.Address, increment *big.Int) error {
	if !im.admins.Contains(caller) {
		return domain.ErrUnauthorized
	}
	if increment == nil || increment.Sign() < 0 {
		return domain.ErrInvalidParameters
	}

	im.cfgMu.Lock()
	im.minBidIncrement = domain.CopyBig(increment)
	im.cfgMu.Unlock()

	im.emitter.Emit(c, im.address, event.UpdateMinBidIncrement, event.AmountPayload{Amount: domain.CopyBig(increment)})
	return nil
}

func (im *impl) UpdateBidWithdrawalLockTime(c ctx.Ctx, caller domain.Address, lockTime time.Duration) error {
	if !im.admins.Contains(caller) {
		return domain.ErrUnauthorized
	}
	if lockTime < 0 {
		return domain.ErrInvalidParameters
	}

	im.cfgMu.Lock()
	im.lockTime = lockTime
	im.cfgMu.Unlock()

	im.emitter.Emit(c, im.address, event.UpdateBidWithdrawalLockTime, event.LockTimePayload{LockTime: lockTime})
	return nil
}

func (im *impl) UpdatePlatformFee(c ctx.Ctx, caller domain.Address, bps int64) error {
	if !im.admins.Contains(caller) {
		return domain.ErrUnauthorized
	}

	im.cfgMu.Lock()
	fee := im.fee
	fee.PlatformFeeBps = bps
	if err := fee.Validate(); err != nil {
		im.cfgMu.Unlock()
		return err
	}
	im.fee = fee
	im.cfgMu.Unlock()

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

	im.cfgMu.Lock()
	im.fee.FeeRecipient = recipient.ToLower()
	im.cfgMu.Unlock()

	im.emitter.Emit(c, im.address, event.UpdatePlatformFeeRecipient, event.FeeRecipientPayload{Recipient: recipient.ToLower()})
	return nil
}

func (im *impl) FeeConfig(c ctx.Ctx) domain.FeeConfig {
	im.cfgMu.RLock()
	defer im.cfgMu.RUnlock()
	return im.fee
}

func (im *impl) GetAuction(c ctx.Ctx, nft domain.Address, tokenId domain.TokenId) (*auction.Auction, error) {
	item := domain.NewItemKey(nft.ToLower(), tokenId)
	a, ok := im.auction(item)
	if !ok {
		return nil, domain.ErrNotFound
	}
	_, hasBid := im.highestBid(item)

	switch {
	case a.Cancelled:
		a.Status = auction.StatusCancelled
	case a.Resulted:
		a.Status = auction.StatusResulted
	case hasBid:
		a.Status = auction.StatusActive
	case im.now().Before(a.StartTime):
		a.Status = auction.StatusNotStarted
	default:
		a.Status = auction.StatusCreated
	}
	a.ReservePrice = domain.CopyBig(a.ReservePrice)
	return &a, nil
}

func (im *impl) GetHighestBid(c ctx.Ctx, nft domain.Address, tokenId domain.TokenId) auction.HighestBid {
	bid, ok := im.highestBid(domain.NewItemKey(nft.ToLower(), tokenId))
	if !ok {
		return auction.HighestBid{Bid: big.NewInt(0)}
	}
	bid.Bid = domain.CopyBig(bid.Bid)
	return bid
}

func (im *impl) auction(item domain.ItemKey) (auction.Auction, bool) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	a, ok := im.auctions[item]
	return a, ok
}

func (im *impl) openAuction(item domain.ItemKey) (auction.Auction, error) {
	a, ok := im.auction(item)
	if !ok || !a.IsOpen() {
		return auction.Auction{}, xerrors.Errorf("%w: no open auction for %s", domain.ErrEntityNotActive, item)
	}
	return a, nil
}

func (im *impl) highestBid(item domain.ItemKey) (auction.HighestBid, bool) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	bid, ok := im.bids[item]
	if !ok || !bid.Exists() {
		return auction.HighestBid{}, false
	}
	return bid, true
}

func (im *impl) setBid(item domain.ItemKey, bid auction.HighestBid) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.bids[item] = bid
}

func (im *impl) restoreBid(item domain.ItemKey, prev auction.HighestBid, hasPrev bool) {
	im.mu.Lock()
	defer im.mu.Unlock()
	if hasPrev {
		im.bids[item] = prev
	} else {
		delete(im.bids, item)
	}
}

// checkHolder requires holder to own the item and to have approved the
// auction engine.
func (im *impl) checkHolder(c ctx.Ctx, nft domain.Address, tokenId domain.TokenId, holder domain.Address) error {
	coll, err := im.registry.Collection(c, nft)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "nft": nft}).Error("registry.Collection failed")
		return err
	}
	if err := collection.CanTransfer(c, coll, holder, im.address, tokenId, 1); err != nil {
		if domain.KindOf(err) == domain.KindTransferRejected {
			return xerrors.Errorf("%w: %v", domain.ErrUnauthorized, err)
		}
		return err
	}
	return nil
}
