package usecase

import (
	"sync"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/event"
	"github.com/x-xyz/marketplace/domain/registry"
	"github.com/x-xyz/marketplace/domain/royalty"
	"golang.org/x/xerrors"
)

type RoyaltyUseCaseCfg struct {
	Address  domain.Address
	Admins   domain.Admins
	Registry registry.AddressRegistry
	Emitter  event.Emitter
}

type impl struct {
	address  domain.Address
	admins   domain.Admins
	registry registry.AddressRegistry
	emitter  event.Emitter
	mu       sync.RWMutex
	// keyed by (collection, tokenId), empty tokenId for the default
	rules map[domain.ItemKey]royalty.Rule
}

func New(cfg *RoyaltyUseCaseCfg) royalty.Registry {
	return &impl{
		address:  cfg.Address.ToLower(),
		admins:   cfg.Admins,
		registry: cfg.Registry,
		emitter:  cfg.Emitter,
		rules:    make(map[domain.ItemKey]royalty.Rule),
	}
}

func (im *impl) SetDefaultRoyalty(c ctx.Ctx, caller, collection, recipient domain.Address, bps int64) error {
	return im.set(c, caller, royalty.Rule{
		Collection: collection.ToLower(),
		Recipient:  recipient.ToLower(),
		Bps:        bps,
	})
}

func (im *impl) SetRoyaltyForItem(c ctx.Ctx, caller, collection domain.Address, tokenId domain.TokenId, recipient domain.Address, bps int64) error {
	if len(tokenId) == 0 {
		return domain.ErrInvalidParameters
	}
	return im.set(c, caller, royalty.Rule{
		Collection: collection.ToLower(),
		TokenId:    tokenId,
		Recipient:  recipient.ToLower(),
		Bps:        bps,
	})
}

func (im *impl) RoyaltyOf(c ctx.Ctx, collection domain.Address, tokenId domain.TokenId) (royalty.Rule, bool) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	if rule, ok := im.rules[domain.NewItemKey(collection, tokenId)]; ok {
		return rule, true
	}
	rule, ok := im.rules[domain.NewItemKey(collection, "")]
	return rule, ok
}

func (im *impl) set(c ctx.Ctx, caller domain.Address, rule royalty.Rule) error {
	if rule.Bps < 0 || rule.Bps > domain.MaxBps {
		return xerrors.Errorf("%w: royalty %d bps", domain.ErrInvalidParameters, rule.Bps)
	}
	if rule.Bps > 0 && rule.Recipient.IsEmpty() {
		return xerrors.Errorf("%w: empty royalty recipient", domain.ErrInvalidParameters)
	}
	if err := im.authorize(c, caller, rule.Collection); err != nil {
		return err
	}

	key := domain.NewItemKey(rule.Collection, rule.TokenId)
	im.mu.Lock()
	if rule.Bps == 0 {
		delete(im.rules, key)
	} else {
		im.rules[key] = rule
	}
	im.mu.Unlock()

	im.emitter.Emit(c, im.address, event.RoyaltySet, rule)
	return nil
}

// authorize admits administrators and the owner of the collection.
func (im *impl) authorize(c ctx.Ctx, caller, collection domain.Address) error {
	if im.admins.Contains(caller) {
		return nil
	}
	coll, err := im.registry.Collection(c, collection)
	if err != nil {
		c.WithFields(log.Fields{
			"err":        err,
			"collection": collection,
		}).Error("registry.Collection failed")
		return err
	}
	owner, err := coll.Owner(c)
	if err != nil {
		c.WithFields(log.Fields{
			"err":        err,
			"collection": collection,
		}).Error("collection.Owner failed")
		return err
	}
	if !owner.Equals(caller) {
		return domain.ErrUnauthorized
	}
	return nil
}
