package usecase

import (
	"math/big"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/base/settlement"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/bundle"
	"github.com/x-xyz/marketplace/domain/collection"
	"github.com/x-xyz/marketplace/domain/currency"
	"github.com/x-xyz/marketplace/domain/event"
	"golang.org/x/xerrors"
)

type holding struct {
	coll     collection.Collection
	tokenId  domain.TokenId
	quantity int64
}

// holdings resolves the collections of items and sums quantities listed
// more than once.
func (im *impl) holdings(c ctx.Ctx, items []bundle.Item) ([]*holding, error) {
	res := []*holding{}
	byKey := map[domain.ItemKey]*holding{}
	for _, item := range items {
		key := domain.NewItemKey(item.Nft, item.TokenId)
		if h, ok := byKey[key]; ok {
			h.quantity += item.Quantity
			continue
		}
		coll, err := im.registry.Collection(c, item.Nft)
		if err != nil {
			c.WithFields(log.Fields{"err": err, "nft": item.Nft}).Error("registry.Collection failed")
			return nil, err
		}
		h := &holding{coll: coll, tokenId: item.TokenId, quantity: item.Quantity}
		byKey[key] = h
		res = append(res, h)
	}
	return res, nil
}

// checkHolder requires holder to own every item and to have approved the
// bundle marketplace.
func (im *impl) checkHolder(c ctx.Ctx, items []bundle.Item, holder domain.Address) error {
	holdings, err := im.holdings(c, items)
	if err != nil {
		return err
	}
	for _, h := range holdings {
		if err := collection.CanTransfer(c, h.coll, holder, im.address, h.tokenId, h.quantity); err != nil {
			if domain.KindOf(err) == domain.KindTransferRejected {
				return xerrors.Errorf("%w: %v", domain.ErrUnauthorized, err)
			}
			return err
		}
	}
	return nil
}

// settle sells every item of listing to buyer for price, or nothing.
// Callers hold the bundle lock.
func (im *impl) settle(c ctx.Ctx, listing bundle.Listing, buyer, payToken domain.Address, price *big.Int, commit, restore func()) error {
	seller := listing.Owner
	holdings, err := im.holdings(c, listing.Items)
	if err != nil {
		return err
	}
	for _, h := range holdings {
		if err := collection.CanTransfer(c, h.coll, seller, im.address, h.tokenId, h.quantity); err != nil {
			return err
		}
	}
	cur, err := im.registry.Currency(c, payToken)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "payToken": payToken}).Error("registry.Currency failed")
		return err
	}
	if err := currency.CanPull(c, cur, buyer, im.address, price); err != nil {
		return err
	}
	unitPrice, err := settlement.UnitPrice(c, im.registry, payToken)
	if err != nil {
		return err
	}
	first := listing.Items[0]
	rule, err := settlement.Royalty(c, im.registry, first.Nft, first.TokenId, seller)
	if err != nil {
		return err
	}
	fee := im.FeeConfig(c)
	split := domain.ComputeSplit(price, nil, fee.PlatformFeeBps, rule.Bps)

	commit()

	st := settlement.New(c, im.address, im.payouts)
	if err := st.Pull(cur, buyer, price); err != nil {
		restore()
		return err
	}
	for _, h := range holdings {
		if err := st.MoveItem(h.coll, seller, buyer, h.tokenId, h.quantity); err != nil {
			st.Rollback()
			restore()
			return err
		}
	}
	st.PaySplit(cur, split, fee.FeeRecipient, rule.Recipient, seller)

	met.BumpSum("sold", 1, "payToken", string(payToken))
	c.WithFields(log.Fields{
		"seller":   seller,
		"buyer":    buyer,
		"bundleId": listing.BundleId,
		"items":    len(listing.Items),
		"price":    price,
		"fee":      split.Fee,
		"royalty":  split.Royalty,
	}).Info("bundle sold")

	im.emitter.Emit(c, im.address, event.ItemSold, event.BundleSoldPayload{
		Seller:    seller,
		Buyer:     buyer,
		BundleId:  listing.BundleId,
		PayToken:  payToken,
		UnitPrice: unitPrice,
		Price:     domain.CopyBig(price),
	})
	return nil
}
