package usecase

import (
	"math/big"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/base/settlement"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/collection"
	"github.com/x-xyz/marketplace/domain/currency"
	"github.com/x-xyz/marketplace/domain/event"
)

type sale struct {
	seller       domain.Address
	buyer        domain.Address
	nft          domain.Address
	tokenId      domain.TokenId
	quantity     int64
	payToken     domain.Address
	pricePerItem *big.Int
}

// settle validates a sale, commits it with commit, then moves funds and the
// item. restore puts the committed state back when any transfer fails.
// Callers hold the item lock.
func (im *impl) settle(c ctx.Ctx, s *sale, commit, restore func()) error {
	coll, err := im.registry.Collection(c, s.nft)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "nft": s.nft}).Error("registry.Collection failed")
		return err
	}
	if err := collection.CanTransfer(c, coll, s.seller, im.address, s.tokenId, s.quantity); err != nil {
		return err
	}
	cur, err := im.registry.Currency(c, s.payToken)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "payToken": s.payToken}).Error("registry.Currency failed")
		return err
	}
	price := new(big.Int).Mul(s.pricePerItem, big.NewInt(s.quantity))
	if err := currency.CanPull(c, cur, s.buyer, im.address, price); err != nil {
		return err
	}
	unitPrice, err := settlement.UnitPrice(c, im.registry, s.payToken)
	if err != nil {
		return err
	}
	rule, err := settlement.Royalty(c, im.registry, s.nft, s.tokenId, s.seller)
	if err != nil {
		return err
	}
	fee := im.FeeConfig(c)
	split := domain.ComputeSplit(price, nil, fee.PlatformFeeBps, rule.Bps)

	commit()

	st := settlement.New(c, im.address, im.payouts)
	if err := st.Pull(cur, s.buyer, price); err != nil {
		restore()
		return err
	}
	if err := st.MoveItem(coll, s.seller, s.buyer, s.tokenId, s.quantity); err != nil {
		st.Rollback()
		restore()
		return err
	}
	st.PaySplit(cur, split, fee.FeeRecipient, rule.Recipient, s.seller)

	met.BumpSum("sold", 1, "payToken", string(s.payToken))
	c.WithFields(log.Fields{
		"seller":  s.seller,
		"buyer":   s.buyer,
		"nft":     s.nft,
		"tokenId": s.tokenId,
		"price":   price,
		"fee":     split.Fee,
		"royalty": split.Royalty,
	}).Info("item sold")

	im.emitter.Emit(c, im.address, event.ItemSold, event.ItemSoldPayload{
		Seller:       s.seller,
		Buyer:        s.buyer,
		Nft:          s.nft,
		TokenId:      s.tokenId,
		Quantity:     s.quantity,
		PayToken:     s.payToken,
		UnitPrice:    unitPrice,
		PricePerItem: domain.CopyBig(s.pricePerItem),
	})
	return nil
}
