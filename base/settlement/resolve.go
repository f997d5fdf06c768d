package settlement

import (
	"math/big"
	"time"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/registry"
	"github.com/x-xyz/marketplace/domain/royalty"
	"golang.org/x/xerrors"
)

// Whitelisted fails with domain.ErrNotWhitelisted unless the token registry
// currently enables token.
func Whitelisted(c ctx.Ctx, reg registry.AddressRegistry, token domain.Address) error {
	tokens, err := reg.TokenRegistry(c)
	if err != nil {
		c.WithField("err", err).Error("registry.TokenRegistry failed")
		return err
	}
	if !tokens.Enabled(c, token) {
		return xerrors.Errorf("%w: %s", domain.ErrNotWhitelisted, token)
	}
	return nil
}

// QuoteTimeout bounds the oracle read of UnitPrice, which runs under engine
// locks.
var QuoteTimeout = time.Second

// UnitPrice is the price feed's quote for token, zero without an oracle.
func UnitPrice(c ctx.Ctx, reg registry.AddressRegistry, token domain.Address) (*big.Int, error) {
	feed, err := reg.PriceFeed(c)
	if err != nil {
		c.WithField("err", err).Error("registry.PriceFeed failed")
		return nil, err
	}
	qc, cancel := ctx.WithTimeout(c, QuoteTimeout)
	defer cancel()
	price, err := feed.GetPrice(qc, token)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "token": token}).Error("priceFeed.GetPrice failed")
		return nil, err
	}
	if price.Answer == nil {
		return big.NewInt(0), nil
	}
	return price.Answer, nil
}

// Royalty resolves the rule paid on a sale by seller. Rules paying the seller
// themselves are ignored.
func Royalty(c ctx.Ctx, reg registry.AddressRegistry, nft domain.Address, tokenId domain.TokenId, seller domain.Address) (royalty.Rule, error) {
	royalties, err := reg.RoyaltyRegistry(c)
	if err != nil {
		c.WithField("err", err).Error("registry.RoyaltyRegistry failed")
		return royalty.Rule{}, err
	}
	rule, ok := royalties.RoyaltyOf(c, nft, tokenId)
	if !ok || rule.Recipient.IsEmpty() || rule.Recipient.Equals(seller) {
		return royalty.Rule{}, nil
	}
	return rule, nil
}

// WithdrawPayout pays caller what escrow owes them in payToken.
func WithdrawPayout(c ctx.Ctx, reg registry.AddressRegistry, payouts *Payouts, escrow, caller, payToken domain.Address) (*big.Int, error) {
	cur, err := reg.Currency(c, payToken)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "payToken": payToken}).Error("registry.Currency failed")
		return nil, err
	}
	return payouts.Withdraw(c, cur, escrow, caller)
}
