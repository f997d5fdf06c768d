package usecase

import (
	"math/big"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/settlement"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/event"
)

func (im *impl) PendingPayout(c ctx.Ctx, payToken, recipient domain.Address) *big.Int {
	return im.payouts.Owed(payToken, recipient)
}

func (im *impl) WithdrawPayout(c ctx.Ctx, caller, payToken domain.Address) error {
	caller, payToken = caller.ToLower(), payToken.ToLower()

	amount, err := settlement.WithdrawPayout(c, im.registry, im.payouts, im.address, caller, payToken)
	if err != nil {
		return err
	}

	im.emitter.Emit(c, im.address, event.PayoutWithdrawn, event.PayoutPayload{
		Recipient: caller,
		PayToken:  payToken,
		Amount:    amount,
	})
	return nil
}
