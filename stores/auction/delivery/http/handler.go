package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/delivery"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/auction"
	"github.com/x-xyz/marketplace/middleware"
	authMiddleware "github.com/x-xyz/marketplace/stores/auth/delivery/http/middleware"
)

type handler struct {
	auction auction.UseCase
}

func New(e *echo.Echo, auction auction.UseCase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{auction}

	g := e.Group("/auctions")

	g.POST("", h.create, authMiddleware.Auth())

	g.GET("/fee", h.getFee)
	g.PUT("/fee", h.updateFee, authMiddleware.Auth())
	g.PUT("/fee/recipient", h.updateFeeRecipient, authMiddleware.Auth())
	g.PUT("/config/min-bid-increment", h.updateMinBidIncrement, authMiddleware.Auth())
	g.PUT("/config/bid-withdrawal-lock-time", h.updateLockTime, authMiddleware.Auth())

	g.GET("/payouts/:payToken/:recipient", h.getPayout, middleware.IsValidAddress("payToken"), middleware.IsValidAddress("recipient"))
	g.POST("/payouts/:payToken/withdraw", h.withdrawPayout, authMiddleware.Auth(), middleware.IsValidAddress("payToken"))

	item := g.Group("/:nft/:tokenId", middleware.IsValidAddress("nft"))

	item.GET("", h.get)
	item.DELETE("", h.cancel, authMiddleware.Auth())
	item.POST("/result", h.result, authMiddleware.Auth())
	item.GET("/bid", h.getHighestBid)
	item.POST("/bid", h.placeBid, authMiddleware.Auth())
	item.DELETE("/bid", h.withdrawBid, authMiddleware.Auth())
	item.PUT("/reserve", h.updateReserve, authMiddleware.Auth())
	item.PUT("/start", h.updateStart, authMiddleware.Auth())
	item.PUT("/end", h.updateEnd, authMiddleware.Auth())
}

func itemOf(c echo.Context) (domain.Address, domain.TokenId) {
	return domain.Address(c.Param("nft")), domain.TokenId(c.Param("tokenId"))
}

// create
//
//	@Summary		Create auction
//	@Description	Create auction
//	@Tags			auction
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			params	body		http.create.params	true	"params"
//	@Success		201
//	@Failure		400
//	@Failure		500
//	@Router			/auctions [post]
func (h *handler) create(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Nft           domain.Address `json:"nft" validate:"required,address"`
		TokenId       domain.TokenId `json:"tokenId" validate:"required"`
		PayToken      domain.Address `json:"payToken" validate:"required,address"`
		ReservePrice  string         `json:"reservePrice" validate:"required,amount"`
		StartTime     int64          `json:"startTime" validate:"gte=0"`
		MinBidReserve bool           `json:"minBidReserve"`
		EndTime       int64          `json:"endTime" validate:"gt=0"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		ctx.WithField("err", err).Warn("BindAndValidate failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	reserve, err := delivery.ParseAmount(p.ReservePrice)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.auction.CreateAuction(ctx, delivery.Caller(c), p.Nft, p.TokenId, p.PayToken, reserve, delivery.UnixTime(p.StartTime), p.MinBidReserve, delivery.UnixTime(p.EndTime)); err != nil {
		ctx.WithField("err", err).Warn("auction.CreateAuction failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, nil)
}

// get
//
//	@Summary		Get auction
//	@Description	Get auction
//	@Tags			auction
//	@Produce		json
//	@Param			nft	path		string	true	"collection address"
//	@Param			tokenId	path		string	true	"token id"
//	@Success		200
//	@Failure		500
//	@Router			/auctions/{nft}/{tokenId} [get]
func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	nft, tokenId := itemOf(c)

	res, err := h.auction.GetAuction(ctx, nft, tokenId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// getHighestBid
//
//	@Summary		Get highest bid
//	@Description	Get highest bid
//	@Tags			auction
//	@Produce		json
//	@Param			nft	path		string	true	"collection address"
//	@Param			tokenId	path		string	true	"token id"
//	@Success		200
//	@Failure		404
//	@Router			/auctions/{nft}/{tokenId}/bid [get]
func (h *handler) getHighestBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	nft, tokenId := itemOf(c)

	bid := h.auction.GetHighestBid(ctx, nft, tokenId)
	if !bid.Exists() {
		return delivery.MakeJsonResp(c, http.StatusNotFound, domain.ErrNotFound)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, bid)
}

// placeBid
//
//	@Summary		Place bid
//	@Description	Place bid
//	@Tags			auction
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			nft	path		string	true	"collection address"
//	@Param			tokenId	path		string	true	"token id"
//	@Param			params	body		http.placeBid.params	true	"params"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/auctions/{nft}/{tokenId}/bid [post]
func (h *handler) placeBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	nft, tokenId := itemOf(c)

	type params struct {
		Amount string `json:"amount" validate:"required,amount"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	amount, err := delivery.ParseAmount(p.Amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.auction.PlaceBid(ctx, delivery.Caller(c), nft, tokenId, amount); err != nil {
		ctx.WithField("err", err).Warn("auction.PlaceBid failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, h.auction.GetHighestBid(ctx, nft, tokenId))
}

// withdrawBid
//
//	@Summary		Withdraw bid
//	@Description	Withdraw bid
//	@Tags			auction
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			nft	path		string	true	"collection address"
//	@Param			tokenId	path		string	true	"token id"
//	@Success		200
//	@Failure		500
//	@Router			/auctions/{nft}/{tokenId}/bid [delete]
func (h *handler) withdrawBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	nft, tokenId := itemOf(c)

	if err := h.auction.WithdrawBid(ctx, delivery.Caller(c), nft, tokenId); err != nil {
		ctx.WithField("err", err).Warn("auction.WithdrawBid failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// result
//
//	@Summary		Result auction
//	@Description	Result auction
//	@Tags			auction
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			nft	path		string	true	"collection address"
//	@Param			tokenId	path		string	true	"token id"
//	@Success		200
//	@Failure		500
//	@Router			/auctions/{nft}/{tokenId}/result [post]
func (h *handler) result(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	nft, tokenId := itemOf(c)

	if err := h.auction.ResultAuction(ctx, delivery.Caller(c), nft, tokenId); err != nil {
		ctx.WithField("err", err).Warn("auction.ResultAuction failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// cancel
//
//	@Summary		Cancel auction
//	@Description	Cancel auction
//	@Tags			auction
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			nft	path		string	true	"collection address"
//	@Param			tokenId	path		string	true	"token id"
//	@Success		200
//	@Failure		500
//	@Router			/auctions/{nft}/{tokenId} [delete]
func (h *handler) cancel(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	nft, tokenId := itemOf(c)

	if err := h.auction.CancelAuction(ctx, delivery.Caller(c), nft, tokenId); err != nil {
		ctx.WithField("err", err).Warn("auction.CancelAuction failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// updateReserve
//
//	@Summary		Update reserve price
//	@Description	Update reserve price
//	@Tags			auction
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			nft	path		string	true	"collection address"
//	@Param			tokenId	path		string	true	"token id"
//	@Param			params	body		http.updateReserve.params	true	"params"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/auctions/{nft}/{tokenId}/reserve [put]
func (h *handler) updateReserve(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	nft, tokenId := itemOf(c)

	type params struct {
		ReservePrice string `json:"reservePrice" validate:"required,amount"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	reserve, err := delivery.ParseAmount(p.ReservePrice)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.auction.UpdateAuctionReservePrice(ctx, delivery.Caller(c), nft, tokenId, reserve); err != nil {
		ctx.WithField("err", err).Warn("auction.UpdateAuctionReservePrice failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// updateStart
//
//	@Summary		Update start time
//	@Description	Update start time
//	@Tags			auction
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			nft	path		string	true	"collection address"
//	@Param			tokenId	path		string	true	"token id"
//	@Success		200
//	@Router			/auctions/{nft}/{tokenId}/start [put]
func (h *handler) updateStart(c echo.Context) error {
	return h.updateTime(c, h.auction.UpdateAuctionStartTime)
}

// updateEnd
//
//	@Summary		Update end time
//	@Description	Update end time
//	@Tags			auction
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			nft	path		string	true	"collection address"
//	@Param			tokenId	path		string	true	"token id"
//	@Success		200
//	@Router			/auctions/{nft}/{tokenId}/end [put]
func (h *handler) updateEnd(c echo.Context) error {
	return h.updateTime(c, h.auction.UpdateAuctionEndTime)
}

type timeUpdater func(c ctx.Ctx, caller, nft domain.Address, tokenId domain.TokenId, t time.Time) error

func (h *handler) updateTime(c echo.Context, update timeUpdater) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	nft, tokenId := itemOf(c)

	type params struct {
		Time int64 `json:"time" validate:"gt=0"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := update(ctx, delivery.Caller(c), nft, tokenId, delivery.UnixTime(p.Time)); err != nil {
		ctx.WithFields(log.Fields{"err": err, "path": c.Path()}).Warn("auction update failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// getFee
//
//	@Summary		Get fee
//	@Description	Get fee
//	@Tags			auction
//	@Produce		json
//	@Success		200
//	@Router			/auctions/fee [get]
func (h *handler) getFee(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	return delivery.MakeJsonResp(c, http.StatusOK, h.auction.FeeConfig(ctx))
}

// updateFee
//
//	@Summary		Update fee
//	@Description	Update fee
//	@Tags			auction
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			params	body		http.updateFee.params	true	"params"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/auctions/fee [put]
func (h *handler) updateFee(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		PlatformFee int64 `json:"platformFee" validate:"gte=0,lte=10000"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.auction.UpdatePlatformFee(ctx, delivery.Caller(c), p.PlatformFee); err != nil {
		ctx.WithField("err", err).Warn("auction.UpdatePlatformFee failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, h.auction.FeeConfig(ctx))
}

// updateFeeRecipient
//
//	@Summary		Update fee recipient
//	@Description	Update fee recipient
//	@Tags			auction
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			params	body		http.updateFeeRecipient.params	true	"params"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/auctions/fee/recipient [put]
func (h *handler) updateFeeRecipient(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Recipient domain.Address `json:"recipient" validate:"required,address"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.auction.UpdatePlatformFeeRecipient(ctx, delivery.Caller(c), p.Recipient); err != nil {
		ctx.WithField("err", err).Warn("auction.UpdatePlatformFeeRecipient failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, h.auction.FeeConfig(ctx))
}

// updateMinBidIncrement
//
//	@Summary		Update min bid increment
//	@Description	Update min bid increment
//	@Tags			auction
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			params	body		http.updateMinBidIncrement.params	true	"params"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/auctions/config/min-bid-increment [put]
func (h *handler) updateMinBidIncrement(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Increment string `json:"increment" validate:"required,amount"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	increment, err := delivery.ParseAmount(p.Increment)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.auction.UpdateMinBidIncrement(ctx, delivery.Caller(c), increment); err != nil {
		ctx.WithField("err", err).Warn("auction.UpdateMinBidIncrement failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// updateLockTime
//
//	@Summary		Update bid withdrawal lock time
//	@Description	Update bid withdrawal lock time
//	@Tags			auction
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			params	body		http.updateLockTime.params	true	"params"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/auctions/config/bid-withdrawal-lock-time [put]
func (h *handler) updateLockTime(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Seconds int64 `json:"seconds" validate:"gte=0"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.auction.UpdateBidWithdrawalLockTime(ctx, delivery.Caller(c), time.Duration(p.Seconds)*time.Second); err != nil {
		ctx.WithField("err", err).Warn("auction.UpdateBidWithdrawalLockTime failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// getPayout
//
//	@Summary		Get pending payout
//	@Description	Get pending payout
//	@Tags			auction
//	@Produce		json
//	@Param			payToken	path		string	true	"pay token address"
//	@Param			recipient	path		string	true	"payout recipient address"
//	@Success		200
//	@Router			/auctions/payouts/{payToken}/{recipient} [get]
func (h *handler) getPayout(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	owed := h.auction.PendingPayout(ctx, domain.Address(c.Param("payToken")), domain.Address(c.Param("recipient")))
	return delivery.MakeJsonResp(c, http.StatusOK, owed.String())
}

// withdrawPayout
//
//	@Summary		Withdraw pending payout
//	@Description	Withdraw pending payout
//	@Tags			auction
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			payToken	path		string	true	"pay token address"
//	@Success		200
//	@Failure		500
//	@Router			/auctions/payouts/{payToken}/withdraw [post]
func (h *handler) withdrawPayout(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	if err := h.auction.WithdrawPayout(ctx, delivery.Caller(c), domain.Address(c.Param("payToken"))); err != nil {
		ctx.WithField("err", err).Warn("auction.WithdrawPayout failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}
