package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/delivery"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/marketplace"
	"github.com/x-xyz/marketplace/middleware"
	authMiddleware "github.com/x-xyz/marketplace/stores/auth/delivery/http/middleware"
)

type handler struct {
	marketplace marketplace.UseCase
}

func New(e *echo.Echo, marketplace marketplace.UseCase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{marketplace}

	g := e.Group("/marketplace")

	g.GET("/fee", h.getFee)
	g.PUT("/fee", h.updateFee, authMiddleware.Auth())
	g.PUT("/fee/recipient", h.updateFeeRecipient, authMiddleware.Auth())

	g.POST("/listings", h.listItem, authMiddleware.Auth())

	g.GET("/payouts/:payToken/:recipient", h.getPayout, middleware.IsValidAddress("payToken"), middleware.IsValidAddress("recipient"))
	g.POST("/payouts/:payToken/withdraw", h.withdrawPayout, authMiddleware.Auth(), middleware.IsValidAddress("payToken"))

	item := g.Group("/:nft/:tokenId", middleware.IsValidAddress("nft"))

	item.GET("/listings/:owner", h.getListing, middleware.IsValidAddress("owner"))
	item.PUT("/listing", h.updateListing, authMiddleware.Auth())
	item.DELETE("/listing", h.cancelListing, authMiddleware.Auth())
	item.POST("/buy", h.buyItem, authMiddleware.Auth())

	item.GET("/offers/:creator", h.getOffer, middleware.IsValidAddress("creator"))
	item.POST("/offer", h.createOffer, authMiddleware.Auth())
	item.DELETE("/offer", h.cancelOffer, authMiddleware.Auth())
	item.POST("/offers/:creator/accept", h.acceptOffer, authMiddleware.Auth(), middleware.IsValidAddress("creator"))
}

func itemOf(c echo.Context) (domain.Address, domain.TokenId) {
	return domain.Address(c.Param("nft")), domain.TokenId(c.Param("tokenId"))
}

// listItem
//
//	@Summary		List item
//	@Description	List item
//	@Tags			marketplace
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			params	body		http.listItem.params	true	"params"
//	@Success		201
//	@Failure		400
//	@Failure		500
//	@Router			/marketplace/listings [post]
func (h *handler) listItem(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Nft          domain.Address `json:"nft" validate:"required,address"`
		TokenId      domain.TokenId `json:"tokenId" validate:"required"`
		Quantity     int64          `json:"quantity" validate:"gt=0"`
		PayToken     domain.Address `json:"payToken" validate:"required,address"`
		PricePerItem string         `json:"pricePerItem" validate:"required,amount"`
		StartingTime int64          `json:"startingTime" validate:"gte=0"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		ctx.WithField("err", err).Warn("BindAndValidate failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	price, err := delivery.ParseAmount(p.PricePerItem)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.marketplace.ListItem(ctx, delivery.Caller(c), p.Nft, p.TokenId, p.Quantity, p.PayToken, price, delivery.UnixTime(p.StartingTime)); err != nil {
		ctx.WithField("err", err).Warn("marketplace.ListItem failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, nil)
}

// updateListing
//
//	@Summary		Update listing
//	@Description	Update listing
//	@Tags			marketplace
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			nft	path		string	true	"collection address"
//	@Param			tokenId	path		string	true	"token id"
//	@Param			params	body		http.updateListing.params	true	"params"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/marketplace/{nft}/{tokenId}/listing [put]
func (h *handler) updateListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	nft, tokenId := itemOf(c)

	type params struct {
		PayToken domain.Address `json:"payToken" validate:"required,address"`
		NewPrice string         `json:"newPrice" validate:"required,amount"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		ctx.WithField("err", err).Warn("BindAndValidate failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	price, err := delivery.ParseAmount(p.NewPrice)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.marketplace.UpdateListing(ctx, delivery.Caller(c), nft, tokenId, p.PayToken, price); err != nil {
		ctx.WithField("err", err).Warn("marketplace.UpdateListing failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// cancelListing
//
//	@Summary		Cancel listing
//	@Description	Cancel listing
//	@Tags			marketplace
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			nft	path		string	true	"collection address"
//	@Param			tokenId	path		string	true	"token id"
//	@Success		200
//	@Failure		500
//	@Router			/marketplace/{nft}/{tokenId}/listing [delete]
func (h *handler) cancelListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	nft, tokenId := itemOf(c)

	if err := h.marketplace.CancelListing(ctx, delivery.Caller(c), nft, tokenId); err != nil {
		ctx.WithField("err", err).Warn("marketplace.CancelListing failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// buyItem
//
//	@Summary		Buy item
//	@Description	Buy item
//	@Tags			marketplace
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			nft	path		string	true	"collection address"
//	@Param			tokenId	path		string	true	"token id"
//	@Param			params	body		http.buyItem.params	true	"params"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/marketplace/{nft}/{tokenId}/buy [post]
func (h *handler) buyItem(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	nft, tokenId := itemOf(c)

	type params struct {
		PayToken domain.Address `json:"payToken" validate:"required,address"`
		Owner    domain.Address `json:"owner" validate:"required,address"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		ctx.WithField("err", err).Warn("BindAndValidate failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.marketplace.BuyItem(ctx, delivery.Caller(c), nft, tokenId, p.PayToken, p.Owner); err != nil {
		ctx.WithField("err", err).Warn("marketplace.BuyItem failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// getListing
//
//	@Summary		Get listing
//	@Description	Get listing
//	@Tags			marketplace
//	@Produce		json
//	@Param			nft	path		string	true	"collection address"
//	@Param			tokenId	path		string	true	"token id"
//	@Param			owner	path		string	true	"owner address"
//	@Success		200
//	@Failure		404
//	@Router			/marketplace/{nft}/{tokenId}/listings/{owner} [get]
func (h *handler) getListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	nft, tokenId := itemOf(c)

	listing := h.marketplace.GetListing(ctx, nft, tokenId, domain.Address(c.Param("owner")))
	if !listing.IsActive() {
		return delivery.MakeJsonResp(c, http.StatusNotFound, domain.ErrNotFound)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, listing)
}

// createOffer
//
//	@Summary		Create offer
//	@Description	Create offer
//	@Tags			marketplace
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			nft	path		string	true	"collection address"
//	@Param			tokenId	path		string	true	"token id"
//	@Param			params	body		http.createOffer.params	true	"params"
//	@Success		201
//	@Failure		400
//	@Failure		500
//	@Router			/marketplace/{nft}/{tokenId}/offer [post]
func (h *handler) createOffer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	nft, tokenId := itemOf(c)

	type params struct {
		PayToken     domain.Address `json:"payToken" validate:"required,address"`
		Quantity     int64          `json:"quantity" validate:"gt=0"`
		PricePerItem string         `json:"pricePerItem" validate:"required,amount"`
		Deadline     int64          `json:"deadline" validate:"gt=0"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		ctx.WithField("err", err).Warn("BindAndValidate failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	price, err := delivery.ParseAmount(p.PricePerItem)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.marketplace.CreateOffer(ctx, delivery.Caller(c), nft, tokenId, p.PayToken, p.Quantity, price, delivery.UnixTime(p.Deadline)); err != nil {
		ctx.WithField("err", err).Warn("marketplace.CreateOffer failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, nil)
}

// cancelOffer
//
//	@Summary		Cancel offer
//	@Description	Cancel offer
//	@Tags			marketplace
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			nft	path		string	true	"collection address"
//	@Param			tokenId	path		string	true	"token id"
//	@Success		200
//	@Failure		500
//	@Router			/marketplace/{nft}/{tokenId}/offer [delete]
func (h *handler) cancelOffer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	nft, tokenId := itemOf(c)

	if err := h.marketplace.CancelOffer(ctx, delivery.Caller(c), nft, tokenId); err != nil {
		ctx.WithField("err", err).Warn("marketplace.CancelOffer failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// acceptOffer
//
//	@Summary		Accept offer
//	@Description	Accept offer
//	@Tags			marketplace
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			nft	path		string	true	"collection address"
//	@Param			tokenId	path		string	true	"token id"
//	@Param			creator	path		string	true	"offer creator address"
//	@Success		200
//	@Failure		500
//	@Router			/marketplace/{nft}/{tokenId}/offers/{creator}/accept [post]
func (h *handler) acceptOffer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	nft, tokenId := itemOf(c)

	if err := h.marketplace.AcceptOffer(ctx, delivery.Caller(c), nft, tokenId, domain.Address(c.Param("creator"))); err != nil {
		ctx.WithField("err", err).Warn("marketplace.AcceptOffer failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// getOffer
//
//	@Summary		Get offer
//	@Description	Get offer
//	@Tags			marketplace
//	@Produce		json
//	@Param			nft	path		string	true	"collection address"
//	@Param			tokenId	path		string	true	"token id"
//	@Param			creator	path		string	true	"offer creator address"
//	@Success		200
//	@Failure		404
//	@Router			/marketplace/{nft}/{tokenId}/offers/{creator} [get]
func (h *handler) getOffer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	nft, tokenId := itemOf(c)

	offer := h.marketplace.GetOffer(ctx, nft, tokenId, domain.Address(c.Param("creator")))
	if offer.Quantity == 0 {
		return delivery.MakeJsonResp(c, http.StatusNotFound, domain.ErrNotFound)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, offer)
}

// getFee
//
//	@Summary		Get fee
//	@Description	Get fee
//	@Tags			marketplace
//	@Produce		json
//	@Success		200
//	@Router			/marketplace/fee [get]
func (h *handler) getFee(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	return delivery.MakeJsonResp(c, http.StatusOK, h.marketplace.FeeConfig(ctx))
}

// updateFee
//
//	@Summary		Update fee
//	@Description	Update fee
//	@Tags			marketplace
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			params	body		http.updateFee.params	true	"params"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/marketplace/fee [put]
func (h *handler) updateFee(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		PlatformFee int64 `json:"platformFee" validate:"gte=0,lte=10000"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.marketplace.UpdatePlatformFee(ctx, delivery.Caller(c), p.PlatformFee); err != nil {
		ctx.WithField("err", err).Warn("marketplace.UpdatePlatformFee failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, h.marketplace.FeeConfig(ctx))
}

// updateFeeRecipient
//
//	@Summary		Update fee recipient
//	@Description	Update fee recipient
//	@Tags			marketplace
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			params	body		http.updateFeeRecipient.params	true	"params"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/marketplace/fee/recipient [put]
func (h *handler) updateFeeRecipient(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Recipient domain.Address `json:"recipient" validate:"required,address"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.marketplace.UpdatePlatformFeeRecipient(ctx, delivery.Caller(c), p.Recipient); err != nil {
		ctx.WithField("err", err).Warn("marketplace.UpdatePlatformFeeRecipient failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, h.marketplace.FeeConfig(ctx))
}

// getPayout
//
//	@Summary		Get pending payout
//	@Description	Get pending payout
//	@Tags			marketplace
//	@Produce		json
//	@Param			payToken	path		string	true	"pay token address"
//	@Param			recipient	path		string	true	"payout recipient address"
//	@Success		200
//	@Router			/marketplace/payouts/{payToken}/{recipient} [get]
func (h *handler) getPayout(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	owed := h.marketplace.PendingPayout(ctx, domain.Address(c.Param("payToken")), domain.Address(c.Param("recipient")))
	return delivery.MakeJsonResp(c, http.StatusOK, owed.String())
}

// withdrawPayout
//
//	@Summary		Withdraw pending payout
//	@Description	Withdraw pending payout
//	@Tags			marketplace
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			payToken	path		string	true	"pay token address"
//	@Success		200
//	@Failure		500
//	@Router			/marketplace/payouts/{payToken}/withdraw [post]
func (h *handler) withdrawPayout(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	if err := h.marketplace.WithdrawPayout(ctx, delivery.Caller(c), domain.Address(c.Param("payToken"))); err != nil {
		ctx.WithField("err", err).Warn("marketplace.WithdrawPayout failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}
