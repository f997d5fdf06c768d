package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/delivery"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/bundle"
	"github.com/x-xyz/marketplace/middleware"
	authMiddleware "github.com/x-xyz/marketplace/stores/auth/delivery/http/middleware"
)

type handler struct {
	bundle bundle.UseCase
}

func New(e *echo.Echo, bundle bundle.UseCase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{bundle}

	g := e.Group("/bundles")

	g.POST("", h.listItem, authMiddleware.Auth())

	g.GET("/fee", h.getFee)
	g.PUT("/fee", h.updateFee, authMiddleware.Auth())
	g.PUT("/fee/recipient", h.updateFeeRecipient, authMiddleware.Auth())

	g.GET("/payouts/:payToken/:recipient", h.getPayout, middleware.IsValidAddress("payToken"), middleware.IsValidAddress("recipient"))
	g.POST("/payouts/:payToken/withdraw", h.withdrawPayout, authMiddleware.Auth(), middleware.IsValidAddress("payToken"))

	g.GET("/:bundleId", h.getListing)
	g.PUT("/:bundleId", h.updateListing, authMiddleware.Auth())
	g.DELETE("/:bundleId", h.cancelListing, authMiddleware.Auth())
	g.POST("/:bundleId/buy", h.buyItem, authMiddleware.Auth())

	g.POST("/:bundleId/offer", h.createOffer, authMiddleware.Auth())
	g.DELETE("/:bundleId/offer", h.cancelOffer, authMiddleware.Auth())
	g.GET("/:bundleId/offers/:creator", h.getOffer, middleware.IsValidAddress("creator"))
	g.POST("/:bundleId/offers/:creator/accept", h.acceptOffer, authMiddleware.Auth(), middleware.IsValidAddress("creator"))
}

type itemsParams struct {
	Nfts       []domain.Address `json:"nfts" validate:"dive,address"`
	TokenIds   []domain.TokenId `json:"tokenIds"`
	Quantities []int64          `json:"quantities"`
}

// listItem
//
//	@Summary		List bundle
//	@Description	List bundle
//	@Tags			bundle
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			params	body		http.listItem.params	true	"params"
//	@Success		201
//	@Failure		400
//	@Failure		500
//	@Router			/bundles [post]
func (h *handler) listItem(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		itemsParams
		BundleId     string         `json:"bundleId" validate:"required"`
		PayToken     domain.Address `json:"payToken" validate:"required,address"`
		Price        string         `json:"price" validate:"required,amount"`
		StartingTime int64          `json:"startingTime" validate:"gte=0"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		ctx.WithField("err", err).Warn("BindAndValidate failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	price, err := delivery.ParseAmount(p.Price)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.bundle.ListItem(ctx, delivery.Caller(c), p.BundleId, p.Nfts, p.TokenIds, p.Quantities, p.PayToken, price, delivery.UnixTime(p.StartingTime)); err != nil {
		ctx.WithField("err", err).Warn("bundle.ListItem failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, nil)
}

// updateListing
//
//	@Summary		Update listing
//	@Description	Update listing
//	@Tags			bundle
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			bundleId	path		string	true	"bundle id"
//	@Param			params	body		http.updateListing.params	true	"params"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/bundles/{bundleId} [put]
func (h *handler) updateListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		itemsParams
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

	if err := h.bundle.UpdateListing(ctx, delivery.Caller(c), c.Param("bundleId"), p.Nfts, p.TokenIds, p.Quantities, p.PayToken, price); err != nil {
		ctx.WithField("err", err).Warn("bundle.UpdateListing failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// cancelListing
//
//	@Summary		Cancel listing
//	@Description	Cancel listing
//	@Tags			bundle
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			bundleId	path		string	true	"bundle id"
//	@Success		200
//	@Failure		500
//	@Router			/bundles/{bundleId} [delete]
func (h *handler) cancelListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	if err := h.bundle.CancelListing(ctx, delivery.Caller(c), c.Param("bundleId")); err != nil {
		ctx.WithField("err", err).Warn("bundle.CancelListing failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// buyItem
//
//	@Summary		Buy bundle
//	@Description	Buy bundle
//	@Tags			bundle
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			bundleId	path		string	true	"bundle id"
//	@Param			params	body		http.buyItem.params	true	"params"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/bundles/{bundleId}/buy [post]
func (h *handler) buyItem(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		PayToken domain.Address `json:"payToken" validate:"required,address"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.bundle.BuyItem(ctx, delivery.Caller(c), c.Param("bundleId"), p.PayToken); err != nil {
		ctx.WithField("err", err).Warn("bundle.BuyItem failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// getListing
//
//	@Summary		Get listing
//	@Description	Get listing
//	@Tags			bundle
//	@Produce		json
//	@Param			bundleId	path		string	true	"bundle id"
//	@Success		200
//	@Failure		404
//	@Router			/bundles/{bundleId} [get]
func (h *handler) getListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	bundleId := c.Param("bundleId")

	owner, ok := h.bundle.OwnerOf(ctx, bundleId)
	if !ok {
		return delivery.MakeJsonResp(c, http.StatusNotFound, domain.ErrNotFound)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, h.bundle.GetListing(ctx, owner, bundleId))
}

// createOffer
//
//	@Summary		Create offer
//	@Description	Create offer
//	@Tags			bundle
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			bundleId	path		string	true	"bundle id"
//	@Param			params	body		http.createOffer.params	true	"params"
//	@Success		201
//	@Failure		400
//	@Failure		500
//	@Router			/bundles/{bundleId}/offer [post]
func (h *handler) createOffer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		PayToken domain.Address `json:"payToken" validate:"required,address"`
		Price    string         `json:"price" validate:"required,amount"`
		Deadline int64          `json:"deadline" validate:"gt=0"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	price, err := delivery.ParseAmount(p.Price)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.bundle.CreateOffer(ctx, delivery.Caller(c), c.Param("bundleId"), p.PayToken, price, delivery.UnixTime(p.Deadline)); err != nil {
		ctx.WithField("err", err).Warn("bundle.CreateOffer failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, nil)
}

// cancelOffer
//
//	@Summary		Cancel offer
//	@Description	Cancel offer
//	@Tags			bundle
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			bundleId	path		string	true	"bundle id"
//	@Success		200
//	@Failure		500
//	@Router			/bundles/{bundleId}/offer [delete]
func (h *handler) cancelOffer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	if err := h.bundle.CancelOffer(ctx, delivery.Caller(c), c.Param("bundleId")); err != nil {
		ctx.WithField("err", err).Warn("bundle.CancelOffer failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// getOffer
//
//	@Summary		Get offer
//	@Description	Get offer
//	@Tags			bundle
//	@Produce		json
//	@Param			bundleId	path		string	true	"bundle id"
//	@Param			creator	path		string	true	"offer creator address"
//	@Success		200
//	@Failure		404
//	@Router			/bundles/{bundleId}/offers/{creator} [get]
func (h *handler) getOffer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	offer := h.bundle.GetOffer(ctx, c.Param("bundleId"), domain.Address(c.Param("creator")))
	if !domain.IsPositive(offer.Price) {
		return delivery.MakeJsonResp(c, http.StatusNotFound, domain.ErrNotFound)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, offer)
}

// acceptOffer
//
//	@Summary		Accept offer
//	@Description	Accept offer
//	@Tags			bundle
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			bundleId	path		string	true	"bundle id"
//	@Param			creator	path		string	true	"offer creator address"
//	@Success		200
//	@Failure		500
//	@Router			/bundles/{bundleId}/offers/{creator}/accept [post]
func (h *handler) acceptOffer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	if err := h.bundle.AcceptOffer(ctx, delivery.Caller(c), c.Param("bundleId"), domain.Address(c.Param("creator"))); err != nil {
		ctx.WithField("err", err).Warn("bundle.AcceptOffer failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// getFee
//
//	@Summary		Get fee
//	@Description	Get fee
//	@Tags			bundle
//	@Produce		json
//	@Success		200
//	@Router			/bundles/fee [get]
func (h *handler) getFee(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	return delivery.MakeJsonResp(c, http.StatusOK, h.bundle.FeeConfig(ctx))
}

// updateFee
//
//	@Summary		Update fee
//	@Description	Update fee
//	@Tags			bundle
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			params	body		http.updateFee.params	true	"params"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/bundles/fee [put]
func (h *handler) updateFee(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		PlatformFee int64 `json:"platformFee" validate:"gte=0,lte=10000"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.bundle.UpdatePlatformFee(ctx, delivery.Caller(c), p.PlatformFee); err != nil {
		ctx.WithField("err", err).Warn("bundle.UpdatePlatformFee failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, h.bundle.FeeConfig(ctx))
}

// updateFeeRecipient
//
//	@Summary		Update fee recipient
//	@Description	Update fee recipient
//	@Tags			bundle
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			params	body		http.updateFeeRecipient.params	true	"params"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/bundles/fee/recipient [put]
func (h *handler) updateFeeRecipient(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Recipient domain.Address `json:"recipient" validate:"required,address"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.bundle.UpdatePlatformFeeRecipient(ctx, delivery.Caller(c), p.Recipient); err != nil {
		ctx.WithField("err", err).Warn("bundle.UpdatePlatformFeeRecipient failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, h.bundle.FeeConfig(ctx))
}

// getPayout
//
//	@Summary		Get pending payout
//	@Description	Get pending payout
//	@Tags			bundle
//	@Produce		json
//	@Param			payToken	path		string	true	"pay token address"
//	@Param			recipient	path		string	true	"payout recipient address"
//	@Success		200
//	@Router			/bundles/payouts/{payToken}/{recipient} [get]
func (h *handler) getPayout(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	owed := h.bundle.PendingPayout(ctx, domain.Address(c.Param("payToken")), domain.Address(c.Param("recipient")))
	return delivery.MakeJsonResp(c, http.StatusOK, owed.String())
}

// withdrawPayout
//
//	@Summary		Withdraw pending payout
//	@Description	Withdraw pending payout
//	@Tags			bundle
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			payToken	path		string	true	"pay token address"
//	@Success		200
//	@Failure		500
//	@Router			/bundles/payouts/{payToken}/withdraw [post]
func (h *handler) withdrawPayout(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	if err := h.bundle.WithdrawPayout(ctx, delivery.Caller(c), domain.Address(c.Param("payToken"))); err != nil {
		ctx.WithField("err", err).Warn("bundle.WithdrawPayout failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}
