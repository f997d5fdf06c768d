package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/delivery"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/registry"
	"github.com/x-xyz/marketplace/domain/royalty"
	"github.com/x-xyz/marketplace/middleware"
	authMiddleware "github.com/x-xyz/marketplace/stores/auth/delivery/http/middleware"
)

type handler struct {
	registry registry.AddressRegistry
}

func New(e *echo.Echo, registry registry.AddressRegistry, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{registry}

	g := e.Group("/royalties/:nft", middleware.IsValidAddress("nft"), h.resolve)

	g.GET("", h.getDefault)
	g.PUT("", h.setDefault, authMiddleware.Auth())
	g.GET("/:tokenId", h.get)
	g.PUT("/:tokenId", h.setForItem, authMiddleware.Auth())
}

func (h *handler) resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Get("ctx").(ctx.Ctx)

		r, err := h.registry.RoyaltyRegistry(ctx)
		if err != nil {
			ctx.WithField("err", err).Warn("registry.RoyaltyRegistry failed")
			return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
		}
		c.Set("royalty", r)
		return next(c)
	}
}

func royaltiesOf(c echo.Context) royalty.Registry {
	return c.Get("royalty").(royalty.Registry)
}

type ruleParams struct {
	Recipient domain.Address `json:"recipient" validate:"required,address"`
	Bps       int64          `json:"bps" validate:"gte=0"`
}

// getDefault
//
//	@Summary		Get collection default royalty
//	@Description	Get collection default royalty
//	@Tags			royalty
//	@Produce		json
//	@Param			nft	path		string	true	"collection address"
//	@Success		200
//	@Router			/royalties/{nft} [get]
func (h *handler) getDefault(c echo.Context) error {
	return h.respondRule(c, "")
}

// get
//
//	@Summary		Get item royalty
//	@Description	Get the royalty of an item, falling back to the collection default
//	@Tags			royalty
//	@Produce		json
//	@Param			nft	path		string	true	"collection address"
//	@Param			tokenId	path		string	true	"token id"
//	@Success		200
//	@Router			/royalties/{nft}/{tokenId} [get]
func (h *handler) get(c echo.Context) error {
	return h.respondRule(c, domain.TokenId(c.Param("tokenId")))
}

func (h *handler) respondRule(c echo.Context, tokenId domain.TokenId) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	rule, ok := royaltiesOf(c).RoyaltyOf(ctx, domain.Address(c.Param("nft")), tokenId)
	if !ok {
		return delivery.MakeJsonResp(c, http.StatusNotFound, domain.ErrNotFound)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, rule)
}

// setDefault
//
//	@Summary		Set collection default royalty
//	@Description	Set collection default royalty
//	@Tags			royalty
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			nft	path		string	true	"collection address"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/royalties/{nft} [put]
func (h *handler) setDefault(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &ruleParams{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := royaltiesOf(c).SetDefaultRoyalty(ctx, delivery.Caller(c), domain.Address(c.Param("nft")), p.Recipient, p.Bps); err != nil {
		ctx.WithField("err", err).Warn("royalty.SetDefaultRoyalty failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// setForItem
//
//	@Summary		Set item royalty
//	@Description	Set item royalty
//	@Tags			royalty
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			nft	path		string	true	"collection address"
//	@Param			tokenId	path		string	true	"token id"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/royalties/{nft}/{tokenId} [put]
func (h *handler) setForItem(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &ruleParams{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := royaltiesOf(c).SetRoyaltyForItem(ctx, delivery.Caller(c), domain.Address(c.Param("nft")), domain.TokenId(c.Param("tokenId")), p.Recipient, p.Bps); err != nil {
		ctx.WithField("err", err).Warn("royalty.SetRoyaltyForItem failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}
