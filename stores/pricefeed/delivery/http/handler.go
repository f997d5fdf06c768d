package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/delivery"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/pricefeed"
	"github.com/x-xyz/marketplace/domain/registry"
	"github.com/x-xyz/marketplace/middleware"
	authMiddleware "github.com/x-xyz/marketplace/stores/auth/delivery/http/middleware"
)

type handler struct {
	registry registry.AddressRegistry
}

func New(e *echo.Echo, registry registry.AddressRegistry, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{registry}

	g := e.Group("/pricefeed", h.resolve)

	g.GET("", h.getAll)
	g.POST("", h.register, authMiddleware.Auth())
	g.PUT("/:token", h.update, authMiddleware.Auth(), middleware.IsValidAddress("token"))
	g.GET("/:token/price", h.getPrice, middleware.IsValidAddress("token"))
	g.GET("/:token/quote", h.quote, middleware.IsValidAddress("token"))
}

func (h *handler) resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Get("ctx").(ctx.Ctx)

		feed, err := h.registry.PriceFeed(ctx)
		if err != nil {
			ctx.WithField("err", err).Warn("registry.PriceFeed failed")
			return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
		}
		c.Set("priceFeed", feed)
		return next(c)
	}
}

func feedOf(c echo.Context) pricefeed.PriceFeed {
	return c.Get("priceFeed").(pricefeed.PriceFeed)
}

// getAll
//
//	@Summary		Get price oracles
//	@Description	Get price oracles
//	@Tags			pricefeed
//	@Produce		json
//	@Success		200
//	@Failure		500
//	@Router			/pricefeed [get]
func (h *handler) getAll(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	records, err := feedOf(c).FindAll(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, records)
}

// register
//
//	@Summary		Register price oracle
//	@Description	Register price oracle
//	@Tags			pricefeed
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			params	body		http.register.params	true	"params"
//	@Success		201
//	@Failure		400
//	@Failure		500
//	@Router			/pricefeed [post]
func (h *handler) register(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Token  domain.Address `json:"token" validate:"required,address"`
		Oracle domain.Address `json:"oracle" validate:"required,address"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := feedOf(c).RegisterOracle(ctx, delivery.Caller(c), p.Token, p.Oracle); err != nil {
		ctx.WithField("err", err).Warn("priceFeed.RegisterOracle failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, nil)
}

// update
//
//	@Summary		Update price oracle
//	@Description	Update price oracle
//	@Tags			pricefeed
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			token	path		string	true	"token address"
//	@Param			params	body		http.update.params	true	"params"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/pricefeed/{token} [put]
func (h *handler) update(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Oracle domain.Address `json:"oracle" validate:"required,address"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := feedOf(c).UpdateOracle(ctx, delivery.Caller(c), domain.Address(c.Param("token")), p.Oracle); err != nil {
		ctx.WithField("err", err).Warn("priceFeed.UpdateOracle failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// getPrice
//
//	@Summary		Get token price
//	@Description	Get token price
//	@Tags			pricefeed
//	@Produce		json
//	@Param			token	path		string	true	"token address"
//	@Success		200
//	@Failure		500
//	@Router			/pricefeed/{token}/price [get]
func (h *handler) getPrice(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	price, err := feedOf(c).GetPrice(ctx, domain.Address(c.Param("token")))
	if err != nil {
		ctx.WithField("err", err).Warn("priceFeed.GetPrice failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, map[string]interface{}{
		"answer":   price.Answer.String(),
		"decimals": price.Decimals,
		"value":    price.Value().String(),
	})
}

// quote
//
//	@Summary		Get oracle quote
//	@Description	Get oracle quote
//	@Tags			pricefeed
//	@Produce		json
//	@Param			token	path		string	true	"token address"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/pricefeed/{token}/quote [get]
func (h *handler) quote(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	amount, err := delivery.ParseAmount(c.QueryParam("amount"))
	if err != nil || amount == nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidParameters)
	}

	usd, err := feedOf(c).Quote(ctx, domain.Address(c.Param("token")), amount)
	if err != nil {
		ctx.WithField("err", err).Warn("priceFeed.Quote failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, usd.String())
}
