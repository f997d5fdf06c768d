package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/delivery"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/registry"
	"github.com/x-xyz/marketplace/middleware"
	authMiddleware "github.com/x-xyz/marketplace/stores/auth/delivery/http/middleware"
)

type handler struct {
	registry registry.AddressRegistry
}

// New serves whichever token registry the address registry currently
// resolves.
func New(e *echo.Echo, registry registry.AddressRegistry, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{registry}

	g := e.Group("/tokens")

	g.GET("", h.getAll)
	g.GET("/:token", h.enabled, middleware.IsValidAddress("token"))
	g.POST("", h.add, authMiddleware.Auth())
	g.DELETE("/:token", h.remove, authMiddleware.Auth(), middleware.IsValidAddress("token"))
}

func (h *handler) tokens(c echo.Context) (domain.TokenRegistry, error) {
	ctx := c.Get("ctx").(ctx.Ctx)

	tokens, err := h.registry.TokenRegistry(ctx)
	if err != nil {
		ctx.WithField("err", err).Warn("registry.TokenRegistry failed")
	}
	return tokens, err
}

// getAll
//
//	@Summary		Get pay tokens
//	@Description	Get pay tokens
//	@Tags			paytoken
//	@Produce		json
//	@Success		200
//	@Failure		500
//	@Router			/tokens [get]
func (h *handler) getAll(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	tokens, err := h.tokens(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	res, err := tokens.FindAll(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// enabled
//
//	@Summary		Check pay token is enabled
//	@Description	Check pay token is enabled
//	@Tags			paytoken
//	@Produce		json
//	@Param			token	path		string	true	"token address"
//	@Success		200
//	@Failure		500
//	@Router			/tokens/{token} [get]
func (h *handler) enabled(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	tokens, err := h.tokens(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, tokens.Enabled(ctx, domain.Address(c.Param("token"))))
}

// add
//
//	@Summary		Add pay token
//	@Description	Add pay token
//	@Tags			paytoken
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			params	body		http.add.params	true	"params"
//	@Success		201
//	@Failure		400
//	@Failure		500
//	@Router			/tokens [post]
func (h *handler) add(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Token domain.Address `json:"token" validate:"required,address"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	tokens, err := h.tokens(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	if err := tokens.Add(ctx, delivery.Caller(c), p.Token); err != nil {
		ctx.WithField("err", err).Warn("tokenRegistry.Add failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, nil)
}

// remove
//
//	@Summary		Remove pay token
//	@Description	Remove pay token
//	@Tags			paytoken
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			token	path		string	true	"token address"
//	@Success		200
//	@Failure		500
//	@Router			/tokens/{token} [delete]
func (h *handler) remove(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	tokens, err := h.tokens(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	if err := tokens.Remove(ctx, delivery.Caller(c), domain.Address(c.Param("token"))); err != nil {
		ctx.WithField("err", err).Warn("tokenRegistry.Remove failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}
