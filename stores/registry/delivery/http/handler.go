package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/delivery"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/registry"
	authMiddleware "github.com/x-xyz/marketplace/stores/auth/delivery/http/middleware"
	"golang.org/x/xerrors"
)

type handler struct {
	registry registry.AddressRegistry
}

func New(e *echo.Echo, registry registry.AddressRegistry, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{registry}

	g := e.Group("/registry")

	g.GET("", h.getAll)
	g.GET("/:role", h.get)
	g.PUT("/:role", h.update, authMiddleware.Auth())
}

func parseRole(c echo.Context) (registry.Role, error) {
	role := registry.Role(c.Param("role"))
	if !role.IsValid() {
		return "", xerrors.Errorf("%w: unknown role %s", domain.ErrInvalidParameters, role)
	}
	return role, nil
}

// getAll
//
//	@Summary		Get registered addresses
//	@Description	Get registered addresses
//	@Tags			registry
//	@Produce		json
//	@Success		200
//	@Failure		500
//	@Router			/registry [get]
func (h *handler) getAll(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	records, err := h.registry.FindAll(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("registry.FindAll failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, records)
}

// get
//
//	@Summary		Get registered address
//	@Description	Get registered address
//	@Tags			registry
//	@Produce		json
//	@Param			role	path		string	true	"registry role"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/registry/{role} [get]
func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	role, err := parseRole(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	address, err := h.registry.AddressOf(ctx, role)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, registry.Record{Role: role, Address: address})
}

// update
//
//	@Summary		Update registered address
//	@Description	Update registered address
//	@Tags			registry
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			role	path		string	true	"registry role"
//	@Param			params	body		http.update.params	true	"params"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/registry/{role} [put]
func (h *handler) update(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	role, err := parseRole(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	type params struct {
		Address domain.Address `json:"address" validate:"required,address"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.registry.Update(ctx, delivery.Caller(c), role, p.Address); err != nil {
		ctx.WithField("err", err).Warn("registry.Update failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, registry.Record{Role: role, Address: p.Address.ToLower()})
}
