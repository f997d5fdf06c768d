package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/delivery"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/collection"
	"github.com/x-xyz/marketplace/domain/registry"
	"github.com/x-xyz/marketplace/middleware"
	authMiddleware "github.com/x-xyz/marketplace/stores/auth/delivery/http/middleware"
	"golang.org/x/xerrors"
)

type handler struct {
	registry registry.AddressRegistry
}

// New serves the four collection factories, addressed by registry role.
func New(e *echo.Echo, registry registry.AddressRegistry, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{registry}

	g := e.Group("/factory/:role", h.resolve)

	g.GET("", h.getFactory)
	g.GET("/collections", h.getCollections)
	g.GET("/collections/:nft", h.exists, middleware.IsValidAddress("nft"))

	g.POST("/collections", h.deploy, authMiddleware.Auth())
	g.POST("/collections/:nft/register", h.register, authMiddleware.Auth(), middleware.IsValidAddress("nft"))
	g.POST("/collections/:nft/disable", h.disable, authMiddleware.Auth(), middleware.IsValidAddress("nft"))

	g.PUT("/mint-fee", h.updateMintFee, authMiddleware.Auth())
	g.PUT("/platform-fee", h.updatePlatformFee, authMiddleware.Auth())
	g.PUT("/fee-recipient", h.updateFeeRecipient, authMiddleware.Auth())
}

// resolve looks up the factory serving :role and stores it as "factory".
func (h *handler) resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Get("ctx").(ctx.Ctx)

		role := registry.Role(c.Param("role"))
		if !role.IsFactory() {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, xerrors.Errorf("%w: role %s", domain.ErrInvalidParameters, role))
		}
		factory, err := h.registry.Factory(ctx, role)
		if err != nil {
			ctx.WithFields(log.Fields{"err": err, "role": role}).Warn("registry.Factory failed")
			return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
		}
		c.Set("factory", factory)
		return next(c)
	}
}

func factoryOf(c echo.Context) collection.Factory {
	return c.Get("factory").(collection.Factory)
}

// getFactory
//
//	@Summary		Get factory
//	@Description	Get factory
//	@Tags			factory
//	@Produce		json
//	@Param			role	path		string	true	"registry role"
//	@Success		200
//	@Router			/factory/{role} [get]
func (h *handler) getFactory(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	f := factoryOf(c)

	return delivery.MakeJsonResp(c, http.StatusOK, struct {
		Address domain.Address         `json:"address"`
		Kind    collection.Kind        `json:"kind"`
		Private bool                   `json:"private"`
		Fees    collection.FactoryFees `json:"fees"`
	}{f.Address(), f.Kind(), f.Private(), f.Fees(ctx)})
}

// getCollections
//
//	@Summary		Get collections
//	@Description	Get collections
//	@Tags			factory
//	@Produce		json
//	@Param			role	path		string	true	"registry role"
//	@Success		200
//	@Router			/factory/{role}/collections [get]
func (h *handler) getCollections(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	return delivery.MakeJsonResp(c, http.StatusOK, factoryOf(c).FindAll(ctx))
}

// exists
//
//	@Summary		Check collection was deployed by factory
//	@Description	Check collection was deployed by factory
//	@Tags			factory
//	@Produce		json
//	@Param			role	path		string	true	"registry role"
//	@Param			nft	path		string	true	"collection address"
//	@Success		200
//	@Failure		404
//	@Router			/factory/{role}/collections/{nft} [get]
func (h *handler) exists(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	nft := domain.Address(c.Param("nft"))

	if !factoryOf(c).Exists(ctx, nft) {
		return delivery.MakeJsonResp(c, http.StatusNotFound, domain.ErrNotFound)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nft.ToLower())
}

// deploy
//
//	@Summary		Deploy collection
//	@Description	Deploy collection
//	@Tags			factory
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			role	path		string	true	"registry role"
//	@Param			params	body		http.deploy.params	true	"params"
//	@Success		201
//	@Failure		400
//	@Failure		500
//	@Router			/factory/{role}/collections [post]
func (h *handler) deploy(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Name   string `json:"name" validate:"required"`
		Symbol string `json:"symbol" validate:"required"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	nft, err := factoryOf(c).DeployCollection(ctx, delivery.Caller(c), p.Name, p.Symbol)
	if err != nil {
		ctx.WithField("err", err).Warn("factory.DeployCollection failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, nft)
}

// register
//
//	@Summary		Register collection
//	@Description	Register collection
//	@Tags			factory
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			role	path		string	true	"registry role"
//	@Param			nft	path		string	true	"collection address"
//	@Success		200
//	@Failure		500
//	@Router			/factory/{role}/collections/{nft}/register [post]
func (h *handler) register(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	if err := factoryOf(c).RegisterCollection(ctx, delivery.Caller(c), domain.Address(c.Param("nft"))); err != nil {
		ctx.WithField("err", err).Warn("factory.RegisterCollection failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// disable
//
//	@Summary		Disable collection
//	@Description	Disable collection
//	@Tags			factory
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			role	path		string	true	"registry role"
//	@Param			nft	path		string	true	"collection address"
//	@Success		200
//	@Failure		500
//	@Router			/factory/{role}/collections/{nft}/disable [post]
func (h *handler) disable(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	if err := factoryOf(c).DisableCollection(ctx, delivery.Caller(c), domain.Address(c.Param("nft"))); err != nil {
		ctx.WithField("err", err).Warn("factory.DisableCollection failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

type amountParams struct {
	Amount string `json:"amount" validate:"required,amount"`
}

// updateMintFee
//
//	@Summary		Update mint fee
//	@Description	Update mint fee
//	@Tags			factory
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			role	path		string	true	"registry role"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/factory/{role}/mint-fee [put]
func (h *handler) updateMintFee(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &amountParams{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	fee, err := delivery.ParseAmount(p.Amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	f := factoryOf(c)
	if err := f.UpdateMintFee(ctx, delivery.Caller(c), fee); err != nil {
		ctx.WithField("err", err).Warn("factory.UpdateMintFee failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, f.Fees(ctx))
}

// updatePlatformFee
//
//	@Summary		Update platform fee
//	@Description	Update platform fee
//	@Tags			factory
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			role	path		string	true	"registry role"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/factory/{role}/platform-fee [put]
func (h *handler) updatePlatformFee(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &amountParams{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	fee, err := delivery.ParseAmount(p.Amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	f := factoryOf(c)
	if err := f.UpdatePlatformFee(ctx, delivery.Caller(c), fee); err != nil {
		ctx.WithField("err", err).Warn("factory.UpdatePlatformFee failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, f.Fees(ctx))
}

// updateFeeRecipient
//
//	@Summary		Update fee recipient
//	@Description	Update fee recipient
//	@Tags			factory
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			role	path		string	true	"registry role"
//	@Param			params	body		http.updateFeeRecipient.params	true	"params"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/factory/{role}/fee-recipient [put]
func (h *handler) updateFeeRecipient(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Recipient domain.Address `json:"recipient" validate:"required,address"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	f := factoryOf(c)
	if err := f.UpdateFeeRecipient(ctx, delivery.Caller(c), p.Recipient); err != nil {
		ctx.WithField("err", err).Warn("factory.UpdateFeeRecipient failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, f.Fees(ctx))
}
