package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/delivery"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/base/metrics"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/collection"
	"github.com/x-xyz/marketplace/domain/registry"
	"github.com/x-xyz/marketplace/middleware"
	authMiddleware "github.com/x-xyz/marketplace/stores/auth/delivery/http/middleware"
	"golang.org/x/xerrors"
)

var met metrics.Service

type handler struct {
	registry registry.AddressRegistry
}

func New(e *echo.Echo, registry registry.AddressRegistry, authMiddleware *authMiddleware.AuthMiddleware) {
	met = metrics.New("collection")

	h := &handler{registry}

	g := e.Group("/collections/:nft", middleware.IsValidAddress("nft"), h.resolve)

	g.GET("", h.get)

	g.GET("/tokens/:tokenId", h.getToken)
	g.GET("/tokens/:tokenId/balance/:owner", h.getBalance, middleware.IsValidAddress("owner"))
	g.GET("/approval/:owner/:operator", h.getApproval, middleware.IsValidAddress("owner"), middleware.IsValidAddress("operator"))

	g.POST("/mint", h.mint, authMiddleware.Auth())
	g.PUT("/approval", h.setApproval, authMiddleware.Auth())
	g.POST("/minters", h.addMinter, authMiddleware.Auth())
	g.DELETE("/minters/:minter", h.removeMinter, authMiddleware.Auth(), middleware.IsValidAddress("minter"))
	g.PUT("/mint-fee", h.updateMintFee, authMiddleware.Auth())
}

func (h *handler) resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Get("ctx").(ctx.Ctx)

		coll, err := h.registry.Collection(ctx, domain.Address(c.Param("nft")))
		if err != nil {
			ctx.WithFields(log.Fields{"err": err, "nft": c.Param("nft")}).Warn("registry.Collection failed")
			return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
		}
		c.Set("collection", coll)
		return next(c)
	}
}

func collectionOf(c echo.Context) collection.Collection {
	return c.Get("collection").(collection.Collection)
}

// mintableOf fails with InvalidParameters for collections that were not
// deployed through a factory.
func mintableOf(c echo.Context) (collection.Mintable, error) {
	coll := collectionOf(c)
	m, ok := coll.(collection.Mintable)
	if !ok {
		return nil, xerrors.Errorf("%w: %s is not mintable", domain.ErrInvalidParameters, coll.Address())
	}
	return m, nil
}

type collectionInfo struct {
	Address domain.Address  `json:"address"`
	Kind    collection.Kind `json:"kind"`
	Owner   domain.Address  `json:"owner"`
	Name    string          `json:"name,omitempty"`
	Symbol  string          `json:"symbol,omitempty"`
	Private bool            `json:"private"`
	MintFee string          `json:"mintFee,omitempty"`
}

// get
//
//	@Summary		Get collection
//	@Description	Get collection
//	@Tags			collection
//	@Produce		json
//	@Param			nft	path		string	true	"collection address"
//	@Success		200
//	@Failure		500
//	@Router			/collections/{nft} [get]
func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	coll := collectionOf(c)

	owner, err := coll.Owner(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("collection.Owner failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	res := collectionInfo{
		Address: coll.Address(),
		Kind:    coll.Kind(),
		Owner:   owner,
	}
	if m, ok := coll.(collection.Mintable); ok {
		res.Name = m.Name()
		res.Symbol = m.Symbol()
		res.Private = m.Private()
		res.MintFee = m.MintFee().String()
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// getToken
//
//	@Summary		Get token
//	@Description	Get token
//	@Tags			collection
//	@Produce		json
//	@Param			nft	path		string	true	"collection address"
//	@Param			tokenId	path		string	true	"token id"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/collections/{nft}/tokens/{tokenId} [get]
func (h *handler) getToken(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	m, err := mintableOf(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	tokenId := domain.TokenId(c.Param("tokenId"))
	uri, err := m.TokenURI(ctx, tokenId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, map[string]interface{}{
		"tokenId":  tokenId,
		"tokenUri": uri,
	})
}

// getBalance
//
//	@Summary		Get token balance
//	@Description	Get token balance
//	@Tags			collection
//	@Produce		json
//	@Param			nft	path		string	true	"collection address"
//	@Param			tokenId	path		string	true	"token id"
//	@Param			owner	path		string	true	"owner address"
//	@Success		200
//	@Failure		500
//	@Router			/collections/{nft}/tokens/{tokenId}/balance/{owner} [get]
func (h *handler) getBalance(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	balance, err := collectionOf(c).BalanceOf(ctx, domain.Address(c.Param("owner")), domain.TokenId(c.Param("tokenId")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, balance)
}

// getApproval
//
//	@Summary		Get operator approval
//	@Description	Get operator approval
//	@Tags			collection
//	@Produce		json
//	@Param			nft	path		string	true	"collection address"
//	@Param			owner	path		string	true	"owner address"
//	@Param			operator	path		string	true	"operator address"
//	@Success		200
//	@Failure		500
//	@Router			/collections/{nft}/approval/{owner}/{operator} [get]
func (h *handler) getApproval(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	approved, err := collectionOf(c).IsApprovedForAll(ctx, domain.Address(c.Param("owner")), domain.Address(c.Param("operator")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, approved)
}

// mint
//
//	@Summary		Mint token
//	@Description	Mint token
//	@Tags			collection
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			nft	path		string	true	"collection address"
//	@Param			params	body		http.mint.params	true	"params"
//	@Success		201
//	@Failure		400
//	@Failure		500
//	@Router			/collections/{nft}/mint [post]
func (h *handler) mint(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	defer met.BumpTime("mint.time").End()

	type params struct {
		To       domain.Address `json:"to" validate:"required,address"`
		TokenUri string         `json:"tokenUri" validate:"required"`
		Supply   int64          `json:"supply" validate:"gte=0"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	m, err := mintableOf(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	tokenId, err := m.Mint(ctx, delivery.Caller(c), p.To, p.TokenUri, p.Supply)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "nft": m.Address()}).Warn("collection.Mint failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, tokenId)
}

// setApproval
//
//	@Summary		Set operator approval
//	@Description	Set operator approval
//	@Tags			collection
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			nft	path		string	true	"collection address"
//	@Param			params	body		http.setApproval.params	true	"params"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/collections/{nft}/approval [put]
func (h *handler) setApproval(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Operator domain.Address `json:"operator" validate:"required,address"`
		Approved bool           `json:"approved"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	m, err := mintableOf(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := m.SetApprovalForAll(ctx, delivery.Caller(c), p.Operator, p.Approved); err != nil {
		ctx.WithField("err", err).Warn("collection.SetApprovalForAll failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// addMinter
//
//	@Summary		Add minter
//	@Description	Add minter
//	@Tags			collection
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			nft	path		string	true	"collection address"
//	@Param			params	body		http.addMinter.params	true	"params"
//	@Success		201
//	@Failure		400
//	@Failure		500
//	@Router			/collections/{nft}/minters [post]
func (h *handler) addMinter(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Minter domain.Address `json:"minter" validate:"required,address"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	m, err := mintableOf(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := m.AddMinter(ctx, delivery.Caller(c), p.Minter); err != nil {
		ctx.WithField("err", err).Warn("collection.AddMinter failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, nil)
}

// removeMinter
//
//	@Summary		Remove minter
//	@Description	Remove minter
//	@Tags			collection
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			nft	path		string	true	"collection address"
//	@Param			minter	path		string	true	"minter address"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/collections/{nft}/minters/{minter} [delete]
func (h *handler) removeMinter(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	m, err := mintableOf(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := m.RemoveMinter(ctx, delivery.Caller(c), domain.Address(c.Param("minter"))); err != nil {
		ctx.WithField("err", err).Warn("collection.RemoveMinter failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// updateMintFee
//
//	@Summary		Update mint fee
//	@Description	Update mint fee
//	@Tags			collection
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			nft	path		string	true	"collection address"
//	@Param			params	body		http.updateMintFee.params	true	"params"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/collections/{nft}/mint-fee [put]
func (h *handler) updateMintFee(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Amount string `json:"amount" validate:"required,amount"`
	}

	p := &params{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	fee, err := delivery.ParseAmount(p.Amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	m, err := mintableOf(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := m.UpdateMintFee(ctx, delivery.Caller(c), fee); err != nil {
		ctx.WithField("err", err).Warn("collection.UpdateMintFee failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, m.MintFee().String())
}
