package http

import (
	"math/big"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/delivery"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/currency"
	"github.com/x-xyz/marketplace/domain/registry"
	"github.com/x-xyz/marketplace/middleware"
	authMiddleware "github.com/x-xyz/marketplace/stores/auth/delivery/http/middleware"
	"golang.org/x/xerrors"
)

// minter is implemented by currencies this process issues itself.
type minter interface {
	Mint(c ctx.Ctx, to domain.Address, amount *big.Int) error
}

type handler struct {
	registry registry.AddressRegistry
}

func New(e *echo.Echo, registry registry.AddressRegistry, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{registry}

	g := e.Group("/currencies/:token", middleware.IsValidAddress("token"), h.resolve)

	g.GET("", h.get)
	g.GET("/balance/:owner", h.getBalance, middleware.IsValidAddress("owner"))
	g.GET("/allowance/:owner/:spender", h.getAllowance, middleware.IsValidAddress("owner"), middleware.IsValidAddress("spender"))

	g.PUT("/approve", h.approve, authMiddleware.Auth())
	g.POST("/transfer", h.transfer, authMiddleware.Auth())
	g.POST("/mint", h.mint, authMiddleware.Auth(), authMiddleware.IsAdmin())
}

func (h *handler) resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Get("ctx").(ctx.Ctx)

		cur, err := h.registry.Currency(ctx, domain.Address(c.Param("token")))
		if err != nil {
			ctx.WithFields(log.Fields{"err": err, "token": c.Param("token")}).Warn("registry.Currency failed")
			return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
		}
		c.Set("currency", cur)
		return next(c)
	}
}

func currencyOf(c echo.Context) currency.Currency {
	return c.Get("currency").(currency.Currency)
}

// get
//
//	@Summary		Get currency
//	@Description	Get currency
//	@Tags			currency
//	@Produce		json
//	@Param			token	path		string	true	"token address"
//	@Success		200
//	@Router			/currencies/{token} [get]
func (h *handler) get(c echo.Context) error {
	cur := currencyOf(c)
	return delivery.MakeJsonResp(c, http.StatusOK, map[string]interface{}{
		"address":  cur.Address(),
		"symbol":   cur.Symbol(),
		"decimals": cur.Decimals(),
	})
}

// getBalance
//
//	@Summary		Get currency balance
//	@Description	Get currency balance
//	@Tags			currency
//	@Produce		json
//	@Param			token	path		string	true	"token address"
//	@Param			owner	path		string	true	"owner address"
//	@Success		200
//	@Failure		500
//	@Router			/currencies/{token}/balance/{owner} [get]
func (h *handler) getBalance(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	balance, err := currencyOf(c).BalanceOf(ctx, domain.Address(c.Param("owner")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, balance.String())
}

// getAllowance
//
//	@Summary		Get allowance
//	@Description	Get allowance
//	@Tags			currency
//	@Produce		json
//	@Param			token	path		string	true	"token address"
//	@Param			owner	path		string	true	"owner address"
//	@Param			spender	path		string	true	"spender address"
//	@Success		200
//	@Failure		500
//	@Router			/currencies/{token}/allowance/{owner}/{spender} [get]
func (h *handler) getAllowance(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	allowance, err := currencyOf(c).Allowance(ctx, domain.Address(c.Param("owner")), domain.Address(c.Param("spender")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, allowance.String())
}

type amountParams struct {
	Address domain.Address `json:"address" validate:"required,address"`
	Amount  string         `json:"amount" validate:"required,amount"`
}

func bindAmount(c echo.Context) (domain.Address, *big.Int, error) {
	p := &amountParams{}
	if err := delivery.BindAndValidate(c, p); err != nil {
		return "", nil, err
	}
	amount, err := delivery.ParseAmount(p.Amount)
	if err != nil {
		return "", nil, err
	}
	return p.Address, amount, nil
}

// approve
//
//	@Summary		Approve spender
//	@Description	Approve spender
//	@Tags			currency
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			token	path		string	true	"token address"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/currencies/{token}/approve [put]
func (h *handler) approve(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	spender, amount, err := bindAmount(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := currencyOf(c).Approve(ctx, delivery.Caller(c), spender, amount); err != nil {
		ctx.WithField("err", err).Warn("currency.Approve failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// transfer
//
//	@Summary		Transfer currency
//	@Description	Transfer currency
//	@Tags			currency
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			token	path		string	true	"token address"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/currencies/{token}/transfer [post]
func (h *handler) transfer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	to, amount, err := bindAmount(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := currencyOf(c).Transfer(ctx, delivery.Caller(c), to, amount); err != nil {
		ctx.WithField("err", err).Warn("currency.Transfer failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// mint
//
//	@Summary		Mint currency
//	@Description	Mint currency
//	@Tags			currency
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			token	path		string	true	"token address"
//	@Success		201
//	@Failure		400
//	@Failure		500
//	@Router			/currencies/{token}/mint [post]
func (h *handler) mint(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	to, amount, err := bindAmount(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	cur := currencyOf(c)
	m, ok := cur.(minter)
	if !ok {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, xerrors.Errorf("%w: %s is not mintable", domain.ErrInvalidParameters, cur.Address()))
	}

	if err := m.Mint(ctx, to, amount); err != nil {
		ctx.WithField("err", err).Warn("currency.Mint failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, nil)
}
