package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/delivery"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/stores/auth/usecase"
)

type authHandler struct {
	auth               domain.AuthUsecase
	signingMsgTemplate string
}

func New(e *echo.Echo, auth domain.AuthUsecase, template string) {
	handler := &authHandler{
		auth:               auth,
		signingMsgTemplate: template,
	}
	g := e.Group("/auth")
	g.POST("/sign", handler.sign)
	g.GET("/signingMsg", handler.getSigningMsg)
}

// sign
//
//	@Summary		Sign in
//	@Description	Exchange a wallet signature over the signing message for an access token
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			params	body		http.sign.params	true	"params"
//	@Success		201
//	@Failure		400
//	@Failure		401
//	@Failure		500
//	@Router			/auth/sign [post]
func (h *authHandler) sign(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Address   domain.Address `json:"address" validate:"required"`
		Signature string         `json:"signature" validate:"required"`
	}

	p := &params{}

	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		ctx.WithField("err", err).Warn("validate failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.auth.VerifySignature(ctx, p.Address, p.Signature); err != nil {
		ctx.WithField("err", err).Warn("auth.VerifySignature failed")
		return delivery.MakeJsonResp(c, http.StatusUnauthorized, err)
	}

	if tkn, err := h.auth.SignToken(ctx, p.Address); err != nil {
		ctx.WithField("err", err).Error("auth.SignToken failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusCreated, tkn)
	}
}

// getSigningMsg
//
//	@Summary		Get signing message template
//	@Description	Get signing message template
//	@Tags			auth
//	@Produce		json
//	@Success		200
//	@Failure		400
//	@Router			/auth/signingMsg [get]
func (h *authHandler) getSigningMsg(c echo.Context) error {
	address := domain.Address(c.QueryParam("address"))
	if !address.IsValid() {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidParameters)
	}
	res := struct {
		Msg string `json:"msg"`
	}{
		Msg: usecase.SigningMessage(h.signingMsgTemplate, address),
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
