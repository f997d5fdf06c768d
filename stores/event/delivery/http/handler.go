package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/delivery"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/event"
)

type handler struct {
	event event.UseCase
}

func New(e *echo.Echo, event event.UseCase) {
	h := &handler{event}
	e.GET("/events", h.findAll)
}

// findAll
//
//	@Summary		Find events
//	@Description	Find events
//	@Tags			event
//	@Produce		json
//	@Param			name	query		string	false	"name"
//	@Param			source	query		string	false	"source"
//	@Param			offset	query		int	false	"offset"
//	@Param			limit	query		int	false	"limit"
//	@Success		200
//	@Failure		400
//	@Failure		500
//	@Router			/events [get]
func (h *handler) findAll(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Name   string `query:"name"`
		Source string `query:"source"`
		Offset int32  `query:"offset" validate:"gte=0"`
		Limit  int32  `query:"limit" validate:"gte=0,lte=500"`
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

	opts := []event.FindAllOptionsFunc{}
	if len(p.Name) > 0 {
		opts = append(opts, event.WithName(event.Name(p.Name)))
	}
	if len(p.Source) > 0 {
		opts = append(opts, event.WithSource(domain.Address(p.Source)))
	}
	if p.Limit > 0 {
		opts = append(opts, event.WithPagination(p.Offset, p.Limit))
	}

	res, err := h.event.FindAll(ctx, opts...)
	if err != nil {
		ctx.WithField("err", err).Error("event.FindAll failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
