package delivery

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/x-xyz/marketplace/domain"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
	Kind   domain.ErrorKind   `json:"kind,omitempty"`
}

var kindStatus = map[domain.ErrorKind]int{
	domain.KindUnauthorized:          http.StatusForbidden,
	domain.KindNotWhitelisted:        http.StatusBadRequest,
	domain.KindInvalidParameters:     http.StatusBadRequest,
	domain.KindEntityNotActive:       http.StatusConflict,
	domain.KindOutsideTimeWindow:     http.StatusConflict,
	domain.KindBidTooLow:             http.StatusConflict,
	domain.KindReserveNotMet:         http.StatusConflict,
	domain.KindInsufficientFunds:     http.StatusPaymentRequired,
	domain.KindInsufficientAllowance: http.StatusPaymentRequired,
	domain.KindTransferRejected:      http.StatusConflict,
	domain.KindDependencyUnresolved:  http.StatusFailedDependency,
	domain.KindNotFound:              http.StatusNotFound,
}

// StatusOf maps an operation error to its http status, falling back to status.
func StatusOf(err error, status int) int {
	if s, ok := kindStatus[domain.KindOf(err)]; ok {
		return s
	}
	return status
}

func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		status = StatusOf(err, status)
		kind := domain.KindOf(err)
		if kind == domain.KindUnknown {
			kind = ""
		}
		return c.JSON(status, JsonResponse{err.Error(), JsonResponseStatusFail, kind})
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{Data: data, Status: JsonResponseStatusFail})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{Data: data, Status: JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}
