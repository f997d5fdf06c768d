package delivery

import (
	"math/big"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/x-xyz/marketplace/domain"
	"golang.org/x/xerrors"
)

// Caller is the address the auth middleware authenticated.
func Caller(c echo.Context) domain.Address {
	if addr, ok := c.Get("address").(domain.Address); ok {
		return addr
	}
	return ""
}

// BindAndValidate fills p from the request and checks its validate tags.
func BindAndValidate(c echo.Context, p interface{}) error {
	if err := c.Bind(p); err != nil {
		return xerrors.Errorf("%w: %v", domain.ErrInvalidParameters, err)
	}
	if err := c.Validate(p); err != nil {
		return xerrors.Errorf("%w: %v", domain.ErrInvalidParameters, err)
	}
	return nil
}

// ParseAmount parses a base-10 amount in base units. Empty is nil.
func ParseAmount(s string) (*big.Int, error) {
	if len(s) == 0 {
		return nil, nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, xerrors.Errorf("%w: amount %q", domain.ErrInvalidParameters, s)
	}
	return v, nil
}

// UnixTime converts seconds since epoch. Zero is the zero time.
func UnixTime(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
