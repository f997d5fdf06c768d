package domain

import (
	"github.com/golang-jwt/jwt"
	"github.com/x-xyz/marketplace/base/ctx"
)

type JwtCustomClaims struct {
	Address string `json:"data"` // name data for backward compatibility
	jwt.StandardClaims
}

type AuthUsecase interface {
	SignToken(ctx ctx.Ctx, address Address) (string, error)
	ParseToken(ctx ctx.Ctx, token string) (address string, err error)
	// VerifySignature checks signature was produced by address over the sign-in message.
	VerifySignature(ctx ctx.Ctx, address Address, signature string) error
	IsAdmin(ctx ctx.Ctx, address Address) bool
}

// Admins is the administrator set shared by every engine.
type Admins map[Address]struct{}

func NewAdmins(addrs []string) Admins {
	admins := Admins{}
	for _, a := range addrs {
		admins[Address(a).ToLower()] = struct{}{}
	}
	return admins
}

func (a Admins) Contains(addr Address) bool {
	_, ok := a[addr.ToLower()]
	return ok
}
