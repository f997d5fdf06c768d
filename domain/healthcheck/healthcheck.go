package healthcheck

import (
	"github.com/x-xyz/marketplace/base/ctx"
)

// HealthCheckUsecase reports whether the stores are reachable and every
// required registry role resolves to a bound service.
type HealthCheckUsecase interface {
	Check(c ctx.Ctx) error
}

// HealthCheckRepo pings the optional backing stores.
type HealthCheckRepo interface {
	PingDB(c ctx.Ctx) error
}
