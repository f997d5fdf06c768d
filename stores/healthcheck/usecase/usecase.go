package usecase

import (
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	hcdomain "github.com/x-xyz/marketplace/domain/healthcheck"
	"github.com/x-xyz/marketplace/domain/registry"
)

type HealthCheckUseCaseCfg struct {
	Repo     hcdomain.HealthCheckRepo
	Registry registry.AddressRegistry
	// Roles must resolve to a bound service for the deployment to be healthy.
	Roles []registry.Role
}

type impl struct {
	repo     hcdomain.HealthCheckRepo
	registry registry.AddressRegistry
	roles    []registry.Role
}

func New(cfg *HealthCheckUseCaseCfg) hcdomain.HealthCheckUsecase {
	return &impl{
		repo:     cfg.Repo,
		registry: cfg.Registry,
		roles:    cfg.Roles,
	}
}

func (im *impl) Check(context ctx.Ctx) error {
	if err := im.repo.PingDB(context); err != nil {
		return err
	}
	for _, role := range im.roles {
		addr, err := im.registry.AddressOf(context, role)
		if err != nil {
			context.WithFields(log.Fields{"err": err, "role": role}).Error("registry.AddressOf failed")
			return err
		}
		if _, err := im.registry.Lookup(addr); err != nil {
			context.WithFields(log.Fields{"err": err, "role": role, "address": addr}).Error("registry.Lookup failed")
			return err
		}
	}
	return nil
}
