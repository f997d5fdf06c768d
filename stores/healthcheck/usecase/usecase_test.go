package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/healthcheck/mocks"
	"github.com/x-xyz/marketplace/domain/registry"
	registryUsecase "github.com/x-xyz/marketplace/stores/registry/usecase"
)

var (
	mockCtx     = ctx.Background()
	admin       = domain.Address("0x00000000000000000000000000000000000000ad")
	marketplace = domain.Address("0x0000000000000000000000000000000000000a01")
)

type testsuite struct {
	suite.Suite
	repo     *mocks.HealthCheckRepo
	registry registry.AddressRegistry
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.repo = &mocks.HealthCheckRepo{}
	t.registry = registryUsecase.New(&registryUsecase.RegistryUseCaseCfg{
		Admins: domain.NewAdmins([]string{string(admin)}),
	})
}

func (t *testsuite) TearDownTest() {
	t.repo.AssertExpectations(t.T())
}

func (t *testsuite) newUsecase() *impl {
	return New(&HealthCheckUseCaseCfg{
		Repo:     t.repo,
		Registry: t.registry,
		Roles:    []registry.Role{registry.RoleMarketplace},
	}).(*impl)
}

func (t *testsuite) TestHealthy() {
	t.repo.On("PingDB", mockCtx).Return(nil).Once()
	t.NoError(t.registry.Update(mockCtx, admin, registry.RoleMarketplace, marketplace))
	t.registry.Bind(marketplace, struct{}{})

	t.NoError(t.newUsecase().Check(mockCtx))
}

func (t *testsuite) TestStoreDown() {
	t.repo.On("PingDB", mockCtx).Return(errors.New("no reachable servers")).Once()

	t.Error(t.newUsecase().Check(mockCtx))
}

func (t *testsuite) TestRoleUnresolved() {
	t.repo.On("PingDB", mockCtx).Return(nil).Twice()
	subject := t.newUsecase()

	t.ErrorIs(subject.Check(mockCtx), domain.ErrDependencyUnresolved)

	t.NoError(t.registry.Update(mockCtx, admin, registry.RoleMarketplace, marketplace))
	t.ErrorIs(subject.Check(mockCtx), domain.ErrDependencyUnresolved)
}
