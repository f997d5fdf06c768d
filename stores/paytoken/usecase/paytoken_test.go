package usecase

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/event"
	mockEvent "github.com/x-xyz/marketplace/domain/event/mocks"
)

var (
	mockCtx = ctx.Background()
	self    = domain.Address("0x0000000000000000000000000000000000000002")
	admin   = domain.Address("0x00000000000000000000000000000000000000ad")
	token   = domain.Address("0x00000000000000000000000000000000000000FF")
)

type testsuite struct {
	suite.Suite
	emitter *mockEvent.Emitter
	subject domain.TokenRegistry
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.emitter = &mockEvent.Emitter{}
	t.subject = New(&PayTokenUseCaseCfg{
		Address: self,
		Admins:  domain.NewAdmins([]string{string(admin)}),
		Emitter: t.emitter,
	})
}

func (t *testsuite) TestAddRemove() {
	t.ErrorIs(t.subject.Add(mockCtx, token, token), domain.ErrUnauthorized)
	t.False(t.subject.Enabled(mockCtx, token))

	t.emitter.On("Emit", mockCtx, self, event.TokenAdded, event.TokenPayload{Token: token.ToLower()}).Return().Once()
	t.NoError(t.subject.Add(mockCtx, admin, token))
	t.True(t.subject.Enabled(mockCtx, token))
	t.True(t.subject.Enabled(mockCtx, token.ToLower()))

	t.ErrorIs(t.subject.Add(mockCtx, admin, token), domain.ErrInvalidParameters)

	tokens, err := t.subject.FindAll(mockCtx)
	t.NoError(err)
	t.Equal([]domain.Address{token.ToLower()}, tokens)

	t.ErrorIs(t.subject.Remove(mockCtx, token, token), domain.ErrUnauthorized)

	t.emitter.On("Emit", mockCtx, self, event.TokenRemoved, event.TokenPayload{Token: token.ToLower()}).Return().Once()
	t.NoError(t.subject.Remove(mockCtx, admin, token))
	t.False(t.subject.Enabled(mockCtx, token))

	t.ErrorIs(t.subject.Remove(mockCtx, admin, token), domain.ErrInvalidParameters)
	t.emitter.AssertExpectations(t.T())
}
