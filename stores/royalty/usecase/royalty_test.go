package usecase

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	mockCollection "github.com/x-xyz/marketplace/domain/collection/mocks"
	mockEvent "github.com/x-xyz/marketplace/domain/event/mocks"
	mockRegistry "github.com/x-xyz/marketplace/domain/registry/mocks"
	"github.com/x-xyz/marketplace/domain/royalty"
)

var (
	mockCtx   = ctx.Background()
	self      = domain.Address("0x0000000000000000000000000000000000000003")
	admin     = domain.Address("0x00000000000000000000000000000000000000ad")
	creator   = domain.Address("0x00000000000000000000000000000000000000c1")
	stranger  = domain.Address("0x0000000000000000000000000000000000000bad")
	nft       = domain.Address("0x0000000000000000000000000000000000000c01")
	recipient = domain.Address("0x00000000000000000000000000000000000000e1")
)

type testsuite struct {
	suite.Suite
	registry   *mockRegistry.AddressRegistry
	collection *mockCollection.Collection
	emitter    *mockEvent.Emitter
	subject    royalty.Registry
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.registry = &mockRegistry.AddressRegistry{}
	t.collection = &mockCollection.Collection{}
	t.emitter = &mockEvent.Emitter{}
	t.emitter.On("Emit", mock.Anything, self, mock.Anything, mock.Anything).Return()
	t.subject = New(&RoyaltyUseCaseCfg{
		Address:  self,
		Admins:   domain.NewAdmins([]string{string(admin)}),
		Registry: t.registry,
		Emitter:  t.emitter,
	})
}

func (t *testsuite) TestItemOverridesDefault() {
	t.NoError(t.subject.SetDefaultRoyalty(mockCtx, admin, nft, recipient, 500))
	t.NoError(t.subject.SetRoyaltyForItem(mockCtx, admin, nft, "7", creator, 1000))

	rule, ok := t.subject.RoyaltyOf(mockCtx, nft, "7")
	t.True(ok)
	t.Equal(royalty.Rule{Collection: nft, TokenId: "7", Recipient: creator, Bps: 1000}, rule)

	rule, ok = t.subject.RoyaltyOf(mockCtx, nft, "8")
	t.True(ok)
	t.Equal(royalty.Rule{Collection: nft, Recipient: recipient, Bps: 500}, rule)

	_, ok = t.subject.RoyaltyOf(mockCtx, creator, "8")
	t.False(ok)
}

func (t *testsuite) TestCollectionOwnerMaySet() {
	t.registry.On("Collection", mockCtx, nft).Return(t.collection, nil)
	t.collection.On("Owner", mockCtx).Return(creator, nil)

	t.NoError(t.subject.SetDefaultRoyalty(mockCtx, creator, nft, creator, 250))
	t.ErrorIs(t.subject.SetDefaultRoyalty(mockCtx, stranger, nft, stranger, 250), domain.ErrUnauthorized)

	rule, ok := t.subject.RoyaltyOf(mockCtx, nft, "1")
	t.True(ok)
	t.Equal(creator, rule.Recipient)
}

func (t *testsuite) TestUnresolvedCollection() {
	t.registry.On("Collection", mockCtx, nft).Return(nil, domain.ErrDependencyUnresolved)
	t.ErrorIs(t.subject.SetDefaultRoyalty(mockCtx, creator, nft, creator, 250), domain.ErrDependencyUnresolved)
}

func (t *testsuite) TestInvalid() {
	t.ErrorIs(t.subject.SetDefaultRoyalty(mockCtx, admin, nft, recipient, 10001), domain.ErrInvalidParameters)
	t.ErrorIs(t.subject.SetDefaultRoyalty(mockCtx, admin, nft, "", 100), domain.ErrInvalidParameters)
	t.ErrorIs(t.subject.SetRoyaltyForItem(mockCtx, admin, nft, "", recipient, 100), domain.ErrInvalidParameters)
}

func (t *testsuite) TestZeroClears() {
	t.NoError(t.subject.SetDefaultRoyalty(mockCtx, admin, nft, recipient, 500))
	t.NoError(t.subject.SetDefaultRoyalty(mockCtx, admin, nft, recipient, 0))
	_, ok := t.subject.RoyaltyOf(mockCtx, nft, "1")
	t.False(ok)
}
