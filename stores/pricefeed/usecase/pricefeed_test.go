package usecase

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	mockCurrency "github.com/x-xyz/marketplace/domain/currency/mocks"
	"github.com/x-xyz/marketplace/domain/event"
	mockEvent "github.com/x-xyz/marketplace/domain/event/mocks"
	mockDomain "github.com/x-xyz/marketplace/domain/mocks"
	"github.com/x-xyz/marketplace/domain/pricefeed"
	mockPricefeed "github.com/x-xyz/marketplace/domain/pricefeed/mocks"
	mockRegistry "github.com/x-xyz/marketplace/domain/registry/mocks"
)

var (
	mockCtx    = ctx.Background()
	self       = domain.Address("0x0000000000000000000000000000000000000004")
	admin      = domain.Address("0x00000000000000000000000000000000000000ad")
	token      = domain.Address("0x00000000000000000000000000000000000000ff")
	wrapped    = domain.Address("0x00000000000000000000000000000000000000ee")
	oracleAddr = domain.Address("0x00000000000000000000000000000000000000f1")
)

type testsuite struct {
	suite.Suite
	registry *mockRegistry.AddressRegistry
	tokens   *mockDomain.TokenRegistry
	oracle   *mockPricefeed.Oracle
	currency *mockCurrency.Currency
	emitter  *mockEvent.Emitter
	subject  pricefeed.PriceFeed
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.registry = &mockRegistry.AddressRegistry{}
	t.tokens = &mockDomain.TokenRegistry{}
	t.oracle = &mockPricefeed.Oracle{}
	t.currency = &mockCurrency.Currency{}
	t.emitter = &mockEvent.Emitter{}
	t.subject = New(&PriceFeedUseCaseCfg{
		Address:       self,
		Admins:        domain.NewAdmins([]string{string(admin)}),
		Registry:      t.registry,
		Emitter:       t.emitter,
		WrappedNative: wrapped,
	})

	t.registry.On("TokenRegistry", mockCtx).Return(t.tokens, nil)
	t.registry.On("Oracle", mockCtx, oracleAddr).Return(t.oracle, nil)
	t.oracle.On("Decimals").Return(int32(8))
}

func (t *testsuite) TestRegisterOracle() {
	t.ErrorIs(t.subject.RegisterOracle(mockCtx, token, token, oracleAddr), domain.ErrUnauthorized)

	t.tokens.On("Enabled", mockCtx, token).Return(false).Once()
	t.ErrorIs(t.subject.RegisterOracle(mockCtx, admin, token, oracleAddr), domain.ErrNotWhitelisted)

	t.tokens.On("Enabled", mockCtx, token).Return(true)
	t.emitter.On("Emit", mockCtx, self, event.OracleRegistered, event.OraclePayload{Token: token, Oracle: oracleAddr}).Return().Once()
	t.NoError(t.subject.RegisterOracle(mockCtx, admin, token, oracleAddr))

	t.ErrorIs(t.subject.RegisterOracle(mockCtx, admin, token, oracleAddr), domain.ErrInvalidParameters)

	records, err := t.subject.FindAll(mockCtx)
	t.NoError(err)
	t.Equal([]pricefeed.Record{{Token: token, Oracle: oracleAddr}}, records)
	t.emitter.AssertExpectations(t.T())
}

func (t *testsuite) TestUpdateOracle() {
	t.ErrorIs(t.subject.UpdateOracle(mockCtx, admin, token, oracleAddr), domain.ErrInvalidParameters)

	other := domain.Address("0x00000000000000000000000000000000000000f2")
	t.registry.On("Oracle", mockCtx, other).Return(nil, domain.ErrDependencyUnresolved)
	t.tokens.On("Enabled", mockCtx, token).Return(true)
	t.emitter.On("Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	t.Require().NoError(t.subject.RegisterOracle(mockCtx, admin, token, oracleAddr))

	t.ErrorIs(t.subject.UpdateOracle(mockCtx, admin, token, other), domain.ErrDependencyUnresolved)
	t.NoError(t.subject.UpdateOracle(mockCtx, admin, token, oracleAddr))
}

func (t *testsuite) TestGetPrice() {
	price, err := t.subject.GetPrice(mockCtx, token)
	t.NoError(err)
	t.Equal(big.NewInt(0), price.Answer)

	t.tokens.On("Enabled", mockCtx, wrapped).Return(true)
	t.emitter.On("Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	t.Require().NoError(t.subject.RegisterOracle(mockCtx, admin, wrapped, oracleAddr))
	t.oracle.On("LatestAnswer", mockCtx).Return(big.NewInt(150000000000), nil)

	// empty token quotes the wrapped native token
	price, err = t.subject.GetPrice(mockCtx, "")
	t.NoError(err)
	t.Equal(pricefeed.Price{Answer: big.NewInt(150000000000), Decimals: 8}, price)
	t.True(decimal.NewFromInt(1500).Equal(price.Value()))
}

func (t *testsuite) TestQuote() {
	t.tokens.On("Enabled", mockCtx, token).Return(true)
	t.emitter.On("Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	t.Require().NoError(t.subject.RegisterOracle(mockCtx, admin, token, oracleAddr))
	t.oracle.On("LatestAnswer", mockCtx).Return(big.NewInt(200000000), nil)
	t.registry.On("Currency", mockCtx, token).Return(t.currency, nil)
	t.currency.On("Decimals").Return(int32(18))

	// 2.5 tokens at $2
	amount, _ := new(big.Int).SetString("2500000000000000000", 10)
	val, err := t.subject.Quote(mockCtx, token, amount)
	t.NoError(err)
	t.True(decimal.NewFromInt(5).Equal(val), val.String())

	_, err = t.subject.Quote(mockCtx, token, big.NewInt(-1))
	t.ErrorIs(err, domain.ErrInvalidParameters)
}
