package chainlink

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/pricefeed"
	"github.com/x-xyz/marketplace/service/chain/mocks"
)

var (
	mockCTX = ctx.Background()
	ethFeed = domain.Address("0x5f4eC3Df9cbd43714FE2740f5E3616155c5b8419")
)

type testsuite struct {
	suite.Suite
	chainClient *mocks.Client
	oracle      pricefeed.Oracle
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.chainClient = &mocks.Client{}
	t.oracle = New(t.chainClient, Config{ChainId: 1, Address: ethFeed, Decimals: 8})
}

func (t *testsuite) TearDownTest() {
	t.chainClient.AssertExpectations(t.T())
}

func (t *testsuite) TestLatestAnswerIsCached() {
	t.chainClient.On("Call", mockCTX, int32(1), ethFeed.ToCommon(), (*big.Int)(nil), mock.Anything, "latestAnswer").
		Return([]interface{}{big.NewInt(334915000000)}, nil).Once()

	answer, err := t.oracle.LatestAnswer(mockCTX)
	t.NoError(err)
	t.Equal(big.NewInt(334915000000), answer)

	answer, err = t.oracle.LatestAnswer(mockCTX)
	t.NoError(err)
	t.Equal(big.NewInt(334915000000), answer)

	t.Equal(ethFeed.ToLower(), t.oracle.Address())
	t.Equal(int32(8), t.oracle.Decimals())
}

func (t *testsuite) TestLatestAnswerFailure() {
	t.chainClient.On("Call", mockCTX, int32(1), ethFeed.ToCommon(), (*big.Int)(nil), mock.Anything, "latestAnswer").
		Return(nil, errors.New("connection refused")).Once()

	_, err := t.oracle.LatestAnswer(mockCTX)
	t.ErrorIs(err, domain.ErrDependencyUnresolved)
}

func (t *testsuite) TestFetchDecimals() {
	t.chainClient.On("Call", mockCTX, int32(1), ethFeed.ToCommon(), (*big.Int)(nil), mock.Anything, "decimals").
		Return([]interface{}{uint8(8)}, nil).Once()

	decimals, err := FetchDecimals(mockCTX, t.chainClient, 1, ethFeed)
	t.NoError(err)
	t.Equal(int32(8), decimals)
}
