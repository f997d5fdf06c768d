package compound

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/service/cache/provider"
	"github.com/x-xyz/marketplace/service/cache/provider/primitive"
	"github.com/x-xyz/marketplace/service/cache/provider/redis"
	redisService "github.com/x-xyz/marketplace/service/redis"
	mockRedis "github.com/x-xyz/marketplace/service/redis/mocks"
)

var (
	mockCtx = ctx.Background()
)

type testsuite struct {
	suite.Suite
	local  provider.Provider
	shared *mockRedis.Service
	im     provider.Provider
}

func (ts *testsuite) SetupTest() {
	ts.local = primitive.NewPrimitive("local", 1)
	ts.shared = &mockRedis.Service{}
	ts.im = NewCompound([]provider.Provider{ts.local, redis.NewRedis(ts.shared)})
}

func (ts *testsuite) TearDownTest() {
	ts.shared.AssertExpectations(ts.T())
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestSetWritesAllLayers() {
	ts.shared.On("Set", mockCtx, "k", []byte("v"), time.Minute).Return(nil).Once()
	ts.NoError(ts.im.Set(mockCtx, "k", []byte("v"), time.Minute))

	v, _, err := ts.local.Get(mockCtx, "k")
	ts.NoError(err)
	ts.Equal([]byte("v"), v)
}

func (ts *testsuite) TestGetFromNearestLayer() {
	ts.NoError(ts.local.Set(mockCtx, "k", []byte("v"), time.Minute))

	v, _, err := ts.im.Get(mockCtx, "k")
	ts.NoError(err)
	ts.Equal([]byte("v"), v)
}

func (ts *testsuite) TestGetBackfills() {
	ts.shared.On("Get", mockCtx, "k").Return([]byte("v"), nil).Once()
	ts.shared.On("TTL", mockCtx, "k").Return(30*time.Second, nil).Once()

	v, ttl, err := ts.im.Get(mockCtx, "k")
	ts.NoError(err)
	ts.Equal([]byte("v"), v)
	ts.Equal(30*time.Second, ttl)

	// served locally without another redis call
	v, ttl, err = ts.im.Get(mockCtx, "k")
	ts.NoError(err)
	ts.Equal([]byte("v"), v)
	ts.True(ttl > 0 && ttl <= 30*time.Second)
}

func (ts *testsuite) TestGetMissing() {
	ts.shared.On("Get", mockCtx, "k").Return(nil, redisService.ErrNotFound).Once()
	_, _, err := ts.im.Get(mockCtx, "k")
	ts.Equal(provider.ErrNotFound, err)
}

func (ts *testsuite) TestGetError() {
	boom := errors.New("boom")
	ts.shared.On("Get", mockCtx, "k").Return(nil, boom).Once()
	_, _, err := ts.im.Get(mockCtx, "k")
	ts.Equal(boom, err)
}

func (ts *testsuite) TestDel() {
	ts.NoError(ts.local.Set(mockCtx, "k", []byte("v"), time.Minute))
	ts.shared.On("Del", mockCtx, "k").Return(1, nil).Once()
	ts.NoError(ts.im.Del(mockCtx, "k"))

	_, _, err := ts.local.Get(mockCtx, "k")
	ts.Equal(provider.ErrNotFound, err)
}
