package primitive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/service/cache/provider"
)

var (
	mockCtx = ctx.Background()
)

type testsuite struct {
	suite.Suite
	im *impl
}

func (ts *testsuite) SetupTest() {
	ts.im = NewPrimitive("test", 1).(*impl)
}

func (ts *testsuite) TearDownTest() {
	ts.im.cache.Clear()
	timeNow = time.Now
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestSetAndExpire() {
	k, v := "oracle:1:0xfeed:latest", []byte("1700")

	ts.NoError(ts.im.Set(mockCtx, k, v, time.Second))
	r, ttl, err := ts.im.Get(mockCtx, k)
	ts.NoError(err)
	ts.Equal(v, r)
	ts.True(ttl > 0 && ttl <= time.Second)

	time.Sleep(1100 * time.Millisecond)
	_, _, err = ts.im.Get(mockCtx, k)
	ts.Equal(provider.ErrNotFound, err)
}

func (ts *testsuite) TestRemainingTtl() {
	ts.NoError(ts.im.Set(mockCtx, "k", []byte("v"), time.Minute))

	now := time.Now()
	timeNow = func() time.Time { return now.Add(20 * time.Second) }
	_, ttl, err := ts.im.Get(mockCtx, "k")
	ts.NoError(err)
	ts.True(ttl <= 41*time.Second && ttl >= 39*time.Second, ttl.String())
}

func (ts *testsuite) TestNoExpiry() {
	ts.NoError(ts.im.Set(mockCtx, "k", []byte("v"), 0))
	r, ttl, err := ts.im.Get(mockCtx, "k")
	ts.NoError(err)
	ts.Equal([]byte("v"), r)
	ts.Equal(time.Duration(0), ttl)
}

func (ts *testsuite) TestSubSecondTtlStillExpires() {
	ts.NoError(ts.im.Set(mockCtx, "k", []byte("v"), 200*time.Millisecond))
	_, ttl, err := ts.im.Get(mockCtx, "k")
	ts.NoError(err)
	ts.NotEqual(time.Duration(0), ttl)
}

func (ts *testsuite) TestGetMissing() {
	_, _, err := ts.im.Get(mockCtx, "missing")
	ts.Equal(provider.ErrNotFound, err)
}

func (ts *testsuite) TestDel() {
	ts.NoError(ts.im.Set(mockCtx, "k", []byte("v"), time.Minute))
	ts.NoError(ts.im.Del(mockCtx, "k"))
	_, _, err := ts.im.Get(mockCtx, "k")
	ts.Equal(provider.ErrNotFound, err)

	ts.NoError(ts.im.Del(mockCtx, "k"))
}
