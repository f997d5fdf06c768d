package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/service/redis/mocks"
)

type repoSuite struct {
	suite.Suite
	redis *mocks.Service
}

func TestRepo(t *testing.T) {
	suite.Run(t, new(repoSuite))
}

func (s *repoSuite) SetupTest() {
	s.redis = &mocks.Service{}
}

func (s *repoSuite) TearDownTest() {
	s.redis.AssertExpectations(s.T())
}

func (s *repoSuite) TestPingWithoutStores() {
	s.NoError(New(nil, nil).PingDB(ctx.Background()))
}

func (s *repoSuite) TestPingRedis() {
	s.redis.On("Set", mock.Anything, "healthcheck:testset", []byte("1"), 30*time.Second).Return(nil).Once()
	s.NoError(New(nil, s.redis).PingDB(ctx.Background()))
}

func (s *repoSuite) TestPingRedisFailed() {
	errDown := errors.New("connection refused")
	s.redis.On("Set", mock.Anything, "healthcheck:testset", []byte("1"), 30*time.Second).Return(errDown).Once()
	s.ErrorIs(New(nil, s.redis).PingDB(ctx.Background()), errDown)
}
