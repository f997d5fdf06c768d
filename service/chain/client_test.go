package chain

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	bAbi "github.com/x-xyz/marketplace/base/abi"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
)

var (
	mockCtx = ctx.Background()
	feed    = common.HexToAddress("0x5f4eC3Df9cbd43714FE2740f5E3616155c5b8419")
)

type fakeCaller struct {
	calls []ethereum.CallMsg
	blks  []*big.Int
	res   []byte
	err   error
}

func (f *fakeCaller) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x1}, nil
}

func (f *fakeCaller) CallContract(_ context.Context, msg ethereum.CallMsg, blk *big.Int) ([]byte, error) {
	f.calls = append(f.calls, msg)
	f.blks = append(f.blks, blk)
	return f.res, f.err
}

type testsuite struct {
	suite.Suite
	latest  *fakeCaller
	archive *fakeCaller
	client  Client
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	out, err := bAbi.ChainlinkFeedABI.Methods["latestAnswer"].Outputs.Pack(big.NewInt(200000000000))
	t.Require().NoError(err)
	t.latest = &fakeCaller{res: out}
	t.archive = &fakeCaller{res: out}
	t.client = newClient(
		map[int32]bind.ContractCaller{1: t.latest},
		map[int32]bind.ContractCaller{1: t.archive},
	)
}

func (t *testsuite) TestCallLatest() {
	res, err := t.client.Call(mockCtx, 1, feed, nil, bAbi.ChainlinkFeedABI, "latestAnswer")
	t.NoError(err)
	t.Require().Len(res, 1)
	t.Equal(0, big.NewInt(200000000000).Cmp(res[0].(*big.Int)))

	t.Require().Len(t.latest.calls, 1)
	t.Equal(feed, *t.latest.calls[0].To)
	t.Equal(bAbi.ChainlinkFeedABI.Methods["latestAnswer"].ID, t.latest.calls[0].Data)
	t.Len(t.archive.calls, 0)
}

func (t *testsuite) TestCallAtBlockUsesArchive() {
	_, err := t.client.Call(mockCtx, 1, feed, big.NewInt(15000000), bAbi.ChainlinkFeedABI, "latestAnswer")
	t.NoError(err)
	t.Len(t.latest.calls, 0)
	t.Require().Len(t.archive.blks, 1)
	t.Equal(big.NewInt(15000000), t.archive.blks[0])
}

func (t *testsuite) TestUnsupportedChain() {
	_, err := t.client.Call(mockCtx, 5, feed, nil, bAbi.ChainlinkFeedABI, "latestAnswer")
	t.ErrorIs(err, domain.ErrDependencyUnresolved)
}

func (t *testsuite) TestUnknownMethod() {
	_, err := t.client.Call(mockCtx, 1, feed, nil, bAbi.ChainlinkFeedABI, "balanceOf")
	t.Error(err)
	t.Len(t.latest.calls, 0)
}

func (t *testsuite) TestCallFailed() {
	t.latest.err = errors.New("execution reverted")
	_, err := t.client.Call(mockCtx, 1, feed, nil, bAbi.ChainlinkFeedABI, "latestAnswer")
	t.EqualError(err, "execution reverted")
}

func (t *testsuite) TestNewClientWithoutUrls() {
	c, err := NewClient(mockCtx, &ClientCfg{})
	t.NoError(err)
	_, err = c.Call(mockCtx, 1, feed, nil, bAbi.ChainlinkFeedABI, "latestAnswer")
	t.ErrorIs(err, domain.ErrDependencyUnresolved)
}
