// Package chain reads contract state over json-rpc for the chain backed
// adapters, e.g. chainlink price oracles.
package chain

import (
	"errors"
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/xerrors"

	bCtx "github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/base/metrics"
	"github.com/x-xyz/marketplace/domain"
)

const callTimeout = 5 * time.Second

var (
	ErrUnsupportedChain = errors.New("unsupported chain")

	met = metrics.New("chain")
)

type ClientCfg struct {
	RpcUrls map[int32]string
	// ArchiveRpcUrls serve calls pinned to a past block
	ArchiveRpcUrls map[int32]string
}

type Client interface {
	// Call packs method with params, runs eth_call at blk (latest when nil) and unpacks the outputs.
	Call(bCtx.Ctx, int32, common.Address, *big.Int, abi.ABI, string, ...interface{}) ([]interface{}, error)
}

type clientImpl struct {
	callers        map[int32]bind.ContractCaller
	archiveCallers map[int32]bind.ContractCaller
}

// NewClient dials every configured rpc. Failed dials are skipped and the
// last error is returned along with a usable client.
func NewClient(ctx bCtx.Ctx, cfg *ClientCfg) (Client, error) {
	callers, err := dialAll(ctx, cfg.RpcUrls)
	archiveCallers, archiveErr := dialAll(ctx, cfg.ArchiveRpcUrls)
	if err == nil {
		err = archiveErr
	}
	return newClient(callers, archiveCallers), err
}

func newClient(callers, archiveCallers map[int32]bind.ContractCaller) Client {
	return &clientImpl{
		callers:        callers,
		archiveCallers: archiveCallers,
	}
}

func dialAll(ctx bCtx.Ctx, urls map[int32]string) (map[int32]bind.ContractCaller, error) {
	var anyerr error
	res := make(map[int32]bind.ContractCaller)
	for chainId, url := range urls {
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			anyerr = err
			ctx.WithFields(log.Fields{
				"err":     err,
				"chainId": chainId,
			}).Warn("failed to dial rpc")
			continue
		}
		res[chainId] = client
	}
	return res, anyerr
}

func (c *clientImpl) Call(ctx bCtx.Ctx, chainId int32, addr common.Address, blk *big.Int, _abi abi.ABI, method string, params ...interface{}) ([]interface{}, error) {
	callers := c.callers
	if blk != nil {
		callers = c.archiveCallers
	}
	caller, ok := callers[chainId]
	if !ok {
		return nil, xerrors.Errorf("%w: %v %d", domain.ErrDependencyUnresolved, ErrUnsupportedChain, chainId)
	}

	fields := log.Fields{"chainId": chainId, "to": addr.Hex(), "method": method}
	data, err := _abi.Pack(method, params...)
	if err != nil {
		fields["err"] = err
		ctx.WithFields(fields).Error("abi.Pack failed")
		return nil, err
	}

	defer met.BumpTime("call.time", "chain", strconv.Itoa(int(chainId)), "method", method).End()
	cc, cancel := bCtx.WithTimeout(ctx, callTimeout)
	defer cancel()
	res, err := caller.CallContract(cc, ethereum.CallMsg{To: &addr, Data: data}, blk)
	if err != nil {
		fields["err"] = err
		ctx.WithFields(fields).Error("CallContract failed")
		met.BumpSum("call.err", 1, "method", method)
		return nil, err
	}
	unpacked, err := _abi.Unpack(method, res)
	if err != nil {
		fields["err"] = err
		ctx.WithFields(fields).Error("abi.Unpack failed")
		return nil, err
	}
	return unpacked, nil
}
