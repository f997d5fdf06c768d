// Package oracle holds in-process price sources.
package oracle

import (
	"math/big"
	"sync"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
)

// Static answers a configured price until told otherwise.
type Static struct {
	address  domain.Address
	decimals int32
	mu       sync.RWMutex
	answer   *big.Int
}

func NewStatic(address domain.Address, decimals int32, answer *big.Int) *Static {
	return &Static{
		address:  address.ToLower(),
		decimals: decimals,
		answer:   domain.CopyBig(answer),
	}
}

func (s *Static) Address() domain.Address {
	return s.address
}

func (s *Static) Decimals() int32 {
	return s.decimals
}

func (s *Static) LatestAnswer(c ctx.Ctx) (*big.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.answer == nil {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(s.answer), nil
}

func (s *Static) SetAnswer(answer *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answer = domain.CopyBig(answer)
}
