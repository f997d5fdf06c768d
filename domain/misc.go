package domain

import (
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var (
	Big0     = big.NewInt(0)
	Big1     = big.NewInt(1)
	Big10000 = big.NewInt(10000)
)

// MaxBps is the denominator of every basis-point percentage.
const MaxBps = 10000

type ChainId int32

type Address string

const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

// IsEmpty reports both the empty string and the zero address.
func (a Address) IsEmpty() bool {
	return len(a) == 0 || a.Equals(EmptyAddress)
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

func (a Address) IsValid() bool {
	return common.IsHexAddress(string(a))
}

func (a Address) ToCommon() common.Address {
	return common.HexToAddress(string(a))
}

func AddressFromCommon(addr common.Address) Address {
	return Address(addr.Hex()).ToLower()
}

type TokenId string

func (i TokenId) String() string {
	return string(i)
}

func (i TokenId) ToBigInt() (*big.Int, error) {
	id, ok := new(big.Int).SetString(i.String(), 10)
	if !ok {
		return nil, ErrInvalidNumberFormat
	}
	return id, nil
}

// ItemKey identifies one item inside one collection.
type ItemKey struct {
	Nft     Address
	TokenId TokenId
}

func NewItemKey(nft Address, tokenId TokenId) ItemKey {
	return ItemKey{Nft: nft.ToLower(), TokenId: tokenId}
}

func (k ItemKey) String() string {
	return string(k.Nft) + ":" + string(k.TokenId)
}

func ToBigInt(nums []string) ([]*big.Int, error) {
	var bns []*big.Int
	for _, n := range nums {
		bn, ok := new(big.Int).SetString(n, 10)
		if !ok {
			return nil, ErrInvalidNumberFormat
		}
		bns = append(bns, bn)
	}
	return bns, nil
}

// CopyBig returns an independent copy of v; nil stays nil.
func CopyBig(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

// IsPositive reports v > 0, treating nil as zero.
func IsPositive(v *big.Int) bool {
	return v != nil && v.Sign() > 0
}

// Clock returns the current time. Engines take one so tests can move time.
type Clock func() time.Time
