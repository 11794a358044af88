// Package types common chain read types.
package types

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Tier is a price tier of a tiered 721 delegate as returned by the delegate store's tiersOf. Field names follow the
// contract's tuple components so call results convert into it directly.
type Tier struct {
	Id                       *big.Int //nolint:revive,stylecheck // must match the ABI component name
	Price                    *big.Int
	RemainingQuantity        *big.Int
	InitialQuantity          *big.Int
	VotingUnits              *big.Int
	ReservedRate             *big.Int
	ReservedTokenBeneficiary common.Address
	EncodedIPFSUri           [32]byte
	Category                 *big.Int
	AllowManualMint          bool
	TransfersPausable        bool
	ResolvedUri              string //nolint:revive,stylecheck // must match the ABI component name
}

// Error codes.
var (
	ErrReverted   = errors.New("call reverted")
	ErrNoContract = errors.New("contract address not configured")
	ErrBadResult  = errors.New("call returned an unexpected result")
)

// Call is the outcome of one view call: a value, or a revert.
type Call[T any] struct {
	Value    T
	Reverted bool
	Err      error // cause of the revert, if known
}

// Ok returns a successful call result.
func Ok[T any](v T) Call[T] {
	return Call[T]{Value: v}
}

// Revert returns a reverted call result.
func Revert[T any](err error) Call[T] {
	if err == nil {
		err = ErrReverted
	}

	return Call[T]{Reverted: true, Err: err}
}
