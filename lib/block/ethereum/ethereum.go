// Package ethereum implements the read-through gateway for ethereum networks. Every view call is ABI encoded with
// go-ethereum and executed with eth_call at the block of the event being processed, so a replay reads the same
// state as the live run did. The ethcli JSON-RPC client checks the node on connection.
package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/tarancss/ethcli"

	"github.com/tarancss/jbx/lib/block/types"
)

// node is the part of ethcli used to check and release the node connection.
type node interface {
	GetLatestBlock() (uint64, error)
	End() error
}

// contractCaller executes eth_call.
type contractCaller interface {
	CallContract(ctx context.Context, msg geth.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Ethereum implements a connection to an ethereum-type chain.
type Ethereum struct {
	c     node
	ec    contractCaller
	store abi.ABI // tier store
	meta  abi.ABI // ERC721 metadata
}

// Init returns a connection to an ethereum node, using secret if necessary for authentication.
func Init(node, secret string) (*Ethereum, error) {
	c := ethcli.Init(node, secret)
	if c == nil {
		return nil, errors.New("cannot connect to ethereum blockchain in " + node)
	}

	// ethclient.Dial does not reach an http node, ask for the head to fail early
	if _, err := c.GetLatestBlock(); err != nil {
		_ = c.End()

		return nil, fmt.Errorf("ethereum node %s is not answering: %w", node, err)
	}

	ec, err := ethclient.Dial(node)
	if err != nil {
		_ = c.End()

		return nil, fmt.Errorf("cannot dial ethereum node %s: %w", node, err)
	}

	return newEthereum(c, ec)
}

func newEthereum(c node, ec contractCaller) (*Ethereum, error) {
	st, err := abi.JSON(strings.NewReader(TierStoreABI))
	if err != nil {
		return nil, fmt.Errorf("cannot parse tier store abi: %w", err)
	}

	meta, err := abi.JSON(strings.NewReader(MetadataABI))
	if err != nil {
		return nil, fmt.Errorf("cannot parse metadata abi: %w", err)
	}

	return &Ethereum{c: c, ec: ec, store: st, meta: meta}, nil
}

// Close ends a connection.
func (e *Ethereum) Close() error {
	if cl, ok := e.ec.(*ethclient.Client); ok {
		cl.Close()
	}

	return e.c.End()
}

// Name reads name() of token at block.
func (e *Ethereum) Name(ctx context.Context, token string, block uint64) types.Call[string] {
	return e.text(ctx, token, block, "name")
}

// Symbol reads symbol() of token at block.
func (e *Ethereum) Symbol(ctx context.Context, token string, block uint64) types.Call[string] {
	return e.text(ctx, token, block, "symbol")
}

func (e *Ethereum) text(ctx context.Context, token string, block uint64, method string) types.Call[string] {
	out, err := e.call(ctx, e.meta, token, block, method)
	if err != nil {
		return types.Revert[string](err)
	}

	v, ok := out[0].(string)
	if !ok {
		return types.Revert[string](fmt.Errorf("%w: %s returned %T", types.ErrBadResult, method, out[0]))
	}

	return types.Ok(v)
}

// MaxTierIDOf reads maxTierIdOf(delegate) from the tier store.
func (e *Ethereum) MaxTierIDOf(ctx context.Context, tierStore, delegate string, block uint64) types.Call[*big.Int] {
	out, err := e.call(ctx, e.store, tierStore, block, "maxTierIdOf", common.HexToAddress(delegate))
	if err != nil {
		return types.Revert[*big.Int](err)
	}

	maxID, ok := out[0].(*big.Int)
	if !ok {
		return types.Revert[*big.Int](fmt.Errorf("%w: maxTierIdOf returned %T", types.ErrBadResult, out[0]))
	}

	return types.Ok(maxID)
}

// TiersOf reads tiersOf(delegate, [], true, 1, size) from the tier store. An empty category list selects every
// category.
func (e *Ethereum) TiersOf(ctx context.Context, tierStore, delegate string, size *big.Int,
	block uint64) types.Call[[]types.Tier] {
	if size == nil {
		size = new(big.Int)
	}

	out, err := e.call(ctx, e.store, tierStore, block, "tiersOf", common.HexToAddress(delegate), []*big.Int{}, true,
		big.NewInt(1), size)
	if err != nil {
		return types.Revert[[]types.Tier](err)
	}

	tiers, err := convertTiers(out[0])
	if err != nil {
		return types.Revert[[]types.Tier](err)
	}

	return types.Ok(tiers)
}

// call packs and executes method of a against contract at block, returning the unpacked outputs.
func (e *Ethereum) call(ctx context.Context, a abi.ABI, contract string, block uint64, method string,
	args ...interface{}) ([]interface{}, error) {
	if contract == "" {
		return nil, types.ErrNoContract
	}

	data, err := a.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("cannot pack %s: %w", method, err)
	}

	to := common.HexToAddress(contract)

	res, err := e.ec.CallContract(ctx, geth.CallMsg{To: &to, Data: data}, new(big.Int).SetUint64(block))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrReverted, method, err) //nolint:errorlint // keep revert sentinel
	}

	out, err := a.Unpack(method, res)
	if err != nil {
		// an empty result means no code at the address or a silent revert
		return nil, fmt.Errorf("%w: cannot unpack %s: %v", types.ErrReverted, method, err) //nolint:errorlint
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s returned nothing", types.ErrBadResult, method)
	}

	return out, nil
}

// convertTiers converts the anonymous tuple slice produced by Unpack. abi.ConvertType panics on a shape mismatch.
func convertTiers(v interface{}) (tiers []types.Tier, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: tiersOf: %v", types.ErrBadResult, r)
		}
	}()

	p, ok := abi.ConvertType(v, new([]types.Tier)).(*[]types.Tier)
	if !ok {
		return nil, fmt.Errorf("%w: tiersOf returned %T", types.ErrBadResult, v)
	}

	return *p, nil
}
