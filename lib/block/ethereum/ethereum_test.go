package ethereum

import (
	"context"
	"errors"
	"math/big"
	"testing"

	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarancss/jbx/lib/block/types"
)

const (
	delegate  = "0x357dd3856d856197c1a000bbab4abcb97dfc92c4"
	tierStore = "0x7762440182222620a7435195208038708d27ee41"
)

type fakeNode struct {
	ended bool
	err   error
}

func (f *fakeNode) GetLatestBlock() (uint64, error) { return 100, nil }

func (f *fakeNode) End() error {
	f.ended = true

	return f.err
}

type fakeCaller struct {
	res   []byte
	err   error
	block *big.Int
	to    common.Address
}

func (f *fakeCaller) CallContract(_ context.Context, msg geth.CallMsg, block *big.Int) ([]byte, error) {
	f.block = block
	f.to = *msg.To

	return f.res, f.err
}

func TestNameSymbol(t *testing.T) {
	ctx := context.Background()
	fc := &fakeCaller{}
	e, err := newEthereum(&fakeNode{}, fc)
	require.NoError(t, err)

	fc.res, err = e.meta.Methods["name"].Outputs.Pack("Banny")
	require.NoError(t, err)
	assert.Equal(t, types.Ok("Banny"), e.Name(ctx, delegate, 77))
	assert.Equal(t, uint64(77), fc.block.Uint64(), "read at the event's block")
	assert.Equal(t, common.HexToAddress(delegate), fc.to)

	fc.res, err = e.meta.Methods["symbol"].Outputs.Pack("BAN")
	require.NoError(t, err)
	assert.Equal(t, types.Ok("BAN"), e.Symbol(ctx, delegate, 78))
	assert.Equal(t, uint64(78), fc.block.Uint64())

	// no code at the address yet
	fc.res = nil
	c := e.Name(ctx, delegate, 1)
	assert.True(t, c.Reverted)
	assert.ErrorIs(t, c.Err, types.ErrReverted)

	fc.err = errors.New("execution reverted")
	assert.True(t, e.Symbol(ctx, delegate, 1).Reverted)
}

func TestClose(t *testing.T) {
	n := &fakeNode{err: errors.New("already closed")}
	e, err := newEthereum(n, &fakeCaller{})
	require.NoError(t, err)

	assert.EqualError(t, e.Close(), "already closed")
	assert.True(t, n.ended)
}

func TestMaxTierIDOf(t *testing.T) {
	fc := &fakeCaller{}
	e, err := newEthereum(&fakeNode{}, fc)
	require.NoError(t, err)

	fc.res, err = e.store.Methods["maxTierIdOf"].Outputs.Pack(big.NewInt(3))
	require.NoError(t, err)

	c := e.MaxTierIDOf(context.Background(), tierStore, delegate, 1234)
	require.False(t, c.Reverted, "%v", c.Err)
	assert.Equal(t, "3", c.Value.String())
	assert.Equal(t, uint64(1234), fc.block.Uint64())
	assert.Equal(t, common.HexToAddress(tierStore), fc.to)

	// no code at the address
	fc.res = nil
	c = e.MaxTierIDOf(context.Background(), tierStore, delegate, 1234)
	assert.True(t, c.Reverted)
	assert.ErrorIs(t, c.Err, types.ErrReverted)

	fc.err = errors.New("execution reverted")
	assert.True(t, e.MaxTierIDOf(context.Background(), tierStore, delegate, 1).Reverted)

	c = e.MaxTierIDOf(context.Background(), "", delegate, 1)
	assert.ErrorIs(t, c.Err, types.ErrNoContract)
}

func TestTiersOf(t *testing.T) {
	fc := &fakeCaller{}
	e, err := newEthereum(&fakeNode{}, fc)
	require.NoError(t, err)

	want := []types.Tier{{
		Id:                       big.NewInt(1),
		Price:                    big.NewInt(1e16),
		RemainingQuantity:        big.NewInt(90),
		InitialQuantity:          big.NewInt(100),
		VotingUnits:              big.NewInt(0),
		ReservedRate:             big.NewInt(10),
		ReservedTokenBeneficiary: common.HexToAddress(delegate),
		EncodedIPFSUri:           [32]byte{1, 2, 3},
		Category:                 big.NewInt(2),
		AllowManualMint:          true,
		ResolvedUri:              "ipfs://x",
	}}

	fc.res, err = e.store.Methods["tiersOf"].Outputs.Pack(want)
	require.NoError(t, err)

	c := e.TiersOf(context.Background(), tierStore, delegate, big.NewInt(1), 99)
	require.False(t, c.Reverted, "%v", c.Err)
	require.Len(t, c.Value, 1)
	assert.Equal(t, "1", c.Value[0].Id.String())
	assert.Equal(t, "10000000000000000", c.Value[0].Price.String())
	assert.Equal(t, [32]byte{1, 2, 3}, c.Value[0].EncodedIPFSUri)
	assert.True(t, c.Value[0].AllowManualMint)
	assert.Equal(t, "ipfs://x", c.Value[0].ResolvedUri)

	fc.err = errors.New("execution reverted")
	assert.True(t, e.TiersOf(context.Background(), tierStore, delegate, nil, 99).Reverted)
}
