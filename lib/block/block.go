// Package block defines the read-through gateway: synchronous view calls against chain contracts made while an
// event is being processed. Every call returns a types.Call that either holds a value or reports that the call
// reverted; a call is never retried.
package block

import (
	"context"
	"math/big"

	"github.com/tarancss/jbx/lib/block/ethereum"
	"github.com/tarancss/jbx/lib/block/types"
	"github.com/tarancss/jbx/lib/config"
)

// Chain is the set of view calls the indexer performs. Calls that take a block number read state as of that block.
type Chain interface {
	Close() error
	// Name and Symbol read the ERC721 metadata of a token contract.
	Name(ctx context.Context, token string, block uint64) types.Call[string]
	Symbol(ctx context.Context, token string, block uint64) types.Call[string]
	// MaxTierIDOf reads the highest tier id of a delegate from its tier store.
	MaxTierIDOf(ctx context.Context, tierStore, delegate string, block uint64) types.Call[*big.Int]
	// TiersOf lists the tiers of a delegate with ids in [1, size].
	TiersOf(ctx context.Context, tierStore, delegate string, size *big.Int, block uint64) types.Call[[]types.Tier]
}

// Init connects to the chain node given in the config.
func Init(conf config.ChainConfig) (Chain, error) {
	e, err := ethereum.Init(conf.Node, conf.Secret)
	if err != nil {
		return nil, err
	}

	return e, nil
}
