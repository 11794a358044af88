package indexer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tarancss/jbx/lib/event"
)

// readCollection reads the collection of a delegate as of block. Name and symbol are required: if either reverts
// the collection is abandoned. Tier reads may revert on non-tiered delegates; the collection is then kept without
// tiers.
func (x *Indexer) readCollection(
	ctx context.Context, log zerolog.Logger, block uint64, delegate string,
) (*event.Collection, error) {
	if x.chain == nil {
		return nil, fmt.Errorf("%w: no chain client", ErrCollectionAbandoned)
	}

	name := x.chain.Name(ctx, delegate, block)
	if name.Reverted {
		x.m.Reverts.WithLabelValues("name").Inc()

		return nil, fmt.Errorf("%w: name() reverted: %v", ErrCollectionAbandoned, name.Err) //nolint:errorlint
	}

	symbol := x.chain.Symbol(ctx, delegate, block)
	if symbol.Reverted {
		x.m.Reverts.WithLabelValues("symbol").Inc()

		return nil, fmt.Errorf("%w: symbol() reverted: %v", ErrCollectionAbandoned, symbol.Err) //nolint:errorlint
	}

	if x.tierStore == "" {
		return nil, fmt.Errorf("%w: missing tiered 721 delegate store address", ErrCollectionAbandoned)
	}

	c := &event.Collection{Name: name.Value, Symbol: symbol.Value}

	// a reverted maxTierIdOf leaves no size to list tiers with
	maxID := x.chain.MaxTierIDOf(ctx, x.tierStore, delegate, block)
	if maxID.Reverted {
		x.m.Reverts.WithLabelValues("maxTierIdOf").Inc()
		log.Error().Err(maxID.Err).Str("delegate", delegate).Msg("maxTierIdOf() reverted")

		return c, nil
	}

	if maxID.Value == nil || maxID.Value.Sign() == 0 {
		return c, nil
	}

	tiers := x.chain.TiersOf(ctx, x.tierStore, delegate, maxID.Value, block)
	if tiers.Reverted {
		x.m.Reverts.WithLabelValues("tiersOf").Inc()
		log.Error().Err(tiers.Err).Str("delegate", delegate).Msg("tiersOf() reverted")

		return c, nil
	}

	c.Tiers = tiers.Value

	return c, nil
}
