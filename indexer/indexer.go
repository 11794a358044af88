// Package indexer implements the indexing service. The indexer consumes raw contract events strictly in delivery
// order, one at a time: it normalizes each event, performs the chain reads the event needs, aggregates it and
// commits every resulting write together with the new checkpoint. Events that cannot be indexed are logged and
// abandoned without stopping the stream; only a store failure stops the indexer.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/tarancss/jbx/indexer/cursor"
	"github.com/tarancss/jbx/lib/block"
	"github.com/tarancss/jbx/lib/event"
	"github.com/tarancss/jbx/lib/msg"
	"github.com/tarancss/jbx/lib/price"
	"github.com/tarancss/jbx/lib/store"
)

// Errors returned.
var (
	ErrCollectionAbandoned = errors.New("collection abandoned")
	ErrNoReset             = errors.New("indexer: store cannot be reset")
)

// Source delivers raw events. See msg.MsgBroker for the mutex handshake.
type Source interface {
	GetEvents(queue string, mut *sync.Mutex) (<-chan event.RawEvent, <-chan error, error)
}

// Indexer implements the indexing service.
type Indexer struct {
	log       zerolog.Logger
	db        store.DB
	chain     block.Chain
	reg       msg.Registrar
	norm      *event.Normalizer
	rates     price.Oracle
	tierStore string
	m         *Metrics
	cur       *cursor.Cursor
}

// New instantiates a new indexer service. tierStore is the address of the tiered 721 delegate store; without it, or
// with the zero address, no collection is created.
func New(
	log zerolog.Logger, db store.DB, chain block.Chain, reg msg.Registrar, rates price.Oracle, tierStore string,
	m *Metrics,
) *Indexer {
	if rates == nil {
		rates = price.None{}
	}

	if m == nil {
		m = NewMetrics(nil)
	}

	if !IsAddress(tierStore) {
		tierStore = ""
	}

	return &Indexer{
		log:       log.With().Str("component", "indexer").Logger(),
		db:        db,
		chain:     chain,
		reg:       reg,
		norm:      event.Default(),
		rates:     rates,
		tierStore: tierStore,
		m:         m,
	}
}

// IsAddress reports whether s is a configured contract address, that is a hex address other than the zero one.
func IsAddress(s string) bool {
	return common.IsHexAddress(s) && common.HexToAddress(s) != (common.Address{})
}

// Reset deletes every entity and the checkpoint, so that the next Start begins from genesis. It must be called
// before Start.
func (x *Indexer) Reset(ctx context.Context) error {
	d, ok := x.db.(store.Dropper)
	if !ok {
		return ErrNoReset
	}

	if err := d.Drop(ctx); err != nil {
		return fmt.Errorf("indexer: cannot reset store: %w", err)
	}

	x.log.Warn().Msg("store reset")

	return nil
}

// Start loads the checkpoint. It must be called before processing.
func (x *Indexer) Start(ctx context.Context) error {
	c, err := cursor.New(ctx, x.db)
	if err != nil {
		return fmt.Errorf("indexer: cannot load checkpoint: %w", err)
	}

	x.cur = c
	ck := c.Checkpoint()
	x.m.Checkpoint.Set(float64(ck.Block))
	x.log.Info().Uint64("block", ck.Block).Uint64("logIndex", ck.LogIndex).Uint64("processed", ck.Processed).
		Msg("starting from checkpoint")

	return nil
}

// Stop makes Run and Replay return after the event in progress.
func (x *Indexer) Stop() {
	if x.cur != nil {
		x.cur.Stop()
	}
}

// Checkpoint returns the last committed checkpoint.
func (x *Indexer) Checkpoint() store.Checkpoint {
	return x.cur.Checkpoint()
}

// Run consumes queue from src until ctx is done, the source closes or the indexer is stopped. A message is only
// acknowledged once its event is committed.
func (x *Indexer) Run(ctx context.Context, src Source, queue string) error {
	mut := new(sync.Mutex)
	mut.Lock()

	evCh, errCh, err := src.GetEvents(queue, mut)
	if err != nil {
		return fmt.Errorf("indexer: cannot get events: %w", err)
	}

	x.log.Info().Str("queue", queue).Msg("start listening to event channel")

	for x.cur.Status() == cursor.WORK {
		select {
		case <-ctx.Done():
			return nil
		case raw, ok := <-evCh:
			if !ok {
				x.log.Info().Msg("event channel closed")

				return nil
			}

			if err := x.Process(ctx, raw); err != nil {
				return err
			}

			mut.Unlock()
		case err := <-errCh:
			x.log.Error().Err(err).Msg("received error from event channel")
		}
	}

	return nil
}

// Replay processes every event of a JSON lines stream. Malformed lines are logged and skipped.
func (x *Indexer) Replay(ctx context.Context, r io.Reader) error {
	s := event.NewStream(r)

	for x.cur.Status() == cursor.WORK && ctx.Err() == nil {
		raw, err := s.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if errors.Is(err, event.ErrMalformedLine) {
			x.log.Error().Err(err).Msg("skipping malformed event")

			continue
		}

		if err != nil {
			return fmt.Errorf("indexer: cannot read events: %w", err)
		}

		if err = x.Process(ctx, raw); err != nil {
			return err
		}
	}

	return nil
}
