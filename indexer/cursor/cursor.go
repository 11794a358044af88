// Package cursor keeps the position of the last event the indexer processed and whether the indexer should keep
// consuming.
package cursor

import (
	"context"
	"errors"
	"sync"

	"github.com/tarancss/jbx/lib/store"
)

// Status possible values, control whether the indexer is working or is/has to stop.
const (
	WORK int = 0
	STOP int = 1
)

// Cursor is the in-memory view of the persisted checkpoint.
type Cursor struct {
	l       sync.Mutex
	status  int
	started bool // false until the first event is processed
	ck      store.Checkpoint
}

// New loads the checkpoint from the store. A store without checkpoint starts from genesis.
func New(ctx context.Context, db store.Loader) (*Cursor, error) {
	c := &Cursor{status: WORK, ck: store.Checkpoint{ID: store.CheckpointKey}}

	err := db.Load(ctx, store.KindCheckpoint, store.CheckpointKey, &c.ck)

	switch {
	case errors.Is(err, store.ErrNotFound):
		return c, nil
	case err != nil:
		return nil, err
	}

	c.started = true

	return c, nil
}

// Seen reports whether the event at block/logIndex is at or before the checkpoint.
func (c *Cursor) Seen(block, logIndex uint64) bool {
	c.l.Lock()
	defer c.l.Unlock()

	if !c.started {
		return false
	}

	return block < c.ck.Block || (block == c.ck.Block && logIndex <= c.ck.LogIndex)
}

// Next returns the checkpoint to persist once the event at block/logIndex is processed. The cursor itself moves
// only on Advance, after the checkpoint was committed.
func (c *Cursor) Next(block, logIndex uint64) store.Checkpoint {
	c.l.Lock()
	defer c.l.Unlock()

	return store.Checkpoint{ID: store.CheckpointKey, Block: block, LogIndex: logIndex, Processed: c.ck.Processed + 1}
}

// Advance moves the cursor to a committed checkpoint.
func (c *Cursor) Advance(ck store.Checkpoint) {
	c.l.Lock()
	c.ck = ck
	c.started = true
	c.l.Unlock()
}

// Checkpoint returns the current checkpoint.
func (c *Cursor) Checkpoint() store.Checkpoint {
	c.l.Lock()
	defer c.l.Unlock()

	return c.ck
}

// Stop sets status to STOP.
func (c *Cursor) Stop() {
	c.l.Lock()
	c.status = STOP
	c.l.Unlock()
}

// Status returns the current status.
func (c *Cursor) Status() int {
	c.l.Lock()
	defer c.l.Unlock()

	return c.status
}
