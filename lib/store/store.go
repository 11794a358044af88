// Package store defines the interface for entity store implementations used by the indexer. The indexer only ever
// loads whole entities by key and commits whole entities by key; all writes caused by one event travel together in
// a Changeset so that a backend either applies every one of them or none.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// DB defines the methods required from a backing store.
type DB interface {
	// Load decodes the entity of the given kind and key into v, or returns ErrNotFound.
	Load(ctx context.Context, kind Kind, key string, v interface{}) error
	// Commit applies every write of the changeset atomically.
	Commit(ctx context.Context, cs *Changeset) error
	// Close releases the connection. Must be called at termination time.
	Close() error
}

// Dropper is implemented by stores that can delete every entity, checkpoint included.
type Dropper interface {
	Drop(ctx context.Context) error
}

// Loader is the read half of DB.
type Loader interface {
	Load(ctx context.Context, kind Kind, key string, v interface{}) error
}

// Errors returned.
var (
	ErrNotFound    = errors.New("entity was not found in store")
	ErrEmptyCommit = errors.New("changeset has no writes")
)

// Write is a whole-entity upsert.
type Write struct {
	Kind Kind
	Key  string
	Doc  interface{}
}

// Changeset collects the writes caused by processing one event. A later Put for the same kind and key replaces the
// earlier one, so the changeset always holds the final snapshot of every touched entity.
type Changeset struct {
	writes []Write
	index  map[string]int
}

// NewChangeset returns an empty changeset.
func NewChangeset() *Changeset {
	return &Changeset{index: make(map[string]int)}
}

// Put stages the upsert of doc under kind and key.
func (c *Changeset) Put(kind Kind, key string, doc interface{}) {
	id := string(kind) + "/" + key
	if i, ok := c.index[id]; ok {
		c.writes[i].Doc = doc

		return
	}

	c.index[id] = len(c.writes)
	c.writes = append(c.writes, Write{Kind: kind, Key: key, Doc: doc})
}

// Get returns the staged document for kind and key.
func (c *Changeset) Get(kind Kind, key string) (interface{}, bool) {
	i, ok := c.index[string(kind)+"/"+key]
	if !ok {
		return nil, false
	}

	return c.writes[i].Doc, true
}

// Writes returns the staged writes in the order they were first staged.
func (c *Changeset) Writes() []Write {
	return c.writes
}

// Len returns the number of staged writes.
func (c *Changeset) Len() int {
	return len(c.writes)
}

// Kinds returns the number of staged writes per kind.
func (c *Changeset) Kinds() map[Kind]int {
	m := make(map[Kind]int)
	for _, w := range c.writes {
		m[w.Kind]++
	}

	return m
}

// Encode returns the persisted form of an entity.
func Encode(doc interface{}) ([]byte, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("store: cannot encode %T: %w", doc, err)
	}

	return b, nil
}

// Decode loads the persisted form of an entity into v.
func Decode(b []byte, v interface{}) error {
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("store: cannot decode into %T: %w", v, err)
	}

	return nil
}
