// Package memory implements the store interface in process memory. It backs replays that do not need persistence
// and the tests of the packages above the store.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tarancss/jbx/lib/store"
)

// Memory keeps every entity in its encoded form, so a Load always returns a fresh copy.
type Memory struct {
	l    sync.RWMutex
	docs map[store.Kind]map[string][]byte
}

// New returns an empty memory store.
func New() *Memory {
	return &Memory{docs: make(map[store.Kind]map[string][]byte)}
}

// Load decodes the entity of the given kind and key into v.
func (m *Memory) Load(_ context.Context, kind store.Kind, key string, v interface{}) error {
	m.l.RLock()
	b, ok := m.docs[kind][key]
	m.l.RUnlock()

	if !ok {
		return store.ErrNotFound
	}

	return store.Decode(b, v)
}

// Commit encodes every write first and only then applies them, so an encoding failure leaves the store untouched.
func (m *Memory) Commit(_ context.Context, cs *store.Changeset) error {
	if cs == nil || cs.Len() == 0 {
		return store.ErrEmptyCommit
	}

	enc := make([][]byte, 0, cs.Len())

	for _, w := range cs.Writes() {
		b, err := store.Encode(w.Doc)
		if err != nil {
			return err
		}

		enc = append(enc, b)
	}

	m.l.Lock()
	defer m.l.Unlock()

	for i, w := range cs.Writes() {
		if m.docs[w.Kind] == nil {
			m.docs[w.Kind] = make(map[string][]byte)
		}

		m.docs[w.Kind][w.Key] = enc[i]
	}

	return nil
}

// Drop deletes every entity.
func (m *Memory) Drop(context.Context) error {
	m.l.Lock()
	m.docs = make(map[store.Kind]map[string][]byte)
	m.l.Unlock()

	return nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}

// Count returns the number of entities of a kind.
func (m *Memory) Count(kind store.Kind) int {
	m.l.RLock()
	defer m.l.RUnlock()

	return len(m.docs[kind])
}

// Keys returns the sorted keys of a kind.
func (m *Memory) Keys(kind store.Kind) []string {
	m.l.RLock()
	defer m.l.RUnlock()

	keys := make([]string, 0, len(m.docs[kind]))
	for k := range m.docs[kind] {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Dump returns a copy of every encoded entity keyed by "kind/key".
func (m *Memory) Dump() map[string]string {
	m.l.RLock()
	defer m.l.RUnlock()

	d := make(map[string]string)

	for kind, docs := range m.docs {
		for k, b := range docs {
			d[string(kind)+"/"+k] = string(b)
		}
	}

	return d
}
