package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarancss/jbx/lib/store"
)

func TestCommitAndLoad(t *testing.T) {
	ctx := context.Background()
	m := New()

	var p store.Project
	require.ErrorIs(t, m.Load(ctx, store.KindProject, "2-7", &p), store.ErrNotFound)

	cs := store.NewChangeset()
	cs.Put(store.KindProject, "2-7", store.Project{ID: "2-7", PV: "2", ProjectID: 7, CurrentBalance: store.IntFrom(10)})
	cs.Put(store.KindProject, "2-7", store.Project{ID: "2-7", PV: "2", ProjectID: 7, CurrentBalance: store.IntFrom(60)})
	require.Equal(t, 1, cs.Len(), "a later put replaces the earlier one")
	require.NoError(t, m.Commit(ctx, cs))

	require.NoError(t, m.Load(ctx, store.KindProject, "2-7", &p))
	assert.Equal(t, "60", p.CurrentBalance.String())
	assert.Equal(t, 1, m.Count(store.KindProject))
	assert.Equal(t, []string{"2-7"}, m.Keys(store.KindProject))

	// loads are copies
	p.CurrentBalance = store.IntFrom(0)

	var again store.Project
	require.NoError(t, m.Load(ctx, store.KindProject, "2-7", &again))
	assert.Equal(t, "60", again.CurrentBalance.String())
}

func TestCommitEmpty(t *testing.T) {
	assert.ErrorIs(t, New().Commit(context.Background(), store.NewChangeset()), store.ErrEmptyCommit)
}

func TestCommitIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	m := New()

	cs := store.NewChangeset()
	cs.Put(store.KindProject, "1-1", store.Project{ID: "1-1"})
	cs.Put(store.KindPayEvent, "bad", make(chan int)) // not encodable

	require.Error(t, m.Commit(ctx, cs))
	assert.Equal(t, 0, m.Count(store.KindProject))
}

func TestDrop(t *testing.T) {
	ctx := context.Background()
	m := New()

	cs := store.NewChangeset()
	cs.Put(store.KindProject, "1-1", store.Project{ID: "1-1"})
	require.NoError(t, m.Commit(ctx, cs))

	require.NoError(t, m.Drop(ctx))
	assert.Empty(t, m.Dump())
	assert.ErrorIs(t, m.Load(ctx, store.KindProject, "1-1", &store.Project{}), store.ErrNotFound)
}
