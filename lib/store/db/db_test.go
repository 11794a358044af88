package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m, err := New(MEMORY, "")
	require.NoError(t, err)
	assert.NoError(t, m.Close())

	s, err := New(SQLITE, filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	assert.NoError(t, s.Close())

	_, err = New("oracle", "")
	assert.Error(t, err)
}
