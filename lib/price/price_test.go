package price

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	c := Fixed{R: decimal.RequireFromString("2.0")}.Rate(0).Convert(big.NewInt(100))
	ref, ok := c.Ref()
	require.True(t, ok)
	assert.Equal(t, "200", ref.String())
	assert.Equal(t, "100", c.Amount().String())

	c = Fixed{R: decimal.RequireFromString("0.5")}.Rate(0).Convert(big.NewInt(3))
	assert.Equal(t, "1", c.RefOrNil().String(), "truncated toward zero")

	c = None{}.Rate(0).Convert(big.NewInt(100))
	_, ok = c.Ref()
	assert.False(t, ok)
	assert.Nil(t, c.RefOrNil())
	assert.Equal(t, "100", c.Amount().String())

	c = Unavailable().Convert(nil)
	assert.Equal(t, "0", c.Amount().String())
}

func TestTable(t *testing.T) {
	tbl, err := NewTable([]Point{
		{Timestamp: 2000, Rate: "3"},
		{Timestamp: 1000, Rate: "2"},
	}, time.Hour)
	require.NoError(t, err)

	for _, tc := range []struct {
		ts   int64
		want string
	}{
		{999, ""},
		{1000, "2"},
		{1999, "2"},
		{2000, "3"},
		{2000 + 3600, "3"},
		{2000 + 3601, ""},
	} {
		r, ok := tbl.Rate(tc.ts).Value()
		if tc.want == "" {
			assert.Falsef(t, ok, "ts %d", tc.ts)

			continue
		}

		require.Truef(t, ok, "ts %d", tc.ts)
		assert.Truef(t, r.Equal(decimal.RequireFromString(tc.want)), "ts %d rate %s", tc.ts, r)
	}

	_, err = NewTable(nil, 0)
	assert.ErrorIs(t, err, ErrNoPoints)

	_, err = NewTable([]Point{{Timestamp: 1, Rate: "x"}}, 0)
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "rates.json")
	require.NoError(t, os.WriteFile(fn, []byte(`[{"timestamp":10,"rate":"1500.25"}]`), 0o600))

	tbl, err := Load(fn, 0)
	require.NoError(t, err)
	assert.True(t, tbl.Rate(1e9).Available(), "zero max age accepts any age")
	assert.False(t, tbl.Rate(9).Available())

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"), 0)
	assert.Error(t, err)
}
