package price

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNoPoints is returned when a rate table has no points.
var ErrNoPoints = errors.New("price: rate table is empty")

// Point is a rate observed at a unix timestamp, as found in rate files.
type Point struct {
	Timestamp int64  `json:"timestamp"`
	Rate      string `json:"rate"`
}

type point struct {
	ts   int64
	rate decimal.Decimal
}

// Table is an oracle backed by a series of rate observations. The rate at a time is the latest observation at or
// before it; times before the first observation, or further than MaxAge past the latest one, have no rate.
type Table struct {
	pts    []point
	maxAge int64
}

// NewTable builds a table from points in any order. A zero maxAge accepts observations of any age.
func NewTable(points []Point, maxAge time.Duration) (*Table, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}

	t := &Table{pts: make([]point, 0, len(points)), maxAge: int64(maxAge / time.Second)}

	for _, p := range points {
		r, err := decimal.NewFromString(p.Rate)
		if err != nil {
			return nil, fmt.Errorf("price: bad rate %q at %d: %w", p.Rate, p.Timestamp, err)
		}

		t.pts = append(t.pts, point{ts: p.Timestamp, rate: r})
	}

	sort.SliceStable(t.pts, func(i, j int) bool { return t.pts[i].ts < t.pts[j].ts })

	return t, nil
}

// Load reads a JSON array of points from filename.
func Load(filename string, maxAge time.Duration) (*Table, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("price: cannot read rates file: %w", err)
	}

	var points []Point
	if err = json.Unmarshal(b, &points); err != nil {
		return nil, fmt.Errorf("price: cannot decode rates file %s: %w", filename, err)
	}

	return NewTable(points, maxAge)
}

// Rate returns the rate in force at ts.
func (t *Table) Rate(ts int64) Rate {
	// first observation after ts
	i := sort.Search(len(t.pts), func(i int) bool { return t.pts[i].ts > ts })
	if i == 0 {
		return Unavailable()
	}

	p := t.pts[i-1]
	if t.maxAge > 0 && ts-p.ts > t.maxAge {
		return Unavailable()
	}

	return NewRate(p.rate)
}
