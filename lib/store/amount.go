package store

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// Int is an arbitrary precision integer persisted as a decimal string so totals survive every backend without
// precision loss. The zero value is 0. Int is immutable: arithmetic returns a new value.
type Int struct {
	i *big.Int
}

// NewInt returns an Int holding a copy of x. A nil x is 0.
func NewInt(x *big.Int) Int {
	if x == nil {
		return Int{}
	}

	return Int{i: new(big.Int).Set(x)}
}

// IntFrom returns an Int holding v.
func IntFrom(v int64) Int {
	return Int{i: big.NewInt(v)}
}

// IntPtr returns a pointer to NewInt(x), or nil when x is nil. Used for optional amounts.
func IntPtr(x *big.Int) *Int {
	if x == nil {
		return nil
	}

	v := NewInt(x)

	return &v
}

// Big returns a copy of the value.
func (a Int) Big() *big.Int {
	if a.i == nil {
		return new(big.Int)
	}

	return new(big.Int).Set(a.i)
}

// Add returns a+x.
func (a Int) Add(x *big.Int) Int {
	return Int{i: new(big.Int).Add(a.Big(), x)}
}

// Sub returns a-x.
func (a Int) Sub(x *big.Int) Int {
	return Int{i: new(big.Int).Sub(a.Big(), x)}
}

// Sign returns -1, 0 or +1.
func (a Int) Sign() int {
	if a.i == nil {
		return 0
	}

	return a.i.Sign()
}

// Cmp compares a and b.
func (a Int) Cmp(b Int) int {
	return a.Big().Cmp(b.Big())
}

func (a Int) String() string {
	if a.i == nil {
		return "0"
	}

	return a.i.String()
}

// MarshalJSON encodes the value as a quoted decimal string.
func (a Int) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts a quoted decimal string or a bare JSON number.
func (a *Int) UnmarshalJSON(b []byte) error {
	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	} else {
		s = string(b)
	}

	i, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return fmt.Errorf("store: invalid integer %q", s)
	}

	a.i = i

	return nil
}
