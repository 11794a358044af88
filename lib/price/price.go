// Package price converts base-currency amounts into the reference currency. A rate is looked up by block time and
// may be unavailable; an unavailable rate yields a Converted amount without a reference-currency value, never a
// zero one, so accumulated reference totals are left untouched.
package price

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Oracle returns the reference-currency rate at a block time (unix seconds). Implementations are pure.
type Oracle interface {
	Rate(ts int64) Rate
}

// Rate is either a conversion rate or the absence of one.
type Rate struct {
	r  decimal.Decimal
	ok bool
}

// NewRate returns an available rate.
func NewRate(r decimal.Decimal) Rate {
	return Rate{r: r, ok: true}
}

// Unavailable returns the absent rate.
func Unavailable() Rate {
	return Rate{}
}

// Available reports whether the rate can convert.
func (r Rate) Available() bool {
	return r.ok
}

// Value returns the rate and whether it is available.
func (r Rate) Value() (decimal.Decimal, bool) {
	return r.r, r.ok
}

// Convert converts amount with the rate, truncating toward zero.
func (r Rate) Convert(amount *big.Int) Converted {
	if amount == nil {
		amount = new(big.Int)
	}

	c := Converted{amount: new(big.Int).Set(amount)}
	if r.ok {
		c.ref = decimal.NewFromBigInt(amount, 0).Mul(r.r).BigInt()
	}

	return c
}

// Converted is an amount with, or without, its reference-currency value.
type Converted struct {
	amount *big.Int
	ref    *big.Int
}

// Amount returns the base-currency amount.
func (c Converted) Amount() *big.Int {
	if c.amount == nil {
		return new(big.Int)
	}

	return new(big.Int).Set(c.amount)
}

// Ref returns the reference-currency amount and whether it exists.
func (c Converted) Ref() (*big.Int, bool) {
	if c.ref == nil {
		return nil, false
	}

	return new(big.Int).Set(c.ref), true
}

// RefOrNil returns the reference-currency amount, or nil when there is none.
func (c Converted) RefOrNil() *big.Int {
	r, _ := c.Ref()

	return r
}

// Fixed is an oracle returning the same rate at any time.
type Fixed struct {
	R decimal.Decimal
}

// Rate returns the fixed rate.
func (f Fixed) Rate(int64) Rate {
	return NewRate(f.R)
}

// None is an oracle that never has a rate.
type None struct{}

// Rate returns Unavailable.
func (None) Rate(int64) Rate {
	return Unavailable()
}
