package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// RawEvent is a decoded contract log as delivered by the event source, together with its block and transaction
// context. Source names the contract variant that emitted it (for instance "terminalV1_1"); Params holds the log
// arguments by name.
type RawEvent struct {
	Source    string `json:"source"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Params    Params `json:"params"`
	Block     uint64 `json:"block"`
	Timestamp int64  `json:"timestamp"`
	TxHash    string `json:"txHash"`
	TxFrom    string `json:"txFrom"`
	LogIndex  uint64 `json:"logIndex"`
}

// Params holds log arguments. Integers are decimal or 0x-prefixed hex strings or JSON numbers; tuples are nested
// objects.
type Params map[string]interface{}

// UnmarshalJSON keeps JSON numbers as json.Number so that 256-bit values are not rounded.
func (p *Params) UnmarshalJSON(b []byte) error {
	d := json.NewDecoder(bytes.NewReader(b))
	d.UseNumber()

	m := make(map[string]interface{})
	if err := d.Decode(&m); err != nil {
		return err
	}

	*p = m

	return nil
}

// reader extracts typed arguments from Params. The first failure is kept in err and later reads return zero
// values, so an adapter reads every field and checks once.
type reader struct {
	p    Params
	path string
	err  error
}

func newReader(p Params) *reader {
	return &reader{p: p}
}

func (r *reader) fail(name string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s%s: %v", ErrBadParam, r.path, name, err) //nolint:errorlint // keep sentinel
	}
}

func (r *reader) get(name string) (interface{}, bool) {
	v, ok := r.p[name]
	if !ok || v == nil {
		if r.err == nil {
			r.err = fmt.Errorf("%w: %s%s", ErrMissingParam, r.path, name)
		}

		return nil, false
	}

	return v, true
}

// has reports whether the argument is present.
func (r *reader) has(name string) bool {
	v, ok := r.p[name]

	return ok && v != nil
}

// int reads an unsigned integer argument. Every integer the contracts emit is a uint.
func (r *reader) int(name string) *big.Int {
	v, ok := r.get(name)
	if !ok {
		return new(big.Int)
	}

	i, err := toInt(v)
	if err != nil {
		r.fail(name, err)

		return new(big.Int)
	}

	if i.Sign() < 0 {
		r.fail(name, fmt.Errorf("negative value %s", i))

		return new(big.Int)
	}

	return i
}

// uint reads an integer argument that must fit in 64 bits.
func (r *reader) uint(name string) uint64 {
	i := r.int(name)
	if !i.IsUint64() {
		r.fail(name, fmt.Errorf("%s out of range", i))

		return 0
	}

	return i.Uint64()
}

// str reads a string argument.
func (r *reader) str(name string) string {
	v, ok := r.get(name)
	if !ok {
		return ""
	}

	s, ok := v.(string)
	if !ok {
		r.fail(name, fmt.Errorf("not a string: %T", v))
	}

	return s
}

// optStr reads a string argument that may be absent.
func (r *reader) optStr(name string) string {
	if !r.has(name) {
		return ""
	}

	return r.str(name)
}

// addr reads an address argument, lower-cased.
func (r *reader) addr(name string) string {
	return strings.ToLower(r.str(name))
}

// bool reads a boolean argument.
func (r *reader) bool(name string) bool {
	v, ok := r.get(name)
	if !ok {
		return false
	}

	switch b := v.(type) {
	case bool:
		return b
	case string:
		x, err := strconv.ParseBool(b)
		if err != nil {
			r.fail(name, err)
		}

		return x
	}

	r.fail(name, fmt.Errorf("not a bool: %T", v))

	return false
}

// sub returns a reader for a tuple argument. Failures are reported through r.
func (r *reader) sub(name string) *reader {
	s := &reader{p: Params{}, path: r.path + name + "."}

	v, ok := r.get(name)
	if !ok {
		return s
	}

	switch m := v.(type) {
	case map[string]interface{}:
		s.p = m
	case Params:
		s.p = m
	default:
		r.fail(name, fmt.Errorf("not a tuple: %T", v))
	}

	return s
}

// merge moves the first failure of a sub reader into r.
func (r *reader) merge(s *reader) {
	if r.err == nil {
		r.err = s.err
	}
}

func toInt(v interface{}) (*big.Int, error) {
	switch x := v.(type) {
	case json.Number:
		i, ok := new(big.Int).SetString(x.String(), 10)
		if !ok {
			return nil, fmt.Errorf("not an integer: %s", x)
		}

		return i, nil
	case string:
		i, ok := new(big.Int).SetString(x, 0)
		if !ok {
			return nil, fmt.Errorf("not an integer: %q", x)
		}

		return i, nil
	case float64:
		if x != float64(int64(x)) {
			return nil, fmt.Errorf("not an integer: %v", x)
		}

		return big.NewInt(int64(x)), nil
	case int:
		return big.NewInt(int64(x)), nil
	case int64:
		return big.NewInt(x), nil
	case uint64:
		return new(big.Int).SetUint64(x), nil
	case *big.Int:
		return new(big.Int).Set(x), nil
	}

	return nil, fmt.Errorf("unsupported integer type %T", v)
}
