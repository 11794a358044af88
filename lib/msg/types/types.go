// Package types defines the messages exchanged through the message broker.
package types

import (
	"fmt"
	"strconv"
)

// Context value types.
const (
	BigInt = "BigInt"
	String = "String"
	Int    = "Int"
)

// Entry is one typed value of a data source context.
type Entry struct {
	Key   string `json:"key"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Context is the typed context bag attached to a data source registration.
type Context []Entry

// BigIntEntry returns an arbitrary precision integer entry.
func BigIntEntry(key string, v uint64) Entry {
	return Entry{Key: key, Type: BigInt, Value: strconv.FormatUint(v, 10)}
}

// StringEntry returns a string entry.
func StringEntry(key, v string) Entry {
	return Entry{Key: key, Type: String, Value: v}
}

// IntEntry returns a 32 bit integer entry.
func IntEntry(key string, v int32) Entry {
	return Entry{Key: key, Type: Int, Value: strconv.FormatInt(int64(v), 10)}
}

// Get returns the entry for key.
func (c Context) Get(key string) (Entry, bool) {
	for _, e := range c {
		if e.Key == key {
			return e, true
		}
	}

	return Entry{}, false
}

// DataSource asks the supervising component to start listening to the contract at Address using Template.
type DataSource struct {
	Template string  `json:"template"`
	Address  string  `json:"address"`
	Context  Context `json:"context"`
	Block    uint64  `json:"block"` // start block
}

// RoutingKey is the topic the registration is published under.
func (d DataSource) RoutingKey() string {
	return fmt.Sprintf("%s.%s", d.Template, d.Address)
}
