// Package msg defines the interface for different message brokers. The indexer consumes raw events from a broker
// and publishes data source registrations to it.
package msg

import (
	"context"
	"sync"

	"github.com/tarancss/jbx/lib/event"
	"github.com/tarancss/jbx/lib/msg/types"
)

// Registrar receives data source registrations. Register must not block on the supervising component.
type Registrar interface {
	Register(ctx context.Context, ds types.DataSource) error
}

// MsgBroker is a message broker connection.
//
// GetEvents and GetRegistrations push each consumed message to the returned channel and then lock mut; the
// message is acknowledged once the consumer unlocks it, so callers must hand in a locked mutex and unlock it after
// each message has been fully dealt with.
type MsgBroker interface { //nolint:revive // name kept for callers
	Registrar

	Setup() error
	Close() error

	// methods for the indexer service
	GetEvents(queue string, mut *sync.Mutex) (<-chan event.RawEvent, <-chan error, error)

	// methods for event feeders and supervisors
	SendEvents(ctx context.Context, evs []event.RawEvent) error
	GetRegistrations(queue string, mut *sync.Mutex) (<-chan types.DataSource, <-chan error, error)
}
