// Package amqp implements the message broker interface for AMQP compliant brokers (ie RabbitMQ).
package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"github.com/tarancss/jbx/lib/event"
	"github.com/tarancss/jbx/lib/msg"
	"github.com/tarancss/jbx/lib/msg/types"
)

// Exchanges declared by Setup.
const (
	ExchangeDataSources = "ds" // data source registrations
	ExchangeEvents      = "ev" // raw contract events
)

// Amqp implements a connection to a broker and a channel for reuse.
type Amqp struct {
	log  zerolog.Logger
	conn *amqp.Connection

	mu sync.Mutex // guards ch for publishers
	ch *amqp.Channel
}

var _ msg.MsgBroker = (*Amqp)(nil)

// New instantiates a new amqp broker.
func New(uri string, log zerolog.Logger) (*Amqp, error) {
	r := &Amqp{log: log.With().Str("component", "amqp").Logger()}

	var err error
	if r.conn, err = amqp.Dial(uri); err != nil {
		return nil, err
	}

	r.log.Info().Msg("connected to message broker")

	return r, nil
}

// Setup declares the message broker exchanges:
//
// - ds ("data sources"): the indexer publishes data source registrations to this exchange
//
// - ev ("events"): event feeders publish raw contract events to this exchange
func (r *Amqp) Setup() error {
	// obtain a one-use channel
	channel, err := r.conn.Channel()
	if err != nil {
		return err
	}
	defer channel.Close()

	if err = channel.ExchangeDeclare(ExchangeDataSources, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return err
	}

	return channel.ExchangeDeclare(ExchangeEvents, amqp.ExchangeTopic, true, false, false, false, nil)
}

// Close terminates gracefully the connection to the AMQP message broker.
func (r *Amqp) Close() error {
	r.mu.Lock()
	if r.ch != nil {
		if err := r.ch.Close(); err != nil {
			r.log.Error().Err(err).Msg("closing amqp channel")
		}

		r.ch = nil
	}
	r.mu.Unlock()

	return r.conn.Close()
}

func (r *Amqp) publish(exchange, key string, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// obtain channel if not present
	if r.ch == nil {
		if r.ch, err = r.conn.Channel(); err != nil {
			return err
		}
	}

	return r.ch.Publish(exchange, key, false, false, amqp.Publishing{
		Body:         body,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
	})
}

// Register publishes a data source registration to the "ds" exchange.
func (r *Amqp) Register(_ context.Context, ds types.DataSource) error {
	if err := r.publish(ExchangeDataSources, ds.RoutingKey(), ds); err != nil {
		return fmt.Errorf("register %s: %w", ds.RoutingKey(), err)
	}

	return nil
}

// SendEvents publishes raw events to the "ev" exchange in order, routed by source and event name.
func (r *Amqp) SendEvents(ctx context.Context, evs []event.RawEvent) error {
	for i := range evs {
		if err := ctx.Err(); err != nil {
			return err
		}

		key := evs[i].Source + "." + evs[i].Name + "." + strconv.FormatUint(evs[i].Block, 10)
		if err := r.publish(ExchangeEvents, key, evs[i]); err != nil {
			return fmt.Errorf("send event %s: %w", key, err)
		}
	}

	return nil
}

// consume declares queue, binds it to exchange and starts a consumer on a dedicated channel. Only one unacked
// message is delivered at a time so that events are processed in publishing order.
func (r *Amqp) consume(queue, exchange string) (<-chan amqp.Delivery, error) {
	ch, err := r.conn.Channel()
	if err != nil {
		return nil, err
	}

	if err = ch.Qos(1, 0, false); err != nil {
		return nil, err
	}

	if _, err = ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, err
	}

	if err = ch.QueueBind(queue, "#", exchange, false, nil); err != nil {
		return nil, err
	}

	return ch.Consume(queue, queue+"-"+uuid.NewString(), false, false, false, false, nil)
}

// GetEvents consumes raw events from the "ev" exchange through queue, pushing them to the returned channel. The
// Mutex pointer is provided to ensure the consumed message has been fully dealt with by the management function,
// so the message consumed is only acknowledged when the mutex is unlocked. Malformed messages are rejected.
func (r *Amqp) GetEvents(queue string, mut *sync.Mutex) (<-chan event.RawEvent, <-chan error, error) {
	msgs, err := r.consume(queue, ExchangeEvents)
	if err != nil {
		return nil, nil, err
	}

	evs := make(chan event.RawEvent)
	errs := make(chan error)

	go func() {
		defer close(evs)

		for m := range msgs {
			var ev event.RawEvent
			if err := json.Unmarshal(m.Body, &ev); err != nil {
				_ = m.Reject(false)
				errs <- fmt.Errorf("decode event %s: %w", m.RoutingKey, err)

				continue
			}

			evs <- ev
			mut.Lock() // wait for the indexer to finish processing the event
			if err := m.Ack(false); err != nil {
				errs <- err
			}
		}
	}()

	return evs, errs, nil
}

// GetRegistrations consumes data source registrations from the "ds" exchange through queue. Acknowledgement
// follows the same handshake as GetEvents.
func (r *Amqp) GetRegistrations(queue string, mut *sync.Mutex) (<-chan types.DataSource, <-chan error, error) {
	msgs, err := r.consume(queue, ExchangeDataSources)
	if err != nil {
		return nil, nil, err
	}

	dss := make(chan types.DataSource)
	errs := make(chan error)

	go func() {
		defer close(dss)

		for m := range msgs {
			var ds types.DataSource
			if err := json.Unmarshal(m.Body, &ds); err != nil {
				_ = m.Reject(false)
				errs <- fmt.Errorf("decode registration %s: %w", m.RoutingKey, err)

				continue
			}

			dss <- ds
			mut.Lock()
			if err := m.Ack(false); err != nil {
				errs <- err
			}
		}
	}()

	return dss, errs, nil
}
