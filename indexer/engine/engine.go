// Package engine applies canonical events to the persisted aggregates. Apply never writes: it loads what it needs,
// computes the new snapshot of every touched entity and returns them in one changeset, together with the immutable
// record of the event and its timeline entry. Either the caller commits the whole changeset or nothing.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/tarancss/jbx/lib/event"
	"github.com/tarancss/jbx/lib/ids"
	"github.com/tarancss/jbx/lib/price"
	"github.com/tarancss/jbx/lib/store"
)

// Errors returned by Apply.
var (
	ErrMissingProject = errors.New("project does not exist")
	ErrUnknownEvent   = errors.New("unknown event kind")
)

// Anomaly kinds.
const (
	AnomalyOverdraw        = "overdraw"         // redeem or tap exceeding the project's balance
	AnomalyDuplicateCreate = "duplicate_create" // project created twice
)

// Anomaly is a data condition worth flagging that does not stop the event from being applied.
type Anomaly struct {
	Kind   string
	Detail string
}

// Result is the outcome of applying one event.
type Result struct {
	Changes   *store.Changeset
	Anomalies []Anomaly
}

// Apply computes the writes caused by ev. A balance-affecting event for a project that was never created returns
// ErrMissingProject and no writes.
func Apply(ctx context.Context, l store.Loader, ev event.Event) (*Result, error) {
	a := &applier{ctx: ctx, l: l, ev: ev, res: &Result{Changes: store.NewChangeset()}}

	var err error

	switch p := ev.Payload.(type) {
	case event.ProjectCreate:
		err = a.projectCreate(p)
	case event.Pay:
		err = a.pay(p)
	case event.Tap:
		err = a.tap(p)
	case event.Redeem:
		err = a.redeem(p)
	case event.AddToBalance:
		err = a.addToBalance(p)
	case event.MintTokens:
		a.mintTokens(p)
	case event.PrintReserves:
		a.printReserves(p)
	case event.DistributeToPayoutMod:
		a.distributeToPayoutMod(p)
	case event.DistributeToTicketMod:
		a.distributeToTicketMod(p)
	case *event.DelegateDeployed:
		a.delegateDeployed(p)
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownEvent, ev.Payload)
	}

	if err != nil {
		return nil, err
	}

	return a.res, nil
}

type applier struct {
	ctx context.Context
	l   store.Loader
	ev  event.Event
	res *Result
}

// load reads kind/key into v, preferring a snapshot already staged by this event. It reports whether the entity
// exists.
func (a *applier) load(kind store.Kind, key string, v interface{}) (bool, error) {
	if doc, ok := a.res.Changes.Get(kind, key); ok {
		b, err := store.Encode(doc)
		if err != nil {
			return false, err
		}

		return true, store.Decode(b, v)
	}

	err := a.l.Load(a.ctx, kind, key, v)

	switch {
	case errors.Is(err, store.ErrNotFound):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("load %s %s: %w", kind, key, err)
	}

	return true, nil
}

func (a *applier) put(kind store.Kind, key string, doc interface{}) {
	a.res.Changes.Put(kind, key, doc)
}

func (a *applier) flag(kind, format string, args ...interface{}) {
	a.res.Anomalies = append(a.res.Anomalies, Anomaly{Kind: kind, Detail: fmt.Sprintf(format, args...)})
}

func (a *applier) projectKey() string {
	return ids.Project(a.ev.PV, a.ev.ProjectID)
}

// project loads the event's project, which must exist.
func (a *applier) project() (*store.Project, error) {
	var p store.Project

	ok, err := a.load(store.KindProject, a.projectKey(), &p)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingProject, a.projectKey())
	}

	return &p, nil
}

// protocolLog gets or creates the protocol log of the event's version.
func (a *applier) protocolLog() (*store.ProtocolLog, error) {
	key := ids.ProtocolLog(a.ev.PV)
	l := store.ProtocolLog{ID: key, PV: string(a.ev.PV)}

	if _, err := a.load(store.KindProtocolLog, key, &l); err != nil {
		return nil, err
	}

	return &l, nil
}

// protocol gets or creates the cross-version aggregate.
func (a *applier) protocol() (*store.Protocol, error) {
	p := store.Protocol{ID: ids.ProtocolID}

	if _, err := a.load(store.KindProtocol, ids.ProtocolID, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

func (a *applier) attribution(id string) store.Attribution {
	return store.Attribution{
		ID:        id,
		PV:        string(a.ev.PV),
		ProjectID: a.ev.ProjectID,
		Project:   a.projectKey(),
		Caller:    a.ev.Caller,
		Timestamp: a.ev.Timestamp,
		TxHash:    a.ev.TxHash,
	}
}

func (a *applier) txKey(secondary bool) string {
	return ids.ProjectTx(a.ev.PV, a.ev.ProjectID, a.ev.TxHash, a.ev.LogIndex, secondary)
}

// record stages an immutable event record and its timeline entry.
func (a *applier) record(kind store.Kind, key store.ProjectEventKey, id string, doc interface{}, terminal string) {
	a.put(kind, id, doc)

	te := ids.ProjectEvent(a.ev.PV, a.ev.ProjectID, string(key), a.ev.TxHash, a.ev.LogIndex)
	a.put(store.KindProjectEvent, te, store.ProjectEvent{
		ID:        te,
		PV:        string(a.ev.PV),
		ProjectID: a.ev.ProjectID,
		Project:   a.projectKey(),
		Key:       key,
		Event:     id,
		Terminal:  terminal,
		Block:     a.ev.Block,
		LogIndex:  a.ev.LogIndex,
		Timestamp: a.ev.Timestamp,
		TxHash:    a.ev.TxHash,
	})
}

// addRef adds the reference-currency value of c to total when it exists.
func addRef(total store.Int, c price.Converted) store.Int {
	if r, ok := c.Ref(); ok {
		return total.Add(r)
	}

	return total
}
