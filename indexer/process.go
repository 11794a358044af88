package indexer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tarancss/jbx/indexer/engine"
	"github.com/tarancss/jbx/lib/event"
	"github.com/tarancss/jbx/lib/msg/types"
	"github.com/tarancss/jbx/lib/store"
)

// Process indexes one raw event. Only a failure to commit is returned; any other failure abandons the event,
// which is logged and still moves the checkpoint.
func (x *Indexer) Process(ctx context.Context, raw event.RawEvent) error {
	log := x.log.With().Str("handler", raw.Source+"."+raw.Name).Uint64("block", raw.Block).
		Uint64("logIndex", raw.LogIndex).Str("tx", raw.TxHash).Logger()

	if x.cur.Seen(raw.Block, raw.LogIndex) {
		log.Debug().Msg("already processed")
		x.m.Events.WithLabelValues(raw.Name, OutcomeSkipped).Inc()

		return nil
	}

	ev, err := x.norm.Normalize(raw)
	if err != nil {
		log.Error().Err(err).Msg("cannot normalize event")

		return x.abandon(ctx, raw.Name, raw)
	}

	log = log.With().Str("pv", string(ev.PV)).Uint64("project", ev.ProjectID).Logger()
	ev.Rate = x.rates.Rate(ev.Timestamp)

	dd, deployed := ev.Payload.(*event.DelegateDeployed)
	if deployed && dd.CreateCollection {
		if dd.Collection, err = x.readCollection(ctx, log, ev.Block, dd.Delegate); err != nil {
			log.Error().Err(err).Str("delegate", dd.Delegate).Msg("collection not created")
		}
	}

	res, err := engine.Apply(ctx, x.db, ev)
	if err != nil {
		log.Error().Err(err).Msg("event abandoned")

		return x.abandon(ctx, string(ev.Kind), raw)
	}

	for _, a := range res.Anomalies {
		log.Warn().Str("anomaly", a.Kind).Msg(a.Detail)
		x.m.Anomalies.WithLabelValues(a.Kind).Inc()
	}

	if err = x.commit(ctx, res.Changes, raw); err != nil {
		return err
	}

	x.m.Events.WithLabelValues(string(ev.Kind), OutcomeIndexed).Inc()
	log.Debug().Int("writes", res.Changes.Len()).Msg("event indexed")

	if deployed {
		x.register(ctx, log, ev, dd)
	}

	return nil
}

// abandon commits the checkpoint alone.
func (x *Indexer) abandon(ctx context.Context, kind string, raw event.RawEvent) error {
	if err := x.commit(ctx, store.NewChangeset(), raw); err != nil {
		return err
	}

	x.m.Events.WithLabelValues(kind, OutcomeAbandoned).Inc()

	return nil
}

// commit adds the checkpoint of raw to cs and commits it.
func (x *Indexer) commit(ctx context.Context, cs *store.Changeset, raw event.RawEvent) error {
	ck := x.cur.Next(raw.Block, raw.LogIndex)
	cs.Put(store.KindCheckpoint, store.CheckpointKey, ck)

	if err := x.db.Commit(ctx, cs); err != nil {
		return fmt.Errorf("indexer: cannot commit event at %d/%d: %w", raw.Block, raw.LogIndex, err)
	}

	x.cur.Advance(ck)
	x.m.Checkpoint.Set(float64(ck.Block))

	return nil
}

// register publishes the data source of a deployed delegate. A failure is logged; the event stays indexed.
func (x *Indexer) register(ctx context.Context, log zerolog.Logger, ev event.Event, dd *event.DelegateDeployed) {
	if x.reg == nil {
		return
	}

	dc := types.Context{
		types.BigIntEntry("projectId", ev.ProjectID),
		types.StringEntry("pv", string(ev.PV)),
	}
	if !dd.CreateCollection {
		dc = append(dc, types.IntEntry("governanceType", int32(dd.GovernanceType)))
	}

	ds := types.DataSource{Template: dd.Template, Address: dd.Delegate, Context: dc, Block: ev.Block}
	if err := x.reg.Register(ctx, ds); err != nil {
		log.Error().Err(err).Str("delegate", dd.Delegate).Msg("cannot register data source")
		x.m.Anomalies.WithLabelValues("register_failed").Inc()

		return
	}

	log.Info().Str("template", ds.Template).Str("delegate", ds.Address).Uint8("governanceType", dd.GovernanceType).
		Msg("data source registered")
}
