// Package jbx and its sub-packages implement an indexer for the Juicebox funding protocol: it turns the contract
// events of every protocol version into running totals per project, per participant and per protocol version.
/*
jbx provides you with one service binary (cmd/indexer) and the libraries it is built from.

Architecture

Raw contract events arrive in order from the message broker (package lib/msg), or from a JSON lines file when
replaying from genesis. For each event the indexer service (package indexer):

1) normalizes it into the canonical event vocabulary (package lib/event), one adapter table per contract variant;

2) attaches the USD rate at the event's timestamp (package lib/price);

3) performs the chain reads the event needs, such as the name, symbol and tiers of a just deployed NFT delegate
 (package lib/block);

4) applies it to the aggregates (package indexer/engine), producing one changeset with every write;

5) commits the changeset together with its checkpoint to the entity store (package lib/store), so an event is either
 fully indexed or not at all, and a redelivered event is skipped;

6) publishes a data source registration for every deployed delegate back to the message broker.

Events that cannot be indexed (a payment to a project that was never created, a delegate whose symbol() reverts) are
logged and abandoned; the stream goes on. Entity keys are only ever derived by package lib/ids.

The entity store is a product agnostic layer with MongoDB, PostgreSQL, SQLite and in-memory implementations,
selected in the JSON config file at startup. The indexed entities are served read-only by the query API (package
api).

The service can be monitored via a Prometheus API by setting the flag "-m" at startup.
*/
package jbx
