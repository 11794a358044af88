// Package ids derives the canonical string keys of every persisted entity. Keys are stable across re-indexing and
// no other package builds them by hand.
package ids

import (
	"strconv"
	"strings"
)

// PV is the protocol version tag. It never contains the key separator.
type PV string

// Protocol versions known to the indexer.
const (
	PV1 PV = "1"
	PV2 PV = "2"
)

// ProtocolID is the well-known key of the cross-version Protocol aggregate.
const ProtocolID = "1"

const sep = "-"

// Project returns the key of the project numbered id in protocol version pv.
func Project(pv PV, id uint64) string {
	return string(pv) + sep + strconv.FormatUint(id, 10)
}

// Participant returns the key of a beneficiary within a project. Addresses are lower-cased so checksummed and plain
// hex forms map to the same participant.
func Participant(pv PV, id uint64, addr string) string {
	return Project(pv, id) + sep + strings.ToLower(addr)
}

// ProtocolLog returns the key of the per-version protocol log singleton.
func ProtocolLog(pv PV) string {
	return ProtocolID + sep + string(pv)
}

// PayEvent returns the key of a pay record. Pay events are keyed by their log position alone.
func PayEvent(txHash string, logIndex uint64) string {
	return strings.ToLower(txHash) + sep + strconv.FormatUint(logIndex, 10)
}

// ProjectTx returns the key of a per-event record scoped to a project transaction. Records that other records point
// back to (tap, print reserves) are keyed without the log index, so every distribution emitted in the same
// transaction can derive the reference; the records themselves pass secondary=true and get the log index appended.
func ProjectTx(pv PV, id uint64, txHash string, logIndex uint64, secondary bool) string {
	k := Project(pv, id) + sep + strings.ToLower(txHash)
	if secondary {
		k += sep + strconv.FormatUint(logIndex, 10)
	}

	return k
}

// ProjectEvent returns the key of a timeline entry. kind keeps entries of different record kinds apart when they
// are emitted at the same log position.
func ProjectEvent(pv PV, id uint64, kind, txHash string, logIndex uint64) string {
	return Project(pv, id) + sep + kind + sep + strings.ToLower(txHash) + sep + strconv.FormatUint(logIndex, 10)
}

// Collection returns the key of an NFT collection, its lower-cased delegate address.
func Collection(addr string) string {
	return strings.ToLower(addr)
}

// Tier returns the key of a tier in a collection.
func Tier(collection string, tierID uint64) string {
	return Collection(collection) + sep + strconv.FormatUint(tierID, 10)
}
