package event

import (
	"fmt"
	"strings"

	"github.com/tarancss/jbx/lib/ids"
)

// Adapter translates the arguments of one raw event into a payload and the project it belongs to.
type adapter func(r *reader) (projectID uint64, p Payload)

// Variant is the adapter table of one contract variant.
type Variant struct {
	Source   string
	PV       ids.PV
	adapters map[string]adapter
}

// Events returns the event names the variant handles.
func (v Variant) Events() []string {
	names := make([]string, 0, len(v.adapters))
	for n := range v.adapters {
		names = append(names, n)
	}

	return names
}

// Normalizer selects the variant of a raw event by its source and applies the adapter for its name.
type Normalizer struct {
	variants map[string]Variant
}

// New returns a normalizer for the given variants.
func New(variants ...Variant) *Normalizer {
	n := &Normalizer{variants: make(map[string]Variant, len(variants))}
	for _, v := range variants {
		n.variants[v.Source] = v
	}

	return n
}

// Default returns a normalizer with every built-in variant.
func Default() *Normalizer {
	return New(
		ProjectsV1(), TerminalV1(), TerminalV1_1(),
		JBProjects(), JBETHPaymentTerminal(), JBController(),
		JBTiered721DelegateDeployer(), JBTiered721DelegateDeployer3_2(),
	)
}

// Handles reports whether the normalizer knows the variant and event.
func (n *Normalizer) Handles(source, name string) bool {
	v, ok := n.variants[source]
	if !ok {
		return false
	}

	_, ok = v.adapters[name]

	return ok
}

// Normalize translates raw into a canonical event.
func (n *Normalizer) Normalize(raw RawEvent) (Event, error) {
	v, ok := n.variants[raw.Source]
	if !ok {
		return Event{}, fmt.Errorf("%w: %s", ErrUnknownVariant, raw.Source)
	}

	a, ok := v.adapters[raw.Name]
	if !ok {
		return Event{}, fmt.Errorf("%w: %s.%s", ErrUnknownEvent, raw.Source, raw.Name)
	}

	r := newReader(raw.Params)

	projectID, p := a(r)

	caller := strings.ToLower(raw.TxFrom)
	// v2 contracts emit the msg.sender that triggered the event
	if r.has("caller") {
		caller = r.addr("caller")
	}

	if r.err != nil {
		return Event{}, fmt.Errorf("%s.%s: %w", raw.Source, raw.Name, r.err)
	}

	return Event{
		Kind:      p.Kind(),
		PV:        v.PV,
		ProjectID: projectID,
		Terminal:  strings.ToLower(raw.Address),
		Caller:    caller,
		Block:     raw.Block,
		LogIndex:  raw.LogIndex,
		Timestamp: raw.Timestamp,
		TxHash:    strings.ToLower(raw.TxHash),
		Payload:   p,
	}, nil
}
