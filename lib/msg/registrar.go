package msg

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tarancss/jbx/lib/msg/types"
)

// Recorder is a Registrar that keeps registrations in memory and logs them. It serves replays, where no
// supervising component listens.
type Recorder struct {
	log zerolog.Logger

	mu  sync.Mutex
	dss []types.DataSource
}

// NewRecorder returns an empty Recorder.
func NewRecorder(log zerolog.Logger) *Recorder {
	return &Recorder{log: log}
}

// Register records ds.
func (r *Recorder) Register(_ context.Context, ds types.DataSource) error {
	r.mu.Lock()
	r.dss = append(r.dss, ds)
	r.mu.Unlock()

	r.log.Info().Str("template", ds.Template).Str("address", ds.Address).Uint64("block", ds.Block).
		Msg("data source registered")

	return nil
}

// Registered returns the registrations recorded so far.
func (r *Recorder) Registered() []types.DataSource {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]types.DataSource(nil), r.dss...)
}
