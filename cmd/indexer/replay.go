package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tarancss/jbx/lib/msg"
)

var reset bool //nolint:gochecknoglobals // cobra flag

func init() {
	ReplayCmd.Flags().BoolVar(&reset, "reset", false, "delete every entity and the checkpoint before replaying")
}

// ReplayCmd indexes a JSON lines event file. Registrations are logged instead of published.
var ReplayCmd = &cobra.Command{
	Use:   "replay <events.jsonl>",
	Short: "Index events from a JSON lines file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		reg := msg.NewRecorder(log)

		x, closeAll, err := newIndexer(reg)
		if err != nil {
			return err
		}
		defer closeAll()

		ctx, cancel := signalContext(x.Stop)
		defer cancel()

		if reset {
			if err = x.Reset(ctx); err != nil {
				return err
			}
		}

		if err = x.Start(ctx); err != nil {
			return err
		}

		if err = x.Replay(ctx, f); err != nil {
			return err
		}

		ck := x.Checkpoint()
		log.Info().Uint64("block", ck.Block).Uint64("processed", ck.Processed).
			Int("registrations", len(reg.Registered())).Msg("replay done")

		return nil
	},
}
