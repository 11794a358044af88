package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/tarancss/jbx/lib/event"
)

// PublishCmd feeds a JSON lines event file to the broker's event exchange.
var PublishCmd = &cobra.Command{
	Use:   "publish <events.jsonl>",
	Short: "Publish raw events from a JSON lines file to the message broker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		mb, err := openBroker()
		if err != nil {
			return err
		}
		defer mb.Close()

		ctx, cancel := signalContext(nil)
		defer cancel()

		s := event.NewStream(f)
		n := 0

		for {
			ev, err := s.Next()
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}

				return err
			}

			if err = mb.SendEvents(ctx, []event.RawEvent{ev}); err != nil {
				return err
			}

			n++
		}

		log.Info().Int("events", n).Msg("published")

		return nil
	},
}

// WatchCmd tails the data source registrations published by the indexer.
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Log data source registrations from the message broker",
	RunE: func(cmd *cobra.Command, args []string) error {
		mb, err := openBroker()
		if err != nil {
			return err
		}
		defer mb.Close()

		ctx, cancel := signalContext(nil)
		defer cancel()

		mut := new(sync.Mutex)
		mut.Lock()

		dsCh, errCh, err := mb.GetRegistrations(conf.Queue+".ds", mut)
		if err != nil {
			return fmt.Errorf("cannot get registrations: %w", err)
		}

		for {
			select {
			case <-ctx.Done():
				return nil
			case ds, ok := <-dsCh:
				if !ok {
					return nil
				}

				log.Info().Str("template", ds.Template).Str("address", ds.Address).Uint64("block", ds.Block).
					Interface("context", ds.Context).Msg("registration")
				mut.Unlock()
			case err := <-errCh:
				log.Error().Err(err).Msg("received error from registration channel")
			}
		}
	},
}
