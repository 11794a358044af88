// Package main: indexer service.
//
// The indexer consumes raw contract events from the message broker, aggregates them into the entity store and
// publishes a data source registration for every deployed delegate. The same binary replays a JSON lines event file
// from genesis, serves the read-only query API, and feeds or tails the broker for operations.
package main

import (
	"os"
)

func main() {
	rootCmd := RootCmd
	rootCmd.AddCommand(RunCmd, ReplayCmd, ServeCmd, PublishCmd, WatchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
