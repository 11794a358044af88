package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/tarancss/jbx/api"
)

// ServeCmd serves the query API.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only query API",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(dbConn)

		serveMetrics()

		a := api.New(log, dbConn)

		_, cancel := signalContext(func() {
			ctx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()

			if err := a.Stop(ctx); err != nil {
				log.Error().Err(err).Msg("shutdown http server")
			}
		})
		defer cancel()

		return a.Init(conf.RestfulEndpoint, conf.Port)
	},
}
