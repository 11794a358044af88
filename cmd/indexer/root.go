package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tarancss/jbx/lib/config"
	"github.com/tarancss/jbx/lib/logger"
	"github.com/tarancss/jbx/lib/msg/amqp"
	"github.com/tarancss/jbx/lib/store"
	"github.com/tarancss/jbx/lib/store/db"
)

var (
	conf config.ServiceConfig
	log  zerolog.Logger

	// global flags
	confPath string
	monitor  bool
)

// RootCmd loads the configuration and the logger for every subcommand.
var RootCmd = &cobra.Command{
	Use:          "indexer",
	Short:        "Juicebox protocol event indexer",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if conf, err = config.ExtractConfiguration(confPath); err != nil {
			return err
		}

		if log, err = logger.New(conf.LogFormat, conf.LogLevel); err != nil {
			return err
		}

		log.Info().Str("dbtype", conf.DBType).Str("mbtype", conf.MbType).Str("node", conf.Chain.Node).
			Msg("configuration loaded")

		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&confPath, "conf", "c", "", "get configuration from json file")
	RootCmd.PersistentFlags().BoolVarP(&monitor, "monitor", "m", false,
		"serve Prometheus metrics at :<metricsPort>/metrics")
}

// signalContext returns a context cancelled on CTRL+C or docker's SIGTERM. stop is called first so the service
// finishes the event in progress.
func signalContext(stop func()) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sigchan := make(chan os.Signal, 10)
		signal.Notify(sigchan, os.Interrupt, syscall.SIGTERM)
		<-sigchan
		log.Warn().Msg("program killed")

		if stop != nil {
			stop()
		}

		cancel()
	}()

	return ctx, cancel
}

// serveMetrics serves the Prometheus registry when the monitor flag is set.
func serveMetrics() prometheus.Registerer {
	if !monitor {
		return nil
	}

	go func() {
		log.Info().Str("port", conf.MetricsPort).Msg("serving metrics API")

		h := http.NewServeMux()
		h.Handle("/metrics", promhttp.Handler())

		s := &http.Server{Addr: ":" + conf.MetricsPort, Handler: h, ReadHeaderTimeout: 5 * time.Second}
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server")
		}
	}()

	return prometheus.DefaultRegisterer
}

// openStore connects to the configured database.
func openStore() (store.DB, error) {
	log.Info().Str("dbtype", conf.DBType).Msg("connecting to database")

	return db.New(conf.DBType, conf.DBConn)
}

// openBroker connects to the configured message broker and declares its exchanges.
func openBroker() (*amqp.Amqp, error) {
	if conf.MbType != "amqp" {
		return nil, errors.New("unknown message broker type: " + conf.MbType)
	}

	mb, err := amqp.New(conf.MbConn, log)
	if err != nil {
		log.Warn().Err(err).Msg("message broker not ready, retrying in 10s")
		time.Sleep(10 * time.Second) // wait 10s for AMQP to be ready and try to reconnect

		if mb, err = amqp.New(conf.MbConn, log); err != nil {
			return nil, err
		}
	}

	if err = mb.Setup(); err != nil {
		mb.Close()

		return nil, err
	}

	return mb, nil
}
