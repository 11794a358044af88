package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tarancss/jbx/indexer"
	"github.com/tarancss/jbx/lib/block"
	"github.com/tarancss/jbx/lib/msg"
	"github.com/tarancss/jbx/lib/price"
	"github.com/tarancss/jbx/lib/store"
)

// RunCmd indexes the live event feed of the message broker.
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Index events consumed from the message broker",
	RunE: func(cmd *cobra.Command, args []string) error {
		mb, err := openBroker()
		if err != nil {
			return err
		}

		defer func() {
			err := mb.Close()
			log.Info().Err(err).Msg("closing message broker")
		}()

		x, closeAll, err := newIndexer(mb)
		if err != nil {
			return err
		}
		defer closeAll()

		ctx, cancel := signalContext(x.Stop)
		defer cancel()

		if err = x.Start(ctx); err != nil {
			return err
		}

		return x.Run(ctx, mb, conf.Queue)
	},
}

// newIndexer wires the indexer service from the configuration. closeAll releases the store and chain clients.
func newIndexer(reg msg.Registrar) (*indexer.Indexer, func(), error) {
	dbConn, err := openStore()
	if err != nil {
		return nil, nil, err
	}

	chain, err := block.Init(conf.Chain)
	if err != nil {
		dbConn.Close()

		return nil, nil, fmt.Errorf("cannot connect to chain node: %w", err)
	}

	rates, err := loadRates()
	if err != nil {
		_ = chain.Close()
		dbConn.Close()

		return nil, nil, err
	}

	if !indexer.IsAddress(conf.Chain.TierStore) {
		log.Warn().Msg("no tiered 721 delegate store address configured, collections will not be indexed")
	}

	x := indexer.New(log, dbConn, chain, reg, rates, conf.Chain.TierStore, indexer.NewMetrics(serveMetrics()))

	return x, func() {
		closeStore(dbConn)

		err := chain.Close()
		log.Info().Err(err).Str("node", conf.Chain.Node).Msg("disconnecting chain node")
	}, nil
}

func loadRates() (price.Oracle, error) {
	if conf.RatesFile == "" {
		log.Warn().Msg("no rates file configured, USD totals will not advance")

		return price.None{}, nil
	}

	return price.Load(conf.RatesFile, time.Duration(conf.RatesMaxAge)*time.Second)
}

func closeStore(dbConn store.DB) {
	err := dbConn.Close()
	log.Info().Err(err).Str("dbtype", conf.DBType).Msg("disconnecting database")
}
