package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootLoadsConfiguration(t *testing.T) {
	t.Setenv("JBX_LOGLEVEL", "warn")
	t.Setenv("JBX_DBTYPE", "memory")

	confPath = "../conf.json"
	t.Cleanup(func() { confPath = "" })

	require.NoError(t, RootCmd.PersistentPreRunE(RootCmd, nil))
	assert.Equal(t, "memory", conf.DBType)
	assert.Equal(t, "jbx.events", conf.Queue)

	dbConn, err := openStore()
	require.NoError(t, err)
	require.NoError(t, dbConn.Close())

	assert.Nil(t, serveMetrics(), "metrics are off without -m")
}

func TestRootErrors(t *testing.T) {
	confPath = "missing.json"
	t.Cleanup(func() { confPath = "" })

	require.Error(t, RootCmd.PersistentPreRunE(RootCmd, nil))

	confPath = ""
	t.Setenv("JBX_LOGFORMAT", "xml")
	require.Error(t, RootCmd.PersistentPreRunE(RootCmd, nil))
}

func TestUnknownBroker(t *testing.T) {
	conf.MbType = "kafka"

	_, err := openBroker()
	assert.Error(t, err)
}
