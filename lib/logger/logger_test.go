package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarancss/jbx/lib/logger"
)

func TestNew(t *testing.T) {
	testCases := map[string]struct {
		format    string
		level     string
		expectErr bool
	}{
		"invalid format":         {format: "foo", level: logger.LogLevelInfo, expectErr: true},
		"invalid level":          {format: logger.LogFormatJSON, level: "foo", expectErr: true},
		"empty level":            {format: logger.LogFormatJSON, level: "", expectErr: true},
		"valid format and level": {format: logger.LogFormatJSON, level: logger.LogLevelInfo},
		"plain":                  {format: logger.LogFormatPlain, level: logger.LogLevelDebug},
	}

	for name, tc := range testCases {
		tc := tc

		t.Run(name, func(t *testing.T) {
			_, err := logger.New(tc.format, tc.level)
			if tc.expectErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer

	l, err := logger.NewWithWriter(&buf, logger.LogFormatJSON, logger.LogLevelWarn)
	require.NoError(t, err)

	l.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	l.Warn().Str("component", "indexer").Msg("kept")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["message"])
	assert.Equal(t, "indexer", line["component"])
	assert.Equal(t, "warn", line["level"])
}
