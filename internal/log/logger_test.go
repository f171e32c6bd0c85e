package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Setenv("SEACONFIG_LOG_LEVEL", "")
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))

	t.Setenv("SEACONFIG_LOG_LEVEL", "warn")
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(""))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
}

func TestConfigureOnce(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "info", Output: &buf, Service: "test"})
	Configure(Config{Level: "debug", Output: &bytes.Buffer{}})

	l := WithComponent("store")
	l.Info().Str("id", "abc").Msg("saved")
	l.Debug().Msg("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test", entry["service"])
	assert.Equal(t, "store", entry["component"])
	assert.Equal(t, "abc", entry["id"])
	assert.Equal(t, "saved", entry["message"])

	buf.Reset()
	derived := Derive(func(c *zerolog.Context) { *c = c.Str("file", "a.json") })
	derived.Warn().Msg("migrated")
	assert.Contains(t, buf.String(), `"file":"a.json"`)
}
