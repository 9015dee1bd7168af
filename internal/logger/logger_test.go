package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "pharmacy-dashboard", "production", "info").WithComponent("api")

	log.Info().Str("action", "summary").Msg("api request")
	log.Debug().Msg("filtered out")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "pharmacy-dashboard", entry["service"])
	assert.Equal(t, "api", entry["component"])
	assert.Equal(t, "summary", entry["action"])
	assert.Equal(t, "api request", entry["message"])
}

func TestWithSessionID(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "svc", "production", "debug").WithSessionID("abc")

	log.Debug().Msg("hello")

	assert.Contains(t, buf.String(), `"session_id":"abc"`)
}
