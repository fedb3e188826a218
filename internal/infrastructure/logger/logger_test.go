package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn")

	log.Info().Msg("hidden")
	log.Warn().Str("op", "pool.Invest").Msg("shown")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "pool.Invest", entry["op"])
	assert.Equal(t, "contrack", entry["service"])
	assert.Contains(t, entry, "time")
}

func TestNewWithWriter_UnknownLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "chatty")
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestNew_ModesDoNotPanic(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, New(ModeProduction, "debug").GetLevel())
	assert.Equal(t, zerolog.ErrorLevel, New("development", "ERROR").GetLevel())
}
