package config_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigcoin/cryptonotewallet/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"off", zerolog.Disabled},
		{"NONE", zerolog.Disabled},
		{"error", zerolog.ErrorLevel},
		{"warn", zerolog.WarnLevel},
		{"Warning", zerolog.WarnLevel},
		{"info", zerolog.InfoLevel},
		{"  debug  ", zerolog.DebugLevel},
		{"", zerolog.ErrorLevel},
		{"verbose", zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, config.ParseLogLevel(tt.input))
		})
	}
}

func TestNewLogger_WritesJSONLines(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logs", "cnwallet.log")

	logger, err := config.NewLogger(zerolog.InfoLevel, path)
	require.NoError(t, err)

	logger.Info().Str("session_id", "abc").Msg("wallet opened")
	logger.Debug().Msg("filtered out")
	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "abc", entry["session_id"])
	assert.Equal(t, "wallet opened", entry["message"])
}

func TestNewLogger_OffCreatesNoFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cnwallet.log")

	logger, err := config.NewLogger(zerolog.Disabled, path)
	require.NoError(t, err)
	logger.Error().Msg("dropped")
	require.NoError(t, logger.Close())

	assert.NoFileExists(t, path)
}

func TestNewWriterLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := config.NewWriterLogger(&buf, zerolog.WarnLevel)
	logger.Info().Msg("quiet")
	logger.Warn().Msg("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestNullLogger(t *testing.T) {
	t.Parallel()

	logger := config.NullLogger()
	logger.Error().Msg("nothing")
	assert.NoError(t, logger.Close())
}
