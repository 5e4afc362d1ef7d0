package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screwyprof/mixdelegator/pkg/logger"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "WARN", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "chatty", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, logger.ParseLevel(tt.in))
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("it writes JSON with British timestamps by default", func(t *testing.T) {
		t.Parallel()

		// Arrange
		var buf bytes.Buffer
		log := logger.New(&buf, logger.Config{LogLevel: "info"})

		// Act
		log.Info("Refresh completed", slog.Int("delegations", 3))

		// Assert
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "Refresh completed", entry["msg"])
		assert.Regexp(t, `^\d{2}\.\d{2}\.\d{4} \d{2}:\d{2}:\d{2}$`, entry["time"])
	})

	t.Run("it writes text when human friendly output is requested", func(t *testing.T) {
		t.Parallel()

		// Arrange
		var buf bytes.Buffer
		log := logger.New(&buf, logger.Config{LogLevel: "info", LogHumanFriendly: true})

		// Act
		log.Info("Store started")

		// Assert
		assert.True(t, strings.Contains(buf.String(), `msg="Store started"`))
	})

	t.Run("it drops records below the configured level", func(t *testing.T) {
		t.Parallel()

		// Arrange
		var buf bytes.Buffer
		log := logger.New(&buf, logger.Config{LogLevel: "error"})

		// Act
		log.Warn("Stale result discarded")

		// Assert
		assert.Empty(t, buf.String())
	})
}

func TestWithComponent(t *testing.T) {
	t.Parallel()

	// Arrange
	var buf bytes.Buffer
	log := logger.WithComponent(logger.New(&buf, logger.Config{}), "store")

	// Act
	log.Info("Delegation refresh started")

	// Assert
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "store", entry["component"])
}
