package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestNewFiltersByLevel(t *testing.T) {
	tests := []struct {
		name      string
		level     zerolog.Level
		wantInfo  bool
		wantDebug bool
	}{
		{"error level hides info", zerolog.ErrorLevel, false, false},
		{"info level shows info", zerolog.InfoLevel, true, false},
		{"debug level shows both", zerolog.DebugLevel, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(&buf, tt.level, false)

			logger.Info().Msg("info line")
			logger.Debug().Msg("debug line")

			assert.Equal(t, tt.wantInfo, bytes.Contains(buf.Bytes(), []byte("info line")))
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug line")))
		})
	}
}

func TestNewNoColor(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, zerolog.InfoLevel, false)
	logger.Info().Str("peer", "node-a").Msg("ready")

	out := buf.String()
	assert.Contains(t, out, "INF")
	assert.Contains(t, out, "peer=node-a")
	assert.NotContains(t, out, "\x1b[")
}

func TestSetupInstallsGlobalLogger(t *testing.T) {
	previous, previousCtx := zlog.Logger, zerolog.DefaultContextLogger
	t.Cleanup(func() {
		zlog.Logger = previous
		zerolog.DefaultContextLogger = previousCtx
	})

	var buf bytes.Buffer
	Setup(&buf, zerolog.WarnLevel, false)
	zlog.Warn().Msg("global warning")

	assert.Contains(t, buf.String(), "global warning")
}
