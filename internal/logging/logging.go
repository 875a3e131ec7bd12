// Package logging configures the zerolog logger shared by the console and the event consumer.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Setup builds a console logger writing to w at the given level and installs it
// as the global and default context logger. The returned logger is the same value.
func Setup(w io.Writer, level zerolog.Level, useColors bool) zerolog.Logger {
	logger := New(w, level, useColors)
	zlog.Logger = logger
	zerolog.DefaultContextLogger = &logger
	return logger
}

// New builds a console logger without touching global state.
func New(w io.Writer, level zerolog.Level, useColors bool) zerolog.Logger {
	writer := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !useColors,
		TimeFormat: time.TimeOnly,
	}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
