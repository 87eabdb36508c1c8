package main

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/shibukawa/dberrors"
)

// newLogger builds the command logger. Console format is human readable,
// anything else writes JSON lines.
func newLogger(cfg dberrors.LogConfig, verbose bool, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if verbose {
		level = zerolog.DebugLevel
	}

	if cfg.Format == dberrors.LogFormatConsole {
		output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
		return zerolog.New(output).Level(level).With().Timestamp().Logger()
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
