// Package logging configures the global zerolog logger.
package logging

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup points the global logger at w. Verbose enables debug output; jsonLogs
// writes one JSON object per line instead of the console format.
func Setup(w io.Writer, verbose, jsonLogs bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if !jsonLogs {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

// NewRun returns a run identifier and a logger tagged with it.
func NewRun() (string, zerolog.Logger) {
	id := uuid.NewString()
	return id, log.With().Str("run", id).Logger()
}
