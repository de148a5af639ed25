// Package logging constructs the zerolog.Logger used throughout the
// engine, following the teacher dependency kbukum-gokit's
// level/format-driven logger.New, but returning a plain
// zerolog.Logger rather than a bespoke wrapper type since every
// engine component (executor.Sequential, executor.Parallel,
// schedule.Scheduler) already takes a zerolog.Logger directly.
package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/stevelan1995/stepflow/pkg/config"
)

// New builds a zerolog.Logger from cfg. An unrecognized Level falls
// back to info.
func New(cfg config.Logging) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var base zerolog.Logger
	if strings.EqualFold(cfg.Format, "console") {
		base = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"})
	} else {
		base = zerolog.New(os.Stdout)
	}

	return base.Level(level).With().Timestamp().Logger()
}

// Nop returns a logger that discards everything, the engine's default
// when no logging.New call has been made.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
