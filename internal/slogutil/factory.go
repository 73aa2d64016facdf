package slogutil

import (
	"io"
	"log/slog"

	"csfmt/internal/config"
)

// Flags carries the logging flags given on the command line.
type Flags struct {
	Verbosity int
	Quiet     bool
}

// set reports whether any flag overrides the configured level.
func (f Flags) set() bool {
	return f.Verbosity > 0 || f.Quiet
}

// FromConfig creates the CLI logger. Precedence: CLI flags > config file.
func FromConfig(w io.Writer, cfg *config.Config, flags Flags) *slog.Logger {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return NewLogger(w, effectiveLevel(cfg, flags), cfg.Logging.Format)
}

func effectiveLevel(cfg *config.Config, flags Flags) slog.Level {
	if flags.set() {
		return LevelFromVerbosity(flags.Verbosity, flags.Quiet)
	}
	return LevelFromString(cfg.Logging.Level)
}
