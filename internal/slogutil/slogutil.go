package slogutil

import (
	"io"
	"log/slog"
	"strings"
)

// levelSilent is above all standard levels.
const levelSilent = slog.Level(100)

// levelNames maps accepted level names to levels; "off" silences logging.
var levelNames = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
	"off":     levelSilent,
}

// verbosityLevels is indexed by the number of -v flags.
var verbosityLevels = []slog.Level{slog.LevelWarn, slog.LevelInfo, slog.LevelDebug}

// NewLogger creates a logger writing format ("human" or "json") to w.
func NewLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(NewTextHandler(w, Options{Level: level}))
}

// NewDiscardLogger creates a logger that discards all output.
func NewDiscardLogger() *slog.Logger {
	return slog.New(NewTextHandler(io.Discard, Options{Level: levelSilent}))
}

// ParseLevel looks up a level name, case-insensitively.
func ParseLevel(s string) (slog.Level, bool) {
	level, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	return level, ok
}

// LevelFromString is ParseLevel with info as the fallback.
func LevelFromString(s string) slog.Level {
	if level, ok := ParseLevel(s); ok {
		return level
	}
	return slog.LevelInfo
}

// LevelFromVerbosity converts the -v count and --quiet into a level: warn by
// default, info with -v, debug with -vv or more. Quiet wins.
func LevelFromVerbosity(verbosity int, quiet bool) slog.Level {
	if quiet {
		return levelSilent
	}
	return verbosityLevels[min(max(verbosity, 0), len(verbosityLevels)-1)]
}
