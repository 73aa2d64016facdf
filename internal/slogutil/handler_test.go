package slogutil

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"csfmt/internal/config"
)

func TestTextHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo, "human")

	logger.Info("formatted file", "path", "src/A.cs", "changed", true)

	want := "[info] formatted file | path=src/A.cs changed=true\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestTextHandler_QuotesValues(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo, "human")

	logger.Info("msg", "path", "My Documents/A.cs", "empty", "")

	if got := buf.String(); !strings.Contains(got, `path="My Documents/A.cs" empty=""`) {
		t.Errorf("output = %q", got)
	}
}

func TestTextHandler_Levels(t *testing.T) {
	tests := []struct {
		logFunc  func(*slog.Logger)
		expected string
	}{
		{func(l *slog.Logger) { l.Debug("debug") }, "[debug]"},
		{func(l *slog.Logger) { l.Info("info") }, "[info]"},
		{func(l *slog.Logger) { l.Warn("warn") }, "[warn]"},
		{func(l *slog.Logger) { l.Error("error") }, "[error]"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(NewLogger(&buf, slog.LevelDebug, "human"))
			if !strings.HasPrefix(buf.String(), tt.expected) {
				t.Errorf("expected %s prefix, got: %s", tt.expected, buf.String())
			}
		})
	}
}

func TestTextHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn, "human")

	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("info record written at warn level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("warn record missing")
	}
}

func TestTextHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo, "human").With("run", "abc").WithGroup("file")

	logger.Info("done", "path", "A.cs")

	want := "[info] done | run=abc file.path=A.cs\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestTextHandler_Time(t *testing.T) {
	var buf bytes.Buffer
	h := NewTextHandler(&buf, Options{Level: slog.LevelInfo, Time: true})

	r := slog.NewRecord(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), slog.LevelInfo, "tick", 0)
	if err := h.Handle(t.Context(), r); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "2024-05-01T12:00:00Z [info] tick\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, slog.LevelInfo, "json").Info("hello", "n", 1)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if rec["msg"] != "hello" || rec["n"] != float64(1) {
		t.Errorf("record = %v", rec)
	}
}

func TestNewDiscardLogger(t *testing.T) {
	logger := NewDiscardLogger()
	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Error("discard logger should not enable any level")
	}
}

func TestLevelFromString(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		" off ":   levelSilent,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := LevelFromString(in); got != want {
			t.Errorf("LevelFromString(%q) = %v, want %v", in, got, want)
		}
	}
	if _, ok := ParseLevel("bogus"); ok {
		t.Error("ParseLevel(bogus) reported a known level")
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		quiet     bool
		want      slog.Level
	}{
		{0, false, slog.LevelWarn},
		{1, false, slog.LevelInfo},
		{2, false, slog.LevelDebug},
		{5, false, slog.LevelDebug},
		{-1, false, slog.LevelWarn},
		{2, true, levelSilent},
	}
	for _, tt := range tests {
		if got := LevelFromVerbosity(tt.verbosity, tt.quiet); got != tt.want {
			t.Errorf("LevelFromVerbosity(%d, %v) = %v, want %v", tt.verbosity, tt.quiet, got, tt.want)
		}
	}
}

func TestFromConfig_Precedence(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.Level = "error"

	tests := []struct {
		name  string
		flags Flags
		want  slog.Level
	}{
		{"config level", Flags{}, slog.LevelError},
		{"verbose flag wins", Flags{Verbosity: 2}, slog.LevelDebug},
		{"quiet flag wins", Flags{Quiet: true}, levelSilent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := effectiveLevel(cfg, tt.flags); got != tt.want {
				t.Errorf("effectiveLevel() = %v, want %v", got, tt.want)
			}
		})
	}

	var buf bytes.Buffer
	FromConfig(&buf, nil, Flags{}).Warn("default config")
	if !strings.Contains(buf.String(), "[warn] default config") {
		t.Errorf("nil config logger output = %q", buf.String())
	}
}
