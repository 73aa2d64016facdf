package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	fmterrors "csfmt/internal/errors"
	"csfmt/internal/format"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", cfg.Version, CurrentVersion)
	}
	if cfg.Style.IndentWidth != 4 {
		t.Errorf("IndentWidth = %d, want 4", cfg.Style.IndentWidth)
	}
	if cfg.Style.StandardPrefix != "System" {
		t.Errorf("StandardPrefix = %q, want %q", cfg.Style.StandardPrefix, "System")
	}
	if !reflect.DeepEqual(cfg.Style.ModifierOrder, format.DefaultModifierOrder) {
		t.Errorf("ModifierOrder = %v", cfg.Style.ModifierOrder)
	}
	if !reflect.DeepEqual(cfg.Files.Include, []string{".cs"}) {
		t.Errorf("Include = %v", cfg.Files.Include)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		field   string
		wantErr bool
	}{
		{"default", func(*Config) {}, "", false},
		{"bad version", func(c *Config) { c.Version = 7 }, "version", true},
		{"indent out of range", func(c *Config) { c.Style.IndentWidth = 40 }, "style", true},
		{"duplicate modifier", func(c *Config) { c.Style.ModifierOrder = []string{"public", "public"} }, "style", true},
		{"no extensions", func(c *Config) { c.Files.Include = nil }, "files.include", true},
		{"extension without dot", func(c *Config) { c.Files.Include = []string{"cs"} }, "files.include", true},
		{"negative jobs", func(c *Config) { c.Files.Jobs = -1 }, "files.jobs", true},
		{"unknown level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level", true},
		{"unknown format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format", true},
		{"level is case insensitive", func(c *Config) { c.Logging.Level = "DEBUG" }, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			cerr, ok := err.(*ConfigError)
			if !ok {
				t.Fatalf("Validate() error type = %T, want *ConfigError", err)
			}
			if cerr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cerr.Field, tt.field)
			}
		})
	}
}

func TestConfigError_Error(t *testing.T) {
	err := &ConfigError{Field: "files.jobs", Message: "must not be negative"}
	want := "config error in field 'files.jobs': must not be negative"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestLoadConfig_Default(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("LoadConfig() = %+v, want defaults", cfg)
	}
}

func TestLoadConfig_FromTOML(t *testing.T) {
	dir := t.TempDir()
	content := `version = 1

[style]
indentWidth = 2
standardPrefix = "Microsoft"

[files]
exclude = ["generated"]
jobs = 3
`
	if err := os.WriteFile(filepath.Join(dir, ".csfmt.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Style.IndentWidth != 2 {
		t.Errorf("IndentWidth = %d, want 2", cfg.Style.IndentWidth)
	}
	if cfg.Style.StandardPrefix != "Microsoft" {
		t.Errorf("StandardPrefix = %q, want %q", cfg.Style.StandardPrefix, "Microsoft")
	}
	if !reflect.DeepEqual(cfg.Files.Exclude, []string{"generated"}) {
		t.Errorf("Exclude = %v", cfg.Files.Exclude)
	}
	if cfg.Files.Jobs != 3 {
		t.Errorf("Jobs = %d, want 3", cfg.Files.Jobs)
	}
	// Unset keys keep their defaults.
	if !reflect.DeepEqual(cfg.Files.Include, []string{".cs"}) {
		t.Errorf("Include = %v, want default", cfg.Files.Include)
	}
}

func TestLoadConfig_FromYAML(t *testing.T) {
	dir := t.TempDir()
	content := "version: 1\nstyle:\n  useTabs: true\nlogging:\n  level: debug\n"
	if err := os.WriteFile(filepath.Join(dir, ".csfmt.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !cfg.Style.UseTabs {
		t.Error("UseTabs = false, want true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CSFMT_STYLE_INDENTWIDTH", "8")
	t.Setenv("CSFMT_LOGGING_LEVEL", "warn")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Style.IndentWidth != 8 {
		t.Errorf("IndentWidth = %d, want 8", cfg.Style.IndentWidth)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".csfmt.json"), []byte(`{"version": 9}`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(dir)
	if !fmterrors.Is(err, fmterrors.ConfigInvalid) {
		t.Fatalf("LoadConfig() error = %v, want CONFIG_INVALID", err)
	}
	if !strings.Contains(err.Error(), "version") {
		t.Errorf("error %q does not name the field", err)
	}
}

func TestLoadConfig_Malformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".csfmt.json"), []byte(`{not json`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(dir); !fmterrors.Is(err, fmterrors.ConfigInvalid) {
		t.Errorf("LoadConfig() error = %v, want CONFIG_INVALID", err)
	}
}

func TestLoadConfigFromPath_NotFound(t *testing.T) {
	_, err := LoadConfigFromPath(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("LoadConfigFromPath() should fail for a missing file")
	}
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Style.IndentWidth = 2
	cfg.Files.Exclude = []string{"gen"}

	path, err := cfg.Save(dir)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if filepath.Base(path) != FileName {
		t.Errorf("Save() path = %q, want %s", path, FileName)
	}

	loaded, err := LoadConfigFromPath(path)
	if err != nil {
		t.Fatalf("LoadConfigFromPath() error = %v", err)
	}
	if !reflect.DeepEqual(loaded, cfg) {
		t.Errorf("round trip mismatch\n got: %+v\nwant: %+v", loaded, cfg)
	}
}

func TestConfig_FormatStyle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Style.UseTabs = true

	style := cfg.FormatStyle()
	if !style.UseTabs || style.IndentWidth != 4 || style.StandardPrefix != "System" {
		t.Errorf("FormatStyle() = %+v", style)
	}

	style.ModifierOrder[0] = "changed"
	if cfg.Style.ModifierOrder[0] != "public" {
		t.Error("FormatStyle() shares the modifier slice with the config")
	}
}
