package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	fmterrors "csfmt/internal/errors"
	"csfmt/internal/format"
)

// CurrentVersion is the supported config schema version.
const CurrentVersion = 1

// FileName is the name of the config file written by Save.
const FileName = ".csfmt.toml"

// EnvPrefix prefixes environment overrides, e.g. CSFMT_STYLE_INDENTWIDTH=2.
const EnvPrefix = "CSFMT"

// Config represents the complete csfmt configuration
type Config struct {
	Version int `toml:"version" json:"version" yaml:"version" mapstructure:"version"`

	Style   StyleConfig   `toml:"style" json:"style" yaml:"style" mapstructure:"style"`
	Files   FilesConfig   `toml:"files" json:"files" yaml:"files" mapstructure:"files"`
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging" mapstructure:"logging"`
}

// StyleConfig contains the layout settings passed to the formatter
type StyleConfig struct {
	IndentWidth    int      `toml:"indentWidth" json:"indentWidth" yaml:"indentWidth" mapstructure:"indentWidth"`
	UseTabs        bool     `toml:"useTabs" json:"useTabs" yaml:"useTabs" mapstructure:"useTabs"`
	StandardPrefix string   `toml:"standardPrefix" json:"standardPrefix" yaml:"standardPrefix" mapstructure:"standardPrefix"`
	ModifierOrder  []string `toml:"modifierOrder" json:"modifierOrder" yaml:"modifierOrder" mapstructure:"modifierOrder"`
}

// FilesConfig controls file discovery and concurrency
type FilesConfig struct {
	Include []string `toml:"include" json:"include" yaml:"include" mapstructure:"include"`
	Exclude []string `toml:"exclude" json:"exclude" yaml:"exclude" mapstructure:"exclude"`
	Jobs    int      `toml:"jobs" json:"jobs" yaml:"jobs" mapstructure:"jobs"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `toml:"format" json:"format" yaml:"format" mapstructure:"format"`
	Level  string `toml:"level" json:"level" yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	style := format.DefaultStyle()
	return &Config{
		Version: CurrentVersion,
		Style: StyleConfig{
			IndentWidth:    style.IndentWidth,
			UseTabs:        style.UseTabs,
			StandardPrefix: style.StandardPrefix,
			ModifierOrder:  append([]string(nil), style.ModifierOrder...),
		},
		Files: FilesConfig{
			Include: []string{".cs"},
			Exclude: []string{"bin", "obj", ".git", ".vs", "node_modules"},
			Jobs:    0,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "warn",
		},
	}
}

func newViper() *viper.Viper {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("version", def.Version)
	v.SetDefault("style.indentWidth", def.Style.IndentWidth)
	v.SetDefault("style.useTabs", def.Style.UseTabs)
	v.SetDefault("style.standardPrefix", def.Style.StandardPrefix)
	v.SetDefault("style.modifierOrder", def.Style.ModifierOrder)
	v.SetDefault("files.include", def.Files.Include)
	v.SetDefault("files.exclude", def.Files.Exclude)
	v.SetDefault("files.jobs", def.Files.Jobs)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.level", def.Logging.Level)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig loads configuration from a .csfmt.{toml,json,yaml} file in dir.
// A missing file yields the defaults. Environment overrides apply either way.
func LoadConfig(dir string) (*Config, error) {
	v := newViper()
	v.SetConfigName(".csfmt")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmterrors.New(fmterrors.ConfigInvalid, "cannot read config", err).WithPath(dir)
		}
	}
	return unmarshal(v, v.ConfigFileUsed())
}

// LoadConfigFromPath loads configuration from an explicit file. The format
// follows the file extension.
func LoadConfigFromPath(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		code := fmterrors.ConfigInvalid
		if errors.Is(err, os.ErrNotExist) {
			code = fmterrors.IOFailure
		}
		return nil, fmterrors.New(code, "cannot read config", err).WithPath(path)
	}
	return unmarshal(v, path)
}

func unmarshal(v *viper.Viper, path string) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmterrors.New(fmterrors.ConfigInvalid, "cannot decode config", err).WithPath(path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmterrors.New(fmterrors.ConfigInvalid, "invalid config", err).WithPath(path)
	}
	return &cfg, nil
}

// Save writes the configuration to .csfmt.toml in dir
func (c *Config) Save(dir string) (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return "", fmterrors.New(fmterrors.InternalError, "cannot encode config", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmterrors.New(fmterrors.IOFailure, "cannot write config", err).WithPath(path)
	}
	return path, nil
}

// FormatStyle converts the style section into a formatter style.
func (c *Config) FormatStyle() format.Style {
	return format.Style{
		IndentWidth:    c.Style.IndentWidth,
		UseTabs:        c.Style.UseTabs,
		StandardPrefix: c.Style.StandardPrefix,
		ModifierOrder:  append([]string(nil), c.Style.ModifierOrder...),
	}
}

var (
	validLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true, "off": true}
	validFormats = map[string]bool{"human": true, "json": true}
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if err := c.FormatStyle().Validate(); err != nil {
		return &ConfigError{Field: "style", Message: err.Error()}
	}
	if len(c.Files.Include) == 0 {
		return &ConfigError{Field: "files.include", Message: "at least one extension is required"}
	}
	for _, ext := range c.Files.Include {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return &ConfigError{Field: "files.include", Message: "extension " + ext + " must start with '.'"}
		}
	}
	if c.Files.Jobs < 0 {
		return &ConfigError{Field: "files.jobs", Message: "must not be negative"}
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return &ConfigError{Field: "logging.level", Message: "unknown level " + c.Logging.Level}
	}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return &ConfigError{Field: "logging.format", Message: "unknown format " + c.Logging.Format}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
