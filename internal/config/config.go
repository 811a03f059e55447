// Package config resolves tally's runtime configuration.
//
// Sources are merged in increasing precedence: built-in defaults, an
// optional config file (.toml, .yaml/.yml or .cue), TALLY_* environment
// variables, then command-line flags applied by the caller. The merged
// result is checked against an embedded CUE schema.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/tally/internal/history"
)

// Default file names, relative to DataDir.
const (
	DefaultHistoryFile  = "CalculatorArrayData.txt"
	DefaultSettingsFile = "CalculatorSettings.txt"
)

// Config is the resolved configuration.
type Config struct {
	DataDir      string `json:"data_dir" yaml:"data_dir" toml:"data_dir"`
	HistoryFile  string `json:"history_file" yaml:"history_file" toml:"history_file"`
	SettingsFile string `json:"settings_file" yaml:"settings_file" toml:"settings_file"`
	Capacity     int    `json:"capacity" yaml:"capacity" toml:"capacity"`
	Journal      string `json:"journal" yaml:"journal" toml:"journal"`
	Autosave     bool   `json:"autosave" yaml:"autosave" toml:"autosave"`
	LogLevel     string `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataDir:      defaultDataDir(),
		HistoryFile:  DefaultHistoryFile,
		SettingsFile: DefaultSettingsFile,
		Capacity:     history.DefaultCapacity,
		LogLevel:     "info",
	}
}

// defaultDataDir prefers ~/Documents, falling back to the home directory
// and finally the working directory.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	docs := filepath.Join(home, "Documents")
	if info, err := os.Stat(docs); err == nil && info.IsDir() {
		return docs
	}
	return home
}

// Load resolves configuration from defaults, the file at path (if not
// empty) and the process environment.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadWithEnv is Load with an injectable environment.
func LoadWithEnv(path string, lookup LookupFunc) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// HistoryPath returns the absolute or DataDir-relative history file path.
func (c Config) HistoryPath() string {
	return c.resolve(c.HistoryFile)
}

// SettingsPath returns the absolute or DataDir-relative settings file path.
func (c Config) SettingsPath() string {
	return c.resolve(c.SettingsFile)
}

// JournalPath returns the journal database location, or "" when the
// journal is disabled. A relative Journal resolves against DataDir; the
// --journal flag makes its value absolute before it gets here.
func (c Config) JournalPath() string {
	if c.Journal == "" {
		return ""
	}
	return c.resolve(c.Journal)
}

func (c Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// Level maps LogLevel to a slog level. Unknown names map to Info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
