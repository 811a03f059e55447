package config

import (
	"fmt"
	"strconv"
)

// Environment variables consulted by Load.
const (
	EnvDataDir  = "TALLY_DATA_DIR"
	EnvCapacity = "TALLY_CAPACITY"
	EnvJournal  = "TALLY_JOURNAL"
	EnvLogLevel = "TALLY_LOG_LEVEL"
	EnvAutosave = "TALLY_AUTOSAVE"
)

// applyEnv overlays TALLY_* variables. An empty value counts as set.
func applyEnv(cfg *Config, lookup LookupFunc) error {
	if v, ok := lookup(EnvDataDir); ok {
		cfg.DataDir = v
	}
	if v, ok := lookup(EnvJournal); ok {
		cfg.Journal = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvCapacity); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCapacity, err)
		}
		cfg.Capacity = n
	}
	if v, ok := lookup(EnvAutosave); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAutosave, err)
		}
		cfg.Autosave = b
	}
	return nil
}
