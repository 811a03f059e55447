package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/roach88/tally/internal/history"
	"github.com/roach88/tally/internal/settings"
)

// ErrNotFound is returned by the interactive loads when the file is absent.
var ErrNotFound = errors.New("file not found")

// previewSize is how many records SaveHistory reports back.
const previewSize = 5

// SaveReport describes a completed history save.
type SaveReport struct {
	Path    string   `json:"path"`
	Count   int      `json:"count"`
	Preview []string `json:"preview"`
}

// SaveHistory writes the populated history slots to the history file,
// replacing it. The write is not atomic.
func (s *Session) SaveHistory() (SaveReport, error) {
	if err := writeFile(s.historyPath, history.Marshal(s.store)); err != nil {
		return SaveReport{}, fmt.Errorf("save history: %w", err)
	}
	s.logger.Debug("history saved", "path", s.historyPath, "count", s.store.Count())
	return SaveReport{
		Path:    s.historyPath,
		Count:   s.store.Count(),
		Preview: s.store.Preview(previewSize),
	}, nil
}

// LoadHistory replaces the history with the contents of the history file
// and returns the new count. A missing file yields ErrNotFound and an
// invalid header yields history.ErrInvalidFormat; in both cases the
// history is unchanged.
func (s *Session) LoadHistory() (int, error) {
	f, err := os.Open(s.historyPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s.store.Count(), fmt.Errorf("load history %s: %w", s.historyPath, ErrNotFound)
		}
		return s.store.Count(), fmt.Errorf("load history: %w", err)
	}
	defer f.Close()

	n, err := history.Decode(f, s.store)
	if err != nil {
		return n, fmt.Errorf("load history %s: %w", s.historyPath, err)
	}
	s.logger.Debug("history loaded", "path", s.historyPath, "count", n)
	return n, nil
}

// LoadHistorySilent is LoadHistory for startup: every failure is swallowed.
func (s *Session) LoadHistorySilent() {
	if _, err := s.LoadHistory(); err != nil {
		s.logger.Debug("silent history load skipped", "error", err)
	}
}

// Settings returns the settings record as it would be saved now.
func (s *Session) Settings() settings.Settings {
	return settings.Settings{
		LastCalculationDate: s.now(),
		TotalCalculations:   s.store.Count(),
		MaxHistoryEntries:   s.store.Capacity(),
		FirstNumber:         s.first,
		SecondNumber:        s.second,
		LastResult:          s.last,
	}
}

// SaveSettings writes the settings file, replacing it.
func (s *Session) SaveSettings() (string, error) {
	if err := writeFile(s.settingsPath, settings.Marshal(s.Settings())); err != nil {
		return "", fmt.Errorf("save settings: %w", err)
	}
	s.logger.Debug("settings saved", "path", s.settingsPath)
	return s.settingsPath, nil
}

// LoadSettings reads the settings file and applies LastResult and
// TotalCalculations when present and valid. A missing file yields
// ErrNotFound.
func (s *Session) LoadSettings() (settings.Update, error) {
	f, err := os.Open(s.settingsPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return settings.Update{}, fmt.Errorf("load settings %s: %w", s.settingsPath, ErrNotFound)
		}
		return settings.Update{}, fmt.Errorf("load settings: %w", err)
	}
	defer f.Close()

	u, err := settings.Parse(f, s.store.Capacity())
	if err != nil {
		return settings.Update{}, fmt.Errorf("load settings %s: %w", s.settingsPath, err)
	}
	s.applyUpdate(u)
	s.logger.Debug("settings loaded", "path", s.settingsPath)
	return u, nil
}

// LoadSettingsSilent is LoadSettings for startup: every failure is
// swallowed.
func (s *Session) LoadSettingsSilent() {
	if _, err := s.LoadSettings(); err != nil {
		s.logger.Debug("silent settings load skipped", "error", err)
	}
}

func (s *Session) applyUpdate(u settings.Update) {
	if u.LastResult != nil {
		s.last = *u.LastResult
	}
	if u.TotalCalculations != nil {
		// Parse already bounded the value by capacity.
		_ = s.store.SetCount(*u.TotalCalculations)
	}
}

// Persist saves the history file and then the settings file.
func (s *Session) Persist() error {
	if _, err := s.SaveHistory(); err != nil {
		return err
	}
	_, err := s.SaveSettings()
	return err
}

func writeFile(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
