package session

import (
	"fmt"

	"github.com/roach88/tally/internal/history"
	"github.com/roach88/tally/internal/settings"
)

// EditHistory replaces the history with rows from an editor. See
// history.ParseGrid for how rows are accepted. On error nothing changes.
func (s *Session) EditHistory(rows []history.GridRow) (int, error) {
	n, err := s.store.ApplyGrid(rows)
	if err != nil {
		return n, fmt.Errorf("edit history: %w", err)
	}
	s.logger.Debug("history edited", "count", n)
	return n, nil
}

// SettingsForm returns the current settings as an editable form.
func (s *Session) SettingsForm() settings.Form {
	return settings.FormOf(s.Settings())
}

// EditSettings validates a submitted form and applies the operands, last
// result and history count. The date and max-entries fields are validated
// but not applied.
func (s *Session) EditSettings(f settings.Form) (settings.Settings, error) {
	parsed, err := settings.ParseForm(f, s.store.Capacity())
	if err != nil {
		return settings.Settings{}, fmt.Errorf("edit settings: %w", err)
	}
	if err := s.store.SetCount(parsed.TotalCalculations); err != nil {
		return settings.Settings{}, fmt.Errorf("edit settings: %w", err)
	}
	s.first = parsed.FirstNumber
	s.second = parsed.SecondNumber
	s.last = parsed.LastResult
	return parsed, nil
}
