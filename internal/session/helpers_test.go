package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/tally/internal/journal"
	"github.com/roach88/tally/internal/testutil"
)

var epoch = time.Date(2026, 10, 15, 9, 30, 0, 0, time.Local)

// newTestSession creates a session whose files live in a temp dir.
func newTestSession(t *testing.T, capacity int) *Session {
	t.Helper()
	return New(testOptions(t, t.TempDir(), capacity))
}

func testOptions(t *testing.T, dir string, capacity int) Options {
	t.Helper()
	return Options{
		Capacity:     capacity,
		HistoryPath:  filepath.Join(dir, "CalculatorArrayData.txt"),
		SettingsPath: filepath.Join(dir, "CalculatorSettings.txt"),
		Now:          testutil.NewStepClock(epoch, time.Second).Now,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// memoryJournal records entries in memory, optionally failing.
type memoryJournal struct {
	entries []journal.Entry
	fail    bool
}

func (m *memoryJournal) Record(_ context.Context, e journal.Entry) (journal.Entry, error) {
	if m.fail {
		return journal.Entry{}, errors.New("journal unavailable")
	}
	m.entries = append(m.entries, e)
	return e, nil
}
