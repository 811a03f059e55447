// Package session ties the calculator core together for one process.
//
// A Session owns the history store, the chronological log, the last
// operands and result, and the locations of the two persisted files. Every
// front end (one-shot commands, the shell, batch scripts) drives the same
// Session methods; none of them keep state of their own.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/tally/internal/calc"
	"github.com/roach88/tally/internal/history"
	"github.com/roach88/tally/internal/journal"
)

// Recorder receives every successful calculation. *journal.Journal
// implements it.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) (journal.Entry, error)
}

// Options configures a Session.
type Options struct {
	Capacity     int
	HistoryPath  string
	SettingsPath string

	// Now defaults to time.Now.
	Now func() time.Time

	// Journal is optional.
	Journal Recorder

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Session is the calculator state for one process.
type Session struct {
	store *history.Store
	log   *history.Log

	first  float64
	second float64
	last   float64

	historyPath  string
	settingsPath string
	now          func() time.Time
	journal      Recorder
	logger       *slog.Logger
}

// New creates a session with empty history. Nothing is read from disk.
func New(opts Options) *Session {
	s := &Session{
		store:        history.New(opts.Capacity),
		log:          history.NewLog(),
		historyPath:  opts.HistoryPath,
		settingsPath: opts.SettingsPath,
		now:          opts.Now,
		journal:      opts.Journal,
		logger:       opts.Logger,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Open creates a session and silently restores the history file and then
// the settings file.
func Open(opts Options) *Session {
	s := New(opts)
	s.LoadHistorySilent()
	s.LoadSettingsSilent()
	return s
}

// State is a read-only snapshot of the calculator.
type State struct {
	FirstNumber  float64 `json:"first_number"`
	SecondNumber float64 `json:"second_number"`
	LastResult   float64 `json:"last_result"`
	Count        int     `json:"count"`
	Capacity     int     `json:"capacity"`
	LogEntries   int     `json:"log_entries"`
}

// State returns the current snapshot.
func (s *Session) State() State {
	return State{
		FirstNumber:  s.first,
		SecondNumber: s.second,
		LastResult:   s.last,
		Count:        s.store.Count(),
		Capacity:     s.store.Capacity(),
		LogEntries:   s.log.Len(),
	}
}

// History returns the session's history store.
func (s *Session) History() *history.Store {
	return s.store
}

// Log returns the session's chronological log.
func (s *Session) Log() *history.Log {
	return s.log
}

// ClearLog empties the chronological log. The history store is untouched.
func (s *Session) ClearLog() {
	s.log.Clear()
}

// HistoryPath returns the history file location.
func (s *Session) HistoryPath() string {
	return s.historyPath
}

// SettingsPath returns the settings file location.
func (s *Session) SettingsPath() string {
	return s.settingsPath
}

// Calculate evaluates first <op> second. On success the operands and
// result become the session's last values, the result is appended to the
// history and the log, and the journal (if any) is told. A journal failure
// is logged and does not affect the outcome. On failure nothing changes.
func (s *Session) Calculate(ctx context.Context, op calc.Op, first, second string) calc.Outcome {
	out := calc.Evaluate(op, first, second)
	if !out.OK() {
		s.logger.Debug("calculation rejected", "op", op, "status", out.Status, "message", out.Message)
		return out
	}

	desc := out.Description()
	at := s.now()

	s.first, s.second, s.last = out.First, out.Second, out.Result
	s.store.Append(out.Result, desc)
	s.log.Add(at, desc)

	if s.journal != nil {
		if _, err := s.journal.Record(ctx, journal.EntryFromOutcome(out, at)); err != nil {
			s.logger.Warn("journal record failed", "error", err)
		}
	}

	s.logger.Debug("calculated", "description", desc, "count", s.store.Count())
	return out
}
