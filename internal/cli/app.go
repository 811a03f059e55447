package cli

import (
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/calc"
	"github.com/roach88/tally/internal/config"
	"github.com/roach88/tally/internal/history"
	"github.com/roach88/tally/internal/journal"
	"github.com/roach88/tally/internal/session"
	"github.com/roach88/tally/internal/settings"
)

// app is the per-invocation wiring shared by every command: resolved
// config, logger, optional journal and the session restored from disk.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	journal *journal.Journal
	session *session.Session
	out     *OutputFormatter
}

// openApp resolves configuration, opens the journal when one is configured
// and silently restores the session from the data files.
func openApp(opts *RootOptions, cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	if opts.Journal != "" {
		// Flag paths are relative to the working directory, not data_dir.
		path, err := filepath.Abs(opts.Journal)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid journal path", err)
		}
		cfg.Journal = path
	}

	level := cfg.Level()
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))

	a := &app{
		cfg:    cfg,
		logger: logger,
		out: &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   opts.Verbose,
		},
	}

	sessOpts := session.Options{
		Capacity:     cfg.Capacity,
		HistoryPath:  cfg.HistoryPath(),
		SettingsPath: cfg.SettingsPath(),
		Logger:       logger,
	}

	if path := cfg.JournalPath(); path != "" {
		logger.Debug("opening journal", "path", path)
		j, err := journal.Open(path)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		a.journal = j
		sessOpts.Journal = j
	}

	a.session = session.Open(sessOpts)
	logger.Debug("session ready",
		"history", cfg.HistoryPath(),
		"settings", cfg.SettingsPath(),
		"count", a.session.State().Count)
	return a, nil
}

// Close releases the journal.
func (a *app) Close() {
	if a.journal == nil {
		return
	}
	if err := a.journal.Close(); err != nil {
		a.logger.Error("error closing journal", "error", err)
	}
}

// outcomeCode maps a failed calculation to its error code.
func outcomeCode(st calc.Status) string {
	switch st {
	case calc.StatusInvalidOperand:
		return ErrCodeInvalidOperand
	case calc.StatusDivideByZero:
		return ErrCodeDivideByZero
	case calc.StatusOverflow:
		return ErrCodeOverflow
	}
	return ErrCodeGeneric
}

// failFile reports a load/save/edit error with the matching code and exit
// status. Errors with no specific code are reported as fallback.
func (a *app) failFile(err error, fallback string) error {
	var (
		rowErr   *history.RowError
		fieldErr *settings.FieldError
	)
	switch {
	case errors.Is(err, session.ErrNotFound):
		return a.out.Fail(ExitCommandError, ErrCodeNotFound, err.Error(), nil)
	case errors.Is(err, history.ErrInvalidFormat):
		return a.out.Fail(ExitFailure, ErrCodeInvalidFormat, err.Error(), nil)
	case errors.As(err, &rowErr):
		return a.out.Fail(ExitFailure, ErrCodeInvalidEdit, err.Error(), map[string]int{"row": rowErr.Row})
	case errors.As(err, &fieldErr):
		return a.out.Fail(ExitFailure, ErrCodeInvalidEdit, err.Error(), map[string]string{"field": fieldErr.Key})
	}
	return a.out.Fail(ExitCommandError, fallback, err.Error(), nil)
}

// persist saves both files after a mutating command.
func (a *app) persist() error {
	if err := a.session.Persist(); err != nil {
		return a.failFile(err, ErrCodeWriteFailed)
	}
	a.out.VerboseLog("saved %s and %s", a.session.HistoryPath(), a.session.SettingsPath())
	return nil
}
