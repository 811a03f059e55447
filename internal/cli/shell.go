package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/calc"
	"github.com/roach88/tally/internal/history"
	"github.com/roach88/tally/internal/session"
	"github.com/roach88/tally/internal/settings"
)

const shellPrompt = "tally> "

const shellHelp = `Commands:
  <a> <op> <b>      calculate, e.g. 12 x 3 or 7 / 2
  history           list the history slots
  log               list the calculation log
  clear-log         empty the calculation log
  save              write the history file
  load              reload the history file
  save-settings     write the settings file
  load-settings     reload the settings file
  state             show operands, last result and count
  help              show this help
  quit, exit        leave the shell`

// NewShellCommand creates the interactive shell command.
func NewShellCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive calculator session",
		Long: `Start an interactive calculator session reading one command per line.

The calculation log is kept for the lifetime of the shell only. When
autosave is configured both data files are written on exit.

` + shellHelp,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := runShell(cmd.Context(), a.session, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				return a.out.Fail(ExitCommandError, ErrCodeReadFailed, err.Error(), nil)
			}
			if a.cfg.Autosave {
				return a.persist()
			}
			return nil
		},
	}
}

// runShell reads commands from in until EOF or quit. Only reading the input
// can fail the shell; command errors are printed and the loop continues.
func runShell(ctx context.Context, sess *session.Session, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), math.MaxInt)
	fmt.Fprint(out, shellPrompt)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		fields := strings.Fields(sc.Text())
		if len(fields) > 0 {
			if quit := shellExec(ctx, sess, fields, out); quit {
				break
			}
		}
		fmt.Fprint(out, shellPrompt)
	}
	fmt.Fprintln(out)
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read shell input: %w", err)
	}
	return nil
}

// shellExec runs one command line and reports whether the shell should
// exit.
func shellExec(ctx context.Context, sess *session.Session, fields []string, out io.Writer) bool {
	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		return true
	case "help", "?":
		fmt.Fprintln(out, shellHelp)
	case "history":
		rows := sess.History().Preview(sess.History().Count())
		if len(rows) == 0 {
			fmt.Fprintln(out, "No calculations stored yet.")
		}
		for _, line := range rows {
			fmt.Fprintln(out, line)
		}
	case "log":
		lines := sess.Log().Lines()
		if len(lines) == 0 {
			fmt.Fprintln(out, "Log is empty.")
		}
		for _, line := range lines {
			fmt.Fprintln(out, line)
		}
	case "clear-log":
		sess.ClearLog()
		fmt.Fprintln(out, "Log cleared.")
	case "save":
		report, err := sess.SaveHistory()
		if err != nil {
			fmt.Fprintf(out, "Error saving history: %v\n", err)
			break
		}
		fmt.Fprintf(out, "History saved to %s\n", report.Path)
		for _, line := range report.Preview {
			fmt.Fprintln(out, line)
		}
	case "load":
		n, err := sess.LoadHistory()
		if err != nil {
			fmt.Fprintf(out, "Error loading history: %v\n", shellError(err))
			break
		}
		fmt.Fprintf(out, "Loaded %d calculations\n", n)
	case "save-settings":
		path, err := sess.SaveSettings()
		if err != nil {
			fmt.Fprintf(out, "Error saving settings: %v\n", err)
			break
		}
		fmt.Fprintf(out, "Settings saved to %s\n", path)
	case "load-settings":
		if _, err := sess.LoadSettings(); err != nil {
			fmt.Fprintf(out, "Error loading settings: %v\n", shellError(err))
			break
		}
		fmt.Fprintln(out, "Settings loaded.")
		printState(out, sess.State())
	case "state":
		printState(out, sess.State())
	default:
		shellCalc(ctx, sess, fields, out)
	}
	return false
}

func shellCalc(ctx context.Context, sess *session.Session, fields []string, out io.Writer) {
	if len(fields) != 3 {
		fmt.Fprintf(out, "Unknown command %q. Type help for a list.\n", fields[0])
		return
	}
	op, err := calc.ParseOp(fields[1])
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	res := sess.Calculate(ctx, op, fields[0], fields[2])
	if !res.OK() {
		fmt.Fprintf(out, "Error: %s\n", res.Message)
		return
	}
	fmt.Fprintf(out, "Result: %s\n", res.Description())
}

func printState(out io.Writer, st session.State) {
	fmt.Fprintf(out, "%s=%s %s=%s %s=%s count=%d/%d\n",
		settings.KeyFirstNumber, calc.FormatNumber(st.FirstNumber),
		settings.KeySecondNumber, calc.FormatNumber(st.SecondNumber),
		settings.KeyLastResult, calc.FormatNumber(st.LastResult),
		st.Count, st.Capacity)
}

// shellError shortens the errors a user is expected to hit.
func shellError(err error) error {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return session.ErrNotFound
	case errors.Is(err, history.ErrInvalidFormat):
		return history.ErrInvalidFormat
	}
	return err
}
