package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/tally/internal/history"
)

// HistoryListing is the JSON payload of history list and grid.
type HistoryListing struct {
	Count    int               `json:"count"`
	Capacity int               `json:"capacity"`
	Rows     []history.GridRow `json:"rows"`
}

// NewHistoryCommand creates the history command group.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect, save, load and edit the calculation history",
		Long: `Inspect, save, load and edit the bounded calculation history.

The history holds at most "capacity" records. When it is full the next
calculation starts overwriting from the first slot again.`,
	}

	cmd.AddCommand(newHistoryListCommand(rootOpts))
	cmd.AddCommand(newHistorySaveCommand(rootOpts))
	cmd.AddCommand(newHistoryLoadCommand(rootOpts))
	cmd.AddCommand(newHistoryGridCommand(rootOpts))
	cmd.AddCommand(newHistoryImportCommand(rootOpts))

	return cmd
}

func newHistoryListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List the populated history slots",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(rootOpts, cmd)
		},
	}
}

func runHistoryList(opts *RootOptions, cmd *cobra.Command) error {
	a, err := openApp(opts, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store := a.session.History()
	listing := HistoryListing{
		Count:    store.Count(),
		Capacity: store.Capacity(),
		Rows:     store.Grid(),
	}
	return a.out.Render(listing, func(w io.Writer) {
		if listing.Count == 0 {
			fmt.Fprintln(w, "No calculations stored yet.")
			return
		}
		for i, row := range listing.Rows {
			fmt.Fprintf(w, "%d. %s (Result: %s)\n", i+1, row.Operation, row.Result)
		}
		fmt.Fprintf(w, "%d/%d slots used\n", listing.Count, listing.Capacity)
	})
}

func newHistorySaveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "save",
		Short:         "Write the history file",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistorySave(rootOpts, cmd)
		},
	}
}

func runHistorySave(opts *RootOptions, cmd *cobra.Command) error {
	a, err := openApp(opts, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.session.SaveHistory()
	if err != nil {
		return a.failFile(err, ErrCodeWriteFailed)
	}
	return a.out.Render(report, func(w io.Writer) {
		fmt.Fprintf(w, "History saved to %s\n", report.Path)
		if report.Count == 0 {
			fmt.Fprintln(w, "No calculations stored yet.")
			return
		}
		for _, line := range report.Preview {
			fmt.Fprintln(w, line)
		}
		if report.Count > len(report.Preview) {
			fmt.Fprintf(w, "... and %d more\n", report.Count-len(report.Preview))
		}
	})
}

func newHistoryLoadCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Reload the history file and report the result",
		Long: `Reload the history file and report how many records were restored.

Startup already loads the file silently; this command reports a missing
file or an invalid header instead of ignoring it.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryLoad(rootOpts, cmd)
		},
	}
}

func runHistoryLoad(opts *RootOptions, cmd *cobra.Command) error {
	a, err := openApp(opts, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.session.LoadHistory()
	if err != nil {
		return a.failFile(err, ErrCodeReadFailed)
	}
	data := map[string]interface{}{
		"path":  a.session.HistoryPath(),
		"count": n,
	}
	return a.out.Render(data, func(w io.Writer) {
		fmt.Fprintf(w, "Loaded %d calculations from %s\n", n, a.session.HistoryPath())
	})
}

func newHistoryGridCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "grid",
		Short: "Print the history as editable YAML rows",
		Long: `Print the history as YAML rows suitable for "tally history import".

Example:
  tally history grid > rows.yaml
  $EDITOR rows.yaml
  tally history import rows.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryGrid(rootOpts, cmd)
		},
	}
}

func runHistoryGrid(opts *RootOptions, cmd *cobra.Command) error {
	a, err := openApp(opts, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	rows := a.session.History().Grid()
	if opts.Format == "json" {
		return a.out.Success(HistoryListing{
			Count:    len(rows),
			Capacity: a.session.History().Capacity(),
			Rows:     rows,
		})
	}

	enc := yaml.NewEncoder(a.out.Writer)
	enc.SetIndent(2)
	if err := enc.Encode(rows); err != nil {
		return WrapExitError(ExitFailure, "failed to encode grid", err)
	}
	return enc.Close()
}

func newHistoryImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Replace the history with rows from a YAML file",
		Long: `Replace the history with edited rows and save both data files.

Rows with an empty operation or result are skipped. A result that is not a
number rejects the whole import and nothing changes. Rows beyond the
history capacity are ignored.

File format:
  - operation: 5 + 3 = 8
    result: "8"
  - operation: 1 ÷ 4 = 0.25
    result: "0.25"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryImport(rootOpts, args[0], cmd)
		},
	}
}

func runHistoryImport(opts *RootOptions, path string, cmd *cobra.Command) error {
	a, err := openApp(opts, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	rows, err := readGrid(path)
	if err != nil {
		return a.out.Fail(ExitCommandError, ErrCodeInvalidFormat, err.Error(), nil)
	}

	n, err := a.session.EditHistory(rows)
	if err != nil {
		return a.failFile(err, ErrCodeGeneric)
	}
	if err := a.persist(); err != nil {
		return err
	}

	data := map[string]interface{}{
		"imported": n,
		"path":     a.session.HistoryPath(),
	}
	return a.out.Render(data, func(w io.Writer) {
		fmt.Fprintf(w, "History updated with %d entries\n", n)
	})
}

// readGrid decodes a YAML sequence of rows.
func readGrid(path string) ([]history.GridRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read grid: %w", err)
	}
	var rows []history.GridRow
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse grid %s: %w", path, err)
	}
	return rows, nil
}
