package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/batch"
)

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "batch <file.yaml>",
		Short: "Run a YAML script of calculations",
		Long: `Run every step of a YAML script through the calculator.

Each step may carry an expectation on its status and/or result. The command
exits with status 1 when any expectation fails. With "save: true" both data
files are written after the run.

Example script:
  name: smoke
  save: true
  steps:
    - {op: "+", first: 10, second: 5, expect: {result: 15}}
    - {op: "/", first: 1, second: 0, expect: {status: divide_by_zero}}`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(rootOpts, args[0], cmd)
		},
	}
}

func runBatch(opts *RootOptions, path string, cmd *cobra.Command) error {
	a, err := openApp(opts, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	script, err := batch.Load(path)
	if err != nil {
		return a.out.Fail(ExitCommandError, ErrCodeInvalidFormat, err.Error(), nil)
	}
	a.out.VerboseLog("running %s (%d steps)", path, len(script.Steps))

	report, err := batch.Run(cmd.Context(), a.session, script)
	if err != nil {
		return a.failFile(err, ErrCodeWriteFailed)
	}

	if opts.Format == "json" {
		if err := a.out.Success(report); err != nil {
			return err
		}
	} else {
		printReport(a.out.Writer, report)
	}

	if !report.Passed() {
		if opts.Format != "json" {
			return a.out.Fail(ExitFailure, ErrCodeBatchFailed,
				fmt.Sprintf("%d of %d steps failed", report.Failed, len(report.Steps)), nil)
		}
		return reported(ExitFailure)
	}
	return nil
}

func printReport(w io.Writer, r *batch.Report) {
	if r.Name != "" {
		fmt.Fprintf(w, "Batch: %s\n", r.Name)
	}
	for _, st := range r.Steps {
		mark := "ok"
		if !st.Passed {
			mark = "FAIL"
		}
		fmt.Fprintf(w, "  [%s] %d. %s\n", mark, st.Index, st.Text)
		if st.Failure != "" {
			fmt.Fprintf(w, "         %s\n", st.Failure)
		}
	}
	if r.Saved {
		fmt.Fprintln(w, "Data files saved.")
	}
}
