package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/calc"
)

// CalcOptions holds flags for the calc command.
type CalcOptions struct {
	*RootOptions
	Save bool
}

// CalcResult is the JSON payload of a successful calculation.
type CalcResult struct {
	Description string `json:"description"`
	Result      string `json:"result"`
	Count       int    `json:"count"`
}

// NewCalcCommand creates the calc command.
func NewCalcCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CalcOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "calc <first> <op> <second>",
		Short: "Evaluate one calculation",
		Long: `Evaluate first <op> second and append the result to the history.

The operator may be a symbol (+ - * / × ÷) or a name (add, sub, mul, div).
Put "--" before a negative first operand so it is not read as a flag.

The history only reaches disk with --save or when autosave is configured.

Examples:
  tally calc 10 + 5
  tally calc --save 7 div 2
  tally calc -- -3 x 4`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Save, "save", false, "save history and settings after calculating")

	return cmd
}

func runCalc(opts *CalcOptions, args []string, cmd *cobra.Command) error {
	a, err := openApp(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	op, err := calc.ParseOp(args[1])
	if err != nil {
		return a.out.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	out := a.session.Calculate(cmd.Context(), op, args[0], args[2])
	if !out.OK() {
		return a.out.Fail(ExitFailure, outcomeCode(out.Status), out.Message, map[string]string{"status": out.Status.String()})
	}

	if opts.Save || a.cfg.Autosave {
		if err := a.persist(); err != nil {
			return err
		}
	}

	res := CalcResult{
		Description: out.Description(),
		Result:      calc.FormatNumber(out.Result),
		Count:       a.session.State().Count,
	}
	return a.out.Render(res, func(w io.Writer) {
		fmt.Fprintf(w, "Result: %s\n", res.Description)
	})
}
