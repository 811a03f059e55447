package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/calc"
	"github.com/roach88/tally/internal/settings"
)

// NewSettingsCommand creates the settings command group.
func NewSettingsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show, save, load and edit the settings file",
	}

	cmd.AddCommand(newSettingsShowCommand(rootOpts))
	cmd.AddCommand(newSettingsSaveCommand(rootOpts))
	cmd.AddCommand(newSettingsLoadCommand(rootOpts))
	cmd.AddCommand(newSettingsEditCommand(rootOpts))

	return cmd
}

func newSettingsShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Print the settings as they would be saved now",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettingsShow(rootOpts, cmd)
		},
	}
}

func runSettingsShow(opts *RootOptions, cmd *cobra.Command) error {
	a, err := openApp(opts, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	return renderSettings(a.out, a.session.Settings())
}

// renderSettings prints settings in file order. JSON carries the text form
// so non-finite values survive encoding.
func renderSettings(out *OutputFormatter, s settings.Settings) error {
	return out.Render(settings.FormOf(s), func(w io.Writer) {
		for _, kv := range s.Pairs() {
			fmt.Fprintf(w, "%s=%s\n", kv[0], kv[1])
		}
	})
}

func newSettingsSaveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "save",
		Short:         "Write the settings file",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettingsSave(rootOpts, cmd)
		},
	}
}

func runSettingsSave(opts *RootOptions, cmd *cobra.Command) error {
	a, err := openApp(opts, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	path, err := a.session.SaveSettings()
	if err != nil {
		return a.failFile(err, ErrCodeWriteFailed)
	}
	return a.out.Render(map[string]string{"path": path}, func(w io.Writer) {
		fmt.Fprintf(w, "Settings saved to %s\n", path)
	})
}

func newSettingsLoadCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Reload the settings file and report what was restored",
		Long: `Reload the settings file and report what was restored.

Only LastResult and TotalCalculations are restored. TotalCalculations is
ignored unless it lies between 1 and the history capacity.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettingsLoad(rootOpts, cmd)
		},
	}
}

func runSettingsLoad(opts *RootOptions, cmd *cobra.Command) error {
	a, err := openApp(opts, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	u, err := a.session.LoadSettings()
	if err != nil {
		return a.failFile(err, ErrCodeReadFailed)
	}

	restored := map[string]string{}
	if u.LastResult != nil {
		restored[settings.KeyLastResult] = calc.FormatNumber(*u.LastResult)
	}
	if u.TotalCalculations != nil {
		restored[settings.KeyTotalCalculations] = fmt.Sprint(*u.TotalCalculations)
	}
	return a.out.Render(restored, func(w io.Writer) {
		fmt.Fprintf(w, "Settings loaded from %s\n", a.session.SettingsPath())
		if u.Empty() {
			fmt.Fprintln(w, "No settings were restored.")
			return
		}
		for _, key := range []string{settings.KeyTotalCalculations, settings.KeyLastResult} {
			if v, ok := restored[key]; ok {
				fmt.Fprintf(w, "%s=%s\n", key, v)
			}
		}
	})
}

func newSettingsEditCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "edit key=value...",
		Short: "Edit settings fields and save both data files",
		Long: `Edit settings fields and save both data files.

Fields not named keep their current value. Every field is validated and any
invalid field rejects the whole edit. FirstNumber, SecondNumber, LastResult
and TotalCalculations are applied; LastCalculationDate and MaxHistoryEntries
are validated only.

Example:
  tally settings edit FirstNumber=12 LastResult=36`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettingsEdit(rootOpts, args, cmd)
		},
	}
}

func runSettingsEdit(opts *RootOptions, args []string, cmd *cobra.Command) error {
	a, err := openApp(opts, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	form := a.session.SettingsForm()
	for _, arg := range args {
		if err := form.Set(arg); err != nil {
			return a.out.Fail(ExitCommandError, ErrCodeInvalidEdit, err.Error(), nil)
		}
	}

	if _, err := a.session.EditSettings(form); err != nil {
		return a.failFile(err, ErrCodeGeneric)
	}
	if err := a.persist(); err != nil {
		return err
	}
	return renderSettings(a.out, a.session.Settings())
}
