package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/history"
	"github.com/roach88/tally/internal/journal"
)

// JournalOptions holds flags for the journal command.
type JournalOptions struct {
	*RootOptions
	Limit   int
	Session string
}

// NewJournalCommand creates the journal command.
func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List journaled calculations",
		Long: `List calculations recorded in the SQLite journal.

Unlike the history, the journal is never overwritten. Enable it with
--journal, the TALLY_JOURNAL environment variable or the "journal" config
field.

Examples:
  tally --journal tally.db journal --limit 20`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJournal(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "show the most recent n entries (0 for all)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "only show entries from this session id")

	return cmd
}

// JournalListing is the JSON payload of the journal command.
type JournalListing struct {
	Total   int             `json:"total"`
	Entries []journal.Entry `json:"entries"`
}

func runJournal(opts *JournalOptions, cmd *cobra.Command) error {
	a, err := openApp(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.journal == nil {
		return a.out.Fail(ExitCommandError, ErrCodeNotFound, "no journal configured", nil)
	}

	ctx := cmd.Context()
	entries, err := a.journal.List(ctx, journal.Filter{Session: opts.Session, Limit: opts.Limit})
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list journal", err)
	}
	total, err := a.journal.Count(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to count journal", err)
	}

	listing := JournalListing{Total: total, Entries: entries}
	return a.out.Render(listing, func(w io.Writer) {
		if len(entries) == 0 {
			fmt.Fprintln(w, "Journal is empty.")
			return
		}
		for _, e := range entries {
			fmt.Fprintf(w, "%6d  %s  %s\n", e.Seq, e.RecordedAt.In(time.Local).Format(history.TimestampLayout), e.Description)
		}
		fmt.Fprintf(w, "%d of %d entries\n", len(entries), total)
	})
}
