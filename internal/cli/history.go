package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/veesix-networks/setman/pkg/journal"
)

type HistoryOptions struct {
	*RootOptions
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent transactions",
		Long: `List the transactions recorded in the journal, newest first.

The journal is only kept when journal.path is set in the configuration.

Example:
  setman history -n 5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "number of transactions to show")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	if opts.Limit <= 0 {
		return usageError("--limit must be positive")
	}

	cfg, err := loadConfig(cmd, opts.RootOptions)
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: "load configuration", Err: err, Usage: true}
	}
	if cfg.Journal.Path == "" {
		return NewExitError(ExitFailure, "journal is disabled: set journal.path in the configuration")
	}

	store, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return WrapExitError(ExitFailure, "open journal", err)
	}
	defer store.Close()

	entries, err := store.Recent(cmd.Context(), opts.Limit)
	if err != nil {
		return WrapExitError(ExitFailure, "read journal", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tMODE\tOUTCOME\tDURATION\tID\tREASON")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Started.Local().Format(time.DateTime),
			e.Mode,
			e.Outcome,
			e.Finished.Sub(e.Started).Round(time.Millisecond),
			e.ID,
			e.Reason,
		)
	}
	return w.Flush()
}
