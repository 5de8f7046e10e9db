package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veesix-networks/setman/pkg/models"
	"github.com/veesix-networks/setman/pkg/txn"
)

// runTrigger signals the transaction of mode that is awaiting
// confirmation. It never starts a transaction of its own.
func runTrigger(cmd *cobra.Command, opts *RootOptions, mode models.Mode) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: "load configuration", Err: err, Usage: true}
	}

	decision := txn.Confirmed
	if opts.Rollback {
		decision = txn.Rejected
	}

	files := txn.Paths(cfg.WorkDir, mode)
	pid, err := txn.Trigger(files.PID, decision)
	if err != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("send %s", decision), err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s sent to %d\n", decision, pid)
	return nil
}
