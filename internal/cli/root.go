package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/veesix-networks/setman/pkg/config"
	"github.com/veesix-networks/setman/pkg/host"
	"github.com/veesix-networks/setman/pkg/models"
	"github.com/veesix-networks/setman/pkg/version"
)

// RootOptions holds the flags of the root command. Flags given on the
// command line override the configuration file.
type RootOptions struct {
	ConfigPath string
	WorkDir    string
	Interface  string
	Wait       int
	Force      bool
	Mode       string
	Quiet      bool
	Commit     bool
	Rollback   bool
	Check      bool

	// NewSystem builds the host backend. Defaults to the Linux backend.
	NewSystem func(cfg *config.Config, logger *slog.Logger) host.System
}

// NewRootCommand creates the setman command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{NewSystem: linuxSystem})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setman [flags] <file|->",
		Short: "Apply host configuration with confirm or rollback",
		Long: `Apply a host configuration command stream as a transaction.

The candidate is validated together with the last committed state, applied
to the live system and then held until it is confirmed. Without confirmation
within the wait period the previous state is restored.

A running transaction is confirmed with -c and rejected with -r.

Example:
  setman -e eth0 -w 30 candidate.conf
  setman -c
  echo confirm | setman -m syslog -f -`,
		Version:       version.Full(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, opts, args)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsage, Err: err, Usage: true}
	})

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", config.DefaultPath, "configuration file")
	cmd.PersistentFlags().StringVar(&opts.WorkDir, "workdir", config.DefaultWorkDir, "directory holding lock, pid and state files")
	cmd.PersistentFlags().StringVarP(&opts.Mode, "mode", "m", string(models.ModeAll), "configuration domain (all|net|serial|syslog|user|time)")

	cmd.Flags().StringVarP(&opts.Interface, "interface", "e", "", "network interface to configure")
	cmd.Flags().IntVarP(&opts.Wait, "wait", "w", int(config.DefaultWait/time.Second), "seconds to wait for confirmation")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "commit without waiting for confirmation")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "only log warnings and errors")
	cmd.Flags().BoolVarP(&opts.Commit, "commit", "c", false, "confirm the running transaction")
	cmd.Flags().BoolVarP(&opts.Rollback, "rollback", "r", false, "reject the running transaction")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "validate the candidate without applying it")

	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

func runRoot(cmd *cobra.Command, opts *RootOptions, args []string) error {
	mode, err := models.ParseMode(opts.Mode)
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: err, Usage: true}
	}

	if opts.Commit || opts.Rollback {
		if opts.Commit && opts.Rollback {
			return usageError("--commit and --rollback are mutually exclusive")
		}
		if len(args) > 0 {
			return usageError("--commit and --rollback take no candidate")
		}
		return runTrigger(cmd, opts, mode)
	}

	if len(args) != 1 {
		return usageError("expected exactly one candidate file, or - for standard input")
	}
	if opts.Wait < 0 {
		return usageError("--wait must not be negative")
	}
	return runApply(cmd, opts, mode, args[0])
}

// loadConfig reads the configuration file and applies the flags given on
// the command line. A missing file is only an error when --config was set.
func loadConfig(cmd *cobra.Command, opts *RootOptions) (*config.Config, error) {
	flags := cmd.Flags()

	cfg, err := config.Load(opts.ConfigPath, !flags.Changed("config"))
	if err != nil {
		return nil, err
	}

	if flags.Changed("workdir") {
		cfg.WorkDir = opts.WorkDir
	}
	if f := flags.Lookup("interface"); f != nil && f.Changed {
		cfg.Interface = opts.Interface
	}
	if f := flags.Lookup("wait"); f != nil && f.Changed {
		cfg.Wait = time.Duration(opts.Wait) * time.Second
	}
	return cfg, nil
}

func linuxSystem(cfg *config.Config, logger *slog.Logger) host.System {
	return host.NewLinux(cfg, host.NewExecRunner(logger), logger)
}

// Execute runs the command tree, reports a failure on standard error and
// returns the process exit code.
func Execute(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	report(cmd, err)
	return GetExitCode(err)
}

func report(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}

	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "%s: %v\n", cmd.Name(), err)

	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Usage {
		printUsage(w, cmd)
	}
}

func printUsage(w io.Writer, cmd *cobra.Command) {
	fmt.Fprintln(w)
	fmt.Fprint(w, cmd.UsageString())
}
