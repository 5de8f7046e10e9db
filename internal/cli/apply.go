package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/veesix-networks/setman/pkg/configmgr"
	"github.com/veesix-networks/setman/pkg/handlers/conf"
	_ "github.com/veesix-networks/setman/pkg/handlers/conf/all"
	"github.com/veesix-networks/setman/pkg/journal"
	"github.com/veesix-networks/setman/pkg/logger"
	"github.com/veesix-networks/setman/pkg/metrics"
	"github.com/veesix-networks/setman/pkg/models"
	"github.com/veesix-networks/setman/pkg/txn"
)

func runApply(cmd *cobra.Command, opts *RootOptions, mode models.Mode, source string) error {
	ctx := cmd.Context()

	// Interrupts must roll back from the moment the host may be touched.
	signals := txn.NotifySignals()
	defer signals.Stop()

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: "load configuration", Err: err, Usage: true}
	}
	if err := cfg.Validate(mode.Includes(models.ModeNet)); err != nil {
		return &ExitError{Code: ExitUsage, Message: "invalid configuration", Err: err, Usage: true}
	}

	if err := os.MkdirAll(cfg.WorkDir, 0755); err != nil {
		return &ExitError{Code: ExitFailure, Message: "create work directory", Err: err, Usage: true}
	}

	log, closer, err := logger.New(logger.Options{
		Format:      cfg.Logging.Format,
		Level:       logger.LogLevel(cfg.Logging.Level),
		Destination: cfg.Logging.Destination,
		Mode:        mode.String(),
		Quiet:       opts.Quiet,
		Writer:      cmd.ErrOrStderr(),
	})
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: "open log", Err: err, Usage: true}
	}
	defer closer.Close()

	candidate, err := openCandidate(cmd, source)
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: "read candidate", Err: err, Usage: true}
	}
	defer candidate.Close()

	sys := opts.NewSystem(cfg, log)
	if c, ok := sys.(interface{ Close() }); ok {
		defer c.Close()
	}

	mgr := configmgr.NewConfigManager(configmgr.Options{
		Registry: conf.NewRegistry(),
		Deps: &conf.Deps{
			Interface: cfg.Interface,
			System:    sys,
			Logger:    log,
		},
		WorkDir:  cfg.WorkDir,
		Signals:  signals,
		Logger:   log,
		Announce: cmd.OutOrStdout(),
	})

	if opts.Check {
		if err := mgr.Validate(ctx, candidate, mode); err != nil {
			return &ExitError{Code: ExitFailure, Err: err, Usage: true}
		}
		log.Info("Candidate is valid")
		return nil
	}

	if cfg.Journal.Path != "" {
		store, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			log.Warn("Transaction journal unavailable", "path", cfg.Journal.Path, "error", err)
		} else {
			defer store.Close()
			mgr.AddObserver(store)
		}
	}
	if cfg.Monitoring.TextfileDir != "" {
		mgr.AddObserver(metrics.NewTextfile(cfg.Monitoring.TextfileDir))
	}

	res, err := mgr.Run(ctx, configmgr.Request{
		Mode:      mode,
		Candidate: candidate,
		Force:     opts.Force,
		Wait:      cfg.Wait,
	})
	return outcomeError(log, res, err)
}

func outcomeError(log *slog.Logger, res configmgr.Result, err error) error {
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err, Usage: !res.Mutated}
	}

	switch res.Outcome {
	case configmgr.Committed:
		log.Info("Done", "txn", res.ID, "duration", res.Duration())
		return nil
	case configmgr.RolledBack:
		return NewExitError(ExitRolledBack, fmt.Sprintf("rolled back: %s", res.Reason))
	}
	return NewExitError(ExitFailure, fmt.Sprintf("transaction %s", res.Outcome))
}
