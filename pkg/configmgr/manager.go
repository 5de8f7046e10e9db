package configmgr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/veesix-networks/setman/pkg/command"
	"github.com/veesix-networks/setman/pkg/handlers/conf"
	"github.com/veesix-networks/setman/pkg/models"
	"github.com/veesix-networks/setman/pkg/txn"
)

// minimalStream is applied on rollback when no valid committed state exists.
const minimalStream = "confirm\n"

type Outcome int

const (
	// Aborted means the transaction failed before the host was touched.
	Aborted Outcome = iota
	Committed
	RolledBack
)

func (o Outcome) String() string {
	switch o {
	case Aborted:
		return "aborted"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled_back"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

type Request struct {
	Mode      models.Mode
	Candidate io.Reader
	// Force commits right after the live apply instead of waiting.
	Force bool
	Wait  time.Duration
}

type Result struct {
	ID      string
	Mode    models.Mode
	Outcome Outcome
	Reason  string
	// Mutated is set once a live apply has been attempted.
	Mutated  bool
	Digest   string
	Started  time.Time
	Finished time.Time
}

func (r Result) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Observer is told about every transaction that got past the lock.
type Observer interface {
	Observe(ctx context.Context, res Result) error
}

type Options struct {
	Registry *conf.Registry
	Deps     *conf.Deps
	WorkDir  string
	Signals  *txn.Signals
	Logger   *slog.Logger
	// Announce receives the pid file path when a transaction starts waiting.
	Announce     io.Writer
	PollInterval time.Duration
}

type ConfigManager struct {
	registry     *conf.Registry
	deps         *conf.Deps
	workDir      string
	signals      *txn.Signals
	logger       *slog.Logger
	announce     io.Writer
	pollInterval time.Duration
	observers    []Observer
}

func NewConfigManager(opts Options) *ConfigManager {
	cm := &ConfigManager{
		registry:     opts.Registry,
		deps:         opts.Deps,
		workDir:      opts.WorkDir,
		signals:      opts.Signals,
		logger:       opts.Logger,
		announce:     opts.Announce,
		pollInterval: opts.PollInterval,
	}
	if cm.pollInterval <= 0 {
		cm.pollInterval = txn.DefaultPollInterval
	}

	cm.registry.SetCallbacks(&conf.Callbacks{
		OnBeforeHandle: func(line *command.Line, phase conf.Phase) {
			cm.logger.Debug("Dispatching", "phase", phase.String(), "line", line.Number, "keyword", line.Keyword)
		},
		OnAfterHandle: func(line *command.Line, phase conf.Phase, handler string, err error) {
			cm.logger.Debug("Command", "phase", phase.String(), "line", line.Number, "text", line.Text, "handler", handler, "error", err)
		},
	})
	return cm
}

func (cm *ConfigManager) AddObserver(o Observer) {
	cm.observers = append(cm.observers, o)
}

func (cm *ConfigManager) apply(ctx context.Context, r io.Reader, mode models.Mode, phase conf.Phase) error {
	chain, err := cm.registry.Chain(mode, cm.deps)
	if err != nil {
		return &Error{Kind: KindValidation, Err: err}
	}
	return Apply(ctx, r, chain, phase)
}

func (cm *ConfigManager) applyFile(ctx context.Context, path string, mode models.Mode, phase conf.Phase) error {
	f, err := os.Open(path)
	if err != nil {
		return &Error{Kind: KindFilesystem, Err: err}
	}
	defer f.Close()
	return cm.apply(ctx, f, mode, phase)
}

// Validate dry-runs a stream without locking or touching any file.
func (cm *ConfigManager) Validate(ctx context.Context, r io.Reader, mode models.Mode) error {
	return cm.apply(ctx, r, mode, conf.DryRun)
}

// Run executes one transaction: stage, validate candidate and committed
// state, apply live, then commit on confirmation or roll back. The
// returned error is non-nil when the transaction could not start or when
// the rollback itself failed.
func (cm *ConfigManager) Run(ctx context.Context, req Request) (res Result, err error) {
	res = Result{
		ID:      uuid.NewString(),
		Mode:    req.Mode,
		Outcome: Aborted,
		Started: time.Now(),
	}
	logger := cm.logger.With("txn", res.ID)
	files := txn.Paths(cm.workDir, req.Mode)

	lock, err := txn.Lock(files.Lock)
	if err != nil {
		res.Finished = time.Now()
		return res, newError(err)
	}
	defer func() {
		if uerr := lock.Unlock(); uerr != nil {
			logger.Warn("Failed to release lock", "error", uerr)
		}
	}()
	defer cm.notify(ctx, logger, &res)
	defer removeStaging(logger, files.Staging)

	res.Digest, err = txn.Stage(req.Candidate, files.Staging)
	if err != nil {
		res.Reason = err.Error()
		return res, newError(err)
	}

	logger.Info("Validating candidate", "file", files.Staging)
	if err := cm.applyFile(ctx, files.Staging, req.Mode, conf.DryRun); err != nil {
		res.Reason = err.Error()
		return res, err
	}

	rollback, err := cm.rollbackTarget(ctx, logger, files.State, req.Mode)
	if err != nil {
		res.Reason = err.Error()
		return res, err
	}

	if cm.signals != nil && cm.signals.Interrupted() {
		logger.Warn("Interrupted before apply, host left untouched")
		res.Reason = txn.Interrupted.String()
		return res, newError(ErrInterrupted)
	}

	res.Mutated = true
	logger.Info("Applying candidate")
	if err := cm.applyFile(ctx, files.Staging, req.Mode, conf.Force); err != nil {
		logger.Error("Apply failed, rolling back", "error", err)
		return cm.rollback(ctx, logger, res, rollback, err.Error())
	}

	if !req.Force {
		waiter := &txn.Waiter{
			Wait:     req.Wait,
			Interval: cm.pollInterval,
			PIDPath:  files.PID,
			Announce: cm.announce,
			Logger:   logger,
		}
		decision, err := waiter.Await(ctx, cm.signals)
		if err != nil {
			logger.Error("Wait failed, rolling back", "error", err)
			return cm.rollback(ctx, logger, res, rollback, err.Error())
		}
		if decision != txn.Confirmed {
			logger.Warn("Transaction not confirmed, rolling back", "decision", decision.String())
			return cm.rollback(ctx, logger, res, rollback, decision.String())
		}
		logger.Info("Transaction confirmed")
	}

	if err := txn.Commit(files.Staging, files.State); err != nil {
		logger.Error("Commit failed, rolling back", "error", err)
		return cm.rollback(ctx, logger, res, rollback, err.Error())
	}

	res.Outcome = Committed
	res.Finished = time.Now()
	logger.Info("Transaction committed", "state", files.State)
	return res, nil
}

// rollbackTarget dry-runs the committed state. Only a missing state falls
// back to the minimal stream; a state that fails validation aborts the
// transaction before the host is touched.
func (cm *ConfigManager) rollbackTarget(ctx context.Context, logger *slog.Logger, state string, mode models.Mode) (func() (io.ReadCloser, error), error) {
	if _, err := os.Stat(state); errors.Is(err, os.ErrNotExist) {
		logger.Warn("No committed state, rollback will apply the minimal configuration", "state", state)
		return func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(minimalStream)), nil
		}, nil
	}

	logger.Info("Validating committed state", "file", state)
	if err := cm.applyFile(ctx, state, mode, conf.DryRun); err != nil {
		logger.Error("Committed state is invalid", "state", state, "error", err)
		return nil, &Error{Kind: KindValidation, Err: fmt.Errorf("committed state %s: %w", state, err)}
	}

	return func() (io.ReadCloser, error) {
		return os.Open(state)
	}, nil
}

// rollback re-applies the rollback target once. A failure here is
// reported but never retried.
func (cm *ConfigManager) rollback(ctx context.Context, logger *slog.Logger, res Result, target func() (io.ReadCloser, error), reason string) (Result, error) {
	res.Outcome = RolledBack
	res.Reason = reason

	logger.Info("Rolling back")
	rc, err := target()
	if err == nil {
		err = cm.apply(ctx, rc, res.Mode, conf.Force)
		rc.Close()
	}
	res.Finished = time.Now()

	if err != nil {
		logger.Error("Rollback failed", "error", err)
		res.Reason = fmt.Sprintf("%s; rollback failed: %v", reason, err)
		return res, newError(fmt.Errorf("rollback: %w", err))
	}
	logger.Info("Rolled back")
	return res, nil
}

func (cm *ConfigManager) notify(ctx context.Context, logger *slog.Logger, res *Result) {
	if res.Finished.IsZero() {
		res.Finished = time.Now()
	}
	for _, o := range cm.observers {
		if err := o.Observe(ctx, *res); err != nil {
			logger.Warn("Failed to record transaction", "error", err)
		}
	}
}

func removeStaging(logger *slog.Logger, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Failed to remove staging file", "path", path, "error", err)
	}
}
