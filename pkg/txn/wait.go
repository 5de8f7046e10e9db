package txn

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

const DefaultPollInterval = time.Second

type Decision int

const (
	Confirmed Decision = iota
	Rejected
	Interrupted
	TimedOut
)

func (d Decision) String() string {
	switch d {
	case Confirmed:
		return "confirmed"
	case Rejected:
		return "rejected"
	case Interrupted:
		return "interrupted"
	case TimedOut:
		return "timeout"
	}
	return fmt.Sprintf("decision(%d)", int(d))
}

// Waiter holds a live transaction open until a decision arrives.
type Waiter struct {
	Wait     time.Duration
	Interval time.Duration
	PIDPath  string
	// Announce receives the pid file path once the pid file is written.
	Announce io.Writer
	Logger   *slog.Logger
}

// Await publishes the current pid and polls for a decision. The pid file is
// removed before Await returns, whatever the outcome.
func (w *Waiter) Await(ctx context.Context, sig *Signals) (Decision, error) {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	sig.resetDecision()
	if err := WritePID(w.PIDPath, os.Getpid()); err != nil {
		RemovePID(w.PIDPath)
		return Rejected, err
	}
	defer func() {
		if err := RemovePID(w.PIDPath); err != nil {
			w.Logger.Warn("Failed to remove pid file", "path", w.PIDPath, "error", err)
		}
	}()

	if w.Announce != nil {
		fmt.Fprintln(w.Announce, w.PIDPath)
	}
	w.Logger.InfoContext(ctx, "Awaiting confirmation", "pid_file", w.PIDPath, "timeout", w.Wait)

	deadline := time.Now().Add(w.Wait)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		switch {
		case sig.Confirmed():
			return Confirmed, nil
		case sig.Rejected():
			return Rejected, nil
		case sig.Interrupted():
			return Interrupted, nil
		case !time.Now().Before(deadline):
			return TimedOut, nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return Interrupted, nil
		}
	}
}
