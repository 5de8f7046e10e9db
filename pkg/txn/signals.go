package txn

import (
	"os"
	"os/signal"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

const (
	ConfirmSignal = unix.SIGUSR1
	RejectSignal  = unix.SIGUSR2
)

var interruptSignals = []os.Signal{unix.SIGINT, unix.SIGTERM, unix.SIGHUP, unix.SIGPIPE}

// Signals records which transaction signals have arrived. Receipt only sets
// a flag; the confirmation waiter is the only reader.
type Signals struct {
	confirmed   atomic.Bool
	rejected    atomic.Bool
	interrupted atomic.Bool

	ch   chan os.Signal
	done chan struct{}
}

// NotifySignals starts recording signals until Stop is called.
func NotifySignals() *Signals {
	s := &Signals{
		ch:   make(chan os.Signal, 8),
		done: make(chan struct{}),
	}
	signal.Notify(s.ch, append([]os.Signal{ConfirmSignal, RejectSignal}, interruptSignals...)...)

	go func() {
		defer close(s.done)
		for sig := range s.ch {
			switch sig {
			case ConfirmSignal:
				s.confirmed.Store(true)
			case RejectSignal:
				s.rejected.Store(true)
			default:
				s.interrupted.Store(true)
			}
		}
	}()
	return s
}

func (s *Signals) Stop() {
	signal.Stop(s.ch)
	close(s.ch)
	<-s.done
}

func (s *Signals) Confirmed() bool   { return s.confirmed.Load() }
func (s *Signals) Rejected() bool    { return s.rejected.Load() }
func (s *Signals) Interrupted() bool { return s.interrupted.Load() }

// resetDecision drops confirm and reject signals that arrived before the
// wait began. Interrupts are kept.
func (s *Signals) resetDecision() {
	s.confirmed.Store(false)
	s.rejected.Store(false)
}
