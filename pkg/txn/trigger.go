package txn

import (
	"errors"
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// Trigger delivers decision d to the process awaiting confirmation in
// pidPath. It never creates or waits on a transaction itself.
func Trigger(pidPath string, d Decision) (int, error) {
	var sig syscall.Signal
	switch d {
	case Confirmed:
		sig = ConfirmSignal
	case Rejected:
		sig = RejectSignal
	default:
		return 0, fmt.Errorf("cannot trigger %s", d)
	}

	pid, err := ReadPID(pidPath)
	if err != nil {
		return 0, err
	}

	if err := unix.Kill(pid, sig); err != nil {
		if errors.Is(err, unix.ESRCH) {
			return pid, fmt.Errorf("%w: process %d is gone", ErrNoTransaction, pid)
		}
		return pid, fmt.Errorf("signal %d: %w", pid, err)
	}
	return pid, nil
}
