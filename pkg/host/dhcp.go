package host

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// StopDHCP asks a running DHCP client to release its lease, waits a short
// grace period and then terminates it. A missing or unreadable pid file
// and an already exited client are not errors.
func (l *Linux) StopDHCP(ctx context.Context) error {
	data, err := os.ReadFile(l.cfg.Paths.DHCPPID)
	if err != nil {
		l.logger.DebugContext(ctx, "No DHCP client pid file", "path", l.cfg.Paths.DHCPPID, "error", err)
		return nil
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		l.logger.WarnContext(ctx, "Ignoring malformed DHCP client pid file", "path", l.cfg.Paths.DHCPPID)
		return nil
	}

	if err := l.kill(pid, unix.SIGUSR2); err != nil {
		l.logger.DebugContext(ctx, "Failed to signal DHCP client release", "pid", pid, "error", err)
		if errors.Is(err, unix.ESRCH) {
			return nil
		}
	}

	select {
	case <-time.After(l.dhcpGrace):
	case <-ctx.Done():
	}

	if err := l.kill(pid, unix.SIGTERM); err != nil {
		l.logger.DebugContext(ctx, "Failed to terminate DHCP client", "pid", pid, "error", err)
		return nil
	}
	l.logger.InfoContext(ctx, "Stopped DHCP client", "pid", pid)
	return nil
}
