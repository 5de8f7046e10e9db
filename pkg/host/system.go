// Package host performs the side effects of a live apply. Every operation
// follows the same contract: run synchronously, treat any failure as fatal
// for the current phase, never retry.
package host

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrCommandFailed is wrapped by every collaborator failure.
var ErrCommandFailed = errors.New("external command failed")

// System is the narrow surface the domain handlers drive.
type System interface {
	StopDHCP(ctx context.Context) error
	StartDHCP(ctx context.Context, iface string) error

	// LinkDown takes the interface down and flushes its IPv4 addresses.
	LinkDown(ctx context.Context, iface string) error
	LinkUp(ctx context.Context, iface string) error
	SetAddress(ctx context.Context, iface string, addr net.IP, mask net.IPMask) error
	AddDefaultRoute(ctx context.Context, iface string, gw net.IP) error
	WriteResolvConf(ctx context.Context, nameservers []net.IP) error

	ResetFirewall(ctx context.Context) error
	AllowSource(ctx context.Context, source string) error

	OpenProvisioner(ctx context.Context) (Provisioner, error)
	ConfigureSerial(ctx context.Context, args []string) error
	ResetSyslog(ctx context.Context) error
	ForwardSyslog(ctx context.Context, host net.IP, port uint16) error
	SetClock(ctx context.Context, sec, usec int64) error
}

// Provisioner is a persistent channel to the user provisioning command.
// Close waits for the command and reports its exit status.
type Provisioner interface {
	Provision(name, password string) error
	Close() error
}

// CommandError describes a failed collaborator invocation.
type CommandError struct {
	Op     string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v (%s)", e.Op, e.Err, out)
}

func (e *CommandError) Unwrap() []error {
	return []error{ErrCommandFailed, e.Err}
}

func opError(op string, err error) error {
	return &CommandError{Op: op, Err: err}
}
