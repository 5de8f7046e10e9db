// Package hosttest provides an in-memory host.System for tests.
package hosttest

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/veesix-networks/setman/pkg/host"
)

// User is a provisioned name/password pair.
type User struct {
	Name     string
	Password string
}

// Recorder implements host.System by recording every call as a short
// string. A call whose string starts with a key of FailOn returns that
// error instead.
type Recorder struct {
	mu     sync.Mutex
	calls  []string
	users  []User
	FailOn map[string]error
}

var _ host.System = (*Recorder)(nil)

func New() *Recorder {
	return &Recorder{FailOn: make(map[string]error)}
}

// Calls returns a copy of the recorded calls in order.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *Recorder) Users() []User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]User(nil), r.users...)
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
	r.users = nil
}

func (r *Recorder) record(format string, args ...any) error {
	call := fmt.Sprintf(format, args...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	for prefix, err := range r.FailOn {
		if strings.HasPrefix(call, prefix) {
			return &host.CommandError{Op: call, Err: err}
		}
	}
	return nil
}

func (r *Recorder) StopDHCP(context.Context) error {
	return r.record("dhcp stop")
}

func (r *Recorder) StartDHCP(_ context.Context, iface string) error {
	return r.record("dhcp start %s", iface)
}

func (r *Recorder) LinkDown(_ context.Context, iface string) error {
	return r.record("link down %s", iface)
}

func (r *Recorder) LinkUp(_ context.Context, iface string) error {
	return r.record("link up %s", iface)
}

func (r *Recorder) SetAddress(_ context.Context, iface string, addr net.IP, mask net.IPMask) error {
	ones, _ := mask.Size()
	return r.record("addr %s %s/%d", iface, addr, ones)
}

func (r *Recorder) AddDefaultRoute(_ context.Context, iface string, gw net.IP) error {
	return r.record("route default %s via %s", iface, gw)
}

func (r *Recorder) WriteResolvConf(_ context.Context, nameservers []net.IP) error {
	servers := make([]string, 0, len(nameservers))
	for _, ns := range nameservers {
		servers = append(servers, ns.String())
	}
	return r.record("resolv [%s]", strings.Join(servers, " "))
}

func (r *Recorder) ResetFirewall(context.Context) error {
	return r.record("firewall reset")
}

func (r *Recorder) AllowSource(_ context.Context, source string) error {
	return r.record("firewall allow %s", source)
}

func (r *Recorder) OpenProvisioner(context.Context) (host.Provisioner, error) {
	if err := r.record("users open"); err != nil {
		return nil, err
	}
	return &provisioner{r: r}, nil
}

func (r *Recorder) ConfigureSerial(_ context.Context, args []string) error {
	return r.record("serial %s", strings.Join(args, " "))
}

func (r *Recorder) ResetSyslog(context.Context) error {
	return r.record("syslog reset")
}

func (r *Recorder) ForwardSyslog(_ context.Context, h net.IP, port uint16) error {
	return r.record("syslog %s %d", h, port)
}

func (r *Recorder) SetClock(_ context.Context, sec, usec int64) error {
	return r.record("clock %d.%06d", sec, usec)
}

type provisioner struct {
	r *Recorder
}

func (p *provisioner) Provision(name, password string) error {
	if err := p.r.record("users provision %s", name); err != nil {
		return err
	}
	p.r.mu.Lock()
	p.r.users = append(p.r.users, User{Name: name, Password: password})
	p.r.mu.Unlock()
	return nil
}

func (p *provisioner) Close() error {
	return p.r.record("users close")
}
