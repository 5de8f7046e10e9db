package host

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/vishvananda/netlink"
	"github.com/vishvananda/netns"
	"golang.org/x/sys/unix"

	"github.com/veesix-networks/setman/pkg/config"
)

const DefaultDHCPGrace = 500 * time.Millisecond

// Linux drives the local host: netlink for links, addresses and routes,
// external commands for everything else.
type Linux struct {
	cfg    *config.Config
	runner Runner
	logger *slog.Logger

	dhcpGrace time.Duration

	mu            sync.Mutex
	netlinkHandle *netlink.Handle

	kill         func(pid int, sig syscall.Signal) error
	settimeofday func(tv *unix.Timeval) error
}

func NewLinux(cfg *config.Config, runner Runner, logger *slog.Logger) *Linux {
	return &Linux{
		cfg:          cfg,
		runner:       runner,
		logger:       logger,
		dhcpGrace:    DefaultDHCPGrace,
		kill:         unix.Kill,
		settimeofday: unix.Settimeofday,
	}
}

func (l *Linux) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.netlinkHandle != nil {
		l.netlinkHandle.Close()
		l.netlinkHandle = nil
	}
}

func (l *Linux) handle() (*netlink.Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.netlinkHandle != nil {
		return l.netlinkHandle, nil
	}

	if l.cfg.Netns == "" {
		h, err := netlink.NewHandle()
		if err != nil {
			return nil, opError("netlink", err)
		}
		l.netlinkHandle = h
		return h, nil
	}

	ns, err := netns.GetFromName(l.cfg.Netns)
	if err != nil {
		return nil, opError("netns "+l.cfg.Netns, err)
	}
	defer ns.Close()

	h, err := netlink.NewHandleAt(ns)
	if err != nil {
		return nil, opError("netlink in netns "+l.cfg.Netns, err)
	}
	l.netlinkHandle = h
	return h, nil
}

func (l *Linux) link(iface string) (*netlink.Handle, netlink.Link, error) {
	h, err := l.handle()
	if err != nil {
		return nil, nil, err
	}
	link, err := h.LinkByName(iface)
	if err != nil {
		return nil, nil, opError("find link "+iface, err)
	}
	return h, link, nil
}

func (l *Linux) LinkDown(ctx context.Context, iface string) error {
	h, link, err := l.link(iface)
	if err != nil {
		return err
	}

	if err := h.LinkSetDown(link); err != nil {
		return opError("set "+iface+" down", err)
	}

	addrs, err := h.AddrList(link, netlink.FAMILY_V4)
	if err != nil {
		return opError("list addresses on "+iface, err)
	}
	for i := range addrs {
		if err := h.AddrDel(link, &addrs[i]); err != nil {
			return opError("flush "+addrs[i].IPNet.String()+" from "+iface, err)
		}
	}

	l.logger.InfoContext(ctx, "Interface down", "interface", iface, "flushed", len(addrs))
	return nil
}

func (l *Linux) LinkUp(ctx context.Context, iface string) error {
	h, link, err := l.link(iface)
	if err != nil {
		return err
	}
	if err := h.LinkSetUp(link); err != nil {
		return opError("set "+iface+" up", err)
	}
	l.logger.InfoContext(ctx, "Interface up", "interface", iface)
	return nil
}

func (l *Linux) SetAddress(ctx context.Context, iface string, addr net.IP, mask net.IPMask) error {
	h, link, err := l.link(iface)
	if err != nil {
		return err
	}

	ipNet := &net.IPNet{IP: addr, Mask: mask}
	if err := h.AddrReplace(link, &netlink.Addr{IPNet: ipNet}); err != nil {
		return opError("add "+ipNet.String()+" to "+iface, err)
	}
	l.logger.InfoContext(ctx, "Address configured", "interface", iface, "address", ipNet.String())
	return nil
}

func (l *Linux) AddDefaultRoute(ctx context.Context, iface string, gw net.IP) error {
	h, link, err := l.link(iface)
	if err != nil {
		return err
	}

	route := &netlink.Route{LinkIndex: link.Attrs().Index, Gw: gw}
	if err := h.RouteReplace(route); err != nil {
		return opError("default route via "+gw.String(), err)
	}
	l.logger.InfoContext(ctx, "Default route configured", "interface", iface, "gateway", gw.String())
	return nil
}

func (l *Linux) StartDHCP(ctx context.Context, iface string) error {
	return l.run(ctx, l.cfg.Commands.DHCP, iface)
}

func (l *Linux) ConfigureSerial(ctx context.Context, args []string) error {
	return l.run(ctx, l.cfg.Commands.Serial, args...)
}

func (l *Linux) ResetSyslog(ctx context.Context) error {
	return l.run(ctx, l.cfg.Commands.Syslog, "reset")
}

func (l *Linux) ForwardSyslog(ctx context.Context, host net.IP, port uint16) error {
	return l.run(ctx, l.cfg.Commands.Syslog, host.String(), strconv.Itoa(int(port)))
}

func (l *Linux) SetClock(ctx context.Context, sec, usec int64) error {
	tv := unix.NsecToTimeval(sec*int64(time.Second) + usec*int64(time.Microsecond))
	if err := l.settimeofday(&tv); err != nil {
		return opError("settimeofday", err)
	}
	l.logger.InfoContext(ctx, "System clock set", "time", time.Unix(sec, usec*1000).UTC().Format(time.RFC3339Nano))
	return l.run(ctx, l.cfg.Commands.HWClock)
}

func (l *Linux) OpenProvisioner(ctx context.Context) (Provisioner, error) {
	w, err := l.runner.Start(ctx, l.cfg.Commands.Provision)
	if err != nil {
		return nil, err
	}
	return &provisioner{w: w}, nil
}

type provisioner struct {
	w io.WriteCloser
}

func (p *provisioner) Provision(name, password string) error {
	_, err := fmt.Fprintf(p.w, "%s %s\n", name, password)
	return err
}

func (p *provisioner) Close() error {
	return p.w.Close()
}

func (l *Linux) run(ctx context.Context, prefix []string, args ...string) error {
	argv := make([]string, 0, len(prefix)+len(args))
	argv = append(argv, prefix...)
	argv = append(argv, args...)
	return l.runner.Run(ctx, argv)
}
