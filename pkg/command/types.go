package command

import (
	"fmt"
	"strings"
)

const MaxNameservers = 3

// IP configures a static interface address.
type IP struct {
	Address     Address
	Netmask     Address
	Gateway     Address
	Nameservers [MaxNameservers]Address
}

func ParseIP(l *Line) (*IP, error) {
	if err := expectArgs(l, 3+MaxNameservers); err != nil {
		return nil, err
	}

	var (
		c   IP
		err error
	)
	if c.Address, err = ParseAddress(l.Args[0]); err != nil {
		return nil, fmt.Errorf("ip address: %w", err)
	}
	if c.Netmask, err = ParseNetmask(l.Args[1]); err != nil {
		return nil, fmt.Errorf("ip netmask: %w", err)
	}
	if c.Gateway, err = ParseOptionalAddress(l.Args[2]); err != nil {
		return nil, fmt.Errorf("ip gateway: %w", err)
	}
	for i := range c.Nameservers {
		if c.Nameservers[i], err = ParseOptionalAddress(l.Args[3+i]); err != nil {
			return nil, fmt.Errorf("ip dns%d: %w", i+1, err)
		}
	}
	return &c, nil
}

// EnabledNameservers returns the nameservers that are set, in order.
func (c *IP) EnabledNameservers() []Address {
	var out []Address
	for _, ns := range c.Nameservers {
		if ns.Enabled() {
			out = append(out, ns)
		}
	}
	return out
}

// Allow admits inbound traffic from a source address or network.
type Allow struct {
	Source Address
	Mask   Address
}

func ParseAllow(l *Line) (*Allow, error) {
	if err := expectArgs(l, 2); err != nil {
		return nil, err
	}

	src, err := ParseAddress(l.Args[0])
	if err != nil {
		return nil, fmt.Errorf("allow source: %w", err)
	}
	if !src.Enabled() {
		return nil, fmt.Errorf("%w: allow: source address is required", ErrSyntax)
	}
	mask, err := ParseAddress(l.Args[1])
	if err != nil {
		return nil, fmt.Errorf("allow mask: %w", err)
	}
	return &Allow{Source: src, Mask: mask}, nil
}

// CIDR formats the rule source the way iptables expects it.
func (a *Allow) CIDR() string {
	if !a.Mask.Enabled() {
		return a.Source.String()
	}
	return a.Source.String() + "/" + a.Mask.String()
}

// User is passed through to the provisioning collaborator untouched.
type User struct {
	Name     string
	Password string
}

func ParseUser(l *Line) (*User, error) {
	if err := expectArgs(l, 2); err != nil {
		return nil, err
	}
	return &User{Name: l.Args[0], Password: l.Args[1]}, nil
}

// Serial carries uninterpreted serial port settings.
type Serial struct {
	Args []string
}

func ParseSerial(l *Line) (*Serial, error) {
	if len(l.Args) == 0 {
		return nil, fmt.Errorf("%w: serial: missing settings", ErrSyntax)
	}
	return &Serial{Args: strings.Fields(l.Rest())}, nil
}

// Syslog selects a remote syslog target.
type Syslog struct {
	Host Address
	Port uint16
}

func ParseSyslog(l *Line) (*Syslog, error) {
	if err := expectArgs(l, 2); err != nil {
		return nil, err
	}

	host, err := ParseAddress(l.Args[0])
	if err != nil {
		return nil, fmt.Errorf("syslog host: %w", err)
	}
	c := &Syslog{Host: host}
	if !host.Enabled() && l.Args[1] == Disabled {
		return c, nil
	}

	port, err := parseUint("syslog port", l.Args[1], 65535)
	if err != nil {
		return nil, err
	}
	if port == 0 {
		return nil, fmt.Errorf("%w: syslog port: must be non-zero", ErrSyntax)
	}
	c.Port = uint16(port)
	return c, nil
}

func (c *Syslog) Active() bool {
	return c.Host.Enabled()
}

// Time sets the system clock.
type Time struct {
	Sec  int64
	Usec int64
}

const (
	maxUsec = 999999
	// maxSec keeps Sec*1e9+Usec*1e3 within an int64 when converted to a
	// timeval.
	maxSec = (1<<63-1)/1000000000 - 1
)

func ParseTime(l *Line) (*Time, error) {
	if err := expectArgs(l, 2); err != nil {
		return nil, err
	}

	sec, err := parseUint("time seconds", l.Args[0], maxSec)
	if err != nil {
		return nil, err
	}
	usec, err := parseUint("time microseconds", l.Args[1], maxUsec)
	if err != nil {
		return nil, err
	}
	return &Time{Sec: int64(sec), Usec: int64(usec)}, nil
}

// ParseBare validates a keyword that takes no fields (dhcp, off, confirm).
func ParseBare(l *Line) error {
	return expectArgs(l, 0)
}
