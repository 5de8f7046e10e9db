package command

import (
	"fmt"
	"net"
	"strconv"

	"inet.af/netaddr"
)

// Disabled is the sentinel accepted wherever an address may be left unset.
const Disabled = "-"

// Address is a validated IPv4 dotted-quad field or a disabled sentinel.
type Address struct {
	IP  netaddr.IP
	set bool
}

func (a Address) Enabled() bool {
	return a.set
}

func (a Address) String() string {
	if !a.set {
		return Disabled
	}
	return a.IP.String()
}

// parseDottedQuad accepts only the canonical form of an IPv4 address: the
// input must survive a parse/format round trip unchanged.
func parseDottedQuad(s string) (netaddr.IP, error) {
	ip, err := netaddr.ParseIP(s)
	if err != nil {
		return netaddr.IP{}, fmt.Errorf("%w: invalid address %q", ErrSyntax, s)
	}
	if !ip.Is4() || ip.String() != s {
		return netaddr.IP{}, fmt.Errorf("%w: invalid address %q", ErrSyntax, s)
	}
	return ip, nil
}

// ParseAddress accepts a dotted-quad or "-".
func ParseAddress(s string) (Address, error) {
	if s == Disabled {
		return Address{}, nil
	}
	ip, err := parseDottedQuad(s)
	if err != nil {
		return Address{}, err
	}
	return Address{IP: ip, set: true}, nil
}

// ParseOptionalAddress additionally treats 0.0.0.0 as disabled. It is used
// for gateway and nameserver fields only; interface addresses and masks do
// not accept the all-zero sentinel.
func ParseOptionalAddress(s string) (Address, error) {
	a, err := ParseAddress(s)
	if err != nil {
		return Address{}, err
	}
	if a.set && a.IP.IsUnspecified() {
		return Address{}, nil
	}
	return a, nil
}

// ParseNetmask accepts "-" or a contiguous dotted-quad netmask.
func ParseNetmask(s string) (Address, error) {
	a, err := ParseAddress(s)
	if err != nil || !a.set {
		return a, err
	}
	if _, bits := a.Mask().Size(); bits == 0 {
		return Address{}, fmt.Errorf("%w: non-contiguous netmask %q", ErrSyntax, s)
	}
	return a, nil
}

// Mask returns the address as a net.IPMask.
func (a Address) Mask() net.IPMask {
	b := a.IP.As4()
	return net.IPv4Mask(b[0], b[1], b[2], b[3])
}

// Std returns the address as a net.IP, nil when disabled.
func (a Address) Std() net.IP {
	if !a.set {
		return nil
	}
	return a.IP.IPAddr().IP
}

// parseUint validates a decimal integer by round trip, rejecting signs,
// leading zeros and trailing garbage.
func parseUint(field, s string, max uint64) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || strconv.FormatUint(v, 10) != s {
		return 0, fmt.Errorf("%w: %s: invalid number %q", ErrSyntax, field, s)
	}
	if v > max {
		return 0, fmt.Errorf("%w: %s: %d out of range (max %d)", ErrSyntax, field, v, max)
	}
	return v, nil
}
