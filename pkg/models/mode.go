package models

import (
	"fmt"
	"strings"
)

// Mode selects which configuration domains a transaction operates on.
type Mode string

const (
	ModeAll    Mode = "all"
	ModeNet    Mode = "net"
	ModeSerial Mode = "serial"
	ModeSyslog Mode = "syslog"
	ModeUser   Mode = "user"
	ModeTime   Mode = "time"
)

// Domains lists the single-domain modes in dispatch order.
var Domains = []Mode{ModeNet, ModeUser, ModeSerial, ModeSyslog, ModeTime}

func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if m == ModeAll {
		return m, nil
	}
	for _, d := range Domains {
		if m == d {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid mode %q: must be one of all, net, serial, syslog, user, time", s)
}

// Suffix is appended to every stateful filename so that transactions on
// different domains never share a lock, pid or state file.
func (m Mode) Suffix() string {
	if m == ModeAll || m == "" {
		return ""
	}
	return "." + string(m)
}

// Includes reports whether domain d participates in a transaction of mode m.
func (m Mode) Includes(d Mode) bool {
	return m == ModeAll || m == d
}

func (m Mode) String() string {
	if m == "" {
		return string(ModeAll)
	}
	return string(m)
}
