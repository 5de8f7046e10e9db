package system

// CommandsConfig holds the argv prefix of every external collaborator.
// Arguments derived from the command stream are appended to the prefix.
type CommandsConfig struct {
	IPTables  []string `json:"iptables,omitempty" yaml:"iptables,omitempty"`
	DHCP      []string `json:"dhcp,omitempty" yaml:"dhcp,omitempty"`
	Provision []string `json:"provision,omitempty" yaml:"provision,omitempty"`
	Serial    []string `json:"serial,omitempty" yaml:"serial,omitempty"`
	Syslog    []string `json:"syslog,omitempty" yaml:"syslog,omitempty"`
	HWClock   []string `json:"hwclock,omitempty" yaml:"hwclock,omitempty"`
}

func DefaultCommandsConfig() CommandsConfig {
	return CommandsConfig{
		IPTables:  []string{"/sbin/iptables"},
		DHCP:      []string{"/sbin/udhcpc", "-b", "-p", DefaultDHCPPIDFile, "-i"},
		Provision: []string{"/usr/sbin/chpasswd"},
		Serial:    []string{"/usr/sbin/setman-serial"},
		Syslog:    []string{"/usr/sbin/setman-syslog"},
		HWClock:   []string{"/sbin/hwclock", "--systohc"},
	}
}

const (
	DefaultDHCPPIDFile = "/var/run/udhcpc.pid"
	DefaultResolvConf  = "/etc/resolv.conf"
)

type PathsConfig struct {
	ResolvConf string `json:"resolv_conf,omitempty" yaml:"resolv_conf,omitempty"`
	DHCPPID    string `json:"dhcp_pid,omitempty" yaml:"dhcp_pid,omitempty"`
}
