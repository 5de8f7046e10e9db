package host

import "context"

// baselineRules returns a host to default-deny inbound with only loopback,
// ICMP, established TCP and the replies to its own DNS and NTP queries
// admitted. Every live apply starts from this rule set.
func baselineRules() [][]string {
	return [][]string{
		{"-P", "INPUT", "DROP"},
		{"-P", "OUTPUT", "ACCEPT"},
		{"-P", "FORWARD", "DROP"},
		{"-F"},
		{"-X"},
		{"-A", "INPUT", "-i", "lo", "-j", "ACCEPT"},
		{"-A", "INPUT", "-p", "icmp", "-j", "ACCEPT"},
		{"-A", "INPUT", "-p", "tcp", "-m", "state", "--state", "ESTABLISHED,RELATED", "-j", "ACCEPT"},
		{"-A", "INPUT", "-p", "udp", "--sport", "53", "--dport", "1024:65535", "-m", "state", "--state", "ESTABLISHED", "-j", "ACCEPT"},
		{"-A", "INPUT", "-p", "udp", "--sport", "123", "--dport", "1024:65535", "-m", "state", "--state", "ESTABLISHED", "-j", "ACCEPT"},
	}
}

func (l *Linux) ResetFirewall(ctx context.Context) error {
	for _, rule := range baselineRules() {
		if err := l.run(ctx, l.cfg.Commands.IPTables, rule...); err != nil {
			return err
		}
	}
	l.logger.InfoContext(ctx, "Firewall reset to baseline")
	return nil
}

func (l *Linux) AllowSource(ctx context.Context, source string) error {
	if err := l.run(ctx, l.cfg.Commands.IPTables, "-A", "INPUT", "-s", source, "-j", "ACCEPT"); err != nil {
		return err
	}
	l.logger.InfoContext(ctx, "Allowed source", "source", source)
	return nil
}
