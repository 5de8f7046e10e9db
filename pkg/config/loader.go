package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/veesix-networks/setman/pkg/config/system"
	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration at path. When optional is set a missing
// file yields the defaults instead of an error.
func Load(path string, optional bool) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case optional && errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

func (c *Config) ApplyDefaults() {
	if c.WorkDir == "" {
		c.WorkDir = DefaultWorkDir
	}
	if c.Wait == 0 {
		c.Wait = DefaultWait
	}

	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Destination == "" {
		c.Logging.Destination = system.LogDestinationAuto
	}

	if c.Paths.ResolvConf == "" {
		c.Paths.ResolvConf = system.DefaultResolvConf
	}
	if c.Paths.DHCPPID == "" {
		c.Paths.DHCPPID = system.DefaultDHCPPIDFile
	}

	defaults := system.DefaultCommandsConfig()
	fill := func(dst *[]string, def []string) {
		if len(*dst) == 0 {
			*dst = def
		}
	}
	fill(&c.Commands.IPTables, defaults.IPTables)
	fill(&c.Commands.DHCP, defaults.DHCP)
	fill(&c.Commands.Provision, defaults.Provision)
	fill(&c.Commands.Serial, defaults.Serial)
	fill(&c.Commands.Syslog, defaults.Syslog)
	fill(&c.Commands.HWClock, defaults.HWClock)
}

// Validate checks the settings needed to start a transaction. The interface
// is only required when the network domain participates, so callers pass
// needInterface accordingly.
func (c *Config) Validate(needInterface bool) error {
	if needInterface && strings.TrimSpace(c.Interface) == "" {
		return fmt.Errorf("interface: required")
	}
	if c.Wait < 0 {
		return fmt.Errorf("wait: must not be negative")
	}
	if !filepath.IsAbs(c.WorkDir) && c.WorkDir != "." && !strings.HasPrefix(c.WorkDir, "./") {
		return fmt.Errorf("workdir: %q must be absolute or explicitly relative", c.WorkDir)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format: %q must be text or json", c.Logging.Format)
	}
	switch c.Logging.Destination {
	case system.LogDestinationAuto, system.LogDestinationStderr, system.LogDestinationSyslog:
	default:
		return fmt.Errorf("logging.destination: %q must be auto, stderr or syslog", c.Logging.Destination)
	}

	for name, argv := range map[string][]string{
		"iptables":  c.Commands.IPTables,
		"dhcp":      c.Commands.DHCP,
		"provision": c.Commands.Provision,
		"serial":    c.Commands.Serial,
		"syslog":    c.Commands.Syslog,
		"hwclock":   c.Commands.HWClock,
	} {
		if len(argv) == 0 || argv[0] == "" {
			return fmt.Errorf("commands.%s: empty command", name)
		}
	}

	return nil
}
