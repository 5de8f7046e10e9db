package config

import (
	"time"

	"github.com/veesix-networks/setman/pkg/config/system"
)

const (
	DefaultPath    = "/etc/setman/setman.yaml"
	DefaultWorkDir = "/var/lib/setman"
	DefaultWait    = 10 * time.Second
)

type Config struct {
	Interface  string                  `json:"interface,omitempty" yaml:"interface,omitempty"`
	WorkDir    string                  `json:"workdir,omitempty" yaml:"workdir,omitempty"`
	Wait       time.Duration           `json:"wait,omitempty" yaml:"wait,omitempty"`
	Netns      string                  `json:"netns,omitempty" yaml:"netns,omitempty"`
	Logging    system.LoggingConfig    `json:"logging,omitempty" yaml:"logging,omitempty"`
	Paths      system.PathsConfig      `json:"paths,omitempty" yaml:"paths,omitempty"`
	Commands   system.CommandsConfig   `json:"commands,omitempty" yaml:"commands,omitempty"`
	Journal    system.JournalConfig    `json:"journal,omitempty" yaml:"journal,omitempty"`
	Monitoring system.MonitoringConfig `json:"monitoring,omitempty" yaml:"monitoring,omitempty"`
}
