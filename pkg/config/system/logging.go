package system

const (
	LogDestinationAuto   = "auto"
	LogDestinationStderr = "stderr"
	LogDestinationSyslog = "syslog"
)

type LoggingConfig struct {
	Format      string `json:"format,omitempty" yaml:"format,omitempty"`
	Level       string `json:"level,omitempty" yaml:"level,omitempty"`
	Destination string `json:"destination,omitempty" yaml:"destination,omitempty"`
}
