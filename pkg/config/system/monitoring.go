package system

// MonitoringConfig controls the prometheus textfile written after every
// transaction. An empty TextfileDir disables it.
type MonitoringConfig struct {
	TextfileDir string `json:"textfile_dir,omitempty" yaml:"textfile_dir,omitempty"`
}

// JournalConfig locates the sqlite transaction history. An empty Path
// disables it.
type JournalConfig struct {
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}
