package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingOptional(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), true)
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkDir, cfg.WorkDir)
	assert.Equal(t, DefaultWait, cfg.Wait)
	assert.Equal(t, "auto", cfg.Logging.Destination)
	assert.Equal(t, []string{"/sbin/iptables"}, cfg.Commands.IPTables)
}

func TestLoadMissingRequired(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), false)
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setman.yaml")
	data := `
interface: eth1
workdir: /tmp/setman
wait: 30s
netns: mgmt
logging:
  format: json
  level: debug
  destination: stderr
commands:
  iptables: [/usr/sbin/iptables-legacy]
journal:
  path: /tmp/setman/setman.db
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, "eth1", cfg.Interface)
	assert.Equal(t, 30*time.Second, cfg.Wait)
	assert.Equal(t, "mgmt", cfg.Netns)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, []string{"/usr/sbin/iptables-legacy"}, cfg.Commands.IPTables)
	assert.Equal(t, []string{"/sbin/hwclock", "--systohc"}, cfg.Commands.HWClock)
	assert.Equal(t, "/tmp/setman/setman.db", cfg.Journal.Path)
	require.NoError(t, cfg.Validate(true))
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setman.yaml")
	require.NoError(t, os.WriteFile(path, []byte("wait: [nope"), 0644))

	_, err := Load(path, false)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Validate(true), "interface is required for network mode")
	assert.NoError(t, cfg.Validate(false))

	cfg.Interface = "eth0"
	cfg.Logging.Destination = "file"
	assert.Error(t, cfg.Validate(true))

	cfg = Default()
	cfg.Commands.Serial = []string{""}
	assert.Error(t, cfg.Validate(false))
}
