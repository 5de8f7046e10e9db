package cli

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veesix-networks/setman/pkg/config"
	"github.com/veesix-networks/setman/pkg/host"
	"github.com/veesix-networks/setman/pkg/host/hosttest"
)

const candidate = "ip 10.0.0.2 255.255.255.0 10.0.0.1 - - -\nconfirm\n"

type env struct {
	dir     string
	workDir string
	config  string
	rec     *hosttest.Recorder
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	e := &env{
		dir:     dir,
		workDir: filepath.Join(dir, "work"),
		config:  filepath.Join(dir, "setman.yaml"),
		rec:     hosttest.New(),
	}

	yaml := fmt.Sprintf(`interface: eth0
workdir: %s
logging:
  destination: stderr
  level: debug
journal:
  path: %s
monitoring:
  textfile_dir: %s
`, e.workDir, filepath.Join(dir, "setman.db"), filepath.Join(dir, "metrics"))
	require.NoError(t, os.WriteFile(e.config, []byte(yaml), 0644))
	return e
}

func (e *env) candidate(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, "candidate.conf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

type run struct {
	code   int
	stdout string
	stderr string
}

func (e *env) run(t *testing.T, stdin string, args ...string) run {
	t.Helper()
	cmd := newRootCommand(&RootOptions{
		NewSystem: func(*config.Config, *slog.Logger) host.System { return e.rec },
	})

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", e.config}, args...))

	code := Execute(context.Background(), cmd)
	return run{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func (e *env) state(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.workDir, "setman.state"))
	require.NoError(t, err)
	return string(data)
}

func TestForceApplyCommits(t *testing.T) {
	e := newEnv(t)

	r := e.run(t, "", "-f", e.candidate(t, candidate))
	require.Equal(t, ExitSuccess, r.code, r.stderr)

	assert.Equal(t, candidate, e.state(t))
	assert.Contains(t, e.rec.Calls(), "addr eth0 10.0.0.2/24")
	assert.Contains(t, r.stderr, "[all]")
	assert.NotContains(t, r.stderr, "Usage:")

	_, err := os.Stat(filepath.Join(e.dir, "metrics", "setman.prom"))
	assert.NoError(t, err)

	h := e.run(t, "", "history")
	require.Equal(t, ExitSuccess, h.code, h.stderr)
	assert.Contains(t, h.stdout, "OUTCOME")
	assert.Contains(t, h.stdout, "committed")
}

func TestStdinCandidate(t *testing.T) {
	e := newEnv(t)

	r := e.run(t, "syslog 10.0.0.9 514\nconfirm\n", "-m", "syslog", "-f", "-")
	require.Equal(t, ExitSuccess, r.code, r.stderr)

	data, err := os.ReadFile(filepath.Join(e.workDir, "setman.state.syslog"))
	require.NoError(t, err)
	assert.Equal(t, "syslog 10.0.0.9 514\nconfirm\n", string(data))
	assert.Equal(t, []string{"syslog reset", "syslog 10.0.0.9 514"}, e.rec.Calls())

	_, err = os.Stat(filepath.Join(e.workDir, "setman.state"))
	assert.True(t, os.IsNotExist(err), "syslog mode must not touch the all-mode state")
}

func TestCheckLeavesHostUntouched(t *testing.T) {
	e := newEnv(t)

	r := e.run(t, "", "--check", e.candidate(t, candidate))
	require.Equal(t, ExitSuccess, r.code, r.stderr)

	assert.Empty(t, e.rec.Calls())
	_, err := os.Stat(filepath.Join(e.workDir, "setman.state"))
	assert.True(t, os.IsNotExist(err))
}

func TestValidationErrorShowsUsage(t *testing.T) {
	e := newEnv(t)

	r := e.run(t, "", "-f", e.candidate(t, "ip 10.0.0.2 255.255.255.0 - - - -\n"))
	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.stderr, "confirm")
	assert.Contains(t, r.stderr, "Usage:")
	assert.Empty(t, e.rec.Calls())
}

func TestTimeoutRollsBack(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the confirmation timeout")
	}
	e := newEnv(t)

	r := e.run(t, "", "-w", "1", e.candidate(t, candidate))
	assert.Equal(t, ExitRolledBack, r.code)
	assert.Contains(t, r.stdout, filepath.Join(e.workDir, "setman.pid"))
	assert.Contains(t, r.stderr, "rolled back")
	assert.NotContains(t, r.stderr, "Usage:")

	_, err := os.Stat(filepath.Join(e.workDir, "setman.state"))
	assert.True(t, os.IsNotExist(err))

	h := e.run(t, "", "history", "-n", "1")
	require.Equal(t, ExitSuccess, h.code, h.stderr)
	assert.Contains(t, h.stdout, "rolled_back")
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no candidate", nil},
		{"two candidates", []string{"a", "b"}},
		{"commit and rollback", []string{"-c", "-r"}},
		{"trigger with candidate", []string{"-c", "a"}},
		{"bad mode", []string{"-m", "disk", "a"}},
		{"unknown flag", []string{"--bogus"}},
		{"negative wait", []string{"-w", "-1", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			r := e.run(t, "", tt.args...)
			assert.Equal(t, ExitUsage, r.code)
			assert.Contains(t, r.stderr, "Usage:")
		})
	}
}

func TestNetworkModeNeedsInterface(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.WriteFile(e.config, []byte("workdir: "+e.workDir+"\nlogging:\n  destination: stderr\n"), 0644))

	r := e.run(t, "", "-f", e.candidate(t, candidate))
	assert.Equal(t, ExitUsage, r.code)
	assert.Contains(t, r.stderr, "interface")

	r = e.run(t, "", "-e", "eth1", "-f", e.candidate(t, "ip - - - - - -\nconfirm\n"))
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, e.rec.Calls(), "link up eth1")
}

func TestTriggerWithoutTransaction(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.MkdirAll(e.workDir, 0755))

	r := e.run(t, "", "-c")
	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.stderr, "send confirmed")
}

func TestHistoryDisabled(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.WriteFile(e.config, []byte("workdir: "+e.workDir+"\n"), 0644))

	r := e.run(t, "", "history")
	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.stderr, "journal is disabled")
}

func TestMissingExplicitConfig(t *testing.T) {
	e := newEnv(t)
	e.config = filepath.Join(e.dir, "missing.yaml")

	r := e.run(t, "", "-f", e.candidate(t, candidate))
	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.stderr, "load configuration")
	assert.Empty(t, e.rec.Calls())
}

func TestInvalidStateAborts(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.MkdirAll(e.workDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(e.workDir, "setman.state"), []byte("garbage\n"), 0644))

	r := e.run(t, "", "-f", e.candidate(t, candidate))
	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.stderr, "committed state")
	assert.Contains(t, r.stderr, "Usage:")
	assert.Empty(t, e.rec.Calls())
	assert.Equal(t, "garbage\n", e.state(t))
}
