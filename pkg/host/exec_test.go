package host

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunnerRun(t *testing.T) {
	r := NewExecRunner(discardLogger())

	require.NoError(t, r.Run(context.Background(), []string{"/bin/sh", "-c", "exit 0"}))

	err := r.Run(context.Background(), []string{"/bin/sh", "-c", "echo broken >&2; exit 3"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCommandFailed)
	assert.Contains(t, err.Error(), "broken")
}

func TestExecRunnerEmptyCommand(t *testing.T) {
	r := NewExecRunner(discardLogger())
	assert.ErrorIs(t, r.Run(context.Background(), nil), ErrCommandFailed)

	_, err := r.Start(context.Background(), nil)
	assert.ErrorIs(t, err, ErrCommandFailed)
}

func TestExecRunnerStart(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	r := NewExecRunner(discardLogger())

	w, err := r.Start(context.Background(), []string{"/bin/sh", "-c", "cat > " + out})
	require.NoError(t, err)
	_, err = io.WriteString(w, "admin secret\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "admin secret\n", string(data))
}

func TestExecRunnerStartExitStatus(t *testing.T) {
	r := NewExecRunner(discardLogger())

	w, err := r.Start(context.Background(), []string{"/bin/sh", "-c", "cat >/dev/null; exit 1"})
	require.NoError(t, err)
	err = w.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCommandFailed)
}
