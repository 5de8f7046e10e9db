package metrics

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veesix-networks/setman/pkg/configmgr"
	"github.com/veesix-networks/setman/pkg/models"
)

func TestObserve(t *testing.T) {
	dir := t.TempDir()
	tf := NewTextfile(dir)
	finished := time.Unix(1700000000, 0)

	err := tf.Observe(context.Background(), configmgr.Result{
		Mode:     models.ModeNet,
		Outcome:  configmgr.RolledBack,
		Started:  finished.Add(-2 * time.Second),
		Finished: finished,
	})
	require.NoError(t, err)

	assert.Equal(t, float64(1700000000), testutil.ToFloat64(tf.timestamp.WithLabelValues("net")))
	assert.Equal(t, float64(2), testutil.ToFloat64(tf.duration.WithLabelValues("net")))
	assert.Equal(t, float64(0), testutil.ToFloat64(tf.committed.WithLabelValues("net")))
	assert.Equal(t, float64(1), testutil.ToFloat64(tf.rolled.WithLabelValues("net")))

	data, err := os.ReadFile(tf.Path(".net"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `setman_last_transaction_rolled_back{mode="net"} 1`)
}

func TestCommittedGauge(t *testing.T) {
	tf := NewTextfile(t.TempDir())
	res := configmgr.Result{Mode: models.ModeAll, Outcome: configmgr.Committed, Started: time.Now(), Finished: time.Now()}
	require.NoError(t, tf.Observe(context.Background(), res))

	expected := `
		# HELP setman_last_transaction_committed 1 if the last transaction committed, 0 otherwise.
		# TYPE setman_last_transaction_committed gauge
		setman_last_transaction_committed{mode="all"} 1
	`
	require.NoError(t, testutil.CollectAndCompare(tf.committed, strings.NewReader(expected)))
	assert.FileExists(t, tf.Path(""))
}

func TestObserveUnwritableDir(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(parent, nil, 0644))

	tf := NewTextfile(filepath.Join(parent, "metrics"))
	err := tf.Observe(context.Background(), configmgr.Result{Mode: models.ModeAll})
	assert.Error(t, err)
}

func TestObserveCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "textfile", "collector")
	tf := NewTextfile(dir)
	res := configmgr.Result{Mode: models.ModeNet, Outcome: configmgr.RolledBack, Started: time.Now(), Finished: time.Now()}
	require.NoError(t, tf.Observe(context.Background(), res))
	assert.FileExists(t, filepath.Join(dir, "setman.net.prom"))
}
