// Package metrics exports the outcome of the last transaction of each mode
// as a node_exporter textfile.
package metrics

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/veesix-networks/setman/pkg/configmgr"
)

type Textfile struct {
	dir string

	registry  *prometheus.Registry
	timestamp *prometheus.GaugeVec
	duration  *prometheus.GaugeVec
	committed *prometheus.GaugeVec
	rolled    *prometheus.GaugeVec
}

func NewTextfile(dir string) *Textfile {
	t := &Textfile{
		dir:      dir,
		registry: prometheus.NewRegistry(),
		timestamp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "setman_last_transaction_timestamp_seconds",
			Help: "Unix time the last transaction finished.",
		}, []string{"mode"}),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "setman_last_transaction_duration_seconds",
			Help: "Wall time of the last transaction.",
		}, []string{"mode"}),
		committed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "setman_last_transaction_committed",
			Help: "1 if the last transaction committed, 0 otherwise.",
		}, []string{"mode"}),
		rolled: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "setman_last_transaction_rolled_back",
			Help: "1 if the last transaction was rolled back, 0 otherwise.",
		}, []string{"mode"}),
	}
	t.registry.MustRegister(t.timestamp, t.duration, t.committed, t.rolled)
	return t
}

// Path is the textfile written for results of mode suffix.
func (t *Textfile) Path(suffix string) string {
	return filepath.Join(t.dir, "setman"+suffix+".prom")
}

func (t *Textfile) Observe(_ context.Context, res configmgr.Result) error {
	mode := res.Mode.String()
	t.timestamp.WithLabelValues(mode).Set(float64(res.Finished.Unix()) + float64(res.Finished.Nanosecond())/1e9)
	t.duration.WithLabelValues(mode).Set(res.Duration().Seconds())
	t.committed.WithLabelValues(mode).Set(boolGauge(res.Outcome == configmgr.Committed))
	t.rolled.WithLabelValues(mode).Set(boolGauge(res.Outcome == configmgr.RolledBack))

	if err := os.MkdirAll(t.dir, 0755); err != nil {
		return fmt.Errorf("create textfile directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(t.Path(res.Mode.Suffix()), t.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
