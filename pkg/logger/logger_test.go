package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veesix-networks/setman/pkg/config/system"
)

func TestTextHandlerTagsMode(t *testing.T) {
	var buf bytes.Buffer
	log, closer, err := New(Options{Format: "text", Level: LogLevelInfo, Destination: system.LogDestinationStderr, Mode: "net", Writer: &buf})
	require.NoError(t, err)
	defer closer.Close()

	log.With("txn", "abc").Info("Applying candidate", "file", "/tmp/x")
	log.Debug("hidden")
	log.Warn("Rolling back", "reason", "timeout")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Regexp(t, `^\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}\.\d{3} \[\d+\] \[net\] Applying candidate txn=abc file=/tmp/x$`, lines[0])
	assert.Contains(t, lines[1], "[net] WARN Rolling back reason=timeout")
}

func TestQuietRaisesLevel(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(Options{Level: LogLevelDebug, Destination: system.LogDestinationStderr, Quiet: true, Writer: &buf})
	require.NoError(t, err)

	log.Info("chatty")
	log.Error("loud")

	assert.NotContains(t, buf.String(), "chatty")
	assert.Contains(t, buf.String(), "ERROR loud")
}

func TestJSONHandlerAddsMode(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(Options{Format: "json", Destination: system.LogDestinationStderr, Mode: "all", Writer: &buf})
	require.NoError(t, err)

	log.Info("Transaction committed", "state", "/var/lib/setman/setman.state")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "all", rec["mode"])
	assert.Equal(t, "Transaction committed", rec["msg"])
	assert.Equal(t, "/var/lib/setman/setman.state", rec["state"])
}

func TestUnknownDestination(t *testing.T) {
	_, _, err := New(Options{Destination: "carrier-pigeon"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}
