package syslog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veesix-networks/setman/pkg/command"
	"github.com/veesix-networks/setman/pkg/handlers/conf"
	"github.com/veesix-networks/setman/pkg/host/hosttest"
)

func run(t *testing.T, h conf.Handler, phase conf.Phase, lines ...string) error {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, h.Begin(ctx, phase))
	for i, text := range lines {
		l, err := command.Parse(text, i+1)
		require.NoError(t, err)
		if _, err := h.Handle(ctx, l, phase); err != nil {
			return err
		}
	}
	return h.End(ctx, phase)
}

func TestForwarding(t *testing.T) {
	rec := hosttest.New()
	h := New(&conf.Deps{System: rec})

	require.NoError(t, run(t, h, conf.Force, "syslog - -", "syslog 10.0.0.5 514", "syslog - 514"))
	assert.Equal(t, []string{"syslog reset", "syslog 10.0.0.5 514"}, rec.Calls())
}

func TestDuplicateTarget(t *testing.T) {
	for _, phase := range []conf.Phase{conf.DryRun, conf.Force} {
		t.Run(phase.String(), func(t *testing.T) {
			h := New(&conf.Deps{System: hosttest.New()})
			err := run(t, h, phase, "syslog 10.0.0.5 514", "syslog 10.0.0.6 514")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDuplicateSyslog)
		})
	}
}

func TestTargetResetsPerPass(t *testing.T) {
	h := New(&conf.Deps{System: hosttest.New()})
	require.NoError(t, run(t, h, conf.DryRun, "syslog 10.0.0.5 514"))
	require.NoError(t, run(t, h, conf.DryRun, "syslog 10.0.0.5 514"))
}

func TestDryRunTouchesNothing(t *testing.T) {
	rec := hosttest.New()
	h := New(&conf.Deps{System: rec})
	require.NoError(t, run(t, h, conf.DryRun, "syslog 10.0.0.5 514"))
	assert.Empty(t, rec.Calls())
}

func TestInvalid(t *testing.T) {
	for _, text := range []string{"syslog 10.0.0.5", "syslog 10.0.0.5 0", "syslog 10.0.0.5 65536", "syslog 10.0.0.5 -", "syslog 10.0.0.5 514 x"} {
		t.Run(text, func(t *testing.T) {
			h := New(&conf.Deps{System: hosttest.New()})
			assert.ErrorIs(t, run(t, h, conf.DryRun, text), command.ErrSyntax)
		})
	}
}
