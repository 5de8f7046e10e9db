package users

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veesix-networks/setman/pkg/command"
	"github.com/veesix-networks/setman/pkg/handlers/conf"
	"github.com/veesix-networks/setman/pkg/host/hosttest"
)

func newHandler() (conf.Handler, *hosttest.Recorder) {
	rec := hosttest.New()
	return New(&conf.Deps{System: rec, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}), rec
}

func line(t *testing.T, text string) *command.Line {
	t.Helper()
	l, err := command.Parse(text, 1)
	require.NoError(t, err)
	return l
}

func TestProvisionOncePerPass(t *testing.T) {
	h, rec := newHandler()
	ctx := context.Background()

	require.NoError(t, h.Begin(ctx, conf.Force))
	for _, text := range []string{"user admin s3cret", "user guest guest"} {
		handled, err := h.Handle(ctx, line(t, text), conf.Force)
		require.True(t, handled)
		require.NoError(t, err)
	}
	require.NoError(t, h.End(ctx, conf.Force))

	assert.Equal(t, []string{
		"users open",
		"users provision admin",
		"users provision guest",
		"users close",
	}, rec.Calls())
	assert.Equal(t, []hosttest.User{{Name: "admin", Password: "s3cret"}, {Name: "guest", Password: "guest"}}, rec.Users())
}

func TestDryRun(t *testing.T) {
	h, rec := newHandler()
	ctx := context.Background()

	require.NoError(t, h.Begin(ctx, conf.DryRun))
	handled, err := h.Handle(ctx, line(t, "user admin s3cret"), conf.DryRun)
	require.True(t, handled)
	require.NoError(t, err)
	require.NoError(t, h.End(ctx, conf.DryRun))
	assert.Empty(t, rec.Calls())

	_, err = h.Handle(ctx, line(t, "user admin"), conf.DryRun)
	assert.ErrorIs(t, err, command.ErrSyntax)
	_, err = h.Handle(ctx, line(t, "user admin pw extra"), conf.DryRun)
	assert.ErrorIs(t, err, command.ErrSyntax)
}

func TestCloseStatusReported(t *testing.T) {
	h, rec := newHandler()
	rec.FailOn["users close"] = errors.New("exit status 1")
	ctx := context.Background()

	require.NoError(t, h.Begin(ctx, conf.Force))
	assert.Error(t, h.End(ctx, conf.Force))
	assert.NoError(t, h.End(ctx, conf.Force), "pipe is closed only once")
}

func TestOpenFailure(t *testing.T) {
	h, rec := newHandler()
	rec.FailOn["users open"] = errors.New("no chpasswd")
	ctx := context.Background()

	require.Error(t, h.Begin(ctx, conf.Force))
	require.NoError(t, h.End(ctx, conf.Force))
}
