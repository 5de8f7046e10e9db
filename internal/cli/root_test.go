package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "setman", cmd.Name())
	assert.Contains(t, cmd.Long, "confirmed")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	sub, _, err := cmd.Find([]string{"history"})
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, "history", sub.Name())

	limit := sub.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "n", limit.Shorthand)
	assert.Equal(t, "20", limit.DefValue)
}

func TestRootFlags(t *testing.T) {
	cmd := NewRootCommand()

	tests := []struct {
		name      string
		shorthand string
		def       string
	}{
		{"interface", "e", ""},
		{"wait", "w", "10"},
		{"force", "f", "false"},
		{"quiet", "q", "false"},
		{"commit", "c", "false"},
		{"rollback", "r", "false"},
		{"check", "", "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := cmd.Flags().Lookup(tt.name)
			require.NotNil(t, f)
			assert.Equal(t, tt.shorthand, f.Shorthand)
			assert.Equal(t, tt.def, f.DefValue)
		})
	}
}

func TestPersistentFlags(t *testing.T) {
	cmd := NewRootCommand()

	mode := cmd.PersistentFlags().Lookup("mode")
	require.NotNil(t, mode)
	assert.Equal(t, "m", mode.Shorthand)
	assert.Equal(t, "all", mode.DefValue)

	cfg := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, cfg)
	assert.Equal(t, "/etc/setman/setman.yaml", cfg.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("workdir"))
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitFailure},
		{"exit error", NewExitError(ExitRolledBack, "rolled back"), ExitRolledBack},
		{"wrapped", WrapExitError(ExitUsage, "bad flag", errors.New("x")), ExitUsage},
		{"nested", errors.Join(errors.New("outer"), NewExitError(ExitUsage, "u")), ExitUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestExitErrorMessage(t *testing.T) {
	assert.Equal(t, "send confirmed: gone", WrapExitError(ExitFailure, "send confirmed", errors.New("gone")).Error())
	assert.Equal(t, "gone", (&ExitError{Code: ExitFailure, Err: errors.New("gone")}).Error())
	assert.Equal(t, "rolled back", NewExitError(ExitRolledBack, "rolled back").Error())
}

func TestVersion(t *testing.T) {
	cmd := NewRootCommand()
	assert.Contains(t, cmd.Version, "dev")
	require.NotNil(t, cmd.Flags().Lookup("version"), "cobra adds --version when Version is set")
}
