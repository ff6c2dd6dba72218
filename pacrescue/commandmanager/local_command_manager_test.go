package commandmanager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCapturesStdout(t *testing.T) {
	manager := &LocalCommandManager{}

	result, err := manager.Run(context.Background(), CommandConfig{
		Command: "echo",
		Args:    []string{"hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", result.STDOUT)
	assert.Zero(t, result.ExitCode)
	assert.Equal(t, "echo", result.Command)
}

func TestRunReportsExitCode(t *testing.T) {
	manager := &LocalCommandManager{}

	result, err := manager.Run(context.Background(), CommandConfig{
		Command: "sh",
		Args:    []string{"-c", "echo oops >&2; exit 3"},
	})
	require.Error(t, err)
	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, "oops\n", result.STDERR)
}

func TestRunAppendsEnv(t *testing.T) {
	manager := &LocalCommandManager{}

	result, err := manager.Run(context.Background(), CommandConfig{
		Command: "sh",
		Args:    []string{"-c", "printf '%s' \"$PACRESCUE_TEST\""},
		Env:     []string{"PACRESCUE_TEST=wired"},
	})
	require.NoError(t, err)
	assert.Equal(t, "wired", result.STDOUT)
}

func TestRunMissingBinary(t *testing.T) {
	manager := &LocalCommandManager{}

	_, err := manager.Run(context.Background(), CommandConfig{
		Command: "definitely-not-a-real-binary-pacrescue",
	})
	assert.Error(t, err)
}
