package commandmanager

import (
	"context"
	"time"
)

// CommandConfig describes a single external command invocation.
type CommandConfig struct {
	Command string
	Args    []string
	Env     []string // extra KEY=VALUE pairs appended to the process environment
}

// CommandResult encapsulates the results from a command execution.
type CommandResult struct {
	Command   string
	STDOUT    string
	STDERR    string
	ExitCode  int
	Duration  time.Duration
	Timestamp time.Time
}

// CommandManager provides a blocking way to execute external commands.
type CommandManager interface {
	Run(ctx context.Context, config CommandConfig) (CommandResult, error)
}
