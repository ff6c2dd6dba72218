package commandmanager

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// LocalCommandManager runs commands on the local system and blocks
// until the subprocess exits. Cancellation of the context kills the
// subprocess.
type LocalCommandManager struct {
	Logger *logrus.Logger
}

func (l *LocalCommandManager) Run(ctx context.Context, config CommandConfig) (CommandResult, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, config.Command, config.Args...)
	if len(config.Env) > 0 {
		cmd.Env = append(os.Environ(), config.Env...)
	}

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := CommandResult{
		Command:   config.Command,
		STDOUT:    stdout.String(),
		STDERR:    stderr.String(),
		ExitCode:  getExitCode(err),
		Duration:  time.Since(start),
		Timestamp: start,
	}

	l.logger().WithFields(logrus.Fields{
		"command":  config.Command,
		"args":     strings.Join(config.Args, " "),
		"exitCode": result.ExitCode,
		"duration": result.Duration,
	}).Debug("command finished")

	return result, err
}

func (l *LocalCommandManager) logger() *logrus.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return logrus.StandardLogger()
}

func getExitCode(err error) int {
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			return exitError.ExitCode()
		}
	}
	return 0
}
