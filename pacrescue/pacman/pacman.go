// Package pacman wraps the external pacman and pacman-key command
// line tools behind small capability interfaces, so the repair
// pipeline can be driven against fakes in tests and against the real
// binaries in production.
package pacman

import (
	"context"
	"fmt"
	"strings"

	cm "github.com/archops/pacrescue/pacrescue/commandmanager"
)

// PackageManager is the slice of pacman this tool needs.
type PackageManager interface {
	// RefreshAndUpgrade force-refreshes every package database and
	// upgrades all installed packages without per-package prompts.
	RefreshAndUpgrade(ctx context.Context) error
}

// PacmanCLI implements PackageManager by invoking the pacman binary.
type PacmanCLI struct {
	CommandManager cm.CommandManager
}

func (p *PacmanCLI) RefreshAndUpgrade(ctx context.Context) error {
	result, err := p.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "pacman",
		Args:    []string{"-Syyu", "--noconfirm"},
	})
	return commandError("pacman -Syyu", result, err)
}

// commandError folds a command result into a single error, carrying
// whatever the external tool wrote to stderr so the operator sees it
// verbatim.
func commandError(what string, result cm.CommandResult, err error) error {
	stderr := strings.TrimSpace(result.STDERR)
	if err != nil {
		if stderr != "" {
			return fmt.Errorf("%s: %w: %s", what, err, stderr)
		}
		return fmt.Errorf("%s: %w", what, err)
	}
	if result.ExitCode != 0 {
		if stderr != "" {
			return fmt.Errorf("%s: exit status %d: %s", what, result.ExitCode, stderr)
		}
		return fmt.Errorf("%s: exit status %d", what, result.ExitCode)
	}
	return nil
}
