package pacman

import (
	"context"

	cm "github.com/archops/pacrescue/pacrescue/commandmanager"
)

// Keyring is the slice of pacman-key this tool needs.
type Keyring interface {
	// Init creates a fresh keyring directory with a new master key.
	Init(ctx context.Context) error
	// Populate imports and locally signs the distribution trust keys.
	Populate(ctx context.Context) error
}

// DefaultKeyrings is what --populate receives when no keyrings are
// configured explicitly.
var DefaultKeyrings = []string{"archlinux"}

// PacmanKeyCLI implements Keyring by invoking the pacman-key binary.
type PacmanKeyCLI struct {
	CommandManager cm.CommandManager
	Keyrings       []string
}

func (p *PacmanKeyCLI) Init(ctx context.Context) error {
	result, err := p.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "pacman-key",
		Args:    []string{"--init"},
	})
	return commandError("pacman-key --init", result, err)
}

func (p *PacmanKeyCLI) Populate(ctx context.Context) error {
	keyrings := p.Keyrings
	if len(keyrings) == 0 {
		keyrings = DefaultKeyrings
	}
	result, err := p.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "pacman-key",
		Args:    append([]string{"--populate"}, keyrings...),
	})
	return commandError("pacman-key --populate", result, err)
}
