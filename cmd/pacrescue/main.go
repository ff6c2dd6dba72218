package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/archops/pacrescue/pacrescue/commandmanager"
	"github.com/archops/pacrescue/pacrescue/pacman"
	"github.com/archops/pacrescue/pacrescue/pacmanconf"
	"github.com/archops/pacrescue/pacrescue/pipeline"
	"github.com/archops/pacrescue/pacrescue/reporter"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pacrescue",
		Short: "Repair a broken pacman database and keyring",
		Long: `pacrescue repairs a pacman installation after database corruption, an
interrupted mirror sync, or keyring desynchronization. It must be run
as root and performs, in order:

  1. remove a stale database lock (db.lck) if one is present
  2. move the sync database cache aside to a timestamped backup
  3. move the pacman keyring aside to a timestamped backup
  4. reinitialize the keyring and repopulate the distribution keys
  5. force-refresh all databases and upgrade the system

The run must be confirmed interactively; there is deliberately no
flag to skip the confirmation.`,
		Args: cobra.NoArgs,
		RunE: run,
	}
}

func run(cmd *cobra.Command, _ []string) error {
	// Usage and cobra's own error line are only for argument errors;
	// from here on failures are reported through the reporter.
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	rep := reporter.New(os.Stdout, os.Stderr)

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)

	cfg := pipeline.DefaultConfig()
	paths := pacmanconf.Load(pacmanconf.DefaultConfPath)
	cfg.LockFile = paths.LockFile
	cfg.SyncDir = paths.SyncDir
	cfg.KeyringDir = paths.KeyringDir

	cm := &commandmanager.LocalCommandManager{Logger: log}
	p := pipeline.New(cfg,
		&pacman.PacmanCLI{CommandManager: cm},
		&pacman.PacmanKeyCLI{CommandManager: cm},
		rep,
	)

	start := time.Now()
	if err := p.Run(cmd.Context()); err != nil {
		if errors.Is(err, pipeline.ErrCancelled) {
			// A declined confirmation is not an error.
			return nil
		}
		rep.Errorf("%v", err)
		return err
	}

	log.WithField("duration", time.Since(start)).Debug("repair finished")
	return nil
}
