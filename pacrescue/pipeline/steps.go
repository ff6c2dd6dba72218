package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	multierror "github.com/hashicorp/go-multierror"
)

var affirmative = regexp.MustCompile(`^[Yy]$`)

func (p *Pipeline) checkPrivileges(_ context.Context) error {
	if p.euid() != 0 {
		return fmt.Errorf("%w: run this tool as root", ErrNotRoot)
	}
	return nil
}

func (p *Pipeline) confirm(_ context.Context) error {
	p.rep.Warnf("this will remove the pacman database lock, reset the sync databases and the keyring, then refresh and upgrade the whole system")
	p.rep.Prompt("Proceed with the repair? [y/N] ")

	// A read error (e.g. closed stdin) counts as a decline; only an
	// explicit y may proceed.
	line, _ := p.in.ReadString('\n')
	if !affirmative.MatchString(strings.TrimSpace(line)) {
		p.rep.Infof("repair cancelled, nothing was changed")
		return ErrCancelled
	}
	return nil
}

func (p *Pipeline) removeLock(_ context.Context) error {
	if _, err := os.Lstat(p.cfg.LockFile); err != nil {
		if os.IsNotExist(err) {
			p.rep.Infof("database lock %s not found, nothing to remove", p.cfg.LockFile)
			return nil
		}
		return fmt.Errorf("checking database lock %s: %w", p.cfg.LockFile, err)
	}
	if err := os.Remove(p.cfg.LockFile); err != nil {
		return fmt.Errorf("removing database lock %s: %w", p.cfg.LockFile, err)
	}
	p.rep.Infof("removed stale database lock %s", p.cfg.LockFile)
	return nil
}

// resetSyncData empties the sync database cache. The directory itself
// stays in place so the final resync can repopulate it.
func (p *Pipeline) resetSyncData(_ context.Context) error {
	if _, err := os.Stat(p.cfg.SyncDir); err != nil {
		if os.IsNotExist(err) {
			p.rep.Infof("sync database cache %s not found, nothing to reset", p.cfg.SyncDir)
			return nil
		}
		return fmt.Errorf("checking sync database cache %s: %w", p.cfg.SyncDir, err)
	}

	if !p.cfg.BackupBeforeReset {
		if err := os.RemoveAll(p.cfg.SyncDir); err != nil {
			return fmt.Errorf("deleting sync database cache %s: %w", p.cfg.SyncDir, err)
		}
		p.rep.Infof("deleted sync database cache %s", p.cfg.SyncDir)
		return nil
	}

	backup := p.backupPath(p.cfg.SyncDir)
	if err := os.MkdirAll(backup, 0o755); err != nil {
		return fmt.Errorf("creating backup directory %s: %w", backup, err)
	}

	entries, err := os.ReadDir(p.cfg.SyncDir)
	if err != nil {
		return fmt.Errorf("listing sync database cache %s: %w", p.cfg.SyncDir, err)
	}

	var moveErrs *multierror.Error
	for _, entry := range entries {
		src := filepath.Join(p.cfg.SyncDir, entry.Name())
		dst := filepath.Join(backup, entry.Name())
		if err := os.Rename(src, dst); err != nil {
			moveErrs = multierror.Append(moveErrs, err)
		}
	}
	if err := moveErrs.ErrorOrNil(); err != nil {
		return fmt.Errorf("backing up sync database cache to %s: %w", backup, err)
	}

	p.rep.Infof("moved sync database cache contents to %s", backup)
	return nil
}

// resetKeyring moves the whole keyring directory aside (or deletes
// it); it must not exist when pacman-key --init recreates it.
func (p *Pipeline) resetKeyring(_ context.Context) error {
	if _, err := os.Stat(p.cfg.KeyringDir); err != nil {
		if os.IsNotExist(err) {
			p.rep.Infof("keyring directory %s not found, nothing to reset", p.cfg.KeyringDir)
			return nil
		}
		return fmt.Errorf("checking keyring directory %s: %w", p.cfg.KeyringDir, err)
	}

	if !p.cfg.BackupBeforeReset {
		if err := os.RemoveAll(p.cfg.KeyringDir); err != nil {
			return fmt.Errorf("deleting keyring directory %s: %w", p.cfg.KeyringDir, err)
		}
		p.rep.Infof("deleted keyring directory %s", p.cfg.KeyringDir)
		return nil
	}

	backup := p.backupPath(p.cfg.KeyringDir)
	if err := os.Rename(p.cfg.KeyringDir, backup); err != nil {
		return fmt.Errorf("moving keyring directory to %s: %w", backup, err)
	}
	p.rep.Infof("moved keyring directory to %s", backup)
	return nil
}

func (p *Pipeline) initKeyring(ctx context.Context) error {
	p.rep.Infof("initializing a fresh pacman keyring")
	if err := p.keyring.Init(ctx); err != nil {
		return fmt.Errorf("keyring initialization failed: %w", err)
	}
	return nil
}

func (p *Pipeline) populateKeyring(ctx context.Context) error {
	p.rep.Infof("populating the keyring with the distribution trust keys")

	var err error
	for attempt := 1; attempt <= p.cfg.PopulateAttempts; attempt++ {
		if err = p.keyring.Populate(ctx); err == nil {
			return nil
		}
		if attempt < p.cfg.PopulateAttempts {
			p.rep.Warnf("keyring populate attempt %d of %d failed, retrying in %s: %v",
				attempt, p.cfg.PopulateAttempts, p.cfg.PopulateDelay, err)
			p.sleep(p.cfg.PopulateDelay)
		}
	}
	return fmt.Errorf("populating keyring failed after %d attempts: %w", p.cfg.PopulateAttempts, err)
}

func (p *Pipeline) resync(ctx context.Context) error {
	p.rep.Infof("refreshing all package databases and upgrading the system")
	if err := p.pkg.RefreshAndUpgrade(ctx); err != nil {
		return fmt.Errorf("full resynchronization failed, check network connectivity: %w", err)
	}
	return nil
}

func (p *Pipeline) backupPath(dir string) string {
	return dir + "-backup-" + p.now().Format("20060102-150405")
}
