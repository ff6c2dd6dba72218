// Package pipeline drives the fixed sequence of repair steps against
// the local filesystem and the external pacman tools. Execution is
// strictly sequential: every step must fully succeed before the next
// one runs, and the first failure aborts the whole run.
package pipeline

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/archops/pacrescue/pacrescue/pacman"
	"github.com/archops/pacrescue/pacrescue/pacmanconf"
	"github.com/archops/pacrescue/pacrescue/reporter"
)

// State tracks how far a run has progressed. Each state is entered
// only after its step fully succeeded.
type State int

const (
	StateInit State = iota
	StatePrivilegeChecked
	StateConfirmed
	StateLockHandled
	StateSyncReset
	StateKeyringReset
	StateKeyringInitialized
	StateKeyringPopulated
	StateResynced
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StatePrivilegeChecked:
		return "privilege-checked"
	case StateConfirmed:
		return "confirmed"
	case StateLockHandled:
		return "lock-handled"
	case StateSyncReset:
		return "sync-reset"
	case StateKeyringReset:
		return "keyring-reset"
	case StateKeyringInitialized:
		return "keyring-initialized"
	case StateKeyringPopulated:
		return "keyring-populated"
	case StateResynced:
		return "resynced"
	case StateAborted:
		return "aborted"
	}
	return "unknown"
}

var (
	// ErrCancelled means the operator declined the confirmation
	// prompt. It maps to exit code 0, not an error.
	ErrCancelled = errors.New("cancelled by operator")

	// ErrNotRoot means the process lacks superuser privileges.
	ErrNotRoot = errors.New("superuser privileges required")
)

// Config is the immutable configuration a Pipeline is built from.
// BackupBeforeReset and the populate retry knobs cover the two
// historical behaviors of this tool: move state aside into
// timestamped backups with bounded populate retries (the defaults),
// or delete state outright with a single populate attempt.
type Config struct {
	LockFile   string
	SyncDir    string
	KeyringDir string

	// BackupBeforeReset moves the sync cache contents and the
	// keyring into timestamped backup locations instead of deleting
	// them. The backups are the only recovery path; there is no
	// automatic rollback.
	BackupBeforeReset bool

	// PopulateAttempts bounds the pacman-key --populate retries.
	// Values below 1 behave as a single attempt.
	PopulateAttempts int
	PopulateDelay    time.Duration
}

// DefaultConfig returns the stock pacman paths with the safer
// variants enabled: backups on, three populate attempts two seconds
// apart.
func DefaultConfig() Config {
	paths := pacmanconf.Default()
	return Config{
		LockFile:          paths.LockFile,
		SyncDir:           paths.SyncDir,
		KeyringDir:        paths.KeyringDir,
		BackupBeforeReset: true,
		PopulateAttempts:  3,
		PopulateDelay:     2 * time.Second,
	}
}

// Pipeline is the repair orchestrator.
type Pipeline struct {
	cfg     Config
	pkg     pacman.PackageManager
	keyring pacman.Keyring
	rep     *reporter.Reporter

	in    *bufio.Reader
	euid  func() int
	now   func() time.Time
	sleep func(time.Duration)

	state State
}

// Option overrides one of the pipeline's environment hooks.
type Option func(*Pipeline)

// WithInput sets where the confirmation answer is read from.
func WithInput(r io.Reader) Option {
	return func(p *Pipeline) { p.in = bufio.NewReader(r) }
}

// WithEUID sets the effective-uid source for the privilege guard.
func WithEUID(f func() int) Option {
	return func(p *Pipeline) { p.euid = f }
}

// WithClock sets the time source used for backup directory names.
func WithClock(f func() time.Time) Option {
	return func(p *Pipeline) { p.now = f }
}

// WithSleep sets the delay function used between populate attempts.
func WithSleep(f func(time.Duration)) Option {
	return func(p *Pipeline) { p.sleep = f }
}

func New(cfg Config, pkg pacman.PackageManager, keyring pacman.Keyring, rep *reporter.Reporter, opts ...Option) *Pipeline {
	if cfg.PopulateAttempts < 1 {
		cfg.PopulateAttempts = 1
	}
	p := &Pipeline{
		cfg:     cfg,
		pkg:     pkg,
		keyring: keyring,
		rep:     rep,
		in:      bufio.NewReader(os.Stdin),
		euid:    os.Geteuid,
		now:     time.Now,
		sleep:   time.Sleep,
		state:   StateInit,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State reports how far the last Run got.
func (p *Pipeline) State() State {
	return p.state
}

// Run executes the repair steps in order. It returns ErrCancelled if
// the operator declines the confirmation prompt and the first step
// failure otherwise. Already-completed destructive steps are not
// rolled back.
func (p *Pipeline) Run(ctx context.Context) error {
	steps := []struct {
		next State
		run  func(context.Context) error
	}{
		{StatePrivilegeChecked, p.checkPrivileges},
		{StateConfirmed, p.confirm},
		{StateLockHandled, p.removeLock},
		{StateSyncReset, p.resetSyncData},
		{StateKeyringReset, p.resetKeyring},
		{StateKeyringInitialized, p.initKeyring},
		{StateKeyringPopulated, p.populateKeyring},
		{StateResynced, p.resync},
	}

	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			p.state = StateAborted
			return err
		}
		p.state = step.next
	}

	p.rep.Successf("pacman database and keyring repair complete")
	return nil
}
