// Package pacmanconf resolves the filesystem paths pacman keeps its
// state under. The paths come from pacman.conf when it is readable
// and fall back to the stock defaults otherwise; this tool never
// fails because of a broken pacman.conf, since repairing a broken
// installation is the whole point.
package pacmanconf

import (
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	// DefaultConfPath is where pacman looks for its configuration.
	DefaultConfPath = "/etc/pacman.conf"

	defaultDBPath = "/var/lib/pacman"
	defaultGPGDir = "/etc/pacman.d/gnupg"

	lockFileName = "db.lck"
	syncDirName  = "sync"
)

// Paths are the three well-known locations the repair pipeline
// operates on.
type Paths struct {
	LockFile   string
	SyncDir    string
	KeyringDir string
}

// Default returns the stock pacman locations.
func Default() Paths {
	return pathsFor(defaultDBPath, defaultGPGDir)
}

// Load reads path overrides from the pacman.conf at path. Any parse
// or read failure yields the defaults.
func Load(path string) Paths {
	dbPath, gpgDir := defaultDBPath, defaultGPGDir

	// pacman.conf is an INI dialect with bare boolean keys such as
	// Color and CheckSpace.
	cfg, err := ini.LoadSources(ini.LoadOptions{AllowBooleanKeys: true}, path)
	if err != nil {
		return pathsFor(dbPath, gpgDir)
	}

	options := cfg.Section("options")
	if v := strings.TrimSpace(options.Key("DBPath").String()); v != "" {
		dbPath = v
	}
	if v := strings.TrimSpace(options.Key("GPGDir").String()); v != "" {
		gpgDir = v
	}

	return pathsFor(dbPath, gpgDir)
}

func pathsFor(dbPath, gpgDir string) Paths {
	return Paths{
		LockFile:   filepath.Join(dbPath, lockFileName),
		SyncDir:    filepath.Join(dbPath, syncDirName),
		KeyringDir: filepath.Clean(gpgDir),
	}
}
