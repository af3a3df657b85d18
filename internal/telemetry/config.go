package telemetry

import (
	"os"
	"path/filepath"
	"time"

	"codeberg.org/mutker/drivemon/internal/errors"
)

const (
	// File system permissions and paths
	defaultDirPerm      = 0o755
	fallbackDBPath      = "/var/lib/drivemon/telemetry.db"
	defaultBatchSize    = 20
	defaultBatchTimeout = 10 * time.Second
)

type Config struct {
	DBPath       string
	BatchSize    int
	BatchTimeout time.Duration
	Enabled      bool
}

// DefaultDBPath returns the per-user database location.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return fallbackDBPath
	}

	return filepath.Join(home, ".local", "share", "drivemon", "telemetry.db")
}

func DefaultConfig() Config {
	return Config{
		DBPath:       DefaultDBPath(),
		BatchSize:    defaultBatchSize,
		BatchTimeout: defaultBatchTimeout,
		Enabled:      false, // Disabled by default
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	// Only validate storage settings if telemetry is enabled
	if !c.Enabled {
		return nil
	}
	if c.DBPath == "" {
		return errFactory.New(ErrInvalidDBPath)
	}
	if c.BatchSize < 1 {
		return errFactory.WithData(ErrInvalidConfig, "batch_size must be at least 1")
	}
	if c.BatchTimeout < 0 {
		return errFactory.WithData(ErrInvalidConfig, "batch_timeout must not be negative")
	}

	return nil
}

func (c Config) backupDir() string {
	return filepath.Join(filepath.Dir(c.DBPath), "backups")
}
