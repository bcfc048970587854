package localstore

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	envHome = "TRAVELSYNC_HOME" // override for tests
	dirName = ".travelsync"     // default under $HOME

	SQLiteFilename = "travelsync.db"
	BoltFilename   = "travelsync.bolt"
)

// DataDir returns the directory holding local state (~/.travelsync unless
// TRAVELSYNC_HOME is set), creating it with 0700 permissions.
func DataDir() (string, error) {
	if custom := os.Getenv(envHome); custom != "" {
		if err := os.MkdirAll(custom, 0o700); err != nil {
			return "", err
		}
		return custom, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine user home: %w", err)
	}
	dir := filepath.Join(home, dirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}
