package localstore

import (
	"fmt"
	"path/filepath"
)

// Driver names accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
	DriverMemory = "memory"
)

// Open returns the Store for driver rooted at dir. dir is ignored for memory.
func Open(driver, dir string) (Store, error) {
	switch driver {
	case DriverSQLite:
		return OpenSQLite(filepath.Join(dir, SQLiteFilename))
	case DriverBolt:
		return OpenBolt(filepath.Join(dir, BoltFilename))
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("localstore: unsupported driver %q", driver)
	}
}
