// Package backup provides the offline itinerary payload shipped with the binary.
package backup

import (
	_ "embed"
	"os"

	pkgerrors "github.com/pkg/errors"
)

//go:embed offline_backup.json
var bundled []byte

// Source returns the raw backup payload. An empty Path serves the embedded copy;
// otherwise the file at Path is read on every Load.
type Source struct {
	Path string
}

// Load returns a fresh copy of the payload.
func (s Source) Load() ([]byte, error) {
	if s.Path == "" {
		return Bundled(), nil
	}
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "read backup %s", s.Path)
	}
	return raw, nil
}

// Bundled returns a copy of the embedded payload.
func Bundled() []byte {
	return append([]byte(nil), bundled...)
}
