// Package localstore persists small values on the device: the last successful
// travel data payload and UI flags.
package localstore

import (
	"context"
	"errors"
)

// Keys shared by every consumer of the store.
const (
	KeyTravelData         = "travelData"
	KeyHasShownOnboarding = "hasShownOnboarding"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("localstore: key not found")

// Store is a durable key/value store. Implementations are safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
