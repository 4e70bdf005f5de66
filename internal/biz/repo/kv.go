package repo

import (
	"context"
	"errors"
)

// ErrMiss is returned by KeyValueStore.Get when the key is absent
var ErrMiss = errors.New("kv: miss")

// KeyValueStore is the external string-keyed store.
// It offers single-key reads and writes only; there are no multi-key transactions,
// and every read may be stale with respect to concurrent writers.
type KeyValueStore interface {
	// Get returns the value for key, or ErrMiss if absent
	Get(ctx context.Context, key string) (string, error)

	// Put stores value at key
	Put(ctx context.Context, key, value string) error

	// Delete removes key; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error

	Close() error
}
