// Package state manages per-chat conversation state and the key-value store
// every other bot component reads and writes through.
package state

import (
	"context"
	"errors"
)

// ErrNotFound indicates that no value is stored under the requested key.
var ErrNotFound = errors.New("state: key not found")

// Store is the narrow key-value capability the bot depends on.
// Implementations provide no transactions: callers doing read-modify-write
// sequences accept last-write-wins races.
type Store interface {
	// Get returns the raw value stored under key or ErrNotFound.
	Get(ctx context.Context, key Key) (string, error)
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key Key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key Key) error
}
