// Package storage holds the small keyed records a client session keeps
// between requests: the signed-in user and the cart.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no record exists for the key.
var ErrNotFound = errors.New("storage: record not found")

// Store is a key/value store of opaque JSON records.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
