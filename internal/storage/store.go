// Package storage is the key-value persistence layer. Each collection is
// kept as one JSON blob under a fixed key and is always read and written
// whole; filtering happens in the callers.
package storage

import (
	"context"
	"errors"
)

// Fixed keys of the persisted layout.
const (
	UsersKey   = "fmw_users"
	ReportsKey = "fmw_reports"
	SessionKey = "fmw_session"
)

// ErrKeyNotFound is returned by Get when nothing is stored under the key.
var ErrKeyNotFound = errors.New("storage: key not found")

// Store is a flat key-value store. Put replaces the previous value in a
// single step, so readers never observe a partial write.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
	Name() string
}
