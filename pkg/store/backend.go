package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Backend when a key has never been written.
var ErrNotFound = errors.New("store: key not found")

// Backend is the raw key/value persistence behind a Store.
type Backend interface {
	Read(key string) ([]byte, error)
	Write(key string, val []byte) error
	Erase(key string) error
	Keys(ctx context.Context) []string
}

const (
	BackendDiskv  = "diskv"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open builds the backend selected by cfg.
func Open(cfg Config) (Backend, error) {
	switch cfg.Backend() {
	case "", BackendDiskv:
		return NewDiskvBackend(cfg.BasePath()), nil
	case BackendSQLite:
		return NewSQLiteBackend(cfg.BasePath())
	case BackendMemory:
		return NewMemoryBackend(), nil
	}
	return nil, errors.New("store: unknown backend " + cfg.Backend())
}
