package database

import (
	"errors"
	"fmt"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// ErrLocked is returned when another process holds the storage file.
var ErrLocked = errors.New("storage file is locked by another process")

// Store is a durable string key/value store.
type Store interface {
	Ping() error
	// Get returns the value stored under key and whether it was present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error
	// Keys lists stored keys in lexical order.
	Keys() ([]string, error)
	Close() error
}

// Open opens the named backend at path. The memory backend ignores path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "bolt", "":
		return NewBolt(path)
	case "sqlite":
		return NewSQLite(path)
	case "ini":
		return NewINI(path)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
