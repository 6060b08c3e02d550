// Package storage persists raw card pack collections.
//
// A Store is a plain key-value store. Packs live under keys of the form
// "cardPacks/<name>" and values are the collection JSON exactly as
// downloaded; callers validate on read.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// PackKeyPrefix namespaces card pack entries within a store.
const PackKeyPrefix = "cardPacks/"

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("not found")

// Store is a key-value store for serialised pack collections.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists every key in ascending order.
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// PackKey returns the store key for a pack collection name.
func PackKey(name string) string {
	return PackKeyPrefix + name
}

// PackName reports the collection name stored under key, if key is a pack key.
func PackName(key string) (string, bool) {
	if !strings.HasPrefix(key, PackKeyPrefix) {
		return "", false
	}
	return key[len(PackKeyPrefix):], true
}

// Options selects and configures a Store backend.
type Options struct {
	// Backend is one of "memory", "file", "sqlite" or "postgres".
	Backend string
	// Path is the directory for "file" and the database file for "sqlite".
	Path string
	// DSN is the connection string for "postgres".
	DSN string
}

// Open creates the Store described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(opts.Path)
	case "sqlite":
		return OpenSQLiteStore(ctx, opts.Path)
	case "postgres":
		return OpenPostgresStore(ctx, opts.DSN)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
