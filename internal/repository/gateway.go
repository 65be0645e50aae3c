package repository

import (
	"context"
	"errors"
	"fmt"

	"focusflow/internal/config"
)

// ErrSlotNotFound is returned by Read when a slot was never written.
var ErrSlotNotFound = errors.New("slot not found")

// Gateway is durable key-value storage for the persisted slots.
type Gateway interface {
	// Read returns the stored blob for key or ErrSlotNotFound.
	Read(ctx context.Context, key string) ([]byte, error)
	// Write stores every value in one call.
	Write(ctx context.Context, values map[string][]byte) error
	// WatchPath is the filesystem location backing the gateway, or "".
	WatchPath() string
	Close() error
}

// Open builds the gateway selected by cfg.
func Open(cfg config.Config) (Gateway, error) {
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		db, err := OpenSQLite(cfg.StoragePath)
		if err != nil {
			return nil, err
		}
		return NewSlotRepository(db, cfg.StoragePath), nil
	case config.BackendDiskv:
		return NewDiskv(cfg.StoragePath)
	case config.BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
