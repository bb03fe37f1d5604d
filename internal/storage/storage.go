package storage

import (
	"context"
)

type Storage interface {
	// Put stores data with the given key and returns the storage URL
	Put(ctx context.Context, key string, data []byte) (string, error)
	// Get retrieves the data stored under key
	Get(ctx context.Context, key string) ([]byte, error)
	// Exists reports whether key names a stored object or a non-empty prefix
	Exists(ctx context.Context, key string) (bool, error)
}
