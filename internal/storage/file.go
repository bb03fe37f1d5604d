package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/xerrors"
)

type fileStorage struct {
	config FileConfig
}

type FileConfig struct {
	Directory string
}

// NewFileStorage creates a storage backend rooted at a local directory
func NewFileStorage(ctx context.Context, f FileConfig) (Storage, error) {
	if f.Directory == "" {
		f.Directory = "."
	}

	return &fileStorage{
		config: f,
	}, nil
}

// path resolves key below the root directory. Absolute keys are used as is.
func (a *fileStorage) path(key string) string {
	key = filepath.FromSlash(key)
	if filepath.IsAbs(key) {
		return filepath.Clean(key)
	}
	return filepath.Join(a.config.Directory, key)
}

func (a *fileStorage) Put(ctx context.Context, key string, data []byte) (string, error) {
	filePath := a.path(key)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", xerrors.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", xerrors.Errorf("failed to write file: %w", err)
	}

	return filePath, nil
}

func (a *fileStorage) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(a.path(key))
	if err != nil {
		return nil, xerrors.Errorf("failed to read file: %w", err)
	}

	return data, nil
}

func (a *fileStorage) Exists(ctx context.Context, key string) (bool, error) {
	if _, err := os.Stat(a.path(key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, xerrors.Errorf("failed to stat file: %w", err)
	}

	return true, nil
}
