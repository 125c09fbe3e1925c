package repository

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/keywarden/keywarden/interfaces"
)

const keyFileSuffix = ".key"

// FileRepository stores wrapped key material as files in a directory.
// Used for the managed-hosting and user-profile storage tiers.
type FileRepository struct {
	dir      string
	log      *slog.Logger
	location string
}

// NewFileRepository creates a file-backed key repository rooted at dir,
// creating the directory if needed. Key files are created owner-only.
func NewFileRepository(dir string, log *slog.Logger) (*FileRepository, error) {
	if dir == "" {
		return nil, fmt.Errorf("empty key directory path")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create key directory: %w", err)
	}

	return &FileRepository{
		dir:      dir,
		log:      log,
		location: fmt.Sprintf("file://%s", dir),
	}, nil
}

// StoreKey writes key material to <dir>/<id>.key with owner-only permissions.
func (r *FileRepository) StoreKey(ctx context.Context, id interfaces.KeyID, data []byte) error {
	path := r.keyPath(id)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}

	r.log.Debug("Stored key",
		slog.String("keyID", id.String()),
		slog.String("path", path))
	return nil
}

// FetchKey reads key material by identifier.
func (r *FileRepository) FetchKey(ctx context.Context, id interfaces.KeyID) ([]byte, error) {
	path := r.keyPath(id)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, interfaces.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	return data, nil
}

// ListKeys enumerates the identifiers of all stored keys.
func (r *FileRepository) ListKeys(ctx context.Context) ([]interfaces.KeyID, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}

	var ids []interfaces.KeyID
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, keyFileSuffix) {
			continue
		}
		ids = append(ids, interfaces.KeyID(strings.TrimSuffix(name, keyFileSuffix)))
	}
	return ids, nil
}

// Name returns a unique identifier for this repository.
func (r *FileRepository) Name() string {
	return fmt.Sprintf("file-%s", filepath.Base(r.dir))
}

// Location returns the URI that identifies this repository.
func (r *FileRepository) Location() string {
	return r.location
}

func (r *FileRepository) keyPath(id interfaces.KeyID) string {
	return filepath.Join(r.dir, id.String()+keyFileSuffix)
}
