package repository

import (
	"context"
	"log/slog"
	"sync"

	"github.com/keywarden/keywarden/interfaces"
)

// MemoryRepository is the ephemeral fallback store. Keys live only in
// process memory: everything protected with them becomes unrecoverable
// once the process exits. The resolution engine surfaces a warning when it
// lands on this tier.
type MemoryRepository struct {
	mu   sync.RWMutex
	keys map[interfaces.KeyID][]byte
	log  *slog.Logger
}

// NewMemoryRepository creates an empty in-memory key repository.
func NewMemoryRepository(log *slog.Logger) *MemoryRepository {
	return &MemoryRepository{
		keys: make(map[interfaces.KeyID][]byte),
		log:  log,
	}
}

// StoreKey keeps a copy of the key material in memory.
func (r *MemoryRepository) StoreKey(ctx context.Context, id interfaces.KeyID, data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)

	r.mu.Lock()
	r.keys[id] = buf
	r.mu.Unlock()

	r.log.Debug("Stored key in memory", slog.String("keyID", id.String()))
	return nil
}

// FetchKey retrieves key material by identifier.
func (r *MemoryRepository) FetchKey(ctx context.Context, id interfaces.KeyID) ([]byte, error) {
	r.mu.RLock()
	data, ok := r.keys[id]
	r.mu.RUnlock()
	if !ok {
		return nil, interfaces.ErrKeyNotFound
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

// ListKeys enumerates the identifiers of all stored keys.
func (r *MemoryRepository) ListKeys(ctx context.Context) ([]interfaces.KeyID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]interfaces.KeyID, 0, len(r.keys))
	for id := range r.keys {
		ids = append(ids, id)
	}
	return ids, nil
}

// Name returns a unique identifier for this repository.
func (r *MemoryRepository) Name() string {
	return "memory"
}

// Location returns the URI that identifies this repository.
func (r *MemoryRepository) Location() string {
	return "memory://"
}
