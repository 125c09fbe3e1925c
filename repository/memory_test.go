package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keywarden/keywarden/interfaces"
)

func TestMemoryRepository_StoreFetchList(t *testing.T) {
	repo := NewMemoryRepository(discardLogger())
	ctx := context.Background()

	id := interfaces.NewKeyID()
	material := []byte("wrapped key material")
	require.NoError(t, repo.StoreKey(ctx, id, material))

	got, err := repo.FetchKey(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, material, got)

	ids, err := repo.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []interfaces.KeyID{id}, ids)
}

func TestMemoryRepository_FetchMissing(t *testing.T) {
	repo := NewMemoryRepository(discardLogger())

	_, err := repo.FetchKey(context.Background(), interfaces.NewKeyID())
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
}

func TestMemoryRepository_CopiesMaterial(t *testing.T) {
	repo := NewMemoryRepository(discardLogger())
	ctx := context.Background()

	id := interfaces.NewKeyID()
	material := []byte("original")
	require.NoError(t, repo.StoreKey(ctx, id, material))

	// Mutating the caller's slice must not change the stored copy.
	material[0] = 'X'

	got, err := repo.FetchKey(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got)

	// Mutating a fetched slice must not change the stored copy either.
	got[0] = 'Y'
	again, err := repo.FetchKey(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again)
}
