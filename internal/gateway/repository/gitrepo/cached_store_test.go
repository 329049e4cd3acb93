package gitrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"publisher/internal/gateway/entity"
)

type countingStore struct {
	*MemoryStore
	gets int
}

func (s *countingStore) Get(ctx context.Context, id entity.RepositoryID) (entity.Repository, error) {
	s.gets++
	return s.MemoryStore.Get(ctx, id)
}

func TestCachedStoreReadThrough(t *testing.T) {
	origin := &countingStore{MemoryStore: NewMemoryStore()}
	ctx := context.Background()
	require.NoError(t, origin.Put(ctx, testRepo))

	store, err := NewCachedStore(origin, 4)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		got, err := store.Get(ctx, testRepo.ID)
		require.NoError(t, err)
		assert.Equal(t, testRepo, got)
	}
	assert.Equal(t, 1, origin.gets)
	hits, misses := store.Stats()
	assert.Equal(t, uint64(2), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestCachedStoreDoesNotCacheMisses(t *testing.T) {
	origin := &countingStore{MemoryStore: NewMemoryStore()}
	store, err := NewCachedStore(origin, 4)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, entity.Repository{ID: "nope", Owner: "o", Name: "n"}))
	got, err := store.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Equal(t, "o/n", got.FullName())
	assert.Equal(t, 1, origin.gets)
}
