package gitrepo

import (
	"context"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"publisher/internal/gateway/entity"
)

// CachedStore keeps recently resolved repositories in an LRU in front of origin.
// Misses are not cached.
type CachedStore struct {
	origin Store
	cache  *lru.Cache[entity.RepositoryID, entity.Repository]

	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewCachedStore(origin Store, size int) (*CachedStore, error) {
	if size <= 0 {
		size = 256
	}
	cache, err := lru.New[entity.RepositoryID, entity.Repository](size)
	if err != nil {
		return nil, err
	}
	return &CachedStore{origin: origin, cache: cache}, nil
}

func (s *CachedStore) Get(ctx context.Context, id entity.RepositoryID) (entity.Repository, error) {
	key := entity.RepositoryID(id.String())
	if repo, ok := s.cache.Get(key); ok {
		s.hits.Add(1)
		return repo, nil
	}
	s.misses.Add(1)
	repo, err := s.origin.Get(ctx, id)
	if err != nil {
		return entity.Repository{}, err
	}
	s.cache.Add(key, repo)
	return repo, nil
}

func (s *CachedStore) Put(ctx context.Context, repo entity.Repository) error {
	if err := s.origin.Put(ctx, repo); err != nil {
		return err
	}
	s.cache.Add(entity.RepositoryID(repo.ID.String()), repo)
	return nil
}

// Stats returns cache hits and misses since construction.
func (s *CachedStore) Stats() (hits, misses uint64) {
	return s.hits.Load(), s.misses.Load()
}
