package gitrepo

import (
	"context"
	"fmt"
	"sync"

	"publisher/internal/gateway/entity"
)

type MemoryStore struct {
	mu   sync.RWMutex
	data map[entity.RepositoryID]entity.Repository
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[entity.RepositoryID]entity.Repository),
	}
}

func (s *MemoryStore) Get(_ context.Context, id entity.RepositoryID) (entity.Repository, error) {
	if s == nil {
		return entity.Repository{}, fmt.Errorf("store is nil")
	}
	if id.IsZero() {
		return entity.Repository{}, fmt.Errorf("repository_id is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	repo, ok := s.data[entity.RepositoryID(id.String())]
	if !ok {
		return entity.Repository{}, ErrNotFound
	}
	return repo, nil
}

func (s *MemoryStore) Put(_ context.Context, repo entity.Repository) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	if repo.ID.IsZero() {
		return fmt.Errorf("repository_id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[entity.RepositoryID(repo.ID.String())] = repo
	return nil
}
