package target

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"publisher/internal/gateway/entity"
)

type MemoryStore struct {
	mu   sync.RWMutex
	data map[entity.TargetID]entity.Target
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[entity.TargetID]entity.Target),
	}
}

func (s *MemoryStore) Get(_ context.Context, id entity.TargetID) (entity.Target, error) {
	if s == nil {
		return entity.Target{}, fmt.Errorf("store is nil")
	}
	if id.IsZero() {
		return entity.Target{}, fmt.Errorf("target_id is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.data[entity.TargetID(id.String())]
	if !ok {
		return entity.Target{}, ErrNotFound
	}
	return t, nil
}

func (s *MemoryStore) Put(_ context.Context, target entity.Target) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	if target.ID.IsZero() {
		return fmt.Errorf("target_id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[entity.TargetID(target.ID.String())] = target
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id entity.TargetID) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := entity.TargetID(id.String())
	if _, ok := s.data[key]; !ok {
		return ErrNotFound
	}
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) ListByRepository(_ context.Context, repoID entity.RepositoryID) ([]entity.Target, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Target, 0, 4)
	for _, t := range s.data {
		if t.RepositoryID.String() == repoID.String() {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
