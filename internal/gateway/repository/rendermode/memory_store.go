package rendermode

import (
	"context"
	"fmt"
	"sync"

	"publisher/internal/gateway/entity"
)

type MemoryStore struct {
	mu   sync.RWMutex
	data map[entity.OrganizationID][]entity.RenderMode
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[entity.OrganizationID][]entity.RenderMode),
	}
}

func (s *MemoryStore) Get(_ context.Context, orgID entity.OrganizationID) (entity.RenderModeConfiguration, error) {
	if s == nil {
		return entity.RenderModeConfiguration{}, fmt.Errorf("store is nil")
	}
	if orgID.IsZero() {
		return entity.RenderModeConfiguration{}, fmt.Errorf("organization_id is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	modes, ok := s.data[entity.OrganizationID(orgID.String())]
	if !ok {
		return entity.RenderModeConfiguration{}, ErrNotFound
	}
	return entity.RenderModeConfiguration{
		OrganizationID:    entity.OrganizationID(orgID.String()),
		ActiveRenderModes: append([]entity.RenderMode(nil), modes...),
	}, nil
}

func (s *MemoryStore) Put(_ context.Context, cfg entity.RenderModeConfiguration) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	if cfg.OrganizationID.IsZero() {
		return fmt.Errorf("organization_id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[entity.OrganizationID(cfg.OrganizationID.String())] = append([]entity.RenderMode(nil), cfg.ActiveRenderModes...)
	return nil
}
