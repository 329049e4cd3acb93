package distribution

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"publisher/internal/gateway/entity"
)

type targetKey struct {
	org    entity.OrganizationID
	target entity.TargetID
}

type MemoryStore struct {
	mu          sync.RWMutex
	items       []entity.Distribution
	ids         map[entity.DistributionID]struct{}
	invalidated map[targetKey]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ids:         make(map[entity.DistributionID]struct{}),
		invalidated: make(map[targetKey]struct{}),
	}
}

func (s *MemoryStore) Append(_ context.Context, d entity.Distribution) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	if d.ID.String() == "" {
		return fmt.Errorf("distribution id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[d.ID]; ok {
		return ErrDuplicate
	}
	s.ids[d.ID] = struct{}{}
	d.Versions = summarize(d.Versions)
	s.items = append(s.items, d)
	return nil
}

func (s *MemoryStore) List(_ context.Context, orgID entity.OrganizationID) ([]entity.Distribution, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	return s.filter(func(d entity.Distribution) bool {
		return d.OrganizationID.String() == orgID.String()
	}), nil
}

func (s *MemoryStore) ListByTarget(_ context.Context, orgID entity.OrganizationID, targetID entity.TargetID) ([]entity.Distribution, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	return s.filter(func(d entity.Distribution) bool {
		return d.OrganizationID.String() == orgID.String() && d.Target.ID.String() == targetID.String()
	}), nil
}

func (s *MemoryStore) FindActiveVersionsByTarget(ctx context.Context, orgID entity.OrganizationID, targetID entity.TargetID) ([]entity.ArtifactVersion, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	s.mu.RLock()
	_, gone := s.invalidated[targetKey{org: entity.OrganizationID(orgID.String()), target: entity.TargetID(targetID.String())}]
	s.mu.RUnlock()
	if gone {
		return []entity.ArtifactVersion{}, nil
	}
	items, err := s.ListByTarget(ctx, orgID, targetID)
	if err != nil {
		return nil, err
	}
	return ActiveVersions(items), nil
}

func (s *MemoryStore) InvalidateTarget(_ context.Context, orgID entity.OrganizationID, targetID entity.TargetID) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated[targetKey{org: entity.OrganizationID(orgID.String()), target: entity.TargetID(targetID.String())}] = struct{}{}
	return nil
}

// filter returns matches newest first; equal timestamps keep reverse insertion order.
func (s *MemoryStore) filter(match func(entity.Distribution) bool) []entity.Distribution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Distribution, 0, 8)
	for i := len(s.items) - 1; i >= 0; i-- {
		if match(s.items[i]) {
			out = append(out, s.items[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func summarize(versions []entity.ArtifactVersion) []entity.ArtifactVersion {
	out := make([]entity.ArtifactVersion, 0, len(versions))
	for _, v := range versions {
		out = append(out, v.Summarized())
	}
	return out
}
