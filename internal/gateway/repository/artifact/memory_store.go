package artifact

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"publisher/internal/gateway/entity"
)

type MemoryStore struct {
	mu       sync.RWMutex
	versions map[string]entity.ArtifactVersion

	// rules is the current rule set per artifact; versionRules is the
	// snapshot written with a standard version, when there was one.
	rules        map[entity.ArtifactID][]entity.Rule
	versionRules map[string][]entity.Rule
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		versions:     make(map[string]entity.ArtifactVersion),
		rules:        make(map[entity.ArtifactID][]entity.Rule),
		versionRules: make(map[string][]entity.Rule),
	}
}

func (s *MemoryStore) GetVersion(_ context.Context, kind entity.ArtifactKind, id entity.VersionID) (entity.ArtifactVersion, error) {
	if s == nil {
		return entity.ArtifactVersion{}, fmt.Errorf("store is nil")
	}
	if !kind.Valid() {
		return entity.ArtifactVersion{}, fmt.Errorf("unknown artifact kind %q", kind)
	}
	if id.IsZero() {
		return entity.ArtifactVersion{}, fmt.Errorf("version_id is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.versions[versionKey(kind, id)]
	if !ok {
		return entity.ArtifactVersion{}, ErrNotFound
	}
	if kind == entity.KindStandard {
		rules, ok := s.versionRules[versionKey(kind, id)]
		if !ok {
			rules = s.rules[entity.ArtifactID(v.ArtifactID.String())]
		}
		v = v.WithRules(rules)
	}
	return v, nil
}

func (s *MemoryStore) GetRules(_ context.Context, artifactID entity.ArtifactID) ([]entity.Rule, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if artifactID.String() == "" {
		return nil, fmt.Errorf("artifact_id is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Rule{}, s.rules[entity.ArtifactID(artifactID.String())]...), nil
}

func (s *MemoryStore) PutVersion(_ context.Context, version entity.ArtifactVersion) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	if !version.Kind.Valid() {
		return fmt.Errorf("unknown artifact kind %q", version.Kind)
	}
	if version.ID.IsZero() {
		return fmt.Errorf("version_id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := versionKey(version.Kind, version.ID)
	s.versions[key] = version.Summarized()
	if version.Kind == entity.KindStandard && version.RulesLoaded {
		s.versionRules[key] = append([]entity.Rule{}, version.Rules...)
		s.rules[entity.ArtifactID(version.ArtifactID.String())] = append([]entity.Rule{}, version.Rules...)
	}
	return nil
}

func (s *MemoryStore) PutRules(_ context.Context, artifactID entity.ArtifactID, rules []entity.Rule) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	if artifactID.String() == "" {
		return fmt.Errorf("artifact_id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[entity.ArtifactID(artifactID.String())] = append([]entity.Rule{}, rules...)
	return nil
}

func versionKey(kind entity.ArtifactKind, id entity.VersionID) string {
	return string(kind) + "/" + strings.TrimSpace(id.String())
}
