package artifact

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"publisher/internal/gateway/entity"
	artifactrepo "publisher/internal/gateway/repository/artifact"
)

type Store = artifactrepo.Store

type CacheConfig struct {
	VersionTTL        time.Duration
	VersionMaxEntries int

	RulesTTL        time.Duration
	RulesMaxEntries int
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		VersionTTL:        10 * time.Minute,
		VersionMaxEntries: 2048,
		RulesTTL:          time.Minute,
		RulesMaxEntries:   1024,
	}
}

type MetricsSnapshot struct {
	VersionHits    uint64
	VersionMisses  uint64
	RulesHits      uint64
	RulesMisses    uint64
	OriginReads    uint64
	OriginWrites   uint64
	OriginReadErr  uint64
	OriginWriteErr uint64
}

type Metrics struct {
	versionHits    atomic.Uint64
	versionMisses  atomic.Uint64
	rulesHits      atomic.Uint64
	rulesMisses    atomic.Uint64
	originReads    atomic.Uint64
	originWrites   atomic.Uint64
	originReadErr  atomic.Uint64
	originWriteErr atomic.Uint64
}

func (m *Metrics) snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		VersionHits:    m.versionHits.Load(),
		VersionMisses:  m.versionMisses.Load(),
		RulesHits:      m.rulesHits.Load(),
		RulesMisses:    m.rulesMisses.Load(),
		OriginReads:    m.originReads.Load(),
		OriginWrites:   m.originWrites.Load(),
		OriginReadErr:  m.originReadErr.Load(),
		OriginWriteErr: m.originWriteErr.Load(),
	}
}

// CachedStore caches catalog reads. Recipes are immutable and live long.
// Standards carry rules that may change with the artifact, so they share the
// short rules TTL and are dropped whenever their artifact is written.
type CachedStore struct {
	origin Store

	versions  *expirable.LRU[string, entity.ArtifactVersion]
	standards *expirable.LRU[string, entity.ArtifactVersion]
	rules     *expirable.LRU[entity.ArtifactID, []entity.Rule]
	metrics   Metrics

	mu         sync.Mutex
	byArtifact map[entity.ArtifactID]map[string]struct{}
}

func NewCachedStore(origin Store, cfg CacheConfig) *CachedStore {
	def := DefaultCacheConfig()
	if cfg.VersionTTL <= 0 {
		cfg.VersionTTL = def.VersionTTL
	}
	if cfg.VersionMaxEntries <= 0 {
		cfg.VersionMaxEntries = def.VersionMaxEntries
	}
	if cfg.RulesTTL <= 0 {
		cfg.RulesTTL = def.RulesTTL
	}
	if cfg.RulesMaxEntries <= 0 {
		cfg.RulesMaxEntries = def.RulesMaxEntries
	}

	return &CachedStore{
		origin:     origin,
		versions:   expirable.NewLRU[string, entity.ArtifactVersion](cfg.VersionMaxEntries, nil, cfg.VersionTTL),
		standards:  expirable.NewLRU[string, entity.ArtifactVersion](cfg.RulesMaxEntries, nil, cfg.RulesTTL),
		rules:      expirable.NewLRU[entity.ArtifactID, []entity.Rule](cfg.RulesMaxEntries, nil, cfg.RulesTTL),
		byArtifact: make(map[entity.ArtifactID]map[string]struct{}),
	}
}

// GetVersion returns standards with the rules the origin resolved for that
// exact version.
func (s *CachedStore) GetVersion(ctx context.Context, kind entity.ArtifactKind, id entity.VersionID) (entity.ArtifactVersion, error) {
	key := versionKey(kind, id)
	cache := s.versions
	if kind == entity.KindStandard {
		cache = s.standards
	}
	if v, ok := cache.Get(key); ok {
		s.metrics.versionHits.Add(1)
		return copyVersion(v), nil
	}
	s.metrics.versionMisses.Add(1)
	s.metrics.originReads.Add(1)

	v, err := s.origin.GetVersion(ctx, kind, id)
	if err != nil {
		s.metrics.originReadErr.Add(1)
		return entity.ArtifactVersion{}, err
	}
	cache.Add(key, copyVersion(v))
	if kind == entity.KindStandard {
		s.track(v.ArtifactID, key)
	}
	return v, nil
}

func (s *CachedStore) GetRules(ctx context.Context, artifactID entity.ArtifactID) ([]entity.Rule, error) {
	key := entity.ArtifactID(artifactID.String())
	if rules, ok := s.rules.Get(key); ok {
		s.metrics.rulesHits.Add(1)
		return copyRules(rules), nil
	}
	s.metrics.rulesMisses.Add(1)
	s.metrics.originReads.Add(1)

	rules, err := s.origin.GetRules(ctx, artifactID)
	if err != nil {
		s.metrics.originReadErr.Add(1)
		return nil, err
	}
	s.rules.Add(key, copyRules(rules))
	return copyRules(rules), nil
}

func (s *CachedStore) PutVersion(ctx context.Context, version entity.ArtifactVersion) error {
	s.metrics.originWrites.Add(1)
	if err := s.origin.PutVersion(ctx, version); err != nil {
		s.metrics.originWriteErr.Add(1)
		return err
	}
	s.versions.Remove(versionKey(version.Kind, version.ID))
	if version.Kind == entity.KindStandard {
		s.invalidate(version.ArtifactID)
	}
	return nil
}

func (s *CachedStore) PutRules(ctx context.Context, artifactID entity.ArtifactID, rules []entity.Rule) error {
	s.metrics.originWrites.Add(1)
	if err := s.origin.PutRules(ctx, artifactID, rules); err != nil {
		s.metrics.originWriteErr.Add(1)
		return err
	}
	s.invalidate(artifactID)
	s.rules.Add(entity.ArtifactID(artifactID.String()), copyRules(rules))
	return nil
}

func (s *CachedStore) Metrics() MetricsSnapshot {
	if s == nil {
		return MetricsSnapshot{}
	}
	return s.metrics.snapshot()
}

func (s *CachedStore) track(artifactID entity.ArtifactID, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := entity.ArtifactID(artifactID.String())
	keys, ok := s.byArtifact[id]
	if !ok {
		keys = make(map[string]struct{})
		s.byArtifact[id] = keys
	}
	keys[key] = struct{}{}
}

// invalidate drops the artifact's rules and every cached version of it.
func (s *CachedStore) invalidate(artifactID entity.ArtifactID) {
	id := entity.ArtifactID(artifactID.String())
	s.rules.Remove(id)

	s.mu.Lock()
	keys := s.byArtifact[id]
	delete(s.byArtifact, id)
	s.mu.Unlock()
	for key := range keys {
		s.standards.Remove(key)
	}
}

func versionKey(kind entity.ArtifactKind, id entity.VersionID) string {
	return string(kind) + "/" + id.String()
}

func copyVersion(v entity.ArtifactVersion) entity.ArtifactVersion {
	if v.RulesLoaded {
		return v.WithRules(v.Rules)
	}
	return v
}

func copyRules(rules []entity.Rule) []entity.Rule {
	return append([]entity.Rule{}, rules...)
}
