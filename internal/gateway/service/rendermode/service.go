package rendermode

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"publisher/internal/gateway/entity"
	rendermoderepo "publisher/internal/gateway/repository/rendermode"
)

// Service owns per-organization render mode configurations.
// Every value it returns is normalized, including legacy rows that were stored un-normalized.
type Service struct {
	store    rendermoderepo.Store
	registry *Registry
	logger   *zap.SugaredLogger
}

func NewService(store rendermoderepo.Store, registry *Registry, logger *zap.SugaredLogger) *Service {
	if registry == nil {
		registry = NewRegistry(nil)
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{store: store, registry: registry, logger: logger}
}

// Registry exposes the mode-to-agent table the service validates against.
func (s *Service) Registry() *Registry { return s.registry }

// Get returns the organization's configuration, or ok=false when none was saved.
func (s *Service) Get(ctx context.Context, orgID entity.OrganizationID) (entity.RenderModeConfiguration, bool, error) {
	cfg, err := s.store.Get(ctx, orgID)
	if errors.Is(err, rendermoderepo.ErrNotFound) {
		return entity.RenderModeConfiguration{}, false, nil
	}
	if err != nil {
		return entity.RenderModeConfiguration{}, false, fmt.Errorf("get render mode configuration: %w", err)
	}
	return normalized(orgID, cfg.ActiveRenderModes), true, nil
}

// Create persists modes (or the default list when empty). An existing
// configuration is returned as-is instead of being overwritten.
func (s *Service) Create(ctx context.Context, orgID entity.OrganizationID, modes []entity.RenderMode) (entity.RenderModeConfiguration, error) {
	existing, ok, err := s.Get(ctx, orgID)
	if err != nil {
		return entity.RenderModeConfiguration{}, err
	}
	if ok {
		return existing, nil
	}
	if len(modes) == 0 {
		modes = entity.DefaultRenderModes()
	}
	if err := s.registry.Validate(modes); err != nil {
		return entity.RenderModeConfiguration{}, err
	}
	cfg := normalized(orgID, modes)
	if err := s.store.Put(ctx, cfg); err != nil {
		return entity.RenderModeConfiguration{}, fmt.Errorf("create render mode configuration: %w", err)
	}
	s.logger.Infow("render mode configuration created",
		"organizationId", orgID.String(),
		"renderModes", entity.RenderModeStrings(cfg.ActiveRenderModes),
	)
	return cfg, nil
}

// Update replaces the modes of an existing configuration.
func (s *Service) Update(ctx context.Context, orgID entity.OrganizationID, modes []entity.RenderMode) (entity.RenderModeConfiguration, error) {
	if err := s.registry.Validate(modes); err != nil {
		return entity.RenderModeConfiguration{}, err
	}
	_, ok, err := s.Get(ctx, orgID)
	if err != nil {
		return entity.RenderModeConfiguration{}, err
	}
	if !ok {
		return entity.RenderModeConfiguration{}, fmt.Errorf("organization %s: %w", orgID, ErrConfigurationNotFound)
	}
	cfg := normalized(orgID, modes)
	if err := s.store.Put(ctx, cfg); err != nil {
		return entity.RenderModeConfiguration{}, fmt.Errorf("update render mode configuration: %w", err)
	}
	s.logger.Infow("render mode configuration updated",
		"organizationId", orgID.String(),
		"renderModes", entity.RenderModeStrings(cfg.ActiveRenderModes),
	)
	return cfg, nil
}

// ActiveModes returns the persisted modes or the default list. Read errors
// are logged and fall back to the default.
func (s *Service) ActiveModes(ctx context.Context, orgID entity.OrganizationID) []entity.RenderMode {
	cfg, ok, err := s.Get(ctx, orgID)
	if err != nil {
		s.logger.Warnw("falling back to default render modes",
			"organizationId", orgID.String(),
			"error", err.Error(),
		)
		return Normalize(entity.DefaultRenderModes())
	}
	if !ok {
		return Normalize(entity.DefaultRenderModes())
	}
	return cfg.ActiveRenderModes
}

// ActiveCodingAgents resolves the organization's active modes to coding agents.
func (s *Service) ActiveCodingAgents(ctx context.Context, orgID entity.OrganizationID) ([]entity.RenderMode, []entity.CodingAgent, error) {
	modes := s.ActiveModes(ctx, orgID)
	agents, err := s.registry.ResolveCodingAgents(modes)
	if err != nil {
		return nil, nil, err
	}
	return modes, agents, nil
}

func normalized(orgID entity.OrganizationID, modes []entity.RenderMode) entity.RenderModeConfiguration {
	return entity.RenderModeConfiguration{
		OrganizationID:    entity.OrganizationID(orgID.String()),
		ActiveRenderModes: Normalize(modes),
	}
}
