package target

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"publisher/internal/gateway/entity"
	targetrepo "publisher/internal/gateway/repository/target"
)

// HistoryInvalidator drops a deleted target's history from active-version lookups.
type HistoryInvalidator interface {
	InvalidateTarget(ctx context.Context, orgID entity.OrganizationID, targetID entity.TargetID) error
}

type AddCommand struct {
	OrganizationID entity.OrganizationID
	RepositoryID   entity.RepositoryID
	Name           string
	Path           string
}

type UpdateCommand struct {
	OrganizationID entity.OrganizationID
	ID             entity.TargetID
	Name           string
	Path           string
}

// Service runs target lifecycle commands.
type Service struct {
	resolver *Resolver
	targets  targetrepo.Store
	history  HistoryInvalidator
	newID    func() string
	logger   *zap.SugaredLogger
}

func NewService(resolver *Resolver, targets targetrepo.Store, history HistoryInvalidator, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{
		resolver: resolver,
		targets:  targets,
		history:  history,
		newID:    uuid.NewString,
		logger:   logger,
	}
}

func (s *Service) Get(ctx context.Context, orgID entity.OrganizationID, id entity.TargetID) (entity.Target, error) {
	t, err := s.resolver.Target(ctx, id)
	if err != nil {
		return entity.Target{}, err
	}
	if t.OrganizationID.String() != orgID.String() {
		return entity.Target{}, &TargetNotFoundError{ID: id}
	}
	return t, nil
}

func (s *Service) Add(ctx context.Context, cmd AddCommand) (entity.Target, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return entity.Target{}, ErrEmptyName
	}
	path, err := entity.ParseTargetPath(cmd.Path)
	if err != nil {
		return entity.Target{}, err
	}
	if _, err := s.resolver.Repository(ctx, cmd.RepositoryID); err != nil {
		return entity.Target{}, err
	}
	t := entity.Target{
		ID:             entity.TargetID(s.newID()),
		OrganizationID: cmd.OrganizationID,
		RepositoryID:   cmd.RepositoryID,
		Name:           name,
		Path:           path,
	}
	if err := s.targets.Put(ctx, t); err != nil {
		return entity.Target{}, fmt.Errorf("add target: %w", err)
	}
	s.logger.Infow("target added",
		"organizationId", cmd.OrganizationID.String(),
		"targetId", t.ID.String(),
		"gitRepoId", cmd.RepositoryID.String(),
		"path", path,
	)
	return t, nil
}

// Update renames a target and optionally moves it. An empty Path keeps the current one.
func (s *Service) Update(ctx context.Context, cmd UpdateCommand) (entity.Target, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return entity.Target{}, ErrEmptyName
	}
	current, err := s.Get(ctx, cmd.OrganizationID, cmd.ID)
	if err != nil {
		return entity.Target{}, err
	}
	path := current.Path
	if strings.TrimSpace(cmd.Path) != "" {
		if path, err = entity.ParseTargetPath(cmd.Path); err != nil {
			return entity.Target{}, err
		}
	}
	if current.IsRoot() && path != entity.RootPath {
		return entity.Target{}, ErrRootTargetImmutable
	}
	if path != current.Path {
		if _, err := s.resolver.Repository(ctx, current.RepositoryID); err != nil {
			return entity.Target{}, err
		}
	}
	updated := current
	updated.Name = name
	updated.Path = path
	if err := s.targets.Put(ctx, updated); err != nil {
		return entity.Target{}, fmt.Errorf("update target: %w", err)
	}
	s.logger.Infow("target updated",
		"organizationId", cmd.OrganizationID.String(),
		"targetId", cmd.ID.String(),
		"path", path,
	)
	return updated, nil
}

// Delete removes a non-root target and invalidates its active versions.
// Past distributions stay readable.
func (s *Service) Delete(ctx context.Context, orgID entity.OrganizationID, id entity.TargetID) error {
	current, err := s.Get(ctx, orgID, id)
	if err != nil {
		return err
	}
	if current.IsRoot() {
		return ErrRootTargetImmutable
	}
	if s.history != nil {
		if err := s.history.InvalidateTarget(ctx, orgID, id); err != nil {
			return fmt.Errorf("invalidate target history: %w", err)
		}
	}
	if err := s.targets.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete target: %w", err)
	}
	s.logger.Infow("target deleted",
		"organizationId", orgID.String(),
		"targetId", id.String(),
	)
	return nil
}
