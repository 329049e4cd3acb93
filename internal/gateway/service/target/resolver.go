package target

import (
	"context"
	"errors"
	"fmt"

	"publisher/internal/gateway/entity"
	gitrepo "publisher/internal/gateway/repository/gitrepo"
	targetrepo "publisher/internal/gateway/repository/target"
)

// Group is every requested target living in one repository, in request order.
type Group struct {
	Repository entity.Repository
	Targets    []entity.Target
}

// TargetIDs lists the group's target ids.
func (g Group) TargetIDs() []entity.TargetID {
	out := make([]entity.TargetID, 0, len(g.Targets))
	for _, t := range g.Targets {
		out = append(out, t.ID)
	}
	return out
}

// Names lists the group's target names.
func (g Group) Names() []string {
	out := make([]string, 0, len(g.Targets))
	for _, t := range g.Targets {
		out = append(out, t.Name)
	}
	return out
}

type Resolver struct {
	targets targetrepo.Store
	repos   gitrepo.Store
}

func NewResolver(targets targetrepo.Store, repos gitrepo.Store) *Resolver {
	return &Resolver{targets: targets, repos: repos}
}

// GroupByRepository resolves every id and groups targets by repository.
// Groups appear in order of first sight. A target owned by another
// organization counts as missing. The first missing target or repository
// aborts the call with no partial result.
func (r *Resolver) GroupByRepository(ctx context.Context, orgID entity.OrganizationID, ids []entity.TargetID) ([]Group, error) {
	groups := make([]Group, 0, len(ids))
	index := make(map[entity.RepositoryID]int, len(ids))
	for _, id := range ids {
		t, err := r.Target(ctx, id)
		if err != nil {
			return nil, err
		}
		if t.OrganizationID.String() != orgID.String() {
			return nil, &TargetNotFoundError{ID: id}
		}
		repoID := entity.RepositoryID(t.RepositoryID.String())
		if i, ok := index[repoID]; ok {
			groups[i].Targets = append(groups[i].Targets, t)
			continue
		}
		repo, err := r.Repository(ctx, repoID)
		if err != nil {
			return nil, err
		}
		index[repoID] = len(groups)
		groups = append(groups, Group{Repository: repo, Targets: []entity.Target{t}})
	}
	return groups, nil
}

// Target returns the target or a *TargetNotFoundError.
func (r *Resolver) Target(ctx context.Context, id entity.TargetID) (entity.Target, error) {
	t, err := r.targets.Get(ctx, id)
	if errors.Is(err, targetrepo.ErrNotFound) {
		return entity.Target{}, &TargetNotFoundError{ID: id}
	}
	if err != nil {
		return entity.Target{}, fmt.Errorf("get target %s: %w", id, err)
	}
	return t, nil
}

// Repository returns the repository or a *RepositoryNotFoundError.
func (r *Resolver) Repository(ctx context.Context, id entity.RepositoryID) (entity.Repository, error) {
	repo, err := r.repos.Get(ctx, id)
	if errors.Is(err, gitrepo.ErrNotFound) {
		return entity.Repository{}, &RepositoryNotFoundError{ID: id}
	}
	if err != nil {
		return entity.Repository{}, fmt.Errorf("get repository %s: %w", id, err)
	}
	return repo, nil
}
