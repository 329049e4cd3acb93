// Package distribution persists the append-only publish audit trail.
package distribution

import (
	"context"
	"errors"

	"publisher/internal/gateway/entity"
)

// Store appends distributions and answers history queries. Lists are newest first.
type Store interface {
	Append(ctx context.Context, d entity.Distribution) error
	List(ctx context.Context, orgID entity.OrganizationID) ([]entity.Distribution, error)
	ListByTarget(ctx context.Context, orgID entity.OrganizationID, targetID entity.TargetID) ([]entity.Distribution, error)
	FindActiveVersionsByTarget(ctx context.Context, orgID entity.OrganizationID, targetID entity.TargetID) ([]entity.ArtifactVersion, error)
	// InvalidateTarget stops the target's history from counting as active; records are kept.
	InvalidateTarget(ctx context.Context, orgID entity.OrganizationID, targetID entity.TargetID) error
}

var ErrDuplicate = errors.New("distribution already recorded")

// ActiveVersions walks successful distributions newest first and keeps the
// first version seen per artifact. Versions come back summarized.
func ActiveVersions(newestFirst []entity.Distribution) []entity.ArtifactVersion {
	out := make([]entity.ArtifactVersion, 0, 8)
	seen := make(map[string]struct{})
	for _, d := range newestFirst {
		if d.Status != entity.StatusSuccess {
			continue
		}
		for _, v := range d.Versions {
			key := v.Key()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, v.Summarized())
		}
	}
	return out
}
