// Package artifact is the read side of the recipe and standard catalog the
// publisher resolves requested versions against.
package artifact

import (
	"context"
	"errors"

	"publisher/internal/gateway/entity"
)

// Store looks up artifact versions and standard rules.
// GetVersion returns standards with their rules loaded.
type Store interface {
	GetVersion(ctx context.Context, kind entity.ArtifactKind, id entity.VersionID) (entity.ArtifactVersion, error)
	GetRules(ctx context.Context, artifactID entity.ArtifactID) ([]entity.Rule, error)
	PutVersion(ctx context.Context, version entity.ArtifactVersion) error
	PutRules(ctx context.Context, artifactID entity.ArtifactID, rules []entity.Rule) error
}

var ErrNotFound = errors.New("artifact not found")
