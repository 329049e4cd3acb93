// Package gitrepo holds everything the publisher needs from git hosting:
// the repository registry, reads of existing files and the committer.
package gitrepo

import (
	"context"
	"errors"

	"publisher/internal/gateway/entity"
)

// Store is the registry of repositories targets can point at.
type Store interface {
	Get(ctx context.Context, id entity.RepositoryID) (entity.Repository, error)
	Put(ctx context.Context, repo entity.Repository) error
}

var ErrNotFound = errors.New("git repository not found")
