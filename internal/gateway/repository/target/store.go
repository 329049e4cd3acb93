package target

import (
	"context"
	"errors"

	"publisher/internal/gateway/entity"
)

// Store persists deployment targets.
type Store interface {
	Get(ctx context.Context, id entity.TargetID) (entity.Target, error)
	Put(ctx context.Context, target entity.Target) error
	Delete(ctx context.Context, id entity.TargetID) error
	ListByRepository(ctx context.Context, repoID entity.RepositoryID) ([]entity.Target, error)
}

var ErrNotFound = errors.New("target not found")
