package target

import (
	"errors"
	"fmt"

	"publisher/internal/gateway/entity"
)

var (
	ErrEmptyName = errors.New("target name cannot be empty")
	// ErrRootTargetImmutable guards the repository root target against moves and deletion.
	ErrRootTargetImmutable = errors.New("root target path cannot be changed or deleted")
)

type TargetNotFoundError struct {
	ID entity.TargetID
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("target with id %s not found", e.ID)
}

type RepositoryNotFoundError struct {
	ID entity.RepositoryID
}

func (e *RepositoryNotFoundError) Error() string {
	return fmt.Sprintf("repository with id %s not found", e.ID)
}

// IsNotFound reports whether err names a missing target or repository.
func IsNotFound(err error) bool {
	var t *TargetNotFoundError
	var r *RepositoryNotFoundError
	return errors.As(err, &t) || errors.As(err, &r)
}
