package publish

import (
	"errors"
	"fmt"

	"publisher/internal/gateway/entity"
)

var (
	ErrNoTargetsProvided    = errors.New("at least one target must be provided")
	ErrOrganizationRequired = errors.New("organization_id is required")
)

// ArtifactVersionNotFoundError names a requested version that does not exist.
type ArtifactVersionNotFoundError struct {
	ID   entity.VersionID
	Kind entity.ArtifactKind
}

func (e *ArtifactVersionNotFoundError) Error() string {
	return fmt.Sprintf("%s version with id %s not found", e.Kind, e.ID.String())
}

// IsInputError reports whether err rejects the request before any side effect.
func IsInputError(err error) bool {
	var notFound *ArtifactVersionNotFoundError
	return errors.Is(err, ErrNoTargetsProvided) ||
		errors.Is(err, ErrOrganizationRequired) ||
		errors.As(err, &notFound)
}
