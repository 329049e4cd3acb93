package rendermode

import (
	"context"
	"errors"

	"publisher/internal/gateway/entity"
)

// Store persists one render mode configuration per organization.
type Store interface {
	Get(ctx context.Context, orgID entity.OrganizationID) (entity.RenderModeConfiguration, error)
	Put(ctx context.Context, cfg entity.RenderModeConfiguration) error
}

var ErrNotFound = errors.New("render mode configuration not found")
