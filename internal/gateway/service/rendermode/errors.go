package rendermode

import (
	"errors"
	"fmt"

	"publisher/internal/gateway/entity"
)

// ErrConfigurationNotFound is returned by Update when the organization has no configuration yet.
var ErrConfigurationNotFound = errors.New("render mode configuration not found")

// UnsupportedRenderModeError names a render mode with no coding agent mapping.
type UnsupportedRenderModeError struct {
	Mode entity.RenderMode
}

func (e *UnsupportedRenderModeError) Error() string {
	return fmt.Sprintf("unsupported render mode %q", string(e.Mode))
}

// IsUnsupportedRenderMode reports whether err carries an UnsupportedRenderModeError.
func IsUnsupportedRenderMode(err error) bool {
	var target *UnsupportedRenderModeError
	return errors.As(err, &target)
}
