package rpc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"connectrpc.com/connect"

	"publisher/internal/gateway/entity"
	"publisher/internal/gateway/service/rendermode"
	targetsvc "publisher/internal/gateway/service/target"
	"publisher/internal/gateway/usecase/publish"
)

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%s is required", name))
	}
	return nil
}

// toConnectError maps domain errors onto connect codes. Unknown errors are internal.
func toConnectError(err error) error {
	if err == nil {
		return nil
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}
	var versionNotFound *publish.ArtifactVersionNotFoundError
	switch {
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.As(err, &versionNotFound),
		targetsvc.IsNotFound(err),
		errors.Is(err, rendermode.ErrConfigurationNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, publish.ErrNoTargetsProvided),
		errors.Is(err, publish.ErrOrganizationRequired),
		errors.Is(err, entity.ErrInvalidTargetPath),
		errors.Is(err, targetsvc.ErrEmptyName),
		rendermode.IsUnsupportedRenderMode(err):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, targetsvc.ErrRootTargetImmutable):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
