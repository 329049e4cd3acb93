package rpc

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"go.uber.org/zap"

	"publisher/internal/gateway/entity"
	"publisher/internal/gateway/events"
	"publisher/internal/gateway/usecase/publish"
)

type Publisher interface {
	Execute(ctx context.Context, cmd publish.Command) (publish.Response, error)
}

type PublishHandler struct {
	publisher  Publisher
	dispatcher events.Dispatcher
	logger     *zap.SugaredLogger
}

func NewPublishHandler(publisher Publisher, dispatcher events.Dispatcher, logger *zap.SugaredLogger) *PublishHandler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &PublishHandler{publisher: publisher, dispatcher: dispatcher, logger: logger}
}

func NewPublishServiceHandler(h *PublishHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{Codec()}, opts...)
	return serviceHandler(PublishServiceName, map[string]http.Handler{
		PublishArtifactsProcedure: connect.NewUnaryHandler(PublishArtifactsProcedure, h.PublishArtifacts, opts...),
	})
}

func (h *PublishHandler) PublishArtifacts(ctx context.Context, req *connect.Request[PublishArtifactsRequest]) (*connect.Response[PublishArtifactsResponse], error) {
	cmd, err := preparePublish(req.Msg)
	if err != nil {
		return nil, err
	}
	resp, err := h.publisher.Execute(ctx, cmd)
	if len(resp.Events) > 0 {
		// Observers get the events even when some distributions failed to persist.
		if dErr := events.DispatchAll(context.WithoutCancel(ctx), h.dispatcher, resp.Events); dErr != nil {
			h.logger.Warnw("event dispatch failed",
				"organizationId", cmd.OrganizationID.String(),
				"error", dErr.Error(),
			)
		}
	}
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&PublishArtifactsResponse{Distributions: resp.Distributions}), nil
}

func preparePublish(msg *PublishArtifactsRequest) (publish.Command, error) {
	if msg == nil {
		return publish.Command{}, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("request is required"))
	}
	if err := required("organization_id", msg.OrganizationID); err != nil {
		return publish.Command{}, err
	}
	cmd := publish.Command{
		UserID:         entity.NormalizeUserID(msg.UserID),
		OrganizationID: entity.OrganizationID(strings.TrimSpace(msg.OrganizationID)),
	}
	for _, ref := range msg.ArtifactVersions {
		kind, err := entity.ParseArtifactKind(ref.Kind)
		if err != nil {
			return publish.Command{}, connect.NewError(connect.CodeInvalidArgument, err)
		}
		if err := required("artifact version id", ref.ID); err != nil {
			return publish.Command{}, err
		}
		cmd.ArtifactVersions = append(cmd.ArtifactVersions, entity.VersionRef{ID: entity.VersionID(strings.TrimSpace(ref.ID)), Kind: kind})
	}
	for _, id := range msg.TargetIDs {
		if err := required("target id", id); err != nil {
			return publish.Command{}, err
		}
		cmd.TargetIDs = append(cmd.TargetIDs, entity.TargetID(strings.TrimSpace(id)))
	}
	return cmd, nil
}
