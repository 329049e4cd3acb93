package rpc

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"publisher/internal/gateway/entity"
	"publisher/internal/gateway/service/rendermode"
)

type RenderModeHandler struct {
	svc *rendermode.Service
}

func NewRenderModeHandler(svc *rendermode.Service) *RenderModeHandler {
	return &RenderModeHandler{svc: svc}
}

func NewRenderModeServiceHandler(h *RenderModeHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{Codec()}, opts...)
	return serviceHandler(RenderModeServiceName, map[string]http.Handler{
		GetRenderModeConfigurationProcedure:    connect.NewUnaryHandler(GetRenderModeConfigurationProcedure, h.GetRenderModeConfiguration, opts...),
		UpdateRenderModeConfigurationProcedure: connect.NewUnaryHandler(UpdateRenderModeConfigurationProcedure, h.UpdateRenderModeConfiguration, opts...),
	})
}

func (h *RenderModeHandler) GetRenderModeConfiguration(ctx context.Context, req *connect.Request[GetRenderModeConfigurationRequest]) (*connect.Response[GetRenderModeConfigurationResponse], error) {
	if err := required("organization_id", req.Msg.OrganizationID); err != nil {
		return nil, err
	}
	orgID := entity.OrganizationID(strings.TrimSpace(req.Msg.OrganizationID))
	cfg, ok, err := h.svc.Get(ctx, orgID)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := &GetRenderModeConfigurationResponse{ActiveModes: h.svc.ActiveModes(ctx, orgID)}
	if ok {
		out.Configuration = &cfg
	}
	return connect.NewResponse(out), nil
}

// UpdateRenderModeConfiguration replaces the organization's modes, creating
// the configuration on first use. Callers enforce the admin-only policy.
func (h *RenderModeHandler) UpdateRenderModeConfiguration(ctx context.Context, req *connect.Request[UpdateRenderModeConfigurationRequest]) (*connect.Response[UpdateRenderModeConfigurationResponse], error) {
	if err := required("organization_id", req.Msg.OrganizationID); err != nil {
		return nil, err
	}
	orgID := entity.OrganizationID(strings.TrimSpace(req.Msg.OrganizationID))
	modes, err := h.svc.Registry().ParseRenderModes(req.Msg.ActiveRenderModes)
	if err != nil {
		return nil, toConnectError(err)
	}
	cfg, err := h.svc.Update(ctx, orgID, modes)
	if errors.Is(err, rendermode.ErrConfigurationNotFound) {
		cfg, err = h.svc.Create(ctx, orgID, modes)
	}
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&UpdateRenderModeConfigurationResponse{Configuration: cfg}), nil
}
