package rpc

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"publisher/internal/gateway/entity"
)

type DistributionLister interface {
	List(ctx context.Context, orgID entity.OrganizationID) ([]entity.Distribution, error)
	ListByTarget(ctx context.Context, orgID entity.OrganizationID, targetID entity.TargetID) ([]entity.Distribution, error)
}

type DistributionHandler struct {
	history DistributionLister
}

func NewDistributionHandler(history DistributionLister) *DistributionHandler {
	return &DistributionHandler{history: history}
}

func NewDistributionServiceHandler(h *DistributionHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{Codec()}, opts...)
	return serviceHandler(DistributionServiceName, map[string]http.Handler{
		ListDistributionsProcedure: connect.NewUnaryHandler(ListDistributionsProcedure, h.ListDistributions, opts...),
	})
}

// ListDistributions returns the audit trail newest first.
func (h *DistributionHandler) ListDistributions(ctx context.Context, req *connect.Request[ListDistributionsRequest]) (*connect.Response[ListDistributionsResponse], error) {
	if err := required("organization_id", req.Msg.OrganizationID); err != nil {
		return nil, err
	}
	orgID := entity.OrganizationID(strings.TrimSpace(req.Msg.OrganizationID))
	var (
		out []entity.Distribution
		err error
	)
	if targetID := strings.TrimSpace(req.Msg.TargetID); targetID != "" {
		out, err = h.history.ListByTarget(ctx, orgID, entity.TargetID(targetID))
	} else {
		out, err = h.history.List(ctx, orgID)
	}
	if err != nil {
		return nil, toConnectError(err)
	}
	if out == nil {
		out = []entity.Distribution{}
	}
	return connect.NewResponse(&ListDistributionsResponse{Distributions: out}), nil
}
