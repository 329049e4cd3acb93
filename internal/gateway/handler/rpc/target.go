package rpc

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"publisher/internal/gateway/entity"
	"publisher/internal/gateway/repository/gitrepo"
	targetsvc "publisher/internal/gateway/service/target"
)

type TargetHandler struct {
	svc *targetsvc.Service
}

func NewTargetHandler(svc *targetsvc.Service) *TargetHandler {
	return &TargetHandler{svc: svc}
}

func NewTargetServiceHandler(h *TargetHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{Codec()}, opts...)
	return serviceHandler(TargetServiceName, map[string]http.Handler{
		AddTargetProcedure:    connect.NewUnaryHandler(AddTargetProcedure, h.AddTarget, opts...),
		UpdateTargetProcedure: connect.NewUnaryHandler(UpdateTargetProcedure, h.UpdateTarget, opts...),
		DeleteTargetProcedure: connect.NewUnaryHandler(DeleteTargetProcedure, h.DeleteTarget, opts...),
	})
}

func (h *TargetHandler) AddTarget(ctx context.Context, req *connect.Request[AddTargetRequest]) (*connect.Response[TargetResponse], error) {
	if err := required("organization_id", req.Msg.OrganizationID); err != nil {
		return nil, err
	}
	if err := required("git_repo_id", req.Msg.GitRepoID); err != nil {
		return nil, err
	}
	t, err := h.svc.Add(ctx, targetsvc.AddCommand{
		OrganizationID: entity.OrganizationID(strings.TrimSpace(req.Msg.OrganizationID)),
		RepositoryID:   entity.RepositoryID(strings.TrimSpace(req.Msg.GitRepoID)),
		Name:           req.Msg.Name,
		Path:           req.Msg.Path,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&TargetResponse{Target: t}), nil
}

func (h *TargetHandler) UpdateTarget(ctx context.Context, req *connect.Request[UpdateTargetRequest]) (*connect.Response[TargetResponse], error) {
	if err := required("organization_id", req.Msg.OrganizationID); err != nil {
		return nil, err
	}
	if err := required("id", req.Msg.ID); err != nil {
		return nil, err
	}
	t, err := h.svc.Update(ctx, targetsvc.UpdateCommand{
		OrganizationID: entity.OrganizationID(strings.TrimSpace(req.Msg.OrganizationID)),
		ID:             entity.TargetID(strings.TrimSpace(req.Msg.ID)),
		Name:           req.Msg.Name,
		Path:           req.Msg.Path,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&TargetResponse{Target: t}), nil
}

func (h *TargetHandler) DeleteTarget(ctx context.Context, req *connect.Request[DeleteTargetRequest]) (*connect.Response[DeleteTargetResponse], error) {
	if err := required("organization_id", req.Msg.OrganizationID); err != nil {
		return nil, err
	}
	if err := required("id", req.Msg.ID); err != nil {
		return nil, err
	}
	orgID := entity.OrganizationID(strings.TrimSpace(req.Msg.OrganizationID))
	if err := h.svc.Delete(ctx, orgID, entity.TargetID(strings.TrimSpace(req.Msg.ID))); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&DeleteTargetResponse{Deleted: true}), nil
}

// RepositoryHandler registers git repositories that targets point at.
type RepositoryHandler struct {
	repos gitrepo.Store
}

func NewRepositoryHandler(repos gitrepo.Store) *RepositoryHandler {
	return &RepositoryHandler{repos: repos}
}

func NewRepositoryServiceHandler(h *RepositoryHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{Codec()}, opts...)
	return serviceHandler(RepositoryServiceName, map[string]http.Handler{
		RegisterRepositoryProcedure: connect.NewUnaryHandler(RegisterRepositoryProcedure, h.RegisterRepository, opts...),
	})
}

func (h *RepositoryHandler) RegisterRepository(ctx context.Context, req *connect.Request[RegisterRepositoryRequest]) (*connect.Response[RegisterRepositoryResponse], error) {
	if err := required("id", req.Msg.ID); err != nil {
		return nil, err
	}
	if err := required("owner", req.Msg.Owner); err != nil {
		return nil, err
	}
	if err := required("repo", req.Msg.Name); err != nil {
		return nil, err
	}
	repo := entity.Repository{
		ID:       entity.RepositoryID(strings.TrimSpace(req.Msg.ID)),
		Owner:    strings.TrimSpace(req.Msg.Owner),
		Name:     strings.TrimSpace(req.Msg.Name),
		Branch:   strings.TrimSpace(req.Msg.Branch),
		CloneURL: strings.TrimSpace(req.Msg.CloneURL),
	}
	repo.Branch = repo.BranchOrDefault()
	if err := h.repos.Put(ctx, repo); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&RegisterRepositoryResponse{Repository: repo}), nil
}
