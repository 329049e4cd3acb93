package rpc

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// Client calls every publisher procedure over connect with the JSON codec.
type Client struct {
	publishArtifacts              *connect.Client[PublishArtifactsRequest, PublishArtifactsResponse]
	getRenderModeConfiguration    *connect.Client[GetRenderModeConfigurationRequest, GetRenderModeConfigurationResponse]
	updateRenderModeConfiguration *connect.Client[UpdateRenderModeConfigurationRequest, UpdateRenderModeConfigurationResponse]
	addTarget                     *connect.Client[AddTargetRequest, TargetResponse]
	updateTarget                  *connect.Client[UpdateTargetRequest, TargetResponse]
	deleteTarget                  *connect.Client[DeleteTargetRequest, DeleteTargetResponse]
	registerRepository            *connect.Client[RegisterRepositoryRequest, RegisterRepositoryResponse]
	listDistributions             *connect.Client[ListDistributionsRequest, ListDistributionsResponse]
}

func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{Codec()}, opts...)
	return &Client{
		publishArtifacts:              connect.NewClient[PublishArtifactsRequest, PublishArtifactsResponse](httpClient, baseURL+PublishArtifactsProcedure, opts...),
		getRenderModeConfiguration:    connect.NewClient[GetRenderModeConfigurationRequest, GetRenderModeConfigurationResponse](httpClient, baseURL+GetRenderModeConfigurationProcedure, opts...),
		updateRenderModeConfiguration: connect.NewClient[UpdateRenderModeConfigurationRequest, UpdateRenderModeConfigurationResponse](httpClient, baseURL+UpdateRenderModeConfigurationProcedure, opts...),
		addTarget:                     connect.NewClient[AddTargetRequest, TargetResponse](httpClient, baseURL+AddTargetProcedure, opts...),
		updateTarget:                  connect.NewClient[UpdateTargetRequest, TargetResponse](httpClient, baseURL+UpdateTargetProcedure, opts...),
		deleteTarget:                  connect.NewClient[DeleteTargetRequest, DeleteTargetResponse](httpClient, baseURL+DeleteTargetProcedure, opts...),
		registerRepository:            connect.NewClient[RegisterRepositoryRequest, RegisterRepositoryResponse](httpClient, baseURL+RegisterRepositoryProcedure, opts...),
		listDistributions:             connect.NewClient[ListDistributionsRequest, ListDistributionsResponse](httpClient, baseURL+ListDistributionsProcedure, opts...),
	}
}

func (c *Client) PublishArtifacts(ctx context.Context, req *PublishArtifactsRequest) (*PublishArtifactsResponse, error) {
	return call(ctx, c.publishArtifacts, req)
}

func (c *Client) GetRenderModeConfiguration(ctx context.Context, req *GetRenderModeConfigurationRequest) (*GetRenderModeConfigurationResponse, error) {
	return call(ctx, c.getRenderModeConfiguration, req)
}

func (c *Client) UpdateRenderModeConfiguration(ctx context.Context, req *UpdateRenderModeConfigurationRequest) (*UpdateRenderModeConfigurationResponse, error) {
	return call(ctx, c.updateRenderModeConfiguration, req)
}

func (c *Client) AddTarget(ctx context.Context, req *AddTargetRequest) (*TargetResponse, error) {
	return call(ctx, c.addTarget, req)
}

func (c *Client) UpdateTarget(ctx context.Context, req *UpdateTargetRequest) (*TargetResponse, error) {
	return call(ctx, c.updateTarget, req)
}

func (c *Client) DeleteTarget(ctx context.Context, req *DeleteTargetRequest) (*DeleteTargetResponse, error) {
	return call(ctx, c.deleteTarget, req)
}

func (c *Client) RegisterRepository(ctx context.Context, req *RegisterRepositoryRequest) (*RegisterRepositoryResponse, error) {
	return call(ctx, c.registerRepository, req)
}

func (c *Client) ListDistributions(ctx context.Context, req *ListDistributionsRequest) (*ListDistributionsResponse, error) {
	return call(ctx, c.listDistributions, req)
}

func call[Req, Res any](ctx context.Context, c *connect.Client[Req, Res], req *Req) (*Res, error) {
	resp, err := c.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}
