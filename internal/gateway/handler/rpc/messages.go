package rpc

import "publisher/internal/gateway/entity"

type VersionRef struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

type PublishArtifactsRequest struct {
	UserID           string       `json:"userId"`
	OrganizationID   string       `json:"organizationId"`
	ArtifactVersions []VersionRef `json:"artifactVersions"`
	TargetIDs        []string     `json:"targetIds"`
}

type PublishArtifactsResponse struct {
	Distributions []entity.Distribution `json:"distributions"`
}

type GetRenderModeConfigurationRequest struct {
	OrganizationID string `json:"organizationId"`
}

// GetRenderModeConfigurationResponse carries a nil Configuration when none was saved.
type GetRenderModeConfigurationResponse struct {
	Configuration *entity.RenderModeConfiguration `json:"configuration"`
	ActiveModes   []entity.RenderMode             `json:"activeModes"`
}

type UpdateRenderModeConfigurationRequest struct {
	OrganizationID    string   `json:"organizationId"`
	ActiveRenderModes []string `json:"activeRenderModes"`
}

type UpdateRenderModeConfigurationResponse struct {
	Configuration entity.RenderModeConfiguration `json:"configuration"`
}

type AddTargetRequest struct {
	OrganizationID string `json:"organizationId"`
	GitRepoID      string `json:"gitRepoId"`
	Name           string `json:"name"`
	Path           string `json:"path"`
}

type UpdateTargetRequest struct {
	OrganizationID string `json:"organizationId"`
	ID             string `json:"id"`
	Name           string `json:"name"`
	Path           string `json:"path"`
}

type TargetResponse struct {
	Target entity.Target `json:"target"`
}

type DeleteTargetRequest struct {
	OrganizationID string `json:"organizationId"`
	ID             string `json:"id"`
}

type DeleteTargetResponse struct {
	Deleted bool `json:"deleted"`
}

type RegisterRepositoryRequest struct {
	ID       string `json:"id"`
	Owner    string `json:"owner"`
	Name     string `json:"repo"`
	Branch   string `json:"branch"`
	CloneURL string `json:"cloneUrl"`
}

type RegisterRepositoryResponse struct {
	Repository entity.Repository `json:"repository"`
}

type ListDistributionsRequest struct {
	OrganizationID string `json:"organizationId"`
	// TargetID narrows the list to one target when set.
	TargetID string `json:"targetId,omitempty"`
}

type ListDistributionsResponse struct {
	Distributions []entity.Distribution `json:"distributions"`
}
