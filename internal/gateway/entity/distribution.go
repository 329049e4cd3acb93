package entity

import "time"

// DistributionStatus is the terminal outcome of one publish attempt for one target.
type DistributionStatus string

const (
	StatusSuccess   DistributionStatus = "success"
	StatusNoChanges DistributionStatus = "no_changes"
	StatusFailure   DistributionStatus = "failure"
)

func (s DistributionStatus) Valid() bool {
	return s == StatusSuccess || s == StatusNoChanges || s == StatusFailure
}

// GitCommit references a commit produced by the committer.
type GitCommit struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
	Author  string `json:"author"`
	URL     string `json:"url,omitempty"`
}

// Distribution is an append-only audit record. GitCommit is set iff Status is success.
type Distribution struct {
	ID             DistributionID     `json:"id"`
	OrganizationID OrganizationID     `json:"organizationId"`
	AuthorID       UserID             `json:"authorId"`
	Target         Target             `json:"target"`
	Versions       []ArtifactVersion  `json:"versions"`
	RenderModes    []RenderMode       `json:"renderModes"`
	Status         DistributionStatus `json:"status"`
	GitCommit      *GitCommit         `json:"gitCommit,omitempty"`
	Error          string             `json:"error,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// RecipeVersions returns the recipe versions newly included in this distribution.
func (d Distribution) RecipeVersions() []ArtifactVersion {
	return FilterKind(d.Versions, KindRecipe)
}

// StandardVersions returns the standard versions newly included in this distribution.
func (d Distribution) StandardVersions() []ArtifactVersion {
	return FilterKind(d.Versions, KindStandard)
}

// CommitResult is what a committer returns. NoChanges means the file updates
// left the repository identical and no commit was created; Commit is nil then.
type CommitResult struct {
	NoChanges bool
	Commit    *GitCommit
}
