package publish

import (
	"context"

	"publisher/internal/gateway/entity"
	"publisher/internal/gateway/renderer"
	distributionsvc "publisher/internal/gateway/service/distribution"
	targetsvc "publisher/internal/gateway/service/target"
)

type ArtifactCatalog interface {
	GetVersion(ctx context.Context, kind entity.ArtifactKind, id entity.VersionID) (entity.ArtifactVersion, error)
}

type RenderModeSource interface {
	ActiveCodingAgents(ctx context.Context, orgID entity.OrganizationID) ([]entity.RenderMode, []entity.CodingAgent, error)
}

type TargetGrouper interface {
	GroupByRepository(ctx context.Context, orgID entity.OrganizationID, ids []entity.TargetID) ([]targetsvc.Group, error)
}

type VersionReconciler interface {
	Reconcile(ctx context.Context, orgID entity.OrganizationID, targets []entity.Target, requested []entity.ArtifactVersion) ([]entity.ArtifactVersion, error)
}

type Renderers interface {
	ExistingPaths(agents []entity.CodingAgent) ([]string, error)
	Render(ctx context.Context, agents []entity.CodingAgent, in renderer.Input) (entity.FileUpdates, error)
}

// FileReader returns the current content of a repository file; ok is false when absent.
type FileReader interface {
	GetExistingFile(ctx context.Context, repo entity.Repository, path string) (content string, ok bool, err error)
}

// Committer writes one batch of file updates as a single commit.
type Committer interface {
	Commit(ctx context.Context, repo entity.Repository, updates entity.FileUpdates, message string) (entity.CommitResult, error)
}

type Recorder interface {
	Record(ctx context.Context, e distributionsvc.Entry) (entity.Distribution, error)
}

// Deps are the collaborators of the orchestrator. All are required.
type Deps struct {
	Catalog     ArtifactCatalog
	RenderModes RenderModeSource
	Targets     TargetGrouper
	Versions    VersionReconciler
	Renderers   Renderers
	Files       FileReader
	Committer   Committer
	Recorder    Recorder
}
