// Package publish publishes artifact versions to deployment targets: one
// commit per repository and one distribution record per target.
package publish

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"publisher/internal/gateway/entity"
	"publisher/internal/gateway/events"
	"publisher/internal/gateway/renderer"
	artifactrepo "publisher/internal/gateway/repository/artifact"
	distributionsvc "publisher/internal/gateway/service/distribution"
	targetsvc "publisher/internal/gateway/service/target"
)

type Command struct {
	UserID           entity.UserID
	OrganizationID   entity.OrganizationID
	ArtifactVersions []entity.VersionRef
	TargetIDs        []entity.TargetID
}

// Response holds one distribution per requested target and the events the
// caller should dispatch.
type Response struct {
	Distributions []entity.Distribution
	Events        []events.Event
}

type Orchestrator struct {
	deps   Deps
	now    func() time.Time
	logger *zap.SugaredLogger
}

func NewOrchestrator(deps Deps, logger *zap.SugaredLogger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Orchestrator{deps: deps, now: time.Now, logger: logger}
}

// groupOutcome is the shared result of one repository group.
type groupOutcome struct {
	status entity.DistributionStatus
	commit *entity.GitCommit
	err    error
}

// Execute validates the command, then publishes each repository group in turn.
// Only input errors and organization-wide failures are returned before any
// distribution is written. A failing group is recorded as failure distributions
// and does not stop the others. When recording itself fails the response still
// carries every distribution that was written, and the error aggregates the
// failed writes.
func (o *Orchestrator) Execute(ctx context.Context, cmd Command) (Response, error) {
	if cmd.OrganizationID.IsZero() {
		return Response{}, ErrOrganizationRequired
	}
	if len(cmd.TargetIDs) == 0 {
		return Response{}, ErrNoTargetsProvided
	}
	requested, err := o.loadVersions(ctx, cmd.ArtifactVersions)
	if err != nil {
		return Response{}, err
	}
	modes, agents, err := o.deps.RenderModes.ActiveCodingAgents(ctx, cmd.OrganizationID)
	if err != nil {
		return Response{}, fmt.Errorf("resolve render modes: %w", err)
	}
	groups, err := o.deps.Targets.GroupByRepository(ctx, cmd.OrganizationID, cmd.TargetIDs)
	if err != nil {
		return Response{}, err
	}

	o.logger.Infow("publishing artifacts",
		"organizationId", cmd.OrganizationID.String(),
		"versionsCount", len(requested),
		"targetsCount", len(cmd.TargetIDs),
		"repositoriesCount", len(groups),
		"renderModes", entity.RenderModeStrings(modes),
	)

	var (
		resp       Response
		recordErrs *multierror.Error
		statuses   = map[entity.DistributionStatus]int{}
	)
	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return resp, err
		}
		outcome := o.publishGroup(ctx, cmd.OrganizationID, g, requested, agents)
		for _, t := range g.Targets {
			d, err := o.deps.Recorder.Record(ctx, distributionsvc.Entry{
				OrganizationID: cmd.OrganizationID,
				AuthorID:       cmd.UserID,
				Target:         t,
				Versions:       requested,
				RenderModes:    modes,
				Status:         outcome.status,
				GitCommit:      outcome.commit,
				Error:          errorMessage(outcome.err),
			})
			if err != nil {
				recordErrs = multierror.Append(recordErrs, err)
				continue
			}
			statuses[d.Status]++
			resp.Distributions = append(resp.Distributions, d)
		}
	}

	o.logger.Infow("published artifacts",
		"organizationId", cmd.OrganizationID.String(),
		"distributionsCount", len(resp.Distributions),
		"repositoriesProcessed", len(groups),
	)

	resp.Events = append(resp.Events, events.DeploymentCompleted{
		UserID:         cmd.UserID,
		OrganizationID: cmd.OrganizationID,
		TargetIDs:      append([]entity.TargetID(nil), cmd.TargetIDs...),
		RecipeCount:    len(entity.FilterKind(requested, entity.KindRecipe)),
		StandardCount:  len(entity.FilterKind(requested, entity.KindStandard)),
		Statuses:       statuses,
		Source:         "app",
		At:             o.now().UTC(),
	})
	return resp, recordErrs.ErrorOrNil()
}

// loadVersions fetches every ref. When two refs name the same artifact the
// later one wins and keeps the earlier one's position.
func (o *Orchestrator) loadVersions(ctx context.Context, refs []entity.VersionRef) ([]entity.ArtifactVersion, error) {
	out := make([]entity.ArtifactVersion, 0, len(refs))
	index := make(map[string]int, len(refs))
	for _, ref := range refs {
		if !ref.Kind.Valid() || ref.ID.IsZero() {
			return nil, &ArtifactVersionNotFoundError{ID: ref.ID, Kind: ref.Kind}
		}
		v, err := o.deps.Catalog.GetVersion(ctx, ref.Kind, ref.ID)
		if errors.Is(err, artifactrepo.ErrNotFound) {
			return nil, &ArtifactVersionNotFoundError{ID: ref.ID, Kind: ref.Kind}
		}
		if err != nil {
			return nil, fmt.Errorf("load %s version %s: %w", ref.Kind, ref.ID.String(), err)
		}
		if i, ok := index[v.Key()]; ok {
			out[i] = v
			continue
		}
		index[v.Key()] = len(out)
		out = append(out, v)
	}
	return out, nil
}

// publishGroup renders and commits one repository. Every error is folded
// into the outcome.
func (o *Orchestrator) publishGroup(ctx context.Context, orgID entity.OrganizationID, g targetsvc.Group, requested []entity.ArtifactVersion, agents []entity.CodingAgent) groupOutcome {
	repoID := g.Repository.ID.String()
	o.logger.Infow("publishing to repository",
		"repositoryId", repoID,
		"targetsCount", len(g.Targets),
	)

	result, err := o.commitGroup(ctx, orgID, g, requested, agents)
	if err != nil {
		o.logger.Errorw("failed to publish artifacts to repository",
			"repositoryId", repoID,
			"error", err.Error(),
		)
		return groupOutcome{status: entity.StatusFailure, err: err}
	}
	if result.NoChanges || result.Commit == nil {
		o.logger.Infow("no changes detected",
			"repositoryId", repoID,
			"status", string(entity.StatusNoChanges),
		)
		return groupOutcome{status: entity.StatusNoChanges}
	}
	o.logger.Infow("committed artifacts",
		"repositoryId", repoID,
		"status", string(entity.StatusSuccess),
		"sha", result.Commit.SHA,
	)
	return groupOutcome{status: entity.StatusSuccess, commit: result.Commit}
}

func (o *Orchestrator) commitGroup(ctx context.Context, orgID entity.OrganizationID, g targetsvc.Group, requested []entity.ArtifactVersion, agents []entity.CodingAgent) (entity.CommitResult, error) {
	if len(g.Targets) == 0 {
		return entity.CommitResult{}, fmt.Errorf("repository %s has no targets", g.Repository.ID.String())
	}
	installed, err := o.deps.Versions.Reconcile(ctx, orgID, g.Targets, requested)
	if err != nil {
		return entity.CommitResult{}, fmt.Errorf("reconcile versions: %w", err)
	}
	paths, err := o.deps.Renderers.ExistingPaths(agents)
	if err != nil {
		return entity.CommitResult{}, err
	}

	perTarget := make([]entity.FileUpdates, len(g.Targets))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, t := range g.Targets {
		eg.Go(func() error {
			updates, err := o.renderTarget(egCtx, g.Repository, t, paths, installed, agents)
			if err != nil {
				return fmt.Errorf("target %s: %w", t.Name, err)
			}
			perTarget[i] = updates
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return entity.CommitResult{}, err
	}

	// Every target renders the same set up to its prefix; the first one is committed.
	message := CommitMessage(requested, installed, g.Targets)
	return o.deps.Committer.Commit(ctx, g.Repository, perTarget[0], message)
}

func (o *Orchestrator) renderTarget(ctx context.Context, repo entity.Repository, t entity.Target, paths []string, installed []entity.ArtifactVersion, agents []entity.CodingAgent) (entity.FileUpdates, error) {
	existing := make(map[string]string, len(paths))
	for _, p := range paths {
		content, ok, err := o.deps.Files.GetExistingFile(ctx, repo, PrefixedPath(t, p))
		if err != nil {
			return entity.FileUpdates{}, fmt.Errorf("read %s: %w", PrefixedPath(t, p), err)
		}
		if ok {
			existing[p] = content
		}
	}
	updates, err := o.deps.Renderers.Render(ctx, agents, renderer.Input{
		Installed:     installed,
		ExistingFiles: existing,
	})
	if err != nil {
		return entity.FileUpdates{}, err
	}
	o.logger.Debugw("rendered target",
		"targetId", t.ID.String(),
		"filesCount", len(updates.CreateOrUpdate),
		"deletesCount", len(updates.Delete),
	)
	return PrefixUpdates(updates, t), nil
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
