// Package distribution records publish outcomes and serves the audit trail.
package distribution

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"publisher/internal/gateway/entity"
	distributionrepo "publisher/internal/gateway/repository/distribution"
)

// ErrInconsistentOutcome is returned for a success without commit, or a commit without success.
var ErrInconsistentOutcome = errors.New("git commit must be present if and only if status is success")

// Entry is one distribution to record. ID and CreatedAt are assigned by the recorder.
type Entry struct {
	OrganizationID entity.OrganizationID
	AuthorID       entity.UserID
	Target         entity.Target
	Versions       []entity.ArtifactVersion
	RenderModes    []entity.RenderMode
	Status         entity.DistributionStatus
	GitCommit      *entity.GitCommit
	Error          string
}

type Recorder struct {
	store  distributionrepo.Store
	newID  func() string
	now    func() time.Time
	logger *zap.SugaredLogger
}

func NewRecorder(store distributionrepo.Store, logger *zap.SugaredLogger) *Recorder {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Recorder{
		store:  store,
		newID:  uuid.NewString,
		now:    time.Now,
		logger: logger,
	}
}

// Record validates and appends one distribution.
func (r *Recorder) Record(ctx context.Context, e Entry) (entity.Distribution, error) {
	if !e.Status.Valid() {
		return entity.Distribution{}, fmt.Errorf("unknown distribution status %q", e.Status)
	}
	if (e.Status == entity.StatusSuccess) != (e.GitCommit != nil) {
		return entity.Distribution{}, ErrInconsistentOutcome
	}
	d := entity.Distribution{
		ID:             entity.DistributionID(r.newID()),
		OrganizationID: e.OrganizationID,
		AuthorID:       e.AuthorID,
		Target:         e.Target,
		Versions:       append([]entity.ArtifactVersion(nil), e.Versions...),
		RenderModes:    append([]entity.RenderMode(nil), e.RenderModes...),
		Status:         e.Status,
		Error:          e.Error,
		CreatedAt:      r.now().UTC(),
	}
	if e.GitCommit != nil {
		c := *e.GitCommit
		d.GitCommit = &c
	}
	if err := r.store.Append(ctx, d); err != nil {
		return entity.Distribution{}, fmt.Errorf("record distribution for target %s: %w", e.Target.ID, err)
	}
	r.logger.Infow("distribution recorded",
		"distributionId", d.ID.String(),
		"organizationId", d.OrganizationID.String(),
		"targetId", d.Target.ID.String(),
		"status", string(d.Status),
	)
	return d, nil
}

// List returns the organization's distributions, newest first.
func (r *Recorder) List(ctx context.Context, orgID entity.OrganizationID) ([]entity.Distribution, error) {
	return r.store.List(ctx, orgID)
}

// ListByTarget returns one target's distributions, newest first.
func (r *Recorder) ListByTarget(ctx context.Context, orgID entity.OrganizationID, targetID entity.TargetID) ([]entity.Distribution, error) {
	return r.store.ListByTarget(ctx, orgID, targetID)
}

// FindActiveVersionsByTarget returns the versions currently deployed to the target.
func (r *Recorder) FindActiveVersionsByTarget(ctx context.Context, orgID entity.OrganizationID, targetID entity.TargetID) ([]entity.ArtifactVersion, error) {
	return r.store.FindActiveVersionsByTarget(ctx, orgID, targetID)
}

func (r *Recorder) InvalidateTarget(ctx context.Context, orgID entity.OrganizationID, targetID entity.TargetID) error {
	return r.store.InvalidateTarget(ctx, orgID, targetID)
}
