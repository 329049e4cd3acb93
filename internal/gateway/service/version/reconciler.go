// Package version computes the artifact set a repository must hold after a publish.
package version

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"publisher/internal/gateway/entity"
)

// ActiveVersionSource returns what is currently deployed to a target,
// one summarized version per artifact.
type ActiveVersionSource interface {
	FindActiveVersionsByTarget(ctx context.Context, orgID entity.OrganizationID, targetID entity.TargetID) ([]entity.ArtifactVersion, error)
}

// RuleSource loads a standard's rules.
type RuleSource interface {
	GetRules(ctx context.Context, artifactID entity.ArtifactID) ([]entity.Rule, error)
}

type Reconciler struct {
	active ActiveVersionSource
	rules  RuleSource
	logger *zap.SugaredLogger
}

func NewReconciler(active ActiveVersionSource, rules RuleSource, logger *zap.SugaredLogger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Reconciler{active: active, rules: rules, logger: logger}
}

// Reconcile merges what is active on every target (highest version per
// artifact), overlays requested (always wins, even when older) and returns
// the result sorted by name. Surviving active standards get their rules
// loaded; requested versions are used as given.
func (r *Reconciler) Reconcile(ctx context.Context, orgID entity.OrganizationID, targets []entity.Target, requested []entity.ArtifactVersion) ([]entity.ArtifactVersion, error) {
	merged := make(map[string]entity.ArtifactVersion)
	for _, t := range targets {
		active, err := r.active.FindActiveVersionsByTarget(ctx, orgID, t.ID)
		if err != nil {
			return nil, fmt.Errorf("active versions of target %s: %w", t.ID, err)
		}
		for _, v := range active {
			key := v.Key()
			if prev, ok := merged[key]; ok && prev.Version >= v.Version {
				continue
			}
			merged[key] = v
		}
	}

	fromRequest := make(map[string]struct{}, len(requested))
	for _, v := range requested {
		merged[v.Key()] = v
		fromRequest[v.Key()] = struct{}{}
	}

	out := make([]entity.ArtifactVersion, 0, len(merged))
	for key, v := range merged {
		if _, ok := fromRequest[key]; !ok && v.NeedsRules() {
			hydrated, err := r.hydrate(ctx, v)
			if err != nil {
				return nil, err
			}
			v = hydrated
		}
		out = append(out, v)
	}
	SortByName(out)

	r.logger.Debugw("versions reconciled",
		"organizationId", orgID.String(),
		"targetsCount", len(targets),
		"requestedCount", len(requested),
		"reconciledCount", len(out),
	)
	return out, nil
}

func (r *Reconciler) hydrate(ctx context.Context, v entity.ArtifactVersion) (entity.ArtifactVersion, error) {
	if r.rules == nil {
		return entity.ArtifactVersion{}, fmt.Errorf("no rule source to load rules of standard %s", v.ArtifactID)
	}
	rules, err := r.rules.GetRules(ctx, v.ArtifactID)
	if err != nil {
		return entity.ArtifactVersion{}, fmt.Errorf("load rules of standard %s: %w", v.ArtifactID, err)
	}
	return v.WithRules(rules), nil
}

// SortByName orders versions by name, then kind and artifact id for ties.
func SortByName(versions []entity.ArtifactVersion) {
	sort.Slice(versions, func(i, j int) bool {
		a, b := versions[i], versions[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.ArtifactID < b.ArtifactID
	})
}
