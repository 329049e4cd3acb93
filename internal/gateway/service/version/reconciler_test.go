package version

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"publisher/internal/gateway/entity"
)

type fakeHistory map[entity.TargetID][]entity.ArtifactVersion

func (h fakeHistory) FindActiveVersionsByTarget(_ context.Context, _ entity.OrganizationID, id entity.TargetID) ([]entity.ArtifactVersion, error) {
	if id == "broken" {
		return nil, errors.New("history down")
	}
	return h[id], nil
}

type fakeRules struct {
	rules map[entity.ArtifactID][]entity.Rule
	calls []entity.ArtifactID
	err   error
}

func (f *fakeRules) GetRules(_ context.Context, id entity.ArtifactID) ([]entity.Rule, error) {
	f.calls = append(f.calls, id)
	if f.err != nil {
		return nil, f.err
	}
	return f.rules[id], nil
}

func v(artifact string, n int, kind entity.ArtifactKind) entity.ArtifactVersion {
	return entity.ArtifactVersion{
		ID:         entity.VersionID(fmt.Sprintf("%s-v%d", artifact, n)),
		ArtifactID: entity.ArtifactID(artifact),
		Kind:       kind,
		Version:    n,
		Name:       artifact,
		Slug:       artifact,
	}
}

func targets(ids ...entity.TargetID) []entity.Target {
	out := make([]entity.Target, 0, len(ids))
	for _, id := range ids {
		out = append(out, entity.Target{ID: id})
	}
	return out
}

func TestReconcileHighestActiveWinsAcrossTargets(t *testing.T) {
	history := fakeHistory{
		"t1": {v("alpha", 3, entity.KindRecipe), v("beta", 1, entity.KindRecipe)},
		"t2": {v("alpha", 5, entity.KindRecipe)},
	}
	r := NewReconciler(history, &fakeRules{}, zaptest.NewLogger(t).Sugar())

	got, err := r.Reconcile(context.Background(), "org", targets("t1", "t2"), nil)
	require.NoError(t, err)
	want := []entity.ArtifactVersion{v("alpha", 5, entity.KindRecipe), v("beta", 1, entity.KindRecipe)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("reconciled mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcileRequestedOverridesEvenWhenOlder(t *testing.T) {
	history := fakeHistory{"t1": {v("alpha", 5, entity.KindRecipe)}}
	r := NewReconciler(history, &fakeRules{}, nil)

	got, err := r.Reconcile(context.Background(), "org", targets("t1"), []entity.ArtifactVersion{v("alpha", 2, entity.KindRecipe)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Version)
}

func TestReconcileSupersedesStandardOnSiblingTarget(t *testing.T) {
	history := fakeHistory{"t1": {v("std", 1, entity.KindStandard)}}
	rules := &fakeRules{}
	r := NewReconciler(history, rules, nil)
	s2 := v("std", 2, entity.KindStandard).WithRules([]entity.Rule{{ID: "r"}})

	got, err := r.Reconcile(context.Background(), "org", targets("t1", "t2"), []entity.ArtifactVersion{s2})
	require.NoError(t, err)
	if diff := cmp.Diff([]entity.ArtifactVersion{s2}, got); diff != "" {
		t.Fatalf("reconciled mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, rules.calls, "requested standards are not re-hydrated")
}

func TestReconcileHydratesActiveStandards(t *testing.T) {
	history := fakeHistory{"t1": {v("std", 1, entity.KindStandard), v("recipe", 1, entity.KindRecipe)}}
	rules := &fakeRules{rules: map[entity.ArtifactID][]entity.Rule{"std": {{ID: "r1", Content: "be nice"}}}}
	r := NewReconciler(history, rules, nil)

	got, err := r.Reconcile(context.Background(), "org", targets("t1"), nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "recipe", got[0].Name)
	assert.False(t, got[0].RulesLoaded)
	assert.True(t, got[1].RulesLoaded)
	assert.Equal(t, []entity.Rule{{ID: "r1", Content: "be nice"}}, got[1].Rules)
	assert.Equal(t, []entity.ArtifactID{"std"}, rules.calls)
}

func TestReconcileHydratedEmptyRulesAreLoaded(t *testing.T) {
	history := fakeHistory{"t1": {v("std", 1, entity.KindStandard)}}
	r := NewReconciler(history, &fakeRules{}, nil)

	got, err := r.Reconcile(context.Background(), "org", targets("t1"), nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].RulesLoaded)
	assert.NotNil(t, got[0].Rules)
	assert.Empty(t, got[0].Rules)
}

func TestReconcilePropagatesErrors(t *testing.T) {
	r := NewReconciler(fakeHistory{}, &fakeRules{}, nil)
	_, err := r.Reconcile(context.Background(), "org", targets("broken"), nil)
	assert.ErrorContains(t, err, "history down")

	history := fakeHistory{"t1": {v("std", 1, entity.KindStandard)}}
	r = NewReconciler(history, &fakeRules{err: errors.New("rules down")}, nil)
	_, err = r.Reconcile(context.Background(), "org", targets("t1"), nil)
	assert.ErrorContains(t, err, "rules down")
}

func TestReconcileVersionDominance(t *testing.T) {
	history := fakeHistory{
		"t1": {v("a", 4, entity.KindRecipe), v("b", 2, entity.KindRecipe), v("c", 7, entity.KindRecipe)},
		"t2": {v("a", 6, entity.KindRecipe), v("b", 9, entity.KindRecipe)},
		"t3": {v("c", 1, entity.KindRecipe)},
	}
	requested := []entity.ArtifactVersion{v("b", 10, entity.KindRecipe), v("d", 1, entity.KindRecipe)}
	r := NewReconciler(history, &fakeRules{}, nil)

	got, err := r.Reconcile(context.Background(), "org", targets("t1", "t2", "t3"), requested)
	require.NoError(t, err)

	byArtifact := map[entity.ArtifactID]int{}
	for _, x := range got {
		_, dup := byArtifact[x.ArtifactID]
		require.False(t, dup, "artifact %s appears twice", x.ArtifactID)
		byArtifact[x.ArtifactID] = x.Version
	}
	assert.Equal(t, map[entity.ArtifactID]int{"a": 6, "b": 10, "c": 7, "d": 1}, byArtifact)
}

func TestSameArtifactIDDifferentKindsStaySeparate(t *testing.T) {
	history := fakeHistory{"t1": {v("x", 1, entity.KindRecipe)}}
	r := NewReconciler(history, &fakeRules{}, nil)
	got, err := r.Reconcile(context.Background(), "org", targets("t1"), []entity.ArtifactVersion{v("x", 1, entity.KindStandard).WithRules(nil)})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, entity.KindRecipe, got[0].Kind)
}
