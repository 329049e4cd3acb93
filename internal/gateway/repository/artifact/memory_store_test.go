package artifact

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"publisher/internal/gateway/entity"
)

func TestMemoryStoreStandardsComeWithRules(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.PutVersion(ctx, entity.ArtifactVersion{
		ID: "s-v2", ArtifactID: "s", Kind: entity.KindStandard, Version: 2, Name: "Style", Slug: "style",
	}))

	v, err := s.GetVersion(ctx, entity.KindStandard, "s-v2")
	require.NoError(t, err)
	assert.True(t, v.RulesLoaded)
	assert.Empty(t, v.Rules)

	require.NoError(t, s.PutRules(ctx, "s", []entity.Rule{{ID: "r1", Content: "use tabs"}}))
	v, err = s.GetVersion(ctx, entity.KindStandard, "s-v2")
	require.NoError(t, err)
	assert.Equal(t, []entity.Rule{{ID: "r1", Content: "use tabs"}}, v.Rules)
}

func TestMemoryStoreOlderStandardVersionKeepsItsRules(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	v1 := entity.ArtifactVersion{ID: "s-v1", ArtifactID: "s", Kind: entity.KindStandard, Version: 1}
	v2 := entity.ArtifactVersion{ID: "s-v2", ArtifactID: "s", Kind: entity.KindStandard, Version: 2}
	require.NoError(t, s.PutVersion(ctx, v1.WithRules([]entity.Rule{{ID: "r1", Content: "use tabs"}})))
	require.NoError(t, s.PutVersion(ctx, v2.WithRules([]entity.Rule{{ID: "r2", Content: "use spaces"}})))

	old, err := s.GetVersion(ctx, entity.KindStandard, "s-v1")
	require.NoError(t, err)
	assert.Equal(t, []entity.Rule{{ID: "r1", Content: "use tabs"}}, old.Rules)

	latest, err := s.GetRules(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, []entity.Rule{{ID: "r2", Content: "use spaces"}}, latest)
}

func TestMemoryStoreKindIsPartOfIdentity(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.PutVersion(ctx, entity.ArtifactVersion{ID: "v1", ArtifactID: "r", Kind: entity.KindRecipe, Version: 1}))

	_, err := s.GetVersion(ctx, entity.KindStandard, "v1")
	assert.ErrorIs(t, err, ErrNotFound)

	v, err := s.GetVersion(ctx, entity.KindRecipe, "v1")
	require.NoError(t, err)
	assert.False(t, v.RulesLoaded)
}

func TestObjectKeys(t *testing.T) {
	assert.Equal(t, "recipes/v1.json", versionObjectKey(entity.KindRecipe, "v1"))
	assert.Equal(t, "standards/v2.json", versionObjectKey(entity.KindStandard, " v2 "))
	assert.Equal(t, "rules/a.json", rulesObjectKey("a"))
	assert.Equal(t, "rules/versions/s-v1.json", versionRulesObjectKey("s-v1"))
}
