package target

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"publisher/internal/gateway/entity"
	gitrepo "publisher/internal/gateway/repository/gitrepo"
	targetrepo "publisher/internal/gateway/repository/target"
)

const org entity.OrganizationID = "org-1"

type fixture struct {
	targets *targetrepo.MemoryStore
	repos   *gitrepo.MemoryStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{targets: targetrepo.NewMemoryStore(), repos: gitrepo.NewMemoryStore()}
	ctx := context.Background()
	for _, r := range []entity.Repository{
		{ID: "g", Owner: "acme", Name: "app"},
		{ID: "h", Owner: "acme", Name: "lib"},
	} {
		require.NoError(t, f.repos.Put(ctx, r))
	}
	for _, tg := range []entity.Target{
		{ID: "t1", OrganizationID: org, RepositoryID: "g", Name: "root", Path: "/"},
		{ID: "t2", OrganizationID: org, RepositoryID: "g", Name: "api", Path: "/api/"},
		{ID: "t3", OrganizationID: org, RepositoryID: "h", Name: "lib", Path: "/"},
		{ID: "t4", OrganizationID: org, RepositoryID: "missing", Name: "orphan", Path: "/"},
		{ID: "t5", OrganizationID: "org-2", RepositoryID: "g", Name: "foreign", Path: "/foreign/"},
	} {
		require.NoError(t, f.targets.Put(ctx, tg))
	}
	return f
}

func TestGroupByRepository(t *testing.T) {
	f := newFixture(t)
	groups, err := NewResolver(f.targets, f.repos).GroupByRepository(context.Background(), org, []entity.TargetID{"t2", "t3", "t1"})
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, entity.RepositoryID("g"), groups[0].Repository.ID)
	assert.Equal(t, []entity.TargetID{"t2", "t1"}, groups[0].TargetIDs())
	assert.Equal(t, []string{"api", "root"}, groups[0].Names())
	assert.Equal(t, entity.RepositoryID("h"), groups[1].Repository.ID)
	assert.Equal(t, []entity.TargetID{"t3"}, groups[1].TargetIDs())
}

func TestGroupByRepositoryUnknownTarget(t *testing.T) {
	f := newFixture(t)
	groups, err := NewResolver(f.targets, f.repos).GroupByRepository(context.Background(), org, []entity.TargetID{"t1", "nope"})
	assert.Nil(t, groups)

	var notFound *TargetNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, entity.TargetID("nope"), notFound.ID)
}

func TestGroupByRepositoryUnknownRepository(t *testing.T) {
	f := newFixture(t)
	groups, err := NewResolver(f.targets, f.repos).GroupByRepository(context.Background(), org, []entity.TargetID{"t1", "t4"})
	assert.Nil(t, groups)

	var notFound *RepositoryNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, entity.RepositoryID("missing"), notFound.ID)
	assert.Equal(t, "repository with id missing not found", err.Error())
}

func TestGroupByRepositoryRejectsOtherOrganizationTarget(t *testing.T) {
	f := newFixture(t)
	groups, err := NewResolver(f.targets, f.repos).GroupByRepository(context.Background(), org, []entity.TargetID{"t1", "t5"})
	assert.Nil(t, groups)

	var notFound *TargetNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, entity.TargetID("t5"), notFound.ID)
	assert.True(t, IsNotFound(err))
}
