package target

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"publisher/internal/gateway/entity"
	targetrepo "publisher/internal/gateway/repository/target"
)

type recordingHistory struct {
	invalidated []entity.TargetID
}

func (h *recordingHistory) InvalidateTarget(_ context.Context, _ entity.OrganizationID, id entity.TargetID) error {
	h.invalidated = append(h.invalidated, id)
	return nil
}

func newTestService(t *testing.T) (*Service, fixture, *recordingHistory) {
	t.Helper()
	f := newFixture(t)
	h := &recordingHistory{}
	svc := NewService(NewResolver(f.targets, f.repos), f.targets, h, zaptest.NewLogger(t).Sugar())
	svc.newID = func() string { return "new-id" }
	return svc, f, h
}

func TestAddTarget(t *testing.T) {
	svc, f, _ := newTestService(t)
	ctx := context.Background()

	got, err := svc.Add(ctx, AddCommand{OrganizationID: org, RepositoryID: "g", Name: "  web  ", Path: "/apps/web"})
	require.NoError(t, err)
	assert.Equal(t, entity.Target{ID: "new-id", OrganizationID: org, RepositoryID: "g", Name: "web", Path: "/apps/web/"}, got)

	stored, err := f.targets.Get(ctx, "new-id")
	require.NoError(t, err)
	assert.Equal(t, got, stored)
}

func TestAddTargetValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, AddCommand{OrganizationID: org, RepositoryID: "g", Name: " ", Path: "/"})
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = svc.Add(ctx, AddCommand{OrganizationID: org, RepositoryID: "g", Name: "x", Path: "../invalid"})
	assert.ErrorIs(t, err, entity.ErrInvalidTargetPath)

	_, err = svc.Add(ctx, AddCommand{OrganizationID: org, RepositoryID: "zzz", Name: "x", Path: "/"})
	assert.True(t, IsNotFound(err))
}

func TestUpdateTarget(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	got, err := svc.Update(ctx, UpdateCommand{OrganizationID: org, ID: "t2", Name: "backend", Path: "/backend/"})
	require.NoError(t, err)
	assert.Equal(t, "backend", got.Name)
	assert.Equal(t, "/backend/", got.Path)

	got, err = svc.Update(ctx, UpdateCommand{OrganizationID: org, ID: "t2", Name: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "/backend/", got.Path)
}

func TestRootTargetCannotMoveOrBeDeleted(t *testing.T) {
	svc, f, h := newTestService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, UpdateCommand{OrganizationID: org, ID: "t1", Name: "root", Path: "/elsewhere/"})
	assert.ErrorIs(t, err, ErrRootTargetImmutable)

	renamed, err := svc.Update(ctx, UpdateCommand{OrganizationID: org, ID: "t1", Name: "main", Path: "/"})
	require.NoError(t, err)
	assert.Equal(t, "main", renamed.Name)

	assert.ErrorIs(t, svc.Delete(ctx, org, "t1"), ErrRootTargetImmutable)
	assert.Empty(t, h.invalidated)
	_, err = f.targets.Get(ctx, "t1")
	assert.NoError(t, err)
}

func TestDeleteTargetInvalidatesHistory(t *testing.T) {
	svc, f, h := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, org, "t2"))
	assert.Equal(t, []entity.TargetID{"t2"}, h.invalidated)
	_, err := f.targets.Get(ctx, "t2")
	assert.ErrorIs(t, err, targetrepo.ErrNotFound)
}

func TestTargetsAreScopedToOrganization(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Get(context.Background(), "org-2", "t2")
	assert.True(t, IsNotFound(err))
}
