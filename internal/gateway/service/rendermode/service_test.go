package rendermode

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"publisher/internal/gateway/entity"
	rendermoderepo "publisher/internal/gateway/repository/rendermode"
)

const org entity.OrganizationID = "org-1"

type failingStore struct{}

func (failingStore) Get(context.Context, entity.OrganizationID) (entity.RenderModeConfiguration, error) {
	return entity.RenderModeConfiguration{}, errors.New("db down")
}

func (failingStore) Put(context.Context, entity.RenderModeConfiguration) error {
	return errors.New("db down")
}

func newTestService(t *testing.T, store rendermoderepo.Store) *Service {
	t.Helper()
	return NewService(store, NewRegistry(nil), zaptest.NewLogger(t).Sugar())
}

func TestGetAbsentHasNoSideEffect(t *testing.T) {
	store := rendermoderepo.NewMemoryStore()
	svc := newTestService(t, store)

	_, ok, err := svc.Get(context.Background(), org)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.Get(context.Background(), org)
	assert.ErrorIs(t, err, rendermoderepo.ErrNotFound)
}

func TestActiveModesFallsBackToDefault(t *testing.T) {
	svc := newTestService(t, rendermoderepo.NewMemoryStore())
	modes := svc.ActiveModes(context.Background(), org)
	assert.Equal(t, entity.DefaultRenderModes(), modes)

	agents, err := svc.Registry().ResolveCodingAgents(modes)
	require.NoError(t, err)
	assert.Len(t, agents, 2)
}

func TestActiveModesFallsBackOnReadError(t *testing.T) {
	svc := newTestService(t, failingStore{})
	assert.Equal(t, entity.DefaultRenderModes(), svc.ActiveModes(context.Background(), org))
}

func TestCreateDefaultsAndIsIdempotent(t *testing.T) {
	svc := newTestService(t, rendermoderepo.NewMemoryStore())
	ctx := context.Background()

	cfg, err := svc.Create(ctx, org, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultRenderModes(), cfg.ActiveRenderModes)

	again, err := svc.Create(ctx, org, []entity.RenderMode{entity.RenderModeClaude})
	require.NoError(t, err)
	assert.Equal(t, cfg, again, "second create must return the existing configuration")
}

func TestCreateNormalizes(t *testing.T) {
	svc := newTestService(t, rendermoderepo.NewMemoryStore())
	cfg, err := svc.Create(context.Background(), org, []entity.RenderMode{entity.RenderModeCursor, entity.RenderModeCursor})
	require.NoError(t, err)
	assert.Equal(t, []entity.RenderMode{entity.RenderModePackmind, entity.RenderModeCursor}, cfg.ActiveRenderModes)
}

func TestCreateRejectsUnknownMode(t *testing.T) {
	svc := newTestService(t, rendermoderepo.NewMemoryStore())
	_, err := svc.Create(context.Background(), org, []entity.RenderMode{"vim"})
	assert.True(t, IsUnsupportedRenderMode(err))
}

func TestUpdateRequiresExistingConfiguration(t *testing.T) {
	svc := newTestService(t, rendermoderepo.NewMemoryStore())
	_, err := svc.Update(context.Background(), org, []entity.RenderMode{entity.RenderModeClaude})
	assert.ErrorIs(t, err, ErrConfigurationNotFound)
}

func TestUpdateReplacesModes(t *testing.T) {
	svc := newTestService(t, rendermoderepo.NewMemoryStore())
	ctx := context.Background()
	_, err := svc.Create(ctx, org, nil)
	require.NoError(t, err)

	cfg, err := svc.Update(ctx, org, []entity.RenderMode{entity.RenderModeClaude, entity.RenderModeGHCopilot})
	require.NoError(t, err)
	assert.Equal(t, []entity.RenderMode{entity.RenderModePackmind, entity.RenderModeClaude, entity.RenderModeGHCopilot}, cfg.ActiveRenderModes)
	assert.Equal(t, cfg.ActiveRenderModes, svc.ActiveModes(ctx, org))
}

func TestLegacyRowIsNormalizedOnRead(t *testing.T) {
	store := rendermoderepo.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), entity.RenderModeConfiguration{
		OrganizationID:    org,
		ActiveRenderModes: []entity.RenderMode{entity.RenderModeClaude, entity.RenderModeClaude},
	}))
	svc := newTestService(t, store)

	cfg, ok, err := svc.Get(context.Background(), org)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []entity.RenderMode{entity.RenderModePackmind, entity.RenderModeClaude}, cfg.ActiveRenderModes)
}

func TestActiveCodingAgents(t *testing.T) {
	svc := newTestService(t, rendermoderepo.NewMemoryStore())
	ctx := context.Background()
	_, err := svc.Create(ctx, org, []entity.RenderMode{entity.RenderModeGHCopilot})
	require.NoError(t, err)

	modes, agents, err := svc.ActiveCodingAgents(ctx, org)
	require.NoError(t, err)
	assert.Equal(t, []entity.RenderMode{entity.RenderModePackmind, entity.RenderModeGHCopilot}, modes)
	assert.Equal(t, []entity.CodingAgent{entity.AgentPackmind, entity.AgentCopilot}, agents)
}
