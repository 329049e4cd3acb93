package rendermode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"publisher/internal/gateway/entity"
)

func TestResolveCodingAgentsDeduplicatesInOrder(t *testing.T) {
	r := NewRegistry(nil)
	agents, err := r.ResolveCodingAgents([]entity.RenderMode{
		entity.RenderModeClaude,
		entity.RenderModePackmind,
		entity.RenderModeClaude,
		entity.RenderModeGHCopilot,
	})
	require.NoError(t, err)
	assert.Equal(t, []entity.CodingAgent{entity.AgentClaude, entity.AgentPackmind, entity.AgentCopilot}, agents)
}

func TestResolveCodingAgentsSharedAgentCollapses(t *testing.T) {
	r := NewRegistry(Table{
		"a": entity.AgentClaude,
		"b": entity.AgentClaude,
	})
	agents, err := r.ResolveCodingAgents([]entity.RenderMode{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []entity.CodingAgent{entity.AgentClaude}, agents)
}

func TestResolveCodingAgentsUnsupportedMode(t *testing.T) {
	r := NewRegistry(nil)
	_, err := r.ResolveCodingAgents([]entity.RenderMode{entity.RenderModePackmind, "windsurf"})
	require.Error(t, err)
	assert.True(t, IsUnsupportedRenderMode(err))
	assert.Contains(t, err.Error(), "windsurf")
}

func TestRegistryTableIsCopied(t *testing.T) {
	table := Table{entity.RenderModePackmind: entity.AgentPackmind}
	r := NewRegistry(table)
	table[entity.RenderModeClaude] = entity.AgentClaude

	_, err := r.ResolveCodingAgents([]entity.RenderMode{entity.RenderModeClaude})
	assert.Error(t, err)
}

func TestDefaultModesResolve(t *testing.T) {
	agents, err := NewRegistry(nil).ResolveCodingAgents(Normalize(entity.DefaultRenderModes()))
	require.NoError(t, err)
	assert.Equal(t, []entity.CodingAgent{entity.AgentPackmind, entity.AgentAgentsMD}, agents)
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   []entity.RenderMode
		want []entity.RenderMode
	}{
		{"empty", nil, []entity.RenderMode{entity.RenderModePackmind}},
		{"baseline added first", []entity.RenderMode{entity.RenderModeClaude}, []entity.RenderMode{entity.RenderModePackmind, entity.RenderModeClaude}},
		{"baseline moved first", []entity.RenderMode{entity.RenderModeCursor, entity.RenderModePackmind}, []entity.RenderMode{entity.RenderModePackmind, entity.RenderModeCursor}},
		{"duplicates dropped", []entity.RenderMode{entity.RenderModeCursor, entity.RenderModeCursor, " ", entity.RenderModeJunie}, []entity.RenderMode{entity.RenderModePackmind, entity.RenderModeCursor, entity.RenderModeJunie}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, Normalize(got), "normalize must be idempotent")
		})
	}
}

func TestParseRenderMode(t *testing.T) {
	r := NewRegistry(nil)
	mode, err := r.ParseRenderMode(" Claude ")
	require.NoError(t, err)
	assert.Equal(t, entity.RenderModeClaude, mode)

	_, err = r.ParseRenderMode("emacs")
	assert.True(t, IsUnsupportedRenderMode(err))
}

func TestRenderModesFor(t *testing.T) {
	r := NewRegistry(nil)
	got := r.RenderModesFor([]entity.CodingAgent{entity.AgentCopilot, entity.AgentPackmind, "unknown"})
	assert.Equal(t, []entity.RenderMode{entity.RenderModePackmind, entity.RenderModeGHCopilot}, got)
}
