package renderer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"publisher/internal/gateway/entity"
)

var (
	recipe = entity.ArtifactVersion{
		ID: "r-v1", ArtifactID: "r", Kind: entity.KindRecipe, Version: 1,
		Name: "Add Endpoint", Slug: "add-endpoint", Summary: "How to add an endpoint", Content: "1. do it",
	}
	standard = entity.ArtifactVersion{
		ID: "s-v2", ArtifactID: "s", Kind: entity.KindStandard, Version: 2,
		Name: "Go Style", Slug: "go-style", Summary: "Write idiomatic Go",
	}.WithRules([]entity.Rule{{ID: "1", Content: "Return errors"}, {ID: "2", Content: "Wrap with %w"}})
)

func paths(u entity.FileUpdates) []string {
	out := make([]string, 0, len(u.CreateOrUpdate))
	for _, f := range u.CreateOrUpdate {
		out = append(out, f.Path)
	}
	return out
}

func content(t *testing.T, u entity.FileUpdates, path string) string {
	t.Helper()
	for _, f := range u.CreateOrUpdate {
		if f.Path == path {
			return f.Content
		}
	}
	t.Fatalf("no update for %s in %v", path, paths(u))
	return ""
}

func TestPackmindRenderer(t *testing.T) {
	out, err := Packmind{}.Render(context.Background(), Input{
		Installed: []entity.ArtifactVersion{recipe, standard},
		Removed:   []entity.ArtifactVersion{{ArtifactID: "old", Kind: entity.KindStandard, Slug: "old-std"}},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		".packmind/recipes/add-endpoint.md",
		".packmind/standards/go-style.md",
		".packmind/recipes-index.md",
		".packmind/standards-index.md",
	}, paths(out))
	assert.Equal(t, []entity.FileDelete{{Path: ".packmind/standards/old-std.md"}}, out.Delete)

	assert.Contains(t, content(t, out, ".packmind/standards/go-style.md"), "* Wrap with %w")
	assert.Contains(t, content(t, out, ".packmind/recipes-index.md"), "- [Add Endpoint](recipes/add-endpoint.md): How to add an endpoint")
}

func TestPackmindIndexWithoutArtifacts(t *testing.T) {
	out, err := Packmind{}.Render(context.Background(), Input{})
	require.NoError(t, err)
	assert.Contains(t, content(t, out, ".packmind/standards-index.md"), "No standards available.")
}

func TestSingleFileKeepsUserContent(t *testing.T) {
	r := NewClaude()
	assert.Equal(t, []string{"CLAUDE.md"}, r.ExistingPaths())

	out, err := r.Render(context.Background(), Input{
		Installed:     []entity.ArtifactVersion{recipe, standard},
		ExistingFiles: map[string]string{"CLAUDE.md": "# House rules\n\nBe kind.\n"},
	})
	require.NoError(t, err)
	got := content(t, out, "CLAUDE.md")
	assert.True(t, strings.HasPrefix(got, "# House rules\n\nBe kind.\n\n<!-- start: Packmind standards -->"))
	assert.Contains(t, got, "## Standard: Go Style")
	assert.Contains(t, got, "[Go Style](.packmind/standards/go-style.md)")
	assert.NotContains(t, got, "Add Endpoint")
}

func TestSingleFileSkipsEmptyNewFile(t *testing.T) {
	out, err := NewAgentsMD().Render(context.Background(), Input{Installed: []entity.ArtifactVersion{recipe}})
	require.NoError(t, err)
	assert.True(t, out.IsEmpty())
}

func TestSingleFileClearsSectionWhenNoStandardsLeft(t *testing.T) {
	existing := "intro\n\n<!-- start: Packmind standards -->\nold\n<!-- end: Packmind standards -->\n"
	out, err := NewJunie().Render(context.Background(), Input{
		ExistingFiles: map[string]string{".junie/guidelines.md": existing},
	})
	require.NoError(t, err)
	assert.Equal(t, "intro\n", content(t, out, ".junie/guidelines.md"))
}

func TestFrontmatterRenderers(t *testing.T) {
	in := Input{Installed: []entity.ArtifactVersion{recipe, standard}}

	out, err := Copilot{}.Render(context.Background(), in)
	require.NoError(t, err)
	instructions := content(t, out, ".github/instructions/packmind-go-style.instructions.md")
	assert.True(t, strings.HasPrefix(instructions, "---\napplyTo: "))
	assert.Contains(t, instructions, "\n---\n# Go Style\n")
	assert.Contains(t, content(t, out, ".github/prompts/add-endpoint.prompt.md"), "mode: agent")

	out, err = Cursor{}.Render(context.Background(), in)
	require.NoError(t, err)
	assert.Contains(t, content(t, out, ".cursor/rules/packmind/standard-go-style.mdc"), "alwaysApply: true")
	assert.Contains(t, paths(out), ".cursor/commands/packmind/add-endpoint.md")

	out, err = Continue{}.Render(context.Background(), in)
	require.NoError(t, err)
	assert.Contains(t, content(t, out, ".continue/rules/packmind-standard-go-style.md"), "name: Go Style")
	assert.Contains(t, content(t, out, ".continue/prompts/add-endpoint.prompt"), "invokable: true")
}

func TestRegistryMergesInAgentOrder(t *testing.T) {
	reg := DefaultRegistry()
	agents := []entity.CodingAgent{entity.AgentPackmind, entity.AgentAgentsMD, entity.AgentClaude}

	existing, err := reg.ExistingPaths(agents)
	require.NoError(t, err)
	assert.Equal(t, []string{"AGENTS.md", "CLAUDE.md"}, existing)

	out, err := reg.Render(context.Background(), agents, Input{Installed: []entity.ArtifactVersion{standard}})
	require.NoError(t, err)
	assert.Contains(t, paths(out), "AGENTS.md")
	assert.Contains(t, paths(out), "CLAUDE.md")
	assert.Contains(t, paths(out), ".packmind/standards/go-style.md")
}

func TestRegistryUnknownAgent(t *testing.T) {
	_, err := NewRegistry(Packmind{}).Render(context.Background(), []entity.CodingAgent{entity.AgentCursor}, Input{})
	var unknown *UnknownAgentError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, entity.AgentCursor, unknown.Agent)
}

func TestSlugOf(t *testing.T) {
	assert.Equal(t, "my-slug", slugOf(entity.ArtifactVersion{Slug: "My Slug"}))
	assert.Equal(t, "abc", slugOf(entity.ArtifactVersion{ArtifactID: "ABC"}))
	assert.Equal(t, "etc-passwd", slugOf(entity.ArtifactVersion{Slug: "../etc/passwd"}))
}
