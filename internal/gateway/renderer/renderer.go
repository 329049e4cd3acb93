// Package renderer turns artifact versions into the file layout each coding agent reads.
package renderer

import (
	"context"
	"fmt"

	"publisher/internal/gateway/entity"
)

// Input is everything a renderer sees. Paths in ExistingFiles are relative
// to the target root, as are the paths a renderer returns.
type Input struct {
	Installed     []entity.ArtifactVersion
	Removed       []entity.ArtifactVersion
	ExistingFiles map[string]string
}

// Recipes returns the installed recipes.
func (in Input) Recipes() []entity.ArtifactVersion {
	return entity.FilterKind(in.Installed, entity.KindRecipe)
}

// Standards returns the installed standards.
func (in Input) Standards() []entity.ArtifactVersion {
	return entity.FilterKind(in.Installed, entity.KindStandard)
}

// Renderer produces one coding agent's files.
type Renderer interface {
	Agent() entity.CodingAgent
	// ExistingPaths lists the files whose current content Render needs.
	ExistingPaths() []string
	Render(ctx context.Context, in Input) (entity.FileUpdates, error)
}

type UnknownAgentError struct {
	Agent entity.CodingAgent
}

func (e *UnknownAgentError) Error() string {
	return fmt.Sprintf("no renderer for coding agent %q", string(e.Agent))
}

// Registry looks renderers up by coding agent.
type Registry struct {
	renderers map[entity.CodingAgent]Renderer
}

func NewRegistry(renderers ...Renderer) *Registry {
	r := &Registry{renderers: make(map[entity.CodingAgent]Renderer, len(renderers))}
	for _, rd := range renderers {
		r.renderers[rd.Agent()] = rd
	}
	return r
}

// DefaultRegistry has one renderer per built-in coding agent.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Packmind{},
		NewAgentsMD(),
		NewClaude(),
		NewJunie(),
		Copilot{},
		Cursor{},
		Continue{},
	)
}

func (r *Registry) Get(agent entity.CodingAgent) (Renderer, error) {
	rd, ok := r.renderers[agent]
	if !ok {
		return nil, &UnknownAgentError{Agent: agent}
	}
	return rd, nil
}

// ExistingPaths is the deduplicated union of the agents' ExistingPaths.
func (r *Registry) ExistingPaths(agents []entity.CodingAgent) ([]string, error) {
	var out []string
	seen := map[string]struct{}{}
	for _, agent := range agents {
		rd, err := r.Get(agent)
		if err != nil {
			return nil, err
		}
		for _, p := range rd.ExistingPaths() {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out, nil
}

// Render runs every agent's renderer in order and merges the results.
func (r *Registry) Render(ctx context.Context, agents []entity.CodingAgent, in Input) (entity.FileUpdates, error) {
	var out entity.FileUpdates
	for _, agent := range agents {
		rd, err := r.Get(agent)
		if err != nil {
			return entity.FileUpdates{}, err
		}
		updates, err := rd.Render(ctx, in)
		if err != nil {
			return entity.FileUpdates{}, fmt.Errorf("render %s: %w", agent, err)
		}
		out.Merge(updates)
	}
	return out, nil
}
