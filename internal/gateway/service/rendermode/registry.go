package rendermode

import (
	"strings"

	"publisher/internal/gateway/entity"
)

// Table maps every render mode to the single coding agent it enables.
type Table map[entity.RenderMode]entity.CodingAgent

// DefaultTable returns the built-in render mode table.
func DefaultTable() Table {
	return Table{
		entity.RenderModePackmind:  entity.AgentPackmind,
		entity.RenderModeAgentsMD:  entity.AgentAgentsMD,
		entity.RenderModeGHCopilot: entity.AgentCopilot,
		entity.RenderModeClaude:    entity.AgentClaude,
		entity.RenderModeCursor:    entity.AgentCursor,
		entity.RenderModeJunie:     entity.AgentJunie,
		entity.RenderModeContinue:  entity.AgentContinue,
	}
}

// Registry resolves render modes to coding agents. It is immutable after construction.
type Registry struct {
	toAgent map[entity.RenderMode]entity.CodingAgent
	toMode  map[entity.CodingAgent]entity.RenderMode
}

// NewRegistry copies table; a nil table means DefaultTable.
func NewRegistry(table Table) *Registry {
	if table == nil {
		table = DefaultTable()
	}
	r := &Registry{
		toAgent: make(map[entity.RenderMode]entity.CodingAgent, len(table)),
		toMode:  make(map[entity.CodingAgent]entity.RenderMode, len(table)),
	}
	for mode, agent := range table {
		r.toAgent[mode] = agent
		if _, ok := r.toMode[agent]; !ok {
			r.toMode[agent] = mode
		}
	}
	return r
}

// ResolveCodingAgents maps modes to agents, deduplicated in first-seen order.
// An unmapped mode fails the whole call.
func (r *Registry) ResolveCodingAgents(modes []entity.RenderMode) ([]entity.CodingAgent, error) {
	out := make([]entity.CodingAgent, 0, len(modes))
	seen := make(map[entity.CodingAgent]struct{}, len(modes))
	for _, mode := range modes {
		agent, ok := r.toAgent[mode]
		if !ok {
			return nil, &UnsupportedRenderModeError{Mode: mode}
		}
		if _, dup := seen[agent]; dup {
			continue
		}
		seen[agent] = struct{}{}
		out = append(out, agent)
	}
	return out, nil
}

// RenderModesFor maps agents back to render modes, skipping unknown agents.
func (r *Registry) RenderModesFor(agents []entity.CodingAgent) []entity.RenderMode {
	out := make([]entity.RenderMode, 0, len(agents))
	for _, agent := range agents {
		if mode, ok := r.toMode[agent]; ok {
			out = append(out, mode)
		}
	}
	return Normalize(out)
}

// ParseRenderMode validates a raw value against the registry.
func (r *Registry) ParseRenderMode(raw string) (entity.RenderMode, error) {
	mode := entity.RenderMode(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := r.toAgent[mode]; !ok {
		return "", &UnsupportedRenderModeError{Mode: entity.RenderMode(raw)}
	}
	return mode, nil
}

// ParseRenderModes validates every raw value, failing on the first unknown one.
func (r *Registry) ParseRenderModes(raw []string) ([]entity.RenderMode, error) {
	out := make([]entity.RenderMode, 0, len(raw))
	for _, v := range raw {
		mode, err := r.ParseRenderMode(v)
		if err != nil {
			return nil, err
		}
		out = append(out, mode)
	}
	return out, nil
}

// Validate checks that every mode has an agent mapping.
func (r *Registry) Validate(modes []entity.RenderMode) error {
	for _, mode := range modes {
		if _, ok := r.toAgent[mode]; !ok {
			return &UnsupportedRenderModeError{Mode: mode}
		}
	}
	return nil
}

// Normalize puts the baseline mode first and drops blanks and duplicates,
// keeping first-seen order for the rest. Normalize(Normalize(x)) == Normalize(x).
func Normalize(modes []entity.RenderMode) []entity.RenderMode {
	out := make([]entity.RenderMode, 0, len(modes)+1)
	out = append(out, entity.BaselineRenderMode)
	seen := map[entity.RenderMode]struct{}{entity.BaselineRenderMode: {}}
	for _, mode := range modes {
		mode = entity.RenderMode(strings.TrimSpace(string(mode)))
		if mode == "" {
			continue
		}
		if _, dup := seen[mode]; dup {
			continue
		}
		seen[mode] = struct{}{}
		out = append(out, mode)
	}
	return out
}
