package entity

import "strings"

// RenderMode is an organization-facing toggle selecting agent file layouts.
type RenderMode string

const (
	RenderModePackmind  RenderMode = "packmind"
	RenderModeAgentsMD  RenderMode = "agents_md"
	RenderModeGHCopilot RenderMode = "gh_copilot"
	RenderModeClaude    RenderMode = "claude"
	RenderModeCursor    RenderMode = "cursor"
	RenderModeJunie     RenderMode = "junie"
	RenderModeContinue  RenderMode = "continue"
)

// BaselineRenderMode is always active and always first after normalization.
const BaselineRenderMode = RenderModePackmind

// DefaultRenderModes is used when an organization never saved a configuration.
func DefaultRenderModes() []RenderMode {
	return []RenderMode{RenderModePackmind, RenderModeAgentsMD}
}

func (m RenderMode) String() string { return string(m) }

// CodingAgent identifies one renderer/consumer file layout.
type CodingAgent string

const (
	AgentPackmind CodingAgent = "packmind"
	AgentAgentsMD CodingAgent = "agents_md"
	AgentCopilot  CodingAgent = "copilot"
	AgentClaude   CodingAgent = "claude"
	AgentCursor   CodingAgent = "cursor"
	AgentJunie    CodingAgent = "junie"
	AgentContinue CodingAgent = "continue"
)

func (a CodingAgent) String() string { return string(a) }

// RenderModeConfiguration is the persisted per-organization selection.
type RenderModeConfiguration struct {
	OrganizationID    OrganizationID `json:"organizationId"`
	ActiveRenderModes []RenderMode   `json:"activeRenderModes"`
}

// RenderModeStrings converts modes for storage and logging.
func RenderModeStrings(modes []RenderMode) []string {
	out := make([]string, 0, len(modes))
	for _, m := range modes {
		out = append(out, strings.TrimSpace(string(m)))
	}
	return out
}
