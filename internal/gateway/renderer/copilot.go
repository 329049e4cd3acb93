package renderer

import (
	"context"

	"publisher/internal/gateway/entity"
)

// Copilot writes path-scoped instruction files and reusable prompts.
type Copilot struct{}

type copilotInstruction struct {
	ApplyTo string `yaml:"applyTo"`
}

type copilotPrompt struct {
	Description string `yaml:"description,omitempty"`
	Mode        string `yaml:"mode"`
}

func (Copilot) Agent() entity.CodingAgent { return entity.AgentCopilot }

func (Copilot) ExistingPaths() []string { return nil }

func (Copilot) Render(_ context.Context, in Input) (entity.FileUpdates, error) {
	var out entity.FileUpdates
	for _, v := range in.Standards() {
		header, err := frontmatter(copilotInstruction{ApplyTo: "**"})
		if err != nil {
			return entity.FileUpdates{}, err
		}
		out.CreateOrUpdate = append(out.CreateOrUpdate, entity.FileUpdate{
			Path:    copilotStandardPath(v),
			Content: header + standardBody(v),
		})
	}
	for _, v := range in.Recipes() {
		header, err := frontmatter(copilotPrompt{Description: v.Summary, Mode: "agent"})
		if err != nil {
			return entity.FileUpdates{}, err
		}
		out.CreateOrUpdate = append(out.CreateOrUpdate, entity.FileUpdate{
			Path:    copilotRecipePath(v),
			Content: header + recipeBody(v),
		})
	}
	for _, v := range in.Removed {
		p := copilotRecipePath(v)
		if v.Kind == entity.KindStandard {
			p = copilotStandardPath(v)
		}
		out.Delete = append(out.Delete, entity.FileDelete{Path: p})
	}
	return out, nil
}

func copilotStandardPath(v entity.ArtifactVersion) string {
	return ".github/instructions/packmind-" + slugOf(v) + ".instructions.md"
}

func copilotRecipePath(v entity.ArtifactVersion) string {
	return ".github/prompts/" + slugOf(v) + ".prompt.md"
}
