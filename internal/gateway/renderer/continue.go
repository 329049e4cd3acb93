package renderer

import (
	"context"

	"publisher/internal/gateway/entity"
)

// Continue writes rules and invokable prompts for the Continue extension.
type Continue struct{}

type continueRule struct {
	Name        string `yaml:"name"`
	AlwaysApply bool   `yaml:"alwaysApply"`
}

type continuePrompt struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Invokable   bool   `yaml:"invokable"`
}

func (Continue) Agent() entity.CodingAgent { return entity.AgentContinue }

func (Continue) ExistingPaths() []string { return nil }

func (Continue) Render(_ context.Context, in Input) (entity.FileUpdates, error) {
	var out entity.FileUpdates
	for _, v := range in.Standards() {
		header, err := frontmatter(continueRule{Name: v.Name, AlwaysApply: true})
		if err != nil {
			return entity.FileUpdates{}, err
		}
		out.CreateOrUpdate = append(out.CreateOrUpdate, entity.FileUpdate{
			Path:    continueStandardPath(v),
			Content: header + standardBody(v),
		})
	}
	for _, v := range in.Recipes() {
		header, err := frontmatter(continuePrompt{Name: slugOf(v), Description: v.Summary, Invokable: true})
		if err != nil {
			return entity.FileUpdates{}, err
		}
		out.CreateOrUpdate = append(out.CreateOrUpdate, entity.FileUpdate{
			Path:    continueRecipePath(v),
			Content: header + recipeBody(v),
		})
	}
	for _, v := range in.Removed {
		p := continueRecipePath(v)
		if v.Kind == entity.KindStandard {
			p = continueStandardPath(v)
		}
		out.Delete = append(out.Delete, entity.FileDelete{Path: p})
	}
	return out, nil
}

func continueStandardPath(v entity.ArtifactVersion) string {
	return ".continue/rules/packmind-standard-" + slugOf(v) + ".md"
}

func continueRecipePath(v entity.ArtifactVersion) string {
	return ".continue/prompts/" + slugOf(v) + ".prompt"
}
