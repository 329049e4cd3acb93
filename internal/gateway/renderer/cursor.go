package renderer

import (
	"context"

	"publisher/internal/gateway/entity"
)

// Cursor writes one always-applied rule per standard and one command per recipe.
type Cursor struct{}

type cursorRule struct {
	Description string `yaml:"description,omitempty"`
	Globs       string `yaml:"globs"`
	AlwaysApply bool   `yaml:"alwaysApply"`
}

func (Cursor) Agent() entity.CodingAgent { return entity.AgentCursor }

func (Cursor) ExistingPaths() []string { return nil }

func (Cursor) Render(_ context.Context, in Input) (entity.FileUpdates, error) {
	var out entity.FileUpdates
	for _, v := range in.Standards() {
		header, err := frontmatter(cursorRule{Description: v.Summary, AlwaysApply: true})
		if err != nil {
			return entity.FileUpdates{}, err
		}
		out.CreateOrUpdate = append(out.CreateOrUpdate, entity.FileUpdate{
			Path:    cursorStandardPath(v),
			Content: header + standardBody(v),
		})
	}
	for _, v := range in.Recipes() {
		out.CreateOrUpdate = append(out.CreateOrUpdate, entity.FileUpdate{
			Path:    cursorRecipePath(v),
			Content: recipeBody(v),
		})
	}
	for _, v := range in.Removed {
		p := cursorRecipePath(v)
		if v.Kind == entity.KindStandard {
			p = cursorStandardPath(v)
		}
		out.Delete = append(out.Delete, entity.FileDelete{Path: p})
	}
	return out, nil
}

func cursorStandardPath(v entity.ArtifactVersion) string {
	return ".cursor/rules/packmind/standard-" + slugOf(v) + ".mdc"
}

func cursorRecipePath(v entity.ArtifactVersion) string {
	return ".cursor/commands/packmind/" + slugOf(v) + ".md"
}
