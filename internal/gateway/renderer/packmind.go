package renderer

import (
	"context"
	"fmt"
	"strings"

	"publisher/internal/gateway/entity"
)

const (
	packmindRecipesIndex   = ".packmind/recipes-index.md"
	packmindStandardsIndex = ".packmind/standards-index.md"
)

// Packmind writes the canonical .packmind tree every other layout links to.
type Packmind struct{}

func (Packmind) Agent() entity.CodingAgent { return entity.AgentPackmind }

func (Packmind) ExistingPaths() []string { return nil }

func (Packmind) Render(_ context.Context, in Input) (entity.FileUpdates, error) {
	var out entity.FileUpdates
	recipes, standards := in.Recipes(), in.Standards()
	for _, v := range recipes {
		out.CreateOrUpdate = append(out.CreateOrUpdate, entity.FileUpdate{Path: packmindRecipePath(v), Content: recipeBody(v)})
	}
	for _, v := range standards {
		out.CreateOrUpdate = append(out.CreateOrUpdate, entity.FileUpdate{Path: packmindStandardPath(v), Content: standardBody(v)})
	}
	out.CreateOrUpdate = append(out.CreateOrUpdate,
		entity.FileUpdate{Path: packmindRecipesIndex, Content: index("Recipes", "recipes", recipes)},
		entity.FileUpdate{Path: packmindStandardsIndex, Content: index("Standards", "standards", standards)},
	)
	for _, v := range in.Removed {
		p := packmindRecipePath(v)
		if v.Kind == entity.KindStandard {
			p = packmindStandardPath(v)
		}
		out.Delete = append(out.Delete, entity.FileDelete{Path: p})
	}
	return out, nil
}

func index(title, dir string, versions []entity.ArtifactVersion) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s Index\n\n", title)
	if len(versions) == 0 {
		fmt.Fprintf(&b, "No %s available.\n", strings.ToLower(title))
		return b.String()
	}
	for _, v := range versions {
		fmt.Fprintf(&b, "- [%s](%s/%s.md)", v.Name, dir, slugOf(v))
		if s := strings.TrimSpace(v.Summary); s != "" {
			fmt.Fprintf(&b, ": %s", s)
		}
		b.WriteString("\n")
	}
	return b.String()
}
