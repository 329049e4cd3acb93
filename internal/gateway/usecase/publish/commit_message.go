package publish

import (
	"fmt"
	"strings"

	"publisher/internal/gateway/entity"
)

const commitHeader = "[PACKMIND] Update artifacts (recipes + standards)"

// CommitMessage builds the message for one repository commit. requested are
// the versions named in the publish request, installed the reconciled set.
// Audit tooling parses this layout.
func CommitMessage(requested, installed []entity.ArtifactVersion, targets []entity.Target) string {
	recipes := entity.FilterKind(requested, entity.KindRecipe)
	standards := entity.FilterKind(requested, entity.KindStandard)

	lines := []string{commitHeader, ""}
	if len(recipes) > 0 {
		lines = append(lines,
			fmt.Sprintf("- Updated %d recipe(s)", len(recipes)),
			fmt.Sprintf("- Total recipes in repository: %d", len(entity.FilterKind(installed, entity.KindRecipe))),
		)
	}
	if len(standards) > 0 {
		lines = append(lines,
			fmt.Sprintf("- Updated %d standard(s)", len(standards)),
			fmt.Sprintf("- Total standards in repository: %d", len(entity.FilterKind(installed, entity.KindStandard))),
		)
	}

	names := make([]string, 0, len(targets))
	for _, t := range targets {
		names = append(names, t.Name)
	}
	lines = append(lines, "- Targets: "+strings.Join(names, ", "), "")

	if len(recipes) > 0 {
		lines = append(lines, "Recipes updated:")
		lines = appendVersionLines(lines, recipes)
		lines = append(lines, "")
	}
	if len(standards) > 0 {
		lines = append(lines, "Standards updated:")
		lines = appendVersionLines(lines, standards)
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func appendVersionLines(lines []string, versions []entity.ArtifactVersion) []string {
	for _, v := range versions {
		lines = append(lines, fmt.Sprintf("- %s (%s) v%d", v.Name, v.Slug, v.Version))
	}
	return lines
}
