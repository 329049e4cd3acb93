package renderer

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"publisher/internal/gateway/entity"
)

var unsafeSlug = regexp.MustCompile(`[^a-z0-9._-]+`)

// slugOf returns a filesystem safe slug, falling back to the artifact id.
func slugOf(v entity.ArtifactVersion) string {
	s := strings.ToLower(strings.TrimSpace(v.Slug))
	if s == "" {
		s = strings.ToLower(v.ArtifactID.String())
	}
	s = strings.Trim(unsafeSlug.ReplaceAllString(s, "-"), "-.")
	if s == "" {
		return "artifact"
	}
	return s
}

func packmindStandardPath(v entity.ArtifactVersion) string {
	return ".packmind/standards/" + slugOf(v) + ".md"
}

func packmindRecipePath(v entity.ArtifactVersion) string {
	return ".packmind/recipes/" + slugOf(v) + ".md"
}

// frontmatter renders fields as a YAML header block.
func frontmatter(fields any) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fields); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return "---\n" + buf.String() + "---\n", nil
}

func recipeBody(v entity.ArtifactVersion) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", v.Name)
	if s := strings.TrimSpace(v.Summary); s != "" {
		fmt.Fprintf(&b, "\n%s\n", s)
	}
	if c := strings.TrimSpace(v.Content); c != "" {
		fmt.Fprintf(&b, "\n%s\n", c)
	}
	return b.String()
}

func standardBody(v entity.ArtifactVersion) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", v.Name)
	if s := strings.TrimSpace(v.Summary); s != "" {
		fmt.Fprintf(&b, "\n%s\n", s)
	}
	if c := strings.TrimSpace(v.Content); c != "" {
		fmt.Fprintf(&b, "\n%s\n", c)
	}
	if len(v.Rules) > 0 {
		b.WriteString("\n## Rules\n\n")
		writeRules(&b, v.Rules)
	}
	return b.String()
}

func writeRules(b *strings.Builder, rules []entity.Rule) {
	for _, r := range rules {
		if c := strings.TrimSpace(r.Content); c != "" {
			fmt.Fprintf(b, "* %s\n", c)
		}
	}
}

// standardDigest is the compact form used inside shared instruction files.
func standardDigest(v entity.ArtifactVersion) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Standard: %s\n\n", v.Name)
	if s := strings.TrimSpace(v.Summary); s != "" {
		fmt.Fprintf(&b, "%s :\n", s)
	}
	writeRules(&b, v.Rules)
	fmt.Fprintf(&b, "\nFull standard is available here for further request: [%s](%s)", v.Name, packmindStandardPath(v))
	return b.String()
}
