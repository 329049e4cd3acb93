package renderer

import (
	"context"
	"strings"

	"publisher/internal/gateway/entity"
)

const (
	standardsSection = "Packmind standards"
	recipesSection   = "Packmind recipes"
)

// SingleFile keeps a managed standards section inside one shared instruction
// file. Recipes are no longer listed there, so their section is cleared.
type SingleFile struct {
	agent entity.CodingAgent
	path  string
}

func NewAgentsMD() SingleFile { return SingleFile{agent: entity.AgentAgentsMD, path: "AGENTS.md"} }
func NewClaude() SingleFile   { return SingleFile{agent: entity.AgentClaude, path: "CLAUDE.md"} }
func NewJunie() SingleFile    { return SingleFile{agent: entity.AgentJunie, path: ".junie/guidelines.md"} }

func (r SingleFile) Agent() entity.CodingAgent { return r.agent }

func (r SingleFile) ExistingPaths() []string { return []string{r.path} }

func (r SingleFile) Render(_ context.Context, in Input) (entity.FileUpdates, error) {
	current, existed := in.ExistingFiles[r.path]

	digests := make([]string, 0, len(in.Installed))
	for _, v := range in.Standards() {
		digests = append(digests, standardDigest(v))
	}
	body := ""
	if len(digests) > 0 {
		body = "# Packmind Standards\n\nBefore starting your work, make sure to review the coding standards relevant to your current task.\n\n" +
			strings.Join(digests, "\n\n")
	}

	next := replaceSection(current, recipesSection, "")
	next = replaceSection(next, standardsSection, body)

	if !existed && next == "" {
		return entity.FileUpdates{}, nil
	}
	return entity.FileUpdates{
		CreateOrUpdate: []entity.FileUpdate{{Path: r.path, Content: next}},
	}, nil
}
