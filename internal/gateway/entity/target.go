package entity

import (
	"errors"
	"strings"
)

// RootPath is the repository root target path.
const RootPath = "/"

// Target is a path within one git repository that receives rendered files.
type Target struct {
	ID             TargetID       `json:"id"`
	OrganizationID OrganizationID `json:"organizationId"`
	RepositoryID   RepositoryID   `json:"gitRepoId"`
	Name           string         `json:"name"`
	Path           string         `json:"path"`
}

// IsRoot reports whether the target is the repository root.
func (t Target) IsRoot() bool {
	return NormalizeTargetPath(t.Path) == RootPath
}

// NormalizeTargetPath returns "/" or "/a/b/".
func NormalizeTargetPath(raw string) string {
	p := strings.TrimSpace(raw)
	p = strings.Trim(p, "/")
	if p == "" {
		return RootPath
	}
	parts := strings.Split(p, "/")
	kept := parts[:0]
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		kept = append(kept, part)
	}
	if len(kept) == 0 {
		return RootPath
	}
	return "/" + strings.Join(kept, "/") + "/"
}

// ErrInvalidTargetPath rejects relative paths and "." or ".." segments.
var ErrInvalidTargetPath = errors.New("invalid path format")

// ParseTargetPath validates a user supplied path and returns it normalized.
// The path must be absolute; a missing trailing slash is added.
func ParseTargetPath(raw string) (string, error) {
	p := strings.TrimSpace(raw)
	if !strings.HasPrefix(p, "/") {
		return "", ErrInvalidTargetPath
	}
	inner := strings.Trim(p, "/")
	if inner == "" {
		return RootPath, nil
	}
	for _, part := range strings.Split(inner, "/") {
		if part == "" || part == "." || part == ".." {
			return "", ErrInvalidTargetPath
		}
	}
	return "/" + inner + "/", nil
}

// Repository is a git owner/name/branch triple; the unit of commit atomicity.
type Repository struct {
	ID       RepositoryID `json:"id"`
	Owner    string       `json:"owner"`
	Name     string       `json:"repo"`
	Branch   string       `json:"branch"`
	CloneURL string       `json:"cloneUrl,omitempty"`
}

// FullName returns "owner/name".
func (r Repository) FullName() string {
	return strings.TrimSpace(r.Owner) + "/" + strings.TrimSpace(r.Name)
}

// BranchOrDefault returns the configured branch or "main".
func (r Repository) BranchOrDefault() string {
	if b := strings.TrimSpace(r.Branch); b != "" {
		return b
	}
	return "main"
}
