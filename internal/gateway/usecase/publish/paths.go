package publish

import (
	"strings"

	"publisher/internal/gateway/entity"
)

// TargetPrefix is the repository-relative directory of a target: "" for the
// root, "a/b/" for "/a/b/".
func TargetPrefix(t entity.Target) string {
	p := entity.NormalizeTargetPath(t.Path)
	if p == entity.RootPath {
		return ""
	}
	return strings.TrimPrefix(p, "/")
}

// PrefixedPath roots a renderer path at the target.
func PrefixedPath(t entity.Target, p string) string {
	return TargetPrefix(t) + strings.TrimPrefix(p, "/")
}

// PrefixUpdates returns a copy of updates with every path rooted at the target.
func PrefixUpdates(updates entity.FileUpdates, t entity.Target) entity.FileUpdates {
	out := entity.FileUpdates{
		CreateOrUpdate: make([]entity.FileUpdate, 0, len(updates.CreateOrUpdate)),
		Delete:         make([]entity.FileDelete, 0, len(updates.Delete)),
	}
	for _, f := range updates.CreateOrUpdate {
		f.Path = PrefixedPath(t, f.Path)
		out.CreateOrUpdate = append(out.CreateOrUpdate, f)
	}
	for _, d := range updates.Delete {
		d.Path = PrefixedPath(t, d.Path)
		out.Delete = append(out.Delete, d)
	}
	return out
}
