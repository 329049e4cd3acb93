package entity

import (
	"fmt"
	"strings"
)

// ArtifactKind distinguishes the two distributable content families.
type ArtifactKind string

const (
	KindRecipe   ArtifactKind = "recipe"
	KindStandard ArtifactKind = "standard"
)

// Kinds lists every artifact kind in commit-message order.
var Kinds = []ArtifactKind{KindRecipe, KindStandard}

func (k ArtifactKind) Valid() bool {
	return k == KindRecipe || k == KindStandard
}

func ParseArtifactKind(raw string) (ArtifactKind, error) {
	k := ArtifactKind(strings.ToLower(strings.TrimSpace(raw)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown artifact kind %q", raw)
	}
	return k, nil
}

// Rule is one entry of a standard's rule list.
type Rule struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// ArtifactVersion is one immutable version of a recipe or standard.
//
// Rules only applies to standards. RulesLoaded separates "not fetched yet"
// from "fetched and empty": versions rebuilt from distribution history come
// back with RulesLoaded=false and must be hydrated before rendering.
type ArtifactVersion struct {
	ID         VersionID    `json:"id"`
	ArtifactID ArtifactID   `json:"artifactId"`
	Kind       ArtifactKind `json:"kind"`
	Version    int          `json:"version"`
	Name       string       `json:"name"`
	Slug       string       `json:"slug"`
	Summary    string       `json:"summary,omitempty"`
	Content    string       `json:"content,omitempty"`

	Rules       []Rule `json:"-"`
	RulesLoaded bool   `json:"-"`
}

// NeedsRules reports whether the version is a standard whose rules were never fetched.
func (v ArtifactVersion) NeedsRules() bool {
	return v.Kind == KindStandard && !v.RulesLoaded
}

// WithRules returns a copy carrying the given rules marked as loaded.
func (v ArtifactVersion) WithRules(rules []Rule) ArtifactVersion {
	out := v
	out.Rules = append([]Rule{}, rules...)
	out.RulesLoaded = true
	return out
}

// Summarized strips the substructure, as history storage does.
func (v ArtifactVersion) Summarized() ArtifactVersion {
	out := v
	out.Rules = nil
	out.RulesLoaded = false
	return out
}

// Key identifies the artifact across kinds.
func (v ArtifactVersion) Key() string {
	return string(v.Kind) + ":" + v.ArtifactID.String()
}

// VersionRef names a requested artifact version.
type VersionRef struct {
	ID   VersionID    `json:"id"`
	Kind ArtifactKind `json:"kind"`
}

// FilterKind returns the versions of the given kind, order preserved.
func FilterKind(versions []ArtifactVersion, kind ArtifactKind) []ArtifactVersion {
	out := make([]ArtifactVersion, 0, len(versions))
	for _, v := range versions {
		if v.Kind == kind {
			out = append(out, v)
		}
	}
	return out
}
