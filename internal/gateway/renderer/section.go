package renderer

import "strings"

func startMarker(key string) string { return "<!-- start: " + key + " -->" }
func endMarker(key string) string   { return "<!-- end: " + key + " -->" }

// replaceSection rewrites the block delimited by key's markers. An empty
// body removes the block; a missing block is appended. Text outside the
// markers is kept.
func replaceSection(current, key, body string) string {
	start, end := startMarker(key), endMarker(key)
	body = strings.TrimSpace(body)

	var block string
	if body != "" {
		block = start + "\n" + body + "\n" + end
	}

	i := strings.Index(current, start)
	j := strings.Index(current, end)
	if i >= 0 && j > i {
		before := strings.TrimRight(current[:i], "\n")
		after := strings.Trim(current[j+len(end):], "\n")
		return joinBlocks(before, block, after)
	}
	return joinBlocks(strings.TrimRight(current, "\n"), block, "")
}

func joinBlocks(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return strings.Join(kept, "\n\n") + "\n"
}
