package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"publisher/internal/gateway/entity"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func printDistributions(w io.Writer, dists []entity.Distribution) error {
	tw := newTable(w, "ID", "TARGET", "STATUS", "COMMIT", "ERROR")
	for _, d := range dists {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			d.ID, targetLabel(d.Target), d.Status, shortSHA(d.GitCommit), d.Error)
	}
	return tw.Flush()
}

func targetLabel(t entity.Target) string {
	if t.Name == "" {
		return string(t.ID)
	}
	return t.Name + " (" + t.Path + ")"
}

func shortSHA(c *entity.GitCommit) string {
	if c == nil {
		return "-"
	}
	if len(c.SHA) > 8 {
		return c.SHA[:8]
	}
	return c.SHA
}

func joinModes(modes []entity.RenderMode) string {
	out := make([]string, len(modes))
	for i, m := range modes {
		out[i] = string(m)
	}
	return strings.Join(out, ", ")
}
