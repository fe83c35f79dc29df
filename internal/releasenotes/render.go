package releasenotes

import (
	"fmt"
	"strings"
)

// RenderMarkdown renders the log as a page, newest entry first.
func RenderMarkdown(title string, log *Log) string {
	if title == "" {
		title = "Release Notes"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "---\ntitle: %s\n---\n\n# %s\n", quote(title), title)

	if log == nil || len(log.Entries) == 0 {
		b.WriteString("\nNo releases yet.\n")
		return b.String()
	}

	for i := len(log.Entries) - 1; i >= 0; i-- {
		e := log.Entries[i]
		fmt.Fprintf(&b, "\n## %s (%s)\n", e.Version, e.Date)
		section(&b, "Highlights", e.Highlights)
		section(&b, "Breaking changes", e.Breaking)
		section(&b, "Enhancements", e.Enhancements)
		section(&b, "Fixes", e.Fixes)
		if e.Empty() {
			b.WriteString("\nNo notable changes.\n")
		}
	}
	return b.String()
}

func section(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s\n\n", heading)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", strings.TrimSpace(it))
	}
}

// quote keeps YAML-significant titles valid in frontmatter.
func quote(s string) string {
	if strings.ContainsAny(s, ":#'\"{}[]&*!|>%@`") {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}
