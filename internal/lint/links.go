package lint

import (
	"net/url"
	"path"
	"strings"

	"git.home.luguber.info/inful/docsnap/internal/docs"
	"git.home.luguber.info/inful/docsnap/internal/markdown"
)

func linksOf(p docs.Page) []string {
	var out []string
	for _, l := range markdown.ExtractLinks(p.Body) {
		if l.Kind == markdown.LinkKindAuto || l.IsExternal() {
			continue
		}
		out = append(out, l.Destination)
	}
	return out
}

// relativeTarget resolves a link destination found in the page at rel to a
// slash path relative to the docs root. Only file links (pages and assets)
// are resolved; anchors, site-absolute routes and links escaping the docs
// root report ok=false.
func relativeTarget(rel, dest string) (string, bool) {
	if dest == "" || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "/") {
		return "", false
	}
	if i := strings.IndexAny(dest, "#?"); i >= 0 {
		dest = dest[:i]
	}
	if unescaped, err := url.PathUnescape(dest); err == nil {
		dest = unescaped
	}
	if path.Ext(dest) == "" {
		// Route-style links ("../guides/auth") are resolved by the site generator.
		return "", false
	}

	target := path.Clean(path.Join(path.Dir(rel), dest))
	if target == ".." || strings.HasPrefix(target, "../") {
		return "", false
	}
	return target, true
}
