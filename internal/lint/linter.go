// Package lint checks the live documentation tree before it is frozen.
package lint

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/docsnap/internal/docs"
	"git.home.luguber.info/inful/docsnap/internal/sidebar"
)

// Linter checks a docs tree and its sidebar.
type Linter struct {
	fs      afero.Fs
	docs    string
	sidebar string
}

// NewLinter returns a linter for the pages under docsDir and the sidebar
// file at sidebarPath.
func NewLinter(fsys afero.Fs, docsDir, sidebarPath string) *Linter {
	return &Linter{fs: fsys, docs: docsDir, sidebar: sidebarPath}
}

// Lint runs every rule. The error is reserved for failures to read the
// tree; problems in the content are issues in the result.
func (l *Linter) Lint() (*Result, error) {
	pages, err := docs.Discover(l.fs, l.docs)
	if err != nil {
		var pe *fs.PathError
		if errors.As(err, &pe) && pe.Op == "parse frontmatter" {
			return &Result{Issues: []Issue{{
				FilePath: filepath.Join(l.docs, filepath.FromSlash(pe.Path)),
				Severity: SeverityError,
				Rule:     "frontmatter-invalid",
				Message:  pe.Err.Error(),
				Fix:      "close the frontmatter block with --- and fix its YAML",
			}}}, nil
		}
		return nil, err
	}

	result := &Result{FilesTotal: len(pages)}
	result.Issues = append(result.Issues, duplicateIDs(l.docs, pages)...)
	result.Issues = append(result.Issues, l.sidebarIssues(pages)...)
	result.Issues = append(result.Issues, l.brokenLinks(pages)...)
	return result, nil
}

func duplicateIDs(root string, pages []docs.Page) []Issue {
	var issues []Issue
	byID := docs.ByID(pages)
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		group := byID[id]
		if len(group) < 2 {
			continue
		}
		for _, p := range group[1:] {
			issues = append(issues, Issue{
				FilePath: filepath.Join(root, filepath.FromSlash(p.RelPath)),
				Severity: SeverityError,
				Rule:     "duplicate-doc-id",
				Message:  fmt.Sprintf("doc id %q is also used by %s", id, group[0].RelPath),
				Fix:      "give one of the pages a distinct `id` in its frontmatter or rename it",
			})
		}
	}
	return issues
}

func (l *Linter) sidebarIssues(pages []docs.Page) []Issue {
	sb, err := sidebar.Load(l.fs, l.sidebar)
	if errors.Is(err, sidebar.ErrUnsupportedFormat) {
		return []Issue{{
			FilePath: l.sidebar,
			Severity: SeverityInfo,
			Rule:     "sidebar-skipped",
			Message:  "sidebar format is not checked; it is copied verbatim",
		}}
	}
	if err != nil {
		return []Issue{{
			FilePath: l.sidebar,
			Severity: SeverityError,
			Rule:     "sidebar-invalid",
			Message:  err.Error(),
		}}
	}

	known := docs.ByID(pages)
	var issues []Issue
	for _, id := range sb.DocIDs() {
		if _, ok := known[id]; ok {
			continue
		}
		issues = append(issues, Issue{
			FilePath: l.sidebar,
			Severity: SeverityError,
			Rule:     "sidebar-unknown-doc",
			Message:  fmt.Sprintf("sidebar references unknown doc id %q", id),
			Fix:      "fix the id or add the page",
		})
	}
	for _, dir := range sb.AutogeneratedDirs() {
		target := filepath.Join(l.docs, filepath.FromSlash(dir))
		if ok, _ := afero.DirExists(l.fs, target); ok || dir == "." {
			continue
		}
		issues = append(issues, Issue{
			FilePath: l.sidebar,
			Severity: SeverityError,
			Rule:     "sidebar-missing-dir",
			Message:  fmt.Sprintf("autogenerated sidebar directory %q does not exist", dir),
		})
	}
	return issues
}

func (l *Linter) brokenLinks(pages []docs.Page) []Issue {
	var issues []Issue
	for _, p := range pages {
		for _, link := range linksOf(p) {
			target, ok := relativeTarget(p.RelPath, link)
			if !ok {
				continue
			}
			full := filepath.Join(l.docs, filepath.FromSlash(target))
			if exists, _ := afero.Exists(l.fs, full); exists {
				continue
			}
			issues = append(issues, Issue{
				FilePath: filepath.Join(l.docs, filepath.FromSlash(p.RelPath)),
				Severity: SeverityError,
				Rule:     "broken-link",
				Message:  fmt.Sprintf("link %q points to missing %s", link, path.Clean(target)),
			})
		}
	}
	return issues
}
