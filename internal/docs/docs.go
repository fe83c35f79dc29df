// Package docs discovers the pages of a documentation tree.
package docs

import (
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/inful/mdfp"
	"github.com/spf13/afero"

	"git.home.luguber.info/inful/docsnap/internal/frontmatter"
	"git.home.luguber.info/inful/docsnap/internal/markdown"
)

// Page is a single Markdown document in a docs tree.
type Page struct {
	// ID is the document id sidebars refer to: the directory of the page
	// joined with its frontmatter `id` or, failing that, the file name
	// without extension.
	ID string `json:"id"`
	// RelPath is slash-separated and relative to the tree root.
	RelPath string `json:"path"`
	Title   string `json:"title"`
	// Fingerprint is the mdfp content fingerprint of frontmatter and body.
	Fingerprint string `json:"fingerprint"`
	Size        int64  `json:"size"`
	// Body is the Markdown body without frontmatter.
	Body []byte `json:"-"`
}

// IsPage reports whether name has a page extension.
func IsPage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".mdx":
		return true
	}
	return false
}

// IsHidden reports whether a path element is hidden.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// Discover walks root and returns every page sorted by RelPath. Hidden files
// and directories are skipped. A missing root yields fs.ErrNotExist.
func Discover(fsys afero.Fs, root string) ([]Page, error) {
	info, err := fsys.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "discover", Path: root, Err: errors.New("not a directory")}
	}

	var pages []Page
	err = afero.Walk(fsys, root, func(p string, fi fs.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if p != root && IsHidden(fi.Name()) {
			if fi.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if fi.IsDir() || !IsPage(fi.Name()) {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		data, err := afero.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		page, err := Read(filepath.ToSlash(rel), data)
		if err != nil {
			return err
		}
		page.Size = fi.Size()
		pages = append(pages, page)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].RelPath < pages[j].RelPath })
	return pages, nil
}

// Read builds a Page from the raw contents of the file at rel.
func Read(rel string, data []byte) (Page, error) {
	fm, body, _, err := frontmatter.Split(data)
	if err != nil {
		return Page{}, &fs.PathError{Op: "parse frontmatter", Path: rel, Err: err}
	}
	fields, err := frontmatter.Parse(fm)
	if err != nil {
		return Page{}, &fs.PathError{Op: "parse frontmatter", Path: rel, Err: err}
	}

	dir := path.Dir(rel)
	base := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	if id, ok := frontmatter.String(fields, "id"); ok {
		base = id
	}
	id := base
	if dir != "." {
		id = path.Join(dir, base)
	}

	title, ok := frontmatter.String(fields, "title")
	if !ok {
		if title, ok = markdown.FirstHeading(body); !ok {
			title = id
		}
	}

	return Page{
		ID:          id,
		RelPath:     rel,
		Title:       title,
		Fingerprint: mdfp.CalculateFingerprintFromParts(string(fm), string(body)),
		Size:        int64(len(data)),
		Body:        body,
	}, nil
}

// Fingerprints maps RelPath to Fingerprint.
func Fingerprints(pages []Page) map[string]string {
	out := make(map[string]string, len(pages))
	for _, p := range pages {
		out[p.RelPath] = p.Fingerprint
	}
	return out
}

// ByID indexes pages by ID. Pages sharing an ID are all kept.
func ByID(pages []Page) map[string][]Page {
	out := make(map[string][]Page, len(pages))
	for _, p := range pages {
		out[p.ID] = append(out[p.ID], p)
	}
	return out
}
