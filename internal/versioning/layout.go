package versioning

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docsnap/internal/config"
)

const (
	snapshotPrefix = "version-"
	sidebarSuffix  = "-sidebars"
	stagingPrefix  = ".staging-"
)

// Layout is the on-disk contract the site generator consumes.
type Layout struct {
	Docs              string // live pages root
	Sidebar           string // live navigation manifest
	VersionedDocs     string // parent of version-<label>/
	VersionedSidebars string // parent of version-<label>-sidebars.<ext>
	Versions          string // version manifest
}

// NewLayout resolves the configured paths against the project root.
func NewLayout(cfg *config.Config) Layout {
	return Layout{
		Docs:              cfg.Resolve(cfg.Paths.Docs),
		Sidebar:           cfg.Resolve(cfg.Paths.Sidebar),
		VersionedDocs:     cfg.Resolve(cfg.Paths.VersionedDocs),
		VersionedSidebars: cfg.Resolve(cfg.Paths.VersionedSidebars),
		Versions:          cfg.Resolve(cfg.Paths.Versions),
	}
}

// SnapshotDir is the directory holding the pages of label.
func (l Layout) SnapshotDir(label string) string {
	return filepath.Join(l.VersionedDocs, snapshotPrefix+label)
}

// SidebarPath is the frozen navigation manifest of label. It keeps the
// extension of the live sidebar file.
func (l Layout) SidebarPath(label string) string {
	return filepath.Join(l.VersionedSidebars, snapshotPrefix+label+sidebarSuffix+l.sidebarExt())
}

func (l Layout) stagingDir(label string) string {
	return filepath.Join(l.VersionedDocs, stagingPrefix+snapshotPrefix+label)
}

func (l Layout) sidebarExt() string {
	ext := filepath.Ext(l.Sidebar)
	if ext == "" {
		return ".json"
	}
	return ext
}

// labelFromSnapshotDir extracts the label from a version-<label> entry name.
func labelFromSnapshotDir(name string) (string, bool) {
	if !strings.HasPrefix(name, snapshotPrefix) {
		return "", false
	}
	label := strings.TrimPrefix(name, snapshotPrefix)
	return label, label != ""
}

// labelFromSidebarFile extracts the label from a version-<label>-sidebars.<ext>
// entry name.
func labelFromSidebarFile(name string) (string, bool) {
	if !strings.HasPrefix(name, snapshotPrefix) {
		return "", false
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if !strings.HasSuffix(stem, sidebarSuffix) {
		return "", false
	}
	label := strings.TrimSuffix(strings.TrimPrefix(stem, snapshotPrefix), sidebarSuffix)
	return label, label != ""
}
