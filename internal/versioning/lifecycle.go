package versioning

import (
	"context"
	"fmt"
	"sort"

	"git.home.luguber.info/inful/docsnap/internal/eventstore"
	"git.home.luguber.info/inful/docsnap/internal/foundation/errors"
	"git.home.luguber.info/inful/docsnap/internal/logfields"
	"git.home.luguber.info/inful/docsnap/internal/observability"
)

// Register appends label to the manifest for a snapshot already on disk.
// It is the manifest step of CutVersion on its own and is idempotent:
// registering a listed label reports added=false.
func (m *Manager) Register(ctx context.Context, raw string) (added bool, err error) {
	start := m.now()
	ctx = opContext(ctx, OpRegister, "")
	defer func() { m.observe(OpRegister, start, outcomeFor(err)) }()

	label, err := NormalizeLabel(raw)
	if err != nil {
		return false, err
	}
	ctx = observability.WithLabel(ctx, label)

	dir := m.layout.SnapshotDir(label)
	sidebarPath := m.layout.SidebarPath(label)
	for _, p := range []string{dir, sidebarPath} {
		ok, err := exists(m.fs, p)
		if err != nil {
			return false, errors.WrapError(err, errors.CategoryFileSystem, "stat snapshot").Build()
		}
		if !ok {
			return false, snapshotNotFound(label, p)
		}
	}

	added, err = m.store.Append(ctx, label)
	if err != nil {
		return false, manifestWriteFailure(label, dir, err)
	}
	if !added {
		observability.InfoContext(ctx, "Label already registered")
		return false, nil
	}

	stats, err := countTree(m.fs, dir)
	if err != nil {
		observability.WarnContext(ctx, "Could not count registered pages", logfields.Path(dir), logfields.Error(err))
	}
	observability.InfoContext(ctx, "Snapshot registered", logfields.Path(dir))
	m.recordEvent(ctx, eventstore.Event{
		Label:  label,
		Action: eventstore.ActionRegister,
		Pages:  stats.Files,
	})
	return true, nil
}

// RemoveResult reports which parts of a snapshot Remove deleted.
type RemoveResult struct {
	Label         string `json:"label"`
	ManifestEntry bool   `json:"manifest_entry"`
	SnapshotDir   bool   `json:"snapshot_dir"`
	SidebarFile   bool   `json:"sidebar_file"`
}

// Remove deletes a snapshot: the manifest entry first, so no listed label is
// ever left without content, then the directory and the sidebar file.
// Removing a label with no trace at all is ErrSnapshotNotFound.
func (m *Manager) Remove(ctx context.Context, raw string) (res *RemoveResult, err error) {
	start := m.now()
	ctx = opContext(ctx, OpRemove, "")
	defer func() { m.observe(OpRemove, start, outcomeFor(err)) }()

	label, err := NormalizeLabel(raw)
	if err != nil {
		return nil, err
	}
	ctx = observability.WithLabel(ctx, label)

	dir := m.layout.SnapshotDir(label)
	sidebarPath := m.layout.SidebarPath(label)
	hasDir, err := exists(m.fs, dir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "stat snapshot").Build()
	}
	hasSidebar, err := exists(m.fs, sidebarPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "stat snapshot sidebar").Build()
	}

	res = &RemoveResult{Label: label}
	res.ManifestEntry, err = m.store.Remove(ctx, label)
	if err != nil {
		return nil, err
	}
	if !res.ManifestEntry && !hasDir && !hasSidebar {
		return nil, snapshotNotFound(label, dir)
	}

	if hasDir {
		if err := m.fs.RemoveAll(dir); err != nil {
			return res, errors.WrapError(err, errors.CategoryFileSystem, "remove snapshot directory").
				WithContext("path", dir).
				Build()
		}
		res.SnapshotDir = true
	}
	if hasSidebar {
		if err := m.fs.Remove(sidebarPath); err != nil {
			return res, errors.WrapError(err, errors.CategoryFileSystem, "remove snapshot sidebar").
				WithContext("path", sidebarPath).
				Build()
		}
		res.SidebarFile = true
	}

	observability.InfoContext(ctx, "Snapshot removed",
		logfields.Path(dir),
		logfields.File(sidebarPath))
	m.recordEvent(ctx, eventstore.Event{
		Label:   label,
		Action:  eventstore.ActionRemove,
		Payload: eventstore.Payload{Note: fmt.Sprintf("manifest=%t dir=%t sidebar=%t", res.ManifestEntry, res.SnapshotDir, res.SidebarFile)},
	})
	return res, nil
}

// VersionInfo describes one manifest entry.
type VersionInfo struct {
	Label       string `json:"label"`
	Position    int    `json:"position"`
	SnapshotDir string `json:"snapshot_dir"`
	HasSnapshot bool   `json:"has_snapshot"`
	HasSidebar  bool   `json:"has_sidebar"`
	Files       int    `json:"files"`
	Bytes       int64  `json:"bytes"`
	Semver      bool   `json:"semver"`
}

// List returns the manifest in order with on-disk presence details.
func (m *Manager) List(ctx context.Context) ([]VersionInfo, error) {
	labels, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]VersionInfo, 0, len(labels))
	for i, label := range labels {
		info := VersionInfo{
			Label:       label,
			Position:    i + 1,
			SnapshotDir: m.layout.SnapshotDir(label),
			Semver:      IsSemverLike(label),
		}
		info.HasSnapshot, _ = exists(m.fs, info.SnapshotDir)
		info.HasSidebar, _ = exists(m.fs, m.layout.SidebarPath(label))
		if info.HasSnapshot {
			if stats, err := countTree(m.fs, info.SnapshotDir); err == nil {
				info.Files = stats.Files
				info.Bytes = stats.Bytes
			}
		}
		out = append(out, info)
	}
	return out, nil
}

// Snapshots returns the labels of every version-<label> directory on disk,
// registered or not, sorted.
func (m *Manager) Snapshots() ([]string, error) {
	entries, err := readDirNames(m, m.layout.VersionedDocs)
	if err != nil {
		return nil, err
	}
	var labels []string
	for _, e := range entries {
		if !e.dir {
			continue
		}
		if label, ok := labelFromSnapshotDir(e.name); ok {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	return labels, nil
}

type dirEntry struct {
	name string
	dir  bool
}

func readDirNames(m *Manager, dir string) ([]dirEntry, error) {
	ok, err := exists(m.fs, dir)
	if err != nil || !ok {
		return nil, err
	}
	f, err := m.fs.Open(dir)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	infos, err := f.Readdir(-1)
	if err != nil {
		return nil, err
	}
	out := make([]dirEntry, 0, len(infos))
	for _, fi := range infos {
		out = append(out, dirEntry{name: fi.Name(), dir: fi.IsDir()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out, nil
}
