package versioning

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/docsnap/internal/docs"
	"git.home.luguber.info/inful/docsnap/internal/eventstore"
	"git.home.luguber.info/inful/docsnap/internal/foundation/errors"
	"git.home.luguber.info/inful/docsnap/internal/logfields"
	"git.home.luguber.info/inful/docsnap/internal/manifest"
	"git.home.luguber.info/inful/docsnap/internal/metrics"
	"git.home.luguber.info/inful/docsnap/internal/observability"
)

// CutOptions tunes CutVersion.
type CutOptions struct {
	// DryRun validates and reports what would be copied without writing.
	DryRun bool
	// Tag creates a release tag after a successful cut.
	Tag bool
	// BeforeCopy runs once every check has passed and before the live tree
	// is copied. An error aborts the cut with nothing written.
	BeforeCopy func(ctx context.Context) error
}

// CutResult describes a completed (or simulated) cut. Stats counts pages
// only, so a dry run and the real cut report the same numbers.
type CutResult struct {
	Label        string            `json:"label"`
	SnapshotDir  string            `json:"snapshot_dir"`
	SidebarPath  string            `json:"sidebar_path"`
	Stats        CopyStats         `json:"stats"`
	SidebarBytes int64             `json:"sidebar_bytes,omitempty"`
	Commit       string            `json:"commit,omitempty"`
	Tag          string            `json:"tag,omitempty"`
	DryRun       bool              `json:"dry_run"`
	Versions     []string          `json:"versions"`
	Warnings     []string          `json:"warnings,omitempty"`
	Pages        map[string]string `json:"-"`
}

// CutVersion freezes the live tree as label.
//
// The label is checked against the manifest before anything is written
// (ErrDuplicateLabel). Pages are copied into a hidden staging directory and
// renamed into place, then the sidebar is copied; any failure removes the
// partial output and leaves the manifest untouched (ErrCopyFailure). Finally
// the label is appended to the manifest; if that fails the snapshot stays on
// disk and Register repairs it (ErrManifestWriteFailure).
//
// History, metrics, notification and tagging run afterwards and never fail
// the cut; their problems are returned as warnings.
func (m *Manager) CutVersion(ctx context.Context, raw string, opts CutOptions) (result *CutResult, err error) {
	start := m.now()
	ctx = opContext(ctx, OpCut, "")
	defer func() {
		outcome := outcomeFor(err)
		if err == nil && opts.DryRun {
			outcome = metrics.OutcomeDryRun
		}
		m.observe(OpCut, start, outcome)
	}()

	label, err := NormalizeLabel(raw)
	if err != nil {
		return nil, err
	}
	ctx = observability.WithLabel(ctx, label)

	res := &CutResult{
		Label:       label,
		SnapshotDir: m.layout.SnapshotDir(label),
		SidebarPath: m.layout.SidebarPath(label),
		DryRun:      opts.DryRun,
	}
	if !IsSemverLike(label) && !m.quiet {
		observability.WarnContext(ctx, "Label is not a semantic version; the version selector orders by creation time only")
		res.Warnings = append(res.Warnings, fmt.Sprintf("label %q is not a semantic version", label))
	}

	labels, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if manifest.Contains(labels, label) {
		return nil, duplicateLabel(label)
	}

	if err := m.checkSources(label); err != nil {
		return nil, err
	}
	if err := m.checkUnregistered(label, res); err != nil {
		return nil, err
	}

	if opts.DryRun {
		stats, err := countTree(m.fs, m.layout.Docs)
		if err != nil {
			return nil, copyFailure(label, err)
		}
		res.Stats = stats
		res.Versions = append(append([]string{}, labels...), label)
		observability.InfoContext(ctx, "Dry run: snapshot not written",
			logfields.Pages(stats.Files), logfields.Bytes(stats.Bytes), logfields.Dest(res.SnapshotDir))
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.BeforeCopy != nil {
		if err := opts.BeforeCopy(ctx); err != nil {
			return nil, err
		}
	}

	stats, err := m.copySnapshot(ctx, label, res)
	if err != nil {
		return nil, err
	}
	res.Stats = stats

	if _, err := m.store.Append(ctx, label); err != nil {
		observability.ErrorContext(ctx, "Snapshot copied but manifest append failed",
			logfields.Path(res.SnapshotDir), logfields.Error(err))
		return nil, manifestWriteFailure(label, res.SnapshotDir, err)
	}

	if res.Versions, err = m.store.Load(ctx); err != nil {
		observability.WarnContext(ctx, "Could not reload manifest after append", logfields.Error(err))
		res.Warnings = append(res.Warnings, "manifest: "+err.Error())
		res.Versions = append(append([]string{}, labels...), label)
	}
	observability.InfoContext(ctx, "Snapshot created",
		logfields.Pages(stats.Files), logfields.Bytes(stats.Bytes), logfields.Dest(res.SnapshotDir))

	m.afterCut(ctx, res, opts)
	return res, nil
}

func (m *Manager) checkSources(label string) error {
	info, err := m.fs.Stat(m.layout.Docs)
	if err != nil {
		return copyFailure(label, fmt.Errorf("live docs: %w", err))
	}
	if !info.IsDir() {
		return copyFailure(label, fmt.Errorf("live docs %s is not a directory", m.layout.Docs))
	}
	info, err = m.fs.Stat(m.layout.Sidebar)
	if err != nil {
		return copyFailure(label, fmt.Errorf("live sidebar: %w", err))
	}
	if info.IsDir() {
		return copyFailure(label, fmt.Errorf("live sidebar %s is a directory", m.layout.Sidebar))
	}
	return nil
}

func (m *Manager) checkUnregistered(label string, res *CutResult) error {
	for _, p := range []string{res.SnapshotDir, res.SidebarPath} {
		ok, err := exists(m.fs, p)
		if err != nil {
			return copyFailure(label, err)
		}
		if ok {
			return unregisteredSnapshot(label, p)
		}
	}
	return nil
}

// copySnapshot performs the two copy steps, cleaning up on failure.
func (m *Manager) copySnapshot(ctx context.Context, label string, res *CutResult) (CopyStats, error) {
	staging := m.layout.stagingDir(label)
	cleanup := func() {
		_ = m.fs.RemoveAll(staging)
		_ = m.fs.RemoveAll(res.SnapshotDir)
	}

	if err := m.fs.MkdirAll(m.layout.VersionedDocs, 0o755); err != nil {
		return CopyStats{}, copyFailure(label, err)
	}
	// A staging directory can only be left over from an interrupted cut.
	if err := m.fs.RemoveAll(staging); err != nil {
		return CopyStats{}, copyFailure(label, err)
	}

	observability.DebugContext(ctx, "Copying live docs",
		logfields.Source(m.layout.Docs), logfields.Dest(staging))
	stats, err := CopyTree(m.fs, m.layout.Docs, staging)
	if err != nil {
		cleanup()
		return CopyStats{}, copyFailure(label, err)
	}
	if err := m.fs.Rename(staging, res.SnapshotDir); err != nil {
		cleanup()
		return CopyStats{}, copyFailure(label, fmt.Errorf("move snapshot into place: %w", err))
	}

	n, err := copyFileAtomic(m.fs, m.layout.Sidebar, res.SidebarPath)
	if err != nil {
		cleanup()
		return CopyStats{}, copyFailure(label, fmt.Errorf("copy sidebar: %w", err))
	}
	res.SidebarBytes = n
	return stats, nil
}

func (m *Manager) afterCut(ctx context.Context, res *CutResult, opts CutOptions) {
	m.recorder.AddPagesCopied(res.Stats.Files)
	m.recorder.AddBytesCopied(res.Stats.Bytes)

	commit, err := m.commit()
	if err != nil {
		observability.WarnContext(ctx, "Could not resolve commit", logfields.Error(err))
		res.Warnings = append(res.Warnings, "commit: "+err.Error())
	}
	res.Commit = commit

	pages, err := docs.Discover(m.fs, res.SnapshotDir)
	if err != nil {
		observability.WarnContext(ctx, "Could not fingerprint snapshot pages", logfields.Error(err))
		res.Warnings = append(res.Warnings, "fingerprints: "+err.Error())
	}
	res.Pages = docs.Fingerprints(pages)

	if opts.Tag {
		if m.tag == nil {
			res.Warnings = append(res.Warnings, "tag: tagging is not configured")
		} else if name, err := m.tag(res.Label); err != nil {
			observability.WarnContext(ctx, "Failed to create release tag", logfields.Error(err))
			res.Warnings = append(res.Warnings, "tag: "+err.Error())
		} else {
			res.Tag = name
			observability.InfoContext(ctx, "Release tag created", logfields.Tag(name), logfields.Commit(commit))
		}
	}

	res.Warnings = append(res.Warnings, m.recordEvent(ctx, eventstore.Event{
		Label:     res.Label,
		Action:    eventstore.ActionCut,
		CommitSHA: commit,
		Pages:     len(pages),
		Payload: eventstore.Payload{
			Fingerprints: res.Pages,
			Bytes:        res.Stats.Bytes,
			Tag:          res.Tag,
		},
	})...)

	if len(res.Warnings) > 0 {
		observability.DebugContext(ctx, "Cut finished with warnings", slog.Int("warnings", len(res.Warnings)))
	}
}

func isRejection(err error) bool {
	ce, ok := errors.AsClassified(err)
	if !ok {
		return false
	}
	switch ce.Category() {
	case errors.CategoryValidation, errors.CategoryAlreadyExists, errors.CategoryNotFound:
		return true
	}
	return false
}
