package versioning

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"

	"git.home.luguber.info/inful/docsnap/internal/docs"
	"git.home.luguber.info/inful/docsnap/internal/logfields"
	"git.home.luguber.info/inful/docsnap/internal/manifest"
	"git.home.luguber.info/inful/docsnap/internal/metrics"
	"git.home.luguber.info/inful/docsnap/internal/observability"
)

// FindingKind classifies a Verify finding.
type FindingKind string

const (
	FindingMissingSnapshot  FindingKind = "missing_snapshot"
	FindingMissingSidebar   FindingKind = "missing_sidebar"
	FindingDuplicateLabel   FindingKind = "duplicate_label"
	FindingOrphanSnapshot   FindingKind = "orphan_snapshot"
	FindingOrphanSidebar    FindingKind = "orphan_sidebar"
	FindingFingerprintDrift FindingKind = "fingerprint_drift"
	FindingStaleStaging     FindingKind = "stale_staging"
)

// Finding is one inconsistency between the manifest, the disk and history.
type Finding struct {
	Kind   FindingKind `json:"kind"`
	Label  string      `json:"label"`
	Path   string      `json:"path,omitempty"`
	Detail string      `json:"detail"`
}

func (f Finding) Error() string {
	if f.Path != "" {
		return fmt.Sprintf("%s: %s (%s): %s", f.Kind, f.Label, f.Path, f.Detail)
	}
	return fmt.Sprintf("%s: %s: %s", f.Kind, f.Label, f.Detail)
}

// VerifyReport collects Verify findings.
type VerifyReport struct {
	Versions []string  `json:"versions"`
	Findings []Finding `json:"findings"`
}

// OK reports whether no findings were made.
func (r *VerifyReport) OK() bool { return len(r.Findings) == 0 }

// Err aggregates the findings into one error, or nil.
func (r *VerifyReport) Err() error {
	var result *multierror.Error
	for _, f := range r.Findings {
		result = multierror.Append(result, f)
	}
	return result.ErrorOrNil()
}

// Verify checks that every manifest label has exactly one snapshot directory
// and sidebar, that no snapshot content is unregistered, and that snapshot
// pages still match the fingerprints recorded when they were cut.
// Findings are returned in the report; the error is for failures to inspect.
func (m *Manager) Verify(ctx context.Context) (report *VerifyReport, err error) {
	start := m.now()
	ctx = opContext(ctx, OpVerify, "")
	defer func() {
		outcome := outcomeFor(err)
		if err == nil && !report.OK() {
			outcome = metrics.OutcomeFailed
		}
		m.observe(OpVerify, start, outcome)
	}()

	labels, err := manifest.LoadRaw(ctx, m.store)
	if err != nil {
		return nil, err
	}
	m.recorder.SetVersions(len(labels))
	report = &VerifyReport{Versions: labels}
	add := func(f Finding) { report.Findings = append(report.Findings, f) }

	for _, dup := range manifest.Duplicates(labels) {
		add(Finding{Kind: FindingDuplicateLabel, Label: dup, Path: m.layout.Versions, Detail: "label listed more than once"})
	}

	registered := make(map[string]bool, len(labels))
	for _, label := range labels {
		if registered[label] {
			continue
		}
		registered[label] = true

		dir := m.layout.SnapshotDir(label)
		hasDir, err := exists(m.fs, dir)
		if err != nil {
			return nil, err
		}
		if !hasDir {
			add(Finding{Kind: FindingMissingSnapshot, Label: label, Path: dir, Detail: "manifest entry has no snapshot directory"})
		}
		sidebarPath := m.layout.SidebarPath(label)
		if ok, err := exists(m.fs, sidebarPath); err != nil {
			return nil, err
		} else if !ok {
			add(Finding{Kind: FindingMissingSidebar, Label: label, Path: sidebarPath, Detail: "manifest entry has no sidebar file"})
		}

		if hasDir {
			drift, err := m.checkFingerprints(ctx, label, dir)
			if err != nil {
				return nil, err
			}
			report.Findings = append(report.Findings, drift...)
		}
	}

	orphans, err := m.orphans(registered)
	if err != nil {
		return nil, err
	}
	report.Findings = append(report.Findings, orphans...)

	if report.OK() {
		observability.InfoContext(ctx, "Snapshots verified", slog.Int("versions", len(labels)))
	} else {
		observability.WarnContext(ctx, "Snapshot verification found problems", slog.Int("findings", len(report.Findings)))
	}
	return report, nil
}

func (m *Manager) checkFingerprints(ctx context.Context, label, dir string) ([]Finding, error) {
	recorded, ok, err := m.history.LatestFingerprints(ctx, label)
	if err != nil {
		// History is auxiliary; an unreadable database skips the check.
		observability.WarnContext(ctx, "Could not read history; skipping fingerprint check", logfields.Error(err))
		return nil, nil
	}
	if !ok || len(recorded) == 0 {
		return nil, nil
	}

	pages, err := docs.Discover(m.fs, dir)
	if err != nil {
		return []Finding{{Kind: FindingFingerprintDrift, Label: label, Path: dir, Detail: "pages unreadable: " + err.Error()}}, nil
	}
	current := docs.Fingerprints(pages)

	var findings []Finding
	paths := make([]string, 0, len(recorded)+len(current))
	seen := map[string]bool{}
	for p := range recorded {
		paths = append(paths, p)
		seen[p] = true
	}
	for p := range current {
		if !seen[p] {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	for _, p := range paths {
		want, hadBefore := recorded[p]
		got, hasNow := current[p]
		full := filepath.Join(dir, filepath.FromSlash(p))
		switch {
		case !hasNow:
			findings = append(findings, Finding{Kind: FindingFingerprintDrift, Label: label, Path: full, Detail: "page removed since cut"})
		case !hadBefore:
			findings = append(findings, Finding{Kind: FindingFingerprintDrift, Label: label, Path: full, Detail: "page added since cut"})
		case want != got:
			findings = append(findings, Finding{Kind: FindingFingerprintDrift, Label: label, Path: full, Detail: "page content changed since cut"})
		}
	}
	return findings, nil
}

func (m *Manager) orphans(registered map[string]bool) ([]Finding, error) {
	var findings []Finding

	entries, err := readDirNames(m, m.layout.VersionedDocs)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		full := filepath.Join(m.layout.VersionedDocs, e.name)
		if e.dir && strings.HasPrefix(e.name, stagingPrefix) {
			findings = append(findings, Finding{Kind: FindingStaleStaging, Label: strings.TrimPrefix(e.name, stagingPrefix+snapshotPrefix), Path: full, Detail: "leftover from an interrupted cut"})
			continue
		}
		if label, ok := labelFromSnapshotDir(e.name); ok && e.dir && !registered[label] {
			findings = append(findings, Finding{Kind: FindingOrphanSnapshot, Label: label, Path: full, Detail: "snapshot directory is not in the manifest"})
		}
	}

	entries, err = readDirNames(m, m.layout.VersionedSidebars)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.dir {
			continue
		}
		if label, ok := labelFromSidebarFile(e.name); ok && !registered[label] {
			findings = append(findings, Finding{Kind: FindingOrphanSidebar, Label: label, Path: filepath.Join(m.layout.VersionedSidebars, e.name), Detail: "sidebar file is not in the manifest"})
		}
	}
	return findings, nil
}
