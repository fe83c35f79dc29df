package versioning

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsnap/internal/eventstore"
	"git.home.luguber.info/inful/docsnap/internal/manifest"
)

func kinds(r *VerifyReport) []FindingKind {
	out := make([]FindingKind, 0, len(r.Findings))
	for _, f := range r.Findings {
		out = append(out, f.Kind)
	}
	return out
}

func TestVerify_Clean(t *testing.T) {
	ctx := context.Background()
	_, m := newProject(t, map[string]string{"index.md": "Hello"})
	_, err := m.CutVersion(ctx, "1.0.0", CutOptions{})
	require.NoError(t, err)

	report, err := m.Verify(ctx)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.NoError(t, report.Err())
	assert.Equal(t, []string{"1.0.0"}, report.Versions)
}

func TestVerify_MissingAndOrphaned(t *testing.T) {
	ctx := context.Background()
	fsys, m := newProject(t, map[string]string{"index.md": "Hello"})
	for _, l := range []string{"1.0.0", "1.1.0"} {
		_, err := m.CutVersion(ctx, l, CutOptions{})
		require.NoError(t, err)
	}

	require.NoError(t, fsys.RemoveAll("/site/versioned_docs/version-1.0.0"))
	require.NoError(t, fsys.Remove("/site/versioned_sidebars/version-1.1.0-sidebars.json"))
	require.NoError(t, afero.WriteFile(fsys, "/site/versioned_docs/version-0.1.0/index.md", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/site/versioned_sidebars/version-0.2.0-sidebars.json", []byte("{}"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/site/versioned_docs/.staging-version-2.0.0/index.md", []byte("x"), 0o644))

	report, err := m.Verify(ctx)
	require.NoError(t, err)
	assert.Equal(t, []FindingKind{
		FindingMissingSnapshot,
		FindingMissingSidebar,
		FindingStaleStaging,
		FindingOrphanSnapshot,
		FindingOrphanSidebar,
	}, kinds(report))
	assert.Equal(t, "1.0.0", report.Findings[0].Label)
	assert.Equal(t, "1.1.0", report.Findings[1].Label)
	assert.Equal(t, "2.0.0", report.Findings[2].Label)
	assert.Equal(t, "0.1.0", report.Findings[3].Label)
	assert.Equal(t, "0.2.0", report.Findings[4].Label)

	err = report.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "5 errors occurred")
}

func TestVerify_DuplicateLabels(t *testing.T) {
	fsys := afero.NewMemMapFs()
	m := newProjectOn(t, fsys, map[string]string{"index.md": "Hello"})
	_, err := m.CutVersion(context.Background(), "1.0.0", CutOptions{})
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fsys, "/site/versions.json", []byte(`["1.0.0", "1.0.0"]`), 0o644))

	report, err := m.Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []FindingKind{FindingDuplicateLabel}, kinds(report))
}

func TestVerify_FingerprintDrift(t *testing.T) {
	ctx := context.Background()
	history, err := eventstore.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = history.Close() }()

	fsys, m := newProject(t, map[string]string{"index.md": "# Hello\n", "a.md": "# A\n", "b.md": "# B\n"}, WithHistory(history))
	_, err = m.CutVersion(ctx, "1.0.0", CutOptions{})
	require.NoError(t, err)

	// Live edits never count as drift.
	require.NoError(t, afero.WriteFile(fsys, "/site/docs/index.md", []byte("# Changed\n"), 0o644))
	report, err := m.Verify(ctx)
	require.NoError(t, err)
	assert.True(t, report.OK())

	dir := "/site/versioned_docs/version-1.0.0"
	require.NoError(t, afero.WriteFile(fsys, dir+"/index.md", []byte("# Edited\n"), 0o644))
	require.NoError(t, fsys.Remove(dir+"/a.md"))
	require.NoError(t, afero.WriteFile(fsys, dir+"/c.md", []byte("# C\n"), 0o644))

	report, err = m.Verify(ctx)
	require.NoError(t, err)
	require.Len(t, report.Findings, 3)
	details := map[string]string{}
	for _, f := range report.Findings {
		assert.Equal(t, FindingFingerprintDrift, f.Kind)
		details[f.Path] = f.Detail
	}
	assert.Equal(t, "page removed since cut", details[dir+"/a.md"])
	assert.Equal(t, "page added since cut", details[dir+"/c.md"])
	assert.Equal(t, "page content changed since cut", details[dir+"/index.md"])
}

func TestVerify_ManifestErrorsAreReturned(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/site/versions.json", []byte(`{"not": "an array"}`), 0o644))
	m := NewManager(fsys, testLayout(), manifest.NewFileStore(fsys, "/site/versions.json"))

	_, err := m.Verify(context.Background())
	require.Error(t, err)
}
