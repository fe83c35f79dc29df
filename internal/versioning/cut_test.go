package versioning

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsnap/internal/eventstore"
	ferrors "git.home.luguber.info/inful/docsnap/internal/foundation/errors"
	"git.home.luguber.info/inful/docsnap/internal/manifest"
)

func TestCutVersion_HelloScenario(t *testing.T) {
	ctx := context.Background()
	fsys, m := newProject(t, map[string]string{"index.md": "Hello"})

	res, err := m.CutVersion(ctx, "1.0.0", CutOptions{})
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", res.Label)
	assert.Equal(t, "Hello", readFile(t, fsys, "/site/versioned_docs/version-1.0.0/index.md"))
	assert.Equal(t, `{"docs": ["index"]}`, readFile(t, fsys, "/site/versioned_sidebars/version-1.0.0-sidebars.json"))
	assert.Equal(t, []string{"1.0.0"}, manifestOf(t, m))
	assert.Equal(t, "[\n  \"1.0.0\"\n]\n", readFile(t, fsys, "/site/versions.json"))

	before := treeSnapshot(t, fsys, "/site/versioned_docs")
	_, err = m.CutVersion(ctx, "1.0.0", CutOptions{})
	require.Error(t, err)
	assert.True(t, IsDuplicateLabel(err))
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryAlreadyExists))
	assert.Equal(t, []string{"1.0.0"}, manifestOf(t, m))
	assert.Equal(t, before, treeSnapshot(t, fsys, "/site/versioned_docs"))
}

func TestCutVersion_OrderingStability(t *testing.T) {
	ctx := context.Background()
	_, m := newProject(t, map[string]string{"index.md": "Hello"})

	for _, l := range []string{"1.0.0", "1.1.0", "1.1.1"} {
		_, err := m.CutVersion(ctx, l, CutOptions{})
		require.NoError(t, err)
	}
	for range 3 {
		assert.Equal(t, []string{"1.0.0", "1.1.0", "1.1.1"}, manifestOf(t, m))
	}
}

func TestCutVersion_NormalizesLabel(t *testing.T) {
	fsys, m := newProject(t, map[string]string{"index.md": "Hello"})

	res, err := m.CutVersion(context.Background(), "  2.0.0 ", CutOptions{})
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", res.Label)
	ok, err := afero.DirExists(fsys, "/site/versioned_docs/version-2.0.0")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = m.CutVersion(context.Background(), "2.0.0", CutOptions{})
	assert.True(t, IsDuplicateLabel(err))
}

func TestCutVersion_InvalidLabelTouchesNothing(t *testing.T) {
	fsys, m := newProject(t, map[string]string{"index.md": "Hello"})

	_, err := m.CutVersion(context.Background(), "../escape", CutOptions{})
	require.ErrorIs(t, err, ErrInvalidLabel)

	ok, _ := afero.Exists(fsys, "/site/versioned_docs")
	assert.False(t, ok)
	assert.Empty(t, manifestOf(t, m))
}

func TestCutVersion_NonSemverWarns(t *testing.T) {
	_, m := newProject(t, map[string]string{"index.md": "Hello"})
	res, err := m.CutVersion(context.Background(), "next", CutOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "not a semantic version")

	_, quiet := newProject(t, map[string]string{"index.md": "Hello"}, WithQuietLabelWarnings(true))
	res, err = quiet.CutVersion(context.Background(), "next", CutOptions{})
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
}

func TestCutVersion_CopyFailureLeavesNoTrace(t *testing.T) {
	base := afero.NewMemMapFs()
	faulty := &faultyFs{Fs: base, failCreate: func(name string) bool {
		return strings.HasSuffix(name, "guide.md") && strings.Contains(name, "versioned_docs")
	}}
	m := newProjectOn(t, faulty, map[string]string{"index.md": "Hello", "sub/guide.md": "Guide"})

	_, err := m.CutVersion(context.Background(), "1.0.0", CutOptions{})
	require.Error(t, err)
	assert.True(t, IsCopyFailure(err))
	assert.True(t, errors.Is(err, errInjected))

	assert.Empty(t, treeSnapshot(t, base, "/site/versioned_docs"), "staging and partial output are removed")
	assert.Empty(t, manifestOf(t, m))

	faulty.failCreate = nil
	_, err = m.CutVersion(context.Background(), "1.0.0", CutOptions{})
	require.NoError(t, err, "a re-run succeeds once the I/O problem is gone")
	assert.Equal(t, []string{"1.0.0"}, manifestOf(t, m))
}

func TestCutVersion_SidebarCopyFailure(t *testing.T) {
	base := afero.NewMemMapFs()
	faulty := &faultyFs{Fs: base, failCreate: func(name string) bool {
		return strings.Contains(name, "versioned_sidebars")
	}}
	m := newProjectOn(t, faulty, map[string]string{"index.md": "Hello"})

	_, err := m.CutVersion(context.Background(), "1.0.0", CutOptions{})
	require.Error(t, err)
	assert.True(t, IsCopyFailure(err))

	ok, _ := afero.Exists(base, "/site/versioned_docs/version-1.0.0")
	assert.False(t, ok, "snapshot directory is rolled back")
	assert.Empty(t, treeSnapshot(t, base, "/site/versioned_sidebars"))
	assert.Empty(t, manifestOf(t, m))
}

func TestCutVersion_RenameFailure(t *testing.T) {
	base := afero.NewMemMapFs()
	faulty := &faultyFs{Fs: base, failRename: func(oldname, _ string) bool {
		return strings.Contains(oldname, stagingPrefix)
	}}
	m := newProjectOn(t, faulty, map[string]string{"index.md": "Hello"})

	_, err := m.CutVersion(context.Background(), "1.0.0", CutOptions{})
	assert.True(t, IsCopyFailure(err))
	assert.Empty(t, treeSnapshot(t, base, "/site/versioned_docs"))
	assert.Empty(t, manifestOf(t, m))
}

func TestCutVersion_MissingSources(t *testing.T) {
	fsys := afero.NewMemMapFs()
	m := NewManager(fsys, testLayout(), manifest.NewFileStore(fsys, testLayout().Versions))

	_, err := m.CutVersion(context.Background(), "1.0.0", CutOptions{})
	assert.True(t, IsCopyFailure(err), "missing live docs")

	require.NoError(t, afero.WriteFile(fsys, "/site/docs/index.md", []byte("Hello"), 0o644))
	_, err = m.CutVersion(context.Background(), "1.0.0", CutOptions{})
	assert.True(t, IsCopyFailure(err), "missing live sidebar")

	ok, _ := afero.Exists(fsys, "/site/versioned_docs")
	assert.False(t, ok)
}

func TestCutVersion_ManifestWriteFailureIsRepairable(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()
	store := &faultyStore{Store: manifest.NewFileStore(fsys, testLayout().Versions), failAppend: true}
	m := newProjectOn(t, fsys, map[string]string{"index.md": "Hello"})
	m.store = store

	_, err := m.CutVersion(ctx, "1.0.0", CutOptions{})
	require.Error(t, err)
	assert.True(t, IsManifestWriteFailure(err))
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryManifest))

	assert.Equal(t, "Hello", readFile(t, fsys, "/site/versioned_docs/version-1.0.0/index.md"), "content stays on disk")
	assert.Empty(t, manifestOf(t, m))

	_, err = m.CutVersion(ctx, "1.0.0", CutOptions{})
	assert.ErrorIs(t, err, ErrUnregisteredSnapshot, "a full re-run refuses to overwrite")

	store.failAppend = false
	added, err := m.Register(ctx, "1.0.0")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = m.Register(ctx, "1.0.0")
	require.NoError(t, err)
	assert.False(t, added, "register is idempotent")
	assert.Equal(t, []string{"1.0.0"}, manifestOf(t, m))
}

func TestCutVersion_UnregisteredSidebarBlocksCut(t *testing.T) {
	fsys, m := newProject(t, map[string]string{"index.md": "Hello"})
	require.NoError(t, afero.WriteFile(fsys, "/site/versioned_sidebars/version-1.0.0-sidebars.json", []byte("{}"), 0o644))

	_, err := m.CutVersion(context.Background(), "1.0.0", CutOptions{})
	require.ErrorIs(t, err, ErrUnregisteredSnapshot)
	ok, _ := afero.Exists(fsys, "/site/versioned_docs/version-1.0.0")
	assert.False(t, ok)
}

func TestCutVersion_LeftoverStagingIsReplaced(t *testing.T) {
	fsys, m := newProject(t, map[string]string{"index.md": "Hello"})
	require.NoError(t, afero.WriteFile(fsys, "/site/versioned_docs/.staging-version-1.0.0/stale.md", []byte("old"), 0o644))

	_, err := m.CutVersion(context.Background(), "1.0.0", CutOptions{})
	require.NoError(t, err)

	ok, _ := afero.Exists(fsys, "/site/versioned_docs/version-1.0.0/stale.md")
	assert.False(t, ok)
	ok, _ = afero.Exists(fsys, "/site/versioned_docs/.staging-version-1.0.0")
	assert.False(t, ok)
}

func TestCutVersion_DryRun(t *testing.T) {
	fsys, m := newProject(t, map[string]string{"index.md": "Hello", "api/auth.md": "Auth"})

	res, err := m.CutVersion(context.Background(), "1.0.0", CutOptions{DryRun: true})
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.Equal(t, 2, res.Stats.Files)
	assert.Equal(t, int64(9), res.Stats.Bytes)
	assert.Equal(t, []string{"1.0.0"}, res.Versions)

	ok, _ := afero.Exists(fsys, "/site/versioned_docs")
	assert.False(t, ok)
	assert.Empty(t, manifestOf(t, m))
}

func TestCutVersion_CanceledContext(t *testing.T) {
	fsys, m := newProject(t, map[string]string{"index.md": "Hello"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.CutVersion(ctx, "1.0.0", CutOptions{})
	require.ErrorIs(t, err, context.Canceled)
	ok, _ := afero.Exists(fsys, "/site/versioned_docs")
	assert.False(t, ok)
}

func TestCutVersion_SideChannels(t *testing.T) {
	ctx := context.Background()
	history, err := eventstore.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = history.Close() }()

	pub := &recordingPublisher{}
	var tagged []string
	_, m := newProject(t, map[string]string{"index.md": "# Hello\n", "api/auth.md": "# Auth\n"},
		WithHistory(history),
		WithPublisher(pub),
		WithCommitFunc(func() (string, error) { return "abc123", nil }),
		WithTagFunc(func(label string) (string, error) {
			tagged = append(tagged, label)
			return "docs-v" + label, nil
		}),
		WithLayoutFingerprint("layout-1"),
	)

	res, err := m.CutVersion(ctx, "1.0.0", CutOptions{Tag: true})
	require.NoError(t, err)
	assert.Equal(t, "abc123", res.Commit)
	assert.Equal(t, "docs-v1.0.0", res.Tag)
	assert.Equal(t, []string{"1.0.0"}, tagged)
	assert.Len(t, res.Pages, 2)

	events, err := history.ForLabel(ctx, "1.0.0")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, eventstore.ActionCut, events[0].Action)
	assert.Equal(t, "abc123", events[0].CommitSHA)
	assert.Equal(t, 2, events[0].Pages)
	assert.Equal(t, res.Pages, events[0].Payload.Fingerprints)
	assert.Equal(t, "docs-v1.0.0", events[0].Payload.Tag)
	assert.Equal(t, "layout-1", events[0].Payload.Layout)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "cut", pub.events[0].Action)
	assert.Equal(t, []string{"1.0.0"}, pub.events[0].Versions)
}

func TestCutVersion_SideChannelFailuresDoNotFailCut(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	_, m := newProject(t, map[string]string{"index.md": "Hello"},
		WithPublisher(pub),
		WithCommitFunc(func() (string, error) { return "", errors.New("not a repo") }),
		WithTagFunc(func(string) (string, error) { return "", errors.New("tag exists") }),
	)

	res, err := m.CutVersion(context.Background(), "1.0.0", CutOptions{Tag: true})
	require.NoError(t, err)
	assert.Empty(t, res.Tag)
	assert.Len(t, res.Warnings, 3)
	assert.Equal(t, []string{"1.0.0"}, manifestOf(t, m))
}

func TestCutVersion_TagWithoutTagger(t *testing.T) {
	_, m := newProject(t, map[string]string{"index.md": "Hello"})
	res, err := m.CutVersion(context.Background(), "1.0.0", CutOptions{Tag: true})
	require.NoError(t, err)
	assert.Contains(t, res.Warnings, "tag: tagging is not configured")
}

func TestCutVersion_PageCountExcludesSidebar(t *testing.T) {
	ctx := context.Background()
	pages := map[string]string{"index.md": "Hello", "api/auth.md": "Auth"}
	_, m := newProject(t, pages)

	dry, err := m.CutVersion(ctx, "1.0.0", CutOptions{DryRun: true})
	require.NoError(t, err)
	res, err := m.CutVersion(ctx, "1.0.0", CutOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Stats.Files)
	assert.Equal(t, dry.Stats, res.Stats)
	assert.Equal(t, int64(len(`{"docs": ["index"]}`)), res.SidebarBytes)

	list, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, res.Stats.Files, list[0].Files)
}

func TestCutVersion_BeforeCopy(t *testing.T) {
	ctx := context.Background()
	fsys, m := newProject(t, map[string]string{"index.md": "Hello"})

	res, err := m.CutVersion(ctx, "1.0.0", CutOptions{BeforeCopy: func(context.Context) error {
		return afero.WriteFile(fsys, "/site/docs/notes.md", []byte("Notes"), 0o644)
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Stats.Files)
	assert.Equal(t, "Notes", readFile(t, fsys, "/site/versioned_docs/version-1.0.0/notes.md"))

	t.Run("not run for a rejected label", func(t *testing.T) {
		called := false
		_, err := m.CutVersion(ctx, "1.0.0", CutOptions{BeforeCopy: func(context.Context) error {
			called = true
			return nil
		}})
		require.ErrorIs(t, err, ErrDuplicateLabel)
		assert.False(t, called)
	})

	t.Run("not run for a dry run", func(t *testing.T) {
		called := false
		_, err := m.CutVersion(ctx, "2.0.0", CutOptions{DryRun: true, BeforeCopy: func(context.Context) error {
			called = true
			return nil
		}})
		require.NoError(t, err)
		assert.False(t, called)
	})

	t.Run("failure aborts the cut", func(t *testing.T) {
		_, err := m.CutVersion(ctx, "2.0.0", CutOptions{BeforeCopy: func(context.Context) error {
			return errInjected
		}})
		require.ErrorIs(t, err, errInjected)
		ok, _ := afero.Exists(fsys, "/site/versioned_docs/version-2.0.0")
		assert.False(t, ok)
		assert.Equal(t, []string{"1.0.0"}, manifestOf(t, m))
	})
}

func TestCutVersion_ManifestReloadFailureIsAWarning(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()
	m := newProjectOn(t, fsys, map[string]string{"index.md": "Hello"})
	m.store = &faultyStore{Store: manifest.NewFileStore(fsys, testLayout().Versions), failLoadAfterAppend: true}

	res, err := m.CutVersion(ctx, "1.0.0", CutOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0.0"}, res.Versions)
	assert.True(t, hasWarning(res.Warnings, "manifest: "), "warnings: %v", res.Warnings)
	assert.Equal(t, "[\n  \"1.0.0\"\n]\n", readFile(t, fsys, "/site/versions.json"))
}

func hasWarning(warnings []string, prefix string) bool {
	for _, w := range warnings {
		if strings.HasPrefix(w, prefix) {
			return true
		}
	}
	return false
}
