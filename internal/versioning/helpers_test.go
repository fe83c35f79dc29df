package versioning

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsnap/internal/manifest"
	"git.home.luguber.info/inful/docsnap/internal/notify"
)

var errInjected = errors.New("injected I/O failure")

func testLayout() Layout {
	return Layout{
		Docs:              "/site/docs",
		Sidebar:           "/site/sidebars.json",
		VersionedDocs:     "/site/versioned_docs",
		VersionedSidebars: "/site/versioned_sidebars",
		Versions:          "/site/versions.json",
	}
}

// newProject seeds a live tree with the given pages (relative to docs/) and
// a sidebar, and returns a manager backed by a FileStore on the same fs.
func newProject(t *testing.T, pages map[string]string, opts ...ManagerOption) (afero.Fs, *Manager) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	return fsys, newProjectOn(t, fsys, pages, opts...)
}

func newProjectOn(t *testing.T, fsys afero.Fs, pages map[string]string, opts ...ManagerOption) *Manager {
	t.Helper()
	layout := testLayout()
	require.NoError(t, fsys.MkdirAll(layout.Docs, 0o755))
	for rel, content := range pages {
		require.NoError(t, afero.WriteFile(fsys, layout.Docs+"/"+rel, []byte(content), 0o644))
	}
	require.NoError(t, afero.WriteFile(fsys, layout.Sidebar, []byte(`{"docs": ["index"]}`), 0o644))
	return NewManager(fsys, layout, manifest.NewFileStore(fsys, layout.Versions), opts...)
}

func readFile(t *testing.T, fsys afero.Fs, p string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, p)
	require.NoError(t, err)
	return string(data)
}

func manifestOf(t *testing.T, m *Manager) []string {
	t.Helper()
	labels, err := m.Manifest(context.Background())
	require.NoError(t, err)
	return labels
}

// treeSnapshot maps every file under root to its content.
func treeSnapshot(t *testing.T, fsys afero.Fs, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	ok, err := afero.Exists(fsys, root)
	require.NoError(t, err)
	if !ok {
		return out
	}
	require.NoError(t, afero.Walk(fsys, root, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			data, err := afero.ReadFile(fsys, p)
			if err != nil {
				return err
			}
			out[p] = string(data)
		}
		return nil
	}))
	return out
}

// faultyFs injects failures into selected write operations.
type faultyFs struct {
	afero.Fs
	failCreate func(name string) bool
	failRename func(oldname, newname string) bool
	failOpen   func(name string) bool
}

func (f *faultyFs) Open(name string) (afero.File, error) {
	if f.failOpen != nil && f.failOpen(name) {
		return nil, &os.PathError{Op: "open", Path: name, Err: errInjected}
	}
	return f.Fs.Open(name)
}

func (f *faultyFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&os.O_CREATE != 0 && f.failCreate != nil && f.failCreate(name) {
		return nil, &os.PathError{Op: "open", Path: name, Err: errInjected}
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func (f *faultyFs) Rename(oldname, newname string) error {
	if f.failRename != nil && f.failRename(oldname, newname) {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: errInjected}
	}
	return f.Fs.Rename(oldname, newname)
}

// faultyStore fails Append while failAppend is set, and Load once
// failLoadAfterAppend is set and an append has gone through.
type faultyStore struct {
	manifest.Store
	failAppend          bool
	failLoadAfterAppend bool
	appended            bool
}

func (s *faultyStore) Load(ctx context.Context) ([]string, error) {
	if s.failLoadAfterAppend && s.appended {
		return nil, errInjected
	}
	return s.Store.Load(ctx)
}

func (s *faultyStore) Append(ctx context.Context, label string) (bool, error) {
	if s.failAppend {
		return false, errInjected
	}
	added, err := s.Store.Append(ctx, label)
	if err == nil {
		s.appended = true
	}
	return added, err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.VersionEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e notify.VersionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }
