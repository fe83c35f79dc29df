// Package versioning freezes the live documentation tree into labeled
// snapshots and keeps the version manifest consistent with them.
package versioning

import (
	"context"
	"time"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/docsnap/internal/eventstore"
	"git.home.luguber.info/inful/docsnap/internal/logfields"
	"git.home.luguber.info/inful/docsnap/internal/manifest"
	"git.home.luguber.info/inful/docsnap/internal/metrics"
	"git.home.luguber.info/inful/docsnap/internal/notify"
	"git.home.luguber.info/inful/docsnap/internal/observability"
)

// Operation names used for logging and metrics.
const (
	OpCut      = "cut"
	OpRegister = "register"
	OpRemove   = "remove"
	OpVerify   = "verify"
)

// CommitFunc returns the commit the live tree is at, or "" when unknown.
type CommitFunc func() (string, error)

// TagFunc creates a release tag for label and returns the tag name.
type TagFunc func(label string) (string, error)

// Manager performs snapshot operations against one project layout.
// It is not safe for concurrent mutation; one writer at a time is assumed.
type Manager struct {
	fs        afero.Fs
	layout    Layout
	store     manifest.Store
	history   eventstore.Store
	recorder  metrics.Recorder
	publisher notify.Publisher
	commit    CommitFunc
	tag       TagFunc
	quiet     bool
	layoutFP  string
	now       func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithHistory records operations in store.
func WithHistory(store eventstore.Store) ManagerOption {
	return func(m *Manager) { m.history = store }
}

// WithRecorder reports metrics to r.
func WithRecorder(r metrics.Recorder) ManagerOption {
	return func(m *Manager) { m.recorder = r }
}

// WithPublisher announces completed operations through p.
func WithPublisher(p notify.Publisher) ManagerOption {
	return func(m *Manager) { m.publisher = p }
}

// WithCommitFunc resolves the commit recorded with each cut.
func WithCommitFunc(fn CommitFunc) ManagerOption {
	return func(m *Manager) { m.commit = fn }
}

// WithTagFunc enables tagging for cuts requesting it.
func WithTagFunc(fn TagFunc) ManagerOption {
	return func(m *Manager) { m.tag = fn }
}

// WithQuietLabelWarnings suppresses the non-semver label warning.
func WithQuietLabelWarnings(quiet bool) ManagerOption {
	return func(m *Manager) { m.quiet = quiet }
}

// WithLayoutFingerprint stamps history events with the fingerprint of the
// configuration layout they were recorded under.
func WithLayoutFingerprint(fp string) ManagerOption {
	return func(m *Manager) { m.layoutFP = fp }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// NewManager returns a Manager for layout on fsys, with store holding the
// version manifest. Side channels default to no-ops.
func NewManager(fsys afero.Fs, layout Layout, store manifest.Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		fs:        fsys,
		layout:    layout,
		store:     store,
		history:   eventstore.NoopStore{},
		recorder:  metrics.NoopRecorder{},
		publisher: notify.NoopPublisher{},
		commit:    func() (string, error) { return "", nil },
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Layout returns the manager's layout.
func (m *Manager) Layout() Layout { return m.layout }

// Manifest returns the current manifest labels.
func (m *Manager) Manifest(ctx context.Context) ([]string, error) {
	return m.store.Load(ctx)
}

func (m *Manager) observe(op string, start time.Time, outcome metrics.OutcomeLabel) {
	m.recorder.ObserveOperationDuration(op, m.now().Sub(start))
	m.recorder.IncOperationOutcome(op, outcome)
}

func outcomeFor(err error) metrics.OutcomeLabel {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case IsDuplicateLabel(err), isRejection(err):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeFailed
	}
}

func opContext(ctx context.Context, op, label string) context.Context {
	ctx = observability.WithOperation(ctx, op)
	if label != "" {
		ctx = observability.WithLabel(ctx, label)
	}
	return ctx
}

// recordEvent appends to history and publishes, logging failures only.
func (m *Manager) recordEvent(ctx context.Context, e eventstore.Event) []string {
	var warnings []string

	if e.Payload.Layout == "" {
		e.Payload.Layout = m.layoutFP
	}
	if _, err := m.history.Append(ctx, e); err != nil {
		observability.WarnContext(ctx, "Failed to record history event", logfields.Error(err))
		warnings = append(warnings, "history: "+err.Error())
	}

	labels, err := m.store.Load(ctx)
	if err == nil {
		m.recorder.SetVersions(len(labels))
	}

	ev := notify.VersionEvent{
		Label:     e.Label,
		Action:    string(e.Action),
		Pages:     e.Pages,
		CommitSHA: e.CommitSHA,
		Versions:  labels,
		Timestamp: m.now().UTC(),
	}
	if err := m.publisher.Publish(ctx, ev); err != nil {
		observability.WarnContext(ctx, "Failed to publish version event", logfields.Error(err))
		warnings = append(warnings, "notify: "+err.Error())
	}
	return warnings
}
