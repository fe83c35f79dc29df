package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/docsnap/internal/config"
	"git.home.luguber.info/inful/docsnap/internal/eventstore"
	"git.home.luguber.info/inful/docsnap/internal/foundation/errors"
	"git.home.luguber.info/inful/docsnap/internal/logfields"
	"git.home.luguber.info/inful/docsnap/internal/manifest"
	"git.home.luguber.info/inful/docsnap/internal/metrics"
	"git.home.luguber.info/inful/docsnap/internal/notify"
	"git.home.luguber.info/inful/docsnap/internal/versioning"
)

// env holds a configured manager and the side channels it writes to.
type env struct {
	cfg       *config.Config
	fs        afero.Fs
	layout    versioning.Layout
	manager   *versioning.Manager
	history   eventstore.Store
	recorder  *metrics.PrometheusRecorder
	publisher notify.Publisher
}

// openEnv wires the manager for the loaded configuration. Side channels that
// cannot be opened are logged and replaced by no-ops; they never block a
// snapshot operation.
func (c *CLI) openEnv(_ context.Context) (*env, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	e := &env{
		cfg:       cfg,
		fs:        afero.NewOsFs(),
		layout:    versioning.NewLayout(cfg),
		history:   eventstore.NoopStore{},
		publisher: notify.NoopPublisher{},
	}

	if cfg.History.Enabled {
		store, err := eventstore.NewSQLiteStore(cfg.Resolve(cfg.History.Path))
		if err != nil {
			slog.Warn("Audit history unavailable", logfields.Error(err))
		} else {
			e.history = store
		}
	}

	if cfg.Notify.NATSURL != "" {
		pub, err := notify.NewNATSPublisher(cfg.Notify.NATSURL, cfg.Notify.Subject, cfg.Notify.Timeout)
		if err != nil {
			slog.Warn("Notifications unavailable", logfields.Error(err))
		} else {
			e.publisher = pub
		}
	}

	opts := []versioning.ManagerOption{
		versioning.WithHistory(e.history),
		versioning.WithPublisher(e.publisher),
		versioning.WithCommitFunc(versioning.GitCommitFunc(cfg.Root())),
		versioning.WithTagFunc(versioning.GitTagFunc(cfg.Root(), cfg.Snapshot.Tag)),
		versioning.WithQuietLabelWarnings(cfg.Snapshot.QuietLabelWarnings),
		versioning.WithLayoutFingerprint(cfg.Fingerprint()),
	}
	if cfg.Metrics.Textfile != "" {
		e.recorder = metrics.NewPrometheusRecorder(nil)
		opts = append(opts, versioning.WithRecorder(e.recorder))
	}

	store := manifest.NewFileStore(e.fs, e.layout.Versions)
	e.manager = versioning.NewManager(e.fs, e.layout, store, opts...)
	return e, nil
}

// Close flushes metrics and releases the side channels.
func (e *env) Close() {
	if e.recorder != nil {
		path := e.cfg.Resolve(e.cfg.Metrics.Textfile)
		if err := e.recorder.WriteTextfile(path); err != nil {
			slog.Warn("Failed to write metrics textfile", logfields.Path(path), logfields.Error(err))
		}
	}
	if err := e.publisher.Close(); err != nil {
		slog.Warn("Failed to close notification publisher", logfields.Error(err))
	}
	if err := e.history.Close(); err != nil {
		slog.Warn("Failed to close audit history", logfields.Error(err))
	}
}

// openHistory opens the audit history for reading; unlike openEnv a missing
// or disabled history is an error.
func openHistory(cfg *config.Config) (*eventstore.SQLiteStore, error) {
	if !cfg.History.Enabled {
		return nil, errors.ConfigError("audit history is disabled").
			WithContext("hint", "set history.enabled: true").
			Build()
	}
	return eventstore.NewSQLiteStore(cfg.Resolve(cfg.History.Path))
}
