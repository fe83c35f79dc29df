package eventstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// NewSQLiteStore opens (creating if needed) the history database.
// Use ":memory:" for an in-memory database, or a file path for persistent storage.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, wrap(ErrOpenFailed, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, wrap(ErrOpenFailed, err)
	}
	// One connection keeps ":memory:" databases shared across queries.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, now: time.Now}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, wrap(ErrSchemaFailed, err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS version_events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		label TEXT NOT NULL,
		action TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		commit_sha TEXT NOT NULL DEFAULT '',
		pages INTEGER NOT NULL DEFAULT 0,
		payload TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_version_events_label ON version_events(label);
	CREATE INDEX IF NOT EXISTS idx_version_events_action ON version_events(action);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append adds a new event to the store.
func (s *SQLiteStore) Append(ctx context.Context, e Event) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now()
	}
	e.Timestamp = e.Timestamp.UTC()

	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return Event{}, wrap(ErrAppendFailed, fmt.Errorf("marshal payload: %w", err))
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO version_events (id, label, action, timestamp, commit_sha, pages, payload) VALUES (?, ?, ?, ?, ?, ?, ?)",
		e.ID, e.Label, string(e.Action), e.Timestamp.UnixNano(), e.CommitSHA, e.Pages, string(payload),
	)
	if err != nil {
		return Event{}, wrap(ErrAppendFailed, err)
	}
	return e, nil
}

// ForLabel retrieves the events of a label.
func (s *SQLiteStore) ForLabel(ctx context.Context, label string) ([]Event, error) {
	return s.query(ctx, "WHERE label = ? ORDER BY seq", label)
}

// All retrieves every event.
func (s *SQLiteStore) All(ctx context.Context) ([]Event, error) {
	return s.query(ctx, "ORDER BY seq")
}

// LatestFingerprints returns the fingerprints recorded by the latest cut.
func (s *SQLiteStore) LatestFingerprints(ctx context.Context, label string) (map[string]string, bool, error) {
	events, err := s.query(ctx, "WHERE label = ? AND action = ? ORDER BY seq DESC LIMIT 1", label, string(ActionCut))
	if err != nil {
		return nil, false, err
	}
	if len(events) == 0 {
		return nil, false, nil
	}
	fps := events[0].Payload.Fingerprints
	if fps == nil {
		fps = map[string]string{}
	}
	return fps, true, nil
}

func (s *SQLiteStore) query(ctx context.Context, clause string, args ...any) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, label, action, timestamp, commit_sha, pages, payload FROM version_events "+clause,
		args...,
	)
	if err != nil {
		return nil, wrap(ErrQueryFailed, err)
	}
	defer func() { _ = rows.Close() }()

	var events []Event
	for rows.Next() {
		var (
			e       Event
			action  string
			ts      int64
			payload string
		)
		if err := rows.Scan(&e.ID, &e.Label, &action, &ts, &e.CommitSHA, &e.Pages, &payload); err != nil {
			return nil, wrap(ErrQueryFailed, fmt.Errorf("scan event: %w", err))
		}
		e.Action = Action(action)
		e.Timestamp = time.Unix(0, ts).UTC()
		if err := json.Unmarshal([]byte(payload), &e.Payload); err != nil {
			return nil, wrap(ErrQueryFailed, fmt.Errorf("unmarshal payload of %s: %w", e.ID, err))
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(ErrQueryFailed, err)
	}
	return events, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
