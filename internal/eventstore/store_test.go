package eventstore

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAssignsIDAndTimestamp(t *testing.T) {
	store := newTestStore(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	e, err := store.Append(t.Context(), Event{Label: "1.0.0", Action: ActionCut, Pages: 2})
	require.NoError(t, err)

	_, parseErr := uuid.Parse(e.ID)
	require.NoError(t, parseErr)
	assert.Equal(t, fixed, e.Timestamp)
}

func TestForLabelAndAll(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	for _, e := range []Event{
		{Label: "1.0.0", Action: ActionCut, Pages: 1, CommitSHA: "abc"},
		{Label: "2.0.0", Action: ActionCut, Pages: 3},
		{Label: "1.0.0", Action: ActionRemove},
	} {
		_, err := store.Append(ctx, e)
		require.NoError(t, err)
	}

	events, err := store.ForLabel(ctx, "1.0.0")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ActionCut, events[0].Action)
	assert.Equal(t, "abc", events[0].CommitSHA)
	assert.Equal(t, ActionRemove, events[1].Action)

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2.0.0", all[1].Label)

	none, err := store.ForLabel(ctx, "9.9.9")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLatestFingerprints(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	_, ok, err := store.LatestFingerprints(ctx, "1.0.0")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.Append(ctx, Event{Label: "1.0.0", Action: ActionCut,
		Payload: Payload{Fingerprints: map[string]string{"index.md": "old"}}})
	require.NoError(t, err)
	_, err = store.Append(ctx, Event{Label: "1.0.0", Action: ActionCut,
		Payload: Payload{Fingerprints: map[string]string{"index.md": "new"}, Bytes: 7}})
	require.NoError(t, err)
	_, err = store.Append(ctx, Event{Label: "1.0.0", Action: ActionRegister})
	require.NoError(t, err)

	fps, ok, err := store.LatestFingerprints(ctx, "1.0.0")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, map[string]string{"index.md": "new"}, fps)
}

func TestDuplicateIDRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	e, err := store.Append(ctx, Event{Label: "1.0.0", Action: ActionCut})
	require.NoError(t, err)
	_, err = store.Append(ctx, Event{ID: e.ID, Label: "1.0.0", Action: ActionCut})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAppendFailed))
}

func TestPersistentStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	_, err = store.Append(t.Context(), Event{Label: "1.0.0", Action: ActionCut})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	events, err := reopened.All(t.Context())
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestNoopStore(t *testing.T) {
	var s Store = NoopStore{}
	e, err := s.Append(t.Context(), Event{Label: "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", e.Label)
	_, ok, err := s.LatestFingerprints(t.Context(), "x")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, s.Close())
}
