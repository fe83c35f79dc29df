package eventstore

import "context"

// Store persists the audit history of snapshot operations.
type Store interface {
	// Append records e. Empty IDs and zero timestamps are filled in; the
	// stored event is returned.
	Append(ctx context.Context, e Event) (Event, error)

	// ForLabel returns the events of a label, oldest first.
	ForLabel(ctx context.Context, label string) ([]Event, error)

	// All returns every event, oldest first.
	All(ctx context.Context) ([]Event, error)

	// LatestFingerprints returns the page fingerprints of the most recent
	// cut of label. ok is false when the label was never cut.
	LatestFingerprints(ctx context.Context, label string) (fps map[string]string, ok bool, err error)

	// Close releases resources.
	Close() error
}

// NoopStore is used when history is disabled.
type NoopStore struct{}

func (NoopStore) Append(_ context.Context, e Event) (Event, error) { return e, nil }
func (NoopStore) ForLabel(context.Context, string) ([]Event, error) { return nil, nil }
func (NoopStore) All(context.Context) ([]Event, error)              { return nil, nil }
func (NoopStore) LatestFingerprints(context.Context, string) (map[string]string, bool, error) {
	return nil, false, nil
}
func (NoopStore) Close() error { return nil }
