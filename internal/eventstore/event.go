package eventstore

import "time"

// Action is the kind of change recorded for a label.
type Action string

const (
	ActionCut      Action = "cut"
	ActionRegister Action = "register"
	ActionRemove   Action = "remove"
)

// Event records one change to the set of snapshots.
type Event struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	CommitSHA string    `json:"commit_sha,omitempty"`
	Pages     int       `json:"pages"`
	Payload   Payload   `json:"payload"`
}

// Payload carries action-specific details.
type Payload struct {
	// Fingerprints maps page paths, relative to the snapshot directory, to
	// their content fingerprints at the time of the cut.
	Fingerprints map[string]string `json:"fingerprints,omitempty"`
	Bytes        int64             `json:"bytes,omitempty"`
	Tag          string            `json:"tag,omitempty"`
	Note         string            `json:"note,omitempty"`

	// Layout is the configuration layout fingerprint the event was recorded under.
	Layout string `json:"layout,omitempty"`
}
