// Package notify announces snapshot changes to other systems.
package notify

import (
	"context"
	"time"
)

// VersionEvent is published after a snapshot operation completes.
type VersionEvent struct {
	Label     string    `json:"label"`
	Action    string    `json:"action"`
	Pages     int       `json:"pages"`
	CommitSHA string    `json:"commit_sha,omitempty"`
	Versions  []string  `json:"versions"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher delivers VersionEvents.
type Publisher interface {
	Publish(ctx context.Context, event VersionEvent) error
	Close() error
}

// NoopPublisher discards events.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, VersionEvent) error { return nil }
func (NoopPublisher) Close() error                                { return nil }
