package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/docsnap/internal/foundation/errors"
	"git.home.luguber.info/inful/docsnap/internal/logfields"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "docsnap.versions"

// NATSPublisher publishes VersionEvents as JSON on a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	timeout time.Duration
}

// NewNATSPublisher connects to url. A zero timeout defaults to five seconds.
func NewNATSPublisher(url, subject string, timeout time.Duration) (*NATSPublisher, error) {
	if subject == "" {
		subject = DefaultSubject
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	conn, err := nats.Connect(url, nats.Name("docsnap"), nats.Timeout(timeout))
	if err != nil {
		return nil, errors.NotifyError("failed to connect to NATS").
			WithCause(err).
			WithContext("url", url).
			Build()
	}

	slog.Debug("NATS publisher connected", slog.String("url", url), slog.String("subject", subject))
	return &NATSPublisher{conn: conn, subject: subject, timeout: timeout}, nil
}

// Publish sends event and flushes the connection so delivery to the server
// is confirmed before a short-lived process exits.
func (p *NATSPublisher) Publish(ctx context.Context, event VersionEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return errors.NotifyError("failed to marshal event").WithCause(err).Build()
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return errors.NotifyError("failed to publish event").
			WithCause(err).
			WithContext("subject", p.subject).
			Build()
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return errors.NotifyError("failed to flush NATS connection").
			WithCause(err).
			WithContext("subject", p.subject).
			Build()
	}

	slog.Debug("Published version event",
		logfields.Label(event.Label),
		logfields.Operation(event.Action),
		slog.String("subject", p.subject))
	return nil
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}
