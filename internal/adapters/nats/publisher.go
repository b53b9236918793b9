package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/samirrijal/orbitrack/internal/core/domain"
)

const (
	// StreamName is the JetStream stream holding the latest snapshot per object.
	StreamName = "TRACKER_POSITIONS"
	// SubjectPrefix precedes the catalog number in snapshot subjects.
	SubjectPrefix = "tracker.position."
	// AllSubjects matches the snapshots of every tracked object.
	AllSubjects = SubjectPrefix + ">"
)

// Subject returns the subject snapshots of catalogNumber are published on.
func Subject(catalogNumber int) string {
	return SubjectPrefix + strconv.Itoa(catalogNumber)
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and ensures the snapshot stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	// Only the most recent snapshot per object is worth replaying.
	cfg := nats.StreamConfig{
		Name:              StreamName,
		Subjects:          []string{AllSubjects},
		Retention:         nats.LimitsPolicy,
		MaxMsgsPerSubject: 1,
		MaxAge:            1 * time.Hour,
		Storage:           nats.MemoryStorage,
		Discard:           nats.DiscardOld,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist; try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishSnapshot publishes snap on its object's subject.
func (p *Publisher) PublishSnapshot(ctx context.Context, snap *domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(Subject(snap.CatalogNumber), data, nats.Context(ctx))
	return err
}

// Conn returns the underlying connection, shared with readiness checks and
// the feed relay.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("orbitrack"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
