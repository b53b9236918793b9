package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/samirrijal/orbitrack/internal/core/domain"
)

// Subscriber delivers published snapshots to other processes and viewers.
type Subscriber struct {
	conn   *nats.Conn
	js     nats.JetStreamContext
	logger *slog.Logger
	subs   []*nats.Subscription
}

// NewSubscriber creates a subscriber on an existing connection.
func NewSubscriber(conn *nats.Conn, logger *slog.Logger) (*Subscriber, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Subscriber{conn: conn, js: js, logger: logger}, nil
}

// SubscribeSnapshots calls handler with the last stored snapshot of
// catalogNumber and then every new one. Undecodable messages are skipped.
func (s *Subscriber) SubscribeSnapshots(ctx context.Context, catalogNumber int, handler func(ctx context.Context, snap *domain.Snapshot) error) error {
	sub, err := s.js.Subscribe(Subject(catalogNumber), func(msg *nats.Msg) {
		var snap domain.Snapshot
		if err := json.Unmarshal(msg.Data, &snap); err != nil {
			s.logger.Warn("dropping undecodable snapshot", "subject", msg.Subject, "error", err)
			return
		}
		if err := handler(ctx, &snap); err != nil {
			s.logger.Debug("snapshot handler failed", "subject", msg.Subject, "error", err)
		}
	},
		nats.DeliverLastPerSubject(),
		nats.OrderedConsumer(),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes every subscription. The connection is left open.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	s.subs = nil
}
