package usecases

import (
	"context"
	"log/slog"

	"github.com/samirrijal/orbitrack/internal/core/ports"
	"github.com/samirrijal/orbitrack/internal/pkg/metrics"
)

// Broadcaster fans store changes out to a message broker and a snapshot
// mirror. It only reads the store.
type Broadcaster struct {
	store     *PositionStore
	publisher ports.EventPublisher
	mirror    ports.SnapshotMirror
	logger    *slog.Logger
}

// NewBroadcaster creates a Broadcaster. publisher and mirror may be nil.
func NewBroadcaster(store *PositionStore, publisher ports.EventPublisher, mirror ports.SnapshotMirror, logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{store: store, publisher: publisher, mirror: mirror, logger: logger}
}

// Run broadcasts the current snapshot and then every change until ctx is done.
func (b *Broadcaster) Run(ctx context.Context) {
	if b.publisher == nil && b.mirror == nil {
		return
	}
	for {
		changed := b.store.Changed()
		b.Broadcast(ctx)

		select {
		case <-ctx.Done():
			return
		case <-changed:
		}
	}
}

// Broadcast sends one snapshot to every configured sink.
func (b *Broadcaster) Broadcast(ctx context.Context) {
	snap := b.store.Snapshot()
	if snap.Version == 0 {
		return
	}

	if b.publisher != nil {
		if err := b.publisher.PublishSnapshot(ctx, &snap); err != nil {
			metrics.BroadcastErrors.WithLabelValues("publisher").Inc()
			b.logger.Warn("publish snapshot failed", "version", snap.Version, "error", err)
		}
	}
	if b.mirror != nil {
		if err := b.mirror.StoreSnapshot(ctx, &snap); err != nil {
			metrics.BroadcastErrors.WithLabelValues("mirror").Inc()
			b.logger.Warn("mirror snapshot failed", "version", snap.Version, "error", err)
		}
	}
}
