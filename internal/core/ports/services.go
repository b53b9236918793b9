package ports

import (
	"context"

	"github.com/samirrijal/orbitrack/internal/core/domain"
)

// PositionSource fetches live and historical positions of the tracked object.
type PositionSource interface {
	// Current returns the latest position report. A non-success HTTP status
	// yields an error wrapping domain.ErrPositionUnavailable.
	Current(ctx context.Context) (*domain.Fix, error)
	// History returns one fix per requested epoch second, in request order.
	History(ctx context.Context, timestamps []int64) ([]domain.Fix, error)
}

// EventPublisher publishes tracker snapshots to a message broker.
type EventPublisher interface {
	PublishSnapshot(ctx context.Context, snap *domain.Snapshot) error
}

// SnapshotMirror keeps the latest snapshot readable by other processes.
type SnapshotMirror interface {
	StoreSnapshot(ctx context.Context, snap *domain.Snapshot) error
	LatestSnapshot(ctx context.Context, catalogNumber int) (*domain.Snapshot, error)
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// Surface is the map-rendering surface a viewer draws on.
type Surface interface {
	SetCurrentMarker(c domain.Coordinate)
	DrawSegments(segs []domain.Segment)
	// FlyTo starts an animated camera move. The returned channel is closed
	// once the animation has approximately finished.
	FlyTo(c domain.Coordinate, zoom int, opts domain.FlyOptions) <-chan struct{}
}
