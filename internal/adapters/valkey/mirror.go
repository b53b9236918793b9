package valkey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/samirrijal/orbitrack/internal/core/domain"
	"github.com/samirrijal/orbitrack/internal/core/ports"
)

// DefaultSnapshotTTL bounds how long a mirrored snapshot outlives its tracker.
const DefaultSnapshotTTL = 30 * time.Second

// ErrNoSnapshot is returned when no tracker has mirrored a snapshot recently.
var ErrNoSnapshot = errors.New("no snapshot mirrored")

// SnapshotKey returns the cache key of catalogNumber's latest snapshot.
func SnapshotKey(catalogNumber int) string {
	return fmt.Sprintf("tracker:%d:snapshot", catalogNumber)
}

// SnapshotMirror implements ports.SnapshotMirror on top of a cache.
type SnapshotMirror struct {
	cache ports.CacheService
	ttl   time.Duration
}

// NewSnapshotMirror creates a mirror writing with ttl. A ttl under one second
// selects DefaultSnapshotTTL.
func NewSnapshotMirror(cache ports.CacheService, ttl time.Duration) *SnapshotMirror {
	if ttl < time.Second {
		ttl = DefaultSnapshotTTL
	}
	return &SnapshotMirror{cache: cache, ttl: ttl}
}

// StoreSnapshot overwrites the mirrored snapshot.
func (m *SnapshotMirror) StoreSnapshot(ctx context.Context, snap *domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := m.cache.Set(ctx, SnapshotKey(snap.CatalogNumber), data, int(m.ttl/time.Second)); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot reads the mirrored snapshot back.
func (m *SnapshotMirror) LatestSnapshot(ctx context.Context, catalogNumber int) (*domain.Snapshot, error) {
	data, err := m.cache.Get(ctx, SnapshotKey(catalogNumber))
	if errors.Is(err, ErrCacheMiss) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}
