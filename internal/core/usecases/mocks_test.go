package usecases_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/samirrijal/orbitrack/internal/core/domain"
)

// --- Mock PositionSource ---

type mockSource struct {
	currentFn func(ctx context.Context) (*domain.Fix, error)
	historyFn func(ctx context.Context, timestamps []int64) ([]domain.Fix, error)
}

func (m *mockSource) Current(ctx context.Context) (*domain.Fix, error) {
	if m.currentFn != nil {
		return m.currentFn(ctx)
	}
	return nil, context.Canceled
}

func (m *mockSource) History(ctx context.Context, timestamps []int64) ([]domain.Fix, error) {
	if m.historyFn != nil {
		return m.historyFn(ctx, timestamps)
	}
	return nil, nil
}

// --- Mock EventPublisher / SnapshotMirror ---

type recordingSink struct {
	mu    sync.Mutex
	snaps []domain.Snapshot
}

func (r *recordingSink) PublishSnapshot(ctx context.Context, snap *domain.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, *snap)
	return nil
}

func (r *recordingSink) StoreSnapshot(ctx context.Context, snap *domain.Snapshot) error {
	return r.PublishSnapshot(ctx, snap)
}

func (r *recordingSink) LatestSnapshot(ctx context.Context, catalogNumber int) (*domain.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snaps) == 0 {
		return nil, nil
	}
	s := r.snaps[len(r.snaps)-1]
	return &s, nil
}

func (r *recordingSink) last() (domain.Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snaps) == 0 {
		return domain.Snapshot{}, false
	}
	return r.snaps[len(r.snaps)-1], true
}

// --- Helpers ---

func fix(lat, lon float64, ts int64) *domain.Fix {
	return &domain.Fix{Latitude: lat, Longitude: lon, Velocity: 27600, Timestamp: ts}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func trajectoryOf(c ...domain.Coordinate) []domain.Coordinate { return c }

func pt(lat, lon float64) domain.Coordinate { return domain.Coordinate{Lat: lat, Lon: lon} }
