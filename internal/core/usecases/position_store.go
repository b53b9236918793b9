package usecases

import (
	"errors"
	"sync"

	"github.com/samirrijal/orbitrack/internal/core/domain"
)

// ErrStoreClosed is returned by every write once the owning session has been
// torn down. Late results must be discarded on this error.
var ErrStoreClosed = errors.New("position store closed")

// BackfillPolicy decides how a backfilled window combines with samples the
// poller appended before the backfill landed.
type BackfillPolicy string

const (
	// BackfillMerge keeps polled samples newer than the last backfilled one.
	BackfillMerge BackfillPolicy = "merge"
	// BackfillReplace overwrites the trajectory with the backfilled window.
	BackfillReplace BackfillPolicy = "replace"
)

// PositionStore is the single owner of the current telemetry and the
// accumulated trajectory of one tracking session. Only the Poller and the
// HistoryLoader write to it; everything else reads snapshots.
type PositionStore struct {
	mu            sync.RWMutex
	catalogNumber int
	closed        bool
	telemetry     domain.Telemetry
	samples       []domain.Sample
	lastError     string
	loading       bool
	version       uint64
	changed       chan struct{}
}

// NewPositionStore creates an empty store for the given catalog number.
func NewPositionStore(catalogNumber int) *PositionStore {
	return &PositionStore{
		catalogNumber: catalogNumber,
		loading:       true,
		changed:       make(chan struct{}),
	}
}

// ApplyFix records a successful poll: telemetry is replaced wholesale, the
// position is appended to the trajectory and the last error is cleared.
func (s *PositionStore) ApplyFix(fix domain.Fix) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	pos := fix.Coordinate()
	s.telemetry = domain.Telemetry{
		Position:   &pos,
		Speed:      fix.Velocity,
		Altitude:   fix.Altitude,
		Visibility: fix.Visibility,
		SampleTime: fix.Timestamp,
	}
	s.samples = append(s.samples, domain.Sample{Coordinate: pos, Timestamp: fix.Timestamp})
	s.lastError = ""
	s.loading = false
	s.notifyLocked()
	return nil
}

// RecordError records a failed poll. Position, telemetry and trajectory from
// the previous success are kept.
func (s *PositionStore) RecordError(msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	s.lastError = msg
	s.loading = false
	s.notifyLocked()
	return nil
}

// Seed installs a backfilled window, oldest first, according to policy.
func (s *PositionStore) Seed(window []domain.Sample, policy BackfillPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	seeded := make([]domain.Sample, 0, len(window)+len(s.samples))
	seeded = append(seeded, window...)

	if policy != BackfillReplace {
		if len(window) == 0 {
			return nil
		}
		// A polled sample without a timestamp cannot be placed against the
		// window. Every poll happens after the window was computed, so it is
		// kept after it.
		last := window[len(window)-1].Timestamp
		for _, sm := range s.samples {
			if sm.Timestamp == 0 || sm.Timestamp > last {
				seeded = append(seeded, sm)
			}
		}
	}

	s.samples = seeded
	s.notifyLocked()
	return nil
}

// Close marks the store as torn down. After Close returns no write succeeds.
func (s *PositionStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Closed reports whether Close has been called.
func (s *PositionStore) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Snapshot returns a copy of the current state including the trajectory.
func (s *PositionStore) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := domain.Snapshot{
		CatalogNumber: s.catalogNumber,
		Telemetry:     s.telemetry,
		LastError:     s.lastError,
		Loading:       s.loading,
		Version:       s.version,
		Trajectory:    make([]domain.Coordinate, len(s.samples)),
	}
	if s.telemetry.Position != nil {
		pos := *s.telemetry.Position
		snap.Position = &pos
	}
	for i, sm := range s.samples {
		snap.Trajectory[i] = sm.Coordinate
	}
	return snap
}

// Samples returns a copy of the timestamped trajectory.
func (s *PositionStore) Samples() []domain.Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Sample(nil), s.samples...)
}

// Len returns the number of trajectory points.
func (s *PositionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.samples)
}

// CatalogNumber returns the tracked object's catalog number.
func (s *PositionStore) CatalogNumber() int {
	return s.catalogNumber
}

// Changed returns a channel that is closed on the next state change.
func (s *PositionStore) Changed() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.changed
}

func (s *PositionStore) notifyLocked() {
	s.version++
	close(s.changed)
	s.changed = make(chan struct{})
}
