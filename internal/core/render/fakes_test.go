package render_test

import (
	"sync"
	"time"

	"github.com/samirrijal/orbitrack/internal/core/domain"
)

// --- Fake Surface ---

type flyCall struct {
	Target domain.Coordinate
	Zoom   int
	Opts   domain.FlyOptions
}

type fakeSurface struct {
	mu       sync.Mutex
	markers  []domain.Coordinate
	flights  []flyCall
	segments [][]domain.Segment
}

func (f *fakeSurface) SetCurrentMarker(c domain.Coordinate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markers = append(f.markers, c)
}

func (f *fakeSurface) DrawSegments(segs []domain.Segment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.segments = append(f.segments, segs)
}

func (f *fakeSurface) FlyTo(c domain.Coordinate, zoom int, opts domain.FlyOptions) <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flights = append(f.flights, flyCall{Target: c, Zoom: zoom, Opts: opts})
	done := make(chan struct{})
	close(done)
	return done
}

func (f *fakeSurface) flyCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.flights)
}

func (f *fakeSurface) drawCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.segments)
}

func (f *fakeSurface) lastSegments() []domain.Segment {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.segments) == 0 {
		return nil
	}
	return f.segments[len(f.segments)-1]
}

// --- Manual timer ---

type manualTimer struct {
	mu      sync.Mutex
	delay   time.Duration
	pending func()
}

func (m *manualTimer) schedule(d time.Duration, f func()) func() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
	m.pending = f
	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		stopped := m.pending != nil
		m.pending = nil
		return stopped
	}
}

func (m *manualTimer) armed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

func (m *manualTimer) fire() bool {
	m.mu.Lock()
	f := m.pending
	m.pending = nil
	m.mu.Unlock()
	if f == nil {
		return false
	}
	f()
	return true
}

// --- Snapshot helpers ---

func pt(lat, lon float64) domain.Coordinate { return domain.Coordinate{Lat: lat, Lon: lon} }

func snapshot(pos *domain.Coordinate, traj ...domain.Coordinate) *domain.Snapshot {
	return &domain.Snapshot{
		CatalogNumber: 25544,
		Telemetry:     domain.Telemetry{Position: pos},
		Trajectory:    traj,
	}
}

func ptr(c domain.Coordinate) *domain.Coordinate { return &c }
