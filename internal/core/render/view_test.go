package render_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/samirrijal/orbitrack/internal/core/domain"
	"github.com/samirrijal/orbitrack/internal/core/render"
)

func TestView_TrailGatedUntilFlown(t *testing.T) {
	surface := &fakeSurface{}
	timer := &manualTimer{}
	v := render.NewView(surface, render.Light, render.DefaultCameraConfig())
	v.Camera().WithTimer(timer.schedule)

	v.Render(*snapshot(ptr(pt(1, 1)), pt(1, 1)))
	if len(surface.markers) != 1 || surface.flyCount() != 0 || surface.drawCount() != 0 {
		t.Fatalf("single point: markers=%d flights=%d draws=%d", len(surface.markers), surface.flyCount(), surface.drawCount())
	}

	v.Render(*snapshot(ptr(pt(2, 2)), pt(1, 1), pt(2, 2)))
	if surface.flyCount() != 1 {
		t.Fatalf("expected fly-to once ready, got %d", surface.flyCount())
	}
	if surface.drawCount() != 0 {
		t.Error("trail must not be drawn before the camera settles")
	}

	timer.fire()
	v.Render(*snapshot(ptr(pt(3, 3)), pt(1, 1), pt(2, 2), pt(3, 3)))
	if got := len(surface.lastSegments()); got != 2 {
		t.Errorf("expected 2 segments after settle, got %d", got)
	}
	if surface.flyCount() != 1 {
		t.Errorf("expected no second fly-to, got %d", surface.flyCount())
	}
}

func TestView_NoMarkerWithoutPosition(t *testing.T) {
	surface := &fakeSurface{}
	v := render.NewView(surface, render.Light, render.DefaultCameraConfig())
	v.Render(domain.Snapshot{Loading: true})

	if len(surface.markers) != 0 {
		t.Errorf("expected no marker, got %v", surface.markers)
	}
}

// stubSource is a SnapshotSource whose state is set by the test.
type stubSource struct {
	mu      sync.Mutex
	snap    domain.Snapshot
	changed chan struct{}
}

func newStubSource() *stubSource {
	return &stubSource{changed: make(chan struct{})}
}

func (s *stubSource) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *stubSource) Changed() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed
}

func (s *stubSource) set(snap domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	close(s.changed)
	s.changed = make(chan struct{})
}

func TestView_RunRedrawsOnSettle(t *testing.T) {
	surface := &fakeSurface{}
	timer := &manualTimer{}
	v := render.NewView(surface, render.Dark, render.DefaultCameraConfig())
	v.Camera().WithTimer(timer.schedule)

	src := newStubSource()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		v.Run(ctx, src)
		close(done)
	}()

	src.set(*snapshot(ptr(pt(2, 2)), pt(1, 1), pt(2, 2)))
	waitUntil(t, timer.armed)

	// No store change happens here: settling alone must trigger the trail.
	timer.fire()
	waitUntil(t, func() bool { return surface.drawCount() > 0 })
	if got := len(surface.lastSegments()); got != 1 {
		t.Errorf("expected 1 segment, got %d", got)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

type bannerSurface struct {
	fakeSurface
	banners []string
}

func (b *bannerSurface) ShowError(msg string) {
	b.banners = append(b.banners, msg)
}

func TestView_ErrorBannerFollowsLastError(t *testing.T) {
	surface := &bannerSurface{}
	v := render.NewView(surface, render.Light, render.DefaultCameraConfig())

	v.Render(domain.Snapshot{LastError: "failed to fetch current position"})
	v.Render(domain.Snapshot{LastError: "failed to fetch current position"})
	v.Render(domain.Snapshot{Telemetry: domain.Telemetry{Position: ptr(pt(1, 1))}})

	want := []string{"failed to fetch current position", ""}
	if len(surface.banners) != len(want) {
		t.Fatalf("expected banners %q, got %q", want, surface.banners)
	}
	for i := range want {
		if surface.banners[i] != want[i] {
			t.Errorf("banner %d: expected %q, got %q", i, want[i], surface.banners[i])
		}
	}
}
