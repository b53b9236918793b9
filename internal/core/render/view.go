package render

import (
	"context"
	"sync"

	"github.com/samirrijal/orbitrack/internal/core/domain"
	"github.com/samirrijal/orbitrack/internal/core/ports"
)

// SnapshotSource is the read side of the position store.
type SnapshotSource interface {
	Snapshot() domain.Snapshot
	Changed() <-chan struct{}
}

// Banner is implemented by surfaces that can show the last fetch error. An
// empty message clears the banner.
type Banner interface {
	ShowError(msg string)
}

// View binds tracker state to one viewer's surface. The trail is withheld
// until the camera has settled on the object so the viewer first sees the
// camera arrive, then the trail draw in.
type View struct {
	surface ports.Surface
	theme   Theme
	camera  *CameraController
	mu      sync.Mutex
	lastErr string
}

// NewView creates a view drawing with theme on surface.
func NewView(surface ports.Surface, theme Theme, camera CameraConfig) *View {
	return &View{
		surface: surface,
		theme:   theme,
		camera:  NewCameraController(surface, camera),
	}
}

// Camera returns the view's camera controller.
func (v *View) Camera() *CameraController {
	return v.camera
}

// SetTheme switches the theme used for subsequent frames.
func (v *View) SetTheme(t Theme) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.theme = t
}

// Render draws one frame.
func (v *View) Render(snap domain.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if b, ok := v.surface.(Banner); ok && snap.LastError != v.lastErr {
		b.ShowError(snap.LastError)
	}
	v.lastErr = snap.LastError

	if snap.Position != nil {
		v.surface.SetCurrentMarker(*snap.Position)
	}
	v.camera.Observe(&snap)
	if v.camera.Flown() {
		v.surface.DrawSegments(BuildSegments(snap.Trajectory, v.theme))
	}
}

// Run renders on every state change, and once more when the camera settles,
// until ctx is cancelled.
func (v *View) Run(ctx context.Context, src SnapshotSource) {
	settled := make(chan struct{}, 1)
	v.camera.OnFlown(func() {
		select {
		case settled <- struct{}{}:
		default:
		}
	})
	defer v.camera.Stop()

	for {
		changed := src.Changed()
		v.Render(src.Snapshot())

		select {
		case <-ctx.Done():
			return
		case <-changed:
		case <-settled:
		}
	}
}
