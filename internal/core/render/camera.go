package render

import (
	"sync"
	"time"

	"github.com/samirrijal/orbitrack/internal/core/domain"
	"github.com/samirrijal/orbitrack/internal/core/ports"
	"github.com/samirrijal/orbitrack/internal/pkg/metrics"
)

// CameraState is the state of the fly-to-once camera machine.
type CameraState int

const (
	// CameraIdle waits for enough data to fly.
	CameraIdle CameraState = iota
	// CameraFlying has issued its single fly-to and waits for it to settle.
	CameraFlying
	// CameraFlown is terminal for the session.
	CameraFlown
)

func (s CameraState) String() string {
	switch s {
	case CameraIdle:
		return "idle"
	case CameraFlying:
		return "flying"
	case CameraFlown:
		return "flown"
	default:
		return "unknown"
	}
}

// CameraConfig holds the flight parameters.
type CameraConfig struct {
	Zoom     int
	Duration time.Duration // animation length
	Settle   time.Duration // delay before the flight counts as done; slightly longer than Duration
}

// DefaultCameraConfig flies to zoom 3 over one second and settles after 1.1s.
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{Zoom: 3, Duration: time.Second, Settle: 1100 * time.Millisecond}
}

// TimerFunc schedules f after d and returns a function that cancels it.
type TimerFunc func(d time.Duration, f func()) (stop func() bool)

func realTimer(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// CameraController centers the surface on the tracked object exactly once
// per session. The guard and the Idle→Flying transition are one atomic step,
// so the fly-to can never be issued twice.
type CameraController struct {
	mu        sync.Mutex
	state     CameraState
	surface   ports.Surface
	cfg       CameraConfig
	timer     TimerFunc
	stopTimer func() bool
	onFlown   func()
}

// NewCameraController creates an idle controller for surface.
func NewCameraController(surface ports.Surface, cfg CameraConfig) *CameraController {
	def := DefaultCameraConfig()
	if cfg.Zoom <= 0 {
		cfg.Zoom = def.Zoom
	}
	if cfg.Duration <= 0 {
		cfg.Duration = def.Duration
	}
	if cfg.Settle <= 0 {
		cfg.Settle = def.Settle
	}
	return &CameraController{surface: surface, cfg: cfg, timer: realTimer}
}

// WithTimer replaces the settle timer.
func (c *CameraController) WithTimer(t TimerFunc) *CameraController {
	c.timer = t
	return c
}

// OnFlown registers a callback run when the flight settles.
func (c *CameraController) OnFlown(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFlown = fn
}

// Observe feeds a snapshot to the guard. It returns true if this call issued
// the fly-to. Once the controller has left Idle the guard is never evaluated
// again.
func (c *CameraController) Observe(snap *domain.Snapshot) bool {
	c.mu.Lock()
	if c.state != CameraIdle || !snap.Ready() {
		c.mu.Unlock()
		return false
	}
	c.state = CameraFlying
	target := *snap.Position
	c.mu.Unlock()

	metrics.CameraFlights.Inc()
	c.surface.FlyTo(target, c.cfg.Zoom, domain.FlyOptions{
		Animate:  true,
		Duration: c.cfg.Duration.Seconds(),
	})

	stop := c.timer(c.cfg.Settle, c.settle)
	c.mu.Lock()
	if c.state == CameraFlying {
		c.stopTimer = stop
	}
	c.mu.Unlock()
	return true
}

func (c *CameraController) settle() {
	c.mu.Lock()
	if c.state != CameraFlying {
		c.mu.Unlock()
		return
	}
	c.state = CameraFlown
	c.stopTimer = nil
	fn := c.onFlown
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// State returns the current state.
func (c *CameraController) State() CameraState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Flown reports whether trail rendering is unlocked.
func (c *CameraController) Flown() bool {
	return c.State() == CameraFlown
}

// Stop cancels a pending settle timer.
func (c *CameraController) Stop() {
	c.mu.Lock()
	stop := c.stopTimer
	c.stopTimer = nil
	c.onFlown = nil
	c.mu.Unlock()
	if stop != nil {
		stop()
	}
}
