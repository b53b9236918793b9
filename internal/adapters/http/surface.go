package http

import (
	"time"

	"github.com/samirrijal/orbitrack/internal/core/domain"
	"github.com/samirrijal/orbitrack/internal/core/render"
)

// Outbound render protocol message types.
const (
	msgTheme    = "theme"
	msgMarker   = "marker"
	msgFlyTo    = "fly_to"
	msgSegments = "segments"
	msgError    = "error"
	// msgProtocolError answers a malformed or unsupported client request. It
	// never touches the tracker error banner.
	msgProtocolError = "protocol_error"
)

// viewerMessage is one render instruction sent to a browser viewer.
type viewerMessage struct {
	Type     string             `json:"type"`
	Position *domain.Coordinate `json:"position,omitempty"`
	Zoom     int                `json:"zoom,omitempty"`
	Options  *domain.FlyOptions `json:"options,omitempty"`
	Segments []domain.Segment   `json:"segments,omitempty"`
	Message  *string            `json:"message,omitempty"`
	Theme    *render.Theme      `json:"theme,omitempty"`
}

// wsSurface implements ports.Surface and render.Banner by serialising every
// draw call to the viewer. Write failures are left to the read loop, which
// notices the closed connection.
type wsSurface struct {
	send func(v interface{}) error
}

func newWSSurface(send func(v interface{}) error) *wsSurface {
	return &wsSurface{send: send}
}

func (s *wsSurface) SetCurrentMarker(c domain.Coordinate) {
	_ = s.send(viewerMessage{Type: msgMarker, Position: &c})
}

func (s *wsSurface) DrawSegments(segs []domain.Segment) {
	if segs == nil {
		segs = []domain.Segment{}
	}
	_ = s.send(viewerMessage{Type: msgSegments, Segments: segs})
}

// FlyTo asks the viewer to animate; the returned channel closes once the
// animation duration has elapsed.
func (s *wsSurface) FlyTo(c domain.Coordinate, zoom int, opts domain.FlyOptions) <-chan struct{} {
	_ = s.send(viewerMessage{Type: msgFlyTo, Position: &c, Zoom: zoom, Options: &opts})

	done := make(chan struct{})
	time.AfterFunc(time.Duration(opts.Duration*float64(time.Second)), func() { close(done) })
	return done
}

func (s *wsSurface) ShowError(msg string) {
	_ = s.send(viewerMessage{Type: msgError, Message: &msg})
}

func (s *wsSurface) ShowProtocolError(msg string) {
	_ = s.send(viewerMessage{Type: msgProtocolError, Message: &msg})
}

func (s *wsSurface) ShowTheme(t render.Theme) {
	_ = s.send(viewerMessage{Type: msgTheme, Theme: &t})
}
