package http

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/samirrijal/orbitrack/internal/core/domain"
	"github.com/samirrijal/orbitrack/internal/core/render"
)

func recordSends(t *testing.T) (*wsSurface, func() []map[string]interface{}) {
	t.Helper()
	var raw [][]byte
	s := newWSSurface(func(v interface{}) error {
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		raw = append(raw, b)
		return nil
	})
	return s, func() []map[string]interface{} {
		out := make([]map[string]interface{}, len(raw))
		for i, b := range raw {
			if err := json.Unmarshal(b, &out[i]); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
		}
		return out
	}
}

func TestWSSurface_Protocol(t *testing.T) {
	s, sent := recordSends(t)

	s.SetCurrentMarker(domain.Coordinate{Lat: 1, Lon: 2})
	done := s.FlyTo(domain.Coordinate{Lat: 1, Lon: 2}, 3, domain.FlyOptions{Animate: true, Duration: 0.01})
	s.DrawSegments(nil)
	s.ShowError("")

	msgs := sent()
	if len(msgs) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(msgs))
	}
	wantTypes := []string{msgMarker, msgFlyTo, msgSegments, msgError}
	for i, want := range wantTypes {
		if msgs[i]["type"] != want {
			t.Errorf("message %d: expected type %q, got %v", i, want, msgs[i]["type"])
		}
	}
	if msgs[1]["zoom"] != 3.0 {
		t.Errorf("expected zoom 3, got %v", msgs[1]["zoom"])
	}
	if opts, _ := msgs[1]["options"].(map[string]interface{}); opts["duration_seconds"] != 0.01 || opts["animate"] != true {
		t.Errorf("unexpected fly options %v", msgs[1]["options"])
	}
	if segs, ok := msgs[2]["segments"].([]interface{}); !ok || len(segs) != 0 {
		t.Errorf("expected an explicit empty segment list, got %v", msgs[2]["segments"])
	}
	if msg, ok := msgs[3]["message"]; !ok || msg != "" {
		t.Errorf("expected a clearing error message, got %v", msgs[3])
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("fly-to completion never fired")
	}
}

func TestWSSurface_DrivesView(t *testing.T) {
	s, sent := recordSends(t)
	v := render.NewView(s, render.Dark, render.CameraConfig{Zoom: 3, Duration: time.Millisecond, Settle: time.Millisecond})

	pos := domain.Coordinate{Lat: 2, Lon: 2}
	v.Render(domain.Snapshot{
		Telemetry:  domain.Telemetry{Position: &pos},
		LastError:  "failed to fetch current position",
		Trajectory: []domain.Coordinate{{Lat: 1, Lon: 1}, pos},
	})

	var types []string
	for _, m := range sent() {
		types = append(types, m["type"].(string))
	}
	want := []string{msgError, msgMarker, msgFlyTo}
	if len(types) != len(want) {
		t.Fatalf("expected %v, got %v", want, types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("expected %v, got %v", want, types)
			break
		}
	}
}

func TestWSSurface_ProtocolErrorLeavesBanner(t *testing.T) {
	s, sent := recordSends(t)
	v := render.NewView(s, render.Light, render.DefaultCameraConfig())

	healthy := domain.Snapshot{}
	v.Render(healthy)
	s.ShowProtocolError("unknown theme: neon")
	v.Render(healthy)
	v.Render(domain.Snapshot{LastError: "failed to fetch current position"})

	var banners, protocol []string
	for _, m := range sent() {
		msg, _ := m["message"].(string)
		switch m["type"] {
		case msgError:
			banners = append(banners, msg)
		case msgProtocolError:
			protocol = append(protocol, msg)
		}
	}
	if len(protocol) != 1 || protocol[0] != "unknown theme: neon" {
		t.Errorf("expected one protocol error, got %v", protocol)
	}
	if len(banners) != 1 || banners[0] != "failed to fetch current position" {
		t.Errorf("expected only the tracker error on the banner, got %v", banners)
	}
}
