package render_test

import (
	"testing"

	"github.com/samirrijal/orbitrack/internal/core/domain"
	"github.com/samirrijal/orbitrack/internal/core/render"
)

func TestBuildSegments_ShortTrajectories(t *testing.T) {
	if segs := render.BuildSegments(nil, render.Light); len(segs) != 0 {
		t.Errorf("expected no segments for empty trajectory, got %d", len(segs))
	}
	if segs := render.BuildSegments([]domain.Coordinate{pt(1, 1)}, render.Light); len(segs) != 0 {
		t.Errorf("expected no segments for a single point, got %d", len(segs))
	}
}

func TestBuildSegments_GradientFactors(t *testing.T) {
	traj := []domain.Coordinate{pt(0, 0), pt(0, 10), pt(0, 20), pt(0, 30)}
	segs := render.BuildSegments(traj, render.Light)

	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	for j, s := range segs {
		if s.From != traj[j] || s.To != traj[j+1] {
			t.Errorf("segment %d: unexpected endpoints %v -> %v", j, s.From, s.To)
		}
		if want := render.Light.Color(float64(j+1) / 4); s.Color != want {
			t.Errorf("segment %d: expected colour %s, got %s", j, want, s.Color)
		}
		if s.Style != render.Light.Style {
			t.Errorf("segment %d: unexpected style %+v", j, s.Style)
		}
	}
	if segs[0].Color == render.Light.StartColor {
		t.Error("first edge should already be offset from the start colour")
	}
}

func TestBuildSegments_SplitsAtAntimeridian(t *testing.T) {
	traj := []domain.Coordinate{pt(0, 160), pt(0, 170), pt(0, 179), pt(0, -179), pt(0, -170)}
	segs := render.BuildSegments(traj, render.Dark)

	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	for _, s := range segs {
		if d := s.To.Lon - s.From.Lon; d > 180 || d < -180 {
			t.Errorf("segment crosses the antimeridian: %v -> %v", s.From, s.To)
		}
	}
	// The second part restarts the gradient with its own length.
	if want := render.Dark.Color(0.5); segs[2].Color != want {
		t.Errorf("expected restarted gradient %s, got %s", want, segs[2].Color)
	}
}

func TestBuildSegments_CrossingLeavesSinglePoint(t *testing.T) {
	traj := []domain.Coordinate{pt(0, 170), pt(0, -170)}
	if segs := render.BuildSegments(traj, render.Light); len(segs) != 0 {
		t.Errorf("expected no segments, got %v", segs)
	}
}

func TestThemeByName(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"", "light", true},
		{"Light", "light", true},
		{" dark ", "dark", true},
		{"solarized", "", false},
	}
	for _, tt := range tests {
		th, ok := render.ThemeByName(tt.name)
		if ok != tt.wantOK || th.Name != tt.want {
			t.Errorf("ThemeByName(%q) = %q, %v; want %q, %v", tt.name, th.Name, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNewTheme_RejectsBadColour(t *testing.T) {
	if _, err := render.NewTheme("x", "", "", "", "#zzzzzz", "#000000", domain.LineStyle{}); err == nil {
		t.Error("expected invalid colour to be rejected")
	}
}
