package geospatial_test

import (
	"math"
	"testing"

	"github.com/samirrijal/orbitrack/internal/core/domain"
	"github.com/samirrijal/orbitrack/internal/pkg/geospatial"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.Coordinate
		want float64
	}{
		{"same point", domain.Coordinate{Lat: 51.5, Lon: -0.1}, domain.Coordinate{Lat: 51.5, Lon: -0.1}, 0},
		{"one degree on the equator", domain.Coordinate{}, domain.Coordinate{Lon: 1}, 111.19},
		{"pole to pole", domain.Coordinate{Lat: 90}, domain.Coordinate{Lat: -90}, math.Pi * geospatial.EarthRadiusKm},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := geospatial.Distance(tt.a, tt.b)
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("expected %.2f km, got %.2f", tt.want, got)
			}
			if back := geospatial.Distance(tt.b, tt.a); math.Abs(back-got) > 1e-9 {
				t.Errorf("distance is not symmetric: %.6f vs %.6f", got, back)
			}
		})
	}
}
