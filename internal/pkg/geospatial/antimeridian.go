package geospatial

import (
	"math"

	"github.com/samirrijal/orbitrack/internal/core/domain"
)

// antimeridianJump is the longitude delta between consecutive samples above
// which the object is judged to have crossed ±180° rather than 0°.
const antimeridianJump = 180.0

// SplitAntimeridian splits an ordered coordinate sequence into sub-sequences
// wherever two consecutive points cross the antimeridian, so that a flat
// projection never draws an edge wrapping the whole map.
//
// Input shorter than two points comes back as a single sub-sequence holding
// whatever was given. Callers must not draw a line from a sub-sequence with
// fewer than two points.
func SplitAntimeridian(coords []domain.Coordinate) [][]domain.Coordinate {
	if len(coords) < 2 {
		return [][]domain.Coordinate{append([]domain.Coordinate(nil), coords...)}
	}

	var parts [][]domain.Coordinate
	current := []domain.Coordinate{coords[0]}
	for i := 1; i < len(coords); i++ {
		prev, curr := coords[i-1], coords[i]
		if math.Abs(curr.Lon-prev.Lon) > antimeridianJump {
			parts = append(parts, current)
			current = []domain.Coordinate{curr}
			continue
		}
		current = append(current, curr)
	}
	return append(parts, current)
}

// PathLength returns the great-circle length in kilometres of a path, skipping
// edges that cross the antimeridian.
func PathLength(coords []domain.Coordinate) float64 {
	var km float64
	for _, part := range SplitAntimeridian(coords) {
		for i := 1; i < len(part); i++ {
			km += Distance(part[i-1], part[i])
		}
	}
	return km
}
