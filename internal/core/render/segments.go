package render

import (
	"github.com/samirrijal/orbitrack/internal/core/domain"
	"github.com/samirrijal/orbitrack/internal/pkg/geospatial"
)

// BuildSegments derives the drawable edges of a trajectory. The path is split
// at antimeridian crossings; within each part of length L, edge j is coloured
// at factor (j+1)/L so a long part renders as a visible gradient. Parts with
// fewer than two points produce no edges. The result is recomputed from
// scratch on every call.
func BuildSegments(trajectory []domain.Coordinate, theme Theme) []domain.Segment {
	var out []domain.Segment
	for _, part := range geospatial.SplitAntimeridian(trajectory) {
		n := len(part)
		if n < 2 {
			continue
		}
		for j := 0; j < n-1; j++ {
			out = append(out, domain.Segment{
				From:  part[j],
				To:    part[j+1],
				Color: theme.Color(float64(j+1) / float64(n)),
				Style: theme.Style,
			})
		}
	}
	return out
}
