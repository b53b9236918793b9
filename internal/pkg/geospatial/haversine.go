package geospatial

import (
	"math"

	"github.com/samirrijal/orbitrack/internal/core/domain"
)

// EarthRadiusKm is the mean Earth radius. Distances are measured on the
// ground track, not at orbital altitude.
const EarthRadiusKm = 6371.0

// Distance returns the great-circle distance in kilometres between two
// coordinates.
func Distance(a, b domain.Coordinate) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
