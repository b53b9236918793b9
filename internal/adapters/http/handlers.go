package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/orbitrack/internal/core/domain"
	"github.com/samirrijal/orbitrack/internal/core/render"
	"github.com/samirrijal/orbitrack/internal/pkg/geospatial"
)

// TrajectoryResponse is the paged trajectory with whole-path statistics.
type TrajectoryResponse struct {
	CatalogNumber int                 `json:"catalog_number"`
	Points        []domain.Coordinate `json:"points"`
	Parts         int                 `json:"parts"`
	LengthKm      float64             `json:"length_km"`
	Pagination    Pagination          `json:"pagination"`
}

// SegmentsResponse lists drawable edges for one theme.
type SegmentsResponse struct {
	CatalogNumber int              `json:"catalog_number"`
	Theme         string           `json:"theme"`
	Count         int              `json:"count"`
	Segments      []domain.Segment `json:"segments"`
}

// themeFromQuery resolves ?theme=, falling back to the configured default.
func themeFromQuery(c *fiber.Ctx, def render.Theme) (render.Theme, bool) {
	name := c.Query("theme")
	if name == "" {
		return def, true
	}
	return render.ThemeByName(name)
}

// PositionHandler returns the current telemetry without the trajectory.
func PositionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap := deps.Store.Snapshot()
		snap.Trajectory = nil
		return c.JSON(snap)
	}
}

// TrajectoryHandler returns the accumulated trajectory, oldest first.
func TrajectoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pg, err := parsePagination(c)
		if err != nil {
			return errInvalidPage(c, err)
		}

		snap := deps.Store.Snapshot()
		start, end := pg.bounds(len(snap.Trajectory))

		SetLinkHeaders(c, pg)
		return c.JSON(TrajectoryResponse{
			CatalogNumber: snap.CatalogNumber,
			Points:        snap.Trajectory[start:end],
			Parts:         len(geospatial.SplitAntimeridian(snap.Trajectory)),
			LengthKm:      geospatial.PathLength(snap.Trajectory),
			Pagination:    pg,
		})
	}
}

// SegmentsHandler returns the gradient-coloured edges of the trajectory.
func SegmentsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		theme, ok := themeFromQuery(c, deps.Theme)
		if !ok {
			return errUnknownTheme(c, fiber.StatusBadRequest, c.Query("theme"))
		}

		snap := deps.Store.Snapshot()
		segs := render.BuildSegments(snap.Trajectory, theme)
		if segs == nil {
			segs = []domain.Segment{}
		}
		return c.JSON(SegmentsResponse{
			CatalogNumber: snap.CatalogNumber,
			Theme:         theme.Name,
			Count:         len(segs),
			Segments:      segs,
		})
	}
}

// SegmentsGeoJSONHandler returns the drawable edges as a GeoJSON
// FeatureCollection, plus the current position as a Point feature.
func SegmentsGeoJSONHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		theme, ok := themeFromQuery(c, deps.Theme)
		if !ok {
			return errUnknownTheme(c, fiber.StatusBadRequest, c.Query("theme"))
		}

		snap := deps.Store.Snapshot()
		data, err := segmentsFeatureCollection(&snap, theme).MarshalJSON()
		if err != nil {
			LoggerFromCtx(c.UserContext()).Error("encode geojson", "error", err)
			return errEncode(c, "geojson")
		}

		c.Set(fiber.HeaderContentType, "application/geo+json")
		return c.Send(data)
	}
}

func segmentsFeatureCollection(snap *domain.Snapshot, theme render.Theme) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, s := range render.BuildSegments(snap.Trajectory, theme) {
		f := geojson.NewFeature(orb.LineString{toPoint(s.From), toPoint(s.To)})
		f.Properties["index"] = i
		f.Properties["stroke"] = s.Color
		f.Properties["stroke-width"] = s.Style.Weight
		f.Properties["stroke-opacity"] = s.Style.Opacity
		fc.Append(f)
	}
	if snap.Position != nil {
		f := geojson.NewFeature(toPoint(*snap.Position))
		f.Properties["kind"] = "current"
		f.Properties["marker_icon"] = theme.MarkerIcon
		f.Properties["catalog_number"] = snap.CatalogNumber
		fc.Append(f)
	}
	return fc
}

// toPoint converts to orb's [lon, lat] order.
func toPoint(c domain.Coordinate) orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

// ThemeHandler returns a theme descriptor.
func ThemeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		theme, ok := render.ThemeByName(c.Params("name"))
		if !ok {
			return errUnknownTheme(c, fiber.StatusNotFound, c.Params("name"))
		}
		return c.JSON(theme)
	}
}
