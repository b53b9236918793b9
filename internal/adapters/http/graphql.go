package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/orbitrack/internal/core/domain"
	"github.com/samirrijal/orbitrack/internal/core/render"
	"github.com/samirrijal/orbitrack/internal/pkg/geospatial"
)

func coordinateMap(c domain.Coordinate) map[string]interface{} {
	return map[string]interface{}{"lat": c.Lat, "lon": c.Lon}
}

// buildSchema creates the GraphQL schema over the position store.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	positionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Position",
		Fields: graphql.Fields{
			"catalog_number": &graphql.Field{Type: graphql.Int},
			"position":       &graphql.Field{Type: geoPointType},
			"speed_kmh":      &graphql.Field{Type: graphql.Float},
			"altitude_km":    &graphql.Field{Type: graphql.Float},
			"visibility":     &graphql.Field{Type: graphql.String},
			"sample_time":    &graphql.Field{Type: graphql.Int},
			"last_error":     &graphql.Field{Type: graphql.String},
			"loading":        &graphql.Field{Type: graphql.Boolean},
		},
	})

	trajectoryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Trajectory",
		Fields: graphql.Fields{
			"count":     &graphql.Field{Type: graphql.Int},
			"parts":     &graphql.Field{Type: graphql.Int},
			"length_km": &graphql.Field{Type: graphql.Float},
			"points":    &graphql.Field{Type: graphql.NewList(geoPointType)},
		},
	})

	segmentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Segment",
		Fields: graphql.Fields{
			"from":    &graphql.Field{Type: geoPointType},
			"to":      &graphql.Field{Type: geoPointType},
			"color":   &graphql.Field{Type: graphql.String},
			"weight":  &graphql.Field{Type: graphql.Float},
			"opacity": &graphql.Field{Type: graphql.Float},
		},
	})

	themeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Theme",
		Fields: graphql.Fields{
			"name":        &graphql.Field{Type: graphql.String},
			"tile_url":    &graphql.Field{Type: graphql.String},
			"attribution": &graphql.Field{Type: graphql.String},
			"marker_icon": &graphql.Field{Type: graphql.String},
			"start_color": &graphql.Field{Type: graphql.String},
			"end_color":   &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"position": &graphql.Field{
				Type:        positionType,
				Description: "Current position and telemetry",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					snap := deps.Store.Snapshot()
					m := map[string]interface{}{
						"catalog_number": snap.CatalogNumber,
						"speed_kmh":      snap.Speed,
						"altitude_km":    snap.Altitude,
						"visibility":     snap.Visibility,
						"sample_time":    snap.SampleTime,
						"last_error":     snap.LastError,
						"loading":        snap.Loading,
					}
					if snap.Position != nil {
						m["position"] = coordinateMap(*snap.Position)
					}
					return m, nil
				},
			},
			"trajectory": &graphql.Field{
				Type:        trajectoryType,
				Description: "Accumulated trajectory, oldest first; last limits to the newest N points",
				Args: graphql.FieldConfigArgument{
					"last": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					traj := deps.Store.Snapshot().Trajectory
					points := traj
					if n, _ := p.Args["last"].(int); n > 0 && n < len(points) {
						points = points[len(points)-n:]
					}
					out := make([]map[string]interface{}, len(points))
					for i, c := range points {
						out[i] = coordinateMap(c)
					}
					return map[string]interface{}{
						"count":     len(traj),
						"parts":     len(geospatial.SplitAntimeridian(traj)),
						"length_km": geospatial.PathLength(traj),
						"points":    out,
					}, nil
				},
			},
			"segments": &graphql.Field{
				Type:        graphql.NewList(segmentType),
				Description: "Gradient-coloured path edges",
				Args: graphql.FieldConfigArgument{
					"theme": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					theme := deps.Theme
					if name, _ := p.Args["theme"].(string); name != "" {
						t, ok := render.ThemeByName(name)
						if !ok {
							return nil, fmt.Errorf("unknown theme: %s", name)
						}
						theme = t
					}
					segs := render.BuildSegments(deps.Store.Snapshot().Trajectory, theme)
					out := make([]map[string]interface{}, len(segs))
					for i, s := range segs {
						out[i] = map[string]interface{}{
							"from":    coordinateMap(s.From),
							"to":      coordinateMap(s.To),
							"color":   s.Color,
							"weight":  s.Style.Weight,
							"opacity": s.Style.Opacity,
						}
					}
					return out, nil
				},
			},
			"theme": &graphql.Field{
				Type:        themeType,
				Description: "Map theme by name",
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					name := p.Args["name"].(string)
					t, ok := render.ThemeByName(name)
					if !ok {
						return nil, fmt.Errorf("unknown theme: %s", name)
					}
					return map[string]interface{}{
						"name":        t.Name,
						"tile_url":    t.TileURL,
						"attribution": t.Attribution,
						"marker_icon": t.MarkerIcon,
						"start_color": t.StartColor,
						"end_color":   t.EndColor,
					}, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
