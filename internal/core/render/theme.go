// Package render turns tracker snapshots into draw calls on a map surface:
// the current marker, a one-shot camera flight and the gradient trail.
package render

import (
	"fmt"
	"strings"

	"github.com/samirrijal/orbitrack/internal/core/domain"
	"github.com/samirrijal/orbitrack/internal/pkg/colors"
)

// Theme holds the presentation constants of one map style. Line style is
// fixed per theme and never depends on data.
type Theme struct {
	Name        string           `json:"name"`
	TileURL     string           `json:"tile_url"`
	Attribution string           `json:"attribution"`
	MarkerIcon  string           `json:"marker_icon"`
	StartColor  string           `json:"start_color"`
	EndColor    string           `json:"end_color"`
	Style       domain.LineStyle `json:"style"`

	gradient colors.Gradient
}

// NewTheme validates the gradient colours and builds a Theme.
func NewTheme(name, tileURL, attribution, markerIcon, startColor, endColor string, style domain.LineStyle) (Theme, error) {
	g, err := colors.NewGradient(startColor, endColor)
	if err != nil {
		return Theme{}, fmt.Errorf("theme %s: %w", name, err)
	}
	return Theme{
		Name:        name,
		TileURL:     tileURL,
		Attribution: attribution,
		MarkerIcon:  markerIcon,
		StartColor:  g.Start.Hex(),
		EndColor:    g.End.Hex(),
		Style:       style,
		gradient:    g,
	}, nil
}

func mustTheme(name, tileURL, attribution, markerIcon, startColor, endColor string, style domain.LineStyle) Theme {
	t, err := NewTheme(name, tileURL, attribution, markerIcon, startColor, endColor, style)
	if err != nil {
		panic(err)
	}
	return t
}

var (
	// Light is the default OpenStreetMap style.
	Light = mustTheme("light",
		"https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		"&copy;OpenStreetMap",
		"ISS.svg",
		"#9ecbff", "#0033cc",
		domain.LineStyle{Weight: 3, Opacity: 0.8},
	)

	// Dark is the CARTO dark-matter style.
	Dark = mustTheme("dark",
		"https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png",
		"&copy;CARTO",
		"ISS-white.svg",
		"#3b3b6d", "#00e5ff",
		domain.LineStyle{Weight: 3, Opacity: 0.9},
	)
)

// ThemeByName looks a theme up by name; an empty name selects Light.
func ThemeByName(name string) (Theme, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "light":
		return Light, true
	case "dark":
		return Dark, true
	default:
		return Theme{}, false
	}
}

// Color returns the gradient colour at factor.
func (t Theme) Color(factor float64) string {
	return t.gradient.At(factor)
}
