// Package colors implements the per-channel hex colour interpolation used to
// paint trajectory edges as a gradient.
package colors

import (
	"fmt"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB is a colour as three 0-255 channels.
type RGB struct {
	R, G, B uint8
}

// ParseHex parses "#rrggbb" (or "#rgb"); the leading '#' is optional.
func ParseHex(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// Hex encodes the colour as lowercase "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Lerp mixes c towards end by factor, rounding each channel independently.
// No gamma correction is applied.
func (c RGB) Lerp(end RGB, factor float64) RGB {
	return RGB{
		R: lerpChannel(c.R, end.R, factor),
		G: lerpChannel(c.G, end.G, factor),
		B: lerpChannel(c.B, end.B, factor),
	}
}

func lerpChannel(start, end uint8, factor float64) uint8 {
	v := math.Round(float64(start) + (float64(end)-float64(start))*factor)
	return uint8(math.Max(0, math.Min(255, v)))
}

// Interpolate returns the hex colour at factor (0..1) between start and end.
func Interpolate(start, end string, factor float64) (string, error) {
	s, err := ParseHex(start)
	if err != nil {
		return "", err
	}
	e, err := ParseHex(end)
	if err != nil {
		return "", err
	}
	return s.Lerp(e, factor).Hex(), nil
}

// Gradient is a pre-parsed start/end colour pair.
type Gradient struct {
	Start RGB
	End   RGB
}

// NewGradient parses both ends of a gradient.
func NewGradient(start, end string) (Gradient, error) {
	s, err := ParseHex(start)
	if err != nil {
		return Gradient{}, err
	}
	e, err := ParseHex(end)
	if err != nil {
		return Gradient{}, err
	}
	return Gradient{Start: s, End: e}, nil
}

// At returns the hex colour at factor along the gradient.
func (g Gradient) At(factor float64) string {
	return g.Start.Lerp(g.End, factor).Hex()
}
