package domain

// Coordinate represents a geographic coordinate (WGS 84), in degrees.
// Values are trusted as received; no normalization is applied.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// LineStyle is the constant stroke applied to every drawn path edge.
type LineStyle struct {
	Weight  float64 `json:"weight"`
	Opacity float64 `json:"opacity"`
}

// Segment is a single drawable path edge between two adjacent trajectory points.
type Segment struct {
	From  Coordinate `json:"from"`
	To    Coordinate `json:"to"`
	Color string     `json:"color"`
	Style LineStyle  `json:"style"`
}

// FlyOptions controls an animated camera transition.
type FlyOptions struct {
	Animate  bool    `json:"animate"`
	Duration float64 `json:"duration_seconds"`
}
