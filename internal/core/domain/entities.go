package domain

import (
	"errors"
)

// ErrPositionUnavailable is returned when the position service answers with a
// non-success status. Its message is what viewers see in the error banner.
var ErrPositionUnavailable = errors.New("failed to fetch current position")

// Fix is one position report from the position or history service.
type Fix struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Velocity   float64 `json:"velocity"` // km/h
	Altitude   float64 `json:"altitude"` // km
	Visibility string  `json:"visibility,omitempty"`
	Timestamp  int64   `json:"timestamp"` // epoch seconds
}

// Coordinate returns the fix position.
func (f Fix) Coordinate() Coordinate {
	return Coordinate{Lat: f.Latitude, Lon: f.Longitude}
}

// Sample is a trajectory point with the epoch second it was observed at.
type Sample struct {
	Coordinate
	Timestamp int64 `json:"timestamp"`
}

// Telemetry is the derived state of the latest successful poll.
type Telemetry struct {
	Position   *Coordinate `json:"position"`
	Speed      float64     `json:"speed_kmh"`
	Altitude   float64     `json:"altitude_km"`
	Visibility string      `json:"visibility,omitempty"`
	SampleTime int64       `json:"sample_time"`
}

// Snapshot is a read-only copy of the tracker state at one instant.
type Snapshot struct {
	CatalogNumber int `json:"catalog_number"`
	Telemetry
	LastError  string       `json:"last_error,omitempty"`
	Loading    bool         `json:"loading"`
	Version    uint64       `json:"version"`
	Trajectory []Coordinate `json:"trajectory,omitempty"`
}

// Ready reports whether there is enough data to center on the object and
// still show a path once the camera arrives.
func (s *Snapshot) Ready() bool {
	return s.Position != nil && len(s.Trajectory) > 1
}
