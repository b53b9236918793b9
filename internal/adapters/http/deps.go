package http

import (
	"github.com/nats-io/nats.go"
	"github.com/samirrijal/orbitrack/internal/adapters/valkey"
	"github.com/samirrijal/orbitrack/internal/core/render"
	"github.com/samirrijal/orbitrack/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Store  *usecases.PositionStore
	Theme  render.Theme
	Camera render.CameraConfig
	NATS   *nats.Conn
	Cache  *valkey.Cache
}
