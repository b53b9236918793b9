package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/samirrijal/orbitrack/internal/core/domain"
	"github.com/samirrijal/orbitrack/internal/core/render"
	"github.com/samirrijal/orbitrack/internal/pkg/geospatial"
)

var watchTheme string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Track headlessly and log every draw call",
	Long:  `Runs one tracking session with a log-backed map surface until interrupted.`,
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchTheme, "theme", "t", "", "Theme for segment colours (light, dark)")
}

// logSurface is a map surface that writes draw calls to the log.
type logSurface struct {
	logger *slog.Logger
}

func (s *logSurface) SetCurrentMarker(c domain.Coordinate) {
	s.logger.Debug("marker", "lat", c.Lat, "lon", c.Lon)
}

func (s *logSurface) DrawSegments(segs []domain.Segment) {
	if len(segs) == 0 {
		s.logger.Info("trail", "segments", 0)
		return
	}
	path := make([]domain.Coordinate, 0, len(segs)+1)
	path = append(path, segs[0].From)
	for _, seg := range segs {
		path = append(path, seg.To)
	}
	s.logger.Info("trail",
		"segments", len(segs),
		"first_color", segs[0].Color,
		"last_color", segs[len(segs)-1].Color,
		"length_km", geospatial.PathLength(path),
	)
}

func (s *logSurface) FlyTo(c domain.Coordinate, zoom int, opts domain.FlyOptions) <-chan struct{} {
	s.logger.Info("fly_to", "lat", c.Lat, "lon", c.Lon, "zoom", zoom, "duration_seconds", opts.Duration)
	done := make(chan struct{})
	time.AfterFunc(time.Duration(opts.Duration*float64(time.Second)), func() { close(done) })
	return done
}

func (s *logSurface) ShowError(msg string) {
	if msg == "" {
		s.logger.Info("error cleared")
		return
	}
	s.logger.Warn("tracker error", "message", msg)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig("orbitrack-watch")
	if err != nil {
		return err
	}
	if watchTheme != "" {
		cfg.Viewer.Theme = watchTheme
	}
	theme, ok := render.ThemeByName(cfg.Viewer.Theme)
	if !ok {
		theme = render.Light
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := newSession(cfg, logger)
	if err := session.Start(ctx); err != nil {
		return err
	}
	view := render.NewView(&logSurface{logger: logger}, theme, cameraConfig(cfg))
	session.Go(func(ctx context.Context) { view.Run(ctx, session.Store()) })

	<-ctx.Done()
	session.Stop()
	return nil
}
