package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/samirrijal/orbitrack/internal/adapters/http"
	natsadapter "github.com/samirrijal/orbitrack/internal/adapters/nats"
	"github.com/samirrijal/orbitrack/internal/adapters/valkey"
	"github.com/samirrijal/orbitrack/internal/core/ports"
	"github.com/samirrijal/orbitrack/internal/core/render"
	"github.com/samirrijal/orbitrack/internal/core/usecases"
	"github.com/samirrijal/orbitrack/internal/pkg/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tracker and serve it over HTTP, GraphQL and WebSocket",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig("orbitrack")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			logger.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	deps := &http.Dependencies{
		Camera: cameraConfig(cfg),
	}
	theme, ok := render.ThemeByName(cfg.Viewer.Theme)
	if !ok {
		return fmt.Errorf("unknown theme %q", cfg.Viewer.Theme)
	}
	deps.Theme = theme

	// NATS
	var publisher ports.EventPublisher
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			logger.Warn("nats unavailable", "error", err)
		} else {
			defer pub.Close()
			publisher = pub
			deps.NATS = pub.Conn()
		}
	}

	// Cache
	var mirror ports.SnapshotMirror
	if cfg.Valkey.Enabled {
		cache, err := valkey.New(cfg.Valkey.Addr)
		if err != nil {
			logger.Warn("valkey unavailable", "error", err)
		} else {
			defer cache.Close()
			deps.Cache = cache
			mirror = valkey.NewSnapshotMirror(cache, cfg.Valkey.SnapshotTTL)
		}
	}

	// Tracking session
	session := newSession(cfg, logger)
	deps.Store = session.Store()
	if err := session.Start(ctx); err != nil {
		return err
	}
	session.Go(usecases.NewBroadcaster(session.Store(), publisher, mirror, logger).Run)

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:           time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:             64 * 1024,
		AppName:               "orbitrack",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, If-None-Match",
		MaxAge:       3600,
	}))

	http.SetupRoutes(app, deps)

	listenErr := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logger.Info("API server starting", "addr", addr, "catalog_number", cfg.Tracker.CatalogNumber)
		listenErr <- app.Listen(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info("shutdown signal received, draining connections...", "signal", sig.String())
	case err := <-listenErr:
		session.Stop()
		return fmt.Errorf("listen: %w", err)
	}

	// No store mutation happens after Stop returns, so viewers see a frozen
	// state while the app drains.
	session.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	logger.Info("server stopped")
	return nil
}
