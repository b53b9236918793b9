package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samirrijal/orbitrack/internal/adapters/wheretheiss"
	"github.com/samirrijal/orbitrack/internal/core/render"
	"github.com/samirrijal/orbitrack/internal/core/usecases"
	"github.com/samirrijal/orbitrack/internal/pkg/config"
	"github.com/samirrijal/orbitrack/internal/pkg/logging"
)

var (
	logLevel  string
	logFormat string
	catalog   int
)

var rootCmd = &cobra.Command{
	Use:   "orbitrack",
	Short: "Live position tracker for an orbiting object",
	Long: `orbitrack polls a position service once a second, backfills the recent
trajectory on startup and serves the result to map viewers.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format override (json, text)")
	rootCmd.PersistentFlags().IntVarP(&catalog, "catalog", "c", 0, "Catalog number override")

	rootCmd.AddCommand(serveCmd, watchCmd, snapshotCmd, followCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads configuration and applies command-line overrides.
func loadConfig(service string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(service)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if catalog > 0 {
		cfg.Tracker.CatalogNumber = catalog
	}
	return cfg, logging.Setup(cfg.Log.Level, cfg.Log.Format), nil
}

// sessionConfig maps tracker configuration onto a session.
func sessionConfig(cfg *config.Config) usecases.SessionConfig {
	return usecases.SessionConfig{
		CatalogNumber: cfg.Tracker.CatalogNumber,
		PollInterval:  cfg.Tracker.PollInterval,
		Backfill: usecases.HistoryConfig{
			Window: cfg.Tracker.BackfillWindow,
			Step:   cfg.Tracker.BackfillStep,
			Policy: usecases.BackfillPolicy(strings.ToLower(cfg.Tracker.BackfillPolicy)),
		},
	}
}

// cameraConfig maps viewer configuration onto the camera.
func cameraConfig(cfg *config.Config) render.CameraConfig {
	return render.CameraConfig{
		Zoom:     cfg.Viewer.FlyZoom,
		Duration: cfg.Viewer.FlyDuration,
		Settle:   cfg.Viewer.FlySettle,
	}
}

// newSession builds a session polling the configured position service.
func newSession(cfg *config.Config, logger *slog.Logger) *usecases.Session {
	client := wheretheiss.NewClient(wheretheiss.Config{
		PositionURL: cfg.Tracker.PositionURL,
		HistoryURL:  cfg.Tracker.HistoryURL,
		Timeout:     cfg.Tracker.RequestTimeout,
	}, logger)
	return usecases.NewSession(sessionConfig(cfg), client, logger)
}
