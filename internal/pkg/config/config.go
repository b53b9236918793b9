package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Tracker   TrackerConfig   `mapstructure:"tracker"`
	Viewer    ViewerConfig    `mapstructure:"viewer"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// TrackerConfig configures the polling session.
type TrackerConfig struct {
	CatalogNumber  int           `mapstructure:"catalog_number"`
	PositionURL    string        `mapstructure:"position_url"`
	HistoryURL     string        `mapstructure:"history_url"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	BackfillWindow int           `mapstructure:"backfill_window"`
	BackfillStep   time.Duration `mapstructure:"backfill_step"`
	BackfillPolicy string        `mapstructure:"backfill_policy"`
}

// ViewerConfig configures render views.
type ViewerConfig struct {
	Theme       string        `mapstructure:"theme"`
	FlyZoom     int           `mapstructure:"fly_zoom"`
	FlyDuration time.Duration `mapstructure:"fly_duration"`
	FlySettle   time.Duration `mapstructure:"fly_settle"`
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Enabled bool   `mapstructure:"enabled"`
}

type ValkeyConfig struct {
	Addr        string        `mapstructure:"addr"`
	Enabled     bool          `mapstructure:"enabled"`
	SnapshotTTL time.Duration `mapstructure:"snapshot_ttl"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from .env, file and environment variables.
func Load(service string) (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v, service)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: ORBITRACK_TRACKER_POSITION_URL → tracker.position_url
	v.SetEnvPrefix("ORBITRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Tracker.HistoryURL == "" {
		cfg.Tracker.HistoryURL = strings.TrimRight(cfg.Tracker.PositionURL, "/") + "/positions"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, service string) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("tracker.catalog_number", 25544)
	v.SetDefault("tracker.position_url", "https://api.wheretheiss.at/v1/satellites/25544")
	v.SetDefault("tracker.history_url", "")
	v.SetDefault("tracker.poll_interval", "1s")
	v.SetDefault("tracker.request_timeout", "10s")
	v.SetDefault("tracker.backfill_window", 45)
	v.SetDefault("tracker.backfill_step", "60s")
	v.SetDefault("tracker.backfill_policy", "merge")
	v.SetDefault("viewer.theme", "light")
	v.SetDefault("viewer.fly_zoom", 3)
	v.SetDefault("viewer.fly_duration", "1s")
	v.SetDefault("viewer.fly_settle", "1100ms")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.enabled", false)
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("valkey.enabled", false)
	v.SetDefault("valkey.snapshot_ttl", "30s")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Tracker.CatalogNumber <= 0 {
		errs = append(errs, fmt.Sprintf("tracker.catalog_number must be positive, got %d", c.Tracker.CatalogNumber))
	}
	if c.Tracker.PositionURL == "" {
		errs = append(errs, "tracker.position_url is required")
	}
	if c.Tracker.PollInterval <= 0 {
		errs = append(errs, "tracker.poll_interval must be positive")
	}
	if c.Tracker.RequestTimeout <= 0 {
		errs = append(errs, "tracker.request_timeout must be positive")
	}
	if c.Tracker.BackfillWindow <= 0 {
		errs = append(errs, "tracker.backfill_window must be positive")
	}
	if c.Tracker.BackfillStep < time.Second {
		errs = append(errs, "tracker.backfill_step must be at least 1s")
	}
	switch c.Tracker.BackfillPolicy {
	case "merge", "replace":
	default:
		errs = append(errs, fmt.Sprintf("tracker.backfill_policy must be merge or replace, got %q", c.Tracker.BackfillPolicy))
	}
	switch strings.ToLower(c.Viewer.Theme) {
	case "light", "dark":
	default:
		errs = append(errs, fmt.Sprintf("viewer.theme must be light or dark, got %q", c.Viewer.Theme))
	}
	if c.Viewer.FlyZoom <= 0 {
		errs = append(errs, "viewer.fly_zoom must be positive")
	}
	if c.Viewer.FlySettle < c.Viewer.FlyDuration {
		errs = append(errs, "viewer.fly_settle must not be shorter than viewer.fly_duration")
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		errs = append(errs, "nats.url is required when nats is enabled")
	}
	if c.Valkey.Enabled && c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required when valkey is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
