package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/samirrijal/orbitrack/internal/core/domain"
	"github.com/samirrijal/orbitrack/internal/core/ports"
	"github.com/samirrijal/orbitrack/internal/pkg/metrics"
)

const (
	// DefaultBackfillWindow is the number of past positions requested on startup.
	DefaultBackfillWindow = 45
	// DefaultBackfillStep is the spacing between requested past positions.
	DefaultBackfillStep = 60 * time.Second
)

// HistoryConfig configures the one-shot backfill.
type HistoryConfig struct {
	Window int
	Step   time.Duration
	Policy BackfillPolicy
}

// BackfillTimestamps returns window epoch seconds spaced step apart, oldest
// first, the last one being now.
func BackfillTimestamps(now time.Time, window int, step time.Duration) []int64 {
	if window <= 0 {
		return nil
	}
	end := now.Unix()
	stepSec := int64(step / time.Second)
	out := make([]int64, window)
	for i := range out {
		out[i] = end - int64(window-1-i)*stepSec
	}
	return out
}

// HistoryLoader reconstructs the recent trajectory once per session.
type HistoryLoader struct {
	source ports.PositionSource
	store  *PositionStore
	cfg    HistoryConfig
	now    func() time.Time
	logger *slog.Logger
}

// NewHistoryLoader creates a HistoryLoader, filling unset config with defaults.
func NewHistoryLoader(source ports.PositionSource, store *PositionStore, cfg HistoryConfig, logger *slog.Logger) *HistoryLoader {
	if cfg.Window <= 0 {
		cfg.Window = DefaultBackfillWindow
	}
	if cfg.Step <= 0 {
		cfg.Step = DefaultBackfillStep
	}
	if cfg.Policy == "" {
		cfg.Policy = BackfillMerge
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryLoader{source: source, store: store, cfg: cfg, now: time.Now, logger: logger}
}

// WithClock overrides the clock used to compute the backfill window.
func (h *HistoryLoader) WithClock(now func() time.Time) *HistoryLoader {
	h.now = now
	return h
}

// Load fetches the backfill window and seeds the store. On error the
// trajectory is left exactly as the poller has built it.
func (h *HistoryLoader) Load(ctx context.Context) error {
	requested := BackfillTimestamps(h.now(), h.cfg.Window, h.cfg.Step)

	fixes, err := h.source.History(ctx, requested)
	if err != nil {
		metrics.BackfillSamples.WithLabelValues("failed").Inc()
		return fmt.Errorf("fetch history: %w", err)
	}
	if ctx.Err() != nil {
		metrics.LateResultsDiscarded.Inc()
		return ctx.Err()
	}

	samples := make([]domain.Sample, len(fixes))
	for i, f := range fixes {
		ts := f.Timestamp
		if ts == 0 && i < len(requested) {
			ts = requested[i]
		}
		samples[i] = domain.Sample{Coordinate: f.Coordinate(), Timestamp: ts}
	}

	if err := h.store.Seed(samples, h.cfg.Policy); err != nil {
		if errors.Is(err, ErrStoreClosed) {
			metrics.LateResultsDiscarded.Inc()
		}
		return fmt.Errorf("seed trajectory: %w", err)
	}

	metrics.BackfillSamples.WithLabelValues("seeded").Add(float64(len(samples)))
	metrics.TrajectoryPoints.Set(float64(h.store.Len()))
	h.logger.Info("trajectory backfilled",
		"catalog_number", h.store.CatalogNumber(),
		"requested", len(requested),
		"received", len(samples),
		"policy", string(h.cfg.Policy),
	)
	return nil
}
