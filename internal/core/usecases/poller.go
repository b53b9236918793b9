package usecases

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/samirrijal/orbitrack/internal/core/domain"
	"github.com/samirrijal/orbitrack/internal/core/ports"
	"github.com/samirrijal/orbitrack/internal/pkg/metrics"
)

// DefaultPollInterval is the fixed cadence of position polls.
const DefaultPollInterval = time.Second

// Poller fetches the current position on a fixed interval and appends it to
// the store.
type Poller struct {
	source   ports.PositionSource
	store    *PositionStore
	interval time.Duration
	logger   *slog.Logger
	inflight sync.WaitGroup
}

// NewPoller creates a Poller. A non-positive interval selects DefaultPollInterval.
func NewPoller(source ports.PositionSource, store *PositionStore, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{source: source, store: store, interval: interval, logger: logger}
}

// Run polls once immediately and then every interval until ctx is cancelled.
// Ticks do not wait for each other: a slow fetch may overlap the next one and
// results are applied in completion order. Run returns once every fetch it
// started has finished.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	defer p.inflight.Wait()

	p.spawn(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.spawn(ctx)
		}
	}
}

func (p *Poller) spawn(ctx context.Context) {
	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		p.Poll(ctx)
	}()
}

// Poll performs one fetch and applies the outcome. A result arriving after
// ctx is cancelled or the store is closed is dropped.
func (p *Poller) Poll(ctx context.Context) {
	start := time.Now()
	fix, err := p.source.Current(ctx)
	metrics.PollDuration.Observe(time.Since(start).Seconds())

	if ctx.Err() != nil {
		metrics.LateResultsDiscarded.Inc()
		return
	}

	if err != nil {
		result, msg := "error", err.Error()
		if errors.Is(err, domain.ErrPositionUnavailable) {
			result, msg = "http_error", domain.ErrPositionUnavailable.Error()
		}
		metrics.PositionPolls.WithLabelValues(result).Inc()
		if errors.Is(p.store.RecordError(msg), ErrStoreClosed) {
			metrics.LateResultsDiscarded.Inc()
			return
		}
		p.logger.Warn("position poll failed", "catalog_number", p.store.CatalogNumber(), "error", err)
		return
	}

	if errors.Is(p.store.ApplyFix(*fix), ErrStoreClosed) {
		metrics.LateResultsDiscarded.Inc()
		return
	}
	metrics.PositionPolls.WithLabelValues("ok").Inc()
	metrics.TrajectoryPoints.Set(float64(p.store.Len()))
	p.logger.Debug("position updated",
		"lat", fix.Latitude,
		"lon", fix.Longitude,
		"velocity_kmh", fix.Velocity,
		"timestamp", fix.Timestamp,
	)
}
