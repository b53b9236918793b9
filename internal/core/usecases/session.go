package usecases

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/samirrijal/orbitrack/internal/core/ports"
)

// ErrSessionStarted is returned when Start is called more than once.
var ErrSessionStarted = errors.New("session already started")

// SessionConfig configures one tracking session.
type SessionConfig struct {
	CatalogNumber int
	PollInterval  time.Duration
	Backfill      HistoryConfig
}

// Session ties the poller, the one-shot backfill and the position store to a
// single lifetime. Stop is the teardown: after it returns the store is never
// mutated again, even by fetches that were in flight.
type Session struct {
	store   *PositionStore
	poller  *Poller
	history *HistoryLoader
	logger  *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	ctx     context.Context
	wg      sync.WaitGroup
	started bool
	stopped bool
}

// NewSession wires a session around source.
func NewSession(cfg SessionConfig, source ports.PositionSource, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("catalog_number", cfg.CatalogNumber)

	store := NewPositionStore(cfg.CatalogNumber)
	return &Session{
		store:   store,
		poller:  NewPoller(source, store, cfg.PollInterval, logger),
		history: NewHistoryLoader(source, store, cfg.Backfill, logger),
		logger:  logger,
	}
}

// Store returns the session's position store for read access.
func (s *Session) Store() *PositionStore {
	return s.store
}

// History exposes the backfill loader, mainly so tests can pin its clock.
func (s *Session) History() *HistoryLoader {
	return s.history
}

// Start launches the poller and the backfill concurrently.
func (s *Session) Start(parent context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrSessionStarted
	}
	s.started = true
	s.ctx, s.cancel = context.WithCancel(parent)

	s.logger.Info("tracking session started")

	s.goLocked(s.poller.Run)
	s.goLocked(func(ctx context.Context) {
		if err := s.history.Load(ctx); err != nil && ctx.Err() == nil {
			// Degraded mode: the trail fills in from live polling only.
			s.logger.Warn("backfill failed", "error", err)
		}
	})
	return nil
}

// Go runs fn for the lifetime of the session. fn must return once its
// context is cancelled.
func (s *Session) Go(fn func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started || s.stopped {
		return
	}
	s.goLocked(fn)
}

func (s *Session) goLocked(fn func(ctx context.Context)) {
	ctx := s.ctx
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(ctx)
	}()
}

// Stop cancels the session, closes the store and waits for background work
// to drain. It is safe to call more than once.
func (s *Session) Stop() {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.stopped = true
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.cancel()
	s.store.Close()
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("tracking session stopped", "trajectory_points", s.store.Len())
}
