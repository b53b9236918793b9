package usecases_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samirrijal/orbitrack/internal/core/domain"
	"github.com/samirrijal/orbitrack/internal/core/usecases"
)

func TestPoller_HTTPFailureKeepsState(t *testing.T) {
	store := usecases.NewPositionStore(25544)
	_ = store.ApplyFix(*fix(10, 20, 100))
	before := store.Snapshot()

	src := &mockSource{currentFn: func(ctx context.Context) (*domain.Fix, error) {
		return nil, fmt.Errorf("%w: HTTP 500", domain.ErrPositionUnavailable)
	}}
	usecases.NewPoller(src, store, time.Second, nil).Poll(context.Background())

	after := store.Snapshot()
	if after.LastError != "failed to fetch current position" {
		t.Errorf("expected fixed failure message, got %q", after.LastError)
	}
	if *after.Position != *before.Position {
		t.Errorf("position changed: %v -> %v", before.Position, after.Position)
	}
	if !reflect.DeepEqual(after.Trajectory, before.Trajectory) {
		t.Errorf("trajectory changed: %v -> %v", before.Trajectory, after.Trajectory)
	}
}

func TestPoller_ExceptionMessageIsRecorded(t *testing.T) {
	store := usecases.NewPositionStore(25544)
	src := &mockSource{currentFn: func(ctx context.Context) (*domain.Fix, error) {
		return nil, errors.New("decode position: unexpected EOF")
	}}
	usecases.NewPoller(src, store, time.Second, nil).Poll(context.Background())

	snap := store.Snapshot()
	if snap.LastError != "decode position: unexpected EOF" {
		t.Errorf("unexpected last error %q", snap.LastError)
	}
	if snap.Position != nil || len(snap.Trajectory) != 0 {
		t.Errorf("failed poll must not touch position: %+v", snap)
	}
	if snap.Loading {
		t.Error("expected loading to settle after the first attempt")
	}
}

func TestPoller_SuccessAfterFailure(t *testing.T) {
	store := usecases.NewPositionStore(25544)
	_ = store.ApplyFix(*fix(1, 1, 1))
	_ = store.RecordError("failed to fetch current position")
	n := store.Len()

	src := &mockSource{currentFn: func(ctx context.Context) (*domain.Fix, error) {
		return fix(2, 3, 2), nil
	}}
	usecases.NewPoller(src, store, time.Second, nil).Poll(context.Background())

	snap := store.Snapshot()
	if snap.LastError != "" {
		t.Errorf("expected last error cleared, got %q", snap.LastError)
	}
	if *snap.Position != pt(2, 3) {
		t.Errorf("expected position (2,3), got %v", *snap.Position)
	}
	if len(snap.Trajectory) != n+1 {
		t.Errorf("expected trajectory to grow by one, %d -> %d", n, len(snap.Trajectory))
	}
}

func TestPoller_DiscardsResultAfterCancel(t *testing.T) {
	store := usecases.NewPositionStore(25544)
	release := make(chan struct{})
	src := &mockSource{currentFn: func(ctx context.Context) (*domain.Fix, error) {
		<-release
		return fix(1, 1, 1), nil
	}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		usecases.NewPoller(src, store, time.Second, nil).Poll(ctx)
		close(done)
	}()

	cancel()
	close(release)
	<-done

	if store.Len() != 0 || store.Snapshot().Position != nil {
		t.Errorf("late result was applied: %+v", store.Snapshot())
	}
}

func TestPoller_OverlappingFetchesApplyInCompletionOrder(t *testing.T) {
	store := usecases.NewPositionStore(25544)
	slow := make(chan struct{})
	var calls atomic.Int32
	src := &mockSource{currentFn: func(ctx context.Context) (*domain.Fix, error) {
		if calls.Add(1) == 1 {
			<-slow
			return fix(1, 1, 1), nil
		}
		return fix(2, 2, 2), nil
	}}
	p := usecases.NewPoller(src, store, time.Second, nil)

	first := make(chan struct{})
	go func() {
		p.Poll(context.Background())
		close(first)
	}()
	waitFor(t, "first fetch to start", func() bool { return calls.Load() == 1 })

	p.Poll(context.Background())
	close(slow)
	<-first

	snap := store.Snapshot()
	want := trajectoryOf(pt(2, 2), pt(1, 1))
	if !reflect.DeepEqual(snap.Trajectory, want) {
		t.Errorf("expected completion order %v, got %v", want, snap.Trajectory)
	}
	if *snap.Position != pt(1, 1) {
		t.Errorf("expected last applied result to win, got %v", *snap.Position)
	}
}

func TestPoller_RunPollsImmediatelyAndStops(t *testing.T) {
	store := usecases.NewPositionStore(25544)
	var calls atomic.Int32
	src := &mockSource{currentFn: func(ctx context.Context) (*domain.Fix, error) {
		n := calls.Add(1)
		return fix(float64(n), 0, int64(n)), nil
	}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		usecases.NewPoller(src, store, time.Hour, nil).Run(ctx)
		close(done)
	}()

	waitFor(t, "immediate poll", func() bool { return store.Len() == 1 })
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if calls.Load() != 1 {
		t.Errorf("expected exactly one poll, got %d", calls.Load())
	}
}

func TestPoller_RunRepeatsOnInterval(t *testing.T) {
	store := usecases.NewPositionStore(25544)
	var calls atomic.Int32
	src := &mockSource{currentFn: func(ctx context.Context) (*domain.Fix, error) {
		n := calls.Add(1)
		return fix(0, 0, int64(n)), nil
	}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go usecases.NewPoller(src, store, 10*time.Millisecond, nil).Run(ctx)

	waitFor(t, "several polls", func() bool { return store.Len() >= 3 })
}
