// Copyright (c) 2026 Forge Journal Media <dev@forgejournal.com>
// All rights reserved. See LICENSE for details.

// Package sweeper runs the scheduled-publish sweep on a fixed interval.
// It is the background counterpart of the POST /sweep endpoint; both call
// the same service method, so overlapping runs are safe.
package sweeper

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"forgejournal/internal/cache"
)

// Runner is the sweep operation the ticker drives.
type Runner interface {
	Sweep(ctx context.Context) (int, error)
}

// Sweeper periodically publishes due posts. feedCache may be nil.
type Sweeper struct {
	runner    Runner
	feedCache *cache.FeedCache
	interval  time.Duration

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool
}

// New creates a Sweeper that fires every interval.
func New(runner Runner, feedCache *cache.FeedCache, interval time.Duration) *Sweeper {
	return &Sweeper{
		runner:    runner,
		feedCache: feedCache,
		interval:  interval,
	}
}

// Start launches the sweep loop. The first sweep runs immediately, then
// on every tick until Stop is called or ctx is cancelled. Calling Start
// on a running Sweeper is a no-op.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	stop, done := s.stop, s.done
	s.mu.Unlock()

	slog.Info("sweeper started", "interval", s.interval)

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.sweep(ctx)
		for {
			select {
			case <-ticker.C:
				s.sweep(ctx)
			case <-stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the sweep loop and waits for any in-flight sweep to finish.
// Safe to call on a stopped Sweeper.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()

	<-done
	slog.Info("sweeper stopped")
}

func (s *Sweeper) sweep(ctx context.Context) {
	count, err := s.runner.Sweep(ctx)
	if err != nil {
		slog.Error("sweep run failed", "error", err)
		return
	}
	if count > 0 {
		slog.Info("sweep published posts", "count", count)
		if s.feedCache != nil {
			s.feedCache.InvalidateAll(ctx)
		}
	}
}
