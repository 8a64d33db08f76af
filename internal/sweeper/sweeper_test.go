// Copyright (c) 2026 Forge Journal Media <dev@forgejournal.com>
// All rights reserved. See LICENSE for details.

package sweeper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// countingRunner records sweep invocations.
type countingRunner struct {
	mu    sync.Mutex
	calls int
	count int
	err   error
}

func (r *countingRunner) Sweep(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.count, r.err
}

func (r *countingRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func TestSweeperRunsImmediately(t *testing.T) {
	runner := &countingRunner{}
	s := New(runner, nil, time.Hour)

	s.Start(context.Background())
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for runner.callCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("sweeper did not run an initial sweep")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSweeperTicks(t *testing.T) {
	runner := &countingRunner{}
	s := New(runner, nil, 20*time.Millisecond)

	s.Start(context.Background())
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for runner.callCount() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("sweeper ran %d times, want at least 3", runner.callCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSweeperStop(t *testing.T) {
	runner := &countingRunner{}
	s := New(runner, nil, 10*time.Millisecond)

	s.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	calls := runner.callCount()
	time.Sleep(50 * time.Millisecond)
	if runner.callCount() != calls {
		t.Errorf("sweeper kept running after Stop: %d -> %d", calls, runner.callCount())
	}

	// Stop again is a no-op.
	s.Stop()
}

func TestSweeperContextCancel(t *testing.T) {
	runner := &countingRunner{}
	s := New(runner, nil, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	time.Sleep(30 * time.Millisecond)
	cancel()
	time.Sleep(30 * time.Millisecond)

	calls := runner.callCount()
	time.Sleep(50 * time.Millisecond)
	if runner.callCount() != calls {
		t.Errorf("sweeper kept running after cancel: %d -> %d", calls, runner.callCount())
	}
}

func TestSweeperDoubleStart(t *testing.T) {
	runner := &countingRunner{}
	s := New(runner, nil, time.Hour)

	s.Start(context.Background())
	s.Start(context.Background())
	defer s.Stop()

	deadline := time.Now().Add(time.Second)
	for runner.callCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("sweeper never ran")
		}
		time.Sleep(10 * time.Millisecond)
	}
	// A second Start must not spawn a second loop. With an hour-long
	// interval only initial sweeps could add calls; exactly one loop
	// means exactly one call.
	time.Sleep(50 * time.Millisecond)
	if got := runner.callCount(); got != 1 {
		t.Errorf("calls = %d, want 1 after double Start", got)
	}
}

func TestSweeperSurvivesErrors(t *testing.T) {
	runner := &countingRunner{err: errors.New("store down")}
	s := New(runner, nil, 15*time.Millisecond)

	s.Start(context.Background())
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for runner.callCount() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("sweeper stopped retrying after an error")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
