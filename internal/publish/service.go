// Copyright (c) 2026 Forge Journal Media <dev@forgejournal.com>
// All rights reserved. See LICENSE for details.

package publish

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"forgejournal/internal/models"
)

// DefaultSweepTimeout bounds a single sweep invocation. A slow store must
// not let an overlapping timer trigger pile up behind a stuck one.
const DefaultSweepTimeout = 30 * time.Second

// PostStore is the persistence surface the publication service needs.
//
// Transition must be atomic at the store level: it applies next's status,
// scheduled_publish_at, and published_at (write-once) only if the stored
// row still has status from and the expected scheduled time, and reports
// whether the write took effect. A false result with nil error means
// another writer won the race, which the callers treat as expected.
type PostStore interface {
	Find(ctx context.Context, id uuid.UUID) (*models.Post, error)
	ListDue(ctx context.Context, now time.Time) ([]models.Post, error)
	Transition(ctx context.Context, next *models.Post, from models.PostStatus, expectScheduledAt *time.Time) (bool, error)
}

// Service applies state-machine transitions against the post store.
// The clock is injected so tests can simulate due and not-due schedules
// without real delays.
type Service struct {
	store        PostStore
	now          func() time.Time
	sweepTimeout time.Duration
}

// NewService creates a publication service. A nil clock means wall-clock
// time; a zero sweepTimeout means DefaultSweepTimeout.
func NewService(store PostStore, clock func() time.Time, sweepTimeout time.Duration) *Service {
	if clock == nil {
		clock = time.Now
	}
	if sweepTimeout <= 0 {
		sweepTimeout = DefaultSweepTimeout
	}
	return &Service{store: store, now: clock, sweepTimeout: sweepTimeout}
}

// Schedule requests that the post be published at the given future time.
func (s *Service) Schedule(ctx context.Context, id uuid.UUID, at time.Time) (*models.Post, error) {
	return s.transition(ctx, id, ActionSchedule, func(p *models.Post, now time.Time) error {
		return Schedule(p, at, now)
	})
}

// CancelSchedule withdraws a pending publish time, returning the post to
// draft.
func (s *Service) CancelSchedule(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return s.transition(ctx, id, ActionCancel, Cancel)
}

// PublishNow publishes the post immediately, discarding any pending
// schedule.
func (s *Service) PublishNow(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return s.transition(ctx, id, ActionPublish, PublishNow)
}

// Archive retires a published post.
func (s *Service) Archive(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return s.transition(ctx, id, ActionArchive, Archive)
}

// transition loads the post, applies the state-machine mutation, and
// persists it under the compare-and-set guard. If the guard fails the
// post is reloaded so the error names the state that actually won.
func (s *Service) transition(ctx context.Context, id uuid.UUID, action Action, apply func(*models.Post, time.Time) error) (*models.Post, error) {
	p, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load post: %w", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}

	prevStatus := p.Status
	prevScheduledAt := cloneTime(p.ScheduledPublishAt)

	if err := apply(p, s.now()); err != nil {
		return nil, err
	}

	ok, err := s.store.Transition(ctx, p, prevStatus, prevScheduledAt)
	if err != nil {
		return nil, fmt.Errorf("persist %s: %w", action, err)
	}
	if !ok {
		// Another writer moved the post between our read and write.
		// Report the transition against the state that won.
		cur, err := s.store.Find(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("reload post after lost race: %w", err)
		}
		if cur == nil {
			return nil, ErrNotFound
		}
		return nil, &InvalidTransitionError{From: cur.Status, Action: action}
	}
	return p, nil
}

// Sweep finds every scheduled post whose publish time has passed and
// transitions it to published. It returns the number of posts actually
// published by this invocation.
//
// Each due post is claimed with a conditional update, so overlapping
// sweeps (timer plus manual trigger) and racing cancels are safe: the
// loser of any race observes a failed guard and skips the post. A store
// failure on one post aborts only that post's transition; a failure of
// the due query fails the whole sweep with zero published, so callers can
// tell "zero due" from "sweep errored".
func (s *Service) Sweep(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.sweepTimeout)
	defer cancel()

	now := s.now()
	due, err := s.store.ListDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list due posts: %w", err)
	}

	published := 0
	for i := range due {
		p := due[i]
		prevScheduledAt := cloneTime(p.ScheduledPublishAt)

		if err := Fire(&p, now); err != nil {
			// ListDue should only return due posts; treat anything else
			// as a skip rather than failing the batch.
			slog.Warn("sweep: post not fireable", "post_id", p.ID, "error", err)
			continue
		}

		ok, err := s.store.Transition(ctx, &p, models.PostStatusScheduled, prevScheduledAt)
		if err != nil {
			slog.Warn("sweep: transition failed", "post_id", p.ID, "error", err)
			continue
		}
		if !ok {
			// Cancelled or manually published since the query ran.
			slog.Debug("sweep: lost conditional update", "post_id", p.ID)
			continue
		}

		published++
		slog.Info("scheduled post published", "post_id", p.ID, "slug", p.Slug)
	}
	return published, nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
