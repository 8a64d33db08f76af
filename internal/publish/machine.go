// Copyright (c) 2026 Forge Journal Media <dev@forgejournal.com>
// All rights reserved. See LICENSE for details.

// Package publish implements the post publication lifecycle: the pure
// state machine over draft/scheduled/published/archived, and the service
// that applies its transitions against the post store with compare-and-set
// semantics.
package publish

import (
	"time"

	"forgejournal/internal/models"
)

// Action identifies a requested state-machine transition.
type Action string

const (
	ActionSchedule  Action = "schedule"
	ActionCancel    Action = "cancel"
	ActionPublish   Action = "publish-now"
	ActionSweepFire Action = "sweep-fire"
	ActionArchive   Action = "archive"
)

// Schedule moves a post into scheduled state with the given publish time.
// Legal from draft (first schedule) and from scheduled (re-schedule, which
// overwrites the pending time). The time must be strictly in the future.
func Schedule(p *models.Post, at, now time.Time) error {
	if p.Status != models.PostStatusDraft && p.Status != models.PostStatusScheduled {
		return &InvalidTransitionError{From: p.Status, Action: ActionSchedule}
	}
	if !at.After(now) {
		return &InvalidScheduleTimeError{Requested: at, Now: now}
	}
	t := at
	p.Status = models.PostStatusScheduled
	p.ScheduledPublishAt = &t
	p.UpdatedAt = now
	return nil
}

// Cancel returns a scheduled post to draft, clearing the pending publish
// time. Legal only from scheduled.
func Cancel(p *models.Post, now time.Time) error {
	if p.Status != models.PostStatusScheduled {
		return &InvalidTransitionError{From: p.Status, Action: ActionCancel}
	}
	p.Status = models.PostStatusDraft
	p.ScheduledPublishAt = nil
	p.UpdatedAt = now
	return nil
}

// PublishNow publishes a post immediately, from draft or scheduled. Any
// pending schedule is discarded. PublishedAt is set to now; the store
// keeps an earlier value if one somehow exists (write-once).
func PublishNow(p *models.Post, now time.Time) error {
	if p.Status != models.PostStatusDraft && p.Status != models.PostStatusScheduled {
		return &InvalidTransitionError{From: p.Status, Action: ActionPublish}
	}
	t := now
	p.Status = models.PostStatusPublished
	p.ScheduledPublishAt = nil
	p.PublishedAt = &t
	p.UpdatedAt = now
	return nil
}

// Fire applies the sweep transition: a due scheduled post becomes
// published. A post that is not scheduled, or whose publish time has not
// yet passed, is rejected.
func Fire(p *models.Post, now time.Time) error {
	if !p.IsDue(now) {
		return &InvalidTransitionError{From: p.Status, Action: ActionSweepFire}
	}
	t := now
	p.Status = models.PostStatusPublished
	p.ScheduledPublishAt = nil
	p.PublishedAt = &t
	p.UpdatedAt = now
	return nil
}

// Archive retires a published post. PublishedAt is kept; there is no
// republish transition, so archived is terminal.
func Archive(p *models.Post, now time.Time) error {
	if p.Status != models.PostStatusPublished {
		return &InvalidTransitionError{From: p.Status, Action: ActionArchive}
	}
	p.Status = models.PostStatusArchived
	p.UpdatedAt = now
	return nil
}
