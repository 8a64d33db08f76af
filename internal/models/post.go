// Copyright (c) 2026 Forge Journal Media <dev@forgejournal.com>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publication state of a post. All transitions
// between states go through the publish package's state machine.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

// Valid reports whether s is one of the four known publication states.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusScheduled, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

// Post is a journal article. ScheduledPublishAt is non-nil exactly when
// Status is scheduled; PublishedAt is set once, on the first transition
// into published, and survives archiving. The lifecycle timestamps are
// serialized without omitempty so admin tooling sees explicit nulls.
type Post struct {
	ID                 uuid.UUID  `json:"id"`
	Title              string     `json:"title"`
	Slug               string     `json:"slug"`
	Body               string     `json:"body"`
	Excerpt            *string    `json:"excerpt,omitempty"`
	Status             PostStatus `json:"status"`
	AuthorID           uuid.UUID  `json:"author_id"`
	TopicID            *uuid.UUID `json:"topic_id,omitempty"`
	ScheduledPublishAt *time.Time `json:"scheduled_publish_at"`
	PublishedAt        *time.Time `json:"published_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// IsDue reports whether the post is scheduled and its publish time has
// passed relative to now.
func (p *Post) IsDue(now time.Time) bool {
	return p.Status == PostStatusScheduled &&
		p.ScheduledPublishAt != nil &&
		!p.ScheduledPublishAt.After(now)
}
