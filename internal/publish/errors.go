// Copyright (c) 2026 Forge Journal Media <dev@forgejournal.com>
// All rights reserved. See LICENSE for details.

package publish

import (
	"errors"
	"fmt"
	"time"

	"forgejournal/internal/models"
)

// ErrNotFound is returned when the referenced post does not exist.
var ErrNotFound = errors.New("post not found")

// InvalidTransitionError is returned when a requested action is illegal
// from the post's current state. It carries both so callers can surface
// a debuggable message.
type InvalidTransitionError struct {
	From   models.PostStatus
	Action Action
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: cannot %s a %s post", e.Action, e.From)
}

// InvalidScheduleTimeError is returned when a schedule request names a
// time that is not strictly in the future.
type InvalidScheduleTimeError struct {
	Requested time.Time
	Now       time.Time
}

func (e *InvalidScheduleTimeError) Error() string {
	return fmt.Sprintf("invalid schedule time: %s is not in the future (now %s)",
		e.Requested.Format(time.RFC3339), e.Now.Format(time.RFC3339))
}
