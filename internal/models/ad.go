// Copyright (c) 2026 Forge Journal Media <dev@forgejournal.com>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Ad is a sponsor placement managed from the back office. An ad is shown
// on the public site only while Active is true and now falls inside the
// [StartsAt, EndsAt) window.
type Ad struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"image_url"`
	LinkURL   string    `json:"link_url"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Live reports whether the ad should currently be served.
func (a *Ad) Live(now time.Time) bool {
	return a.Active && !now.Before(a.StartsAt) && now.Before(a.EndsAt)
}
