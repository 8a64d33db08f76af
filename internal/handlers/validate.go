// Copyright (c) 2026 Forge Journal Media <dev@forgejournal.com>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Validation limits for editorial and ad fields.
const (
	maxTitleLen   = 300
	maxSlugLen    = 300
	maxBodyLen    = 100_000
	maxExcerptLen = 1_000
	maxAdNameLen  = 200
	maxURLLen     = 2_000
)

// validatePost checks post editorial inputs and returns the first error found.
func validatePost(title, postSlug, body string) string {
	if strings.TrimSpace(title) == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return fmt.Sprintf("Title is too long (max %d characters).", maxTitleLen)
	}
	if utf8.RuneCountInString(postSlug) > maxSlugLen {
		return fmt.Sprintf("Slug is too long (max %d characters).", maxSlugLen)
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return fmt.Sprintf("Body is too long (max %d characters).", maxBodyLen)
	}
	return ""
}

// validateAd checks ad inputs and returns the first error found.
func validateAd(name, imageURL, linkURL string, startsAt, endsAt time.Time) string {
	if strings.TrimSpace(name) == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxAdNameLen {
		return fmt.Sprintf("Name is too long (max %d characters).", maxAdNameLen)
	}
	if imageURL == "" || linkURL == "" {
		return "Image and link URLs are required."
	}
	if len(imageURL) > maxURLLen || len(linkURL) > maxURLLen {
		return fmt.Sprintf("URLs must be at most %d characters.", maxURLLen)
	}
	if startsAt.IsZero() || endsAt.IsZero() {
		return "Display window is required."
	}
	if !endsAt.After(startsAt) {
		return "Display window must end after it starts."
	}
	return ""
}
