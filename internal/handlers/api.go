// Copyright (c) 2026 Forge Journal Media <dev@forgejournal.com>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"forgejournal/internal/cache"
	"forgejournal/internal/models"
	"forgejournal/internal/publish"
)

// Publish groups the scheduled-publish lifecycle handlers. feedCache may
// be nil when Valkey is not configured; invalidation is skipped then.
type Publish struct {
	service   *publish.Service
	feedCache *cache.FeedCache
}

// NewPublish creates a new Publish handler group.
func NewPublish(service *publish.Service, feedCache *cache.FeedCache) *Publish {
	return &Publish{service: service, feedCache: feedCache}
}

type scheduleRequest struct {
	PostID      uuid.UUID `json:"postId"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

type cancelRequest struct {
	PostID uuid.UUID `json:"postId"`
}

type postEnvelope struct {
	Success bool         `json:"success"`
	Post    *models.Post `json:"post"`
}

type sweepEnvelope struct {
	Success        bool `json:"success"`
	PublishedCount int  `json:"published_count"`
}

// Schedule handles POST /schedule. It moves a post into the scheduled
// state for a future publication time.
func (h *Publish) Schedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Malformed request body.")
		return
	}
	if req.PostID == uuid.Nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "postId is required.")
		return
	}
	if req.ScheduledAt.IsZero() {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "scheduled_at is required.")
		return
	}

	post, err := h.service.Schedule(r.Context(), req.PostID, req.ScheduledAt)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, postEnvelope{Success: true, Post: post})
}

// CancelSchedule handles DELETE /schedule. It returns a scheduled post
// to the draft state.
func (h *Publish) CancelSchedule(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Malformed request body.")
		return
	}
	if req.PostID == uuid.Nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "postId is required.")
		return
	}

	post, err := h.service.CancelSchedule(r.Context(), req.PostID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, postEnvelope{Success: true, Post: post})
}

// Sweep handles POST /sweep. It publishes every scheduled post whose
// time has arrived and reports how many went live.
func (h *Publish) Sweep(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Sweep(r.Context())
	if err != nil {
		slog.Error("sweep failed", "error", err)
		writeError(w, http.StatusInternalServerError, CodeStoreUnavailable, "Sweep could not query due posts.")
		return
	}
	if count > 0 {
		h.invalidateFeed(r)
	}
	writeJSON(w, http.StatusOK, sweepEnvelope{Success: true, PublishedCount: count})
}

// PublishNow handles POST /admin/posts/{id}/publish. It takes a draft
// or scheduled post live immediately.
func (h *Publish) PublishNow(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	post, err := h.service.PublishNow(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.invalidateFeed(r)
	writeJSON(w, http.StatusOK, postEnvelope{Success: true, Post: post})
}

// Archive handles POST /admin/posts/{id}/archive. It retires a
// published post from the public site.
func (h *Publish) Archive(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	post, err := h.service.Archive(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if h.feedCache != nil {
		h.feedCache.InvalidatePost(r.Context(), post.Slug)
	}
	writeJSON(w, http.StatusOK, postEnvelope{Success: true, Post: post})
}

func (h *Publish) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid post ID.")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Publish) invalidateFeed(r *http.Request) {
	if h.feedCache != nil {
		h.feedCache.InvalidateAll(r.Context())
	}
}

// writeServiceError maps lifecycle errors onto API error envelopes.
func (h *Publish) writeServiceError(w http.ResponseWriter, err error) {
	var transErr *publish.InvalidTransitionError
	var timeErr *publish.InvalidScheduleTimeError

	switch {
	case errors.Is(err, publish.ErrNotFound):
		writeError(w, http.StatusNotFound, CodeNotFound, "Post not found.")
	case errors.As(err, &transErr):
		writeError(w, http.StatusBadRequest, CodeInvalidTransition, transErr.Error())
	case errors.As(err, &timeErr):
		writeError(w, http.StatusBadRequest, CodeInvalidScheduleTime, "Scheduled time must be in the future.")
	default:
		slog.Error("publish operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, CodeStoreUnavailable, "Post store is unavailable.")
	}
}
