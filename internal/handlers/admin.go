// Copyright (c) 2026 Forge Journal Media <dev@forgejournal.com>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"forgejournal/internal/cache"
	"forgejournal/internal/models"
	"forgejournal/internal/slug"
	"forgejournal/internal/store"
)

// Admin groups the back-office CRUD handlers for posts and ads. It never
// touches post lifecycle fields; those go through the Publish handlers.
type Admin struct {
	postStore *store.PostStore
	adStore   *store.AdStore
	feedCache *cache.FeedCache
}

// NewAdmin creates a new Admin handler group. feedCache may be nil.
func NewAdmin(postStore *store.PostStore, adStore *store.AdStore, feedCache *cache.FeedCache) *Admin {
	return &Admin{postStore: postStore, adStore: adStore, feedCache: feedCache}
}

type postRequest struct {
	Title    string     `json:"title"`
	Slug     string     `json:"slug"`
	Body     string     `json:"body"`
	Excerpt  *string    `json:"excerpt"`
	AuthorID uuid.UUID  `json:"author_id"`
	TopicID  *uuid.UUID `json:"topic_id"`
}

type postListEnvelope struct {
	Success bool          `json:"success"`
	Posts   []models.Post `json:"posts"`
}

// PostsList handles GET /admin/posts. Optional query parameters status,
// author_id, and topic_id narrow the result.
func (h *Admin) PostsList(w http.ResponseWriter, r *http.Request) {
	var filter store.PostFilter

	if v := r.URL.Query().Get("status"); v != "" {
		status := models.PostStatus(v)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Unknown status filter.")
			return
		}
		filter.Status = status
	}
	if v := r.URL.Query().Get("author_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid author_id filter.")
			return
		}
		filter.AuthorID = &id
	}
	if v := r.URL.Query().Get("topic_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid topic_id filter.")
			return
		}
		filter.TopicID = &id
	}

	posts, err := h.postStore.List(r.Context(), filter)
	if err != nil {
		slog.Error("admin post list failed", "error", err)
		writeError(w, http.StatusInternalServerError, CodeStoreUnavailable, "Post store is unavailable.")
		return
	}
	writeJSON(w, http.StatusOK, postListEnvelope{Success: true, Posts: posts})
}

// PostGet handles GET /admin/posts/{id}.
func (h *Admin) PostGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid post ID.")
		return
	}
	post, err := h.postStore.Find(r.Context(), id)
	if err != nil {
		slog.Error("admin post find failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, CodeStoreUnavailable, "Post store is unavailable.")
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, CodeNotFound, "Post not found.")
		return
	}
	writeJSON(w, http.StatusOK, postEnvelope{Success: true, Post: post})
}

// PostCreate handles POST /admin/posts. New posts always start as drafts.
func (h *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Malformed request body.")
		return
	}
	if msg := validatePost(req.Title, req.Slug, req.Body); msg != "" {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, msg)
		return
	}
	if req.AuthorID == uuid.Nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "author_id is required.")
		return
	}

	postSlug := strings.TrimSpace(req.Slug)
	if postSlug == "" {
		postSlug = slug.Generate(req.Title)
	}

	post := &models.Post{
		Title:    strings.TrimSpace(req.Title),
		Slug:     postSlug,
		Body:     req.Body,
		Excerpt:  req.Excerpt,
		AuthorID: req.AuthorID,
		TopicID:  req.TopicID,
	}
	created, err := h.postStore.Create(r.Context(), post)
	if err != nil {
		slog.Error("admin post create failed", "error", err)
		writeError(w, http.StatusInternalServerError, CodeStoreUnavailable, "Post store is unavailable.")
		return
	}
	writeJSON(w, http.StatusCreated, postEnvelope{Success: true, Post: created})
}

// PostUpdate handles PUT /admin/posts/{id}. Only editorial fields change;
// status and lifecycle timestamps are untouched.
func (h *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid post ID.")
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Malformed request body.")
		return
	}
	if msg := validatePost(req.Title, req.Slug, req.Body); msg != "" {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, msg)
		return
	}

	post, err := h.postStore.Find(r.Context(), id)
	if err != nil {
		slog.Error("admin post find failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, CodeStoreUnavailable, "Post store is unavailable.")
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, CodeNotFound, "Post not found.")
		return
	}

	oldSlug := post.Slug
	post.Title = strings.TrimSpace(req.Title)
	if s := strings.TrimSpace(req.Slug); s != "" {
		post.Slug = s
	}
	post.Body = req.Body
	post.Excerpt = req.Excerpt
	if req.AuthorID != uuid.Nil {
		post.AuthorID = req.AuthorID
	}
	post.TopicID = req.TopicID

	if err := h.postStore.Update(r.Context(), post); err != nil {
		slog.Error("admin post update failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, CodeStoreUnavailable, "Post store is unavailable.")
		return
	}

	// An edited published post is stale in the cache under both slugs.
	if h.feedCache != nil && post.IsPublished() {
		h.feedCache.InvalidatePost(r.Context(), oldSlug)
		if post.Slug != oldSlug {
			h.feedCache.InvalidatePost(r.Context(), post.Slug)
		}
	}
	writeJSON(w, http.StatusOK, postEnvelope{Success: true, Post: post})
}

// PostDelete handles DELETE /admin/posts/{id}.
func (h *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid post ID.")
		return
	}

	post, err := h.postStore.Find(r.Context(), id)
	if err != nil {
		slog.Error("admin post find failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, CodeStoreUnavailable, "Post store is unavailable.")
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, CodeNotFound, "Post not found.")
		return
	}

	if err := h.postStore.Delete(r.Context(), id); err != nil {
		slog.Error("admin post delete failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, CodeStoreUnavailable, "Post store is unavailable.")
		return
	}
	if h.feedCache != nil && post.IsPublished() {
		h.feedCache.InvalidatePost(r.Context(), post.Slug)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type adRequest struct {
	Name     string    `json:"name"`
	ImageURL string    `json:"image_url"`
	LinkURL  string    `json:"link_url"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Active   bool      `json:"active"`
}

type adEnvelope struct {
	Success bool       `json:"success"`
	Ad      *models.Ad `json:"ad"`
}

type adListEnvelope struct {
	Success bool        `json:"success"`
	Ads     []models.Ad `json:"ads"`
}

// AdsList handles GET /admin/ads.
func (h *Admin) AdsList(w http.ResponseWriter, r *http.Request) {
	ads, err := h.adStore.List(r.Context())
	if err != nil {
		slog.Error("admin ad list failed", "error", err)
		writeError(w, http.StatusInternalServerError, CodeStoreUnavailable, "Ad store is unavailable.")
		return
	}
	writeJSON(w, http.StatusOK, adListEnvelope{Success: true, Ads: ads})
}

// AdCreate handles POST /admin/ads.
func (h *Admin) AdCreate(w http.ResponseWriter, r *http.Request) {
	var req adRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Malformed request body.")
		return
	}
	if msg := validateAd(req.Name, req.ImageURL, req.LinkURL, req.StartsAt, req.EndsAt); msg != "" {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, msg)
		return
	}

	ad := &models.Ad{
		Name:     strings.TrimSpace(req.Name),
		ImageURL: req.ImageURL,
		LinkURL:  req.LinkURL,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		Active:   req.Active,
	}
	created, err := h.adStore.Create(r.Context(), ad)
	if err != nil {
		slog.Error("admin ad create failed", "error", err)
		writeError(w, http.StatusInternalServerError, CodeStoreUnavailable, "Ad store is unavailable.")
		return
	}
	writeJSON(w, http.StatusCreated, adEnvelope{Success: true, Ad: created})
}

// AdUpdate handles PUT /admin/ads/{id}.
func (h *Admin) AdUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid ad ID.")
		return
	}

	var req adRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Malformed request body.")
		return
	}
	if msg := validateAd(req.Name, req.ImageURL, req.LinkURL, req.StartsAt, req.EndsAt); msg != "" {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, msg)
		return
	}

	ad, err := h.adStore.Find(r.Context(), id)
	if err != nil {
		slog.Error("admin ad find failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, CodeStoreUnavailable, "Ad store is unavailable.")
		return
	}
	if ad == nil {
		writeError(w, http.StatusNotFound, CodeNotFound, "Ad not found.")
		return
	}

	ad.Name = strings.TrimSpace(req.Name)
	ad.ImageURL = req.ImageURL
	ad.LinkURL = req.LinkURL
	ad.StartsAt = req.StartsAt
	ad.EndsAt = req.EndsAt
	ad.Active = req.Active

	if err := h.adStore.Update(r.Context(), ad); err != nil {
		slog.Error("admin ad update failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, CodeStoreUnavailable, "Ad store is unavailable.")
		return
	}
	writeJSON(w, http.StatusOK, adEnvelope{Success: true, Ad: ad})
}

// AdDelete handles DELETE /admin/ads/{id}.
func (h *Admin) AdDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid ad ID.")
		return
	}
	if err := h.adStore.Delete(r.Context(), id); err != nil {
		slog.Error("admin ad delete failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, CodeStoreUnavailable, "Ad store is unavailable.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
