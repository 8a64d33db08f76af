// Copyright (c) 2026 Forge Journal Media <dev@forgejournal.com>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"forgejournal/internal/cache"
	"forgejournal/internal/models"
	"forgejournal/internal/store"
)

// Public groups the reader-facing API handlers. The feed and individual
// posts are served through the Valkey cache when one is configured.
type Public struct {
	postStore   *store.PostStore
	authorStore *store.AuthorStore
	topicStore  *store.TopicStore
	adStore     *store.AdStore
	feedCache   *cache.FeedCache
	clock       func() time.Time
}

// NewPublic creates a new Public handler group. feedCache may be nil;
// clock may be nil to use time.Now.
func NewPublic(postStore *store.PostStore, authorStore *store.AuthorStore, topicStore *store.TopicStore, adStore *store.AdStore, feedCache *cache.FeedCache, clock func() time.Time) *Public {
	if clock == nil {
		clock = time.Now
	}
	return &Public{
		postStore:   postStore,
		authorStore: authorStore,
		topicStore:  topicStore,
		adStore:     adStore,
		feedCache:   feedCache,
		clock:       clock,
	}
}

// Feed handles GET /feed: every published post, newest first.
func (h *Public) Feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.feedCache != nil {
		if body, ok := h.feedCache.Get(ctx, cache.FeedKey()); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(body)
			return
		}
	}

	posts, err := h.postStore.ListPublished(ctx)
	if err != nil {
		slog.Error("feed list failed", "error", err)
		writeError(w, http.StatusInternalServerError, CodeStoreUnavailable, "Post store is unavailable.")
		return
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(postListEnvelope{Success: true, Posts: posts}); err != nil {
		slog.Error("feed encode failed", "error", err)
		writeError(w, http.StatusInternalServerError, CodeStoreUnavailable, "Post store is unavailable.")
		return
	}
	if h.feedCache != nil {
		h.feedCache.Set(ctx, cache.FeedKey(), buf.Bytes())
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(buf.Bytes())
}

// PostBySlug handles GET /posts/{slug}. Only published posts are visible;
// drafts, scheduled, and archived posts 404 like they never existed.
func (h *Public) PostBySlug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	postSlug := chi.URLParam(r, "slug")

	if h.feedCache != nil {
		if body, ok := h.feedCache.Get(ctx, cache.PostKey(postSlug)); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(body)
			return
		}
	}

	post, err := h.postStore.FindPublishedBySlug(ctx, postSlug)
	if err != nil {
		slog.Error("post lookup failed", "error", err, "slug", postSlug)
		writeError(w, http.StatusInternalServerError, CodeStoreUnavailable, "Post store is unavailable.")
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, CodeNotFound, "Post not found.")
		return
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(postEnvelope{Success: true, Post: post}); err != nil {
		slog.Error("post encode failed", "error", err)
		writeError(w, http.StatusInternalServerError, CodeStoreUnavailable, "Post store is unavailable.")
		return
	}
	if h.feedCache != nil {
		h.feedCache.Set(ctx, cache.PostKey(postSlug), buf.Bytes())
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(buf.Bytes())
}

// Topics handles GET /topics.
func (h *Public) Topics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.topicStore.List(r.Context())
	if err != nil {
		slog.Error("topic list failed", "error", err)
		writeError(w, http.StatusInternalServerError, CodeStoreUnavailable, "Topic store is unavailable.")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool           `json:"success"`
		Topics  []models.Topic `json:"topics"`
	}{true, topics})
}

// TopicPosts handles GET /topics/{slug}/posts: published posts in a topic.
func (h *Public) TopicPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	topicSlug := chi.URLParam(r, "slug")

	topic, err := h.topicStore.FindBySlug(ctx, topicSlug)
	if err != nil {
		slog.Error("topic lookup failed", "error", err, "slug", topicSlug)
		writeError(w, http.StatusInternalServerError, CodeStoreUnavailable, "Topic store is unavailable.")
		return
	}
	if topic == nil {
		writeError(w, http.StatusNotFound, CodeNotFound, "Topic not found.")
		return
	}

	posts, err := h.postStore.ListPublishedByTopic(ctx, topicSlug)
	if err != nil {
		slog.Error("topic posts failed", "error", err, "slug", topicSlug)
		writeError(w, http.StatusInternalServerError, CodeStoreUnavailable, "Post store is unavailable.")
		return
	}
	writeJSON(w, http.StatusOK, postListEnvelope{Success: true, Posts: posts})
}

// Authors handles GET /authors.
func (h *Public) Authors(w http.ResponseWriter, r *http.Request) {
	authors, err := h.authorStore.List(r.Context())
	if err != nil {
		slog.Error("author list failed", "error", err)
		writeError(w, http.StatusInternalServerError, CodeStoreUnavailable, "Author store is unavailable.")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool            `json:"success"`
		Authors []models.Author `json:"authors"`
	}{true, authors})
}

// AuthorPosts handles GET /authors/{id}/posts: published posts by one author.
func (h *Public) AuthorPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid author ID.")
		return
	}

	author, err := h.authorStore.Find(ctx, id)
	if err != nil {
		slog.Error("author lookup failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, CodeStoreUnavailable, "Author store is unavailable.")
		return
	}
	if author == nil {
		writeError(w, http.StatusNotFound, CodeNotFound, "Author not found.")
		return
	}

	posts, err := h.postStore.ListPublishedByAuthor(ctx, id)
	if err != nil {
		slog.Error("author posts failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, CodeStoreUnavailable, "Post store is unavailable.")
		return
	}
	writeJSON(w, http.StatusOK, postListEnvelope{Success: true, Posts: posts})
}

// ActiveAds handles GET /ads/active: every ad live right now.
func (h *Public) ActiveAds(w http.ResponseWriter, r *http.Request) {
	ads, err := h.adStore.ListActive(r.Context(), h.clock())
	if err != nil {
		slog.Error("active ads failed", "error", err)
		writeError(w, http.StatusInternalServerError, CodeStoreUnavailable, "Ad store is unavailable.")
		return
	}
	writeJSON(w, http.StatusOK, adListEnvelope{Success: true, Ads: ads})
}
