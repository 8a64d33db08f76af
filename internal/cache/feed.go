// Copyright (c) 2026 Forge Journal Media <dev@forgejournal.com>
// All rights reserved. See LICENSE for details.

// feed.go provides a Valkey-backed cache for public API responses.
// The homepage feed and individual article payloads are stored as
// serialized JSON so repeat requests skip the database entirely. Every
// mutation that changes public visibility (publish, sweep, archive,
// edit, delete) invalidates the affected keys.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// feedKeyPrefix namespaces cached response keys in Valkey.
	feedKeyPrefix = "feed:"

	// DefaultFeedTTL is how long a cached response stays valid without
	// explicit invalidation.
	DefaultFeedTTL = 5 * time.Minute
)

// FeedCache manages cached public API responses in Valkey.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache creates a feed cache backed by the given Valkey client.
func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	if ttl == 0 {
		ttl = DefaultFeedTTL
	}
	return &FeedCache{client: client, ttl: ttl}
}

// Get retrieves a cached response body. Returns false on miss.
func (fc *FeedCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := fc.client.Get(ctx, feedKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("feed cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("feed cache hit", "key", key)
	return val, true
}

// Set stores a response body under key with the configured TTL.
func (fc *FeedCache) Set(ctx context.Context, key string, body []byte) {
	if err := fc.client.Set(ctx, feedKeyPrefix+key, body, fc.ttl).Err(); err != nil {
		slog.Warn("feed cache set error", "key", key, "error", err)
	}
}

// InvalidatePost removes a single cached article by its slug, along with
// the feed listing that may show it.
func (fc *FeedCache) InvalidatePost(ctx context.Context, slug string) {
	if err := fc.client.Del(ctx, feedKeyPrefix+PostKey(slug), feedKeyPrefix+FeedKey()).Err(); err != nil {
		slog.Warn("feed cache invalidate error", "slug", slug, "error", err)
	}
	slog.Debug("feed cache invalidated", "slug", slug)
}

// InvalidateAll removes every cached response by scanning for the prefix.
// Used after a sweep publishes posts, since listings and topic/author
// pages may all change at once.
func (fc *FeedCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := fc.client.Scan(ctx, cursor, feedKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("feed cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := fc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("feed cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("feed cache fully cleared", "deleted", deleted)
	}
}

// FeedKey returns the cache key for the homepage feed.
func FeedKey() string {
	return "_feed"
}

// PostKey returns the cache key for a single article by slug.
func PostKey(slug string) string {
	return "post:" + slug
}
