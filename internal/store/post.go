// Copyright (c) 2026 Forge Journal Media <dev@forgejournal.com>
// All rights reserved. See LICENSE for details.

// Package store contains the Postgres-backed data stores. Stores return
// nil (not an error) for rows that do not exist; all mutations to a
// post's publication state go through PostStore.Transition, which is the
// compare-and-set primitive the publish service relies on.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"forgejournal/internal/models"
)

// postColumns is the select list shared by every post query, kept in one
// place so Scan call sites stay in sync.
const postColumns = `id, title, slug, body, excerpt, status, author_id, topic_id,
       scheduled_publish_at, published_at, created_at, updated_at`

// PostFilter narrows the admin post listing. Zero values mean "any".
type PostFilter struct {
	Status   models.PostStatus
	AuthorID *uuid.UUID
	TopicID  *uuid.UUID
}

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	p := &models.Post{}
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Body, &p.Excerpt, &p.Status,
		&p.AuthorID, &p.TopicID, &p.ScheduledPublishAt, &p.PublishedAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Find retrieves a post by its UUID. Returns nil if not found.
func (s *PostStore) Find(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindPublishedBySlug retrieves a published post by slug. Drafts,
// scheduled, and archived posts are invisible to the public site.
func (s *PostStore) FindPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE slug = $1 AND status = 'published'`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// List returns posts for the admin back office, newest first, narrowed by
// the optional filter fields.
func (s *PostStore) List(ctx context.Context, filter PostFilter) ([]models.Post, error) {
	qb := sq.Select(postColumns).
		From("posts").
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if filter.Status != "" {
		qb = qb.Where(sq.Eq{"status": filter.Status})
	}
	if filter.AuthorID != nil {
		qb = qb.Where(sq.Eq{"author_id": *filter.AuthorID})
	}
	if filter.TopicID != nil {
		qb = qb.Where(sq.Eq{"topic_id": *filter.TopicID})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build post list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

// ListPublished returns published posts newest-publication-first. This is
// the homepage feed query.
func (s *PostStore) ListPublished(ctx context.Context) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE status = 'published'
		ORDER BY published_at DESC NULLS LAST
	`)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

// ListPublishedByTopic returns published posts under a topic slug.
func (s *PostStore) ListPublishedByTopic(ctx context.Context, topicSlug string) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+qualifiedPostColumns+`
		FROM posts p
		JOIN topics t ON t.id = p.topic_id
		WHERE p.status = 'published' AND t.slug = $1
		ORDER BY p.published_at DESC NULLS LAST
	`, topicSlug)
	if err != nil {
		return nil, fmt.Errorf("list posts by topic: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

// ListPublishedByAuthor returns published posts with the given byline.
func (s *PostStore) ListPublishedByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE status = 'published' AND author_id = $1
		ORDER BY published_at DESC NULLS LAST
	`, authorID)
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

// ListDue returns every scheduled post whose publish time has passed.
// The sweep claims each returned post individually via Transition.
func (s *PostStore) ListDue(ctx context.Context, now time.Time) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE status = 'scheduled' AND scheduled_publish_at <= $1
		ORDER BY scheduled_publish_at
	`, now)
	if err != nil {
		return nil, fmt.Errorf("list due posts: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

// Create inserts a new post and returns it with generated fields. New
// posts always start as drafts; publication state is only ever changed
// through Transition.
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	created, err := scanPost(s.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, slug, body, excerpt, author_id, topic_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+postColumns,
		p.Title, p.Slug, p.Body, p.Excerpt, p.AuthorID, p.TopicID,
	))
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// Update modifies a post's editorial fields. Status and the lifecycle
// timestamps are deliberately not touched here.
func (s *PostStore) Update(ctx context.Context, p *models.Post) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE posts SET
			title = $1, slug = $2, body = $3, excerpt = $4, topic_id = $5,
			updated_at = NOW()
		WHERE id = $6
	`, p.Title, p.Slug, p.Body, p.Excerpt, p.TopicID, p.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes a post by ID.
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// Transition conditionally applies a publication state change. The write
// succeeds only if the row still has the expected prior status and
// scheduled time, so racing writers (sweep vs cancel vs publish-now)
// resolve to exactly one winner. published_at is write-once: an existing
// value is never overwritten.
func (s *PostStore) Transition(ctx context.Context, next *models.Post, from models.PostStatus, expectScheduledAt *time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE posts SET
			status = $1,
			scheduled_publish_at = $2,
			published_at = COALESCE(published_at, $3),
			updated_at = NOW()
		WHERE id = $4
		  AND status = $5
		  AND scheduled_publish_at IS NOT DISTINCT FROM $6
	`, next.Status, next.ScheduledPublishAt, next.PublishedAt,
		next.ID, from, expectScheduledAt)
	if err != nil {
		return false, fmt.Errorf("transition post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("transition post rows: %w", err)
	}
	return n == 1, nil
}

func collectPosts(rows *sql.Rows) ([]models.Post, error) {
	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Slug, &p.Body, &p.Excerpt, &p.Status,
			&p.AuthorID, &p.TopicID, &p.ScheduledPublishAt, &p.PublishedAt,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// qualifiedPostColumns is postColumns with a "p." prefix for joins.
const qualifiedPostColumns = `p.id, p.title, p.slug, p.body, p.excerpt, p.status, p.author_id, p.topic_id,
       p.scheduled_publish_at, p.published_at, p.created_at, p.updated_at`
