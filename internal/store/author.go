// Copyright (c) 2026 Forge Journal Media <dev@forgejournal.com>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"forgejournal/internal/models"
)

const authorColumns = `id, name, slug, title, bio, avatar_url, created_at, updated_at`

// AuthorStore handles contributor records.
type AuthorStore struct {
	db *sql.DB
}

// NewAuthorStore creates a new AuthorStore with the given database connection.
func NewAuthorStore(db *sql.DB) *AuthorStore {
	return &AuthorStore{db: db}
}

// List returns all authors ordered by name.
func (s *AuthorStore) List(ctx context.Context) ([]models.Author, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+authorColumns+` FROM authors ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()

	var authors []models.Author
	for rows.Next() {
		var a models.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Slug, &a.Title, &a.Bio, &a.AvatarURL, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan author: %w", err)
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

// Find retrieves an author by ID. Returns nil if not found.
func (s *AuthorStore) Find(ctx context.Context, id uuid.UUID) (*models.Author, error) {
	a := &models.Author{}
	err := s.db.QueryRowContext(ctx,
		`SELECT `+authorColumns+` FROM authors WHERE id = $1`, id,
	).Scan(&a.ID, &a.Name, &a.Slug, &a.Title, &a.Bio, &a.AvatarURL, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find author: %w", err)
	}
	return a, nil
}

// Create inserts a new author and returns it with generated fields.
func (s *AuthorStore) Create(ctx context.Context, a *models.Author) (*models.Author, error) {
	created := &models.Author{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO authors (name, slug, title, bio, avatar_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+authorColumns,
		a.Name, a.Slug, a.Title, a.Bio, a.AvatarURL,
	).Scan(&created.ID, &created.Name, &created.Slug, &created.Title, &created.Bio, &created.AvatarURL, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create author: %w", err)
	}
	return created, nil
}
