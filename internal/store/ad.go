// Copyright (c) 2026 Forge Journal Media <dev@forgejournal.com>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"forgejournal/internal/models"
)

const adColumns = `id, name, image_url, link_url, starts_at, ends_at, active, created_at, updated_at`

// AdStore handles sponsor placement records.
type AdStore struct {
	db *sql.DB
}

// NewAdStore creates a new AdStore with the given database connection.
func NewAdStore(db *sql.DB) *AdStore {
	return &AdStore{db: db}
}

func scanAd(row interface{ Scan(...any) error }) (*models.Ad, error) {
	a := &models.Ad{}
	err := row.Scan(&a.ID, &a.Name, &a.ImageURL, &a.LinkURL, &a.StartsAt, &a.EndsAt, &a.Active, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// List returns all ads ordered by start date descending.
func (s *AdStore) List(ctx context.Context) ([]models.Ad, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+adColumns+` FROM ads ORDER BY starts_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list ads: %w", err)
	}
	defer rows.Close()
	return collectAds(rows)
}

// ListActive returns ads currently inside their serving window.
func (s *AdStore) ListActive(ctx context.Context, now time.Time) ([]models.Ad, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+adColumns+`
		FROM ads
		WHERE active AND starts_at <= $1 AND ends_at > $1
		ORDER BY starts_at DESC
	`, now)
	if err != nil {
		return nil, fmt.Errorf("list active ads: %w", err)
	}
	defer rows.Close()
	return collectAds(rows)
}

// Find retrieves an ad by ID. Returns nil if not found.
func (s *AdStore) Find(ctx context.Context, id uuid.UUID) (*models.Ad, error) {
	a, err := scanAd(s.db.QueryRowContext(ctx,
		`SELECT `+adColumns+` FROM ads WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find ad: %w", err)
	}
	return a, nil
}

// Create inserts a new ad and returns it with generated fields.
func (s *AdStore) Create(ctx context.Context, a *models.Ad) (*models.Ad, error) {
	created, err := scanAd(s.db.QueryRowContext(ctx, `
		INSERT INTO ads (name, image_url, link_url, starts_at, ends_at, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+adColumns,
		a.Name, a.ImageURL, a.LinkURL, a.StartsAt, a.EndsAt, a.Active,
	))
	if err != nil {
		return nil, fmt.Errorf("create ad: %w", err)
	}
	return created, nil
}

// Update modifies an existing ad.
func (s *AdStore) Update(ctx context.Context, a *models.Ad) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE ads SET
			name = $1, image_url = $2, link_url = $3,
			starts_at = $4, ends_at = $5, active = $6,
			updated_at = NOW()
		WHERE id = $7
	`, a.Name, a.ImageURL, a.LinkURL, a.StartsAt, a.EndsAt, a.Active, a.ID)
	if err != nil {
		return fmt.Errorf("update ad: %w", err)
	}
	return nil
}

// Delete removes an ad by ID.
func (s *AdStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM ads WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete ad: %w", err)
	}
	return nil
}

func collectAds(rows *sql.Rows) ([]models.Ad, error) {
	var ads []models.Ad
	for rows.Next() {
		var a models.Ad
		if err := rows.Scan(&a.ID, &a.Name, &a.ImageURL, &a.LinkURL, &a.StartsAt, &a.EndsAt, &a.Active, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan ad: %w", err)
		}
		ads = append(ads, a)
	}
	return ads, rows.Err()
}
