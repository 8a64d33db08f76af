package store

import (
	"context"
	"database/sql"
	"fmt"

	"forgejournal/internal/models"
)

const topicColumns = `id, name, slug, description, created_at, updated_at`

// TopicStore handles topic records.
type TopicStore struct {
	db *sql.DB
}

// NewTopicStore creates a new TopicStore with the given database connection.
func NewTopicStore(db *sql.DB) *TopicStore {
	return &TopicStore{db: db}
}

// List returns all topics ordered by name.
func (s *TopicStore) List(ctx context.Context) ([]models.Topic, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+topicColumns+` FROM topics ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	var topics []models.Topic
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// FindBySlug retrieves a topic by its slug. Returns nil if not found.
func (s *TopicStore) FindBySlug(ctx context.Context, slug string) (*models.Topic, error) {
	t := &models.Topic{}
	err := s.db.QueryRowContext(ctx,
		`SELECT `+topicColumns+` FROM topics WHERE slug = $1`, slug,
	).Scan(&t.ID, &t.Name, &t.Slug, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find topic by slug: %w", err)
	}
	return t, nil
}

// Create inserts a new topic and returns it with generated fields.
func (s *TopicStore) Create(ctx context.Context, t *models.Topic) (*models.Topic, error) {
	created := &models.Topic{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO topics (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING `+topicColumns,
		t.Name, t.Slug, t.Description,
	).Scan(&created.ID, &created.Name, &created.Slug, &created.Description, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}
	return created, nil
}
