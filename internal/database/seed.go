package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data: one author,
// one topic, and a published welcome post. No-op if authors already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM authors").Scan(&count); err != nil {
		return fmt.Errorf("seed check authors: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	var authorID string
	err := db.QueryRow(`
		INSERT INTO authors (name, slug, title)
		VALUES ($1, $2, $3)
		RETURNING id
	`, "The Editors", "the-editors", "Editorial Board").Scan(&authorID)
	if err != nil {
		return fmt.Errorf("seed insert author: %w", err)
	}

	var topicID string
	err = db.QueryRow(`
		INSERT INTO topics (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id
	`, "From the Forge", "from-the-forge", "Notes from the editorial desk").Scan(&topicID)
	if err != nil {
		return fmt.Errorf("seed insert topic: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO posts (title, slug, body, status, author_id, topic_id, published_at)
		VALUES ($1, $2, $3, 'published', $4, $5, NOW())
	`, "Welcome to The Forge Journal", "welcome-to-the-forge-journal",
		"The Forge Journal is live. New articles appear here as they publish.",
		authorID, topicID)
	if err != nil {
		return fmt.Errorf("seed insert post: %w", err)
	}

	slog.Info("database seeded with welcome content")
	return nil
}
