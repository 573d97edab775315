// Package stories provides a PostgreSQL-backed repository for ephemeral
// stories. Expired rows are never deleted, only filtered out on read.
package stories

import (
	"context"
	"fmt"

	"github.com/sachwave/sachwave/internal/dbx"
	"github.com/sachwave/sachwave/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, story *models.Story) (*models.Story, error) {
	query :=
		`INSERT INTO stories (author, content, image, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		story.Author, story.Content, story.Image, story.CreatedAt).Scan(&story.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return story, nil
}

func (r *PostgresRepository) ListSince(ctx context.Context, since int64) ([]*models.Story, error) {
	query :=
		`SELECT id, author, content, image, created_at FROM stories
		 WHERE created_at >= $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Story
	for rows.Next() {
		story := &models.Story{}
		if err := rows.Scan(&story.ID, &story.Author, &story.Content, &story.Image, &story.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, story)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
