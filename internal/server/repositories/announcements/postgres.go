// Package announcements provides a PostgreSQL-backed repository for
// school-wide announcements written by admins.
package announcements

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

func (r *PostgresRepository) Create(ctx context.Context, announcement *models.Announcement) (*models.Announcement, error) {
	query :=
		`INSERT INTO announcements (author, content, created_at)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		announcement.Author, announcement.Content, announcement.CreatedAt).Scan(&announcement.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return announcement, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Announcement, error) {
	query :=
		`SELECT id, author, content, created_at FROM announcements
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Announcement
	for rows.Next() {
		a := &models.Announcement{}
		if err := rows.Scan(&a.ID, &a.Author, &a.Content, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
