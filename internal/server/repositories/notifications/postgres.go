// Package notifications provides a PostgreSQL-backed repository for per-user
// notifications produced by likes, comments and messages.
package notifications

import (
	"context"
	"fmt"

	"github.com/sachwave/sachwave/internal/common"
	"github.com/sachwave/sachwave/internal/dbx"
	"github.com/sachwave/sachwave/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, notification *models.Notification) error {
	query :=
		`INSERT INTO notifications (user_id, content, created_at)
		 VALUES ($1, $2, $3)
		 `

	if _, err := r.db.ExecContext(ctx, query,
		notification.UserID, notification.Content, notification.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListForUser(ctx context.Context, userID string) ([]*models.Notification, error) {
	query :=
		`SELECT id, user_id, content, read, created_at FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Content, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) UnreadCount(ctx context.Context, userID string) (int64, error) {
	query :=
		`SELECT COUNT(*) FROM notifications
		 WHERE user_id = $1 AND read = FALSE
		 `

	var count int64
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}

// MarkRead only touches rows owned by userID, so a user cannot settle
// someone else's notification.
func (r *PostgresRepository) MarkRead(ctx context.Context, id int64, userID string) error {
	query :=
		`UPDATE notifications SET read = TRUE
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}
