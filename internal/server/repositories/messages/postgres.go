// Package messages provides a PostgreSQL-backed repository for direct
// messages between users.
package messages

import (
	"context"
	"database/sql"
	"errors"
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

const messageColumns = `id, sender, receiver, content, read, created_at`

func (r *PostgresRepository) Create(ctx context.Context, message *models.Message) (*models.Message, error) {
	query :=
		`INSERT INTO messages (sender, receiver, content, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		message.Sender, message.Receiver, message.Content, message.CreatedAt).Scan(&message.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return message, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`

	m := &models.Message{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.Sender, &m.Receiver, &m.Content, &m.Read, &m.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}

func (r *PostgresRepository) Conversation(ctx context.Context, a, b string) ([]*models.Message, error) {
	query :=
		`SELECT ` + messageColumns + ` FROM messages
		 WHERE (sender = $1 AND receiver = $2) OR (sender = $2 AND receiver = $1)
		 ORDER BY created_at
		 `
	return r.queryMessages(ctx, query, a, b)
}

// Heads returns, for each peer the user has exchanged messages with, the most
// recent message of that thread, newest thread first.
func (r *PostgresRepository) Heads(ctx context.Context, user string) ([]*models.Message, error) {
	query :=
		`SELECT DISTINCT ON (peer) id, sender, receiver, content, read, created_at FROM (
		   SELECT *, CASE WHEN sender = $1 THEN receiver ELSE sender END AS peer
		   FROM messages
		   WHERE sender = $1 OR receiver = $1
		 ) t
		 ORDER BY peer, created_at DESC
		 `
	return r.queryMessages(ctx, query, user)
}

func (r *PostgresRepository) queryMessages(ctx context.Context, query string, args ...any) ([]*models.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Message
	for rows.Next() {
		m := &models.Message{}
		if err := rows.Scan(&m.ID, &m.Sender, &m.Receiver, &m.Content, &m.Read, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) MarkRead(ctx context.Context, id int64) error {
	query :=
		`UPDATE messages SET read = TRUE
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
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

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM messages`

	var count int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}
