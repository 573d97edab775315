// Package posts provides a PostgreSQL-backed repository for feed posts and
// their likes and comments.
package posts

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

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	query :=
		`INSERT INTO posts (author, content, media, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		post.Author, post.Content, post.Media, post.CreatedAt).Scan(&post.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Post, error) {
	query :=
		`SELECT id, author, content, media, created_at FROM posts
		 WHERE id = $1
		 `

	post := &models.Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&post.ID, &post.Author, &post.Content, &post.Media, &post.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Post, error) {
	query :=
		`SELECT id, author, content, media, created_at FROM posts
		 ORDER BY created_at DESC
		 `
	return r.queryPosts(ctx, query)
}

func (r *PostgresRepository) ListByAuthor(ctx context.Context, author string) ([]*models.Post, error) {
	query :=
		`SELECT id, author, content, media, created_at FROM posts
		 WHERE author = $1
		 ORDER BY created_at DESC
		 `
	return r.queryPosts(ctx, query, author)
}

func (r *PostgresRepository) queryPosts(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Post
	for rows.Next() {
		post := &models.Post{}
		if err := rows.Scan(&post.ID, &post.Author, &post.Content, &post.Media, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query :=
		`DELETE FROM posts
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

// Like records a like once per user. A second like from the same user hits
// the primary key and is reported as common.ErrAlreadyLiked.
func (r *PostgresRepository) Like(ctx context.Context, postID int64, userID string) error {
	query :=
		`INSERT INTO likes (post_id, user_id)
		 VALUES ($1, $2)
		 ON CONFLICT (post_id, user_id) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query, postID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrAlreadyLiked
	}

	return nil
}

func (r *PostgresRepository) LikeCounts(ctx context.Context) (map[int64]int64, error) {
	query :=
		`SELECT post_id, COUNT(*) FROM likes
		 GROUP BY post_id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	counts := map[int64]int64{}
	for rows.Next() {
		var postID, count int64
		if err := rows.Scan(&postID, &count); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		counts[postID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return counts, nil
}

func (r *PostgresRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	query :=
		`INSERT INTO comments (post_id, author, content, created_at)
		 VALUES ($1, $2, $3, $4)
		 `

	if _, err := r.db.ExecContext(ctx, query,
		comment.PostID, comment.Author, comment.Content, comment.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) CommentsByPost(ctx context.Context) (map[int64][]models.Comment, error) {
	query :=
		`SELECT post_id, author, content, created_at FROM comments
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	grouped := map[int64][]models.Comment{}
	for rows.Next() {
		c := models.Comment{}
		if err := rows.Scan(&c.PostID, &c.Author, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		grouped[c.PostID] = append(grouped[c.PostID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return grouped, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM posts`

	var count int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}
