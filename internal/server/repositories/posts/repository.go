package posts

import (
	"context"

	"github.com/sachwave/sachwave/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	Get(ctx context.Context, id int64) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, author string) ([]*models.Post, error)
	Delete(ctx context.Context, id int64) error
	Like(ctx context.Context, postID int64, userID string) error
	LikeCounts(ctx context.Context) (map[int64]int64, error)
	AddComment(ctx context.Context, comment *models.Comment) error
	CommentsByPost(ctx context.Context) (map[int64][]models.Comment, error)
	Count(ctx context.Context) (int64, error)
}
