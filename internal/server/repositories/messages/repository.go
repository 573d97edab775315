package messages

import (
	"context"

	"github.com/sachwave/sachwave/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, message *models.Message) (*models.Message, error)
	Get(ctx context.Context, id int64) (*models.Message, error)
	Conversation(ctx context.Context, a, b string) ([]*models.Message, error)
	Heads(ctx context.Context, user string) ([]*models.Message, error)
	MarkRead(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
