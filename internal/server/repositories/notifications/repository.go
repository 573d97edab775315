package notifications

import (
	"context"

	"github.com/sachwave/sachwave/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListForUser(ctx context.Context, userID string) ([]*models.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id int64, userID string) error
}
