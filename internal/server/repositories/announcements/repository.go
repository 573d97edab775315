package announcements

import (
	"context"

	"github.com/sachwave/sachwave/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, announcement *models.Announcement) (*models.Announcement, error)
	List(ctx context.Context) ([]*models.Announcement, error)
}
