package stories

import (
	"context"

	"github.com/sachwave/sachwave/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, story *models.Story) (*models.Story, error)
	ListSince(ctx context.Context, since int64) ([]*models.Story, error)
}
