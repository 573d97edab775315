package profiles

import (
	"context"

	"github.com/sachwave/sachwave/internal/server/models"
)

type Repository interface {
	Upsert(ctx context.Context, profile *models.Profile) error
	Get(ctx context.Context, userID string) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
	Search(ctx context.Context, name string) ([]*models.Profile, error)
	TouchLastSeen(ctx context.Context, userID string, seenAt int64) error
	CountActiveSince(ctx context.Context, since int64) (int64, error)
}
