package services

import (
	"context"

	"github.com/sachwave/sachwave/internal/client/cache"
	"github.com/sachwave/sachwave/internal/rpc"
)

// AnnouncementService owns site-wide announcements. Reading is open to
// everyone; creation is admin-only and the backend enforces it.
type AnnouncementService struct {
	d             *deps
	announcements *cache.Query[[]rpc.Announcement]
	create        *cache.Mutation[string, rpc.Announcement]
}

func newAnnouncementService(d *deps) *AnnouncementService {
	s := &AnnouncementService{d: d}

	s.announcements = newQuery(d, cache.NewKey(KeyAnnouncements), 0,
		func(ctx context.Context, h rpc.Backend) ([]rpc.Announcement, error) {
			return h.GetAnnouncements(ctx)
		})

	s.create = newMutation(d, []cache.Key{cache.NewKey(KeyAnnouncements)},
		func(ctx context.Context, h rpc.Backend, content string) (rpc.Announcement, error) {
			return h.CreateAnnouncement(ctx, content)
		})

	return s
}

// List returns the published announcements, newest first.
func (s *AnnouncementService) List(ctx context.Context) ([]rpc.Announcement, error) {
	return s.announcements.Get(ctx)
}

// Create publishes an announcement (admin only).
func (s *AnnouncementService) Create(ctx context.Context, content string) (rpc.Announcement, error) {
	return s.create.Do(ctx, content)
}
