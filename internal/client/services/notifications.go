package services

import (
	"context"

	"github.com/sachwave/sachwave/internal/client/cache"
	"github.com/sachwave/sachwave/internal/rpc"
)

// NotificationService owns the notification feed and its unread counter.
// Marking one read stales both.
type NotificationService struct {
	d             *deps
	notifications *cache.Query[[]rpc.Notification]
	unreadCount   *cache.Query[int64]
	markRead      *cache.Mutation[int64, struct{}]
}

func newNotificationService(d *deps) *NotificationService {
	s := &NotificationService{d: d}

	s.notifications = newQuery(d, cache.NewKey(KeyNotifications), RefreshNotifications,
		func(ctx context.Context, h rpc.Backend) ([]rpc.Notification, error) {
			return h.GetNotifications(ctx)
		})

	s.unreadCount = newQuery(d, cache.NewKey(KeyUnreadNotificationCount), RefreshUnreadCount,
		func(ctx context.Context, h rpc.Backend) (int64, error) {
			return h.GetUnreadNotificationCount(ctx)
		})

	s.markRead = newMutation(d,
		[]cache.Key{cache.NewKey(KeyNotifications), cache.NewKey(KeyUnreadNotificationCount)},
		func(ctx context.Context, h rpc.Backend, id int64) (struct{}, error) {
			return struct{}{}, h.MarkNotificationAsRead(ctx, id)
		})

	return s
}

// List returns the caller's notifications, newest first.
func (s *NotificationService) List(ctx context.Context) ([]rpc.Notification, error) {
	return s.notifications.Get(ctx)
}

// UnreadCount returns the badge counter.
func (s *NotificationService) UnreadCount(ctx context.Context) (int64, error) {
	return s.unreadCount.Get(ctx)
}

// MarkRead acknowledges one notification.
func (s *NotificationService) MarkRead(ctx context.Context, id int64) error {
	_, err := s.markRead.Do(ctx, id)
	return err
}
