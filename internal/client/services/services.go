// Package services exposes the app's typed operations: each domain area
// (profile, feed, stories, messaging, notifications, moderation,
// announcements) wires its reads through cache queries and its writes
// through mutations with explicit invalidation sets, all against the actor
// handle resolved for the current identity.
package services

import (
	"context"
	"time"

	"github.com/sachwave/sachwave/internal/client/actor"
	"github.com/sachwave/sachwave/internal/client/cache"
	"github.com/sachwave/sachwave/internal/logging"
	"github.com/sachwave/sachwave/internal/rpc"
)

// Cache keys. Keys are part of the invalidation contract: mutations name
// them, so renaming one is a behavior change.
const (
	KeyPosts                   = "posts"
	KeyCurrentUserProfile      = "currentUserProfile"
	KeyAllUsers                = "allUsers"
	KeyStories                 = "stories"
	KeyConversations           = "conversations"
	KeyConversation            = "conversation" // + "/<principal>"
	KeyNotifications           = "notifications"
	KeyUnreadNotificationCount = "unreadNotificationCount"
	KeyIsAdmin                 = "isAdmin"
	KeyUserRole                = "userRole"
	KeyAnnouncements           = "announcements"
	KeyActivityStats           = "activityStats"
)

// Background refresh intervals. The open conversation polls fastest; feeds
// and counters are slower; near-static data does not poll at all.
const (
	RefreshConversation  = 5 * time.Second
	RefreshConversations = 10 * time.Second
	RefreshPosts         = 30 * time.Second
	RefreshNotifications = 30 * time.Second
	RefreshUnreadCount   = 30 * time.Second
	RefreshStories       = 60 * time.Second
	RefreshStats         = 60 * time.Second
)

// defaultAttempts bounds transient-failure retries per fetch.
const defaultAttempts = 3

// Services aggregates the domain services over one shared cache store and
// actor provider.
type Services struct {
	Profile       *ProfileService
	Feed          *FeedService
	Stories       *StoryService
	Messaging     *MessagingService
	Notifications *NotificationService
	Admin         *AdminService
	Announcements *AnnouncementService
}

func New(store *cache.Store, actors *actor.Provider, logger logging.Logger) *Services {
	d := &deps{store: store, actors: actors, logger: logger}
	return &Services{
		Profile:       newProfileService(d),
		Feed:          newFeedService(d),
		Stories:       newStoryService(d),
		Messaging:     newMessagingService(d),
		Notifications: newNotificationService(d),
		Admin:         newAdminService(d),
		Announcements: newAnnouncementService(d),
	}
}

// StartRefresh launches the background polling loops. Loops stop when ctx
// is cancelled.
func (s *Services) StartRefresh(ctx context.Context) {
	s.Feed.posts.StartRefresh(ctx)
	s.Stories.stories.StartRefresh(ctx)
	s.Messaging.conversations.StartRefresh(ctx)
	s.Notifications.notifications.StartRefresh(ctx)
	s.Notifications.unreadCount.StartRefresh(ctx)
	s.Admin.stats.StartRefresh(ctx)
}

type deps struct {
	store  *cache.Store
	actors *actor.Provider
	logger logging.Logger
}

func (d *deps) ready() bool { return d.actors.Ready() }

func (d *deps) backend() (rpc.Backend, error) {
	h := d.actors.Handle()
	if h == nil {
		return nil, cache.ErrActorUnavailable
	}
	return h, nil
}

// newQuery builds a query bound to the actor provider: enabled only while a
// handle is resolved, fetching through whatever handle is current.
func newQuery[T any](d *deps, key cache.Key, refresh time.Duration, fetch func(ctx context.Context, h rpc.Backend) (T, error)) *cache.Query[T] {
	return &cache.Query[T]{
		Store:        d.store,
		Key:          key,
		Enabled:      d.ready,
		RefreshEvery: refresh,
		MaxAttempts:  defaultAttempts,
		Fetch: func(ctx context.Context) (T, error) {
			h, err := d.backend()
			if err != nil {
				var zero T
				return zero, err
			}
			return fetch(ctx, h)
		},
	}
}

// newMutation builds a write bound to the actor provider with its
// invalidation set.
func newMutation[Req, Resp any](d *deps, invalidates []cache.Key, call func(ctx context.Context, h rpc.Backend, req Req) (Resp, error)) *cache.Mutation[Req, Resp] {
	return &cache.Mutation[Req, Resp]{
		Store:       d.store,
		Ready:       d.ready,
		Invalidates: invalidates,
		Call: func(ctx context.Context, req Req) (Resp, error) {
			h, err := d.backend()
			if err != nil {
				var zero Resp
				return zero, err
			}
			return call(ctx, h, req)
		},
	}
}
