package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sachwave/sachwave/internal/client/actor"
	"github.com/sachwave/sachwave/internal/client/cache"
	"github.com/sachwave/sachwave/internal/client/identity"
	"github.com/sachwave/sachwave/internal/common"
	"github.com/sachwave/sachwave/internal/logging"
	"github.com/sachwave/sachwave/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend stubs only what each test exercises; calling anything else
// panics through the embedded nil interface, which is the point.
type fakeBackend struct {
	rpc.Backend

	posts      []rpc.Post
	likeErr    error
	likedIDs   []int64
	profile    *rpc.UserProfile
	profileErr error

	sent      []rpc.Message
	readIDs   []int64
	notifs    []rpc.Notification
	unread    int64
	adminErr  error
	announced []string
}

func (f *fakeBackend) GetAllPosts(ctx context.Context) ([]rpc.Post, error) {
	return f.posts, nil
}

func (f *fakeBackend) LikePost(ctx context.Context, postID int64) error {
	if f.likeErr != nil {
		return f.likeErr
	}
	f.likedIDs = append(f.likedIDs, postID)
	return nil
}

func (f *fakeBackend) GetCallerUserProfile(ctx context.Context) (*rpc.UserProfile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profile, nil
}

func (f *fakeBackend) SendMessage(ctx context.Context, receiver rpc.Principal, content string) (rpc.Message, error) {
	m := rpc.Message{ID: int64(len(f.sent) + 1), Receiver: receiver, Content: content}
	f.sent = append(f.sent, m)
	return m, nil
}

func (f *fakeBackend) GetNotifications(ctx context.Context) ([]rpc.Notification, error) {
	return f.notifs, nil
}

func (f *fakeBackend) GetUnreadNotificationCount(ctx context.Context) (int64, error) {
	return f.unread, nil
}

func (f *fakeBackend) MarkNotificationAsRead(ctx context.Context, id int64) error {
	f.readIDs = append(f.readIDs, id)
	return nil
}

func (f *fakeBackend) IsCallerAdmin(ctx context.Context) (bool, error) {
	if f.adminErr != nil {
		return false, f.adminErr
	}
	return true, nil
}

func (f *fakeBackend) CreateAnnouncement(ctx context.Context, content string) (rpc.Announcement, error) {
	f.announced = append(f.announced, content)
	return rpc.Announcement{ID: 1, Content: content}, nil
}

func newTestServices(t *testing.T, fb *fakeBackend) (*Services, *cache.Store) {
	t.Helper()
	store := cache.NewStore()
	provider := actor.NewProvider(store, func(ctx context.Context, id identity.Identity) (rpc.Backend, error) {
		return fb, nil
	}, logging.NopLogger{})
	_, err := provider.Resolve(context.Background(), identity.Identity{Principal: "p-1"})
	require.NoError(t, err)
	return New(store, provider, logging.NopLogger{}), store
}

func newUnresolvedServices(t *testing.T) *Services {
	t.Helper()
	store := cache.NewStore()
	provider := actor.NewProvider(store, func(ctx context.Context, id identity.Identity) (rpc.Backend, error) {
		return nil, errors.New("unreachable")
	}, logging.NopLogger{})
	return New(store, provider, logging.NopLogger{})
}

func TestFeed_LikeOptimisticallyBumpsThenReconciles(t *testing.T) {
	fb := &fakeBackend{posts: []rpc.Post{{ID: 1, Likes: 3}, {ID: 2, Likes: 9}}}
	svc, store := newTestServices(t, fb)

	ctx := context.Background()
	_, err := svc.Feed.Posts(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Feed.Like(ctx, 1))
	assert.Equal(t, []int64{1}, fb.likedIDs)

	// Settlement stales the feed so the next read reconciles with the
	// backend's authoritative count.
	e, ok := store.Lookup(cache.NewKey(KeyPosts))
	require.True(t, ok)
	assert.True(t, e.Stale)
}

func TestFeed_LikeRollsBackWhenRejected(t *testing.T) {
	fb := &fakeBackend{
		posts:   []rpc.Post{{ID: 1, Likes: 3}},
		likeErr: common.ErrAlreadyLiked,
	}
	svc, store := newTestServices(t, fb)

	ctx := context.Background()
	_, err := svc.Feed.Posts(ctx)
	require.NoError(t, err)

	err = svc.Feed.Like(ctx, 1)
	require.ErrorIs(t, err, common.ErrAlreadyLiked)

	v, _ := store.Get(cache.NewKey(KeyPosts))
	assert.Equal(t, int64(3), v.([]rpc.Post)[0].Likes, "rollback must restore the snapshot")
}

func TestFeed_LikeFailsFastWithoutActor(t *testing.T) {
	svc := newUnresolvedServices(t)

	err := svc.Feed.Like(context.Background(), 1)
	require.ErrorIs(t, err, cache.ErrActorUnavailable)
}

func TestProfile_AbsenceIsSettledNotError(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"unauthorized", common.ErrUnauthorized},
		{"not found", common.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := &fakeBackend{profileErr: tt.err}
			svc, _ := newTestServices(t, fb)

			svc.Profile.Load(context.Background())

			st := svc.Profile.State()
			assert.True(t, st.Fetched)
			assert.NoError(t, st.Err)

			p, ok := svc.Profile.Current()
			assert.True(t, ok)
			assert.Nil(t, p)
		})
	}
}

func TestProfile_GenuineFailureSurfaces(t *testing.T) {
	fb := &fakeBackend{profileErr: common.ErrInternal}
	svc, _ := newTestServices(t, fb)

	svc.Profile.Load(context.Background())

	st := svc.Profile.State()
	assert.False(t, st.Fetched)
	assert.ErrorIs(t, st.Err, common.ErrInternal)
}

func TestProfile_InvalidateForcesRefetch(t *testing.T) {
	fb := &fakeBackend{profile: &rpc.UserProfile{ID: "p-1", Name: "alice"}}
	svc, _ := newTestServices(t, fb)

	ctx := context.Background()
	svc.Profile.Load(ctx)
	require.True(t, svc.Profile.State().Fetched)

	fb.profile = &rpc.UserProfile{ID: "p-1", Name: "alice renamed"}
	svc.Profile.Invalidate()
	assert.False(t, svc.Profile.State().Fetched)

	svc.Profile.Load(ctx)
	p, err := svc.Profile.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "alice renamed", p.Name)
}

func TestMessaging_SendStalesThreadAndList(t *testing.T) {
	fb := &fakeBackend{}
	svc, store := newTestServices(t, fb)

	store.Set(cache.NewKey(KeyConversation, "p-2"), []rpc.Message{})
	store.Set(cache.NewKey(KeyConversations), []rpc.ConversationHead{})
	store.Set(cache.NewKey(KeyConversation, "p-3"), []rpc.Message{})

	_, err := svc.Messaging.Send(context.Background(), "p-2", "hello")
	require.NoError(t, err)
	require.Len(t, fb.sent, 1)

	e, _ := store.Lookup(cache.NewKey(KeyConversation, "p-2"))
	assert.True(t, e.Stale)
	e, _ = store.Lookup(cache.NewKey(KeyConversations))
	assert.True(t, e.Stale)

	// Unrelated threads keep their cached state.
	e, _ = store.Lookup(cache.NewKey(KeyConversation, "p-3"))
	assert.False(t, e.Stale)
}

func TestNotifications_MarkReadStalesFeedAndCounter(t *testing.T) {
	fb := &fakeBackend{notifs: []rpc.Notification{{ID: 5}}, unread: 1}
	svc, store := newTestServices(t, fb)

	ctx := context.Background()
	_, err := svc.Notifications.List(ctx)
	require.NoError(t, err)
	_, err = svc.Notifications.UnreadCount(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Notifications.MarkRead(ctx, 5))
	assert.Equal(t, []int64{5}, fb.readIDs)

	e, _ := store.Lookup(cache.NewKey(KeyNotifications))
	assert.True(t, e.Stale)
	e, _ = store.Lookup(cache.NewKey(KeyUnreadNotificationCount))
	assert.True(t, e.Stale)
}

func TestAdmin_AuthRefusalMeansNotAdmin(t *testing.T) {
	fb := &fakeBackend{adminErr: common.ErrUnauthorized}
	svc, _ := newTestServices(t, fb)

	ok, err := svc.Admin.IsAdmin(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAnnouncements_CreateStalesList(t *testing.T) {
	fb := &fakeBackend{}
	svc, store := newTestServices(t, fb)

	store.Set(cache.NewKey(KeyAnnouncements), []rpc.Announcement{})

	_, err := svc.Announcements.Create(context.Background(), "exam week")
	require.NoError(t, err)
	assert.Equal(t, []string{"exam week"}, fb.announced)

	e, _ := store.Lookup(cache.NewKey(KeyAnnouncements))
	assert.True(t, e.Stale)
}
