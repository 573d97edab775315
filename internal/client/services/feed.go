package services

import (
	"context"

	"github.com/sachwave/sachwave/internal/client/cache"
	"github.com/sachwave/sachwave/internal/rpc"
)

// FeedService owns the post feed. Every write invalidates the feed; the
// like is the one optimistic write: the cached counter bumps immediately,
// rolls back if the backend rejects, and the feed re-fetches on settlement
// either way.
type FeedService struct {
	d     *deps
	posts *cache.Query[[]rpc.Post]

	create  *cache.Mutation[createPostReq, rpc.Post]
	like    *cache.OptimisticMutation[int64, struct{}]
	comment *cache.Mutation[commentReq, struct{}]
	remove  *cache.Mutation[int64, struct{}]
}

type createPostReq struct {
	Content string
	Media   string
}

type commentReq struct {
	PostID  int64
	Content string
}

func newFeedService(d *deps) *FeedService {
	s := &FeedService{d: d}

	s.posts = newQuery(d, cache.NewKey(KeyPosts), RefreshPosts,
		func(ctx context.Context, h rpc.Backend) ([]rpc.Post, error) {
			return h.GetAllPosts(ctx)
		})

	feedKey := []cache.Key{cache.NewKey(KeyPosts)}

	s.create = newMutation(d, feedKey,
		func(ctx context.Context, h rpc.Backend, req createPostReq) (rpc.Post, error) {
			return h.CreatePost(ctx, req.Content, req.Media)
		})

	s.like = &cache.OptimisticMutation[int64, struct{}]{
		Store:     d.store,
		Ready:     d.ready,
		Key:       cache.NewKey(KeyPosts),
		Transform: bumpLikeCount,
		Call: func(ctx context.Context, postID int64) (struct{}, error) {
			h, err := d.backend()
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, h.LikePost(ctx, postID)
		},
	}

	s.comment = newMutation(d, feedKey,
		func(ctx context.Context, h rpc.Backend, req commentReq) (struct{}, error) {
			return struct{}{}, h.CommentOnPost(ctx, req.PostID, req.Content)
		})

	s.remove = newMutation(d, feedKey,
		func(ctx context.Context, h rpc.Backend, postID int64) (struct{}, error) {
			return struct{}{}, h.DeletePost(ctx, postID)
		})

	return s
}

// bumpLikeCount returns a copy of the cached feed with the target post's
// like counter incremented.
func bumpLikeCount(current any, postID int64) any {
	posts, ok := current.([]rpc.Post)
	if !ok {
		return current
	}
	next := make([]rpc.Post, len(posts))
	copy(next, posts)
	for i := range next {
		if next[i].ID == postID {
			next[i].Likes++
		}
	}
	return next
}

// Posts returns the feed, fetching when the cache is stale.
func (s *FeedService) Posts(ctx context.Context) ([]rpc.Post, error) {
	return s.posts.Get(ctx)
}

// CachedPosts returns whatever feed is cached, stale or fresh.
func (s *FeedService) CachedPosts() ([]rpc.Post, bool) {
	return s.posts.Value()
}

// PostsByUser fetches one author's posts. Not cached separately from the
// main feed.
func (s *FeedService) PostsByUser(ctx context.Context, user rpc.Principal) ([]rpc.Post, error) {
	h, err := s.d.backend()
	if err != nil {
		return nil, err
	}
	return h.GetPostsByUser(ctx, user)
}

// Create publishes a post. Media is an optional storage key from a prior
// upload.
func (s *FeedService) Create(ctx context.Context, content, media string) (rpc.Post, error) {
	return s.create.Do(ctx, createPostReq{Content: content, Media: media})
}

// Like registers a like, optimistically bumping the cached counter.
func (s *FeedService) Like(ctx context.Context, postID int64) error {
	_, err := s.like.Do(ctx, postID)
	return err
}

// Comment appends a comment to a post.
func (s *FeedService) Comment(ctx context.Context, postID int64, content string) error {
	_, err := s.comment.Do(ctx, commentReq{PostID: postID, Content: content})
	return err
}

// Delete removes a post. The backend enforces author/moderator rights.
func (s *FeedService) Delete(ctx context.Context, postID int64) error {
	_, err := s.remove.Do(ctx, postID)
	return err
}
