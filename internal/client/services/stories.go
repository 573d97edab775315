package services

import (
	"context"

	"github.com/sachwave/sachwave/internal/client/cache"
	"github.com/sachwave/sachwave/internal/rpc"
)

// StoryService owns the ephemeral stories strip. The backend limits the
// listing to the active 24h window.
type StoryService struct {
	d       *deps
	stories *cache.Query[[]rpc.Story]
	create  *cache.Mutation[createStoryReq, rpc.Story]
}

type createStoryReq struct {
	Content string
	Image   string
}

func newStoryService(d *deps) *StoryService {
	s := &StoryService{d: d}

	s.stories = newQuery(d, cache.NewKey(KeyStories), RefreshStories,
		func(ctx context.Context, h rpc.Backend) ([]rpc.Story, error) {
			return h.GetActiveStories(ctx)
		})

	s.create = newMutation(d, []cache.Key{cache.NewKey(KeyStories)},
		func(ctx context.Context, h rpc.Backend, req createStoryReq) (rpc.Story, error) {
			return h.CreateStory(ctx, req.Content, req.Image)
		})

	return s
}

// Active returns the stories still inside their 24h window.
func (s *StoryService) Active(ctx context.Context) ([]rpc.Story, error) {
	return s.stories.Get(ctx)
}

// Create publishes a story. Image is an optional storage key.
func (s *StoryService) Create(ctx context.Context, content, image string) (rpc.Story, error) {
	return s.create.Do(ctx, createStoryReq{Content: content, Image: image})
}
