package services

import (
	"context"

	"github.com/sachwave/sachwave/internal/client/cache"
	"github.com/sachwave/sachwave/internal/rpc"
)

// MessagingService owns direct messages. The conversation list and each
// open conversation are cached under separate keys: the open thread polls
// fastest, the list more slowly. Sending stales both sides.
type MessagingService struct {
	d             *deps
	conversations *cache.Query[[]rpc.ConversationHead]
}

func newMessagingService(d *deps) *MessagingService {
	s := &MessagingService{d: d}

	s.conversations = newQuery(d, cache.NewKey(KeyConversations), RefreshConversations,
		func(ctx context.Context, h rpc.Backend) ([]rpc.ConversationHead, error) {
			return h.GetConversations(ctx)
		})

	return s
}

// Conversations lists the caller's threads with their last message.
func (s *MessagingService) Conversations(ctx context.Context) ([]rpc.ConversationHead, error) {
	return s.conversations.Get(ctx)
}

// Conversation builds the query for one peer's thread. Queries for the
// same peer share a cache entry, so constructing this repeatedly is cheap.
func (s *MessagingService) Conversation(peer rpc.Principal) *cache.Query[[]rpc.Message] {
	return newQuery(s.d, cache.NewKey(KeyConversation, string(peer)), RefreshConversation,
		func(ctx context.Context, h rpc.Backend) ([]rpc.Message, error) {
			return h.GetConversation(ctx, peer)
		})
}

// Messages returns the thread with peer, fetching when stale.
func (s *MessagingService) Messages(ctx context.Context, peer rpc.Principal) ([]rpc.Message, error) {
	return s.Conversation(peer).Get(ctx)
}

// Send delivers a message to peer and stales the thread and the list.
func (s *MessagingService) Send(ctx context.Context, peer rpc.Principal, content string) (rpc.Message, error) {
	m := newMutation(s.d,
		[]cache.Key{cache.NewKey(KeyConversation, string(peer)), cache.NewKey(KeyConversations)},
		func(ctx context.Context, h rpc.Backend, content string) (rpc.Message, error) {
			return h.SendMessage(ctx, peer, content)
		})
	return m.Do(ctx, content)
}

// MarkRead acknowledges one received message.
func (s *MessagingService) MarkRead(ctx context.Context, peer rpc.Principal, messageID int64) error {
	m := newMutation(s.d,
		[]cache.Key{cache.NewKey(KeyConversation, string(peer)), cache.NewKey(KeyConversations)},
		func(ctx context.Context, h rpc.Backend, id int64) (struct{}, error) {
			return struct{}{}, h.MarkMessageAsRead(ctx, id)
		})
	_, err := m.Do(ctx, messageID)
	return err
}
