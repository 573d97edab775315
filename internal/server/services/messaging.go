package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/sachwave/sachwave/internal/common"
	"github.com/sachwave/sachwave/internal/server/models"
	"github.com/sachwave/sachwave/internal/server/repositories/repomanager"
)

// MessageService handles direct messages between users and the notifications
// they produce.
type MessageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	users       *UserService
	content     *ContentService
}

func NewMessageService(db *sql.DB, m repomanager.RepositoryManager, users *UserService, content *ContentService) *MessageService {
	return &MessageService{db: db, repomanager: m, users: users, content: content}
}

// Send delivers a message to receiver and notifies them. The receiver must
// be an existing user.
func (s *MessageService) Send(ctx context.Context, callerID, receiver, content string) (*models.Message, error) {
	if _, err := s.users.EnsureActive(ctx, callerID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, common.ErrValidation
	}
	if _, err := s.repomanager.Users(s.db).GetUserByID(ctx, receiver); err != nil {
		return nil, err
	}

	message := &models.Message{
		Sender:    callerID,
		Receiver:  receiver,
		Content:   content,
		CreatedAt: time.Now().UnixMilli(),
	}
	message, err := s.repomanager.Messages(s.db).Create(ctx, message)
	if err != nil {
		return nil, err
	}
	s.content.notify(ctx, receiver, callerID, "%s sent you a message")
	return message, nil
}

// Conversation returns the full thread between the caller and other, oldest
// first.
func (s *MessageService) Conversation(ctx context.Context, callerID, other string) ([]*models.Message, error) {
	return s.repomanager.Messages(s.db).Conversation(ctx, callerID, other)
}

// Heads returns the latest message of each of the caller's threads.
func (s *MessageService) Heads(ctx context.Context, callerID string) ([]*models.Message, error) {
	return s.repomanager.Messages(s.db).Heads(ctx, callerID)
}

// MarkRead settles a message. Only its receiver may do it.
func (s *MessageService) MarkRead(ctx context.Context, callerID string, messageID int64) error {
	if _, err := s.users.EnsureActive(ctx, callerID); err != nil {
		return err
	}
	message, err := s.repomanager.Messages(s.db).Get(ctx, messageID)
	if err != nil {
		return err
	}
	if message.Receiver != callerID {
		return common.ErrUnauthorized
	}
	return s.repomanager.Messages(s.db).MarkRead(ctx, messageID)
}
