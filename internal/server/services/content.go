package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sachwave/sachwave/internal/common"
	"github.com/sachwave/sachwave/internal/server/models"
	"github.com/sachwave/sachwave/internal/server/repositories/repomanager"
)

// StoryTTL is how long a story stays visible after it is created.
const StoryTTL = 24 * time.Hour

// activeWindow bounds the "active users" stat.
const activeWindow = 24 * time.Hour

// PostView is a post together with its aggregated likes and comments.
type PostView struct {
	Post     *models.Post
	Likes    int64
	Comments []models.Comment
}

// ContentService covers the feed: posts, likes, comments, stories,
// announcements, the activity stats, and the notifications those produce.
type ContentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	users       *UserService
}

func NewContentService(db *sql.DB, m repomanager.RepositoryManager, users *UserService) *ContentService {
	return &ContentService{db: db, repomanager: m, users: users}
}

// CreatePost adds a feed entry. Media-only posts are allowed; fully empty
// ones are not.
func (s *ContentService) CreatePost(ctx context.Context, callerID, content, media string) (*models.Post, error) {
	if _, err := s.users.EnsureActive(ctx, callerID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" && media == "" {
		return nil, common.ErrValidation
	}
	post := &models.Post{
		Author:    callerID,
		Content:   content,
		Media:     media,
		CreatedAt: time.Now().UnixMilli(),
	}
	return s.repomanager.Posts(s.db).Create(ctx, post)
}

// ListPosts returns the whole feed newest-first, with likes and comments
// attached.
func (s *ContentService) ListPosts(ctx context.Context) ([]PostView, error) {
	posts, err := s.repomanager.Posts(s.db).List(ctx)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, posts)
}

// ListPostsByUser returns one author's posts, with likes and comments
// attached.
func (s *ContentService) ListPostsByUser(ctx context.Context, author string) ([]PostView, error) {
	posts, err := s.repomanager.Posts(s.db).ListByAuthor(ctx, author)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, posts)
}

func (s *ContentService) assemble(ctx context.Context, posts []*models.Post) ([]PostView, error) {
	repo := s.repomanager.Posts(s.db)
	likes, err := repo.LikeCounts(ctx)
	if err != nil {
		return nil, err
	}
	comments, err := repo.CommentsByPost(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, PostView{Post: p, Likes: likes[p.ID], Comments: comments[p.ID]})
	}
	return views, nil
}

// Like records a like once per user and notifies the post's author.
func (s *ContentService) Like(ctx context.Context, callerID string, postID int64) error {
	if _, err := s.users.EnsureActive(ctx, callerID); err != nil {
		return err
	}
	post, err := s.repomanager.Posts(s.db).Get(ctx, postID)
	if err != nil {
		return err
	}
	if err := s.repomanager.Posts(s.db).Like(ctx, postID, callerID); err != nil {
		return err
	}
	s.notify(ctx, post.Author, callerID, "%s liked your post")
	return nil
}

// Comment appends a comment and notifies the post's author.
func (s *ContentService) Comment(ctx context.Context, callerID string, postID int64, content string) error {
	if _, err := s.users.EnsureActive(ctx, callerID); err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		return common.ErrValidation
	}
	post, err := s.repomanager.Posts(s.db).Get(ctx, postID)
	if err != nil {
		return err
	}
	comment := &models.Comment{
		PostID:    postID,
		Author:    callerID,
		Content:   content,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := s.repomanager.Posts(s.db).AddComment(ctx, comment); err != nil {
		return err
	}
	s.notify(ctx, post.Author, callerID, "%s commented on your post")
	return nil
}

// DeletePost removes a post. Only the author or an admin may do it.
func (s *ContentService) DeletePost(ctx context.Context, callerID string, postID int64) error {
	caller, err := s.users.EnsureActive(ctx, callerID)
	if err != nil {
		return err
	}
	post, err := s.repomanager.Posts(s.db).Get(ctx, postID)
	if err != nil {
		return err
	}
	if post.Author != callerID && !isAdminRole(caller.Role) {
		return common.ErrUnauthorized
	}
	return s.repomanager.Posts(s.db).Delete(ctx, postID)
}

// CreateStory adds an ephemeral story.
func (s *ContentService) CreateStory(ctx context.Context, callerID, content, image string) (*models.Story, error) {
	if _, err := s.users.EnsureActive(ctx, callerID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" && image == "" {
		return nil, common.ErrValidation
	}
	story := &models.Story{
		Author:    callerID,
		Content:   content,
		Image:     image,
		CreatedAt: time.Now().UnixMilli(),
	}
	return s.repomanager.Stories(s.db).Create(ctx, story)
}

// ActiveStories returns stories younger than StoryTTL, newest first.
func (s *ContentService) ActiveStories(ctx context.Context) ([]*models.Story, error) {
	since := time.Now().Add(-StoryTTL).UnixMilli()
	return s.repomanager.Stories(s.db).ListSince(ctx, since)
}

// CreateAnnouncement publishes a school-wide announcement. Admins only.
func (s *ContentService) CreateAnnouncement(ctx context.Context, callerID, content string) (*models.Announcement, error) {
	if _, err := s.users.EnsureAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, common.ErrValidation
	}
	a := &models.Announcement{
		Author:    callerID,
		Content:   content,
		CreatedAt: time.Now().UnixMilli(),
	}
	return s.repomanager.Announcements(s.db).Create(ctx, a)
}

// Announcements lists every announcement, newest first.
func (s *ContentService) Announcements(ctx context.Context) ([]*models.Announcement, error) {
	return s.repomanager.Announcements(s.db).List(ctx)
}

// Stats aggregates the activity counters shown on the admin dashboard.
func (s *ContentService) Stats(ctx context.Context) (*models.ActivityStats, error) {
	users, err := s.repomanager.Users(s.db).Count(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := s.repomanager.Posts(s.db).Count(ctx)
	if err != nil {
		return nil, err
	}
	messages, err := s.repomanager.Messages(s.db).Count(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.repomanager.Profiles(s.db).CountActiveSince(ctx, time.Now().Add(-activeWindow).UnixMilli())
	if err != nil {
		return nil, err
	}
	return &models.ActivityStats{
		TotalUsers:    users,
		TotalPosts:    posts,
		TotalMessages: messages,
		ActiveUsers:   active,
	}, nil
}

// Notifications returns the caller's notifications, newest first.
func (s *ContentService) Notifications(ctx context.Context, callerID string) ([]*models.Notification, error) {
	return s.repomanager.Notifications(s.db).ListForUser(ctx, callerID)
}

// UnreadNotificationCount returns how many notifications are still unread.
func (s *ContentService) UnreadNotificationCount(ctx context.Context, callerID string) (int64, error) {
	return s.repomanager.Notifications(s.db).UnreadCount(ctx, callerID)
}

// MarkNotificationRead settles one of the caller's own notifications.
func (s *ContentService) MarkNotificationRead(ctx context.Context, callerID string, id int64) error {
	if _, err := s.users.EnsureActive(ctx, callerID); err != nil {
		return err
	}
	return s.repomanager.Notifications(s.db).MarkRead(ctx, id, callerID)
}

// notify fans a notification out to recipient. Self-notifications are
// dropped, and failures never surface to the triggering call.
func (s *ContentService) notify(ctx context.Context, recipient, actorID, format string) {
	if recipient == actorID {
		return
	}
	n := &models.Notification{
		UserID:    recipient,
		Content:   fmt.Sprintf(format, s.actorName(ctx, actorID)),
		CreatedAt: time.Now().UnixMilli(),
	}
	_ = s.repomanager.Notifications(s.db).Create(ctx, n)
}

// actorName prefers the display name, falling back to the login for users
// who have not signed up.
func (s *ContentService) actorName(ctx context.Context, userID string) string {
	profile, err := s.repomanager.Profiles(s.db).Get(ctx, userID)
	if err == nil && profile.Name != "" {
		return profile.Name
	}
	if errors.Is(err, common.ErrNotFound) {
		if user, uerr := s.repomanager.Users(s.db).GetUserByID(ctx, userID); uerr == nil {
			return user.UserName
		}
	}
	return "Someone"
}
