package grpc

import (
	"context"
	"errors"

	"github.com/sachwave/sachwave/internal/common"
	"github.com/sachwave/sachwave/internal/rpc"
	"github.com/sachwave/sachwave/internal/server/models"
	"github.com/sachwave/sachwave/internal/server/services"
)

// --- conversions ---

func toUserProfile(p *models.Profile) *rpc.UserProfile {
	return &rpc.UserProfile{
		ID:   p.UserID,
		Name: p.Name,
		Bio:  p.Bio,
		Role: rpc.UserRole(p.Role),
		ClassInfo: rpc.ClassInfo{
			Year:      p.Year,
			ClassName: p.ClassName,
		},
		ProfilePicture:  p.ProfilePicture,
		FirstRegistered: p.Role == models.RoleOwner,
		LastSeen:        p.LastSeen,
	}
}

func toUserProfiles(in []*models.Profile) []rpc.UserProfile {
	out := make([]rpc.UserProfile, 0, len(in))
	for _, p := range in {
		out = append(out, *toUserProfile(p))
	}
	return out
}

func toPost(v services.PostView) rpc.Post {
	comments := make([]rpc.Comment, 0, len(v.Comments))
	for _, c := range v.Comments {
		comments = append(comments, rpc.Comment{Author: c.Author, Content: c.Content, Timestamp: c.CreatedAt})
	}
	return rpc.Post{
		ID:        v.Post.ID,
		Author:    v.Post.Author,
		Content:   v.Post.Content,
		Media:     v.Post.Media,
		Likes:     v.Likes,
		Comments:  comments,
		Timestamp: v.Post.CreatedAt,
	}
}

func toPosts(in []services.PostView) []rpc.Post {
	out := make([]rpc.Post, 0, len(in))
	for _, v := range in {
		out = append(out, toPost(v))
	}
	return out
}

func toStory(s *models.Story) rpc.Story {
	return rpc.Story{ID: s.ID, Author: s.Author, Content: s.Content, Image: s.Image, Timestamp: s.CreatedAt}
}

func toMessage(m *models.Message) rpc.Message {
	return rpc.Message{ID: m.ID, Sender: m.Sender, Receiver: m.Receiver, Content: m.Content, Read: m.Read, Timestamp: m.CreatedAt}
}

func toAnnouncement(a *models.Announcement) rpc.Announcement {
	return rpc.Announcement{ID: a.ID, Content: a.Content, Timestamp: a.CreatedAt}
}

// --- auth ---

func (s *GRPCServer) Register(ctx context.Context, req *rpc.RegisterRequest) (*rpc.RegisterResponse, error) {

	s.logger.Info(ctx, "Registration request")

	user, err := s.users.Register(ctx, req.Username, req.Password)
	if err != nil {
		s.logger.Error(ctx, err.Error())
		return nil, rpc.StatusFromError(err)
	}

	s.logger.Info(ctx, "Registered", "username", req.Username)
	return &rpc.RegisterResponse{Principal: user.ID}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.LoginResponse, error) {

	user, tokens, err := s.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}

	return &rpc.LoginResponse{
		Principal:    user.ID,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *rpc.RefreshTokenRequest) (*rpc.RefreshTokenResponse, error) {

	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}

	return &rpc.RefreshTokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// --- profiles ---

func (s *GRPCServer) GetCallerUserProfile(ctx context.Context, req *rpc.Empty) (*rpc.ProfileResponse, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}

	profile, err := s.profiles.Get(ctx, caller)
	if err != nil {
		// Registered but not signed up: a valid state, not an error.
		if errors.Is(err, common.ErrNotFound) {
			return &rpc.ProfileResponse{Profile: nil}, nil
		}
		return nil, rpc.StatusFromError(err)
	}

	return &rpc.ProfileResponse{Profile: toUserProfile(profile)}, nil
}

func (s *GRPCServer) SaveCallerUserProfile(ctx context.Context, req *rpc.SaveProfileRequest) (*rpc.Empty, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}

	profile := &models.Profile{
		Name:           req.Profile.Name,
		Bio:            req.Profile.Bio,
		ClassName:      req.Profile.ClassInfo.ClassName,
		Year:           req.Profile.ClassInfo.Year,
		ProfilePicture: req.Profile.ProfilePicture,
	}
	if err := s.profiles.Save(ctx, caller, profile); err != nil {
		return nil, rpc.StatusFromError(err)
	}

	return &rpc.Empty{}, nil
}

func (s *GRPCServer) Signup(ctx context.Context, req *rpc.SignupRequest) (*rpc.Empty, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}

	if err := s.profiles.Signup(ctx, caller, req.Name, req.ClassName, req.Year); err != nil {
		return nil, rpc.StatusFromError(err)
	}

	s.logger.Info(ctx, "Signed up", "user", caller)
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) GetUserProfile(ctx context.Context, req *rpc.UserRequest) (*rpc.ProfileResponse, error) {
	profile, err := s.profiles.Get(ctx, req.User)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}
	return &rpc.ProfileResponse{Profile: toUserProfile(profile)}, nil
}

func (s *GRPCServer) SearchUsers(ctx context.Context, req *rpc.SearchUsersRequest) (*rpc.ProfilesResponse, error) {
	found, err := s.profiles.Search(ctx, req.Name)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}
	return &rpc.ProfilesResponse{Profiles: toUserProfiles(found)}, nil
}

func (s *GRPCServer) GetAllUsers(ctx context.Context, req *rpc.Empty) (*rpc.ProfilesResponse, error) {
	all, err := s.profiles.List(ctx)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}
	return &rpc.ProfilesResponse{Profiles: toUserProfiles(all)}, nil
}

func (s *GRPCServer) UpdateLastSeen(ctx context.Context, req *rpc.Empty) (*rpc.Empty, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}
	if err := s.profiles.TouchLastSeen(ctx, caller); err != nil {
		return nil, rpc.StatusFromError(err)
	}
	return &rpc.Empty{}, nil
}

// --- posts ---

func (s *GRPCServer) CreatePost(ctx context.Context, req *rpc.CreatePostRequest) (*rpc.PostResponse, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}

	post, err := s.content.CreatePost(ctx, caller, req.Content, req.Media)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}

	return &rpc.PostResponse{Post: toPost(services.PostView{Post: post})}, nil
}

func (s *GRPCServer) LikePost(ctx context.Context, req *rpc.PostIDRequest) (*rpc.Empty, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}
	if err := s.content.Like(ctx, caller, req.PostID); err != nil {
		return nil, rpc.StatusFromError(err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) CommentOnPost(ctx context.Context, req *rpc.CommentRequest) (*rpc.Empty, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}
	if err := s.content.Comment(ctx, caller, req.PostID, req.Content); err != nil {
		return nil, rpc.StatusFromError(err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) DeletePost(ctx context.Context, req *rpc.PostIDRequest) (*rpc.Empty, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}
	if err := s.content.DeletePost(ctx, caller, req.PostID); err != nil {
		return nil, rpc.StatusFromError(err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) GetAllPosts(ctx context.Context, req *rpc.Empty) (*rpc.PostsResponse, error) {
	views, err := s.content.ListPosts(ctx)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}
	return &rpc.PostsResponse{Posts: toPosts(views)}, nil
}

func (s *GRPCServer) GetPostsByUser(ctx context.Context, req *rpc.UserRequest) (*rpc.PostsResponse, error) {
	views, err := s.content.ListPostsByUser(ctx, req.User)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}
	return &rpc.PostsResponse{Posts: toPosts(views)}, nil
}

// --- stories ---

func (s *GRPCServer) CreateStory(ctx context.Context, req *rpc.CreateStoryRequest) (*rpc.StoryResponse, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}

	story, err := s.content.CreateStory(ctx, caller, req.Content, req.Image)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}

	return &rpc.StoryResponse{Story: toStory(story)}, nil
}

func (s *GRPCServer) GetActiveStories(ctx context.Context, req *rpc.Empty) (*rpc.StoriesResponse, error) {
	active, err := s.content.ActiveStories(ctx)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}
	stories := make([]rpc.Story, 0, len(active))
	for _, story := range active {
		stories = append(stories, toStory(story))
	}
	return &rpc.StoriesResponse{Stories: stories}, nil
}

// --- messaging ---

func (s *GRPCServer) SendMessage(ctx context.Context, req *rpc.SendMessageRequest) (*rpc.MessageResponse, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}

	message, err := s.messages.Send(ctx, caller, req.Receiver, req.Content)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}

	return &rpc.MessageResponse{Message: toMessage(message)}, nil
}

func (s *GRPCServer) GetConversation(ctx context.Context, req *rpc.UserRequest) (*rpc.MessagesResponse, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}

	thread, err := s.messages.Conversation(ctx, caller, req.User)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}

	out := make([]rpc.Message, 0, len(thread))
	for _, m := range thread {
		out = append(out, toMessage(m))
	}
	return &rpc.MessagesResponse{Messages: out}, nil
}

func (s *GRPCServer) GetConversations(ctx context.Context, req *rpc.Empty) (*rpc.ConversationsResponse, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}

	heads, err := s.messages.Heads(ctx, caller)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}

	out := make([]rpc.ConversationHead, 0, len(heads))
	for _, m := range heads {
		peer := m.Sender
		if peer == caller {
			peer = m.Receiver
		}
		out = append(out, rpc.ConversationHead{Peer: peer, LastMessage: toMessage(m)})
	}
	return &rpc.ConversationsResponse{Conversations: out}, nil
}

func (s *GRPCServer) MarkMessageAsRead(ctx context.Context, req *rpc.MessageIDRequest) (*rpc.Empty, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}
	if err := s.messages.MarkRead(ctx, caller, req.MessageID); err != nil {
		return nil, rpc.StatusFromError(err)
	}
	return &rpc.Empty{}, nil
}

// --- notifications ---

func (s *GRPCServer) GetNotifications(ctx context.Context, req *rpc.Empty) (*rpc.NotificationsResponse, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}

	list, err := s.content.Notifications(ctx, caller)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}

	out := make([]rpc.Notification, 0, len(list))
	for _, n := range list {
		out = append(out, rpc.Notification{ID: n.ID, User: n.UserID, Content: n.Content, Read: n.Read, Timestamp: n.CreatedAt})
	}
	return &rpc.NotificationsResponse{Notifications: out}, nil
}

func (s *GRPCServer) GetUnreadNotificationCount(ctx context.Context, req *rpc.Empty) (*rpc.UnreadCountResponse, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}

	count, err := s.content.UnreadNotificationCount(ctx, caller)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}
	return &rpc.UnreadCountResponse{Count: count}, nil
}

func (s *GRPCServer) MarkNotificationAsRead(ctx context.Context, req *rpc.NotificationIDRequest) (*rpc.Empty, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}
	if err := s.content.MarkNotificationRead(ctx, caller, req.NotificationID); err != nil {
		return nil, rpc.StatusFromError(err)
	}
	return &rpc.Empty{}, nil
}

// --- moderation ---

func (s *GRPCServer) BanUser(ctx context.Context, req *rpc.UserRequest) (*rpc.Empty, error) {
	return s.moderate(ctx, req.User, s.users.Ban, "banned")
}

func (s *GRPCServer) UnbanUser(ctx context.Context, req *rpc.UserRequest) (*rpc.Empty, error) {
	return s.moderate(ctx, req.User, s.users.Unban, "unbanned")
}

func (s *GRPCServer) AssignAdminRole(ctx context.Context, req *rpc.UserRequest) (*rpc.Empty, error) {
	return s.moderate(ctx, req.User, s.users.Promote, "promoted")
}

func (s *GRPCServer) RemoveAdminRole(ctx context.Context, req *rpc.UserRequest) (*rpc.Empty, error) {
	return s.moderate(ctx, req.User, s.users.Demote, "demoted")
}

func (s *GRPCServer) moderate(ctx context.Context, target string,
	action func(ctx context.Context, callerID, targetID string) error, verb string) (*rpc.Empty, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}
	if err := action(ctx, caller, target); err != nil {
		return nil, rpc.StatusFromError(err)
	}
	s.logger.Info(ctx, "Moderation action", "action", verb, "target", target, "by", caller)
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) IsCallerAdmin(ctx context.Context, req *rpc.Empty) (*rpc.IsAdminResponse, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}

	user, err := s.users.EnsureActive(ctx, caller)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}
	return &rpc.IsAdminResponse{IsAdmin: user.Role == models.RoleAdmin || user.Role == models.RoleOwner}, nil
}

func (s *GRPCServer) GetCallerUserRole(ctx context.Context, req *rpc.Empty) (*rpc.CallerRoleResponse, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}

	user, err := s.users.GetUser(ctx, caller)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}

	role := rpc.CallerUser
	switch user.Role {
	case models.RoleAdmin, models.RoleOwner:
		role = rpc.CallerAdmin
	case models.RoleBanned:
		role = rpc.CallerGuest
	}
	return &rpc.CallerRoleResponse{Role: role}, nil
}

// --- announcements ---

func (s *GRPCServer) CreateAnnouncement(ctx context.Context, req *rpc.CreateAnnouncementRequest) (*rpc.AnnouncementResponse, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}

	a, err := s.content.CreateAnnouncement(ctx, caller, req.Content)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}
	return &rpc.AnnouncementResponse{Announcement: toAnnouncement(a)}, nil
}

func (s *GRPCServer) GetAnnouncements(ctx context.Context, req *rpc.Empty) (*rpc.AnnouncementsResponse, error) {
	list, err := s.content.Announcements(ctx)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}
	out := make([]rpc.Announcement, 0, len(list))
	for _, a := range list {
		out = append(out, toAnnouncement(a))
	}
	return &rpc.AnnouncementsResponse{Announcements: out}, nil
}

// --- misc ---

func (s *GRPCServer) GetActivityStats(ctx context.Context, req *rpc.Empty) (*rpc.StatsResponse, error) {
	stats, err := s.content.Stats(ctx)
	if err != nil {
		return nil, rpc.StatusFromError(err)
	}
	return &rpc.StatsResponse{Stats: rpc.ActivityStats{
		TotalUsers:    stats.TotalUsers,
		TotalPosts:    stats.TotalPosts,
		TotalMessages: stats.TotalMessages,
		ActiveUsers:   stats.ActiveUsers,
	}}, nil
}

func (s *GRPCServer) RequestMediaUpload(ctx context.Context, req *rpc.MediaUploadRequest) (*rpc.MediaUploadResponse, error) {
	if _, err := callerID(ctx); err != nil {
		return nil, rpc.StatusFromError(err)
	}

	key, url, err := s.media.RequestUpload(ctx, req.ContentType)
	if err != nil {
		s.logger.Error(ctx, err.Error())
		return nil, rpc.StatusFromError(err)
	}
	return &rpc.MediaUploadResponse{StorageKey: key, URL: url}, nil
}

func (s *GRPCServer) ResolveMediaURL(ctx context.Context, req *rpc.MediaURLRequest) (*rpc.MediaURLResponse, error) {
	url, err := s.media.ResolveURL(ctx, req.StorageKey)
	if err != nil {
		s.logger.Error(ctx, err.Error())
		return nil, rpc.StatusFromError(err)
	}
	return &rpc.MediaURLResponse{URL: url}, nil
}

func (s *GRPCServer) GetClientVersion(ctx context.Context, req *rpc.Empty) (*rpc.ClientVersionResponse, error) {
	return &rpc.ClientVersionResponse{Version: s.version}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *rpc.Empty) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "OK"}, nil
}
