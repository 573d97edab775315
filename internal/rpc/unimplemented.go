package rpc

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// UnimplementedBackendServer can be embedded to stub out methods that a
// partial implementation (typically a test double) does not care about.
type UnimplementedBackendServer struct{}

func errUnimplemented(name string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", name)
}

func (UnimplementedBackendServer) Register(context.Context, *RegisterRequest) (*RegisterResponse, error) {
	return nil, errUnimplemented("Register")
}
func (UnimplementedBackendServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, errUnimplemented("Login")
}
func (UnimplementedBackendServer) RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error) {
	return nil, errUnimplemented("RefreshToken")
}
func (UnimplementedBackendServer) GetCallerUserProfile(context.Context, *Empty) (*ProfileResponse, error) {
	return nil, errUnimplemented("GetCallerUserProfile")
}
func (UnimplementedBackendServer) SaveCallerUserProfile(context.Context, *SaveProfileRequest) (*Empty, error) {
	return nil, errUnimplemented("SaveCallerUserProfile")
}
func (UnimplementedBackendServer) Signup(context.Context, *SignupRequest) (*Empty, error) {
	return nil, errUnimplemented("Signup")
}
func (UnimplementedBackendServer) GetUserProfile(context.Context, *UserRequest) (*ProfileResponse, error) {
	return nil, errUnimplemented("GetUserProfile")
}
func (UnimplementedBackendServer) SearchUsers(context.Context, *SearchUsersRequest) (*ProfilesResponse, error) {
	return nil, errUnimplemented("SearchUsers")
}
func (UnimplementedBackendServer) GetAllUsers(context.Context, *Empty) (*ProfilesResponse, error) {
	return nil, errUnimplemented("GetAllUsers")
}
func (UnimplementedBackendServer) UpdateLastSeen(context.Context, *Empty) (*Empty, error) {
	return nil, errUnimplemented("UpdateLastSeen")
}
func (UnimplementedBackendServer) CreatePost(context.Context, *CreatePostRequest) (*PostResponse, error) {
	return nil, errUnimplemented("CreatePost")
}
func (UnimplementedBackendServer) LikePost(context.Context, *PostIDRequest) (*Empty, error) {
	return nil, errUnimplemented("LikePost")
}
func (UnimplementedBackendServer) CommentOnPost(context.Context, *CommentRequest) (*Empty, error) {
	return nil, errUnimplemented("CommentOnPost")
}
func (UnimplementedBackendServer) DeletePost(context.Context, *PostIDRequest) (*Empty, error) {
	return nil, errUnimplemented("DeletePost")
}
func (UnimplementedBackendServer) GetAllPosts(context.Context, *Empty) (*PostsResponse, error) {
	return nil, errUnimplemented("GetAllPosts")
}
func (UnimplementedBackendServer) GetPostsByUser(context.Context, *UserRequest) (*PostsResponse, error) {
	return nil, errUnimplemented("GetPostsByUser")
}
func (UnimplementedBackendServer) CreateStory(context.Context, *CreateStoryRequest) (*StoryResponse, error) {
	return nil, errUnimplemented("CreateStory")
}
func (UnimplementedBackendServer) GetActiveStories(context.Context, *Empty) (*StoriesResponse, error) {
	return nil, errUnimplemented("GetActiveStories")
}
func (UnimplementedBackendServer) SendMessage(context.Context, *SendMessageRequest) (*MessageResponse, error) {
	return nil, errUnimplemented("SendMessage")
}
func (UnimplementedBackendServer) GetConversation(context.Context, *UserRequest) (*MessagesResponse, error) {
	return nil, errUnimplemented("GetConversation")
}
func (UnimplementedBackendServer) GetConversations(context.Context, *Empty) (*ConversationsResponse, error) {
	return nil, errUnimplemented("GetConversations")
}
func (UnimplementedBackendServer) MarkMessageAsRead(context.Context, *MessageIDRequest) (*Empty, error) {
	return nil, errUnimplemented("MarkMessageAsRead")
}
func (UnimplementedBackendServer) GetNotifications(context.Context, *Empty) (*NotificationsResponse, error) {
	return nil, errUnimplemented("GetNotifications")
}
func (UnimplementedBackendServer) GetUnreadNotificationCount(context.Context, *Empty) (*UnreadCountResponse, error) {
	return nil, errUnimplemented("GetUnreadNotificationCount")
}
func (UnimplementedBackendServer) MarkNotificationAsRead(context.Context, *NotificationIDRequest) (*Empty, error) {
	return nil, errUnimplemented("MarkNotificationAsRead")
}
func (UnimplementedBackendServer) BanUser(context.Context, *UserRequest) (*Empty, error) {
	return nil, errUnimplemented("BanUser")
}
func (UnimplementedBackendServer) UnbanUser(context.Context, *UserRequest) (*Empty, error) {
	return nil, errUnimplemented("UnbanUser")
}
func (UnimplementedBackendServer) AssignAdminRole(context.Context, *UserRequest) (*Empty, error) {
	return nil, errUnimplemented("AssignAdminRole")
}
func (UnimplementedBackendServer) RemoveAdminRole(context.Context, *UserRequest) (*Empty, error) {
	return nil, errUnimplemented("RemoveAdminRole")
}
func (UnimplementedBackendServer) IsCallerAdmin(context.Context, *Empty) (*IsAdminResponse, error) {
	return nil, errUnimplemented("IsCallerAdmin")
}
func (UnimplementedBackendServer) GetCallerUserRole(context.Context, *Empty) (*CallerRoleResponse, error) {
	return nil, errUnimplemented("GetCallerUserRole")
}
func (UnimplementedBackendServer) CreateAnnouncement(context.Context, *CreateAnnouncementRequest) (*AnnouncementResponse, error) {
	return nil, errUnimplemented("CreateAnnouncement")
}
func (UnimplementedBackendServer) GetAnnouncements(context.Context, *Empty) (*AnnouncementsResponse, error) {
	return nil, errUnimplemented("GetAnnouncements")
}
func (UnimplementedBackendServer) GetActivityStats(context.Context, *Empty) (*StatsResponse, error) {
	return nil, errUnimplemented("GetActivityStats")
}
func (UnimplementedBackendServer) RequestMediaUpload(context.Context, *MediaUploadRequest) (*MediaUploadResponse, error) {
	return nil, errUnimplemented("RequestMediaUpload")
}
func (UnimplementedBackendServer) ResolveMediaURL(context.Context, *MediaURLRequest) (*MediaURLResponse, error) {
	return nil, errUnimplemented("ResolveMediaURL")
}
func (UnimplementedBackendServer) GetClientVersion(context.Context, *Empty) (*ClientVersionResponse, error) {
	return nil, errUnimplemented("GetClientVersion")
}
func (UnimplementedBackendServer) Ping(context.Context, *Empty) (*PingResponse, error) {
	return nil, errUnimplemented("Ping")
}
