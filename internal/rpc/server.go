package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "sachwave.Backend"

func fullMethod(name string) string { return "/" + ServiceName + "/" + name }

// BackendServer is the server-side contract. The reference backend
// implements it; tests implement subsets with stubs.
type BackendServer interface {
	// Auth.
	Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	RefreshToken(ctx context.Context, req *RefreshTokenRequest) (*RefreshTokenResponse, error)

	// Profiles.
	GetCallerUserProfile(ctx context.Context, req *Empty) (*ProfileResponse, error)
	SaveCallerUserProfile(ctx context.Context, req *SaveProfileRequest) (*Empty, error)
	Signup(ctx context.Context, req *SignupRequest) (*Empty, error)
	GetUserProfile(ctx context.Context, req *UserRequest) (*ProfileResponse, error)
	SearchUsers(ctx context.Context, req *SearchUsersRequest) (*ProfilesResponse, error)
	GetAllUsers(ctx context.Context, req *Empty) (*ProfilesResponse, error)
	UpdateLastSeen(ctx context.Context, req *Empty) (*Empty, error)

	// Posts.
	CreatePost(ctx context.Context, req *CreatePostRequest) (*PostResponse, error)
	LikePost(ctx context.Context, req *PostIDRequest) (*Empty, error)
	CommentOnPost(ctx context.Context, req *CommentRequest) (*Empty, error)
	DeletePost(ctx context.Context, req *PostIDRequest) (*Empty, error)
	GetAllPosts(ctx context.Context, req *Empty) (*PostsResponse, error)
	GetPostsByUser(ctx context.Context, req *UserRequest) (*PostsResponse, error)

	// Stories.
	CreateStory(ctx context.Context, req *CreateStoryRequest) (*StoryResponse, error)
	GetActiveStories(ctx context.Context, req *Empty) (*StoriesResponse, error)

	// Messaging.
	SendMessage(ctx context.Context, req *SendMessageRequest) (*MessageResponse, error)
	GetConversation(ctx context.Context, req *UserRequest) (*MessagesResponse, error)
	GetConversations(ctx context.Context, req *Empty) (*ConversationsResponse, error)
	MarkMessageAsRead(ctx context.Context, req *MessageIDRequest) (*Empty, error)

	// Notifications.
	GetNotifications(ctx context.Context, req *Empty) (*NotificationsResponse, error)
	GetUnreadNotificationCount(ctx context.Context, req *Empty) (*UnreadCountResponse, error)
	MarkNotificationAsRead(ctx context.Context, req *NotificationIDRequest) (*Empty, error)

	// Moderation.
	BanUser(ctx context.Context, req *UserRequest) (*Empty, error)
	UnbanUser(ctx context.Context, req *UserRequest) (*Empty, error)
	AssignAdminRole(ctx context.Context, req *UserRequest) (*Empty, error)
	RemoveAdminRole(ctx context.Context, req *UserRequest) (*Empty, error)
	IsCallerAdmin(ctx context.Context, req *Empty) (*IsAdminResponse, error)
	GetCallerUserRole(ctx context.Context, req *Empty) (*CallerRoleResponse, error)

	// Announcements.
	CreateAnnouncement(ctx context.Context, req *CreateAnnouncementRequest) (*AnnouncementResponse, error)
	GetAnnouncements(ctx context.Context, req *Empty) (*AnnouncementsResponse, error)

	// Misc.
	GetActivityStats(ctx context.Context, req *Empty) (*StatsResponse, error)
	RequestMediaUpload(ctx context.Context, req *MediaUploadRequest) (*MediaUploadResponse, error)
	ResolveMediaURL(ctx context.Context, req *MediaURLRequest) (*MediaURLResponse, error)
	GetClientVersion(ctx context.Context, req *Empty) (*ClientVersionResponse, error)
	Ping(ctx context.Context, req *Empty) (*PingResponse, error)
}

// unary builds a grpc.MethodDesc for a unary method, mirroring what
// protoc-gen-go-grpc would emit.
func unary[Req any](name string, call func(srv BackendServer, ctx context.Context, req *Req) (any, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(BackendServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

// BackendServiceDesc is the hand-maintained service descriptor. Every method
// listed here must have a matching client stub in client.go.
var BackendServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BackendServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", func(s BackendServer, ctx context.Context, r *RegisterRequest) (any, error) { return s.Register(ctx, r) }),
		unary("Login", func(s BackendServer, ctx context.Context, r *LoginRequest) (any, error) { return s.Login(ctx, r) }),
		unary("RefreshToken", func(s BackendServer, ctx context.Context, r *RefreshTokenRequest) (any, error) { return s.RefreshToken(ctx, r) }),

		unary("GetCallerUserProfile", func(s BackendServer, ctx context.Context, r *Empty) (any, error) { return s.GetCallerUserProfile(ctx, r) }),
		unary("SaveCallerUserProfile", func(s BackendServer, ctx context.Context, r *SaveProfileRequest) (any, error) { return s.SaveCallerUserProfile(ctx, r) }),
		unary("Signup", func(s BackendServer, ctx context.Context, r *SignupRequest) (any, error) { return s.Signup(ctx, r) }),
		unary("GetUserProfile", func(s BackendServer, ctx context.Context, r *UserRequest) (any, error) { return s.GetUserProfile(ctx, r) }),
		unary("SearchUsers", func(s BackendServer, ctx context.Context, r *SearchUsersRequest) (any, error) { return s.SearchUsers(ctx, r) }),
		unary("GetAllUsers", func(s BackendServer, ctx context.Context, r *Empty) (any, error) { return s.GetAllUsers(ctx, r) }),
		unary("UpdateLastSeen", func(s BackendServer, ctx context.Context, r *Empty) (any, error) { return s.UpdateLastSeen(ctx, r) }),

		unary("CreatePost", func(s BackendServer, ctx context.Context, r *CreatePostRequest) (any, error) { return s.CreatePost(ctx, r) }),
		unary("LikePost", func(s BackendServer, ctx context.Context, r *PostIDRequest) (any, error) { return s.LikePost(ctx, r) }),
		unary("CommentOnPost", func(s BackendServer, ctx context.Context, r *CommentRequest) (any, error) { return s.CommentOnPost(ctx, r) }),
		unary("DeletePost", func(s BackendServer, ctx context.Context, r *PostIDRequest) (any, error) { return s.DeletePost(ctx, r) }),
		unary("GetAllPosts", func(s BackendServer, ctx context.Context, r *Empty) (any, error) { return s.GetAllPosts(ctx, r) }),
		unary("GetPostsByUser", func(s BackendServer, ctx context.Context, r *UserRequest) (any, error) { return s.GetPostsByUser(ctx, r) }),

		unary("CreateStory", func(s BackendServer, ctx context.Context, r *CreateStoryRequest) (any, error) { return s.CreateStory(ctx, r) }),
		unary("GetActiveStories", func(s BackendServer, ctx context.Context, r *Empty) (any, error) { return s.GetActiveStories(ctx, r) }),

		unary("SendMessage", func(s BackendServer, ctx context.Context, r *SendMessageRequest) (any, error) { return s.SendMessage(ctx, r) }),
		unary("GetConversation", func(s BackendServer, ctx context.Context, r *UserRequest) (any, error) { return s.GetConversation(ctx, r) }),
		unary("GetConversations", func(s BackendServer, ctx context.Context, r *Empty) (any, error) { return s.GetConversations(ctx, r) }),
		unary("MarkMessageAsRead", func(s BackendServer, ctx context.Context, r *MessageIDRequest) (any, error) { return s.MarkMessageAsRead(ctx, r) }),

		unary("GetNotifications", func(s BackendServer, ctx context.Context, r *Empty) (any, error) { return s.GetNotifications(ctx, r) }),
		unary("GetUnreadNotificationCount", func(s BackendServer, ctx context.Context, r *Empty) (any, error) { return s.GetUnreadNotificationCount(ctx, r) }),
		unary("MarkNotificationAsRead", func(s BackendServer, ctx context.Context, r *NotificationIDRequest) (any, error) { return s.MarkNotificationAsRead(ctx, r) }),

		unary("BanUser", func(s BackendServer, ctx context.Context, r *UserRequest) (any, error) { return s.BanUser(ctx, r) }),
		unary("UnbanUser", func(s BackendServer, ctx context.Context, r *UserRequest) (any, error) { return s.UnbanUser(ctx, r) }),
		unary("AssignAdminRole", func(s BackendServer, ctx context.Context, r *UserRequest) (any, error) { return s.AssignAdminRole(ctx, r) }),
		unary("RemoveAdminRole", func(s BackendServer, ctx context.Context, r *UserRequest) (any, error) { return s.RemoveAdminRole(ctx, r) }),
		unary("IsCallerAdmin", func(s BackendServer, ctx context.Context, r *Empty) (any, error) { return s.IsCallerAdmin(ctx, r) }),
		unary("GetCallerUserRole", func(s BackendServer, ctx context.Context, r *Empty) (any, error) { return s.GetCallerUserRole(ctx, r) }),

		unary("CreateAnnouncement", func(s BackendServer, ctx context.Context, r *CreateAnnouncementRequest) (any, error) { return s.CreateAnnouncement(ctx, r) }),
		unary("GetAnnouncements", func(s BackendServer, ctx context.Context, r *Empty) (any, error) { return s.GetAnnouncements(ctx, r) }),

		unary("GetActivityStats", func(s BackendServer, ctx context.Context, r *Empty) (any, error) { return s.GetActivityStats(ctx, r) }),
		unary("RequestMediaUpload", func(s BackendServer, ctx context.Context, r *MediaUploadRequest) (any, error) { return s.RequestMediaUpload(ctx, r) }),
		unary("ResolveMediaURL", func(s BackendServer, ctx context.Context, r *MediaURLRequest) (any, error) { return s.ResolveMediaURL(ctx, r) }),
		unary("GetClientVersion", func(s BackendServer, ctx context.Context, r *Empty) (any, error) { return s.GetClientVersion(ctx, r) }),
		unary("Ping", func(s BackendServer, ctx context.Context, r *Empty) (any, error) { return s.Ping(ctx, r) }),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sachwave/backend",
}

// RegisterBackendServer registers srv with the gRPC server under
// BackendServiceDesc.
func RegisterBackendServer(s grpc.ServiceRegistrar, srv BackendServer) {
	s.RegisterService(&BackendServiceDesc, srv)
}
