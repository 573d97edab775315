package rpc

import "context"

// Backend is the client-side actor surface: every remote operation the app
// issues goes through an implementation of this interface. The concrete
// implementation is the gRPC Client; tests substitute fakes.
type Backend interface {
	// Profiles. A nil profile means "authenticated but not signed up yet";
	// it is a valid result, not an error.
	GetCallerUserProfile(ctx context.Context) (*UserProfile, error)
	SaveCallerUserProfile(ctx context.Context, profile UserProfile) error
	Signup(ctx context.Context, name, className string, year int64) error
	GetUserProfile(ctx context.Context, user Principal) (*UserProfile, error)
	SearchUsers(ctx context.Context, name string) ([]UserProfile, error)
	GetAllUsers(ctx context.Context) ([]UserProfile, error)
	UpdateLastSeen(ctx context.Context) error

	// Posts.
	CreatePost(ctx context.Context, content, media string) (Post, error)
	LikePost(ctx context.Context, postID int64) error
	CommentOnPost(ctx context.Context, postID int64, content string) error
	DeletePost(ctx context.Context, postID int64) error
	GetAllPosts(ctx context.Context) ([]Post, error)
	GetPostsByUser(ctx context.Context, user Principal) ([]Post, error)

	// Stories.
	CreateStory(ctx context.Context, content, image string) (Story, error)
	GetActiveStories(ctx context.Context) ([]Story, error)

	// Messaging.
	SendMessage(ctx context.Context, receiver Principal, content string) (Message, error)
	GetConversation(ctx context.Context, other Principal) ([]Message, error)
	GetConversations(ctx context.Context) ([]ConversationHead, error)
	MarkMessageAsRead(ctx context.Context, messageID int64) error

	// Notifications.
	GetNotifications(ctx context.Context) ([]Notification, error)
	GetUnreadNotificationCount(ctx context.Context) (int64, error)
	MarkNotificationAsRead(ctx context.Context, notificationID int64) error

	// Moderation.
	BanUser(ctx context.Context, user Principal) error
	UnbanUser(ctx context.Context, user Principal) error
	AssignAdminRole(ctx context.Context, user Principal) error
	RemoveAdminRole(ctx context.Context, user Principal) error
	IsCallerAdmin(ctx context.Context) (bool, error)
	GetCallerUserRole(ctx context.Context) (CallerRole, error)

	// Announcements.
	CreateAnnouncement(ctx context.Context, content string) (Announcement, error)
	GetAnnouncements(ctx context.Context) ([]Announcement, error)

	// Misc.
	GetActivityStats(ctx context.Context) (ActivityStats, error)
	RequestMediaUpload(ctx context.Context, contentType string) (MediaUploadResponse, error)
	ResolveMediaURL(ctx context.Context, storageKey string) (string, error)
	GetClientVersion(ctx context.Context) (string, error)
	Ping(ctx context.Context) error
}
