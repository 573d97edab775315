package rpc

// Request/response envelopes. One pair per method, even when empty, so the
// wire format can grow without breaking older clients.

type Empty struct{}

// Auth.

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Principal Principal `json:"principal"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Principal    Principal `json:"principal"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Profiles.

type ProfileResponse struct {
	// Profile is nil for "authenticated but not signed up yet". That is a
	// valid state, not an error.
	Profile *UserProfile `json:"profile"`
}

type SaveProfileRequest struct {
	Profile UserProfile `json:"profile"`
}

type SignupRequest struct {
	Name      string `json:"name"`
	ClassName string `json:"class_name"`
	Year      int64  `json:"year"`
}

type UserRequest struct {
	User Principal `json:"user"`
}

type SearchUsersRequest struct {
	Name string `json:"name"`
}

type ProfilesResponse struct {
	Profiles []UserProfile `json:"profiles"`
}

// Posts.

type CreatePostRequest struct {
	Content string `json:"content"`
	Media   string `json:"media,omitempty"`
}

type PostResponse struct {
	Post Post `json:"post"`
}

type PostsResponse struct {
	Posts []Post `json:"posts"`
}

type PostIDRequest struct {
	PostID int64 `json:"post_id"`
}

type CommentRequest struct {
	PostID  int64  `json:"post_id"`
	Content string `json:"content"`
}

// Stories.

type CreateStoryRequest struct {
	Content string `json:"content"`
	Image   string `json:"image,omitempty"`
}

type StoryResponse struct {
	Story Story `json:"story"`
}

type StoriesResponse struct {
	Stories []Story `json:"stories"`
}

// Messaging.

type SendMessageRequest struct {
	Receiver Principal `json:"receiver"`
	Content  string    `json:"content"`
}

type MessageResponse struct {
	Message Message `json:"message"`
}

type MessagesResponse struct {
	Messages []Message `json:"messages"`
}

type ConversationsResponse struct {
	Conversations []ConversationHead `json:"conversations"`
}

type MessageIDRequest struct {
	MessageID int64 `json:"message_id"`
}

// Notifications.

type NotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type NotificationIDRequest struct {
	NotificationID int64 `json:"notification_id"`
}

// Moderation.

type IsAdminResponse struct {
	IsAdmin bool `json:"is_admin"`
}

type CallerRoleResponse struct {
	Role CallerRole `json:"role"`
}

// Announcements.

type CreateAnnouncementRequest struct {
	Content string `json:"content"`
}

type AnnouncementResponse struct {
	Announcement Announcement `json:"announcement"`
}

type AnnouncementsResponse struct {
	Announcements []Announcement `json:"announcements"`
}

// Misc.

type StatsResponse struct {
	Stats ActivityStats `json:"stats"`
}

type MediaUploadRequest struct {
	ContentType string `json:"content_type"`
}

type MediaUploadResponse struct {
	StorageKey string `json:"storage_key"`
	URL        string `json:"url"`
}

type MediaURLRequest struct {
	StorageKey string `json:"storage_key"`
}

type MediaURLResponse struct {
	URL string `json:"url"`
}

type ClientVersionResponse struct {
	Version string `json:"version"`
}

type PingResponse struct {
	Status string `json:"status"`
}
