package rpc

import (
	"context"
	"sync"

	"github.com/sachwave/sachwave/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Client is the gRPC implementation of Backend. One Client is bound to one
// identity: its token pair is fixed at construction (empty for the anonymous
// principal) and only changes through the refresh interceptor.
type Client struct {
	endpointURL string
	conn        *grpc.ClientConn

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

// Dial connects to the backend and returns a Client carrying the given
// token pair. Empty tokens produce an anonymous client. Extra dial options
// (e.g. a bufconn dialer in tests) are appended after the defaults.
func Dial(endpointURL, accessToken, refreshToken string, extra ...grpc.DialOption) (*Client, error) {
	c := &Client{endpointURL: endpointURL, accessToken: accessToken, refreshToken: refreshToken}

	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, extra...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

func (c *Client) Close() error { return c.conn.Close() }

// Tokens returns the current token pair. The refresh interceptor may rotate
// them behind the caller's back.
func (c *Client) Tokens() (access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the access token to every call and, when
// the server reports an expired token, rotates the pair via RefreshToken and
// retries the original call once.
func (c *Client) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	c.mu.Lock()
	access, refresh := c.accessToken, c.refreshToken
	c.mu.Unlock()

	if access != "" {
		ctx = withAccessToken(ctx, access)
	}

	err := invoker(ctx, method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refresh == "" {
		return err
	}

	// Bypass the interceptor for the refresh call itself.
	refreshReq := &RefreshTokenRequest{RefreshToken: refresh}
	refreshResp := &RefreshTokenResponse{}
	if rerr := cc.Invoke(ctx, fullMethod("RefreshToken"), refreshReq, refreshResp, opts...); rerr != nil {
		return err
	}

	c.mu.Lock()
	c.accessToken = refreshResp.AccessToken
	c.refreshToken = refreshResp.RefreshToken
	access = c.accessToken
	c.mu.Unlock()

	return invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
}

func invoke[Resp any](ctx context.Context, c *Client, name string, req any) (*Resp, error) {
	resp := new(Resp)
	if err := c.conn.Invoke(ctx, fullMethod(name), req, resp); err != nil {
		return nil, MapError(err)
	}
	return resp, nil
}

// Auth surface. These are not part of the Backend actor interface; the
// identity layer calls them directly.

func (c *Client) Register(ctx context.Context, username, password string) (Principal, error) {
	resp, err := invoke[RegisterResponse](ctx, c, "Register", &RegisterRequest{Username: username, Password: password})
	if err != nil {
		return "", err
	}
	return resp.Principal, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	resp, err := invoke[LoginResponse](ctx, c, "Login", &LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.accessToken = resp.AccessToken
	c.refreshToken = resp.RefreshToken
	c.mu.Unlock()
	return resp, nil
}

// Profiles.

func (c *Client) GetCallerUserProfile(ctx context.Context) (*UserProfile, error) {
	resp, err := invoke[ProfileResponse](ctx, c, "GetCallerUserProfile", &Empty{})
	if err != nil {
		return nil, err
	}
	return resp.Profile, nil
}

func (c *Client) SaveCallerUserProfile(ctx context.Context, profile UserProfile) error {
	_, err := invoke[Empty](ctx, c, "SaveCallerUserProfile", &SaveProfileRequest{Profile: profile})
	return err
}

func (c *Client) Signup(ctx context.Context, name, className string, year int64) error {
	_, err := invoke[Empty](ctx, c, "Signup", &SignupRequest{Name: name, ClassName: className, Year: year})
	return err
}

func (c *Client) GetUserProfile(ctx context.Context, user Principal) (*UserProfile, error) {
	resp, err := invoke[ProfileResponse](ctx, c, "GetUserProfile", &UserRequest{User: user})
	if err != nil {
		return nil, err
	}
	return resp.Profile, nil
}

func (c *Client) SearchUsers(ctx context.Context, name string) ([]UserProfile, error) {
	resp, err := invoke[ProfilesResponse](ctx, c, "SearchUsers", &SearchUsersRequest{Name: name})
	if err != nil {
		return nil, err
	}
	return resp.Profiles, nil
}

func (c *Client) GetAllUsers(ctx context.Context) ([]UserProfile, error) {
	resp, err := invoke[ProfilesResponse](ctx, c, "GetAllUsers", &Empty{})
	if err != nil {
		return nil, err
	}
	return resp.Profiles, nil
}

func (c *Client) UpdateLastSeen(ctx context.Context) error {
	_, err := invoke[Empty](ctx, c, "UpdateLastSeen", &Empty{})
	return err
}

// Posts.

func (c *Client) CreatePost(ctx context.Context, content, media string) (Post, error) {
	resp, err := invoke[PostResponse](ctx, c, "CreatePost", &CreatePostRequest{Content: content, Media: media})
	if err != nil {
		return Post{}, err
	}
	return resp.Post, nil
}

func (c *Client) LikePost(ctx context.Context, postID int64) error {
	_, err := invoke[Empty](ctx, c, "LikePost", &PostIDRequest{PostID: postID})
	return err
}

func (c *Client) CommentOnPost(ctx context.Context, postID int64, content string) error {
	_, err := invoke[Empty](ctx, c, "CommentOnPost", &CommentRequest{PostID: postID, Content: content})
	return err
}

func (c *Client) DeletePost(ctx context.Context, postID int64) error {
	_, err := invoke[Empty](ctx, c, "DeletePost", &PostIDRequest{PostID: postID})
	return err
}

func (c *Client) GetAllPosts(ctx context.Context) ([]Post, error) {
	resp, err := invoke[PostsResponse](ctx, c, "GetAllPosts", &Empty{})
	if err != nil {
		return nil, err
	}
	return resp.Posts, nil
}

func (c *Client) GetPostsByUser(ctx context.Context, user Principal) ([]Post, error) {
	resp, err := invoke[PostsResponse](ctx, c, "GetPostsByUser", &UserRequest{User: user})
	if err != nil {
		return nil, err
	}
	return resp.Posts, nil
}

// Stories.

func (c *Client) CreateStory(ctx context.Context, content, image string) (Story, error) {
	resp, err := invoke[StoryResponse](ctx, c, "CreateStory", &CreateStoryRequest{Content: content, Image: image})
	if err != nil {
		return Story{}, err
	}
	return resp.Story, nil
}

func (c *Client) GetActiveStories(ctx context.Context) ([]Story, error) {
	resp, err := invoke[StoriesResponse](ctx, c, "GetActiveStories", &Empty{})
	if err != nil {
		return nil, err
	}
	return resp.Stories, nil
}

// Messaging.

func (c *Client) SendMessage(ctx context.Context, receiver Principal, content string) (Message, error) {
	resp, err := invoke[MessageResponse](ctx, c, "SendMessage", &SendMessageRequest{Receiver: receiver, Content: content})
	if err != nil {
		return Message{}, err
	}
	return resp.Message, nil
}

func (c *Client) GetConversation(ctx context.Context, other Principal) ([]Message, error) {
	resp, err := invoke[MessagesResponse](ctx, c, "GetConversation", &UserRequest{User: other})
	if err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

func (c *Client) GetConversations(ctx context.Context) ([]ConversationHead, error) {
	resp, err := invoke[ConversationsResponse](ctx, c, "GetConversations", &Empty{})
	if err != nil {
		return nil, err
	}
	return resp.Conversations, nil
}

func (c *Client) MarkMessageAsRead(ctx context.Context, messageID int64) error {
	_, err := invoke[Empty](ctx, c, "MarkMessageAsRead", &MessageIDRequest{MessageID: messageID})
	return err
}

// Notifications.

func (c *Client) GetNotifications(ctx context.Context) ([]Notification, error) {
	resp, err := invoke[NotificationsResponse](ctx, c, "GetNotifications", &Empty{})
	if err != nil {
		return nil, err
	}
	return resp.Notifications, nil
}

func (c *Client) GetUnreadNotificationCount(ctx context.Context) (int64, error) {
	resp, err := invoke[UnreadCountResponse](ctx, c, "GetUnreadNotificationCount", &Empty{})
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *Client) MarkNotificationAsRead(ctx context.Context, notificationID int64) error {
	_, err := invoke[Empty](ctx, c, "MarkNotificationAsRead", &NotificationIDRequest{NotificationID: notificationID})
	return err
}

// Moderation.

func (c *Client) BanUser(ctx context.Context, user Principal) error {
	_, err := invoke[Empty](ctx, c, "BanUser", &UserRequest{User: user})
	return err
}

func (c *Client) UnbanUser(ctx context.Context, user Principal) error {
	_, err := invoke[Empty](ctx, c, "UnbanUser", &UserRequest{User: user})
	return err
}

func (c *Client) AssignAdminRole(ctx context.Context, user Principal) error {
	_, err := invoke[Empty](ctx, c, "AssignAdminRole", &UserRequest{User: user})
	return err
}

func (c *Client) RemoveAdminRole(ctx context.Context, user Principal) error {
	_, err := invoke[Empty](ctx, c, "RemoveAdminRole", &UserRequest{User: user})
	return err
}

func (c *Client) IsCallerAdmin(ctx context.Context) (bool, error) {
	resp, err := invoke[IsAdminResponse](ctx, c, "IsCallerAdmin", &Empty{})
	if err != nil {
		return false, err
	}
	return resp.IsAdmin, nil
}

func (c *Client) GetCallerUserRole(ctx context.Context) (CallerRole, error) {
	resp, err := invoke[CallerRoleResponse](ctx, c, "GetCallerUserRole", &Empty{})
	if err != nil {
		return CallerGuest, err
	}
	return resp.Role, nil
}

// Announcements.

func (c *Client) CreateAnnouncement(ctx context.Context, content string) (Announcement, error) {
	resp, err := invoke[AnnouncementResponse](ctx, c, "CreateAnnouncement", &CreateAnnouncementRequest{Content: content})
	if err != nil {
		return Announcement{}, err
	}
	return resp.Announcement, nil
}

func (c *Client) GetAnnouncements(ctx context.Context) ([]Announcement, error) {
	resp, err := invoke[AnnouncementsResponse](ctx, c, "GetAnnouncements", &Empty{})
	if err != nil {
		return nil, err
	}
	return resp.Announcements, nil
}

// Misc.

func (c *Client) GetActivityStats(ctx context.Context) (ActivityStats, error) {
	resp, err := invoke[StatsResponse](ctx, c, "GetActivityStats", &Empty{})
	if err != nil {
		return ActivityStats{}, err
	}
	return resp.Stats, nil
}

func (c *Client) RequestMediaUpload(ctx context.Context, contentType string) (MediaUploadResponse, error) {
	resp, err := invoke[MediaUploadResponse](ctx, c, "RequestMediaUpload", &MediaUploadRequest{ContentType: contentType})
	if err != nil {
		return MediaUploadResponse{}, err
	}
	return *resp, nil
}

func (c *Client) ResolveMediaURL(ctx context.Context, storageKey string) (string, error) {
	resp, err := invoke[MediaURLResponse](ctx, c, "ResolveMediaURL", &MediaURLRequest{StorageKey: storageKey})
	if err != nil {
		return "", err
	}
	return resp.URL, nil
}

func (c *Client) GetClientVersion(ctx context.Context) (string, error) {
	resp, err := invoke[ClientVersionResponse](ctx, c, "GetClientVersion", &Empty{})
	if err != nil {
		return "", err
	}
	return resp.Version, nil
}

func (c *Client) Ping(ctx context.Context) error {
	resp, err := invoke[PingResponse](ctx, c, "Ping", &Empty{})
	if err != nil {
		return err
	}
	if resp.Status != "OK" {
		return common.ErrUnavailable
	}
	return nil
}

var _ Backend = (*Client)(nil)
