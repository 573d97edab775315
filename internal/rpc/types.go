// Package rpc defines the wire contract between the Sach Wave client and the
// backend actor: the domain DTOs, the request/response envelopes, a JSON
// codec for gRPC, the hand-written client stub, and the server-side service
// descriptor.
//
// Messages travel as JSON bodies over unary gRPC calls. There is no
// generated code; the service descriptor and stubs are maintained by hand.
package rpc

// Principal is an opaque, globally-unique identity identifier issued by the
// auth layer. The empty string denotes the anonymous principal.
type Principal = string

// UserRole is the moderation-relevant role stored on a profile.
type UserRole string

const (
	RoleUser   UserRole = "user"
	RoleAdmin  UserRole = "admin"
	RoleOwner  UserRole = "owner"
	RoleBanned UserRole = "banned"
)

// CallerRole is the coarse role reported for the calling identity.
type CallerRole string

const (
	CallerGuest CallerRole = "guest"
	CallerUser  CallerRole = "user"
	CallerAdmin CallerRole = "admin"
)

// ClassInfo is the school-class blurb shown on a profile.
type ClassInfo struct {
	Year      int64  `json:"year"`
	ClassName string `json:"class_name"`
}

// UserProfile is the backend-owned profile record. ProfilePicture is a
// storage key, never inline bytes (upload-then-reference).
type UserProfile struct {
	ID              Principal `json:"id"`
	Name            string    `json:"name"`
	Bio             string    `json:"bio"`
	Role            UserRole  `json:"role"`
	ClassInfo       ClassInfo `json:"class_info"`
	ProfilePicture  string    `json:"profile_picture,omitempty"`
	FirstRegistered bool      `json:"first_registered"`
	LastSeen        int64     `json:"last_seen"` // unix milliseconds
}

type Comment struct {
	Author    Principal `json:"author"`
	Content   string    `json:"content"`
	Timestamp int64     `json:"timestamp"`
}

type Post struct {
	ID        int64     `json:"id"`
	Author    Principal `json:"author"`
	Content   string    `json:"content"`
	Media     string    `json:"media,omitempty"` // storage key
	Likes     int64     `json:"likes"`
	Comments  []Comment `json:"comments"`
	Timestamp int64     `json:"timestamp"`
}

type Story struct {
	ID        int64     `json:"id"`
	Author    Principal `json:"author"`
	Content   string    `json:"content"`
	Image     string    `json:"image,omitempty"` // storage key
	Timestamp int64     `json:"timestamp"`
}

type Message struct {
	ID        int64     `json:"id"`
	Sender    Principal `json:"sender"`
	Receiver  Principal `json:"receiver"`
	Content   string    `json:"content"`
	Read      bool      `json:"read"`
	Timestamp int64     `json:"timestamp"`
}

// ConversationHead pairs a peer with the latest message exchanged with them.
type ConversationHead struct {
	Peer        Principal `json:"peer"`
	LastMessage Message   `json:"last_message"`
}

type Notification struct {
	ID        int64     `json:"id"`
	User      Principal `json:"user"`
	Content   string    `json:"content"`
	Read      bool      `json:"read"`
	Timestamp int64     `json:"timestamp"`
}

type Announcement struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

type ActivityStats struct {
	TotalUsers    int64 `json:"total_users"`
	TotalPosts    int64 `json:"total_posts"`
	TotalMessages int64 `json:"total_messages"`
	ActiveUsers   int64 `json:"active_users"`
}
