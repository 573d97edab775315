package models

// Post is a feed entry. Media is a storage key, resolved to a URL on read.
type Post struct {
	ID        int64
	Author    string
	Content   string
	Media     string
	CreatedAt int64
}

type Comment struct {
	ID        int64
	PostID    int64
	Author    string
	Content   string
	CreatedAt int64
}

// Story is an ephemeral post; listings only return rows newer than 24h.
type Story struct {
	ID        int64
	Author    string
	Content   string
	Image     string
	CreatedAt int64
}

type Message struct {
	ID        int64
	Sender    string
	Receiver  string
	Content   string
	Read      bool
	CreatedAt int64
}

type Notification struct {
	ID        int64
	UserID    string
	Content   string
	Read      bool
	CreatedAt int64
}

type Announcement struct {
	ID        int64
	Author    string
	Content   string
	CreatedAt int64
}

// ActivityStats are the aggregate counters shown on the admin dashboard.
type ActivityStats struct {
	TotalUsers    int64
	TotalPosts    int64
	TotalMessages int64
	ActiveUsers   int64
}
