// Package models defines server-side data models persisted in the database.
package models

// User is an account row. Role is one of "user", "admin", "owner",
// "banned"; the first account registered becomes the owner.
type User struct {
	ID           string
	UserName     string
	Salt         []byte
	PasswordHash []byte
	Role         string
	CreatedAt    int64
}

const (
	RoleUser   = "user"
	RoleAdmin  = "admin"
	RoleOwner  = "owner"
	RoleBanned = "banned"
)

// Profile is the public-facing record a user fills in at signup. A user
// without a profile row is registered but not signed up.
type Profile struct {
	UserID         string
	Name           string
	Bio            string
	ClassName      string
	Year           int64
	ProfilePicture string
	LastSeen       int64

	// Role is read through a join with users and never written via the
	// profiles repository.
	Role string
}
