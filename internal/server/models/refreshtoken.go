package models

import "time"

// RefreshToken is a server-stored, single-use token: refreshing deletes the
// row and inserts a new one.
type RefreshToken struct {
	Token   string
	UserID  string
	Expires time.Time
}
