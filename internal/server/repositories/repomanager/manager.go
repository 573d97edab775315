package repomanager

import (
	"context"
	"database/sql"

	"github.com/sachwave/sachwave/internal/dbx"
	"github.com/sachwave/sachwave/internal/server/repositories/announcements"
	"github.com/sachwave/sachwave/internal/server/repositories/messages"
	"github.com/sachwave/sachwave/internal/server/repositories/notifications"
	"github.com/sachwave/sachwave/internal/server/repositories/posts"
	"github.com/sachwave/sachwave/internal/server/repositories/profiles"
	"github.com/sachwave/sachwave/internal/server/repositories/refreshtokens"
	"github.com/sachwave/sachwave/internal/server/repositories/stories"
	"github.com/sachwave/sachwave/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Posts(db dbx.DBTX) posts.Repository
	Stories(db dbx.DBTX) stories.Repository
	Messages(db dbx.DBTX) messages.Repository
	Notifications(db dbx.DBTX) notifications.Repository
	Announcements(db dbx.DBTX) announcements.Repository
}
