package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/sachwave/sachwave/internal/common"
	"github.com/sachwave/sachwave/internal/server/models"
	"github.com/sachwave/sachwave/internal/server/repositories/repomanager"
)

// ProfileService manages the public profile records users fill in at signup.
// A registered user without a profile is a valid state; reads report it as
// common.ErrNotFound and the client treats it as "not signed up yet".
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	users       *UserService
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, users *UserService) *ProfileService {
	return &ProfileService{db: db, repomanager: m, users: users}
}

// Get returns the profile of the given user, or common.ErrNotFound when the
// user exists but has not signed up.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	return s.repomanager.Profiles(s.db).Get(ctx, userID)
}

// Signup creates the caller's profile. Name is required; an existing profile
// is replaced, which makes signup retry-safe.
func (s *ProfileService) Signup(ctx context.Context, callerID, name, className string, year int64) error {
	if _, err := s.users.EnsureActive(ctx, callerID); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return common.ErrValidation
	}
	profile := &models.Profile{
		UserID:    callerID,
		Name:      name,
		ClassName: className,
		Year:      year,
		LastSeen:  time.Now().UnixMilli(),
	}
	return s.repomanager.Profiles(s.db).Upsert(ctx, profile)
}

// Save updates the caller's own profile fields. The role is owned by the
// users table and never writable through here.
func (s *ProfileService) Save(ctx context.Context, callerID string, profile *models.Profile) error {
	if _, err := s.users.EnsureActive(ctx, callerID); err != nil {
		return err
	}
	current, err := s.Get(ctx, callerID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrValidation
		}
		return err
	}
	if strings.TrimSpace(profile.Name) == "" {
		return common.ErrValidation
	}

	current.Name = strings.TrimSpace(profile.Name)
	current.Bio = profile.Bio
	current.ClassName = profile.ClassName
	current.Year = profile.Year
	current.ProfilePicture = profile.ProfilePicture
	current.UserID = callerID
	return s.repomanager.Profiles(s.db).Upsert(ctx, current)
}

// List returns every profile, for the user directory.
func (s *ProfileService) List(ctx context.Context) ([]*models.Profile, error) {
	return s.repomanager.Profiles(s.db).List(ctx)
}

// Search returns profiles whose name contains the query, case-insensitive.
func (s *ProfileService) Search(ctx context.Context, name string) ([]*models.Profile, error) {
	return s.repomanager.Profiles(s.db).Search(ctx, name)
}

// TouchLastSeen stamps the caller's profile with the current time. Callers
// without a profile are ignored rather than failed; the client pings this
// on a timer.
func (s *ProfileService) TouchLastSeen(ctx context.Context, callerID string) error {
	return s.repomanager.Profiles(s.db).TouchLastSeen(ctx, callerID, time.Now().UnixMilli())
}
