// Package services contains server-side business logic. This file implements
// UserService: registration, login, refresh-token rotation, and the role and
// moderation rules built on top of them.
package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sachwave/sachwave/internal/common"
	"github.com/sachwave/sachwave/internal/dbx"
	"github.com/sachwave/sachwave/internal/server/auth"
	"github.com/sachwave/sachwave/internal/server/config"
	"github.com/sachwave/sachwave/internal/server/models"
	"github.com/sachwave/sachwave/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides account operations:
// - Register: create users (the first one becomes the owner)
// - Login: verify credentials and mint tokens
// - RefreshToken: rotate refresh tokens and mint new access tokens
// - role checks and moderation (ban, unban, promote, demote)
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates a new user with a salted password hash. The very first
// registered account is made the owner; everyone after that starts as a
// plain user.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < 4 {
		return nil, common.ErrValidation
	}

	repo := s.repomanager.Users(s.db)
	if _, err := repo.GetUserByLogin(ctx, username); err == nil {
		return nil, common.ErrAlreadyExists
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrInternal
	}

	salt := common.GenerateRandByteArray(32)
	user := &models.User{
		ID:           uuid.NewString(),
		UserName:     username,
		Salt:         salt,
		PasswordHash: hashPassword(salt, password),
		CreatedAt:    time.Now().UnixMilli(),
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.Users(tx)
		count, err := repoTx.Count(ctx)
		if err != nil {
			return err
		}
		user.Role = models.RoleUser
		if count == 0 {
			user.Role = models.RoleOwner
		}
		_, err = repoTx.Create(ctx, user)
		return err
	}); err != nil {
		return nil, fmt.Errorf("error creating user: %v", err)
	}

	return user, nil
}

// Login verifies the provided password against the stored hash and, on
// success, returns the user together with a new TokenPair. Banned accounts
// cannot log in.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, *TokenPair, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.ErrUnauthorized
		}
		return nil, nil, common.ErrInternal
	}
	if !s.checkPassword(user, password) {
		return nil, nil, common.ErrUnauthorized
	}
	if user.Role == models.RoleBanned {
		return nil, nil, common.ErrBanned
	}
	pair, err := s.generateTokenPair(ctx, user.ID, s.db)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %v", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		if err := repoTx.Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %v", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// GetUser loads a user by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetUserByID(ctx, id)
}

// EnsureActive loads the caller and rejects banned accounts.
func (s *UserService) EnsureActive(ctx context.Context, callerID string) (*models.User, error) {
	user, err := s.GetUser(ctx, callerID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}
	if user.Role == models.RoleBanned {
		return nil, common.ErrBanned
	}
	return user, nil
}

// EnsureAdmin loads the caller and rejects anyone who is not an admin or
// the owner.
func (s *UserService) EnsureAdmin(ctx context.Context, callerID string) (*models.User, error) {
	user, err := s.EnsureActive(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !isAdminRole(user.Role) {
		return nil, common.ErrNotAdmin
	}
	return user, nil
}

// Ban suspends the target account. Admins cannot ban the owner or themselves.
func (s *UserService) Ban(ctx context.Context, callerID, targetID string) error {
	return s.moderate(ctx, callerID, targetID, models.RoleBanned)
}

// Unban restores a suspended account to a plain user.
func (s *UserService) Unban(ctx context.Context, callerID, targetID string) error {
	return s.moderate(ctx, callerID, targetID, models.RoleUser)
}

// Promote grants the target the admin role.
func (s *UserService) Promote(ctx context.Context, callerID, targetID string) error {
	return s.moderate(ctx, callerID, targetID, models.RoleAdmin)
}

// Demote strips the admin role from the target.
func (s *UserService) Demote(ctx context.Context, callerID, targetID string) error {
	return s.moderate(ctx, callerID, targetID, models.RoleUser)
}

func (s *UserService) moderate(ctx context.Context, callerID, targetID, newRole string) error {
	if _, err := s.EnsureAdmin(ctx, callerID); err != nil {
		return err
	}
	if callerID == targetID {
		return common.ErrValidation
	}
	target, err := s.GetUser(ctx, targetID)
	if err != nil {
		return err
	}
	// The owner is outside every moderation rule.
	if target.Role == models.RoleOwner {
		return common.ErrUnauthorized
	}
	return s.repomanager.Users(s.db).SetRole(ctx, targetID, newRole)
}

// --- helpers below ---

func isAdminRole(role string) bool {
	return role == models.RoleAdmin || role == models.RoleOwner
}

func hashPassword(salt []byte, password string) []byte {
	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(password))
	return h.Sum(nil)
}

func (s *UserService) checkPassword(user *models.User, password string) bool {
	return subtle.ConstantTimeCompare(user.PasswordHash, hashPassword(user.Salt, password)) == 1
}

func (s *UserService) generateAccessToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
