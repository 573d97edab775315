package services

import (
	"context"
	"errors"

	"github.com/sachwave/sachwave/internal/client/cache"
	"github.com/sachwave/sachwave/internal/common"
	"github.com/sachwave/sachwave/internal/rpc"
)

// AdminService owns role introspection and the moderation panel: role
// checks for gating the admin UI, user management writes, and the activity
// dashboard.
type AdminService struct {
	d       *deps
	isAdmin *cache.Query[bool]
	role    *cache.Query[rpc.CallerRole]
	stats   *cache.Query[rpc.ActivityStats]

	ban     *cache.Mutation[rpc.Principal, struct{}]
	unban   *cache.Mutation[rpc.Principal, struct{}]
	promote *cache.Mutation[rpc.Principal, struct{}]
	demote  *cache.Mutation[rpc.Principal, struct{}]
}

func newAdminService(d *deps) *AdminService {
	s := &AdminService{d: d}

	s.isAdmin = newQuery(d, cache.NewKey(KeyIsAdmin), 0,
		func(ctx context.Context, h rpc.Backend) (bool, error) {
			ok, err := h.IsCallerAdmin(ctx)
			if err != nil {
				// An authorization refusal just means "no": callers gate
				// UI on this, they cannot act on the error.
				if errorsIsAuth(err) {
					return false, nil
				}
				return false, err
			}
			return ok, nil
		})

	s.role = newQuery(d, cache.NewKey(KeyUserRole), 0,
		func(ctx context.Context, h rpc.Backend) (rpc.CallerRole, error) {
			role, err := h.GetCallerUserRole(ctx)
			if err != nil {
				if errorsIsAuth(err) {
					return rpc.CallerGuest, nil
				}
				return "", err
			}
			return role, nil
		})

	s.stats = newQuery(d, cache.NewKey(KeyActivityStats), RefreshStats,
		func(ctx context.Context, h rpc.Backend) (rpc.ActivityStats, error) {
			return h.GetActivityStats(ctx)
		})

	// Moderation writes change what the user list and role queries report.
	moderationKeys := []cache.Key{
		cache.NewKey(KeyAllUsers),
		cache.NewKey(KeyIsAdmin),
		cache.NewKey(KeyUserRole),
		cache.NewKey(KeyActivityStats),
	}

	s.ban = newMutation(d, moderationKeys,
		func(ctx context.Context, h rpc.Backend, user rpc.Principal) (struct{}, error) {
			return struct{}{}, h.BanUser(ctx, user)
		})
	s.unban = newMutation(d, moderationKeys,
		func(ctx context.Context, h rpc.Backend, user rpc.Principal) (struct{}, error) {
			return struct{}{}, h.UnbanUser(ctx, user)
		})
	s.promote = newMutation(d, moderationKeys,
		func(ctx context.Context, h rpc.Backend, user rpc.Principal) (struct{}, error) {
			return struct{}{}, h.AssignAdminRole(ctx, user)
		})
	s.demote = newMutation(d, moderationKeys,
		func(ctx context.Context, h rpc.Backend, user rpc.Principal) (struct{}, error) {
			return struct{}{}, h.RemoveAdminRole(ctx, user)
		})

	return s
}

func errorsIsAuth(err error) bool {
	return errors.Is(err, common.ErrUnauthorized) || errors.Is(err, common.ErrNotAdmin)
}

// IsAdmin reports whether the caller may see the admin panel.
func (s *AdminService) IsAdmin(ctx context.Context) (bool, error) {
	return s.isAdmin.Get(ctx)
}

// Role returns the caller's coarse role; guests get CallerGuest rather
// than an error.
func (s *AdminService) Role(ctx context.Context) (rpc.CallerRole, error) {
	return s.role.Get(ctx)
}

// Stats returns the activity dashboard numbers.
func (s *AdminService) Stats(ctx context.Context) (rpc.ActivityStats, error) {
	return s.stats.Get(ctx)
}

func (s *AdminService) Ban(ctx context.Context, user rpc.Principal) error {
	_, err := s.ban.Do(ctx, user)
	return err
}

func (s *AdminService) Unban(ctx context.Context, user rpc.Principal) error {
	_, err := s.unban.Do(ctx, user)
	return err
}

func (s *AdminService) Promote(ctx context.Context, user rpc.Principal) error {
	_, err := s.promote.Do(ctx, user)
	return err
}

func (s *AdminService) Demote(ctx context.Context, user rpc.Principal) error {
	_, err := s.demote.Do(ctx, user)
	return err
}
