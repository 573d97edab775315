package services

import (
	"context"
	"errors"
	"sync"

	"github.com/sachwave/sachwave/internal/client/cache"
	"github.com/sachwave/sachwave/internal/client/session"
	"github.com/sachwave/sachwave/internal/common"
	"github.com/sachwave/sachwave/internal/rpc"
)

// ProfileService owns the caller's profile and profile lookups of other
// users. It is also the profile dependency of the session machine: State,
// Load and Invalidate feed the loading-profile phase.
//
// A nil profile is a settled result, not a failure: it means the identity
// is valid but has not signed up yet. The backend reports that case as an
// authorization or not-found error, which this service absorbs.
type ProfileService struct {
	d       *deps
	profile *cache.Query[*rpc.UserProfile]
	users   *cache.Query[[]rpc.UserProfile]

	save   *cache.Mutation[rpc.UserProfile, struct{}]
	signup *cache.Mutation[signupReq, struct{}]

	mu      sync.Mutex
	loading bool
	lastErr error
}

type signupReq struct {
	Name      string
	ClassName string
	Year      int64
}

func newProfileService(d *deps) *ProfileService {
	s := &ProfileService{d: d}

	s.profile = newQuery(d, cache.NewKey(KeyCurrentUserProfile), 0,
		func(ctx context.Context, h rpc.Backend) (*rpc.UserProfile, error) {
			p, err := h.GetCallerUserProfile(ctx)
			if err != nil {
				if errors.Is(err, common.ErrUnauthorized) || errors.Is(err, common.ErrNotFound) {
					return nil, nil
				}
				return nil, err
			}
			return p, nil
		})

	s.users = newQuery(d, cache.NewKey(KeyAllUsers), 0,
		func(ctx context.Context, h rpc.Backend) ([]rpc.UserProfile, error) {
			return h.GetAllUsers(ctx)
		})

	profileKeys := []cache.Key{cache.NewKey(KeyCurrentUserProfile), cache.NewKey(KeyAllUsers)}

	s.save = newMutation(d, profileKeys,
		func(ctx context.Context, h rpc.Backend, p rpc.UserProfile) (struct{}, error) {
			return struct{}{}, h.SaveCallerUserProfile(ctx, p)
		})

	s.signup = newMutation(d, profileKeys,
		func(ctx context.Context, h rpc.Backend, req signupReq) (struct{}, error) {
			return struct{}{}, h.Signup(ctx, req.Name, req.ClassName, req.Year)
		})

	return s
}

// State reports the profile fetch status to the session machine.
func (s *ProfileService) State() session.ProfileState {
	s.mu.Lock()
	loading, lastErr := s.loading, s.lastErr
	s.mu.Unlock()

	e, ok := s.d.store.Lookup(cache.NewKey(KeyCurrentUserProfile))
	return session.ProfileState{
		Loading: loading,
		Fetched: ok && !e.Stale,
		Err:     lastErr,
	}
}

// Load runs the profile fetch unless a fresh result is already cached.
// Concurrent loads coalesce on the cache key.
func (s *ProfileService) Load(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	_, err := s.profile.Get(ctx)

	s.mu.Lock()
	s.loading = false
	if err != nil && !errors.Is(err, cache.ErrNotReady) {
		s.lastErr = err
	} else if err == nil {
		s.lastErr = nil
	}
	s.mu.Unlock()
}

// Invalidate stales the cached profile so the next Load re-fetches.
func (s *ProfileService) Invalidate() {
	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
	s.d.store.Invalidate(cache.NewKey(KeyCurrentUserProfile))
}

// Current returns the cached caller profile without fetching. The bool
// reports whether a settled value exists at all; the profile itself may
// still be nil (valid identity, no signup yet).
func (s *ProfileService) Current() (*rpc.UserProfile, bool) {
	return s.profile.Value()
}

// Get returns the caller profile, fetching when the cache is stale.
func (s *ProfileService) Get(ctx context.Context) (*rpc.UserProfile, error) {
	return s.profile.Get(ctx)
}

// Save stores the caller's profile and stales profile-derived entries.
func (s *ProfileService) Save(ctx context.Context, p rpc.UserProfile) error {
	_, err := s.save.Do(ctx, p)
	return err
}

// Signup creates the caller's profile for a fresh identity.
func (s *ProfileService) Signup(ctx context.Context, name, className string, year int64) error {
	_, err := s.signup.Do(ctx, signupReq{Name: name, ClassName: className, Year: year})
	return err
}

// AllUsers lists every registered profile.
func (s *ProfileService) AllUsers(ctx context.Context) ([]rpc.UserProfile, error) {
	return s.users.Get(ctx)
}

// Lookup fetches another user's profile. Not cached: views are sporadic
// and profile staleness is cheap.
func (s *ProfileService) Lookup(ctx context.Context, user rpc.Principal) (*rpc.UserProfile, error) {
	h, err := s.d.backend()
	if err != nil {
		return nil, err
	}
	return h.GetUserProfile(ctx, user)
}

// Search finds users by name fragment.
func (s *ProfileService) Search(ctx context.Context, name string) ([]rpc.UserProfile, error) {
	h, err := s.d.backend()
	if err != nil {
		return nil, err
	}
	return h.SearchUsers(ctx, name)
}

// TouchLastSeen records activity; failures are logged and swallowed, the
// call is best effort.
func (s *ProfileService) TouchLastSeen(ctx context.Context) {
	h, err := s.d.backend()
	if err != nil {
		return
	}
	if err := h.UpdateLastSeen(ctx); err != nil {
		s.d.logger.Debug(ctx, "last-seen update failed", "error", err)
	}
}
