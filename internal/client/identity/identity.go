// Package identity tracks who the client is acting as. Every session has an
// identity: an anonymous one until a login succeeds, then the authenticated
// principal. Identity changes are broadcast to subscribers so dependent
// layers (the actor provider, the cache) can react.
package identity

import (
	"context"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sachwave/sachwave/internal/logging"
	"github.com/sachwave/sachwave/internal/rpc"
)

// AnonymousPrincipal is the principal of the shared anonymous identity. It is
// a valid identity: unauthenticated sessions still bootstrap with it.
const AnonymousPrincipal rpc.Principal = "anonymous"

// Status is the lifecycle state of the identity layer.
type Status string

const (
	StatusAnonymous      Status = "anonymous"
	StatusAuthenticating Status = "authenticating"
	StatusAuthenticated  Status = "authenticated"
	StatusFailed         Status = "failed"
)

// Identity is a snapshot of who the client currently acts as.
type Identity struct {
	Principal rpc.Principal
	Anonymous bool
}

// AuthClient is the authentication surface of the backend connection.
// *rpc.Client satisfies it.
type AuthClient interface {
	Register(ctx context.Context, username, password string) (rpc.Principal, error)
	Login(ctx context.Context, username, password string) (*rpc.LoginResponse, error)
}

// Manager owns the current identity and drives login, registration and
// logout against the backend. Safe for concurrent use.
type Manager struct {
	client AuthClient
	logger logging.Logger

	mu        sync.Mutex
	status    Status
	principal rpc.Principal
	lastErr   error
	subs      map[int]func(Identity)
	nextSub   int
}

func NewManager(client AuthClient, logger logging.Logger) *Manager {
	return &Manager{
		client:    client,
		logger:    logger,
		status:    StatusAnonymous,
		principal: AnonymousPrincipal,
		subs:      make(map[int]func(Identity)),
	}
}

// Current returns the identity snapshot.
func (m *Manager) Current() Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Identity{Principal: m.principal, Anonymous: m.status != StatusAuthenticated}
}

func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Err returns the failure of the last authentication attempt, or nil. It is
// cleared when a new attempt starts and on logout.
func (m *Manager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Login authenticates against the backend. On success the manager switches
// to the returned principal and notifies subscribers; on failure it reverts
// to anonymous with StatusFailed.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	m.setStatus(StatusAuthenticating)

	resp, err := m.client.Login(ctx, username, password)
	if err != nil {
		m.logger.Warn(ctx, "login failed", "username", username, "error", err)
		m.fail(err)
		return err
	}

	principal := resp.Principal
	if principal == "" {
		// Older backends omit the principal from the login response; fall
		// back to the token subject.
		principal = principalFromToken(resp.AccessToken)
	}

	m.mu.Lock()
	m.status = StatusAuthenticated
	m.principal = principal
	subs, id := m.snapshotSubsLocked()
	m.mu.Unlock()

	m.logger.Info(ctx, "logged in", "principal", principal)
	for _, fn := range subs {
		fn(id)
	}
	return nil
}

// Register creates an account. It does not log in; callers follow up with
// Login so token issuance goes through a single path.
func (m *Manager) Register(ctx context.Context, username, password string) (rpc.Principal, error) {
	principal, err := m.client.Register(ctx, username, password)
	if err != nil {
		m.logger.Warn(ctx, "registration failed", "username", username, "error", err)
		return "", err
	}
	m.logger.Info(ctx, "registered", "principal", principal)
	return principal, nil
}

// ClearError acknowledges a failed authentication attempt, reverting a
// failed manager to plain anonymous so a retry starts clean.
func (m *Manager) ClearError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status == StatusFailed {
		m.status = StatusAnonymous
	}
	m.lastErr = nil
}

// Logout reverts to the anonymous identity and notifies subscribers.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.status = StatusAnonymous
	m.principal = AnonymousPrincipal
	m.lastErr = nil
	subs, id := m.snapshotSubsLocked()
	m.mu.Unlock()

	m.logger.Info(context.Background(), "logged out")
	for _, fn := range subs {
		fn(id)
	}
}

// Subscribe registers fn to be called with the new identity snapshot after
// every identity change. The returned func cancels the subscription.
func (m *Manager) Subscribe(fn func(Identity)) (cancel func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Manager) setStatus(s Status) {
	m.mu.Lock()
	m.status = s
	m.lastErr = nil
	m.mu.Unlock()
}

func (m *Manager) fail(err error) {
	m.mu.Lock()
	m.status = StatusFailed
	m.lastErr = err
	m.principal = AnonymousPrincipal
	subs, id := m.snapshotSubsLocked()
	m.mu.Unlock()

	for _, fn := range subs {
		fn(id)
	}
}

// snapshotSubsLocked must be called with m.mu held.
func (m *Manager) snapshotSubsLocked() ([]func(Identity), Identity) {
	subs := make([]func(Identity), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	return subs, Identity{Principal: m.principal, Anonymous: m.status != StatusAuthenticated}
}

// principalFromToken extracts the subject claim without verifying the
// signature. Verification is the server's job; the client only needs the
// principal for cache scoping.
func principalFromToken(token string) rpc.Principal {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return AnonymousPrincipal
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return AnonymousPrincipal
	}
	return rpc.Principal(sub)
}
