package session

import (
	"context"
	"sync"
	"time"

	"github.com/sachwave/sachwave/internal/client/actor"
	"github.com/sachwave/sachwave/internal/client/identity"
	"github.com/sachwave/sachwave/internal/logging"
)

// ProfileState is the settled/in-flight status of the caller-profile fetch.
// Fetched means the fetch settled: a profile exists or its absence is
// confirmed. Both settle the startup sequence.
type ProfileState struct {
	Loading bool
	Fetched bool
	Err     error
}

// ProfileSource is the caller-profile dependency of the machine.
// Load is idempotent: it starts a fetch only when none is cached or in
// flight. Invalidate stales the cached entry so the next Load re-fetches.
type ProfileSource interface {
	State() ProfileState
	Load(ctx context.Context)
	Invalidate()
}

// Machine evaluates the startup decision list over live dependencies and
// drives their side effects: it kicks actor resolution while connecting and
// the profile fetch while loading. Safe for concurrent use.
type Machine struct {
	identity *identity.Manager
	actor    *actor.Provider
	profile  ProfileSource
	timeout  time.Duration
	logger   logging.Logger

	mu              sync.Mutex
	phase           Phase
	startupErr      *StartupError
	connectingSince time.Time
	errIdentity     identity.Identity
}

func NewMachine(id *identity.Manager, actors *actor.Provider, profile ProfileSource, connectTimeout time.Duration, logger logging.Logger) *Machine {
	return &Machine{
		identity: id,
		actor:    actors,
		profile:  profile,
		timeout:  connectTimeout,
		logger:   logger,
		phase:    PhaseInitializingIdentity,
	}
}

// Phase returns the current phase and, when it is PhaseError, the error.
func (m *Machine) Phase() (Phase, *StartupError) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase, m.startupErr
}

// Evaluate re-runs the decision list against the current dependency state
// and returns the resulting phase. An error phase is absorbing for the
// identity it was recorded under: only Retry or an identity change (logout,
// fresh login) leaves it.
func (m *Machine) Evaluate(ctx context.Context) Phase {
	cur := m.identity.Current()

	m.mu.Lock()
	if m.phase == PhaseError {
		if cur == m.errIdentity {
			m.mu.Unlock()
			return PhaseError
		}
		// The recorded error belonged to a previous identity; start over.
		m.phase = PhaseInitializingIdentity
		m.startupErr = nil
		m.connectingSince = time.Time{}
	}
	since := m.connectingSince
	m.mu.Unlock()

	sig := m.collect()
	sig.ConnectingSince = since
	sig.Now = time.Now()

	phase, serr := Next(sig, m.timeout)

	m.mu.Lock()
	prev := m.phase
	m.phase = phase
	m.startupErr = serr
	switch phase {
	case PhaseConnecting:
		if m.connectingSince.IsZero() {
			m.connectingSince = time.Now()
		}
	case PhaseError:
		// Keep the clock; Retry resets it.
		m.errIdentity = cur
	default:
		m.connectingSince = time.Time{}
	}
	m.mu.Unlock()

	if phase != prev {
		m.logTransition(ctx, phase, "", serr)
	}

	// Side effects: make progress on whatever the phase is waiting for.
	switch phase {
	case PhaseConnecting:
		st := m.actor.Status()
		if !st.Resolving && st.Handle == nil && st.Err == nil {
			go func() { _, _ = m.actor.Resolve(ctx, m.identity.Current()) }()
		}
	case PhaseLoadingProfile:
		ps := m.profile.State()
		if !ps.Loading && !ps.Fetched && ps.Err == nil {
			go m.profile.Load(ctx)
		}
	}

	return phase
}

// WaitReady evaluates in a loop until the machine settles in PhaseReady,
// PhaseUnauthenticated or PhaseError, or ctx is cancelled.
func (m *Machine) WaitReady(ctx context.Context, poll time.Duration) (Phase, *StartupError) {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		switch m.Evaluate(ctx) {
		case PhaseReady, PhaseUnauthenticated, PhaseError:
			return m.Phase()
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			phase, serr := m.Phase()
			return phase, serr
		}
	}
}

// Retry leaves the error phase: it clears the error, rewinds to the first
// phase, resets the connect watchdog clock, discards the failed actor handle
// and stales the cached profile, so the re-run issues fresh requests instead
// of replaying a failed cache hit.
func (m *Machine) Retry(ctx context.Context) {
	m.mu.Lock()
	m.startupErr = nil
	m.phase = PhaseInitializingIdentity
	m.connectingSince = time.Time{}
	m.mu.Unlock()

	m.identity.ClearError()
	m.actor.Forget(m.identity.Current())
	m.profile.Invalidate()

	m.logTransition(ctx, PhaseInitializingIdentity, "retry", nil)
	m.Evaluate(ctx)
}

func (m *Machine) collect() Signals {
	id := m.identity.Current()
	status := m.identity.Status()
	ast := m.actor.Status()
	ps := m.profile.State()

	sig := Signals{
		IdentityInitializing: status == identity.StatusAuthenticating,
		IdentityErr:          m.identity.Err(),
		IdentityPresent:      !id.Anonymous,
		ActorReady:           ast.Handle != nil,
		ActorErr:             ast.Err,
		ProfileLoading:       ps.Loading,
		ProfileFetched:       ps.Fetched,
		ProfileErr:           ps.Err,
	}
	return sig
}

// logTransition is the single logging point for phase changes and startup
// failures.
func (m *Machine) logTransition(ctx context.Context, phase Phase, detail string, serr *StartupError) {
	args := []any{"phase", string(phase)}
	if detail != "" {
		args = append(args, "detail", detail)
	}
	if serr != nil {
		args = append(args, "user_message", serr.UserMessage, "error", serr.DevMessage)
		m.logger.Error(ctx, "startup error", args...)
		return
	}
	m.logger.Info(ctx, "startup phase", args...)
}
