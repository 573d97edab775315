package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sachwave/sachwave/internal/client/actor"
	"github.com/sachwave/sachwave/internal/client/cache"
	"github.com/sachwave/sachwave/internal/client/identity"
	"github.com/sachwave/sachwave/internal/logging"
	"github.com/sachwave/sachwave/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfile struct {
	mu          sync.Mutex
	loadErr     error
	loads       int
	invalidates int
	fetched     bool
}

func (f *fakeProfile) State() ProfileState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return ProfileState{Fetched: f.fetched, Err: f.loadErr}
}

func (f *fakeProfile) Load(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.loadErr == nil {
		f.fetched = true
	}
}

func (f *fakeProfile) Invalidate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidates++
	f.fetched = false
	f.loadErr = nil
}

type loginOKClient struct{}

func (loginOKClient) Login(ctx context.Context, username, password string) (*rpc.LoginResponse, error) {
	return &rpc.LoginResponse{Principal: "p-1"}, nil
}

func (loginOKClient) Register(ctx context.Context, username, password string) (rpc.Principal, error) {
	return "p-1", nil
}

type stubBackend struct{ rpc.Backend }

func newFixture(t *testing.T, factory actor.Factory, timeout time.Duration) (*Machine, *identity.Manager, *fakeProfile) {
	t.Helper()
	store := cache.NewStore()
	ids := identity.NewManager(loginOKClient{}, logging.NopLogger{})
	actors := actor.NewProvider(store, factory, logging.NopLogger{})
	profile := &fakeProfile{}
	m := NewMachine(ids, actors, profile, timeout, logging.NopLogger{})
	cancel := actors.Bind(context.Background(), ids)
	t.Cleanup(cancel)
	return m, ids, profile
}

func okFactory(ctx context.Context, id identity.Identity) (rpc.Backend, error) {
	return stubBackend{}, nil
}

func TestMachine_AnonymousBypassesBootstrap(t *testing.T) {
	m, _, _ := newFixture(t, okFactory, 15*time.Second)

	phase := m.Evaluate(context.Background())
	assert.Equal(t, PhaseUnauthenticated, phase)
}

func TestMachine_LoginToReady(t *testing.T) {
	m, ids, profile := newFixture(t, okFactory, 15*time.Second)

	require.NoError(t, ids.Login(context.Background(), "alice", "secret"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	phase, serr := m.WaitReady(ctx, 5*time.Millisecond)

	assert.Equal(t, PhaseReady, phase)
	assert.Nil(t, serr)
	profile.mu.Lock()
	assert.GreaterOrEqual(t, profile.loads, 1)
	profile.mu.Unlock()
}

func TestMachine_ActorFailureIsAbsorbing(t *testing.T) {
	var mu sync.Mutex
	fail := true
	factory := func(ctx context.Context, id identity.Identity) (rpc.Backend, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return nil, errors.New("connection refused")
		}
		return stubBackend{}, nil
	}

	m, ids, _ := newFixture(t, factory, 15*time.Second)
	require.NoError(t, ids.Login(context.Background(), "alice", "secret"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	phase, serr := m.WaitReady(ctx, 5*time.Millisecond)
	require.Equal(t, PhaseError, phase)
	require.NotNil(t, serr)
	assert.Equal(t, PhaseConnecting, serr.Phase)
	assert.Contains(t, serr.UserMessage, "connection")

	// The dependency recovering does not silently clear the error; only
	// Retry does.
	mu.Lock()
	fail = false
	mu.Unlock()
	assert.Equal(t, PhaseError, m.Evaluate(context.Background()))
}

func TestMachine_RetryClearsErrorAndRecovers(t *testing.T) {
	var mu sync.Mutex
	fail := true
	factory := func(ctx context.Context, id identity.Identity) (rpc.Backend, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return nil, errors.New("connection refused")
		}
		return stubBackend{}, nil
	}

	m, ids, profile := newFixture(t, factory, 15*time.Second)
	require.NoError(t, ids.Login(context.Background(), "alice", "secret"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	phase, _ := m.WaitReady(ctx, 5*time.Millisecond)
	require.Equal(t, PhaseError, phase)

	mu.Lock()
	fail = false
	mu.Unlock()

	m.Retry(context.Background())

	phase, serr := m.WaitReady(ctx, 5*time.Millisecond)
	assert.Equal(t, PhaseReady, phase)
	assert.Nil(t, serr)

	// Retry must force the profile entry stale, not reuse a cached result.
	profile.mu.Lock()
	assert.GreaterOrEqual(t, profile.invalidates, 1)
	profile.mu.Unlock()
}

func TestMachine_RetryRestartsHungConnect(t *testing.T) {
	release := make(chan struct{})
	var releaseOnce sync.Once
	rel := func() { releaseOnce.Do(func() { close(release) }) }
	t.Cleanup(rel)

	var calls atomic.Int32
	var retried atomic.Bool
	factory := func(ctx context.Context, id identity.Identity) (rpc.Backend, error) {
		calls.Add(1)
		if !retried.Load() {
			<-release
			return nil, errors.New("stale dial")
		}
		return stubBackend{}, nil
	}

	m, ids, _ := newFixture(t, factory, 30*time.Millisecond)
	require.NoError(t, ids.Login(context.Background(), "alice", "secret"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	phase, serr := m.WaitReady(ctx, 5*time.Millisecond)
	require.Equal(t, PhaseError, phase)
	require.NotNil(t, serr)
	require.Contains(t, serr.DevMessage, "watchdog")

	callsBefore := calls.Load()
	retried.Store(true)

	// Retry must supersede the hung dial and start a fresh one, not wait
	// the old attempt out.
	m.Retry(context.Background())

	phase, serr = m.WaitReady(ctx, 5*time.Millisecond)
	assert.Equal(t, PhaseReady, phase)
	assert.Nil(t, serr)
	assert.Greater(t, calls.Load(), callsBefore, "retry must issue a new factory call")

	// The superseded attempt settling late must not reinstate its error.
	rel()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, PhaseReady, m.Evaluate(context.Background()))
}

func TestMachine_IdentityChangeClearsError(t *testing.T) {
	var mu sync.Mutex
	fail := true
	factory := func(ctx context.Context, id identity.Identity) (rpc.Backend, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return nil, errors.New("connection refused")
		}
		return stubBackend{}, nil
	}

	m, ids, _ := newFixture(t, factory, 15*time.Second)
	require.NoError(t, ids.Login(context.Background(), "alice", "secret"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	phase, _ := m.WaitReady(ctx, 5*time.Millisecond)
	require.Equal(t, PhaseError, phase)

	// Logging out discards the error along with the identity it belonged to.
	ids.Logout()
	assert.Equal(t, PhaseUnauthenticated, m.Evaluate(context.Background()))

	mu.Lock()
	fail = false
	mu.Unlock()

	// A fresh login bootstraps from scratch; no explicit retry needed.
	require.NoError(t, ids.Login(context.Background(), "alice", "secret"))
	phase, serr := m.WaitReady(ctx, 5*time.Millisecond)
	assert.Equal(t, PhaseReady, phase)
	assert.Nil(t, serr)
}

func TestMachine_WatchdogBreaksHangingConnect(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	factory := func(ctx context.Context, id identity.Identity) (rpc.Backend, error) {
		<-release
		return nil, errors.New("too late")
	}

	m, ids, _ := newFixture(t, factory, 30*time.Millisecond)
	require.NoError(t, ids.Login(context.Background(), "alice", "secret"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	phase, serr := m.WaitReady(ctx, 5*time.Millisecond)

	require.Equal(t, PhaseError, phase)
	require.NotNil(t, serr)
	assert.Contains(t, serr.DevMessage, "watchdog")
}
