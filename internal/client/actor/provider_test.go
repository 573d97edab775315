package actor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sachwave/sachwave/internal/client/cache"
	"github.com/sachwave/sachwave/internal/client/identity"
	"github.com/sachwave/sachwave/internal/logging"
	"github.com/sachwave/sachwave/internal/rpc"
	"github.com/stretchr/testify/require"
)

// fakeBackend only needs to be distinguishable; no method is called.
type fakeBackend struct {
	rpc.Backend
	id string
}

func countingFactory(calls *atomic.Int32, err error) Factory {
	return func(ctx context.Context, id identity.Identity) (rpc.Backend, error) {
		calls.Add(1)
		if err != nil {
			return nil, err
		}
		return &fakeBackend{id: string(id.Principal)}, nil
	}
}

func TestProvider_ResolveCachesHandle(t *testing.T) {
	store := cache.NewStore()
	var calls atomic.Int32
	p := NewProvider(store, countingFactory(&calls, nil), logging.NopLogger{})

	id := identity.Identity{Principal: "p-1"}

	h1, err := p.Resolve(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, h1)
	require.True(t, p.Ready())

	h2, err := p.Resolve(context.Background(), id)
	require.NoError(t, err)
	require.Same(t, h1, h2)
	require.Equal(t, int32(1), calls.Load(), "second resolve must hit the cache")
}

func TestProvider_ResolveFailureSetsErr(t *testing.T) {
	store := cache.NewStore()
	boom := errors.New("unreachable")
	var calls atomic.Int32
	p := NewProvider(store, countingFactory(&calls, boom), logging.NopLogger{})

	_, err := p.Resolve(context.Background(), identity.Identity{Principal: "p-1"})
	require.ErrorIs(t, err, boom)

	st := p.Status()
	require.Nil(t, st.Handle)
	require.ErrorIs(t, st.Err, boom)
	require.False(t, st.Resolving)
	require.False(t, p.Ready())
}

func TestProvider_RecreateInvalidatesEverythingButActors(t *testing.T) {
	store := cache.NewStore()
	var calls atomic.Int32
	p := NewProvider(store, countingFactory(&calls, nil), logging.NopLogger{})

	_, err := p.Resolve(context.Background(), identity.Identity{Principal: "p-1", Anonymous: true})
	require.NoError(t, err)

	store.Set(cache.NewKey("posts"), "feed")
	store.Set(cache.NewKey("conversation", "p-2"), "chat")

	p.Recreate(context.Background(), identity.Identity{Principal: "p-2"})

	e, _ := store.Lookup(cache.NewKey("posts"))
	require.True(t, e.Stale)
	e, _ = store.Lookup(cache.NewKey("conversation", "p-2"))
	require.True(t, e.Stale)

	// Old identity's handle entry is kept: switching back reuses it.
	e, ok := store.Lookup(cache.NewKey("actor", "p-1"))
	require.True(t, ok)
	require.False(t, e.Stale)

	h := p.Handle()
	require.NotNil(t, h)
	require.Equal(t, "p-2", h.(*fakeBackend).id)
}

func TestProvider_BindFollowsIdentityChanges(t *testing.T) {
	store := cache.NewStore()
	var calls atomic.Int32
	p := NewProvider(store, countingFactory(&calls, nil), logging.NopLogger{})

	m := identity.NewManager(&staticAuthClient{}, logging.NopLogger{})
	cancel := p.Bind(context.Background(), m)
	defer cancel()

	require.NoError(t, m.Login(context.Background(), "alice", "secret"))

	require.Eventually(t, func() bool {
		h := p.Handle()
		return h != nil && h.(*fakeBackend).id == "p-42"
	}, time.Second, 5*time.Millisecond)
}

func TestProvider_ForgetForcesRebuild(t *testing.T) {
	store := cache.NewStore()
	var calls atomic.Int32
	p := NewProvider(store, countingFactory(&calls, nil), logging.NopLogger{})

	id := identity.Identity{Principal: "p-1"}
	_, err := p.Resolve(context.Background(), id)
	require.NoError(t, err)

	p.Forget(id)
	require.False(t, p.Ready())

	_, err = p.Resolve(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, int32(2), calls.Load())
}

func TestProvider_ForgetSupersedesInFlightResolution(t *testing.T) {
	store := cache.NewStore()
	release := make(chan struct{})
	var calls atomic.Int32
	factory := func(ctx context.Context, id identity.Identity) (rpc.Backend, error) {
		if calls.Add(1) == 1 {
			<-release
			return nil, errors.New("stale dial")
		}
		return &fakeBackend{id: string(id.Principal)}, nil
	}
	p := NewProvider(store, factory, logging.NopLogger{})
	id := identity.Identity{Principal: "p-1"}

	first := make(chan error, 1)
	go func() {
		_, err := p.Resolve(context.Background(), id)
		first <- err
	}()
	require.Eventually(t, func() bool { return p.Status().Resolving }, time.Second, time.Millisecond)

	// Forget must let the next Resolve start over instead of joining the
	// hung attempt.
	p.Forget(id)
	require.False(t, p.Status().Resolving)

	h, err := p.Resolve(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, h)

	close(release)
	require.ErrorIs(t, <-first, context.Canceled)

	// The superseded result must not clobber the fresh handle.
	require.True(t, p.Ready())
	require.Same(t, h, p.Handle())
}

func TestProvider_ConcurrentResolvesShareOneCall(t *testing.T) {
	store := cache.NewStore()
	var calls atomic.Int32
	var enterOnce sync.Once
	entered := make(chan struct{})
	release := make(chan struct{})
	factory := func(ctx context.Context, id identity.Identity) (rpc.Backend, error) {
		calls.Add(1)
		enterOnce.Do(func() { close(entered) })
		<-release
		return &fakeBackend{id: string(id.Principal)}, nil
	}
	p := NewProvider(store, factory, logging.NopLogger{})
	id := identity.Identity{Principal: "p-1"}

	type result struct {
		h   rpc.Backend
		err error
	}
	results := make(chan result, 2)
	go func() {
		h, err := p.Resolve(context.Background(), id)
		results <- result{h, err}
	}()
	<-entered
	go func() {
		h, err := p.Resolve(context.Background(), id)
		results <- result{h, err}
	}()

	// Give the second caller time to reach the coalescing check.
	time.Sleep(50 * time.Millisecond)
	close(release)

	r1, r2 := <-results, <-results
	require.NoError(t, r1.err)
	require.NoError(t, r2.err)
	require.Same(t, r1.h, r2.h)
	require.Equal(t, int32(1), calls.Load(), "concurrent resolves must share one factory call")
}

type staticAuthClient struct{}

func (staticAuthClient) Login(ctx context.Context, username, password string) (*rpc.LoginResponse, error) {
	return &rpc.LoginResponse{Principal: "p-42"}, nil
}

func (staticAuthClient) Register(ctx context.Context, username, password string) (rpc.Principal, error) {
	return "p-42", nil
}
