package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sachwave/sachwave/internal/common"
	"github.com/stretchr/testify/require"
)

func TestQuery_DisabledReturnsNotReady(t *testing.T) {
	s := NewStore()
	q := &Query[string]{
		Store:   s,
		Key:     NewKey("posts"),
		Enabled: func() bool { return false },
		Fetch: func(ctx context.Context) (string, error) {
			t.Fatal("fetch must not run while disabled")
			return "", nil
		},
	}

	_, err := q.Run(context.Background())
	require.ErrorIs(t, err, ErrNotReady)
	require.False(t, q.Fetched())
}

func TestQuery_GetUsesFreshCache(t *testing.T) {
	s := NewStore()
	var calls atomic.Int32
	q := &Query[string]{
		Store: s,
		Key:   NewKey("posts"),
		Fetch: func(ctx context.Context) (string, error) {
			calls.Add(1)
			return "fetched", nil
		},
	}

	v, err := q.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "fetched", v)
	require.Equal(t, int32(1), calls.Load())

	// Fresh entry: no second fetch.
	v, err = q.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "fetched", v)
	require.Equal(t, int32(1), calls.Load())
}

func TestQuery_GetRefetchesAfterInvalidate(t *testing.T) {
	s := NewStore()
	var calls atomic.Int32
	q := &Query[int]{
		Store: s,
		Key:   NewKey("unreadNotificationCount"),
		Fetch: func(ctx context.Context) (int, error) {
			return int(calls.Add(1)), nil
		},
	}

	v, err := q.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, v)

	s.Invalidate(NewKey("unreadNotificationCount"))

	v, err = q.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, v)
}

func TestQuery_RetriesTransientErrors(t *testing.T) {
	s := NewStore()
	var calls atomic.Int32
	q := &Query[string]{
		Store:       s,
		Key:         NewKey("posts"),
		MaxAttempts: 3,
		Fetch: func(ctx context.Context) (string, error) {
			if calls.Add(1) < 3 {
				return "", errors.New("connection reset")
			}
			return "ok", nil
		},
	}

	v, err := q.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", v)
	require.Equal(t, int32(3), calls.Load())
}

func TestQuery_RetryBound(t *testing.T) {
	s := NewStore()
	var calls atomic.Int32
	boom := errors.New("flaky")
	q := &Query[string]{
		Store:       s,
		Key:         NewKey("posts"),
		MaxAttempts: 2,
		Fetch: func(ctx context.Context) (string, error) {
			calls.Add(1)
			return "", boom
		},
	}

	_, err := q.Run(context.Background())
	require.ErrorIs(t, err, boom)
	require.Equal(t, int32(2), calls.Load())
}

func TestQuery_AuthorizationErrorsNotRetried(t *testing.T) {
	s := NewStore()
	var calls atomic.Int32
	q := &Query[string]{
		Store:       s,
		Key:         NewKey("currentUserProfile"),
		MaxAttempts: 5,
		Fetch: func(ctx context.Context) (string, error) {
			calls.Add(1)
			return "", common.ErrUnauthorized
		},
	}

	start := time.Now()
	_, err := q.Run(context.Background())
	require.ErrorIs(t, err, common.ErrUnauthorized)
	require.Equal(t, int32(1), calls.Load())
	require.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestQuery_FailedFetchLeavesCacheUntouched(t *testing.T) {
	s := NewStore()
	s.Set(NewKey("posts"), "previous")
	s.Invalidate(NewKey("posts"))

	q := &Query[string]{
		Store: s,
		Key:   NewKey("posts"),
		Fetch: func(ctx context.Context) (string, error) {
			return "", errors.New("down")
		},
	}

	_, err := q.Run(context.Background())
	require.Error(t, err)

	// Stale value survives for callers that prefer stale data to none.
	v, ok := q.Value()
	require.True(t, ok)
	require.Equal(t, "previous", v)
}

func TestQuery_BackgroundRefresh(t *testing.T) {
	s := NewStore()
	var calls atomic.Int32
	q := &Query[int]{
		Store:        s,
		Key:          NewKey("stories"),
		RefreshEvery: 10 * time.Millisecond,
		Fetch: func(ctx context.Context) (int, error) {
			return int(calls.Add(1)), nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.StartRefresh(ctx)

	require.Eventually(t, func() bool {
		return calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}
