package cache

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sachwave/sachwave/internal/common"
)

// ErrNotReady reports that a query's dependencies (actor, identity, path
// parameter) have not resolved yet. It is a "pending" signal, never a
// failure: callers render a loading state, not an error.
var ErrNotReady = errors.New("query dependencies not ready")

// Query is a declarative remote read: a stable key, a fetch function, an
// enablement predicate, and an optional background refresh interval.
type Query[T any] struct {
	Store *Store
	Key   Key

	// Enabled gates execution. When it returns false, Run yields ErrNotReady
	// without touching the backend or the cache.
	Enabled func() bool

	// Fetch loads the value from the backend. It must not be called when
	// the query is disabled.
	Fetch func(ctx context.Context) (T, error)

	// RefreshEvery, when positive, re-runs the query in the background at
	// this interval. Volatile data refreshes fast (seconds), feeds slower.
	RefreshEvery time.Duration

	// MaxAttempts bounds fetch attempts per Run (0 and 1 both mean a single
	// attempt). Retries use exponential backoff; authorization-class errors
	// are never retried.
	MaxAttempts uint64
}

// Value returns the cached value, stale or fresh.
func (q *Query[T]) Value() (T, bool) {
	var zero T
	v, ok := q.Store.Get(q.Key)
	if !ok {
		return zero, false
	}
	return v.(T), true
}

// Fetched reports whether the cache holds any value for the key.
func (q *Query[T]) Fetched() bool {
	_, ok := q.Store.Get(q.Key)
	return ok
}

// Get returns the cached value when it is fresh, otherwise runs the fetch.
func (q *Query[T]) Get(ctx context.Context) (T, error) {
	if e, ok := q.Store.Lookup(q.Key); ok && !e.Stale {
		return e.Value.(T), nil
	}
	return q.Run(ctx)
}

// Run executes the fetch (coalesced per key), stores the result, and
// returns it. Disabled queries return ErrNotReady.
func (q *Query[T]) Run(ctx context.Context) (T, error) {
	var zero T
	if q.Enabled != nil && !q.Enabled() {
		return zero, ErrNotReady
	}

	v, err := q.Store.do(q.Key, func() (any, error) {
		out, err := q.fetchWithRetry(ctx)
		if err != nil {
			return nil, err
		}
		q.Store.Set(q.Key, out)
		return out, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

func (q *Query[T]) fetchWithRetry(ctx context.Context) (T, error) {
	var out T

	operation := func() error {
		v, err := q.Fetch(ctx)
		if err != nil {
			if isPermanent(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		out = v
		return nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 100 * time.Millisecond
	expo.MaxInterval = 2 * time.Second

	retries := uint64(0)
	if q.MaxAttempts > 1 {
		retries = q.MaxAttempts - 1
	}
	b := backoff.WithContext(backoff.WithMaxRetries(expo, retries), ctx)

	if err := backoff.Retry(operation, b); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// isPermanent reports errors that retrying cannot fix: authorization
// failures and backend-side rejections.
func isPermanent(err error) bool {
	return errors.Is(err, common.ErrUnauthorized) ||
		errors.Is(err, common.ErrValidation) ||
		errors.Is(err, common.ErrBanned) ||
		errors.Is(err, common.ErrNotAdmin)
}

// StartRefresh launches the background refresh loop. It returns immediately;
// the loop stops when ctx is cancelled. Queries without a refresh interval
// are a no-op.
func (q *Query[T]) StartRefresh(ctx context.Context) {
	if q.RefreshEvery <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(q.RefreshEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_, _ = q.Run(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}
