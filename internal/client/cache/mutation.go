package cache

import (
	"context"
	"errors"
)

// ErrActorUnavailable reports that a mutation was invoked before the backend
// actor resolved. The request is never sent; the caller should surface a
// retryable failure.
var ErrActorUnavailable = errors.New("actor not available")

// Mutation is a remote write with an invalidate-and-refetch policy: after a
// successful call, the named keys are marked stale so the next read
// re-fetches authoritative state.
type Mutation[Req, Resp any] struct {
	Store *Store

	// Ready reports whether the backend actor is available. Mutations fail
	// fast when it is not, without touching the network.
	Ready func() bool

	Call func(ctx context.Context, req Req) (Resp, error)

	// Invalidates names exactly the keys whose cached values the write
	// makes stale.
	Invalidates []Key
}

func (m *Mutation[Req, Resp]) Do(ctx context.Context, req Req) (Resp, error) {
	var zero Resp
	if m.Ready != nil && !m.Ready() {
		return zero, ErrActorUnavailable
	}
	resp, err := m.Call(ctx, req)
	if err != nil {
		return zero, err
	}
	m.Store.Invalidate(m.Invalidates...)
	return resp, nil
}

// OptimisticMutation writes a predicted post-mutation value into the cache
// before the request resolves, rolls the snapshot back on failure, and
// always invalidates on settlement so the cache reconverges on server truth
// even when the optimistic guess was wrong.
type OptimisticMutation[Req, Resp any] struct {
	Store *Store
	Ready func() bool

	// Key is the entry the optimistic transform patches.
	Key Key

	// Transform synthesizes the expected post-mutation value from the
	// current cached value. It must not mutate current in place.
	Transform func(current any, req Req) any

	Call func(ctx context.Context, req Req) (Resp, error)

	// SettleInvalidates names the keys invalidated on settlement (success
	// or failure). Defaults to just Key.
	SettleInvalidates []Key
}

func (m *OptimisticMutation[Req, Resp]) Do(ctx context.Context, req Req) (Resp, error) {
	var zero Resp
	if m.Ready != nil && !m.Ready() {
		return zero, ErrActorUnavailable
	}

	snapshot, hadSnapshot := m.Store.Get(m.Key)
	if hadSnapshot && m.Transform != nil {
		m.Store.Set(m.Key, m.Transform(snapshot, req))
	}

	resp, err := m.Call(ctx, req)
	if err != nil && hadSnapshot {
		m.Store.Set(m.Key, snapshot)
	}

	keys := m.SettleInvalidates
	if len(keys) == 0 {
		keys = []Key{m.Key}
	}
	m.Store.Invalidate(keys...)

	if err != nil {
		return zero, err
	}
	return resp, nil
}
