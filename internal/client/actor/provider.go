// Package actor resolves the backend actor handle for the current identity.
//
// The handle is the typed RPC surface bound to one identity's credentials.
// It is resolved asynchronously, cached under "actor/<principal>" with
// infinite freshness, and recreated whenever the identity changes. Because
// every cached value in the store was produced through some handle, an
// identity change stales everything except the actor entries themselves.
package actor

import (
	"context"
	"sync"
	"time"

	"github.com/sachwave/sachwave/internal/client/cache"
	"github.com/sachwave/sachwave/internal/client/identity"
	"github.com/sachwave/sachwave/internal/logging"
	"github.com/sachwave/sachwave/internal/rpc"
)

const keyPrefix = "actor"

// Factory builds a backend handle bound to the given identity. It should
// verify reachability (e.g. with a ping) before returning.
type Factory func(ctx context.Context, id identity.Identity) (rpc.Backend, error)

// Status is a snapshot of the provider: at most one of Handle and Err is
// set; Resolving reports an in-flight resolution and StartedAt when it began.
type Status struct {
	Handle    rpc.Backend
	Err       error
	Resolving bool
	StartedAt time.Time
}

// Provider owns the actor handle lifecycle. Safe for concurrent use.
type Provider struct {
	store   *cache.Store
	factory Factory
	logger  logging.Logger

	mu        sync.Mutex
	current   identity.Identity
	handle    rpc.Backend
	err       error
	resolving bool
	startedAt time.Time
	gen       int
	inflight  chan struct{} // closed when the owning resolution settles
}

func NewProvider(store *cache.Store, factory Factory, logger logging.Logger) *Provider {
	return &Provider{store: store, factory: factory, logger: logger}
}

// Bind subscribes the provider to identity changes: each change recreates
// the handle for the new identity. Recreation runs off the notifying
// goroutine so a slow resolution never blocks the identity layer.
func (p *Provider) Bind(ctx context.Context, m *identity.Manager) (cancel func()) {
	return m.Subscribe(func(id identity.Identity) {
		go p.Recreate(ctx, id)
	})
}

// Status returns the provider snapshot.
func (p *Provider) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Status{Handle: p.handle, Err: p.err, Resolving: p.resolving, StartedAt: p.startedAt}
}

// Ready reports whether a handle is available.
func (p *Provider) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handle != nil && p.err == nil
}

// Handle returns the resolved handle, or nil while unresolved or failed.
func (p *Provider) Handle() rpc.Backend {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handle
}

// Resolve obtains the handle for id, reusing a cached one when present.
// It blocks until resolution settles; callers that need it off the critical
// path run it in a goroutine and poll Status. At most one factory call is
// in flight per identity: a caller arriving while another resolution for
// the same identity is outstanding waits for and shares its result.
func (p *Provider) Resolve(ctx context.Context, id identity.Identity) (rpc.Backend, error) {
	key := cache.NewKey(keyPrefix, string(id.Principal))
	if e, ok := p.store.Lookup(key); ok && !e.Stale {
		h := e.Value.(rpc.Backend)
		p.mu.Lock()
		p.current = id
		p.handle = h
		p.err = nil
		p.resolving = false
		p.mu.Unlock()
		return h, nil
	}

	p.mu.Lock()
	if p.resolving && p.current == id {
		ch := p.inflight
		p.mu.Unlock()
		<-ch
		return p.settled()
	}
	p.current = id
	p.handle = nil
	p.err = nil
	p.resolving = true
	p.startedAt = time.Now()
	p.gen++
	gen := p.gen
	ch := make(chan struct{})
	p.inflight = ch
	p.mu.Unlock()

	h, err := p.factory(ctx, id)

	p.mu.Lock()
	defer p.mu.Unlock()
	defer close(ch)
	if gen != p.gen {
		// A newer Recreate or Forget superseded this resolution; discard
		// the result.
		return nil, context.Canceled
	}
	p.resolving = false
	if err != nil {
		p.err = err
		p.logger.Warn(ctx, "actor resolution failed", "principal", id.Principal, "error", err)
		return nil, err
	}
	p.handle = h
	p.store.Set(key, h)
	p.logger.Debug(ctx, "actor resolved", "principal", id.Principal)
	return h, nil
}

// settled reports the outcome of the resolution a coalesced caller waited
// on. If that resolution was itself superseded, nothing has settled yet.
func (p *Provider) settled() (rpc.Backend, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	if p.handle != nil {
		return p.handle, nil
	}
	return nil, context.Canceled
}

// Recreate drops the current handle, stales every non-actor cache entry
// (everything cached so far was fetched through the old identity's handle)
// and resolves a handle for the new identity.
func (p *Provider) Recreate(ctx context.Context, id identity.Identity) {
	p.mu.Lock()
	p.handle = nil
	p.err = nil
	// Supersede any in-flight resolution so its result is discarded and
	// the Resolve below starts a fresh attempt instead of joining it.
	p.resolving = false
	p.gen++
	p.mu.Unlock()

	p.store.InvalidateExcept(cache.NewKey(keyPrefix))

	_, _ = p.Resolve(ctx, id)
}

// Forget drops the cached handle entry for id so the next Resolve builds a
// fresh one. Used by soft retry after a resolution failure: it also
// supersedes any resolution still in flight, so a retry after a hung dial
// starts a new attempt rather than waiting the old one out.
func (p *Provider) Forget(id identity.Identity) {
	p.store.Invalidate(cache.NewKey(keyPrefix, string(id.Principal)))
	p.mu.Lock()
	p.handle = nil
	p.err = nil
	p.resolving = false
	p.gen++
	p.mu.Unlock()
}
