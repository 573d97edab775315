// Package cache implements the client's keyed request cache: a single
// injected store shared by every screen, with subscription-based
// invalidation, per-key fetch coalescing, and declarative query/mutation
// wrappers on top.
//
// The store holds whatever the fetch functions produce; typing is restored
// by the generic Query/Mutation wrappers in this package.
package cache

import (
	"strings"
	"sync"
	"time"
)

// Key identifies one cache entry. Keys are ordered tuples rendered as
// slash-joined segments, e.g. "posts" or "conversation/<principal>".
// A key is a prefix of another if it matches whole segments.
type Key string

// NewKey joins segments into a Key.
func NewKey(parts ...string) Key {
	return Key(strings.Join(parts, "/"))
}

func (k Key) hasPrefix(prefix Key) bool {
	if k == prefix {
		return true
	}
	return strings.HasPrefix(string(k), string(prefix)+"/")
}

// Entry is a snapshot of one cache slot.
type Entry struct {
	Value     any
	Stale     bool
	UpdatedAt time.Time
}

type call struct {
	done chan struct{}
	val  any
	err  error
}

// Store is the application-scoped cache service. The zero value is not
// usable; construct with NewStore.
type Store struct {
	mu      sync.Mutex
	entries map[Key]*Entry
	calls   map[Key]*call
	subs    map[int]func(Key)
	nextSub int
}

func NewStore() *Store {
	return &Store{
		entries: make(map[Key]*Entry),
		calls:   make(map[Key]*call),
		subs:    make(map[int]func(Key)),
	}
}

// Get returns the cached value for key, stale or not.
func (s *Store) Get(key Key) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return e.Value, true
}

// Lookup returns the full entry snapshot for key.
func (s *Store) Lookup(key Key) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Set stores a fresh value under key and notifies subscribers.
func (s *Store) Set(key Key, value any) {
	s.mu.Lock()
	s.entries[key] = &Entry{Value: value, UpdatedAt: time.Now()}
	subs := s.snapshotSubs()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(key)
	}
}

// Invalidate marks every entry under the given key prefixes as stale. The
// next read through a Query re-fetches from the backend. Subscribers are
// notified once per affected entry.
func (s *Store) Invalidate(prefixes ...Key) {
	s.mu.Lock()
	var touched []Key
	for _, prefix := range prefixes {
		for k, e := range s.entries {
			if k.hasPrefix(prefix) && !e.Stale {
				e.Stale = true
				touched = append(touched, k)
			}
		}
	}
	subs := s.snapshotSubs()
	s.mu.Unlock()

	for _, k := range touched {
		for _, fn := range subs {
			fn(k)
		}
	}
}

// InvalidateExcept marks every entry stale except those under keep. Used
// when the identity changes: everything produced under the old identity's
// authorization context is suspect, except the actor-handle entry itself.
func (s *Store) InvalidateExcept(keep Key) {
	s.mu.Lock()
	var touched []Key
	for k, e := range s.entries {
		if k.hasPrefix(keep) {
			continue
		}
		if !e.Stale {
			e.Stale = true
			touched = append(touched, k)
		}
	}
	subs := s.snapshotSubs()
	s.mu.Unlock()

	for _, k := range touched {
		for _, fn := range subs {
			fn(k)
		}
	}
}

// Subscribe registers fn to be called with the key of every entry that is
// set or invalidated. The returned func cancels the subscription.
func (s *Store) Subscribe(fn func(Key)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// snapshotSubs must be called with s.mu held.
func (s *Store) snapshotSubs() []func(Key) {
	subs := make([]func(Key), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return subs
}

// do runs fn for key, guaranteeing at most one in-flight execution per key.
// A second caller arriving while the first is outstanding waits for and
// shares the first result instead of issuing a duplicate fetch.
func (s *Store) do(key Key, fn func() (any, error)) (any, error) {
	s.mu.Lock()
	if c, ok := s.calls[key]; ok {
		s.mu.Unlock()
		<-c.done
		return c.val, c.err
	}
	c := &call{done: make(chan struct{})}
	s.calls[key] = c
	s.mu.Unlock()

	c.val, c.err = fn()

	s.mu.Lock()
	delete(s.calls, key)
	s.mu.Unlock()
	close(c.done)

	return c.val, c.err
}
