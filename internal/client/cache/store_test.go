package cache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStore_SetGet(t *testing.T) {
	s := NewStore()

	_, ok := s.Get(NewKey("posts"))
	require.False(t, ok)

	s.Set(NewKey("posts"), []int{1, 2})
	v, ok := s.Get(NewKey("posts"))
	require.True(t, ok)
	require.Equal(t, []int{1, 2}, v)
}

func TestStore_InvalidatePrefix(t *testing.T) {
	s := NewStore()
	s.Set(NewKey("posts"), "feed")
	s.Set(NewKey("posts", "user", "p-1"), "user feed")
	s.Set(NewKey("postscript"), "unrelated")

	s.Invalidate(NewKey("posts"))

	e, _ := s.Lookup(NewKey("posts"))
	require.True(t, e.Stale)
	e, _ = s.Lookup(NewKey("posts", "user", "p-1"))
	require.True(t, e.Stale)

	// "postscript" shares a string prefix but not a segment prefix.
	e, _ = s.Lookup(NewKey("postscript"))
	require.False(t, e.Stale)
}

func TestStore_InvalidateExcept(t *testing.T) {
	s := NewStore()
	s.Set(NewKey("actor", "p-1"), "handle")
	s.Set(NewKey("posts"), "feed")
	s.Set(NewKey("conversation", "p-2"), "chat")

	s.InvalidateExcept(NewKey("actor"))

	e, _ := s.Lookup(NewKey("actor", "p-1"))
	require.False(t, e.Stale)
	e, _ = s.Lookup(NewKey("posts"))
	require.True(t, e.Stale)
	e, _ = s.Lookup(NewKey("conversation", "p-2"))
	require.True(t, e.Stale)
}

func TestStore_SubscribeAndCancel(t *testing.T) {
	s := NewStore()

	var mu sync.Mutex
	var seen []Key
	cancel := s.Subscribe(func(k Key) {
		mu.Lock()
		seen = append(seen, k)
		mu.Unlock()
	})

	s.Set(NewKey("posts"), "v")
	s.Invalidate(NewKey("posts"))

	mu.Lock()
	require.Equal(t, []Key{"posts", "posts"}, seen)
	mu.Unlock()

	cancel()
	s.Set(NewKey("posts"), "v2")

	mu.Lock()
	require.Len(t, seen, 2)
	mu.Unlock()
}

func TestStore_CoalescesInflightFetches(t *testing.T) {
	s := NewStore()

	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	slow := func() (any, error) {
		calls.Add(1)
		close(started)
		<-release
		return "result", nil
	}

	var wg sync.WaitGroup
	results := make([]any, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = s.do(NewKey("posts"), slow)
	}()

	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		// Second trigger while the first is outstanding: must share the
		// in-flight call, not run slow() again.
		results[1], _ = s.do(NewKey("posts"), slow)
	}()

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int32(1), calls.Load())
	require.Equal(t, "result", results[0])
	require.Equal(t, "result", results[1])
}

func TestStore_NoCoalescingAcrossKeys(t *testing.T) {
	s := NewStore()

	var calls atomic.Int32
	fn := func() (any, error) {
		calls.Add(1)
		return "v", nil
	}

	_, _ = s.do(NewKey("posts"), fn)
	_, _ = s.do(NewKey("stories"), fn)

	require.Equal(t, int32(2), calls.Load())
}
