package update

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sachwave/sachwave/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_SameVersionNoUpdate(t *testing.T) {
	c := NewChecker("1.2.0", func(ctx context.Context) (string, error) {
		return "1.2.0", nil
	}, time.Minute, logging.NopLogger{})

	newer, version, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.False(t, newer)
	assert.Equal(t, "1.2.0", version)
}

func TestCheck_NewVersionDetected(t *testing.T) {
	c := NewChecker("1.2.0", func(ctx context.Context) (string, error) {
		return "1.3.0", nil
	}, time.Minute, logging.NopLogger{})

	newer, version, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, newer)
	assert.Equal(t, "1.3.0", version)

	newer, version = c.UpdateAvailable()
	assert.True(t, newer)
	assert.Equal(t, "1.3.0", version)
}

func TestCheck_SourceFailure(t *testing.T) {
	boom := errors.New("down")
	c := NewChecker("1.2.0", func(ctx context.Context) (string, error) {
		return "", boom
	}, time.Minute, logging.NopLogger{})

	_, _, err := c.Check(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestRun_NotifiesOncePerVersion(t *testing.T) {
	c := NewChecker("1.2.0", func(ctx context.Context) (string, error) {
		return "1.3.0", nil
	}, 5*time.Millisecond, logging.NopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var seen []string
	go c.Run(ctx, func(version string) {
		mu.Lock()
		seen = append(seen, version)
		mu.Unlock()
	})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) >= 1
	}, time.Second, 5*time.Millisecond)

	// Give it a few more ticks: the same version must not re-notify.
	time.Sleep(30 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, []string{"1.3.0"}, seen)
	mu.Unlock()
}
