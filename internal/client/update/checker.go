// Package update polls the backend for the currently published client
// version and reports when this binary is behind, so the user can be told
// to upgrade instead of running stale code indefinitely.
package update

import (
	"context"
	"sync"
	"time"

	"github.com/sachwave/sachwave/internal/logging"
)

// VersionSource fetches the published client version. rpc.Backend's
// GetClientVersion satisfies it via a small adapter closure.
type VersionSource func(ctx context.Context) (string, error)

// Checker compares the running version with the published one at a fixed
// interval.
type Checker struct {
	current  string
	source   VersionSource
	interval time.Duration
	logger   logging.Logger

	mu        sync.Mutex
	published string
}

func NewChecker(current string, source VersionSource, interval time.Duration, logger logging.Logger) *Checker {
	return &Checker{current: current, source: source, interval: interval, logger: logger}
}

// Check fetches the published version once and returns whether an update
// is available.
func (c *Checker) Check(ctx context.Context) (bool, string, error) {
	published, err := c.source(ctx)
	if err != nil {
		return false, "", err
	}

	c.mu.Lock()
	c.published = published
	c.mu.Unlock()

	return published != "" && published != c.current, published, nil
}

// UpdateAvailable reports the result of the most recent successful check.
func (c *Checker) UpdateAvailable() (bool, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.published != "" && c.published != c.current, c.published
}

// Run polls until ctx is cancelled, invoking onUpdate once per newly seen
// version. Fetch failures are logged and skipped; the next tick retries.
func (c *Checker) Run(ctx context.Context, onUpdate func(version string)) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	notified := ""
	for {
		select {
		case <-ticker.C:
			newer, version, err := c.Check(ctx)
			if err != nil {
				c.logger.Debug(ctx, "version check failed", "error", err)
				continue
			}
			if newer && version != notified {
				notified = version
				c.logger.Info(ctx, "client update available", "current", c.current, "published", version)
				if onUpdate != nil {
					onUpdate(version)
				}
			}
		case <-ctx.Done():
			return
		}
	}
}
