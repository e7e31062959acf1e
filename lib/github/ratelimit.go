// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/lindluni/warden-invite/lib/clock"
)

// maxRateLimitWait caps how long a single run will sleep for a rate
// limit window. A triage run is short-lived; a longer window surfaces
// as an error and the workflow can be re-run.
const maxRateLimitWait = 5 * time.Minute

// rateLimitTracker records the quota state from X-RateLimit-* response
// headers and blocks the next request while the quota is exhausted.
type rateLimitTracker struct {
	mu        sync.Mutex
	remaining int
	reset     time.Time
	known     bool // true after the first response with rate limit headers
	clock     clock.Clock
}

func newRateLimitTracker(clock clock.Clock) *rateLimitTracker {
	return &rateLimitTracker{clock: clock}
}

// update records rate limit state from HTTP response headers.
func (tracker *rateLimitTracker) update(header http.Header) {
	remaining, err := strconv.Atoi(header.Get("X-RateLimit-Remaining"))
	if err != nil {
		return
	}
	resetUnix, err := strconv.ParseInt(header.Get("X-RateLimit-Reset"), 10, 64)
	if err != nil {
		return
	}

	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	tracker.remaining = remaining
	tracker.reset = time.Unix(resetUnix, 0)
	tracker.known = true
}

// wait blocks until the reset time when the last response reported an
// exhausted quota. It returns immediately when the quota is unknown,
// not exhausted, or already reset. Windows longer than
// maxRateLimitWait fail instead of blocking.
func (tracker *rateLimitTracker) wait(ctx context.Context) error {
	tracker.mu.Lock()
	if !tracker.known || tracker.remaining > 0 {
		tracker.mu.Unlock()
		return nil
	}
	reset := tracker.reset
	sleepDuration := reset.Sub(tracker.clock.Now())
	tracker.mu.Unlock()

	if sleepDuration <= 0 {
		return nil
	}
	if sleepDuration > maxRateLimitWait {
		return fmt.Errorf("github: rate limit exhausted until %s", reset.UTC().Format(time.RFC3339))
	}

	select {
	case <-tracker.clock.After(sleepDuration):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// retryAfter computes the backoff for a rate-limited response:
// Retry-After (seconds, secondary limits) first, then the
// X-RateLimit-Reset timestamp. Returns zero when neither is usable or
// the wait would exceed maxRateLimitWait, meaning "do not retry".
func (tracker *rateLimitTracker) retryAfter(header http.Header) time.Duration {
	var duration time.Duration

	if seconds, err := strconv.Atoi(header.Get("Retry-After")); err == nil && seconds > 0 {
		duration = time.Duration(seconds) * time.Second
	} else if resetUnix, err := strconv.ParseInt(header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		duration = time.Unix(resetUnix, 0).Sub(tracker.clock.Now())
	}

	if duration <= 0 || duration > maxRateLimitWait {
		return 0
	}
	return duration
}
