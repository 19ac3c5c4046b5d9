package analyses

import (
	"math"
	"sync"
	"time"
)

const (
	// pollLimitWindow is the minimum gap between status polls of one analysis
	// by one principal.
	pollLimitWindow = 1 * time.Second
	// pollPruneSize triggers a sweep of expired entries.
	pollPruneSize = 4096
)

type pollKey struct {
	principal  string
	analysisID string
}

type pollLimiter struct {
	mu     sync.Mutex
	seen   map[pollKey]time.Time
	now    func() time.Time
	window time.Duration
}

func newPollLimiter(window time.Duration, now func() time.Time) *pollLimiter {
	if now == nil {
		now = time.Now
	}
	if window <= 0 {
		window = pollLimitWindow
	}
	return &pollLimiter{seen: make(map[pollKey]time.Time), now: now, window: window}
}

// Wait returns how long principal must wait before polling analysisID again.
// Zero means the poll is allowed and has been recorded.
func (l *pollLimiter) Wait(principal, analysisID string) time.Duration {
	if l == nil {
		return 0
	}
	key := pollKey{principal: principal, analysisID: analysisID}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	if last, ok := l.seen[key]; ok {
		if elapsed := now.Sub(last); elapsed < l.window {
			return l.window - elapsed
		}
	}
	if len(l.seen) >= pollPruneSize {
		for k, at := range l.seen {
			if now.Sub(at) >= l.window {
				delete(l.seen, k)
			}
		}
	}
	l.seen[key] = now
	return 0
}

// retryAfterSeconds rounds a wait up to whole seconds for the Retry-After header.
func retryAfterSeconds(wait time.Duration) int {
	return max(1, int(math.Ceil(wait.Seconds())))
}
