package usecase

import (
	"sync"
	"time"
)

// RescoreLimiter enforces a minimum gap between manual re-score triggers for
// the same candidate. State is process-local, which is sufficient for the
// single-instance deployments this protects.
type RescoreLimiter struct {
	mu     sync.Mutex
	last   map[string]time.Time
	minGap time.Duration
	now    func() time.Time
}

// NewRescoreLimiter creates a limiter with the given minimum gap.
func NewRescoreLimiter(minGap time.Duration) *RescoreLimiter {
	return &RescoreLimiter{
		last:   make(map[string]time.Time),
		minGap: minGap,
		now:    time.Now,
	}
}

// Allow reports whether a re-score for id may proceed now, and records the
// attempt when it may. Stale entries are pruned opportunistically so the map
// stays bounded by recent activity.
func (l *RescoreLimiter) Allow(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for k, t := range l.last {
		if now.Sub(t) >= l.minGap {
			delete(l.last, k)
		}
	}
	if t, ok := l.last[id]; ok && now.Sub(t) < l.minGap {
		return false
	}
	l.last[id] = now
	return true
}

// Release gives back the slot recorded by Allow, for callers whose follow-up
// action failed and should be retryable immediately.
func (l *RescoreLimiter) Release(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.last, id)
}
