package ws

import (
	"sync"
	"time"

	"github.com/Rizaski/walkietalkie/internal/domain"
)

// JoinRateLimiter is a sliding-window limiter over join attempts per
// connection. It keeps channel-hopping clients from flooding the rest of the
// channel with roster churn.
type JoinRateLimiter struct {
	mu      sync.Mutex
	history map[domain.ClientID][]time.Time
	limit   int
	window  time.Duration
}

func NewJoinRateLimiter(limit int, window time.Duration) *JoinRateLimiter {
	return &JoinRateLimiter{
		history: make(map[domain.ClientID][]time.Time),
		limit:   limit,
		window:  window,
	}
}

func (rl *JoinRateLimiter) Allow(id domain.ClientID) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.window)

	attempts := rl.history[id]
	fresh := make([]time.Time, 0, len(attempts))
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history[id] = fresh
		return false
	}

	fresh = append(fresh, now)
	rl.history[id] = fresh
	return true
}

// Forget drops the history for a closed connection.
func (rl *JoinRateLimiter) Forget(id domain.ClientID) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.history, id)
}
