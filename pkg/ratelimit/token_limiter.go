package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenLimiter enforces a per-minute token budget. Unlike a request limiter
// it is weighted: each call consumes a caller-supplied number of tokens.
type TokenLimiter struct {
	mu          sync.Mutex
	maxPerMin   int
	used        int
	windowStart time.Time
}

// NewTokenLimiter creates a limiter allowing maxPerMinute tokens per minute.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		maxPerMin:   maxPerMinute,
		windowStart: time.Now(),
	}
}

// GetRemaining returns the tokens left in the current window.
func (l *TokenLimiter) GetRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rotateWindow(time.Now())
	return l.maxPerMin - l.used
}

// Wait blocks until n tokens fit into the budget or the context is done.
// A request larger than the whole budget is admitted alone on a fresh window.
func (l *TokenLimiter) Wait(ctx context.Context, n int) error {
	for {
		l.mu.Lock()
		now := time.Now()
		l.rotateWindow(now)

		if l.used == 0 || l.used+n <= l.maxPerMin {
			l.used += n
			l.mu.Unlock()
			return nil
		}

		wakeAt := l.windowStart.Add(time.Minute)
		l.mu.Unlock()

		timer := time.NewTimer(time.Until(wakeAt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *TokenLimiter) rotateWindow(now time.Time) {
	if now.Sub(l.windowStart) >= time.Minute {
		l.windowStart = now
		l.used = 0
	}
}
