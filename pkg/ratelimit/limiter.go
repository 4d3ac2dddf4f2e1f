package ratelimit

import (
	"sync"
	"time"
)

// Limiter tracks attempt timestamps per key within a sliding window. The
// console uses it to slow password guessing on the login form, keyed by
// remote host.
type Limiter struct {
	attempts map[string][]time.Time
	mu       sync.Mutex

	done      chan struct{}
	closeOnce sync.Once
}

func NewLimiter() *Limiter {
	l := &Limiter{
		attempts: make(map[string][]time.Time),
		done:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Allow records an attempt for key and reports whether it stays within
// maxAttempts per window.
func (l *Limiter) Allow(key string, maxAttempts int, window time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-window)

	var recent []time.Time
	for _, attempt := range l.attempts[key] {
		if attempt.After(cutoff) {
			recent = append(recent, attempt)
		}
	}

	if len(recent) >= maxAttempts {
		l.attempts[key] = recent
		return false
	}

	l.attempts[key] = append(recent, now)
	return true
}

// Reset clears the attempt record for key, typically after a successful
// login.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, key)
}

// Close stops the background cleanup goroutine.
func (l *Limiter) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
}

func (l *Limiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.prune()
		}
	}
}

func (l *Limiter) prune() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-24 * time.Hour)
	for key, attempts := range l.attempts {
		var recent []time.Time
		for _, attempt := range attempts {
			if attempt.After(cutoff) {
				recent = append(recent, attempt)
			}
		}
		if len(recent) == 0 {
			delete(l.attempts, key)
		} else {
			l.attempts[key] = recent
		}
	}
}
