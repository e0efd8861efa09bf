package controllers

import (
	"sync"
	"time"
)

// rateLimiter is a fixed-window in-memory counter, keyed by ip+email for
// the password-reset flow
type rateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	seen   map[string]*rateRecord
}

type rateRecord struct {
	count     int
	lastReset time.Time
}

func newRateLimiter(window time.Duration, max int) *rateLimiter {
	return &rateLimiter{
		window: window,
		max:    max,
		seen:   make(map[string]*rateRecord),
	}
}

func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rec, ok := rl.seen[key]
	if !ok || now.Sub(rec.lastReset) > rl.window {
		rl.seen[key] = &rateRecord{count: 1, lastReset: now}
		return true
	}
	if rec.count >= rl.max {
		return false
	}
	rec.count++
	return true
}
