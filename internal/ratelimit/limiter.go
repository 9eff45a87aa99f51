// Package ratelimit gates outbound calls to an external API with a sliding-window counter.
//
// A Limiter admits at most Limit requests in any rolling Window. A full burst may be
// admitted at once, so across two adjacent physical windows up to 2*Limit requests can
// pass. The quota is per Limiter, so a deployment running several processes gets a
// per-process share.
package ratelimit

import (
	"sync"
	"time"
)

// TMDB allows 40 requests per 10 seconds.
const (
	DefaultLimit  = 40
	DefaultWindow = 10 * time.Second
)

// Status reports the limiter state at a point in time.
type Status struct {
	Remaining int
	ResetIn   time.Duration
}

// ResetInMs returns ResetIn in whole milliseconds.
func (s Status) ResetInMs() int64 { return s.ResetIn.Milliseconds() }

// Limiter is a sliding-window request counter. Safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	clock    Clock
	metrics  *Metrics
	requests []time.Time // admitted, oldest first
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock sets the time source.
func WithClock(c Clock) Option {
	return func(l *Limiter) {
		l.clock = c
	}
}

// WithMetrics records every admission decision.
func WithMetrics(m *Metrics) Option {
	return func(l *Limiter) {
		l.metrics = m
	}
}

// New creates a Limiter admitting limit requests per window.
// Non-positive values fall back to DefaultLimit and DefaultWindow.
func New(limit int, window time.Duration, opts ...Option) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	l := &Limiter{
		limit:  limit,
		window: window,
		clock:  SystemClock{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Limit returns the number of requests admitted per window.
func (l *Limiter) Limit() int { return l.limit }

// Window returns the window length.
func (l *Limiter) Window() time.Duration { return l.window }

// prune drops timestamps that have left the window. Caller holds l.mu.
func (l *Limiter) prune(now time.Time) {
	cutoff := 0
	for cutoff < len(l.requests) && now.Sub(l.requests[cutoff]) >= l.window {
		cutoff++
	}
	if cutoff > 0 {
		l.requests = append(l.requests[:0], l.requests[cutoff:]...)
	}
}

// TryAcquire records a request and reports whether it was admitted.
// A denied request is not recorded.
func (l *Limiter) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	l.prune(now)

	if len(l.requests) >= l.limit {
		l.metrics.observe(false, 0)
		return false
	}

	l.requests = append(l.requests, now)
	l.metrics.observe(true, l.limit-len(l.requests))
	return true
}

// WaitTime returns how long until TryAcquire is expected to succeed again.
// It is advisory: concurrent callers are not serialized by it.
func (l *Limiter) WaitTime() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	l.prune(now)

	if len(l.requests) < l.limit {
		return 0
	}
	return max(0, l.window-now.Sub(l.requests[0]))
}

// WaitTimeMs is WaitTime in whole milliseconds.
func (l *Limiter) WaitTimeMs() int64 {
	return l.WaitTime().Milliseconds()
}

// Status reports remaining admissions and time until the oldest admission expires.
func (l *Limiter) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	l.prune(now)

	st := Status{Remaining: max(0, l.limit-len(l.requests))}
	if len(l.requests) > 0 {
		st.ResetIn = max(0, l.window-now.Sub(l.requests[0]))
	}
	return st
}
