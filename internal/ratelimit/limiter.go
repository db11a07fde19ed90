package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is a sliding-window rate limiter. It is safe for concurrent use.
type Limiter struct {
	max    int
	window time.Duration

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	// turn is a one-slot semaphore held across the admission wait, so
	// callers are admitted one at a time and waiting for it can be cancelled.
	turn chan struct{}

	mu    sync.Mutex
	times []time.Time // ascending admission timestamps
}

// Stats is a point-in-time view of a limiter.
type Stats struct {
	Max      int
	Window   time.Duration
	InWindow int // admissions within the trailing window
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// WithSleep replaces the context-aware sleep used while waiting for a slot.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(l *Limiter) {
		l.sleep = sleep
	}
}

// New creates a limiter admitting max operations per window.
// A max below 1 is treated as 1.
func New(max int, window time.Duration, opts ...Option) *Limiter {
	if max < 1 {
		max = 1
	}

	l := &Limiter{
		max:    max,
		window: window,
		now:    time.Now,
		sleep:  sleepContext,
		turn:   make(chan struct{}, 1),
		times:  make([]time.Time, 0, max),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// PerMinute is shorthand for New(n, time.Minute).
func PerMinute(n int, opts ...Option) *Limiter {
	return New(n, time.Minute, opts...)
}

// Acquire blocks until one more operation fits in the window, then records it.
// If ctx is done first, nothing is recorded and ctx.Err() is returned.
func (l *Limiter) Acquire(ctx context.Context) error {
	select {
	case l.turn <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-l.turn }()

	for {
		wait, ok := l.tryAdmit()
		if ok {
			return nil
		}
		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// tryAdmit records an admission if the window has room, otherwise it
// returns how long until the oldest admission leaves the window.
func (l *Limiter) tryAdmit() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	if len(l.times) < l.max {
		l.times = append(l.times, now)
		return 0, true
	}

	return l.times[0].Add(l.window).Sub(now), false
}

// Stats returns the current limiter state.
func (l *Limiter) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(l.now())
	return Stats{
		Max:      l.max,
		Window:   l.window,
		InWindow: len(l.times),
	}
}

// prune drops timestamps at or before now-window. Caller holds mu.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.times) && !l.times[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.times = append(l.times[:0], l.times[i:]...)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
