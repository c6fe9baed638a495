package keymap

import (
	"errors"
	"sync"
	"time"
)

// BreakerState is the state of a Breaker.
type BreakerState int

const (
	// BreakerClosed lets every call through.
	BreakerClosed BreakerState = iota
	// BreakerOpen rejects calls until the cooldown elapses.
	BreakerOpen
	// BreakerHalfOpen lets one trial call through.
	BreakerHalfOpen
)

// String returns the string representation of the state.
func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrHookSuspended is returned while a failing hook is suspended.
var ErrHookSuspended = errors.New("key hook suspended after repeated failures")

// Breaker suspends a hook after consecutive failures. After the cooldown
// a single trial call decides whether the hook is resumed or suspended
// again.
type Breaker struct {
	threshold int
	cooldown  time.Duration
	now       func() time.Time

	mu       sync.Mutex
	state    BreakerState
	failures int
	openedAt time.Time
	trial    bool
}

// NewBreaker opens after threshold consecutive failures and stays open
// for cooldown. A nil now uses time.Now.
func NewBreaker(threshold int, cooldown time.Duration, now func() time.Time) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	if now == nil {
		now = time.Now
	}
	return &Breaker{threshold: threshold, cooldown: cooldown, now: now}
}

// Do runs fn unless the breaker rejects the call with ErrHookSuspended.
// The returned bool reports a state change, so callers can log it once.
func (b *Breaker) Do(fn func() error) (changed bool, err error) {
	if !b.allow() {
		return false, ErrHookSuspended
	}
	err = fn()
	return b.record(err), err
}

// State returns the current state.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerOpen:
		if b.now().Sub(b.openedAt) < b.cooldown {
			return false
		}
		b.state = BreakerHalfOpen
		b.trial = true
		return true
	case BreakerHalfOpen:
		if b.trial {
			return false
		}
		b.trial = true
		return true
	default:
		return true
	}
}

func (b *Breaker) record(err error) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	prev := b.state
	b.trial = false
	switch {
	case err == nil:
		b.failures = 0
		b.state = BreakerClosed
	case b.state == BreakerHalfOpen:
		b.state = BreakerOpen
		b.openedAt = b.now()
	default:
		if b.failures++; b.failures >= b.threshold {
			b.state = BreakerOpen
			b.openedAt = b.now()
		}
	}
	return b.state != prev
}
