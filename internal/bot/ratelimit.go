package bot

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// EventClass separates plain messages from interactive controls; each class
// has its own admission interval.
type EventClass int

const (
	ClassMessage EventClass = iota
	ClassCallback
)

type limiterKey struct {
	class EventClass
	user  int64
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-(class, user) minimum-interval admission gate.
// Events arriving faster than the interval are dropped, never queued.
// Entries idle longer than a small multiple of the longest interval are
// pruned to bound memory.
type RateLimiter struct {
	mu        sync.Mutex
	entries   map[limiterKey]*limiterEntry
	intervals map[EventClass]time.Duration
	longest   time.Duration
	done      chan struct{}
	once      sync.Once
}

// NewRateLimiter builds the gate with one interval per event class.
func NewRateLimiter(messageInterval, callbackInterval time.Duration) *RateLimiter {
	longest := messageInterval
	if callbackInterval > longest {
		longest = callbackInterval
	}
	r := &RateLimiter{
		entries: make(map[limiterKey]*limiterEntry),
		intervals: map[EventClass]time.Duration{
			ClassMessage:  messageInterval,
			ClassCallback: callbackInterval,
		},
		longest: longest,
		done:    make(chan struct{}),
	}
	if longest > 0 {
		go r.pruneLoop()
	}
	return r
}

// Allow reports whether the event is admitted. Burst is one, so the first
// event always passes and subsequent ones pass only after the interval.
func (r *RateLimiter) Allow(class EventClass, userID int64) bool {
	interval := r.intervals[class]
	if interval <= 0 {
		return true
	}

	key := limiterKey{class: class, user: userID}
	r.mu.Lock()
	entry, ok := r.entries[key]
	if !ok {
		entry = &limiterEntry{lim: rate.NewLimiter(rate.Every(interval), 1)}
		r.entries[key] = entry
	}
	entry.lastSeen = time.Now()
	r.mu.Unlock()

	return entry.lim.Allow()
}

// Stop halts background pruning.
func (r *RateLimiter) Stop() {
	r.once.Do(func() { close(r.done) })
}

func (r *RateLimiter) pruneLoop() {
	// Anything idle for ten intervals is irrelevant to throttling.
	threshold := 10 * r.longest
	ticker := time.NewTicker(threshold)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case now := <-ticker.C:
			r.prune(now, threshold)
		}
	}
}

func (r *RateLimiter) prune(now time.Time, threshold time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, entry := range r.entries {
		if now.Sub(entry.lastSeen) > threshold {
			delete(r.entries, key)
		}
	}
}

// size reports the live entry count, for tests.
func (r *RateLimiter) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
