package ratelimit

import (
	"sync"
	"time"
)

// Limiter defines the interface for pacing outbound requests
type Limiter interface {
	// Wait blocks until the limiter allows another request
	Wait()
	// Reset resets the limiter state
	Reset()
}

// FixedInterval enforces a minimum spacing between consecutive calls.
// The first call proceeds immediately; each subsequent call waits until
// at least the interval has elapsed since the previous one.
type FixedInterval struct {
	interval time.Duration
	last     time.Time
	mu       sync.Mutex
}

// NewFixedInterval creates a fixed-interval limiter
func NewFixedInterval(interval time.Duration) *FixedInterval {
	return &FixedInterval{interval: interval}
}

// Wait blocks until the spacing contract is satisfied. The lock is held
// across the sleep so concurrent callers are serialized as well.
func (f *FixedInterval) Wait() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.last.IsZero() {
		if remaining := f.interval - time.Since(f.last); remaining > 0 {
			time.Sleep(remaining)
		}
	}
	f.last = time.Now()
}

// Reset clears the spacing state so the next call proceeds immediately
func (f *FixedInterval) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.last = time.Time{}
}

// Nop is a limiter that never waits, for tests and disabled delays
type Nop struct{}

func (Nop) Wait()  {}
func (Nop) Reset() {}
