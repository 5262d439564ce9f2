package security

import (
	"sync"
	"time"
)

// Pacer enforces a minimum interval between outbound requests, keeping
// calls to a quota-limited API under its requests-per-minute allowance.
type Pacer struct {
	mu       sync.Mutex
	minDelay time.Duration
	last     time.Time

	// injectable for tests
	now   func() time.Time
	sleep func(time.Duration)
}

// NewPacer creates a pacer spacing requests to at most perMinute per minute
func NewPacer(perMinute int) *Pacer {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &Pacer{
		minDelay: time.Minute / time.Duration(perMinute),
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Wait blocks until enough time has passed since the previous request.
// The first call returns immediately.
func (p *Pacer) Wait() {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if p.last.IsZero() {
		p.last = now
		return
	}

	if elapsed := now.Sub(p.last); elapsed < p.minDelay {
		p.sleep(p.minDelay - elapsed)
	}
	p.last = p.now()
}
