// internal/timer/countdown.go
package timer

import (
	"sync"
	"time"
)

// DefaultTickInterval is how often remaining time is recomputed and
// reported while the countdown runs.
const DefaultTickInterval = 100 * time.Millisecond

// TickFunc receives the clamped remaining time on every tick.
type TickFunc func(remaining time.Duration)

// ExpireFunc is called exactly once per countdown lifecycle when the
// deadline passes.
type ExpireFunc func()

// Countdown is a restartable countdown clock. Remaining time is always
// derived from an absolute deadline, never from accumulated deltas, so it
// stays correct across pause/resume and scheduling skew.
//
// Callbacks are invoked without the internal lock held; callers may freely
// call back into the Countdown from them.
type Countdown struct {
	// TickInterval overrides the tick cadence when set before Start.
	TickInterval time.Duration

	mu        sync.Mutex
	duration  time.Duration
	remaining time.Duration
	deadline  time.Time
	running   bool
	paused    bool
	gen       int // invalidates stale tick loops and expiry delivery
	onTick    TickFunc
	onExpire  ExpireFunc
}

// New returns a stopped countdown with the default tick interval.
func New() *Countdown {
	return &Countdown{TickInterval: DefaultTickInterval}
}

// Start arms the countdown for total and begins ticking. Any previous
// countdown is cancelled; its expiry will not be delivered.
func (c *Countdown) Start(total time.Duration, onTick TickFunc, onExpire ExpireFunc) {
	if total < 0 {
		total = 0
	}
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.duration = total
	c.remaining = total
	c.onTick = onTick
	c.onExpire = onExpire
	c.running = true
	c.paused = false
	c.deadline = time.Now().Add(total)
	remaining := c.remaining
	c.mu.Unlock()

	c.emitTick(onTick, remaining)
	go c.loop(gen)
}

func (c *Countdown) interval() time.Duration {
	if c.TickInterval > 0 {
		return c.TickInterval
	}
	return DefaultTickInterval
}

func (c *Countdown) loop(gen int) {
	ticker := time.NewTicker(c.interval())
	defer ticker.Stop()
	for range ticker.C {
		if !c.step(gen) {
			return
		}
	}
}

// step recomputes remaining time for one tick. Returns false when the
// loop must exit: stale generation, paused, stopped, or expired.
func (c *Countdown) step(gen int) bool {
	c.mu.Lock()
	if gen != c.gen || !c.running || c.paused {
		c.mu.Unlock()
		return false
	}
	remaining := time.Until(c.deadline)
	if remaining < 0 {
		remaining = 0
	}
	c.remaining = remaining
	tick := c.onTick
	var expire ExpireFunc
	expired := remaining <= 0
	if expired {
		// Terminal: stop before delivering so the expiry handler sees a
		// stopped clock, and bump gen so nothing fires twice.
		c.gen++
		c.running = false
		c.paused = false
		c.deadline = time.Time{}
		expire = c.onExpire
	}
	c.mu.Unlock()

	c.emitTick(tick, remaining)
	if expired && expire != nil {
		expire()
	}
	return !expired
}

// Pause freezes the remaining time. No-op unless running and not already
// paused.
func (c *Countdown) Pause() {
	c.mu.Lock()
	if !c.running || c.paused {
		c.mu.Unlock()
		return
	}
	remaining := time.Until(c.deadline)
	if remaining < 0 {
		remaining = 0
	}
	c.remaining = remaining
	c.paused = true
	c.gen++ // retire the tick loop
	tick := c.onTick
	c.mu.Unlock()

	c.emitTick(tick, remaining)
}

// Resume rebases the deadline from the frozen remaining time. No-op
// unless running, paused and time remains.
func (c *Countdown) Resume() {
	c.mu.Lock()
	if !c.running || !c.paused || c.remaining <= 0 {
		c.mu.Unlock()
		return
	}
	c.paused = false
	c.deadline = time.Now().Add(c.remaining)
	c.gen++
	gen := c.gen
	tick := c.onTick
	remaining := c.remaining
	c.mu.Unlock()

	c.emitTick(tick, remaining)
	go c.loop(gen)
}

// Reset re-arms the countdown to total without changing the run/pause
// state. While running and unpaused the deadline is rebased immediately.
func (c *Countdown) Reset(total time.Duration) {
	if total < 0 {
		total = 0
	}
	c.mu.Lock()
	c.duration = total
	c.remaining = total
	if c.running && !c.paused {
		c.deadline = time.Now().Add(total)
	}
	tick := c.onTick
	remaining := c.remaining
	c.mu.Unlock()

	c.emitTick(tick, remaining)
}

// Stop cancels the countdown and any pending tick or expiry delivery.
// Idempotent.
func (c *Countdown) Stop() {
	c.mu.Lock()
	c.gen++
	c.running = false
	c.paused = false
	c.deadline = time.Time{}
	c.mu.Unlock()
}

// Remaining returns the clamped remaining time.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running && !c.paused {
		if r := time.Until(c.deadline); r > 0 {
			return r
		}
		return 0
	}
	if c.remaining > 0 {
		return c.remaining
	}
	return 0
}

// IsRunning reports whether a countdown is armed (paused counts as
// running).
func (c *Countdown) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// IsPaused reports whether the countdown is frozen.
func (c *Countdown) IsPaused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

func (c *Countdown) emitTick(tick TickFunc, remaining time.Duration) {
	if tick != nil {
		tick(remaining)
	}
}
