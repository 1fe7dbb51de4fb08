package model

import (
	"sync"
	"time"
)

// DefaultClockTime is the time each side starts with.
const DefaultClockTime = 10 * time.Minute

// Clock is one side's countdown. It only runs while that side is to move.
type Clock struct {
	mu          sync.Mutex
	timeLeft    time.Duration
	lastStarted time.Time // When the clock was last started
	isRunning   bool
	now         func() time.Time
}

func NewClock(initialTime time.Duration) *Clock {
	return &Clock{
		timeLeft: initialTime,
		now:      time.Now,
	}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		c.lastStarted = c.now()
		c.isRunning = true
	}
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		c.timeLeft -= c.now().Sub(c.lastStarted)
		c.isRunning = false
	}
}

// TimeLeft never reports less than zero.
func (c *Clock) TimeLeft() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	left := c.timeLeft
	if c.isRunning {
		left -= c.now().Sub(c.lastStarted)
	}
	if left < 0 {
		return 0
	}
	return left
}

// Expired reports whether the flag has fallen.
func (c *Clock) Expired() bool {
	return c.TimeLeft() <= 0
}

// tenths converts the remaining time to the unit clients display.
func (c *Clock) tenths() int {
	return int(c.TimeLeft() / (100 * time.Millisecond))
}
