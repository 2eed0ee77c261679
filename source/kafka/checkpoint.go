package kafka

import (
	"sync"
	"time"
)

// committer decides when marked offsets should be flushed to the broker.
type committer struct {
	every time.Duration

	mu      sync.Mutex
	last    time.Time
	pending int
	now     func() time.Time
}

func newCommitter(every time.Duration) *committer {
	return &committer{every: every, now: time.Now}
}

// mark records one handled message and reports whether a commit is due.
func (c *committer) mark() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending++
	now := c.now()
	if c.last.IsZero() {
		c.last = now
	}
	if now.Sub(c.last) >= c.every {
		c.last = now
		c.pending = 0
		return true
	}
	return false
}

// flush reports whether anything was marked since the last commit and
// resets the counter.
func (c *committer) flush() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	dirty := c.pending > 0
	c.pending = 0
	c.last = c.now()
	return dirty
}
