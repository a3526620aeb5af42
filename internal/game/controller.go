package game

import (
	"sync"

	"github.com/vovakirdan/snek/internal/core"
)

// Controller holds the committed movement direction and a buffered intent.
//
// Intents may arrive from any goroutine between ticks. The last accepted intent
// wins and is applied by Commit at the start of the next tick. An intent that
// reverses the committed direction is dropped.
type Controller struct {
	mu        sync.Mutex
	committed core.Direction
	pending   core.Direction
}

// NewController creates a controller heading in d.
func NewController(d core.Direction) *Controller {
	return &Controller{committed: d, pending: d}
}

// SetIntent buffers d for the next tick. It reports whether d was accepted.
func (c *Controller) SetIntent(d core.Direction) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d == c.committed.Opposite() {
		return false
	}
	c.pending = d
	return true
}

// Commit applies the buffered intent and returns the committed direction.
func (c *Controller) Commit() core.Direction {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.committed = c.pending
	return c.committed
}

// Direction returns the committed direction.
func (c *Controller) Direction() core.Direction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.committed
}

// Reset discards any buffered intent and commits d.
func (c *Controller) Reset(d core.Direction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.committed = d
	c.pending = d
}
