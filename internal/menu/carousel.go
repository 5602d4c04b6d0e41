// file: internal/menu/carousel.go
// version: 1.1.0
// guid: fefa718d-bbe3-409b-85c7-e6884e80a341

package menu

import (
	"context"
	"sync"
	"time"
)

// AdvanceInterval is the home carousel auto-advance cadence.
const AdvanceInterval = 5 * time.Second

// Carousel rotates through a fixed number of slides. Auto-advance runs
// while unpaused and halts on hover.
type Carousel struct {
	mu     sync.Mutex
	slides int
	index  int
	paused bool
}

// NewCarousel creates a rotator over n slides. n below 1 is treated as 1.
func NewCarousel(n int) *Carousel {
	if n < 1 {
		n = 1
	}
	return &Carousel{slides: n}
}

// Current returns the current slide index.
func (c *Carousel) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Advance moves to the next slide with wraparound. Paused carousels do
// not move.
func (c *Carousel) Advance() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused {
		c.index = (c.index + 1) % c.slides
	}
	return c.index
}

// Goto jumps to slide i when it is in range.
func (c *Carousel) Goto(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i >= 0 && i < c.slides {
		c.index = i
	}
}

// Pause halts auto-advance, as on mouse hover.
func (c *Carousel) Pause() {
	c.mu.Lock()
	c.paused = true
	c.mu.Unlock()
}

// Resume restarts auto-advance.
func (c *Carousel) Resume() {
	c.mu.Lock()
	c.paused = false
	c.mu.Unlock()
}

// Paused reports whether auto-advance is halted.
func (c *Carousel) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Run advances the carousel every AdvanceInterval until ctx is done.
func (c *Carousel) Run(ctx context.Context) {
	ticker := time.NewTicker(AdvanceInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Advance()
		}
	}
}
