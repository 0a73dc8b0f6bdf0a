// Package gallery implements the screenshot carousel: a wrap-around index
// over project images that advances on a timer.
//
// Every manual navigation cancels the pending timer and schedules a fresh
// one, and each schedule carries a generation number, so a timer that fires
// concurrently with a manual step is discarded instead of advancing twice.
// Opening the lightbox pauses auto-advance; closing it resumes.
package gallery

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alnah/go-folio/internal/logging"
)

// DefaultInterval is the auto-advance period.
const DefaultInterval = 5 * time.Second

// Sentinel errors.
var (
	ErrNoImages      = errors.New("gallery has no images")
	ErrIndexRange    = errors.New("image index out of range")
	ErrInvalidPeriod = errors.New("interval must be positive")
)

// Option configures a Carousel.
type Option func(*Carousel)

// WithInterval sets the auto-advance period.
func WithInterval(d time.Duration) Option {
	return func(c *Carousel) {
		c.interval = d
	}
}

// WithClock replaces the system clock.
func WithClock(clk Clock) Option {
	return func(c *Carousel) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithOnChange registers a callback for index changes. It runs with the
// carousel locked and must not call back into it.
func WithOnChange(f func(index int)) Option {
	return func(c *Carousel) {
		c.onChange = f
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Carousel) {
		if l != nil {
			c.logger = l
		}
	}
}

// Carousel is a running gallery. Create with New and stop with Close.
type Carousel struct {
	mu       sync.Mutex
	count    int
	index    int
	interval time.Duration
	clock    Clock
	timer    Timer
	gen      uint64
	lightbox bool
	closed   bool
	onChange func(int)
	logger   logging.Logger
}

// New starts a carousel over count images at index 0.
func New(count int, opts ...Option) (*Carousel, error) {
	if count <= 0 {
		return nil, ErrNoImages
	}

	c := &Carousel{
		count:    count,
		interval: DefaultInterval,
		clock:    SystemClock{},
		logger:   logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.interval <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPeriod, c.interval)
	}

	c.mu.Lock()
	c.schedule()
	c.mu.Unlock()
	return c, nil
}

// Index returns the current image index.
func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Count returns the number of images.
func (c *Carousel) Count() int {
	return c.count
}

// Lightbox reports whether the enlarged view is open.
func (c *Carousel) Lightbox() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lightbox
}

// Next advances manually and restarts the timer.
func (c *Carousel) Next() int {
	return c.manual(func() { c.move(1) })
}

// Prev steps back manually and restarts the timer.
func (c *Carousel) Prev() int {
	return c.manual(func() { c.move(-1) })
}

// Select jumps to index i and restarts the timer.
func (c *Carousel) Select(i int) error {
	if i < 0 || i >= c.count {
		return fmt.Errorf("%w: %d (gallery has %d images)", ErrIndexRange, i, c.count)
	}
	c.manual(func() { c.set(i) })
	return nil
}

// OpenLightbox shows the current image enlarged and pauses auto-advance.
func (c *Carousel) OpenLightbox() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.lightbox {
		return
	}
	c.lightbox = true
	c.cancel()
}

// CloseLightbox returns to the carousel and resumes auto-advance.
func (c *Carousel) CloseLightbox() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.lightbox {
		return
	}
	c.lightbox = false
	c.schedule()
}

// Close stops the timer for good. Navigation still works but nothing
// advances on its own afterwards.
func (c *Carousel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.cancel()
}

func (c *Carousel) manual(action func()) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancel()
	action()
	c.schedule()
	return c.index
}

// move must be called with mu held.
func (c *Carousel) move(delta int) {
	c.set(((c.index+delta)%c.count + c.count) % c.count)
}

func (c *Carousel) set(i int) {
	if i == c.index {
		return
	}
	c.index = i
	if c.onChange != nil {
		c.onChange(i)
	}
}

// cancel stops the pending timer and invalidates any fire already in flight.
func (c *Carousel) cancel() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// schedule arms the next auto-advance unless paused, closed or pointless.
func (c *Carousel) schedule() {
	c.cancel()
	if c.closed || c.lightbox || c.count < 2 {
		return
	}
	gen := c.gen
	c.timer = c.clock.AfterFunc(c.interval, func() { c.tick(gen) })
}

func (c *Carousel) tick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.logger.Debug("stale gallery tick dropped")
		return
	}
	c.timer = nil
	c.move(1)
	c.logger.Debug("gallery advanced", logging.Int("index", c.index))
	c.schedule()
}
