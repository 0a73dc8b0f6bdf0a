package viewer

import (
	"fmt"
	"math"
)

// DefaultZoomSteps are the discrete magnifications a click cycles through.
var DefaultZoomSteps = ZoomSteps{1, 1.12, 1.25, 1.45, 1.65, 1.85, 2}

// ZoomSteps is an ascending list of magnification multipliers.
// Index 0 is always 1.0, meaning no magnification.
type ZoomSteps []float64

// Validate checks that steps start at exactly 1.0 and strictly ascend.
func (z ZoomSteps) Validate() error {
	if len(z) == 0 {
		return fmt.Errorf("%w: at least one step required", ErrInvalidZoomSteps)
	}
	if z[0] != 1 {
		return fmt.Errorf("%w: first step must be 1.0, got %v", ErrInvalidZoomSteps, z[0])
	}
	for i := 1; i < len(z); i++ {
		if math.IsNaN(z[i]) || math.IsInf(z[i], 0) || z[i] <= z[i-1] {
			return fmt.Errorf("%w: step %d (%v) must be greater than %v", ErrInvalidZoomSteps, i, z[i], z[i-1])
		}
	}
	return nil
}

// Vec is a 2D offset in presentation pixels.
type Vec struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// State is the complete viewer state. It is a plain value: transitions
// return a new State and never mutate the one they were given.
type State struct {
	PageCount  int
	Page       int  // in [0, PageCount-1]; 0 when PageCount == 0
	Zoom       int  // index into the machine's ZoomSteps
	Pan        Vec  // meaningful only while Zoom > 0
	Fullscreen bool
	Dragging   bool
	lastSample Vec // pointer position at the previous drag sample
}

// Initial returns the starting state for a document of pageCount pages:
// inline, first page, no zoom.
func Initial(pageCount int) State {
	return State{PageCount: max(pageCount, 0)}
}

// Available reports whether there is anything to display.
func (s State) Available() bool { return s.PageCount > 0 }

// SwipeLocked reports whether swipe gestures are reserved for panning.
func (s State) SwipeLocked() bool { return s.Zoom > 0 }

// WithPageCount returns s adjusted to a new page count. The page is clamped
// into range; zoom and pan reset when the page had to move.
func (s State) WithPageCount(n int) State {
	n = max(n, 0)
	s.PageCount = n
	last := max(n-1, 0)
	if s.Page > last {
		s.Page = last
		s = s.resetZoom()
	}
	if n == 0 {
		s = s.resetZoom()
		s.Fullscreen = false
	}
	return s
}

func (s State) resetZoom() State {
	s.Zoom = 0
	s.Pan = Vec{}
	s.Dragging = false
	s.lastSample = Vec{}
	return s
}

// Transform is what the presentation layer applies to the current page bitmap.
type Transform struct {
	Scale      float64
	TranslateX float64
	TranslateY float64
	Animate    bool // false while a drag is in progress
}

// Controls reports which navigation affordances are enabled.
type Controls struct {
	Prev   bool
	Next   bool
	Expand bool
	Close  bool
	Dots   bool // page indicator, shown for multi-page documents
}

// Frame is everything needed to draw the viewer at one instant.
type Frame struct {
	Unavailable bool // zero pages: draw the placeholder, nothing else
	Page        int
	PageCount   int
	Fullscreen  bool
	Transform   Transform
	SwipeLocked bool
	Controls    Controls
}
