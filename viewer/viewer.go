package viewer

import (
	"sync"

	"github.com/alnah/go-folio/internal/logging"
)

// Renderer receives a frame every time a transition changes what is on screen.
// Render is called with the viewer locked, in input order; it must not call
// back into the Viewer.
type Renderer interface {
	Render(Frame)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Frame)

// Render calls f(fr).
func (f RendererFunc) Render(fr Frame) { f(fr) }

// Option configures a Viewer.
type Option func(*Viewer)

// WithRenderer sets the frame callback.
func WithRenderer(r Renderer) Option {
	return func(v *Viewer) {
		v.renderer = r
	}
}

// WithZoomSteps replaces DefaultZoomSteps. Steps are validated by New.
func WithZoomSteps(steps ZoomSteps) Option {
	return func(v *Viewer) {
		v.steps = steps
	}
}

// WithLogger logs every accepted transition at debug level.
func WithLogger(l logging.Logger) Option {
	return func(v *Viewer) {
		if l != nil {
			v.logger = l
		}
	}
}

// Viewer is a long-lived viewer instance. It serializes input so transitions
// apply in arrival order, and forwards frames to its Renderer.
type Viewer struct {
	mu       sync.Mutex
	machine  *Machine
	state    State
	steps    ZoomSteps
	renderer Renderer
	logger   logging.Logger
}

// New creates a Viewer showing the first of pageCount pages, inline and
// unzoomed. The initial frame is rendered immediately.
func New(pageCount int, opts ...Option) (*Viewer, error) {
	v := &Viewer{logger: logging.NopLogger{}}
	for _, opt := range opts {
		opt(v)
	}

	m, err := NewMachine(v.steps)
	if err != nil {
		return nil, err
	}
	v.machine = m
	v.state = Initial(pageCount)

	v.render(m.Frame(v.state))
	return v, nil
}

// Send applies events in order and returns the resulting frame.
func (v *Viewer) Send(events ...Event) Frame {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, e := range events {
		next, fx := v.machine.Apply(v.state, e)
		v.state = next
		if !fx.Redraw {
			v.logger.Debug("viewer input ignored", logging.String("event", e.String()))
			continue
		}
		v.logger.Debug("viewer transition",
			logging.String("event", e.String()),
			logging.Int("page", next.Page),
			logging.Int("zoom", next.Zoom))
		v.render(fx.Frame)
	}
	return v.machine.Frame(v.state)
}

// SetPageCount replaces the document (e.g. after a reload) and clamps the
// current page into range.
func (v *Viewer) SetPageCount(n int) Frame {
	v.mu.Lock()
	defer v.mu.Unlock()

	prev := v.state
	v.state = v.state.WithPageCount(n)
	fr := v.machine.Frame(v.state)
	if v.state != prev {
		v.render(fr)
	}
	return fr
}

// State returns a snapshot of the current state.
func (v *Viewer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Frame returns the current frame.
func (v *Viewer) Frame() Frame {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.machine.Frame(v.state)
}

// Controls returns the navigation affordances currently enabled.
func (v *Viewer) Controls() Controls {
	return v.Frame().Controls
}

// ZoomScale returns the magnification of the current zoom step.
func (v *Viewer) ZoomScale() float64 {
	return v.Frame().Transform.Scale
}

func (v *Viewer) render(fr Frame) {
	if v.renderer != nil {
		v.renderer.Render(fr)
	}
}
