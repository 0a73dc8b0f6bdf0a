package viewer

import "slices"

// Machine holds the transition table for one set of zoom steps.
// It has no mutable state and is safe for concurrent use.
type Machine struct {
	steps ZoomSteps
}

// NewMachine creates a Machine. Nil steps use DefaultZoomSteps.
func NewMachine(steps ZoomSteps) (*Machine, error) {
	if steps == nil {
		steps = DefaultZoomSteps
	}
	if err := steps.Validate(); err != nil {
		return nil, err
	}
	return &Machine{steps: slices.Clone(steps)}, nil
}

// Steps returns a copy of the zoom steps.
func (m *Machine) Steps() ZoomSteps {
	return slices.Clone(m.steps)
}

// Effects tells the presentation layer what a transition asks of it.
type Effects struct {
	Redraw      bool // the frame changed and must be drawn again
	PageChanged bool
	Frame       Frame
}

// Apply computes the state following e. It never fails: input that the
// current state does not accept leaves the state unchanged and asks for no
// redraw. A state with zero pages accepts nothing.
func (m *Machine) Apply(s State, e Event) (State, Effects) {
	next := m.transition(s, e)
	return next, Effects{
		Redraw:      next != s,
		PageChanged: next.Page != s.Page,
		Frame:       m.Frame(next),
	}
}

func (m *Machine) transition(s State, e Event) State {
	if !s.Available() {
		return s
	}

	switch e := e.(type) {
	case Next:
		return s.turn(s.Page + 1)
	case Prev:
		return s.turn(s.Page - 1)
	case GoTo:
		return s.turn(e.Page)

	case EnterFullscreen:
		if s.Fullscreen {
			return s
		}
		s.Fullscreen = true
		return s.resetZoom()
	case ExitFullscreen:
		if !s.Fullscreen {
			return s
		}
		s.Fullscreen = false
		return s.resetZoom()

	case StepZoom:
		if !s.Fullscreen {
			return s
		}
		s.Zoom = (s.Zoom + 1) % len(m.steps)
		if s.Zoom == 0 {
			return s.resetZoom()
		}
		return s
	case ResetZoom:
		if !s.Fullscreen {
			return s
		}
		return s.resetZoom()

	case DragStart:
		if !s.Fullscreen || s.Zoom == 0 {
			return s
		}
		s.Dragging = true
		s.lastSample = Vec{e.X, e.Y}
		return s
	case DragMove:
		if !s.Dragging {
			return s
		}
		p := Vec{e.X, e.Y}
		s.Pan = s.Pan.Add(p.Sub(s.lastSample))
		s.lastSample = p
		return s
	case DragEnd:
		if !s.Dragging {
			return s
		}
		s.Dragging = false
		s.lastSample = Vec{}
		return s

	case SwipeLeft:
		if !s.Fullscreen || s.SwipeLocked() {
			return s
		}
		return s.turn(s.Page + 1)
	case SwipeRight:
		if !s.Fullscreen || s.SwipeLocked() {
			return s
		}
		return s.turn(s.Page - 1)

	case Key:
		if !s.Fullscreen {
			return s
		}
		switch e.Name {
		case KeyEscape:
			return m.transition(s, ExitFullscreen{})
		case KeyArrowRight:
			return s.turn(s.Page + 1)
		case KeyArrowLeft:
			return s.turn(s.Page - 1)
		}
	}
	return s
}

// turn moves to page when it exists and navigation is not blocked by zoom.
// Any page change resets zoom and pan.
func (s State) turn(page int) State {
	if page < 0 || page >= s.PageCount || page == s.Page || !s.canNavigate() {
		return s
	}
	s.Page = page
	return s.resetZoom()
}

// canNavigate: page turns are blocked only while zoomed in fullscreen.
func (s State) canNavigate() bool {
	return !s.Fullscreen || s.Zoom == 0
}

// Frame describes how state s should be drawn.
func (m *Machine) Frame(s State) Frame {
	if !s.Available() {
		return Frame{Unavailable: true, Transform: Transform{Scale: 1}}
	}

	zoom := min(max(s.Zoom, 0), len(m.steps)-1)
	nav := s.canNavigate()
	return Frame{
		Page:       s.Page,
		PageCount:  s.PageCount,
		Fullscreen: s.Fullscreen,
		Transform: Transform{
			Scale:      m.steps[zoom],
			TranslateX: s.Pan.X,
			TranslateY: s.Pan.Y,
			Animate:    !s.Dragging,
		},
		SwipeLocked: s.SwipeLocked(),
		Controls: Controls{
			Prev:   nav && s.Page > 0,
			Next:   nav && s.Page < s.PageCount-1,
			Expand: !s.Fullscreen,
			Close:  s.Fullscreen,
			Dots:   s.PageCount > 1,
		},
	}
}
