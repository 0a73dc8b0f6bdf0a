package viewer

import (
	"fmt"
	"strings"
)

// Event is a discrete input to the viewer. The set is closed.
type Event interface {
	event()
	String() string
}

// Navigation and mode events.
type (
	// Next moves to the following page (button).
	Next struct{}
	// Prev moves to the preceding page (button).
	Prev struct{}
	// GoTo jumps to a page (page indicator dot).
	GoTo struct{ Page int }
	// EnterFullscreen opens the fullscreen view (image click or expand control).
	EnterFullscreen struct{}
	// ExitFullscreen closes it (close control or backdrop click).
	ExitFullscreen struct{}
	// StepZoom advances to the next zoom step, wrapping to no zoom (single click).
	StepZoom struct{}
	// ResetZoom returns to no zoom (double click).
	ResetZoom struct{}
	// DragStart begins a pan gesture at a pointer position.
	DragStart struct{ X, Y float64 }
	// DragMove samples the pointer during a pan gesture.
	DragMove struct{ X, Y float64 }
	// DragEnd ends the gesture (pointer up or pointer leave).
	DragEnd struct{}
	// SwipeLeft is a page-turn gesture toward the next page.
	SwipeLeft struct{}
	// SwipeRight is a page-turn gesture toward the previous page.
	SwipeRight struct{}
	// Key is a keyboard press, named like DOM KeyboardEvent.key.
	Key struct{ Name string }
)

func (Next) event()            {}
func (Prev) event()            {}
func (GoTo) event()            {}
func (EnterFullscreen) event() {}
func (ExitFullscreen) event()  {}
func (StepZoom) event()        {}
func (ResetZoom) event()       {}
func (DragStart) event()       {}
func (DragMove) event()        {}
func (DragEnd) event()         {}
func (SwipeLeft) event()       {}
func (SwipeRight) event()      {}
func (Key) event()             {}

func (Next) String() string            { return "next" }
func (Prev) String() string            { return "prev" }
func (e GoTo) String() string          { return fmt.Sprintf("goto(%d)", e.Page) }
func (EnterFullscreen) String() string { return "enter-fullscreen" }
func (ExitFullscreen) String() string  { return "exit-fullscreen" }
func (StepZoom) String() string        { return "step-zoom" }
func (ResetZoom) String() string       { return "reset-zoom" }
func (e DragStart) String() string     { return fmt.Sprintf("drag-start(%g,%g)", e.X, e.Y) }
func (e DragMove) String() string      { return fmt.Sprintf("drag-move(%g,%g)", e.X, e.Y) }
func (DragEnd) String() string         { return "drag-end" }
func (SwipeLeft) String() string       { return "swipe-left" }
func (SwipeRight) String() string      { return "swipe-right" }
func (e Key) String() string           { return "key(" + e.Name + ")" }

// Key names understood while fullscreen.
const (
	KeyEscape     = "Escape"
	KeyArrowRight = "ArrowRight"
	KeyArrowLeft  = "ArrowLeft"
)

// ParseEvent maps a command word to an event. It backs scripted and
// terminal input: "next", "prev", "goto 3", "open", "close", "zoom",
// "reset", "swipe-left", "swipe-right", "drag x y x y", "key Escape".
// Drag expands to a full start/move/end gesture.
func ParseEvent(s string) ([]Event, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, nil
	}

	switch strings.ToLower(fields[0]) {
	case "next", "n":
		return []Event{Next{}}, nil
	case "prev", "p":
		return []Event{Prev{}}, nil
	case "goto", "g":
		var page int
		if len(fields) != 2 {
			return nil, fmt.Errorf("goto: expected a page number")
		}
		if _, err := fmt.Sscan(fields[1], &page); err != nil {
			return nil, fmt.Errorf("goto: %w", err)
		}
		return []Event{GoTo{Page: page - 1}}, nil
	case "open", "fullscreen", "f":
		return []Event{EnterFullscreen{}}, nil
	case "close", "exit":
		return []Event{ExitFullscreen{}}, nil
	case "zoom", "z", "click":
		return []Event{StepZoom{}}, nil
	case "reset", "dblclick":
		return []Event{ResetZoom{}}, nil
	case "swipe-left":
		return []Event{SwipeLeft{}}, nil
	case "swipe-right":
		return []Event{SwipeRight{}}, nil
	case "key":
		if len(fields) != 2 {
			return nil, fmt.Errorf("key: expected a key name")
		}
		switch fields[1] {
		case KeyEscape, KeyArrowLeft, KeyArrowRight:
			return []Event{Key{Name: fields[1]}}, nil
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, fields[1])
	case "drag":
		var x0, y0, x1, y1 float64
		if len(fields) != 5 {
			return nil, fmt.Errorf("drag: expected four coordinates")
		}
		if _, err := fmt.Sscan(strings.Join(fields[1:], " "), &x0, &y0, &x1, &y1); err != nil {
			return nil, fmt.Errorf("drag: %w", err)
		}
		return []Event{DragStart{X: x0, Y: y0}, DragMove{X: x1, Y: y1}, DragEnd{}}, nil
	}
	return nil, fmt.Errorf("unknown command %q", fields[0])
}
