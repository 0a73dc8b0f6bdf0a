package viewer_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-folio/viewer"
)

func newMachine(t *testing.T) *viewer.Machine {
	t.Helper()
	m, err := viewer.NewMachine(nil)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	return m
}

// run applies events in order and returns the final state.
func run(m *viewer.Machine, s viewer.State, events ...viewer.Event) viewer.State {
	for _, e := range events {
		s, _ = m.Apply(s, e)
	}
	return s
}

// ---------------------------------------------------------------------------
// TestZoomSteps_Validate
// ---------------------------------------------------------------------------

func TestZoomSteps_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		steps   viewer.ZoomSteps
		wantErr bool
	}{
		{"default", viewer.DefaultZoomSteps, false},
		{"single step", viewer.ZoomSteps{1}, false},
		{"two steps", viewer.ZoomSteps{1, 3}, false},
		{"empty", viewer.ZoomSteps{}, true},
		{"does not start at one", viewer.ZoomSteps{1.5, 2}, true},
		{"not ascending", viewer.ZoomSteps{1, 2, 1.5}, true},
		{"duplicate", viewer.ZoomSteps{1, 1.5, 1.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.steps.Validate()
			if tt.wantErr && !errors.Is(err, viewer.ErrInvalidZoomSteps) {
				t.Errorf("error = %v, want ErrInvalidZoomSteps", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewMachine_CopiesSteps(t *testing.T) {
	t.Parallel()

	steps := viewer.ZoomSteps{1, 2, 3}
	m, err := viewer.NewMachine(steps)
	if err != nil {
		t.Fatal(err)
	}
	steps[1] = 99
	if got := m.Steps()[1]; got != 2 {
		t.Errorf("machine shares caller's slice: step 1 = %v", got)
	}
}

// ---------------------------------------------------------------------------
// TestApply - Transition table
// ---------------------------------------------------------------------------

func TestApply_Transitions(t *testing.T) {
	t.Parallel()

	m := newMachine(t)
	inline := viewer.Initial(3)
	full := run(m, inline, viewer.EnterFullscreen{})
	zoomed := run(m, full, viewer.StepZoom{}, viewer.StepZoom{})
	panned := run(m, zoomed, viewer.DragStart{X: 10, Y: 10}, viewer.DragMove{X: 40, Y: -5}, viewer.DragEnd{})
	middle := run(m, inline, viewer.Next{})
	last := run(m, middle, viewer.Next{})

	tests := []struct {
		name       string
		from       viewer.State
		event      viewer.Event
		wantPage   int
		wantZoom   int
		wantPan    viewer.Vec
		wantFull   bool
		wantRedraw bool
	}{
		{"next inline", inline, viewer.Next{}, 1, 0, viewer.Vec{}, false, true},
		{"next at last page", last, viewer.Next{}, 2, 0, viewer.Vec{}, false, false},
		{"prev at first page", inline, viewer.Prev{}, 0, 0, viewer.Vec{}, false, false},
		{"prev inline", middle, viewer.Prev{}, 0, 0, viewer.Vec{}, false, true},
		{"next fullscreen unzoomed", full, viewer.Next{}, 1, 0, viewer.Vec{}, true, true},
		{"next fullscreen zoomed", zoomed, viewer.Next{}, 0, 2, viewer.Vec{}, true, false},
		{"goto", inline, viewer.GoTo{Page: 2}, 2, 0, viewer.Vec{}, false, true},
		{"goto out of range", inline, viewer.GoTo{Page: 3}, 0, 0, viewer.Vec{}, false, false},
		{"goto negative", inline, viewer.GoTo{Page: -1}, 0, 0, viewer.Vec{}, false, false},
		{"enter fullscreen", inline, viewer.EnterFullscreen{}, 0, 0, viewer.Vec{}, true, true},
		{"enter fullscreen twice", full, viewer.EnterFullscreen{}, 0, 0, viewer.Vec{}, true, false},
		{"exit fullscreen resets zoom and pan", panned, viewer.ExitFullscreen{}, 0, 0, viewer.Vec{}, false, true},
		{"exit when inline", inline, viewer.ExitFullscreen{}, 0, 0, viewer.Vec{}, false, false},
		{"step zoom inline ignored", inline, viewer.StepZoom{}, 0, 0, viewer.Vec{}, false, false},
		{"step zoom keeps pan", panned, viewer.StepZoom{}, 0, 3, viewer.Vec{X: 30, Y: -15}, true, true},
		{"reset zoom", panned, viewer.ResetZoom{}, 0, 0, viewer.Vec{}, true, true},
		{"reset zoom inline ignored", inline, viewer.ResetZoom{}, 0, 0, viewer.Vec{}, false, false},
		{"swipe left inline ignored", inline, viewer.SwipeLeft{}, 0, 0, viewer.Vec{}, false, false},
		{"swipe left fullscreen", full, viewer.SwipeLeft{}, 1, 0, viewer.Vec{}, true, true},
		{"swipe left zoomed", zoomed, viewer.SwipeLeft{}, 0, 2, viewer.Vec{}, true, false},
		{"swipe right at first page", full, viewer.SwipeRight{}, 0, 0, viewer.Vec{}, true, false},
		{"key escape", zoomed, viewer.Key{Name: viewer.KeyEscape}, 0, 0, viewer.Vec{}, false, true},
		{"key arrow right fullscreen", full, viewer.Key{Name: viewer.KeyArrowRight}, 1, 0, viewer.Vec{}, true, true},
		{"key arrow right inline ignored", inline, viewer.Key{Name: viewer.KeyArrowRight}, 0, 0, viewer.Vec{}, false, false},
		{"key arrow right zoomed", zoomed, viewer.Key{Name: viewer.KeyArrowRight}, 0, 2, viewer.Vec{}, true, false},
		{"unknown key", full, viewer.Key{Name: "Enter"}, 0, 0, viewer.Vec{}, true, false},
		{"drag unzoomed ignored", full, viewer.DragStart{X: 1, Y: 1}, 0, 0, viewer.Vec{}, true, false},
		{"drag end without drag", zoomed, viewer.DragEnd{}, 0, 2, viewer.Vec{}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, fx := m.Apply(tt.from, tt.event)
			if got.Page != tt.wantPage || got.Zoom != tt.wantZoom || got.Fullscreen != tt.wantFull {
				t.Errorf("state = page %d zoom %d fullscreen %v, want page %d zoom %d fullscreen %v",
					got.Page, got.Zoom, got.Fullscreen, tt.wantPage, tt.wantZoom, tt.wantFull)
			}
			if got.Pan != tt.wantPan {
				t.Errorf("pan = %+v, want %+v", got.Pan, tt.wantPan)
			}
			if fx.Redraw != tt.wantRedraw {
				t.Errorf("Redraw = %v, want %v", fx.Redraw, tt.wantRedraw)
			}
		})
	}
}

func TestApply_StepZoomWrapResetsPan(t *testing.T) {
	t.Parallel()

	m, err := viewer.NewMachine(viewer.ZoomSteps{1, 2})
	if err != nil {
		t.Fatal(err)
	}

	s := run(m, viewer.Initial(1),
		viewer.EnterFullscreen{},
		viewer.StepZoom{},
		viewer.DragStart{X: 0, Y: 0}, viewer.DragMove{X: 5, Y: 5}, viewer.DragEnd{})
	if s.Pan != (viewer.Vec{X: 5, Y: 5}) {
		t.Fatalf("pan before wrap = %+v", s.Pan)
	}

	s = run(m, s, viewer.StepZoom{})
	if s.Zoom != 0 || s.Pan != (viewer.Vec{}) {
		t.Errorf("after wrap: zoom %d pan %+v, want 0 and zero pan", s.Zoom, s.Pan)
	}
}

func TestApply_PanAccumulatesSampleDeltas(t *testing.T) {
	t.Parallel()

	m := newMachine(t)
	s := run(m, viewer.Initial(2), viewer.EnterFullscreen{}, viewer.StepZoom{})

	s, fx := m.Apply(s, viewer.DragStart{X: 100, Y: 100})
	if !s.Dragging || fx.Frame.Transform.Animate {
		t.Fatalf("drag start: dragging %v animate %v", s.Dragging, fx.Frame.Transform.Animate)
	}

	for _, p := range []viewer.Vec{{110, 100}, {130, 90}, {125, 95}} {
		s, fx = m.Apply(s, viewer.DragMove{X: p.X, Y: p.Y})
		if fx.Frame.Transform.Animate {
			t.Error("frames during a drag must not animate")
		}
	}
	if s.Pan != (viewer.Vec{X: 25, Y: -5}) {
		t.Errorf("pan = %+v, want {25 -5}", s.Pan)
	}

	s, fx = m.Apply(s, viewer.DragEnd{})
	if s.Dragging || !fx.Frame.Transform.Animate {
		t.Errorf("drag end: dragging %v animate %v", s.Dragging, fx.Frame.Transform.Animate)
	}

	// Moves after release are not sampled; pan is retained.
	s = run(m, s, viewer.DragMove{X: 500, Y: 500})
	if s.Pan != (viewer.Vec{X: 25, Y: -5}) {
		t.Errorf("pan after release = %+v, want retained {25 -5}", s.Pan)
	}
}

func TestApply_ZoomStepAnimates(t *testing.T) {
	t.Parallel()

	m := newMachine(t)
	s := run(m, viewer.Initial(1), viewer.EnterFullscreen{})

	_, fx := m.Apply(s, viewer.StepZoom{})
	want := viewer.Transform{Scale: 1.12, Animate: true}
	if diff := cmp.Diff(want, fx.Frame.Transform); diff != "" {
		t.Errorf("transform mismatch (-want +got):\n%s", diff)
	}
	if !fx.Frame.SwipeLocked {
		t.Error("swipe should be locked once zoomed")
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	m := newMachine(t)
	s := viewer.Initial(3)
	before := s
	_, _ = m.Apply(s, viewer.Next{})
	if s != before {
		t.Error("Apply mutated its input state")
	}
}

// ---------------------------------------------------------------------------
// TestApply - Properties
// ---------------------------------------------------------------------------

var allEvents = []viewer.Event{
	viewer.Next{}, viewer.Prev{}, viewer.GoTo{Page: 1}, viewer.GoTo{Page: 7},
	viewer.EnterFullscreen{}, viewer.ExitFullscreen{},
	viewer.StepZoom{}, viewer.StepZoom{}, viewer.ResetZoom{},
	viewer.DragStart{X: 3, Y: 4}, viewer.DragMove{X: 9, Y: -2}, viewer.DragEnd{},
	viewer.SwipeLeft{}, viewer.SwipeRight{},
	viewer.Key{Name: viewer.KeyArrowLeft}, viewer.Key{Name: viewer.KeyArrowRight}, viewer.Key{Name: viewer.KeyEscape},
}

func TestApply_PropertyRandomSequences(t *testing.T) {
	t.Parallel()

	m := newMachine(t)
	rng := rand.New(rand.NewPCG(2024, 7))

	for trial := 0; trial < 300; trial++ {
		pageCount := 1 + rng.IntN(6)
		s := viewer.Initial(pageCount)

		for step := 0; step < 60; step++ {
			e := allEvents[rng.IntN(len(allEvents))]
			next, fx := m.Apply(s, e)

			if next.Page < 0 || next.Page >= pageCount {
				t.Fatalf("trial %d: page %d out of [0,%d) after %v", trial, next.Page, pageCount, e)
			}
			if next.Zoom < 0 || next.Zoom >= len(viewer.DefaultZoomSteps) {
				t.Fatalf("trial %d: zoom %d out of range after %v", trial, next.Zoom, e)
			}
			if fx.PageChanged && (next.Zoom != 0 || next.Pan != (viewer.Vec{})) {
				t.Fatalf("trial %d: page change to %d left zoom %d pan %+v", trial, next.Page, next.Zoom, next.Pan)
			}
			if !next.Fullscreen && next.Zoom != 0 {
				t.Fatalf("trial %d: zoomed while inline", trial)
			}
			if next.Zoom == 0 && next.Pan != (viewer.Vec{}) {
				t.Fatalf("trial %d: pan %+v without zoom", trial, next.Pan)
			}
			s = next
		}
	}
}

func TestApply_FullZoomCycleReturnsToZero(t *testing.T) {
	t.Parallel()

	for _, steps := range []viewer.ZoomSteps{viewer.DefaultZoomSteps, {1}, {1, 4}, {1, 1.5, 2, 3}} {
		m, err := viewer.NewMachine(steps)
		if err != nil {
			t.Fatal(err)
		}
		s := run(m, viewer.Initial(2), viewer.EnterFullscreen{})
		for i := 0; i < len(steps); i++ {
			s, _ = m.Apply(s, viewer.StepZoom{})
		}
		if s.Zoom != 0 {
			t.Errorf("steps %v: zoom = %d after %d steps, want 0", steps, s.Zoom, len(steps))
		}
	}
}

// ---------------------------------------------------------------------------
// TestFrame
// ---------------------------------------------------------------------------

func TestFrame_Controls(t *testing.T) {
	t.Parallel()

	m := newMachine(t)

	tests := []struct {
		name  string
		state viewer.State
		want  viewer.Controls
	}{
		{"first of three", viewer.Initial(3), viewer.Controls{Next: true, Expand: true, Dots: true}},
		{"middle", run(m, viewer.Initial(3), viewer.Next{}), viewer.Controls{Prev: true, Next: true, Expand: true, Dots: true}},
		{"last", run(m, viewer.Initial(3), viewer.GoTo{Page: 2}), viewer.Controls{Prev: true, Expand: true, Dots: true}},
		{"single page", viewer.Initial(1), viewer.Controls{Expand: true}},
		{"fullscreen middle", run(m, viewer.Initial(3), viewer.Next{}, viewer.EnterFullscreen{}), viewer.Controls{Prev: true, Next: true, Close: true, Dots: true}},
		{"fullscreen zoomed", run(m, viewer.Initial(3), viewer.Next{}, viewer.EnterFullscreen{}, viewer.StepZoom{}), viewer.Controls{Close: true, Dots: true}},
		{"no pages", viewer.Initial(0), viewer.Controls{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, m.Frame(tt.state).Controls); diff != "" {
				t.Errorf("controls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestState_WithPageCount(t *testing.T) {
	t.Parallel()

	m := newMachine(t)
	s := run(m, viewer.Initial(5), viewer.GoTo{Page: 4}, viewer.EnterFullscreen{}, viewer.StepZoom{})

	shrunk := s.WithPageCount(2)
	if shrunk.Page != 1 || shrunk.Zoom != 0 {
		t.Errorf("after shrink: page %d zoom %d, want page 1 zoom 0", shrunk.Page, shrunk.Zoom)
	}

	grown := s.WithPageCount(10)
	if grown.Page != 4 || grown.Zoom != 1 {
		t.Errorf("after grow: page %d zoom %d, want unchanged", grown.Page, grown.Zoom)
	}

	empty := s.WithPageCount(0)
	if empty.Available() || empty.Page != 0 || empty.Fullscreen {
		t.Errorf("after empty: %+v", empty)
	}
}
