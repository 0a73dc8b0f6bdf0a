// Package viewer implements the paginated document viewer as an explicit
// state machine: page, discrete zoom, pan, fullscreen and swipe locking.
//
// Machine.Apply is a pure function from (State, Event) to (State, Effects)
// and knows nothing about any UI toolkit. Viewer wraps it for long-lived use:
// it serializes input in arrival order and pushes frames to a Renderer.
//
//	v, err := viewer.New(doc.PageCount(), viewer.WithRenderer(viewer.RendererFunc(draw)))
//	v.Send(viewer.EnterFullscreen{}, viewer.StepZoom{}, viewer.SwipeLeft{}) // swipe ignored: zoomed
//
// Rules worth knowing:
//
//   - Any page change resets zoom and pan; so does entering or leaving fullscreen.
//   - While fullscreen and zoomed, page turns are blocked and swipes are
//     reserved for panning (Frame.SwipeLocked).
//   - Swipe and keyboard input only act in fullscreen.
//   - Pan accumulates only while fullscreen and zoomed. Frames drawn during a
//     drag have Transform.Animate false; discrete zoom steps animate.
//   - With zero pages the frame is Unavailable and every event is a no-op.
package viewer
