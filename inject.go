package showroom

// syntheticPointerEvent is one queued pointer sample in screen pixels.
type syntheticPointerEvent struct {
	screenX, screenY float64
	pressed          bool
	button           MouseButton
}

func (s *Scene) inject(x, y float64, pressed bool) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		pressed: pressed,
		button:  MouseButtonLeft,
	})
}

// InjectHover queues a pointer move with no button held. Once consumed, the
// pointer NDC is updated, so the next hover tick of every interaction casts
// its ray through (x, y) and the tooltip panels follow.
func (s *Scene) InjectHover(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{screenX: x, screenY: y})
}

// InjectPress queues a left-button press. Interactions mark a pending click
// that resolves against the hover state after that frame's tick.
func (s *Scene) InjectPress(x, y float64) {
	s.inject(x, y, true)
}

// InjectMove queues a move with the left button held, which orbits the
// camera by the distance from the previous sample.
func (s *Scene) InjectMove(x, y float64) {
	s.inject(x, y, true)
}

// InjectRelease queues a left-button release.
func (s *Scene) InjectRelease(x, y float64) {
	s.inject(x, y, false)
}

// InjectClick queues a press and a release at (x, y), one frame each.
func (s *Scene) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues an orbit drag spread over frames frames (at least 2):
// a press at the start, evenly spaced held moves, and a release at the end.
// The press also counts as a click on whatever lies under the start point.
func (s *Scene) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	frames = max(frames, 2)
	s.InjectPress(fromX, fromY)
	moves := frames - 2
	for i := 1; i <= moves; i++ {
		t := float64(i) / float64(moves+1)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectRelease(toX, toY)
}

// PendingInjected reports how many synthetic events are still queued.
func (s *Scene) PendingInjected() int {
	return len(s.injectQueue)
}

// processInjectedInput consumes one queued event, if any, in place of the
// physical mouse for this frame.
func (s *Scene) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	s.injectQueue = s.injectQueue[1:]
	if len(s.injectQueue) == 0 {
		s.injectQueue = nil
	}
	s.processPointer(evt.screenX, evt.screenY, evt.pressed, evt.button)
	return true
}
