package showroom

import "testing"

func TestInjectClick(t *testing.T) {
	s := NewScene()

	var events []string
	s.OnPointerDown(func(ctx PointerContext) { events = append(events, "down") })
	s.OnPointerUp(func(ctx PointerContext) { events = append(events, "up") })

	s.InjectClick(50, 50)
	if len(s.injectQueue) != 2 {
		t.Fatalf("expected 2 queued events, got %d", len(s.injectQueue))
	}

	// Frame 1: press
	s.processInput()
	if len(s.injectQueue) != 1 {
		t.Fatalf("expected 1 remaining event after frame 1, got %d", len(s.injectQueue))
	}
	if len(events) != 1 || events[0] != "down" {
		t.Errorf("after press: %v, want [down]", events)
	}

	// Frame 2: release
	s.processInput()
	if len(s.injectQueue) != 0 {
		t.Fatalf("expected 0 remaining events after frame 2, got %d", len(s.injectQueue))
	}
	if len(events) != 2 || events[1] != "up" {
		t.Errorf("after release: %v, want [down up]", events)
	}
}

func TestInjectDragOrbitsCamera(t *testing.T) {
	s := newHoverScene()
	start := s.Camera().Position

	var moves int
	s.OnPointerMove(func(ctx PointerContext) { moves++ })

	// press, 3 moves, release
	s.InjectDrag(400, 300, 200, 300, 5)
	if len(s.injectQueue) != 5 {
		t.Fatalf("expected 5 queued events, got %d", len(s.injectQueue))
	}
	for i := 0; i < 5; i++ {
		s.update(1.0 / 60)
	}

	if moves != 5 {
		t.Errorf("moves = %d, want 5 (first sighting plus four position changes)", moves)
	}
	end := s.Camera().Position
	if approxEqual(float64(end[0]), float64(start[0]), 1e-3) {
		t.Errorf("camera did not orbit: %v -> %v", start, end)
	}
	if !approxEqual(float64(end.Len()), float64(start.Len()), 1e-3) {
		t.Errorf("orbit changed distance: %v -> %v", start.Len(), end.Len())
	}
}

func TestInjectDrag_MinFrames(t *testing.T) {
	s := NewScene()
	s.InjectDrag(0, 0, 100, 100, 1) // should clamp to 2
	if len(s.injectQueue) != 2 {
		t.Fatalf("expected 2 queued events (clamped), got %d", len(s.injectQueue))
	}
}

func TestInjectQueueOrder(t *testing.T) {
	s := NewScene()

	s.InjectPress(10, 20)
	s.InjectMove(30, 40)
	s.InjectRelease(50, 60)
	s.InjectHover(70, 80)

	if len(s.injectQueue) != 4 {
		t.Fatalf("expected 4 events, got %d", len(s.injectQueue))
	}
	if !s.injectQueue[0].pressed || s.injectQueue[0].screenX != 10 {
		t.Error("first event should be press at (10,20)")
	}
	if !s.injectQueue[1].pressed || s.injectQueue[1].screenX != 30 {
		t.Error("second event should be move at (30,40)")
	}
	if s.injectQueue[2].pressed || s.injectQueue[2].screenX != 50 {
		t.Error("third event should be release at (50,60)")
	}
	if s.injectQueue[3].pressed || s.injectQueue[3].screenX != 70 {
		t.Error("fourth event should be hover at (70,80)")
	}
	if s.PendingInjected() != 4 {
		t.Errorf("PendingInjected = %d, want 4", s.PendingInjected())
	}
}

func TestProcessInjectedInput(t *testing.T) {
	s := NewScene()

	var downFired bool
	s.OnPointerDown(func(ctx PointerContext) {
		downFired = true
		if ctx.X != 400 || ctx.Y != 300 {
			t.Errorf("expected (400,300), got (%v,%v)", ctx.X, ctx.Y)
		}
		if !approxEqual(float64(ctx.NDC[0]), 0, epsilon) || !approxEqual(float64(ctx.NDC[1]), 0, epsilon) {
			t.Errorf("expected NDC (0,0), got %v", ctx.NDC)
		}
	})

	s.InjectPress(400, 300)
	if !s.processInjectedInput() {
		t.Error("expected processInjectedInput to consume an event")
	}
	if !downFired {
		t.Error("pointer down should have fired")
	}
	if len(s.injectQueue) != 0 {
		t.Errorf("queue should be empty, got %d", len(s.injectQueue))
	}
}

func TestProcessInjectedInput_EmptyQueue(t *testing.T) {
	s := NewScene()
	if s.processInjectedInput() {
		t.Error("should not consume when queue is empty")
	}
}
