package showroom

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// --- Pointer state ---

// pointerState is the mouse as last seen by processInput. ndc is only
// meaningful once seen is true.
type pointerState struct {
	ndc    mgl32.Vec2
	x, y   float64
	down   bool
	button MouseButton // button captured at press time
	seen   bool
}

// PointerContext describes a pointer event delivered to scene-level handlers.
type PointerContext struct {
	X, Y   float64    // screen pixels
	NDC    mgl32.Vec2 // normalized device coordinates
	Button MouseButton
	Down   bool // button held after this event
}

// ResizeContext describes a change of render surface size.
type ResizeContext struct {
	Width, Height float64
}

// --- Handler registry ---

type pointerHandler struct {
	id uint32
	fn func(PointerContext)
}

type resizeHandler struct {
	id uint32
	fn func(ResizeContext)
}

type handlerRegistry struct {
	pointerDown []pointerHandler
	pointerUp   []pointerHandler
	pointerMove []pointerHandler
	resize      []resizeHandler
	nextID      uint32
}

// len reports the number of registered handlers of every kind.
func (r *handlerRegistry) len() int {
	return len(r.pointerDown) + len(r.pointerUp) + len(r.pointerMove) + len(r.resize)
}

func (r *handlerRegistry) clear() {
	r.pointerDown = nil
	r.pointerUp = nil
	r.pointerMove = nil
	r.resize = nil
}

// CallbackHandle allows removing a registered scene-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires. Removing twice,
// or removing a zero handle, does nothing.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventPointerDown:
		h.reg.pointerDown = removeHandler(h.reg.pointerDown, h.id)
	case EventPointerUp:
		h.reg.pointerUp = removeHandler(h.reg.pointerUp, h.id)
	case EventPointerMove:
		h.reg.pointerMove = removeHandler(h.reg.pointerMove, h.id)
	case EventResize:
		h.reg.resize = removeResizeHandler(h.reg.resize, h.id)
	}
}

// removeHandler returns s without id. The result is a new slice so a
// dispatch loop holding the old one is not disturbed.
func removeHandler(s []pointerHandler, id uint32) []pointerHandler {
	return slices.DeleteFunc(slices.Clone(s), func(h pointerHandler) bool { return h.id == id })
}

func removeResizeHandler(s []resizeHandler, id uint32) []resizeHandler {
	return slices.DeleteFunc(slices.Clone(s), func(h resizeHandler) bool { return h.id == id })
}

// pointerLive reports whether handler id of the given kind is registered.
func (r *handlerRegistry) pointerLive(typ EventType, id uint32) bool {
	var hs []pointerHandler
	switch typ {
	case EventPointerDown:
		hs = r.pointerDown
	case EventPointerUp:
		hs = r.pointerUp
	case EventPointerMove:
		hs = r.pointerMove
	}
	return slices.ContainsFunc(hs, func(h pointerHandler) bool { return h.id == id })
}

// --- Scene-level event registration ---

// OnPointerDown registers a scene-level callback for pointer down events.
// Returns a zero handle on a disposed scene.
func (s *Scene) OnPointerDown(fn func(PointerContext)) CallbackHandle {
	if s.disposed {
		return CallbackHandle{}
	}
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.pointerDown = append(s.handlers.pointerDown, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventPointerDown}
}

// OnPointerUp registers a scene-level callback for pointer up events.
func (s *Scene) OnPointerUp(fn func(PointerContext)) CallbackHandle {
	if s.disposed {
		return CallbackHandle{}
	}
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.pointerUp = append(s.handlers.pointerUp, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventPointerUp}
}

// OnPointerMove registers a scene-level callback for pointer move events.
// It fires whether or not a button is held.
func (s *Scene) OnPointerMove(fn func(PointerContext)) CallbackHandle {
	if s.disposed {
		return CallbackHandle{}
	}
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.pointerMove = append(s.handlers.pointerMove, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventPointerMove}
}

// OnResize registers a callback fired when the render surface changes size.
func (s *Scene) OnResize(fn func(ResizeContext)) CallbackHandle {
	if s.disposed {
		return CallbackHandle{}
	}
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.resize = append(s.handlers.resize, resizeHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventResize}
}

// PointerNDC returns the last known pointer position in normalized device
// coordinates. ok is false until the pointer has been seen.
func (s *Scene) PointerNDC() (ndc mgl32.Vec2, ok bool) {
	return s.pointer.ndc, s.pointer.seen
}

// PointerPosition returns the last known pointer position in screen pixels.
func (s *Scene) PointerPosition() (x, y float64) {
	return s.pointer.x, s.pointer.y
}

// --- Input processing ---

// processInput is called from Scene.Update to handle mouse input. Injected
// events take priority; the physical mouse is only read when the scene is
// driven by Run.
func (s *Scene) processInput() {
	if s.processInjectedInput() {
		return
	}
	if !s.hostInput {
		return
	}

	mx, my := ebiten.CursorPosition()

	// If the pointer is already down, keep the stored button to avoid
	// changing it mid-interaction.
	var pressed bool
	var button MouseButton
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	if left || right || middle {
		pressed = true
		if left {
			button = MouseButtonLeft
		} else if right {
			button = MouseButtonRight
		} else {
			button = MouseButtonMiddle
		}
	}
	s.processPointer(float64(mx), float64(my), pressed, button)

	if _, wy := ebiten.Wheel(); wy != 0 {
		s.controls.Zoom(wy)
	}
}

// processPointer runs the pointer state machine for the mouse.
func (s *Scene) processPointer(sx, sy float64, pressed bool, button MouseButton) {
	ps := &s.pointer
	first := !ps.seen
	moved := first || sx != ps.x || sy != ps.y
	dx, dy := sx-ps.x, sy-ps.y

	ps.x, ps.y = sx, sy
	ps.ndc = s.camera.ScreenToNDC(sx, sy)
	ps.seen = true

	if moved {
		// Left-button drags orbit the camera.
		if ps.down && !first && ps.button == MouseButtonLeft {
			s.controls.Rotate(dx, dy)
		}
		s.firePointer(s.handlers.pointerMove, EventPointerMove, ps.button, pressed)
	}

	if pressed && !ps.down {
		ps.down = true
		ps.button = button
		s.firePointer(s.handlers.pointerDown, EventPointerDown, button, true)
	} else if !pressed && ps.down {
		ps.down = false
		s.firePointer(s.handlers.pointerUp, EventPointerUp, ps.button, false)
	}
}

// --- Event dispatch ---

func (s *Scene) firePointer(handlers []pointerHandler, typ EventType, button MouseButton, down bool) {
	ctx := PointerContext{
		X:      s.pointer.x,
		Y:      s.pointer.y,
		NDC:    s.pointer.ndc,
		Button: button,
		Down:   down,
	}
	// A handler may remove handlers or dispose the scene while we iterate;
	// handlers is a snapshot and removed entries are skipped.
	for _, h := range handlers {
		if s.disposed {
			return
		}
		if !s.handlers.pointerLive(typ, h.id) {
			continue
		}
		h.fn(ctx)
	}
	if typ != EventPointerMove {
		s.emitInteractionEvent(InteractionEvent{
			Type:    typ,
			ScreenX: ctx.X,
			ScreenY: ctx.Y,
			Button:  button,
		})
	}
}

func (s *Scene) fireResize(width, height float64) {
	ctx := ResizeContext{Width: width, Height: height}
	for _, h := range s.handlers.resize {
		if s.disposed {
			return
		}
		h.fn(ctx)
	}
	s.emitInteractionEvent(InteractionEvent{Type: EventResize, ScreenX: width, ScreenY: height})
}

// --- ECS bridge ---

// emitInteractionEvent forwards e to the entity store. Pointer and resize
// events are global and always forwarded; hover and click events only for
// nodes carrying an EntityID.
func (s *Scene) emitInteractionEvent(e InteractionEvent) {
	if s.store == nil {
		return
	}
	switch e.Type {
	case EventHoverEnter, EventHoverLeave, EventClick:
		if e.EntityID == 0 {
			return
		}
	}
	s.store.EmitEvent(e)
}
