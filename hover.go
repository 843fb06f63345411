package showroom

import (
	"fmt"
	"os"
)

// HoverHandler receives hover transitions. OnHoverLeave gets the last
// intersection seen while the object was hovered.
type HoverHandler interface {
	OnHoverEnter(hit Intersection)
	OnHoverLeave(hit Intersection)
}

// ClickHandler receives the nearest intersection under the pointer when a
// click lands on the target.
type ClickHandler interface {
	OnClick(hit Intersection)
}

// ClickFunc adapts a plain function to ClickHandler.
type ClickFunc func(hit Intersection)

// OnClick calls f(hit).
func (f ClickFunc) OnClick(hit Intersection) { f(hit) }

// HoverFuncs adapts a pair of functions to HoverHandler. Either may be nil.
type HoverFuncs struct {
	Enter func(hit Intersection)
	Leave func(hit Intersection)
}

func (h HoverFuncs) OnHoverEnter(hit Intersection) {
	if h.Enter != nil {
		h.Enter(hit)
	}
}

func (h HoverFuncs) OnHoverLeave(hit Intersection) {
	if h.Leave != nil {
		h.Leave(hit)
	}
}

// HoverGranularity selects what counts as "the hovered object".
type HoverGranularity uint8

const (
	// HoverMesh reports the nearest intersected mesh. Moving between meshes
	// of the same model fires leave and enter.
	HoverMesh HoverGranularity = iota
	// HoverTarget collapses every hit to the target root, so a whole model
	// produces a single enter/leave pair.
	HoverTarget
)

// HoverState is the state of an Interaction's hover machine.
type HoverState uint8

const (
	HoverIdle HoverState = iota
	HoverHovering
)

func (s HoverState) String() string {
	if s == HoverHovering {
		return "hovering"
	}
	return "idle"
}

// InteractionOptions configures Scene.NewInteraction.
type InteractionOptions struct {
	// PanelText is shown in the tooltip while hovering. Empty disables the panel.
	PanelText   string
	Hover       HoverHandler
	Click       ClickHandler
	Granularity HoverGranularity
}

// Interaction tracks the pointer against one target hierarchy. Each frame
// the scene casts a ray through the last known pointer position, updates
// the hover state, and dispatches a click if one was pressed.
type Interaction struct {
	scene       *Scene
	target      *Node
	hover       HoverHandler
	click       ClickHandler
	granularity HoverGranularity
	panel       *Panel

	raycaster    Raycaster
	hovered      *Node
	lastHit      Intersection
	pendingClick bool

	handles  []CallbackHandle
	disposed bool
}

// NewInteraction starts tracking target. target may be nil and set later
// with SetTarget, for example once a model finishes loading.
func (s *Scene) NewInteraction(target *Node, opts InteractionOptions) (*Interaction, error) {
	if s.disposed {
		return nil, fmt.Errorf("new interaction: %w", ErrDisposed)
	}
	it := &Interaction{
		scene:       s,
		target:      target,
		hover:       opts.Hover,
		click:       opts.Click,
		granularity: opts.Granularity,
		panel:       NewPanel(opts.PanelText),
	}
	// Seed the panel with the current pointer so it does not appear at the
	// origin before the first move.
	it.panel.MoveTo(s.PointerPosition())

	it.handles = append(it.handles,
		s.OnPointerMove(func(ctx PointerContext) {
			it.panel.MoveTo(ctx.X, ctx.Y)
		}),
		s.OnPointerDown(func(ctx PointerContext) {
			if ctx.Button == MouseButtonLeft {
				it.pendingClick = true
			}
		}),
	)
	s.interactions = append(s.interactions, it)
	return it, nil
}

// Target returns the tracked hierarchy.
func (it *Interaction) Target() *Node {
	return it.target
}

// SetTarget replaces the tracked hierarchy. A hovered object of the old
// target is left on the next Tick.
func (it *Interaction) SetTarget(n *Node) {
	it.target = n
}

// SetHoverHandler swaps the hover handler. nil disables hover callbacks;
// the panel still shows and hides.
func (it *Interaction) SetHoverHandler(h HoverHandler) {
	it.hover = h
}

// SetClickHandler swaps the click handler. nil disables clicks.
func (it *Interaction) SetClickHandler(h ClickHandler) {
	it.click = h
}

// Panel returns the tooltip panel.
func (it *Interaction) Panel() *Panel {
	return it.panel
}

// Hovered returns the hovered object, or nil when idle.
func (it *Interaction) Hovered() *Node {
	return it.hovered
}

// State returns the hover state.
func (it *Interaction) State() HoverState {
	if it.hovered != nil {
		return HoverHovering
	}
	return HoverIdle
}

// IsDisposed reports whether Dispose has been called.
func (it *Interaction) IsDisposed() bool {
	return it.disposed
}

// cast returns the nearest intersection under the pointer. It misses when
// the target is nil or disposed, or before the pointer has been seen.
func (it *Interaction) cast() (Intersection, bool) {
	if it.target == nil || it.target.IsDisposed() {
		return Intersection{}, false
	}
	ndc, ok := it.scene.PointerNDC()
	if !ok {
		return Intersection{}, false
	}
	it.raycaster.SetFromCamera(ndc, it.scene.camera)
	return it.raycaster.IntersectFirst(it.target)
}

// Tick recomputes the hover state. The scene calls it once per frame after
// the controls update; the pointer need not have moved, since a moving
// camera changes what lies under it.
func (it *Interaction) Tick() {
	if it.disposed || it.scene.disposed {
		return
	}
	hit, ok := it.cast()
	if !ok {
		if it.hovered != nil {
			it.leave()
			if it.disposed {
				return
			}
			it.panel.Hide()
		}
		return
	}

	node := hit.Node
	if it.granularity == HoverTarget {
		node = it.target
	}
	if node == it.hovered {
		it.lastHit = hit
		return
	}

	if it.hovered != nil {
		it.leave()
		if it.disposed {
			return
		}
	}
	it.hovered = node
	it.lastHit = hit
	it.panel.Show()
	if globalDebug {
		fmt.Fprintf(os.Stderr, "[showroom] hover enter %s at %.3f\n", hit.Node, hit.Distance)
	}
	if it.hover != nil {
		it.hover.OnHoverEnter(hit)
	}
	it.emit(EventHoverEnter, hit)
}

// leave returns the machine to idle, firing the leave callback once.
func (it *Interaction) leave() {
	prev := it.lastHit
	it.hovered = nil
	it.lastHit = Intersection{}
	if globalDebug {
		fmt.Fprintf(os.Stderr, "[showroom] hover leave %s\n", prev.Node)
	}
	if it.hover != nil {
		it.hover.OnHoverLeave(prev)
	}
	it.emit(EventHoverLeave, prev)
}

// processClick dispatches a click pressed since the last frame.
func (it *Interaction) processClick() {
	if !it.pendingClick {
		return
	}
	it.pendingClick = false
	it.TriggerClick()
}

// TriggerClick casts the ray through the current pointer position and, if
// it hits the target, calls the click handler with the nearest
// intersection. It reports whether the handler ran.
func (it *Interaction) TriggerClick() bool {
	if it.disposed || it.scene.disposed || it.click == nil {
		return false
	}
	hit, ok := it.cast()
	if !ok {
		return false
	}
	if globalDebug {
		fmt.Fprintf(os.Stderr, "[showroom] click %s at %.3f\n", hit.Node, hit.Distance)
	}
	it.click.OnClick(hit)
	it.emit(EventClick, hit)
	return true
}

func (it *Interaction) emit(typ EventType, hit Intersection) {
	if hit.Node == nil {
		return
	}
	x, y := it.scene.PointerPosition()
	it.scene.emitInteractionEvent(InteractionEvent{
		Type:     typ,
		EntityID: hit.Node.EntityID,
		ScreenX:  x,
		ScreenY:  y,
		Button:   MouseButtonLeft,
		Point:    hit.Point,
		Distance: hit.Distance,
	})
}

// Dispose stops tracking, removes the pointer handlers and the panel. No
// callback fires afterwards. Calling Dispose more than once is safe.
func (it *Interaction) Dispose() {
	if it.disposed {
		return
	}
	it.disposed = true
	for _, h := range it.handles {
		h.Remove()
	}
	it.handles = nil
	it.panel.dispose()
	it.hovered = nil
	it.pendingClick = false
}
