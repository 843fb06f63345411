package showroom

import (
	"fmt"
	"time"

	"github.com/tanema/gween/ease"
)

// Colors used by the stock car behaviors.
var (
	HighlightColor = ColorFromHex(0x666666)
	FlashColor     = ColorFromHex(0x22aa22)
)

// FlashDuration is how long a Flash holds its color before reverting.
const FlashDuration = 150 * time.Millisecond

// eachMaterial calls fn once per distinct material under root.
func eachMaterial(root *Node, fn func(*Material)) {
	if root == nil {
		return
	}
	seen := make(map[*Material]struct{})
	root.Traverse(func(n *Node) bool {
		if n.IsMesh() && n.Material != nil {
			if _, ok := seen[n.Material]; !ok {
				seen[n.Material] = struct{}{}
				fn(n.Material)
			}
		}
		return true
	})
}

// --- Highlighter ---

// Highlighter tints every mesh of a target with an emissive color while it
// is hovered and puts back the emissive each material had before.
type Highlighter struct {
	Target *Node
	Tint   Color

	base map[*Material]Color
}

// NewHighlighter records the current emissive of every material under
// target as the value to restore on leave.
func NewHighlighter(target *Node, tint Color) *Highlighter {
	h := &Highlighter{Target: target, Tint: tint, base: make(map[*Material]Color)}
	eachMaterial(target, func(m *Material) {
		h.base[m] = m.Emissive
	})
	return h
}

func (h *Highlighter) OnHoverEnter(Intersection) {
	eachMaterial(h.Target, func(m *Material) {
		// Materials added after construction are recorded on first sight.
		if _, ok := h.base[m]; !ok {
			h.base[m] = m.Emissive
		}
		m.Emissive = h.Tint
	})
}

func (h *Highlighter) OnHoverLeave(Intersection) {
	eachMaterial(h.Target, func(m *Material) {
		if base, ok := h.base[m]; ok {
			m.Emissive = base
		}
	})
}

// --- Flash ---

// Flash is a click behavior that sets a flash emissive on every mesh of a
// target and reverts it after Duration. A click during a pending flash
// restarts the timer instead of stacking a second revert. Materials whose
// emissive changed away from the flash color in the meantime (a hover
// leave, say) are left alone by the revert.
type Flash struct {
	Target   *Node
	Color    Color
	Duration time.Duration

	scene   *Scene
	key     string
	flashed []*Material
}

// NewFlash creates a flash behavior whose revert runs on scene's scheduler.
func NewFlash(scene *Scene, target *Node, c Color) *Flash {
	f := &Flash{
		Target:   target,
		Color:    c,
		Duration: FlashDuration,
		scene:    scene,
	}
	f.key = fmt.Sprintf("flash/%p", f)
	return f
}

func (f *Flash) OnClick(Intersection) {
	sched := f.scene.Scheduler()
	if !sched.Pending(f.key) {
		// A revert cancelled from outside leaves its holds behind.
		for _, m := range f.flashed {
			f.scene.releaseEmissive(m)
		}
		f.flashed = f.flashed[:0]
		eachMaterial(f.Target, func(m *Material) {
			f.scene.holdEmissive(m)
			f.flashed = append(f.flashed, m)
		})
	}
	eachMaterial(f.Target, func(m *Material) {
		m.Emissive = f.Color
	})
	sched.After(f.key, f.Duration, f.revert)
}

// Pending reports whether a revert is scheduled.
func (f *Flash) Pending() bool {
	return f.scene.Scheduler().Pending(f.key)
}

func (f *Flash) revert() {
	for _, m := range f.flashed {
		base := f.scene.releaseEmissive(m)
		if m.Emissive == f.Color {
			m.Emissive = base
		}
	}
	f.flashed = nil
}

// emissiveHold is the emissive a material had before the first of the
// flashes currently pending on it.
type emissiveHold struct {
	base Color
	refs int
}

// holdEmissive records m's emissive unless another flash already holds it,
// so overlapping flashes all revert to the same pre-flash color.
func (s *Scene) holdEmissive(m *Material) {
	if h, ok := s.flashBase[m]; ok {
		h.refs++
		return
	}
	if s.flashBase == nil {
		s.flashBase = make(map[*Material]*emissiveHold)
	}
	s.flashBase[m] = &emissiveHold{base: m.Emissive, refs: 1}
}

// releaseEmissive drops one hold on m and returns the pre-flash emissive.
func (s *Scene) releaseEmissive(m *Material) Color {
	h, ok := s.flashBase[m]
	if !ok {
		return m.Emissive
	}
	if h.refs--; h.refs == 0 {
		delete(s.flashBase, m)
	}
	return h.base
}

// --- DoorToggle ---

// DoorToggle is a click behavior that swings named parts about an axis.
// Closed and Open are angles in radians relative to each part's rotation
// when the toggle was created. Each click flips the state; a click while
// the doors are still moving turns them around from where they are.
type DoorToggle struct {
	Axis     Axis
	Closed   float32
	Open     float32
	Duration float32 // seconds
	Ease     ease.TweenFunc

	scene  *Scene
	parts  []*Node
	rest   []float32
	open   bool
	tweens []*TweenGroup
}

// NewDoorToggle looks up each named part under target. It returns an error
// wrapping ErrPartNotFound for the first name that is missing.
func NewDoorToggle(scene *Scene, target *Node, axis Axis, closed, open, duration float32, names ...string) (*DoorToggle, error) {
	if target == nil {
		return nil, fmt.Errorf("door toggle: %w", ErrPartNotFound)
	}
	d := &DoorToggle{
		Axis:     axis,
		Closed:   closed,
		Open:     open,
		Duration: duration,
		Ease:     ease.OutCubic,
		scene:    scene,
	}
	for _, name := range names {
		p, err := target.Part(name)
		if err != nil {
			return nil, fmt.Errorf("door toggle: %w", err)
		}
		d.parts = append(d.parts, p)
		d.rest = append(d.rest, p.Rotation[axis])
	}
	return d, nil
}

// IsOpen reports the state the doors are in or moving toward.
func (d *DoorToggle) IsOpen() bool {
	return d.open
}

// Parts returns the parts being animated.
func (d *DoorToggle) Parts() []*Node {
	return d.parts
}

func (d *DoorToggle) OnClick(Intersection) {
	d.open = !d.open
	angle := d.Closed
	if d.open {
		angle = d.Open
	}
	for _, g := range d.tweens {
		g.Stop()
	}
	d.tweens = d.tweens[:0]
	for i, p := range d.parts {
		g := TweenRotation(p, d.Axis, d.rest[i]+angle, d.Duration, d.Ease)
		d.tweens = append(d.tweens, g)
		d.scene.Animate(g)
	}
}

// --- Composition ---

// ClickHandlers fans a click out to several handlers in order.
type ClickHandlers []ClickHandler

func (hs ClickHandlers) OnClick(hit Intersection) {
	for _, h := range hs {
		if h != nil {
			h.OnClick(hit)
		}
	}
}
