package showroom

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float32 fields of a Node simultaneously.
// Create one via the convenience constructors (TweenRotation,
// TweenPosition, TweenEmissive) and either call Update(dt) yourself or hand
// it to Scene.Animate. If the target node is disposed, the group stops
// immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float32
	// colorDst receives float32 results for color tweens, whose fields are float64.
	colorDst *Color
	colorBuf [4]float32
	target   *Node
	Done     bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields. If the target node has been disposed, Done is set to true and no
// writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = val
		if !finished {
			allDone = false
		}
	}
	if g.colorDst != nil {
		g.colorDst.R = float64(g.colorBuf[0])
		g.colorDst.G = float64(g.colorBuf[1])
		g.colorDst.B = float64(g.colorBuf[2])
		g.colorDst.A = float64(g.colorBuf[3])
	}
	g.Done = allDone
}

// Stop ends the group where it is. Already-written values stay.
func (g *TweenGroup) Stop() {
	g.Done = true
}

// Target returns the node the group animates.
func (g *TweenGroup) Target() *Node {
	return g.target
}

// TweenRotation creates a TweenGroup that rotates node about one axis to the
// given Euler angle (radians) over duration seconds.
func TweenRotation(node *Node, axis Axis, to float32, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: node}
	g.tweens[0] = gween.New(node.Rotation[axis], to, duration, fn)
	g.fields[0] = &node.Rotation[axis]
	return g
}

// TweenPosition creates a TweenGroup that moves node to the given local
// position over duration seconds.
func TweenPosition(node *Node, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 3, target: node}
	for i := 0; i < 3; i++ {
		g.tweens[i] = gween.New(node.Position[i], to[i], duration, fn)
		g.fields[i] = &node.Position[i]
	}
	return g
}

// TweenEmissive creates a TweenGroup that fades the emissive color of a mesh
// node's material to the target color. Panics if node has no material.
func TweenEmissive(node *Node, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	if node.Material == nil {
		panic("showroom: TweenEmissive on node without material")
	}
	from := node.Material.Emissive
	g := &TweenGroup{count: 4, target: node, colorDst: &node.Material.Emissive}
	g.tweens[0] = gween.New(float32(from.R), float32(to.R), duration, fn)
	g.tweens[1] = gween.New(float32(from.G), float32(to.G), duration, fn)
	g.tweens[2] = gween.New(float32(from.B), float32(to.B), duration, fn)
	g.tweens[3] = gween.New(float32(from.A), float32(to.A), duration, fn)
	for i := 0; i < 4; i++ {
		g.fields[i] = &g.colorBuf[i]
	}
	return g
}

// animator drives a set of tween groups from Scene.Update.
type animator struct {
	groups []*TweenGroup
}

func (a *animator) add(g *TweenGroup) {
	a.groups = append(a.groups, g)
}

// update advances every group and drops the finished ones.
func (a *animator) update(dt float32) {
	kept := a.groups[:0]
	for _, g := range a.groups {
		g.Update(dt)
		if !g.Done {
			kept = append(kept, g)
		}
	}
	for i := len(kept); i < len(a.groups); i++ {
		a.groups[i] = nil
	}
	a.groups = kept
}

// stopAll ends every running group.
func (a *animator) stopAll() {
	for i, g := range a.groups {
		g.Stop()
		a.groups[i] = nil
	}
	a.groups = a.groups[:0]
}
