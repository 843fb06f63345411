package showroom

import (
	"cmp"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half-line starting at Origin. Direction is expected to be
// normalized when distances are compared across spaces.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point on the ray at parameter t.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Transform returns the ray mapped through m. The direction is not
// renormalized, so parameters along the result stay comparable to the
// original ray.
func (r Ray) Transform(m mgl32.Mat4) Ray {
	o := m.Mul4x1(r.Origin.Vec4(1))
	d := m.Mul4x1(r.Direction.Vec4(0))
	return Ray{Origin: o.Vec3(), Direction: d.Vec3()}
}

// IntersectTriangle tests the ray against triangle (a, b, c) from both sides
// using the Möller–Trumbore algorithm. It returns the ray parameter of the
// hit.
func (r Ray) IntersectTriangle(a, b, c mgl32.Vec3) (t float32, ok bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if det == 0 {
		return 0, false // parallel or degenerate
	}
	inv := 1 / det
	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t = e2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IntersectsBox reports whether the ray passes through the axis-aligned box
// [lo, hi] using the slab method.
func (r Ray) IntersectsBox(lo, hi mgl32.Vec3) bool {
	tmin := float32(0)
	tmax := float32(math.MaxFloat32)
	for k := 0; k < 3; k++ {
		d := r.Direction[k]
		o := r.Origin[k]
		if d == 0 {
			if o < lo[k] || o > hi[k] {
				return false
			}
			continue
		}
		t1 := (lo[k] - o) / d
		t2 := (hi[k] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
		if tmin > tmax {
			return false
		}
	}
	return true
}

// Intersection is a single ray hit on a mesh.
type Intersection struct {
	Node     *Node
	Distance float32    // world-space distance from the ray origin
	Point    mgl32.Vec3 // world-space hit point
	Face     int        // triangle index within Node.Geometry
}

// Raycaster casts rays into a node hierarchy. The zero value casts from the
// origin with no distance limit; use SetFromCamera for pointer picking.
type Raycaster struct {
	Ray Ray
	// Near and Far bound accepted hit distances. Far == 0 means unbounded.
	Near, Far float32

	hits []Intersection
}

// SetFromCamera aims the ray from the camera through a point given in
// normalized device coordinates.
func (rc *Raycaster) SetFromCamera(ndc mgl32.Vec2, cam *Camera) {
	near := cam.Unproject(mgl32.Vec3{ndc[0], ndc[1], -1})
	far := cam.Unproject(mgl32.Vec3{ndc[0], ndc[1], 1})
	rc.Ray = Ray{Origin: cam.Position, Direction: far.Sub(near).Normalize()}
	rc.Near = 0
	rc.Far = cam.Far
}

// IntersectObject returns every hit on root (and its descendants when
// recursive), nearest first. Invisible subtrees and disposed nodes are
// skipped. The returned slice is reused by the next call.
func (rc *Raycaster) IntersectObject(root *Node, recursive bool) []Intersection {
	rc.hits = rc.hits[:0]
	if root == nil || root.IsDisposed() {
		return rc.hits
	}
	var parent mgl32.Mat4
	if root.Parent != nil {
		parent = root.Parent.WorldMatrix()
	} else {
		parent = mgl32.Ident4()
	}
	rc.intersectNode(root, parent, recursive)
	slices.SortStableFunc(rc.hits, func(a, b Intersection) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	return rc.hits
}

// IntersectFirst returns the nearest hit on root's hierarchy.
func (rc *Raycaster) IntersectFirst(root *Node) (Intersection, bool) {
	hits := rc.IntersectObject(root, true)
	if len(hits) == 0 {
		return Intersection{}, false
	}
	return hits[0], true
}

func (rc *Raycaster) intersectNode(n *Node, parent mgl32.Mat4, recursive bool) {
	if !n.Visible || n.disposed {
		return
	}
	world := parent.Mul4(n.LocalMatrix())
	if n.Geometry != nil {
		rc.intersectMesh(n, world)
	}
	if !recursive {
		return
	}
	for _, child := range n.children {
		rc.intersectNode(child, world, true)
	}
}

func (rc *Raycaster) intersectMesh(n *Node, world mgl32.Mat4) {
	g := n.Geometry
	if g.TriangleCount() == 0 {
		return
	}
	if world.Det() == 0 {
		return // collapsed scale; nothing to hit
	}
	local := rc.Ray.Transform(world.Inv())
	lo, hi := g.Bounds()
	if !local.IntersectsBox(lo, hi) {
		return
	}
	for i := 0; i < g.TriangleCount(); i++ {
		a, b, c := g.Triangle(i)
		t, ok := local.IntersectTriangle(a, b, c)
		if !ok {
			continue
		}
		point := world.Mul4x1(local.At(t).Vec4(1)).Vec3()
		dist := point.Sub(rc.Ray.Origin).Len()
		if dist < rc.Near || (rc.Far > 0 && dist > rc.Far) {
			continue
		}
		rc.hits = append(rc.hits, Intersection{Node: n, Distance: dist, Point: point, Face: i})
	}
}
