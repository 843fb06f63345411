package showroom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Geometry is an indexed triangle list in local space. Every three entries
// of Indices form one triangle.
type Geometry struct {
	Positions []mgl32.Vec3
	Indices   []uint32

	boundsMin, boundsMax mgl32.Vec3
	boundsDirty          bool
	disposed             bool
}

// NewGeometry creates a geometry from positions and triangle indices.
// A nil index list means the positions are already a triangle soup.
func NewGeometry(positions []mgl32.Vec3, indices []uint32) *Geometry {
	if indices == nil {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	return &Geometry{Positions: positions, Indices: indices, boundsDirty: true}
}

// NewPlaneGeometry creates a width x height rectangle in the local XY plane,
// centered on the origin and facing +Z.
func NewPlaneGeometry(width, height float32) *Geometry {
	hw, hh := width/2, height/2
	return NewGeometry(
		[]mgl32.Vec3{{-hw, -hh, 0}, {hw, -hh, 0}, {hw, hh, 0}, {-hw, hh, 0}},
		[]uint32{0, 1, 2, 0, 2, 3},
	)
}

// NewBoxGeometry creates an axis-aligned box centered on the origin.
func NewBoxGeometry(width, height, depth float32) *Geometry {
	x, y, z := width/2, height/2, depth/2
	pos := []mgl32.Vec3{
		{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z}, // front
		{-x, -y, -z}, {x, -y, -z}, {x, y, -z}, {-x, y, -z}, // back
	}
	idx := []uint32{
		0, 1, 2, 0, 2, 3, // +Z
		5, 4, 7, 5, 7, 6, // -Z
		1, 5, 6, 1, 6, 2, // +X
		4, 0, 3, 4, 3, 7, // -X
		3, 2, 6, 3, 6, 7, // +Y
		4, 5, 1, 4, 1, 0, // -Y
	}
	return NewGeometry(pos, idx)
}

// TriangleCount returns the number of triangles.
func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// Triangle returns the local-space vertices of triangle i.
func (g *Geometry) Triangle(i int) (a, b, c mgl32.Vec3) {
	return g.Positions[g.Indices[3*i]], g.Positions[g.Indices[3*i+1]], g.Positions[g.Indices[3*i+2]]
}

// Bounds returns the local-space axis-aligned bounding box. The result is
// cached until MarkDirty is called.
func (g *Geometry) Bounds() (lo, hi mgl32.Vec3) {
	if g.boundsDirty {
		g.recomputeBounds()
	}
	return g.boundsMin, g.boundsMax
}

// MarkDirty invalidates cached bounds after Positions was edited in place.
func (g *Geometry) MarkDirty() {
	g.boundsDirty = true
}

func (g *Geometry) recomputeBounds() {
	g.boundsDirty = false
	if len(g.Positions) == 0 {
		g.boundsMin, g.boundsMax = mgl32.Vec3{}, mgl32.Vec3{}
		return
	}
	lo := mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	hi := mgl32.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
	for _, p := range g.Positions {
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], p[k])
			hi[k] = max(hi[k], p[k])
		}
	}
	g.boundsMin, g.boundsMax = lo, hi
}

// Dispose releases the vertex data. Disposed geometry has no triangles.
func (g *Geometry) Dispose() {
	g.disposed = true
	g.Positions = nil
	g.Indices = nil
	g.boundsDirty = true
}

// IsDisposed reports whether Dispose has been called.
func (g *Geometry) IsDisposed() bool {
	return g.disposed
}

// Material describes how a mesh is shaded. Emissive is added after lighting,
// which is what hover and click highlights drive.
type Material struct {
	Name      string
	Color     Color
	Emissive  Color
	Roughness float64
	Metalness float64
	Opacity   float64

	disposed bool
}

// NewMaterial creates a rough, opaque material of the given base color.
func NewMaterial(c Color) *Material {
	return &Material{
		Color:     c,
		Emissive:  ColorBlack,
		Roughness: 1,
		Opacity:   1,
	}
}

// Dispose marks the material as released.
func (m *Material) Dispose() {
	m.disposed = true
}

// IsDisposed reports whether Dispose has been called.
func (m *Material) IsDisposed() bool {
	return m.disposed
}
