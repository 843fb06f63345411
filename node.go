package showroom

import (
	"fmt"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

// nodeIDCounter is atomic because model loading builds nodes off the
// update goroutine.
var nodeIDCounter atomic.Uint32

func nextNodeID() uint32 {
	return nodeIDCounter.Add(1)
}

// Node is the scene graph element. Groups have no Geometry; meshes carry a
// Geometry and a Material. A single flat struct is used for both to keep
// traversal free of interface dispatch.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local). The local matrix is
	// Translate(Position) * Orientation * Rx * Ry * Rz * Scale(Scale),
	// where Rotation holds the Euler angles in radians. Orientation comes
	// from loaded assets; Rotation is what animations drive.
	Position    mgl32.Vec3
	Orientation mgl32.Quat
	Rotation    mgl32.Vec3
	Scale       mgl32.Vec3

	Visible bool

	// Mesh fields (nil for groups)
	Geometry *Geometry
	Material *Material

	// Metadata
	UserData any
	EntityID uint32

	disposed bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.Orientation = mgl32.QuatIdent()
	n.Scale = mgl32.Vec3{1, 1, 1}
	n.Visible = true
}

// NewGroup creates a node with no visual representation.
func NewGroup(name string) *Node {
	n := &Node{Name: name}
	nodeDefaults(n)
	return n
}

// NewMesh creates a renderable node. A nil material gets a white default.
func NewMesh(name string, geom *Geometry, mat *Material) *Node {
	if mat == nil {
		mat = NewMaterial(ColorWhite)
	}
	n := &Node{Name: name, Geometry: geom, Material: mat}
	nodeDefaults(n)
	return n
}

// IsMesh reports whether the node carries geometry.
func (n *Node) IsMesh() bool {
	return n.Geometry != nil
}

// String returns the node's name and ID, for diagnostics.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s#%d", n.Name, n.ID)
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("showroom: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("showroom: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	if globalDebug {
		debugCheckTreeDepth(child)
	}
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("showroom: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// Traverse calls fn for n and every descendant in depth-first order.
// Returning false from fn skips that node's subtree.
func (n *Node) Traverse(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.children {
		child.Traverse(fn)
	}
}

// Meshes returns every mesh node in the subtree rooted at n.
func (n *Node) Meshes() []*Node {
	var out []*Node
	n.Traverse(func(c *Node) bool {
		if c.IsMesh() {
			out = append(out, c)
		}
		return true
	})
	return out
}

// FindByName returns the first node in the subtree (n included) whose Name
// matches, searching depth-first.
func (n *Node) FindByName(name string) (*Node, bool) {
	var found *Node
	n.Traverse(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found, found != nil
}

// Part is FindByName with an error: the returned error wraps ErrPartNotFound.
func (n *Node) Part(name string) (*Node, error) {
	p, ok := n.FindByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q under %q", ErrPartNotFound, name, n.Name)
	}
	return p, nil
}

// --- Transforms ---

// LocalMatrix returns the node's local transform.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	m := mgl32.Translate3D(n.Position[0], n.Position[1], n.Position[2])
	m = m.Mul4(n.Orientation.Mat4())
	if n.Rotation[0] != 0 {
		m = m.Mul4(mgl32.HomogRotate3DX(n.Rotation[0]))
	}
	if n.Rotation[1] != 0 {
		m = m.Mul4(mgl32.HomogRotate3DY(n.Rotation[1]))
	}
	if n.Rotation[2] != 0 {
		m = m.Mul4(mgl32.HomogRotate3DZ(n.Rotation[2]))
	}
	return m.Mul4(mgl32.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2]))
}

// WorldMatrix returns the node's transform composed with every ancestor's.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.LocalMatrix()
	for p := n.Parent; p != nil; p = p.Parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// WorldVisible reports whether n and all its ancestors are visible.
func (n *Node) WorldVisible() bool {
	for p := n; p != nil; p = p.Parent {
		if !p.Visible {
			return false
		}
	}
	return true
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed, releases
// geometry and material resources, and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	if n.Geometry != nil {
		n.Geometry.Dispose()
	}
	if n.Material != nil {
		n.Material.Dispose()
	}
	n.UserData = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
