package showroom

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"golang.org/x/sync/errgroup"
)

var (
	errNoPositions = errors.New("primitive has no POSITION attribute")
	errBadIndex    = errors.New("index out of range")
	errNodeCycle   = errors.New("node hierarchy contains a cycle")
)

// LoadModel reads a .glb or .gltf file and builds a node tree from its
// default scene. Node names are kept so parts can be found with Part.
func LoadModel(ctx context.Context, path string) (*Node, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	root, err := ModelFromDocument(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	if root.Name == "" {
		root.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return root, nil
}

// decodedPrim is one triangle primitive of a glTF mesh.
type decodedPrim struct {
	geom     *Geometry
	material int // index into doc.Materials, -1 for none
}

// ModelFromDocument converts a decoded glTF document. Mesh data is decoded
// concurrently; the node tree is assembled once every mesh is ready.
// Primitives that are not triangle lists are skipped. A document with no
// root nodes yields ErrNoScene.
func ModelFromDocument(ctx context.Context, doc *gltf.Document) (*Node, error) {
	meshes := make([][]decodedPrim, len(doc.Meshes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, m := range doc.Meshes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			prims, err := decodeMesh(doc, m)
			if err != nil {
				return fmt.Errorf("mesh %d (%q): %w", i, m.Name, err)
			}
			meshes[i] = prims
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	materials := make([]*Material, len(doc.Materials))
	for i, m := range doc.Materials {
		materials[i] = convertMaterial(m)
	}

	roots, name := sceneRoots(doc)
	if len(roots) == 0 {
		return nil, ErrNoScene
	}
	b := &modelBuilder{doc: doc, meshes: meshes, materials: materials, visiting: make(map[int]bool)}
	root := NewGroup(name)
	for _, idx := range roots {
		n, err := b.node(idx)
		if err != nil {
			root.Dispose()
			return nil, err
		}
		root.AddChild(n)
	}
	return root, nil
}

// sceneRoots returns the root node indices of the default scene. Documents
// without scenes use every node that is nobody's child.
func sceneRoots(doc *gltf.Document) ([]int, string) {
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
			idx = *doc.Scene
		}
		sc := doc.Scenes[idx]
		return sc.Nodes, sc.Name
	}
	isChild := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(isChild) {
				isChild[c] = true
			}
		}
	}
	var roots []int
	for i, c := range isChild {
		if !c {
			roots = append(roots, i)
		}
	}
	return roots, ""
}

func decodeMesh(doc *gltf.Document, m *gltf.Mesh) ([]decodedPrim, error) {
	var out []decodedPrim
	for pi, p := range m.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			continue
		}
		geom, err := decodePrimitive(doc, p)
		if err != nil {
			return nil, fmt.Errorf("primitive %d: %w", pi, err)
		}
		mat := -1
		if p.Material != nil {
			if *p.Material < 0 || *p.Material >= len(doc.Materials) {
				return nil, fmt.Errorf("primitive %d material %d: %w", pi, *p.Material, errBadIndex)
			}
			mat = *p.Material
		}
		out = append(out, decodedPrim{geom: geom, material: mat})
	}
	return out, nil
}

func decodePrimitive(doc *gltf.Document, p *gltf.Primitive) (*Geometry, error) {
	posIdx, ok := p.Attributes[gltf.POSITION]
	if !ok {
		return nil, errNoPositions
	}
	if posIdx < 0 || posIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("position accessor %d: %w", posIdx, errBadIndex)
	}
	raw, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}
	positions := make([]mgl32.Vec3, len(raw))
	for i, v := range raw {
		positions[i] = mgl32.Vec3(v)
	}

	var indices []uint32
	if p.Indices != nil {
		if *p.Indices < 0 || *p.Indices >= len(doc.Accessors) {
			return nil, fmt.Errorf("index accessor %d: %w", *p.Indices, errBadIndex)
		}
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*p.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
		for _, ix := range indices {
			if int(ix) >= len(positions) {
				return nil, fmt.Errorf("vertex index %d of %d: %w", ix, len(positions), errBadIndex)
			}
		}
		// Drop a trailing partial triangle.
		indices = indices[:len(indices)/3*3]
	} else if len(positions)%3 != 0 {
		positions = positions[:len(positions)/3*3]
	}
	return NewGeometry(positions, indices), nil
}

func convertMaterial(m *gltf.Material) *Material {
	mat := NewMaterial(ColorWhite)
	mat.Name = m.Name
	// glTF defaults: metallic 1, roughness 1.
	mat.Metalness = 1
	if pbr := m.PBRMetallicRoughness; pbr != nil {
		if f := pbr.BaseColorFactor; f != nil {
			mat.Color = Color{f[0], f[1], f[2], f[3]}
		}
		if pbr.MetallicFactor != nil {
			mat.Metalness = *pbr.MetallicFactor
		}
		if pbr.RoughnessFactor != nil {
			mat.Roughness = *pbr.RoughnessFactor
		}
	}
	e := m.EmissiveFactor
	mat.Emissive = Color{e[0], e[1], e[2], 1}
	return mat
}

// modelBuilder turns glTF nodes into Nodes, guarding against cycles in
// malformed files.
type modelBuilder struct {
	doc       *gltf.Document
	meshes    [][]decodedPrim
	materials []*Material
	visiting  map[int]bool
}

func (b *modelBuilder) node(idx int) (*Node, error) {
	if idx < 0 || idx >= len(b.doc.Nodes) {
		return nil, fmt.Errorf("node %d: %w", idx, errBadIndex)
	}
	if b.visiting[idx] {
		return nil, fmt.Errorf("node %d: %w", idx, errNodeCycle)
	}
	b.visiting[idx] = true
	defer delete(b.visiting, idx)

	src := b.doc.Nodes[idx]
	n := NewGroup(src.Name)
	applyNodeTransform(n, src)

	if src.Mesh != nil {
		mi := *src.Mesh
		if mi < 0 || mi >= len(b.meshes) {
			return nil, fmt.Errorf("node %d mesh %d: %w", idx, mi, errBadIndex)
		}
		prims := b.meshes[mi]
		if len(prims) == 1 {
			// A single primitive makes the node itself the mesh.
			n.Geometry = prims[0].geom
			n.Material = b.material(prims[0].material)
		} else {
			for i, p := range prims {
				n.AddChild(NewMesh(fmt.Sprintf("%s_%d", src.Name, i), p.geom, b.material(p.material)))
			}
		}
	}

	for _, c := range src.Children {
		child, err := b.node(c)
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

func (b *modelBuilder) material(i int) *Material {
	if i < 0 {
		return NewMaterial(ColorWhite)
	}
	return b.materials[i]
}

// applyNodeTransform copies the TRS (or decomposed matrix) of src onto n.
func applyNodeTransform(n *Node, src *gltf.Node) {
	m := src.MatrixOrDefault()
	if m != gltf.DefaultMatrix {
		var mat mgl32.Mat4
		for i, v := range m {
			mat[i] = float32(v)
		}
		n.Position = mat.Col(3).Vec3()
		sx := mat.Col(0).Vec3().Len()
		sy := mat.Col(1).Vec3().Len()
		sz := mat.Col(2).Vec3().Len()
		if mat.Det() < 0 {
			sx = -sx
		}
		n.Scale = mgl32.Vec3{sx, sy, sz}
		if sx != 0 && sy != 0 && sz != 0 {
			rot := mgl32.Mat4FromCols(
				mat.Col(0).Mul(1/sx),
				mat.Col(1).Mul(1/sy),
				mat.Col(2).Mul(1/sz),
				mgl32.Vec4{0, 0, 0, 1},
			)
			n.Orientation = mgl32.Mat4ToQuat(rot).Normalize()
		}
		return
	}

	t := src.TranslationOrDefault()
	r := src.RotationOrDefault()
	s := src.ScaleOrDefault()
	n.Position = mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])}
	// glTF stores (x, y, z, w).
	n.Orientation = mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}.Normalize()
	n.Scale = mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])}
}

// --- Async loading ---

type loadResult struct {
	path    string
	model   *Node
	err     error
	onLoad  func(*Node)
	onError func(error)
}

// LoadModelAsync loads path in a background goroutine. On success onLoad
// receives the model on the update goroutine, during a later Update; it is
// up to onLoad to add it to the scene. Failures go to onError (which may be
// nil). Dispose cancels the load and no callback runs afterwards.
func (s *Scene) LoadModelAsync(path string, onLoad func(*Node), onError func(error)) error {
	if s.disposed {
		return fmt.Errorf("load model %s: %w", path, ErrDisposed)
	}
	s.loading++
	ctx, ch := s.loadCtx, s.loadCh
	go func() {
		m, err := LoadModel(ctx, path)
		select {
		case ch <- loadResult{path: path, model: m, err: err, onLoad: onLoad, onError: onError}:
		case <-ctx.Done():
		}
	}()
	return nil
}

// Loading returns the number of model loads not yet delivered.
func (s *Scene) Loading() int {
	return s.loading
}

// deliverLoads hands finished loads to their callbacks without blocking.
func (s *Scene) deliverLoads() {
	for s.loading > 0 && !s.disposed {
		select {
		case r := <-s.loadCh:
			s.loading--
			if r.err != nil {
				debugf("%v", r.err)
				if r.onError != nil {
					r.onError(r.err)
				}
				continue
			}
			debugf("loaded %s (%d meshes)", r.path, len(r.model.Meshes()))
			if r.onLoad != nil {
				r.onLoad(r.model)
			}
		default:
			return
		}
	}
}
