package showroom

import (
	"image/color"
	"math"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// drawTri is one shaded, projected triangle ready for submission.
type drawTri struct {
	screen [3]mgl32.Vec2
	depth  float32 // mean clip-space w, larger is farther
	color  Color   // not premultiplied
}

// renderStats holds per-frame timing and triangle metrics.
// Only populated when Scene.debug is true.
type renderStats struct {
	collectTime time.Duration
	sortTime    time.Duration
	submitTime  time.Duration
	meshes      int
	triangles   int
	culled      int
}

// renderer projects the scene with the camera, shades each triangle flat,
// sorts back to front and submits everything as one DrawTriangles32 call.
type renderer struct {
	antialias  bool
	pixelRatio float64

	tris  []drawTri
	verts []ebiten.Vertex
	inds  []uint32
	stats renderStats

	disposed bool
}

func newRenderer(cfg RendererConfig) *renderer {
	r := &renderer{}
	r.applyConfig(cfg)
	return r
}

func (r *renderer) applyConfig(cfg RendererConfig) {
	r.antialias = cfg.Antialias
	r.pixelRatio = cfg.PixelRatio
	if r.pixelRatio <= 0 {
		r.pixelRatio = 1
	}
}

// --- White pixel singleton (single-threaded, like the rest of the scene) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image used
// as the source for untextured triangles.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// --- Collection ---

// collect walks root and fills r.tris with every visible triangle in front
// of the camera, sorted back to front.
func (r *renderer) collect(root *Node, cam *Camera, lights Lights, debug bool) []drawTri {
	r.tris = r.tris[:0]
	r.stats = renderStats{}
	if root == nil || cam == nil {
		return r.tris
	}

	var t0 time.Time
	if debug {
		t0 = time.Now()
	}
	vp := cam.ViewProjection()
	r.collectNode(root, mgl32.Ident4(), vp, cam, lights)
	if debug {
		r.stats.collectTime = time.Since(t0)
		t0 = time.Now()
	}

	slices.SortStableFunc(r.tris, func(a, b drawTri) int {
		switch {
		case a.depth > b.depth:
			return -1
		case a.depth < b.depth:
			return 1
		}
		return 0
	})
	if debug {
		r.stats.sortTime = time.Since(t0)
	}
	return r.tris
}

func (r *renderer) collectNode(n *Node, parent, vp mgl32.Mat4, cam *Camera, lights Lights) {
	if !n.Visible || n.disposed {
		return
	}
	world := parent.Mul4(n.LocalMatrix())
	if n.IsMesh() && !n.Geometry.IsDisposed() {
		r.collectMesh(n, world, vp, cam, lights)
	}
	for _, c := range n.children {
		r.collectNode(c, world, vp, cam, lights)
	}
}

func (r *renderer) collectMesh(n *Node, world, vp mgl32.Mat4, cam *Camera, lights Lights) {
	mat := n.Material
	if mat == nil || mat.Opacity <= 0 {
		return
	}
	r.stats.meshes++
	mvp := vp.Mul4(world)
	g := n.Geometry
	for i := 0; i < g.TriangleCount(); i++ {
		a, b, c := g.Triangle(i)
		var (
			clip [3]mgl32.Vec4
			ndc  [3]mgl32.Vec3
		)
		behind := false
		for k, p := range [3]mgl32.Vec3{a, b, c} {
			clip[k] = mvp.Mul4x1(p.Vec4(1))
			if clip[k][3] <= cam.Near*0.5 {
				behind = true
				break
			}
			ndc[k] = clip[k].Vec3().Mul(1 / clip[k][3])
		}
		if behind || outsideFrustum(ndc) {
			r.stats.culled++
			continue
		}

		wa := world.Mul4x1(a.Vec4(1)).Vec3()
		wb := world.Mul4x1(b.Vec4(1)).Vec3()
		wc := world.Mul4x1(c.Vec4(1)).Vec3()
		normal := wb.Sub(wa).Cross(wc.Sub(wa))
		if normal.Len() == 0 {
			r.stats.culled++
			continue
		}
		normal = normal.Normalize()
		toEye := cam.Position.Sub(wa)
		// Double sided: light the face the camera sees.
		if normal.Dot(toEye) < 0 {
			normal = normal.Mul(-1)
		}
		view := toEye
		if view.Len() > 0 {
			view = view.Normalize()
		}

		t := drawTri{
			depth: (clip[0][3] + clip[1][3] + clip[2][3]) / 3,
			color: shade(mat, normal, view, lights),
		}
		for k := range ndc {
			sx, sy := cam.NDCToScreen(ndc[k].Vec2())
			t.screen[k] = mgl32.Vec2{float32(sx), float32(sy)}
		}
		r.tris = append(r.tris, t)
		r.stats.triangles++
	}
}

// outsideFrustum reports whether all three vertices lie beyond the same
// clip plane.
func outsideFrustum(ndc [3]mgl32.Vec3) bool {
	for axis := 0; axis < 3; axis++ {
		if ndc[0][axis] < -1 && ndc[1][axis] < -1 && ndc[2][axis] < -1 {
			return true
		}
		if ndc[0][axis] > 1 && ndc[1][axis] > 1 && ndc[2][axis] > 1 {
			return true
		}
	}
	return false
}

// --- Shading ---

// shade returns the flat color of a face with world normal n seen from
// direction view: hemisphere ambient plus a directional diffuse and specular
// term, then emissive on top.
func shade(mat *Material, n, view mgl32.Vec3, lights Lights) Color {
	light := lights.Hemisphere.irradiance(n)

	var spec Color
	if d := lights.Directional; d != nil && d.Visible {
		l := d.Direction()
		diffuse := math.Max(0, float64(n.Dot(l)))
		light = light.Add(d.Color.Scale(d.Intensity * diffuse))

		if diffuse > 0 && mat.Roughness < 1 {
			h := l.Add(view)
			if h.Len() > 0 {
				h = h.Normalize()
				gloss := 1 - clamp01(mat.Roughness)
				shininess := 2 + gloss*gloss*126
				s := math.Pow(math.Max(0, float64(n.Dot(h))), shininess) * gloss
				// Metals tint their highlight with the base color.
				tint := ColorWhite.Lerp(mat.Color, clamp01(mat.Metalness))
				spec = tint.Scale(d.Intensity * s)
			}
		}
	}

	// Metals have little diffuse response.
	base := mat.Color.Scale(1 - 0.8*clamp01(mat.Metalness))
	out := base.Mul(light).Add(spec).Add(mat.Emissive)
	out.A = mat.Color.A * mat.Opacity
	return out
}

// --- Submission ---

// draw clears screen to the background and submits the collected triangles.
func (r *renderer) draw(screen *ebiten.Image, s *Scene) {
	if r.disposed {
		return
	}
	screen.Fill(s.config.Background.toRGBA())

	tris := r.collect(s.root, s.camera, s.lights, s.debug)
	if len(tris) == 0 {
		return
	}

	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
	for i := range tris {
		t := &tris[i]
		c := t.color
		a := float32(clamp01(c.A))
		// Premultiplied vertex colors.
		cr := float32(clamp01(c.R)) * a
		cg := float32(clamp01(c.G)) * a
		cb := float32(clamp01(c.B)) * a
		base := uint32(len(r.verts))
		for k := 0; k < 3; k++ {
			r.verts = append(r.verts, ebiten.Vertex{
				DstX:   t.screen[k][0],
				DstY:   t.screen[k][1],
				SrcX:   0.5,
				SrcY:   0.5,
				ColorR: cr,
				ColorG: cg,
				ColorB: cb,
				ColorA: a,
			})
		}
		r.inds = append(r.inds, base, base+1, base+2)
	}

	var op ebiten.DrawTrianglesOptions
	op.AntiAlias = r.antialias
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	screen.DrawTriangles32(r.verts, r.inds, ensureWhitePixel(), &op)

	if s.debug {
		r.stats.submitTime = time.Since(t0)
		s.debugLog(r.stats)
	}
}

func (r *renderer) dispose() {
	r.disposed = true
	r.tris = nil
	r.verts = nil
	r.inds = nil
}
