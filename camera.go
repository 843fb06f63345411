package showroom

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera looking from Position at Target.
type Camera struct {
	// FOV is the vertical field of view in degrees.
	FOV float32
	// Aspect is the viewport width divided by its height.
	Aspect    float32
	Near, Far float32

	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect
}

// NewCamera creates a camera from cfg and a viewport of the given size.
func NewCamera(cfg CameraConfig, width, height float64) *Camera {
	c := &Camera{
		FOV:      cfg.FOV,
		Near:     cfg.Near,
		Far:      cfg.Far,
		Position: cfg.Position,
		Target:   cfg.Target,
		Up:       mgl32.Vec3{0, 1, 0},
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport resizes the viewport and updates the aspect ratio.
// Degenerate sizes leave the aspect untouched.
func (c *Camera) SetViewport(width, height float64) {
	c.Viewport = Rect{Width: width, Height: height}
	if width > 0 && height > 0 {
		c.Aspect = float32(width / height)
	}
}

// ViewMatrix returns the world-to-camera transform.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// ProjectionMatrix returns the camera-to-clip transform.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// ViewProjection returns ProjectionMatrix * ViewMatrix.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// Unproject maps a point in normalized device coordinates (z = -1 on the
// near plane, 1 on the far plane) back to world space.
func (c *Camera) Unproject(ndc mgl32.Vec3) mgl32.Vec3 {
	inv := c.ViewProjection().Inv()
	p := inv.Mul4x1(ndc.Vec4(1))
	if p[3] == 0 {
		return p.Vec3()
	}
	return p.Vec3().Mul(1 / p[3])
}

// Project maps a world point to normalized device coordinates. w is the
// clip-space w (the view depth); a point behind the camera has w <= 0.
func (c *Camera) Project(p mgl32.Vec3) (ndc mgl32.Vec3, w float32) {
	clip := c.ViewProjection().Mul4x1(p.Vec4(1))
	w = clip[3]
	if w == 0 {
		return clip.Vec3(), 0
	}
	return clip.Vec3().Mul(1 / w), w
}

// ScreenToNDC converts a screen position inside the viewport to normalized
// device coordinates, each axis in [-1, 1] with +Y up.
func (c *Camera) ScreenToNDC(sx, sy float64) mgl32.Vec2 {
	vp := c.Viewport
	if vp.Width <= 0 || vp.Height <= 0 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{
		float32((sx-vp.X)/vp.Width*2 - 1),
		float32(-(sy-vp.Y)/vp.Height*2 + 1),
	}
}

// NDCToScreen is the inverse of ScreenToNDC.
func (c *Camera) NDCToScreen(ndc mgl32.Vec2) (sx, sy float64) {
	vp := c.Viewport
	sx = vp.X + (float64(ndc[0])+1)/2*vp.Width
	sy = vp.Y + (1-float64(ndc[1]))/2*vp.Height
	return
}

// WorldToScreen projects a world point to screen pixels. ok is false when
// the point is behind the camera.
func (c *Camera) WorldToScreen(p mgl32.Vec3) (sx, sy float64, ok bool) {
	ndc, w := c.Project(p)
	if w <= 0 {
		return 0, 0, false
	}
	sx, sy = c.NDCToScreen(ndc.Vec2())
	return sx, sy, true
}

// applyPatch copies the lens and placement keys present in p. Absent keys
// keep their live values, so an orbit survives a lens-only patch.
func (c *Camera) applyPatch(p *CameraPatch) {
	if p == nil {
		return
	}
	setIf(&c.FOV, p.FOV)
	setIf(&c.Near, p.Near)
	setIf(&c.Far, p.Far)
	setIf(&c.Position, p.Position)
	setIf(&c.Target, p.Target)
}
