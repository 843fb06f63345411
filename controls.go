package showroom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// minPolar keeps the camera off the poles, where the look-at basis is undefined.
const minPolar = 1e-4

// OrbitControls rotates and dollies a camera around its Target. Input is fed
// in through Rotate and Zoom; Update applies it, spreading the motion over
// several frames when damping is enabled.
type OrbitControls struct {
	camera *Camera

	Enabled       bool
	EnableDamping bool
	DampingFactor float32
	RotateSpeed   float32
	ZoomSpeed     float32
	MinDistance   float32
	MaxDistance   float32

	// pending spherical motion
	deltaTheta float32
	deltaPhi   float32
	scale      float32

	disposed bool
}

// NewOrbitControls creates controls that drive cam.
func NewOrbitControls(cam *Camera, cfg ControlsConfig) *OrbitControls {
	c := &OrbitControls{camera: cam, scale: 1}
	c.applyConfig(cfg)
	return c
}

func (c *OrbitControls) applyConfig(cfg ControlsConfig) {
	c.Enabled = cfg.Enabled
	c.EnableDamping = cfg.EnableDamping
	c.DampingFactor = cfg.DampingFactor
	c.RotateSpeed = cfg.RotateSpeed
	c.ZoomSpeed = cfg.ZoomSpeed
	c.MinDistance = cfg.MinDistance
	c.MaxDistance = cfg.MaxDistance
}

// Rotate queues an orbit from a pointer drag of (dx, dy) pixels. A drag
// across the full viewport height turns the camera a full circle.
func (c *OrbitControls) Rotate(dx, dy float64) {
	if !c.Enabled || c.disposed {
		return
	}
	h := c.camera.Viewport.Height
	if h <= 0 {
		return
	}
	c.deltaTheta -= float32(2*math.Pi*dx/h) * c.RotateSpeed
	c.deltaPhi -= float32(2*math.Pi*dy/h) * c.RotateSpeed
}

// Zoom queues a dolly from wheel input. Positive steps move the camera
// closer to the target.
func (c *OrbitControls) Zoom(steps float64) {
	if !c.Enabled || c.disposed || steps == 0 {
		return
	}
	c.scale *= float32(math.Pow(0.95, steps*float64(c.ZoomSpeed)))
}

// Update applies queued motion to the camera. Call once per frame before
// any raycasting that depends on the camera. It reports whether the camera
// moved.
func (c *OrbitControls) Update() bool {
	if c.disposed {
		return false
	}
	cam := c.camera
	offset := cam.Position.Sub(cam.Target)
	radius := offset.Len()
	if radius == 0 {
		return false
	}

	theta := float32(math.Atan2(float64(offset[0]), float64(offset[2])))
	phi := float32(math.Acos(float64(clampf(offset[1]/radius, -1, 1))))

	f := float32(1)
	if c.EnableDamping {
		f = c.DampingFactor
	}
	theta += c.deltaTheta * f
	phi += c.deltaPhi * f
	phi = clampf(phi, minPolar, math.Pi-minPolar)

	scale := c.scale
	if c.EnableDamping {
		scale = 1 + (c.scale-1)*f
	}
	radius *= scale
	if c.MinDistance > 0 {
		radius = max(radius, c.MinDistance)
	}
	if c.MaxDistance > 0 {
		radius = min(radius, c.MaxDistance)
	}

	sinPhi := float32(math.Sin(float64(phi)))
	next := mgl32.Vec3{
		radius * sinPhi * float32(math.Sin(float64(theta))),
		radius * float32(math.Cos(float64(phi))),
		radius * sinPhi * float32(math.Cos(float64(theta))),
	}
	newPos := cam.Target.Add(next)
	moved := !newPos.ApproxEqual(cam.Position)
	cam.Position = newPos

	if c.EnableDamping {
		c.deltaTheta *= 1 - c.DampingFactor
		c.deltaPhi *= 1 - c.DampingFactor
		c.scale = 1 + (c.scale-1)*(1-c.DampingFactor)
	} else {
		c.deltaTheta, c.deltaPhi, c.scale = 0, 0, 1
	}
	return moved
}

// Dispose detaches the controls; further input and updates are ignored.
func (c *OrbitControls) Dispose() {
	c.disposed = true
	c.deltaTheta, c.deltaPhi, c.scale = 0, 0, 1
}

func clampf(v, lo, hi float32) float32 {
	return max(lo, min(v, hi))
}
