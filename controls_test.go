package showroom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func newTestControls(damping bool) (*Camera, *OrbitControls) {
	cfg := DefaultConfig()
	cfg.Camera.Position = mgl32.Vec3{0, 0, 5}
	cfg.Controls.EnableDamping = damping
	cam := NewCamera(cfg.Camera, 800, 600)
	return cam, NewOrbitControls(cam, cfg.Controls)
}

func TestOrbitRotateKeepsDistance(t *testing.T) {
	cam, c := newTestControls(false)

	// A quarter of the viewport height is a quarter turn.
	c.Rotate(-150, 0)
	if !c.Update() {
		t.Fatal("Update should report movement")
	}

	if !approxEqual(float64(cam.Position.Len()), 5, 1e-3) {
		t.Errorf("distance = %f, want 5", cam.Position.Len())
	}
	if !approxEqual(float64(cam.Position[0]), 5, 1e-3) || !approxEqual(float64(cam.Position[2]), 0, 1e-3) {
		t.Errorf("Position = %v, want ~[5 0 0]", cam.Position)
	}

	if c.Update() {
		t.Error("without damping the motion should be consumed in one Update")
	}
}

func TestOrbitPolarClamp(t *testing.T) {
	cam, c := newTestControls(false)
	c.Rotate(0, 10000)
	c.Update()
	if cam.Position[1] <= -5+1e-3 || math.IsNaN(float64(cam.Position[1])) {
		t.Errorf("camera went past the pole: %v", cam.Position)
	}
}

func TestOrbitDampingConverges(t *testing.T) {
	cam, c := newTestControls(true)
	c.Rotate(-150, 0)

	c.Update()
	first := cam.Position
	if approxEqual(float64(first[0]), 5, 1e-2) {
		t.Fatal("damped motion should not complete in one frame")
	}
	for i := 0; i < 500; i++ {
		c.Update()
	}
	if !approxEqual(float64(cam.Position[0]), 5, 1e-2) {
		t.Errorf("Position = %v, want to converge to ~[5 0 0]", cam.Position)
	}
}

func TestOrbitZoomRespectsBounds(t *testing.T) {
	cam, c := newTestControls(false)
	c.MinDistance = 4
	c.Zoom(100)
	c.Update()
	if !approxEqual(float64(cam.Position.Len()), 4, 1e-3) {
		t.Errorf("distance = %f, want clamped to 4", cam.Position.Len())
	}

	c.MaxDistance = 6
	c.Zoom(-100)
	c.Update()
	if !approxEqual(float64(cam.Position.Len()), 6, 1e-3) {
		t.Errorf("distance = %f, want clamped to 6", cam.Position.Len())
	}
}

func TestOrbitDisabledAndDisposed(t *testing.T) {
	cam, c := newTestControls(false)
	c.Enabled = false
	c.Rotate(-150, 0)
	c.Update()
	if cam.Position != (mgl32.Vec3{0, 0, 5}) {
		t.Errorf("disabled controls moved the camera: %v", cam.Position)
	}

	c.Enabled = true
	c.Dispose()
	c.Rotate(-150, 0)
	if c.Update() {
		t.Error("disposed controls should not update")
	}
}
