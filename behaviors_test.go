package showroom

import (
	"errors"
	"math"
	"testing"
	"time"
)

// carModel builds a small car: a body and two doors, each with its own
// material, so hover and click behaviors have something to tint.
func carModel() *Node {
	car := NewGroup("car")
	body := NewMesh("body", NewBoxGeometry(2, 1, 1), NewMaterial(ColorFromHex(0x3366cc)))
	left := NewMesh("door_left", NewPlaneGeometry(1, 1), NewMaterial(ColorFromHex(0x3366cc)))
	left.Rotation[1] = 0.25
	right := NewMesh("door_right", NewPlaneGeometry(1, 1), NewMaterial(ColorFromHex(0x3366cc)))
	car.AddChild(body)
	car.AddChild(left)
	car.AddChild(right)
	return car
}

func TestHighlighterTintsAndRestores(t *testing.T) {
	car := carModel()
	glow := ColorFromHex(0x111111)
	car.Meshes()[0].Material.Emissive = glow

	h := NewHighlighter(car, HighlightColor)
	h.OnHoverEnter(Intersection{})
	for _, m := range car.Meshes() {
		if m.Material.Emissive != HighlightColor {
			t.Errorf("%s emissive = %v, want highlight", m.Name, m.Material.Emissive)
		}
	}
	h.OnHoverLeave(Intersection{})
	if got := car.Meshes()[0].Material.Emissive; got != glow {
		t.Errorf("body emissive = %v, want its original %v", got, glow)
	}
	if got := car.Meshes()[1].Material.Emissive; got != ColorBlack {
		t.Errorf("door emissive = %v, want black", got)
	}
}

func TestHighlighterSharedMaterialOnce(t *testing.T) {
	shared := NewMaterial(ColorWhite)
	car := NewGroup("car")
	car.AddChild(NewMesh("a", NewPlaneGeometry(1, 1), shared))
	car.AddChild(NewMesh("b", NewPlaneGeometry(1, 1), shared))

	h := NewHighlighter(car, HighlightColor)
	h.OnHoverEnter(Intersection{})
	h.OnHoverEnter(Intersection{})
	h.OnHoverLeave(Intersection{})
	if shared.Emissive != ColorBlack {
		t.Errorf("emissive = %v, want black after leave", shared.Emissive)
	}
}

func TestHighlighterOnHoveredScene(t *testing.T) {
	s := newHoverScene()
	car := quadAt("car", 0)
	car.Material = NewMaterial(ColorWhite)
	s.Add(car)
	_, _ = s.NewInteraction(car, InteractionOptions{Hover: NewHighlighter(car, HighlightColor)})

	hoverFrame(s, 400, 300)
	if car.Material.Emissive != HighlightColor {
		t.Errorf("hovered emissive = %v", car.Material.Emissive)
	}
	hoverFrame(s, 20, 20)
	if car.Material.Emissive != ColorBlack {
		t.Errorf("emissive after leave = %v", car.Material.Emissive)
	}
}

func TestFlashRevertsAfterDuration(t *testing.T) {
	s := NewScene()
	car := carModel()
	s.Add(car)
	f := NewFlash(s, car, FlashColor)

	f.OnClick(Intersection{})
	for _, m := range car.Meshes() {
		if m.Material.Emissive != FlashColor {
			t.Fatalf("%s not flashed", m.Name)
		}
	}
	if !f.Pending() {
		t.Fatal("revert should be pending")
	}

	s.Scheduler().Advance(FlashDuration - time.Millisecond)
	if car.Meshes()[0].Material.Emissive != FlashColor {
		t.Error("reverted early")
	}
	s.Scheduler().Advance(time.Millisecond)
	for _, m := range car.Meshes() {
		if m.Material.Emissive != ColorBlack {
			t.Errorf("%s emissive = %v after revert", m.Name, m.Material.Emissive)
		}
	}
	if f.Pending() {
		t.Error("nothing should be pending after revert")
	}
}

func TestFlashRepeatedClickRestartsTimer(t *testing.T) {
	s := NewScene()
	car := carModel()
	f := NewFlash(s, car, FlashColor)

	f.OnClick(Intersection{})
	s.Scheduler().Advance(100 * time.Millisecond)
	f.OnClick(Intersection{})
	if s.Scheduler().Len() != 1 {
		t.Errorf("scheduled = %d, want 1", s.Scheduler().Len())
	}
	s.Scheduler().Advance(100 * time.Millisecond)
	if car.Meshes()[0].Material.Emissive != FlashColor {
		t.Error("second click should have restarted the timer")
	}
	s.Scheduler().Advance(50 * time.Millisecond)
	if car.Meshes()[0].Material.Emissive != ColorBlack {
		t.Error("revert should restore the pre-flash emissive, not the flash color")
	}
}

func TestFlashDoesNotStompHoverLeave(t *testing.T) {
	s := NewScene()
	car := carModel()
	h := NewHighlighter(car, HighlightColor)
	f := NewFlash(s, car, FlashColor)

	h.OnHoverEnter(Intersection{})
	f.OnClick(Intersection{})
	h.OnHoverLeave(Intersection{})
	s.Scheduler().Advance(FlashDuration)
	for _, m := range car.Meshes() {
		if m.Material.Emissive != ColorBlack {
			t.Errorf("%s emissive = %v, want black", m.Name, m.Material.Emissive)
		}
	}
}

func TestFlashTwoInstancesOnOneTarget(t *testing.T) {
	s := NewScene()
	car := carModel()
	red := ColorFromHex(0xff0000)
	blue := ColorFromHex(0x0000ff)
	a := NewFlash(s, car, red)
	b := NewFlash(s, car, blue)

	a.OnClick(Intersection{})
	s.Scheduler().Advance(50 * time.Millisecond)
	b.OnClick(Intersection{})
	if !a.Pending() || !b.Pending() {
		t.Fatal("each flash should keep its own revert")
	}
	if car.Meshes()[0].Material.Emissive != blue {
		t.Errorf("emissive = %v, want the newer flash", car.Meshes()[0].Material.Emissive)
	}

	s.Scheduler().Advance(FlashDuration)
	for _, m := range car.Meshes() {
		if m.Material.Emissive != ColorBlack {
			t.Errorf("%s emissive = %v, want black", m.Name, m.Material.Emissive)
		}
	}
	if len(s.flashBase) != 0 {
		t.Errorf("flashBase holds %d materials after both reverts", len(s.flashBase))
	}
}

func TestFlashCancelledByDispose(t *testing.T) {
	s := NewScene()
	car := carModel()
	s.Add(car)
	f := NewFlash(s, car, FlashColor)
	f.OnClick(Intersection{})
	s.Dispose()
	if f.Pending() {
		t.Error("Dispose should cancel the revert")
	}
}

func TestDoorToggleTwoClicksRestore(t *testing.T) {
	s := NewScene()
	car := carModel()
	s.Add(car)
	d, err := NewDoorToggle(s, car, AxisY, 0, math.Pi/3, 0.2, "door_left", "door_right")
	if err != nil {
		t.Fatal(err)
	}
	left, right := d.Parts()[0], d.Parts()[1]

	d.OnClick(Intersection{})
	if !d.IsOpen() {
		t.Fatal("first click should open")
	}
	for i := 0; i < 20; i++ {
		s.update(1.0 / 60)
	}
	if !approxEqual(float64(left.Rotation[1]), 0.25+math.Pi/3, 1e-4) {
		t.Errorf("left open angle = %v", left.Rotation[1])
	}
	if !approxEqual(float64(right.Rotation[1]), math.Pi/3, 1e-4) {
		t.Errorf("right open angle = %v", right.Rotation[1])
	}

	d.OnClick(Intersection{})
	for i := 0; i < 20; i++ {
		s.update(1.0 / 60)
	}
	if d.IsOpen() {
		t.Error("second click should close")
	}
	if !approxEqual(float64(left.Rotation[1]), 0.25, 1e-4) || !approxEqual(float64(right.Rotation[1]), 0, 1e-4) {
		t.Errorf("doors not back at rest: %v, %v", left.Rotation[1], right.Rotation[1])
	}
}

func TestDoorToggleReverseMidSwing(t *testing.T) {
	s := NewScene()
	car := carModel()
	s.Add(car)
	d, _ := NewDoorToggle(s, car, AxisY, 0, 1, 0.5, "door_right")
	door := d.Parts()[0]

	d.OnClick(Intersection{})
	for i := 0; i < 10; i++ {
		s.update(1.0 / 60)
	}
	mid := door.Rotation[1]
	if mid <= 0 || mid >= 1 {
		t.Fatalf("mid-swing angle = %v", mid)
	}
	d.OnClick(Intersection{})
	for i := 0; i < 60; i++ {
		s.update(1.0 / 60)
	}
	if !approxEqual(float64(door.Rotation[1]), 0, 1e-4) {
		t.Errorf("angle = %v, want closed", door.Rotation[1])
	}
}

func TestDoorToggleMissingPart(t *testing.T) {
	s := NewScene()
	_, err := NewDoorToggle(s, carModel(), AxisY, 0, 1, 0.2, "door_left", "trunk")
	if !errors.Is(err, ErrPartNotFound) {
		t.Errorf("err = %v, want ErrPartNotFound", err)
	}
	if _, err := NewDoorToggle(s, nil, AxisY, 0, 1, 0.2); !errors.Is(err, ErrPartNotFound) {
		t.Errorf("nil target err = %v, want ErrPartNotFound", err)
	}
}

func TestClickHandlersFanOut(t *testing.T) {
	var order []int
	hs := ClickHandlers{
		ClickFunc(func(Intersection) { order = append(order, 1) }),
		nil,
		ClickFunc(func(Intersection) { order = append(order, 2) }),
	}
	hs.OnClick(Intersection{})
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("order = %v", order)
	}
}
