package showroom

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

var (
	// ColorWhite is the default material color.
	ColorWhite = Color{1, 1, 1, 1}
	// ColorBlack is the zero emissive color.
	ColorBlack = Color{0, 0, 0, 1}
)

// ColorFromHex converts a 0xRRGGBB value to an opaque Color.
func ColorFromHex(hex uint32) Color {
	return Color{
		R: float64((hex>>16)&0xff) / 255,
		G: float64((hex>>8)&0xff) / 255,
		B: float64(hex&0xff) / 255,
		A: 1,
	}
}

// Hex returns the color as a 0xRRGGBB value. Alpha is dropped.
func (c Color) Hex() uint32 {
	return uint32(clamp01(c.R)*255+0.5)<<16 |
		uint32(clamp01(c.G)*255+0.5)<<8 |
		uint32(clamp01(c.B)*255+0.5)
}

// Add returns the component-wise sum of c and o, keeping c's alpha.
func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B, c.A}
}

// Mul returns the component-wise product of c and o, keeping c's alpha.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B, c.A}
}

// Scale multiplies the RGB components by s.
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s, c.A}
}

// Lerp interpolates between c and o by t in [0, 1].
func (c Color) Lerp(o Color, t float64) Color {
	return Color{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
		A: c.A + (o.A-c.A)*t,
	}
}

func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R)*clamp01(c.A)*255 + 0.5),
		G: uint8(clamp01(c.G)*clamp01(c.A)*255 + 0.5),
		B: uint8(clamp01(c.B)*clamp01(c.A)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// UnmarshalYAML accepts either an integer (0x333842) or a "#333842" string.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color: expected scalar, got %s", value.ShortTag())
	}
	s := strings.TrimSpace(value.Value)
	var (
		v   uint64
		err error
	)
	switch {
	case strings.HasPrefix(s, "#"):
		v, err = strconv.ParseUint(s[1:], 16, 32)
	default:
		// Base 0 handles 0x prefixes as well as plain decimal.
		v, err = strconv.ParseUint(s, 0, 32)
	}
	if err != nil {
		return fmt.Errorf("color %q: %w", s, err)
	}
	if v > 0xffffff {
		return fmt.Errorf("color %q: %w", s, errColorRange)
	}
	*c = ColorFromHex(uint32(v))
	return nil
}

// MarshalYAML writes the color as a "#rrggbb" string.
func (c Color) MarshalYAML() (any, error) {
	return fmt.Sprintf("#%06x", c.Hex()), nil
}

var errColorRange = errors.New("value exceeds 0xffffff")

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Rect is an axis-aligned rectangle in screen pixels. The origin is the
// top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Axis selects a rotation axis.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// unit returns the axis as a unit vector.
func (a Axis) unit() mgl32.Vec3 {
	switch a {
	case AxisX:
		return mgl32.Vec3{1, 0, 0}
	case AxisZ:
		return mgl32.Vec3{0, 0, 1}
	default:
		return mgl32.Vec3{0, 1, 0}
	}
}

// EventType identifies a kind of interaction event.
type EventType uint8

const (
	EventPointerDown  EventType = iota // fires when a pointer button is pressed
	EventPointerUp                     // fires when a pointer button is released
	EventPointerMove                   // fires when the pointer moves
	EventHoverEnter                    // fires when the hovered object changes to a new one
	EventHoverLeave                    // fires when the previously hovered object is left
	EventClick                         // fires when a click hits the target hierarchy
	EventResize                        // fires when the render surface changes size
)

func (e EventType) String() string {
	switch e {
	case EventPointerDown:
		return "pointerdown"
	case EventPointerUp:
		return "pointerup"
	case EventPointerMove:
		return "pointermove"
	case EventHoverEnter:
		return "hoverenter"
	case EventHoverLeave:
		return "hoverleave"
	case EventClick:
		return "click"
	case EventResize:
		return "resize"
	default:
		return "unknown"
	}
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

var (
	// ErrPartNotFound is returned when a named node is missing from a hierarchy.
	ErrPartNotFound = errors.New("showroom: part not found")
	// ErrDisposed is returned by operations on a disposed scene.
	ErrDisposed = errors.New("showroom: scene disposed")
	// ErrNoScene is returned when a glTF document has no scene to instantiate.
	ErrNoScene = errors.New("showroom: document has no scene")
)
