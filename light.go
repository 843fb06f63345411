package showroom

import "github.com/go-gl/mathgl/mgl32"

// HemisphereLight is an ambient light that blends from GroundColor below to
// SkyColor above, along the direction of Position.
type HemisphereLight struct {
	SkyColor    Color
	GroundColor Color
	Intensity   float64
	Position    mgl32.Vec3
	Visible     bool
}

func newHemisphereLight(cfg HemisphereConfig) *HemisphereLight {
	l := &HemisphereLight{}
	l.applyConfig(cfg)
	return l
}

func (l *HemisphereLight) applyConfig(cfg HemisphereConfig) {
	l.SkyColor = cfg.SkyColor
	l.GroundColor = cfg.GroundColor
	l.Intensity = cfg.Intensity
	l.Position = cfg.Position
	l.Visible = cfg.Enabled
}

// irradiance returns the light reaching a surface with world normal n.
func (l *HemisphereLight) irradiance(n mgl32.Vec3) Color {
	if l == nil || !l.Visible {
		return Color{}
	}
	up := l.Position
	if up.Len() == 0 {
		up = mgl32.Vec3{0, 1, 0}
	}
	w := 0.5*float64(n.Dot(up.Normalize())) + 0.5
	return l.GroundColor.Lerp(l.SkyColor, w).Scale(l.Intensity)
}

// DirectionalLight shines from Position toward the origin.
type DirectionalLight struct {
	Color     Color
	Intensity float64
	Position  mgl32.Vec3
	Visible   bool
}

func newDirectionalLight(cfg DirectionalConfig) *DirectionalLight {
	l := &DirectionalLight{}
	l.applyConfig(cfg)
	return l
}

func (l *DirectionalLight) applyConfig(cfg DirectionalConfig) {
	l.Color = cfg.Color
	l.Intensity = cfg.Intensity
	l.Position = cfg.Position
	l.Visible = cfg.Enabled
}

// Direction returns the unit vector pointing from the surface toward the light.
func (l *DirectionalLight) Direction() mgl32.Vec3 {
	if l.Position.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return l.Position.Normalize()
}

// Lights is the pair of scene lights. Either may be nil until first enabled.
type Lights struct {
	Hemisphere  *HemisphereLight
	Directional *DirectionalLight
}
