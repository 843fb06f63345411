package showroom

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// SceneConfig holds every tunable aspect of a scene. Obtain one with
// DefaultConfig and change it through ConfigPatch values; a scene owns its
// copy and only mutates it in Scene.UpdateConfig.
type SceneConfig struct {
	Background Color          `yaml:"background"`
	Camera     CameraConfig   `yaml:"camera"`
	Renderer   RendererConfig `yaml:"renderer"`
	Controls   ControlsConfig `yaml:"controls"`
	Ground     GroundConfig   `yaml:"ground"`
	Lights     LightsConfig   `yaml:"lights"`
}

// CameraConfig describes the perspective camera. FOV is the vertical field
// of view in degrees.
type CameraConfig struct {
	FOV      float32    `yaml:"fov"`
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	Position mgl32.Vec3 `yaml:"position"`
	Target   mgl32.Vec3 `yaml:"target"`
}

// RendererConfig controls triangle submission.
type RendererConfig struct {
	Antialias  bool    `yaml:"antialias"`
	PixelRatio float64 `yaml:"pixelRatio"`
}

// ControlsConfig configures the orbit controls.
type ControlsConfig struct {
	Enabled       bool    `yaml:"enabled"`
	EnableDamping bool    `yaml:"enableDamping"`
	DampingFactor float32 `yaml:"dampingFactor"`
	RotateSpeed   float32 `yaml:"rotateSpeed"`
	ZoomSpeed     float32 `yaml:"zoomSpeed"`
	MinDistance   float32 `yaml:"minDistance"`
	MaxDistance   float32 `yaml:"maxDistance"`
}

// GroundConfig describes the ground plane. Size is the extent along world
// X and Z; Y is the vertical offset of the plane. Nothing casts shadows, so
// a receiveShadow key in a document is accepted and ignored.
type GroundConfig struct {
	Size      mgl32.Vec2 `yaml:"size"`
	Color     Color      `yaml:"color"`
	Roughness float64    `yaml:"roughness"`
	Y         float32    `yaml:"y"`
	Visible   bool       `yaml:"visible"`
}

// LightsConfig groups the two scene lights.
type LightsConfig struct {
	Hemisphere  HemisphereConfig  `yaml:"hemisphere"`
	Directional DirectionalConfig `yaml:"directional"`
}

// HemisphereConfig describes a sky/ground ambient light.
type HemisphereConfig struct {
	SkyColor    Color      `yaml:"skyColor"`
	GroundColor Color      `yaml:"groundColor"`
	Intensity   float64    `yaml:"intensity"`
	Position    mgl32.Vec3 `yaml:"position"`
	Enabled     bool       `yaml:"enabled"`
}

// DirectionalConfig describes a light shining from Position toward the origin.
type DirectionalConfig struct {
	Color     Color      `yaml:"color"`
	Intensity float64    `yaml:"intensity"`
	Position  mgl32.Vec3 `yaml:"position"`
	Enabled   bool       `yaml:"enabled"`
}

// DefaultConfig returns the configuration used when no patch is supplied.
func DefaultConfig() SceneConfig {
	return SceneConfig{
		Background: ColorFromHex(0x000000),
		Camera: CameraConfig{
			FOV:      60,
			Near:     0.1,
			Far:      1000,
			Position: mgl32.Vec3{2, 2, 3},
		},
		Renderer: RendererConfig{
			Antialias:  true,
			PixelRatio: 1,
		},
		Controls: ControlsConfig{
			Enabled:       true,
			EnableDamping: true,
			DampingFactor: 0.05,
			RotateSpeed:   1,
			ZoomSpeed:     1,
			MinDistance:   0.5,
			MaxDistance:   100,
		},
		Ground: GroundConfig{
			Size:      mgl32.Vec2{10, 10},
			Color:     ColorFromHex(0x333842),
			Roughness: 1,
			Y:         -0.05,
			Visible:   true,
		},
		Lights: LightsConfig{
			Hemisphere: HemisphereConfig{
				SkyColor:    ColorFromHex(0xffffff),
				GroundColor: ColorFromHex(0x444444),
				Intensity:   0.6,
				Position:    mgl32.Vec3{0, 1, 0},
				Enabled:     true,
			},
			Directional: DirectionalConfig{
				Color:     ColorFromHex(0xffffff),
				Intensity: 0.8,
				Position:  mgl32.Vec3{3, 5, 2},
				Enabled:   true,
			},
		},
	}
}

// --- Patches ---

// ConfigPatch is a partial SceneConfig. Nil fields are absent and leave the
// corresponding value untouched; present fields override one key each.
type ConfigPatch struct {
	Background *Color         `yaml:"background"`
	Camera     *CameraPatch   `yaml:"camera"`
	Renderer   *RendererPatch `yaml:"renderer"`
	Controls   *ControlsPatch `yaml:"controls"`
	Ground     *GroundPatch   `yaml:"ground"`
	Lights     *LightsPatch   `yaml:"lights"`
}

// CameraPatch is a partial CameraConfig.
type CameraPatch struct {
	FOV      *float32    `yaml:"fov"`
	Near     *float32    `yaml:"near"`
	Far      *float32    `yaml:"far"`
	Position *mgl32.Vec3 `yaml:"position"`
	Target   *mgl32.Vec3 `yaml:"target"`
}

// RendererPatch is a partial RendererConfig.
type RendererPatch struct {
	Antialias  *bool    `yaml:"antialias"`
	PixelRatio *float64 `yaml:"pixelRatio"`
}

// ControlsPatch is a partial ControlsConfig.
type ControlsPatch struct {
	Enabled       *bool    `yaml:"enabled"`
	EnableDamping *bool    `yaml:"enableDamping"`
	DampingFactor *float32 `yaml:"dampingFactor"`
	RotateSpeed   *float32 `yaml:"rotateSpeed"`
	ZoomSpeed     *float32 `yaml:"zoomSpeed"`
	MinDistance   *float32 `yaml:"minDistance"`
	MaxDistance   *float32 `yaml:"maxDistance"`
}

// GroundPatch is a partial GroundConfig.
type GroundPatch struct {
	Size      *mgl32.Vec2 `yaml:"size"`
	Color     *Color      `yaml:"color"`
	Roughness *float64    `yaml:"roughness"`
	Y         *float32    `yaml:"y"`
	Visible   *bool       `yaml:"visible"`
}

// LightsPatch is a partial LightsConfig.
type LightsPatch struct {
	Hemisphere  *HemispherePatch  `yaml:"hemisphere"`
	Directional *DirectionalPatch `yaml:"directional"`
}

// HemispherePatch is a partial HemisphereConfig.
type HemispherePatch struct {
	SkyColor    *Color      `yaml:"skyColor"`
	GroundColor *Color      `yaml:"groundColor"`
	Intensity   *float64    `yaml:"intensity"`
	Position    *mgl32.Vec3 `yaml:"position"`
	Enabled     *bool       `yaml:"enabled"`
}

// DirectionalPatch is a partial DirectionalConfig.
type DirectionalPatch struct {
	Color     *Color      `yaml:"color"`
	Intensity *float64    `yaml:"intensity"`
	Position  *mgl32.Vec3 `yaml:"position"`
	Enabled   *bool       `yaml:"enabled"`
}

// Section is a bitmask of configuration sections touched by a patch.
type Section uint8

const (
	SectionBackground Section = 1 << iota
	SectionCamera
	SectionRenderer
	SectionControls
	SectionGround
	SectionHemisphere
	SectionDirectional
)

// Has reports whether s includes every bit of o.
func (s Section) Has(o Section) bool {
	return s&o == o
}

// Apply merges p over c key by key and reports which sections it touched.
func (c *SceneConfig) Apply(p ConfigPatch) Section {
	var touched Section
	if p.Background != nil {
		c.Background = *p.Background
		touched |= SectionBackground
	}
	if p.Camera != nil {
		p.Camera.apply(&c.Camera)
		touched |= SectionCamera
	}
	if p.Renderer != nil {
		p.Renderer.apply(&c.Renderer)
		touched |= SectionRenderer
	}
	if p.Controls != nil {
		p.Controls.apply(&c.Controls)
		touched |= SectionControls
	}
	if p.Ground != nil {
		p.Ground.apply(&c.Ground)
		touched |= SectionGround
	}
	if p.Lights != nil {
		if p.Lights.Hemisphere != nil {
			p.Lights.Hemisphere.apply(&c.Lights.Hemisphere)
			touched |= SectionHemisphere
		}
		if p.Lights.Directional != nil {
			p.Lights.Directional.apply(&c.Lights.Directional)
			touched |= SectionDirectional
		}
	}
	return touched
}

func (p *CameraPatch) apply(c *CameraConfig) {
	setIf(&c.FOV, p.FOV)
	setIf(&c.Near, p.Near)
	setIf(&c.Far, p.Far)
	setIf(&c.Position, p.Position)
	setIf(&c.Target, p.Target)
}

func (p *RendererPatch) apply(c *RendererConfig) {
	setIf(&c.Antialias, p.Antialias)
	setIf(&c.PixelRatio, p.PixelRatio)
}

func (p *ControlsPatch) apply(c *ControlsConfig) {
	setIf(&c.Enabled, p.Enabled)
	setIf(&c.EnableDamping, p.EnableDamping)
	setIf(&c.DampingFactor, p.DampingFactor)
	setIf(&c.RotateSpeed, p.RotateSpeed)
	setIf(&c.ZoomSpeed, p.ZoomSpeed)
	setIf(&c.MinDistance, p.MinDistance)
	setIf(&c.MaxDistance, p.MaxDistance)
}

func (p *GroundPatch) apply(c *GroundConfig) {
	setIf(&c.Size, p.Size)
	setIf(&c.Color, p.Color)
	setIf(&c.Roughness, p.Roughness)
	setIf(&c.Y, p.Y)
	setIf(&c.Visible, p.Visible)
}

func (p *HemispherePatch) apply(c *HemisphereConfig) {
	setIf(&c.SkyColor, p.SkyColor)
	setIf(&c.GroundColor, p.GroundColor)
	setIf(&c.Intensity, p.Intensity)
	setIf(&c.Position, p.Position)
	setIf(&c.Enabled, p.Enabled)
}

func (p *DirectionalPatch) apply(c *DirectionalConfig) {
	setIf(&c.Color, p.Color)
	setIf(&c.Intensity, p.Intensity)
	setIf(&c.Position, p.Position)
	setIf(&c.Enabled, p.Enabled)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Ptr returns a pointer to v. It keeps ConfigPatch literals short:
//
//	scene.UpdateConfig(showroom.ConfigPatch{
//		Ground: &showroom.GroundPatch{Visible: showroom.Ptr(false)},
//	})
func Ptr[T any](v T) *T {
	return &v
}

// ParsePatch decodes a YAML (or JSON) document into a ConfigPatch. Keys
// absent from the document stay nil; unknown keys are ignored.
func ParsePatch(data []byte) (ConfigPatch, error) {
	var p ConfigPatch
	if err := yaml.Unmarshal(data, &p); err != nil {
		return ConfigPatch{}, fmt.Errorf("parse config patch: %w", err)
	}
	return p, nil
}

// LoadConfig decodes a YAML document as a patch over DefaultConfig.
func LoadConfig(data []byte) (SceneConfig, error) {
	cfg := DefaultConfig()
	p, err := ParsePatch(data)
	if err != nil {
		return cfg, err
	}
	cfg.Apply(p)
	return cfg, nil
}
