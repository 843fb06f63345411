package showroom

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, interaction events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type     EventType
	EntityID uint32
	ScreenX  float64
	ScreenY  float64
	Button   MouseButton
	// Hit fields (valid for EventHoverEnter, EventHoverLeave, EventClick)
	Point    mgl32.Vec3
	Distance float32
}

const (
	defaultWidth  = 800
	defaultHeight = 600
)

// GroundName is the name of the ground plane node.
const GroundName = "ground"

// Scene owns the node tree, camera, controls, lights, input state and the
// interactions tracking pointer hover and clicks.
type Scene struct {
	root   *Node
	store  EntityStore
	debug  bool
	config SceneConfig

	camera   *Camera
	controls *OrbitControls
	renderer *renderer
	ground   *Node
	lights   Lights
	width    float64
	height   float64

	// Input state
	handlers     handlerRegistry
	pointer      pointerState
	injectQueue  []syntheticPointerEvent
	hostInput    bool
	resizeHandle CallbackHandle

	interactions []*Interaction
	scheduler    Scheduler
	anim         animator
	flashBase    map[*Material]*emissiveHold

	// Automated visual testing
	testRunner      *TestRunner
	screenshotQueue []string
	// ScreenshotDir is where Screenshot writes PNGs. Empty means
	// DefaultScreenshotDir.
	ScreenshotDir string

	// Async model loads
	loadCtx    context.Context
	cancelLoad context.CancelFunc
	loadCh     chan loadResult
	loading    int

	frame    uint64
	disposed bool
}

// NewScene merges patches over DefaultConfig, in order, and builds the
// camera, controls, renderer state, and the ground and lights that are
// enabled. The render surface starts at 800x600 until the host reports
// its size through Resize.
func NewScene(patches ...ConfigPatch) *Scene {
	cfg := DefaultConfig()
	for _, p := range patches {
		cfg.Apply(p)
	}

	s := &Scene{
		root:          NewGroup("root"),
		config:        cfg,
		width:         defaultWidth,
		height:        defaultHeight,
		loadCh:        make(chan loadResult),
		ScreenshotDir: DefaultScreenshotDir,
	}
	s.loadCtx, s.cancelLoad = context.WithCancel(context.Background())

	s.camera = NewCamera(cfg.Camera, s.width, s.height)
	s.controls = NewOrbitControls(s.camera, cfg.Controls)
	s.renderer = newRenderer(cfg.Renderer)

	if cfg.Ground.Visible {
		s.ensureGround()
	}
	if cfg.Lights.Hemisphere.Enabled {
		s.lights.Hemisphere = newHemisphereLight(cfg.Lights.Hemisphere)
	}
	if cfg.Lights.Directional.Enabled {
		s.lights.Directional = newDirectionalLight(cfg.Lights.Directional)
	}

	s.resizeHandle = s.OnResize(func(ctx ResizeContext) {
		s.camera.SetViewport(ctx.Width, ctx.Height)
	})
	return s
}

// Root returns the scene's root node.
func (s *Scene) Root() *Node {
	return s.root
}

// Add attaches n to the scene root.
func (s *Scene) Add(n *Node) {
	s.root.AddChild(n)
}

// Camera returns the scene camera.
func (s *Scene) Camera() *Camera {
	return s.camera
}

// Controls returns the orbit controls driving the camera.
func (s *Scene) Controls() *OrbitControls {
	return s.controls
}

// Config returns a copy of the current configuration.
func (s *Scene) Config() SceneConfig {
	return s.config
}

// Ground returns the ground plane node, or nil if it was never enabled.
func (s *Scene) Ground() *Node {
	return s.ground
}

// Lights returns the scene lights. A light that was never enabled is nil.
func (s *Scene) Lights() Lights {
	return s.lights
}

// Scheduler returns the frame-driven timer queue. Tasks run on the update
// goroutine and are cancelled by Dispose.
func (s *Scene) Scheduler() *Scheduler {
	return &s.scheduler
}

// Size returns the render surface size in pixels.
func (s *Scene) Size() (width, height float64) {
	return s.width, s.height
}

// Frame returns the number of updates run so far.
func (s *Scene) Frame() uint64 {
	return s.frame
}

// IsDisposed reports whether Dispose has been called.
func (s *Scene) IsDisposed() bool {
	return s.disposed
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth warnings and interaction transitions are
// printed, and per-frame render stats are logged to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene; multiple Scenes with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool

// Animate runs g from Scene.Update until it finishes.
func (s *Scene) Animate(g *TweenGroup) {
	if s.disposed || g == nil {
		return
	}
	s.anim.add(g)
}

// Resize changes the render surface size and fires the resize handlers.
// Sizes that do not change anything are ignored.
func (s *Scene) Resize(width, height float64) {
	if s.disposed || width <= 0 || height <= 0 {
		return
	}
	if width == s.width && height == s.height {
		return
	}
	s.width, s.height = width, height
	s.fireResize(width, height)
}

// --- Configuration ---

// UpdateConfig merges patch into the current configuration and updates the
// live objects of every section it touches. A ground or light that becomes
// enabled is created once; one that becomes disabled is hidden.
func (s *Scene) UpdateConfig(patch ConfigPatch) error {
	if s.disposed {
		return fmt.Errorf("update config: %w", ErrDisposed)
	}
	changed := s.config.Apply(patch)
	cfg := &s.config

	if changed.Has(SectionCamera) {
		s.camera.applyPatch(patch.Camera)
	}
	if changed.Has(SectionRenderer) {
		s.renderer.applyConfig(cfg.Renderer)
	}
	if changed.Has(SectionControls) {
		s.controls.applyConfig(cfg.Controls)
	}
	if changed.Has(SectionGround) {
		if cfg.Ground.Visible {
			s.ensureGround()
		}
		if s.ground != nil {
			s.applyGround()
		}
	}
	if changed.Has(SectionHemisphere) {
		if cfg.Lights.Hemisphere.Enabled && s.lights.Hemisphere == nil {
			s.lights.Hemisphere = newHemisphereLight(cfg.Lights.Hemisphere)
		}
		if s.lights.Hemisphere != nil {
			s.lights.Hemisphere.applyConfig(cfg.Lights.Hemisphere)
		}
	}
	if changed.Has(SectionDirectional) {
		if cfg.Lights.Directional.Enabled && s.lights.Directional == nil {
			s.lights.Directional = newDirectionalLight(cfg.Lights.Directional)
		}
		if s.lights.Directional != nil {
			s.lights.Directional.applyConfig(cfg.Lights.Directional)
		}
	}
	if changed != 0 {
		debugf("config updated (sections %08b)", changed)
	}
	return nil
}

// ensureGround creates the ground plane if it does not exist yet.
func (s *Scene) ensureGround() {
	if s.ground != nil {
		return
	}
	g := s.config.Ground
	mat := NewMaterial(g.Color)
	mat.Name = GroundName
	s.ground = NewMesh(GroundName, NewPlaneGeometry(g.Size[0], g.Size[1]), mat)
	s.ground.Rotation[0] = -math.Pi / 2
	s.ground.Position[1] = g.Y
	s.root.AddChild(s.ground)
}

// applyGround copies the ground section onto the existing ground node,
// rebuilding the plane if its size changed.
func (s *Scene) applyGround() {
	g := s.config.Ground
	n := s.ground
	n.Visible = g.Visible
	n.Position[1] = g.Y
	n.Material.Color = g.Color
	n.Material.Roughness = g.Roughness

	lo, hi := n.Geometry.Bounds()
	if hi[0]-lo[0] != g.Size[0] || hi[1]-lo[1] != g.Size[1] {
		n.Geometry.Dispose()
		n.Geometry = NewPlaneGeometry(g.Size[0], g.Size[1])
	}
}

// --- Frame loop ---

// Update runs one frame: injected or physical input, orbit controls,
// tweens and timers, then the hover tick and click dispatch of every
// interaction. It does nothing after Dispose.
func (s *Scene) Update() {
	s.update(float32(1.0 / float64(ebiten.TPS())))
}

func (s *Scene) update(dt float32) {
	if s.disposed {
		return
	}
	s.frame++

	s.deliverLoads()
	if s.disposed {
		return
	}
	if s.testRunner != nil {
		s.testRunner.step(s)
		if s.disposed {
			return
		}
	}
	s.processInput()
	if s.disposed {
		return
	}
	s.controls.Update()

	s.anim.update(dt)
	s.scheduler.Advance(time.Duration(float64(dt) * float64(time.Second)))
	if s.disposed {
		return
	}

	for _, it := range s.interactions {
		it.panel.update(dt)
		it.Tick()
	}
	for _, it := range s.interactions {
		it.processClick()
	}
	s.pruneInteractions()
}

// pruneInteractions drops disposed interactions.
func (s *Scene) pruneInteractions() {
	kept := s.interactions[:0]
	for _, it := range s.interactions {
		if !it.disposed {
			kept = append(kept, it)
		}
	}
	clear(s.interactions[len(kept):])
	s.interactions = kept
}

// Draw renders the scene and the tooltip panels to screen.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.disposed {
		return
	}
	s.renderer.draw(screen, s)
	for _, it := range s.interactions {
		if !it.disposed {
			it.panel.draw(screen)
		}
	}
	if s.debug {
		st := s.renderer.stats
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS: %.0f  tris: %d  culled: %d",
			ebiten.ActualTPS(), st.triangles, st.culled), 4, 4)
	}
	s.flushScreenshots(screen)
}

// --- Teardown ---

// Dispose removes the resize handler and every pointer handler, disposes
// all interactions, cancels scheduled tasks, tweens and in-flight loads,
// releases the controls and renderer, and disposes every node in the
// scene. It is safe to call more than once; Update and Draw do nothing
// afterwards.
func (s *Scene) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true

	s.resizeHandle.Remove()
	for _, it := range s.interactions {
		it.Dispose()
	}
	s.interactions = nil
	s.handlers.clear()
	s.injectQueue = nil
	s.testRunner = nil
	s.screenshotQueue = nil

	s.scheduler.Clear()
	s.flashBase = nil
	s.anim.stopAll()
	s.cancelLoad()

	s.controls.Dispose()
	s.renderer.dispose()
	s.root.Dispose()
	s.ground = nil
	s.lights = Lights{}
	debugf("scene disposed after %d frames", s.frame)
}
