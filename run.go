package showroom

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title     string
	Width     int
	Height    int
	ShowFPS   bool
	Resizable bool

	// Update, if set, runs every frame after the scene update. Returning
	// ebiten.Termination (or any error) ends Run.
	Update func() error

	// Runner, if set, drives the scene from a test script and quits once
	// the script is done and its screenshots are written.
	Runner *TestRunner
}

// Run opens a window and drives scene until the window closes. The scene
// reads the physical mouse only while Run owns it. The scene is disposed
// when Run returns.
func Run(scene *Scene, cfg RunConfig) error {
	if scene.IsDisposed() {
		return ErrDisposed
	}
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultHeight
	}
	if cfg.Title == "" {
		cfg.Title = "showroom"
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	scene.hostInput = true
	if cfg.Runner != nil {
		scene.SetTestRunner(cfg.Runner)
	}
	g := &game{scene: scene, cfg: cfg}
	if cfg.ShowFPS {
		g.fps = &fpsOverlay{}
	}
	defer func() {
		if g.fps != nil {
			g.fps.dispose()
		}
		scene.Dispose()
	}()

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene *Scene
	cfg   RunConfig
	fps   *fpsOverlay
	// quit is set once the runner finished and one more frame was drawn.
	quit bool
}

func (g *game) Update() error {
	if g.quit || g.scene.IsDisposed() {
		return ebiten.Termination
	}
	g.scene.Update()
	if g.cfg.Update != nil {
		if err := g.cfg.Update(); err != nil {
			return err
		}
	}
	if g.fps != nil {
		g.fps.update(1 / float64(ebiten.TPS()))
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
	if g.fps != nil {
		g.fps.draw(screen)
	}
	if r := g.cfg.Runner; r != nil && r.Done() && len(g.scene.screenshotQueue) == 0 {
		g.quit = true
	}
}

// Layout reports the device-pixel size of the screen, scaled by the
// renderer pixel ratio, and resizes the scene to match.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	ratio := g.scene.renderer.pixelRatio
	w := int(float64(outsideWidth) * ratio)
	h := int(float64(outsideHeight) * ratio)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	g.scene.Resize(float64(w), float64(h))
	return w, h
}
