package showroom

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsRefresh is how often the FPS overlay redraws, in seconds.
const fpsRefresh = 0.5

// fpsOverlay shows the current FPS and TPS in the top-right corner.
// The text is redrawn into its own image every half second.
type fpsOverlay struct {
	img     *ebiten.Image
	elapsed float64
}

func (f *fpsOverlay) update(dt float64) {
	if f.img == nil {
		// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
		f.img = ebiten.NewImage(100, 32)
		f.elapsed = fpsRefresh
	}
	f.elapsed += dt
	if f.elapsed < fpsRefresh {
		return
	}
	f.elapsed = 0

	f.img.Clear()
	f.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(f.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}

func (f *fpsOverlay) draw(screen *ebiten.Image) {
	if f.img == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(screen.Bounds().Dx()-f.img.Bounds().Dx()-4), 4)
	screen.DrawImage(f.img, &op)
}

func (f *fpsOverlay) dispose() {
	if f.img != nil {
		f.img.Deallocate()
		f.img = nil
	}
}
