package showroom

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	panelOffset   = 12   // pixels right of and below the pointer
	panelFade     = 0.12 // seconds
	panelFontSize = 14
	panelPadX     = 12
	panelPadY     = 8
)

var (
	panelFontOnce   sync.Once
	panelFontSource *text.GoTextFaceSource
)

// defaultPanelFace returns the Go Regular face used by tooltip panels, or
// nil if the embedded font failed to parse.
func defaultPanelFace() *text.GoTextFace {
	panelFontOnce.Do(func() {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			fmt.Fprintf(os.Stderr, "[showroom] panel font: %v\n", err)
			return
		}
		panelFontSource = src
	})
	if panelFontSource == nil {
		return nil
	}
	return &text.GoTextFace{Source: panelFontSource, Size: panelFontSize}
}

// Panel is a floating tooltip drawn over the 3D view. It follows the
// pointer at a fixed offset and fades in and out as it is shown and hidden.
type Panel struct {
	Text       string
	Background Color
	Foreground Color

	// X and Y are the pointer position the panel is anchored to.
	X, Y float64
	// OffsetX and OffsetY place the panel relative to the anchor.
	OffsetX, OffsetY float64

	shown bool
	alpha float32
	fade  *gween.Tween

	face    *text.GoTextFace
	img     *ebiten.Image
	imgText string

	removed bool
}

// NewPanel creates a hidden panel displaying s.
func NewPanel(s string) *Panel {
	return &Panel{
		Text:       s,
		Background: Color{0, 0, 0, 0.7},
		Foreground: ColorWhite,
		OffsetX:    panelOffset,
		OffsetY:    panelOffset,
	}
}

// Show fades the panel in. Calling Show on a shown panel does nothing.
func (p *Panel) Show() {
	if p.shown || p.removed {
		return
	}
	p.shown = true
	p.fade = gween.New(p.alpha, 1, panelFade, ease.Linear)
}

// Hide fades the panel out.
func (p *Panel) Hide() {
	if !p.shown || p.removed {
		return
	}
	p.shown = false
	p.fade = gween.New(p.alpha, 0, panelFade, ease.Linear)
}

// Visible reports whether the panel is shown or fading in. A panel that is
// fading out already counts as hidden.
func (p *Panel) Visible() bool {
	return p.shown
}

// Alpha returns the current opacity in [0, 1].
func (p *Panel) Alpha() float32 {
	return p.alpha
}

// MoveTo anchors the panel to the pointer position (x, y).
func (p *Panel) MoveTo(x, y float64) {
	p.X, p.Y = x, y
}

// Bounds returns the screen rectangle the panel occupies. Before the first
// draw the size is estimated from the text length.
func (p *Panel) Bounds() Rect {
	w, h := p.size()
	return Rect{X: p.X + p.OffsetX, Y: p.Y + p.OffsetY, Width: w, Height: h}
}

func (p *Panel) size() (float64, float64) {
	if p.img != nil && p.imgText == p.Text {
		b := p.img.Bounds()
		return float64(b.Dx()), float64(b.Dy())
	}
	if p.face != nil {
		w, h := text.Measure(p.Text, p.face, 0)
		return w + 2*panelPadX, h + 2*panelPadY
	}
	// Rough estimate: Go Regular averages a little over half an em per glyph.
	return float64(len(p.Text))*panelFontSize*0.55 + 2*panelPadX, panelFontSize*1.2 + 2*panelPadY
}

func (p *Panel) update(dt float32) {
	if p.fade == nil {
		return
	}
	v, done := p.fade.Update(dt)
	p.alpha = v
	if done {
		p.fade = nil
	}
}

// render rebuilds the offscreen image when the text changes.
func (p *Panel) render() {
	if p.img != nil && p.imgText == p.Text {
		return
	}
	if p.face == nil {
		p.face = defaultPanelFace()
		if p.face == nil {
			return
		}
	}
	if p.img != nil {
		p.img.Deallocate()
	}
	tw, th := text.Measure(p.Text, p.face, 0)
	w := int(tw) + 2*panelPadX
	h := int(th) + 2*panelPadY
	p.img = ebiten.NewImage(max(w, 1), max(h, 1))
	p.img.Fill(p.Background.toRGBA())

	op := &text.DrawOptions{}
	op.GeoM.Translate(panelPadX, panelPadY)
	op.ColorScale.ScaleWithColor(p.Foreground.toRGBA())
	text.Draw(p.img, p.Text, p.face, op)
	p.imgText = p.Text
}

func (p *Panel) draw(screen *ebiten.Image) {
	if p.removed || p.alpha <= 0 || p.Text == "" {
		return
	}
	p.render()
	if p.img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(p.X+p.OffsetX, p.Y+p.OffsetY)
	op.ColorScale.ScaleAlpha(p.alpha)
	screen.DrawImage(p.img, op)
}

// dispose releases the offscreen image. A removed panel never draws again.
func (p *Panel) dispose() {
	p.removed = true
	p.shown = false
	p.alpha = 0
	p.fade = nil
	if p.img != nil {
		p.img.Deallocate()
		p.img = nil
	}
}
