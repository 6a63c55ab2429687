package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"hexdial/pkg/picker"
)

// tileFill is the share of the display a full-size tile covers.
const tileFill = 0.95

var (
	backgroundColor = color.RGBA{R: 0x10, G: 0x10, B: 0x14, A: 0xff}
	outlineColor    = color.RGBA{R: 0x30, G: 0x30, B: 0x38, A: 0xff}
	labelColor      = color.Black
	missingColor    = color.RGBA{R: 0xff, G: 0x40, B: 0x40, A: 0xff}
)

// AppGame hosts a picker session in an ebiten window. Mouse wheel and arrow
// keys feed Input; every ebiten Update is one Tick.
type AppGame struct {
	session *picker.Session
	logger  *slog.Logger

	frame    picker.Frame
	selected string

	overview bool
	keyStep  int
	wheelAcc float64

	face font.Face
}

func newAppGame(cfg picker.Config, loader picker.AssetLoader, overview bool, keyStep int, logger *slog.Logger) (*AppGame, error) {
	a := &AppGame{
		logger:   logger,
		overview: overview,
		keyStep:  keyStep,
		face:     basicfont.Face7x13,
	}
	s, err := picker.NewSession(cfg, logger, picker.SessionOptions{
		Loader:   loader,
		Renderer: a,
		OnSettle: a.onSettle,
	})
	if err != nil {
		return nil, err
	}
	if st := s.Init(); st != picker.StatusOK {
		return nil, fmt.Errorf("picker init: %s", st)
	}
	a.session = s
	a.frame = s.Frame()
	return a, nil
}

// Render implements picker.Renderer.
func (a *AppGame) Render(f picker.Frame) {
	a.frame = f
}

func (a *AppGame) onSettle(sel picker.Selection) {
	a.selected = fmt.Sprintf("tile %d", sel.Index+1)
	a.logger.Info("tile selected", "index", sel.Index, "angle", sel.Angle)
}

func (a *AppGame) Update() error {
	if delta := a.readInput(); delta != 0 {
		a.session.Input(delta)
	}
	if st := a.session.Tick(); st != picker.StatusOK {
		return fmt.Errorf("picker tick: %s", st)
	}
	return nil
}

// readInput returns the detents requested this frame. Fractional wheel
// offsets (touchpads) accumulate until they reach a whole detent.
func (a *AppGame) readInput() int {
	_, dy := ebiten.Wheel()
	a.wheelAcc += dy
	delta := int(a.wheelAcc)
	a.wheelAcc -= float64(delta)

	switch {
	case ebiten.IsKeyPressed(ebiten.KeyArrowRight), ebiten.IsKeyPressed(ebiten.KeyArrowDown):
		delta += a.keyStep
	case ebiten.IsKeyPressed(ebiten.KeyArrowLeft), ebiten.IsKeyPressed(ebiten.KeyArrowUp):
		delta -= a.keyStep
	}
	// Page keys jump roughly one tile.
	if inpututil.IsKeyJustPressed(ebiten.KeyPageDown) {
		delta += tileDetents()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
		delta -= tileDetents()
	}
	return delta
}

func tileDetents() int {
	return int(math.Round(picker.TileSpacing / picker.DefaultAngleStep))
}

func (a *AppGame) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	fx, fy := a.focus()
	base := float32(picker.DefaultScreenSize * tileFill / 2)

	if a.overview {
		r := float32(a.frame.Radius)
		vector.StrokeCircle(screen, fx+r, fy, r, 1, outlineColor, true)
		vector.StrokeRect(screen, fx-picker.DefaultScreenSize/2, fy-picker.DefaultScreenSize/2,
			picker.DefaultScreenSize, picker.DefaultScreenSize, 1, outlineColor, false)
	}

	for _, t := range a.frame.Tiles {
		cx := fx + float32(t.X)
		cy := fy + float32(t.Y)
		r := base * float32(t.Scale)

		vector.DrawFilledCircle(screen, cx, cy, r, t.Color.Clamped(), true)
		if t.Glyph.Missing {
			vector.StrokeCircle(screen, cx, cy, r, 2, missingColor, true)
		}

		b := text.BoundString(a.face, t.Label)
		text.Draw(screen, t.Label, a.face, int(cx)-b.Dx()/2, int(cy)+b.Dy()/2, labelColor)
	}

	if a.overview {
		status := a.frame.State.String()
		if a.frame.State == picker.StateSettled && a.selected != "" {
			status = a.selected
		}
		text.Draw(screen, status, a.face, 4, 14, color.White)
	}
}

// focus is where the selected tile is drawn, in screen coordinates.
func (a *AppGame) focus() (float32, float32) {
	w, h := a.Layout(0, 0)
	if a.overview {
		return picker.DefaultScreenSize/2 + 8, float32(h) / 2
	}
	return float32(w) / 2, float32(h) / 2
}

func (a *AppGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	if !a.overview {
		return picker.DefaultScreenSize, picker.DefaultScreenSize
	}
	r := picker.WheelRadius(picker.DefaultEdgeLength)
	w := int(2*r+picker.DefaultScreenSize) + 16
	h := int(2*r+picker.DefaultScreenSize) + 16
	return w, h
}
