// Package window renders the inspector in a desktop window using ebiten.
package window

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/valerio/go-framelens/framelens/backend"
	"github.com/valerio/go-framelens/framelens/video"
)

const (
	panelWidth = 200
	rowHeight  = 16
)

// Backend implements backend.Backend on an ebiten window.
type Backend struct {
	config backend.Config
}

func New() *Backend {
	return &Backend{}
}

func (w *Backend) Init(config backend.Config) error {
	w.config = config
	title := config.Title
	if title == "" {
		title = "framelens"
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetTPS(60)
	return nil
}

func (w *Backend) Run(session backend.Session) error {
	dims := session.ScreenDimensions()
	magnification := session.Magnification()
	ebiten.SetWindowSize(panelWidth+dims.X*magnification, max(dims.Y*magnification, 240))

	g := &game{config: w.config, session: session}
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("window loop failed: %w", err)
	}
	if w.config.OnQuit != nil {
		w.config.OnQuit()
	}
	return nil
}

func (w *Backend) Cleanup() error { return nil }

type game struct {
	config  backend.Config
	session backend.Session
	cursor  int
	frame   *ebiten.Image
}

func (g *game) Update() error {
	if g.config.OnTick != nil {
		if err := g.config.OnTick(); err != nil {
			return err
		}
	}

	items := g.session.Items()
	if g.cursor >= len(items) && len(items) > 0 {
		g.cursor = len(items) - 1
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		if g.cursor > 0 {
			g.cursor--
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		if g.cursor < len(items)-1 {
			g.cursor++
		}
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if g.cursor < len(items) {
			g.session.SetLayerEnabled(g.cursor, !items[g.cursor].Checked)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		g.session.SelectIndex(g.cursor)
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		g.session.SetFrozen(!g.session.Frozen())
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.saveFrame()
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.pointerAction(g.session.SelectAt, true)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.pointerAction(g.session.DisableAt, false)
	}
	return nil
}

func (g *game) pointerAction(act func(image.Point), selectRow bool) {
	x, y := ebiten.CursorPosition()
	if x < panelWidth {
		if !selectRow {
			return
		}
		row := y / rowHeight
		if row < len(g.session.Items()) {
			g.cursor = row
			g.session.SelectIndex(row)
		}
		return
	}
	act(image.Pt(x-panelWidth, y))
}

func (g *game) saveFrame() {
	img := g.session.Composited()
	if img == nil {
		return
	}
	path := fmt.Sprintf("framelens-%s.png", time.Now().Format("20060102-150405"))
	if err := img.SavePNG(path, g.session.Magnification()); err != nil {
		slog.Error("Failed to save frame", "path", path, "error", err)
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	if img := g.compositedFrame(); img != nil {
		op := &ebiten.DrawImageOptions{}
		magnification := float64(g.session.Magnification())
		op.GeoM.Scale(magnification, magnification)
		op.GeoM.Translate(panelWidth, 0)
		screen.DrawImage(img, op)
	}

	var lines []string
	for i, item := range g.session.Items() {
		lines = append(lines, backend.QueueLine(item, i == g.cursor))
	}
	if g.session.Frozen() {
		lines = append(lines, "", "[frozen]")
	}
	ebitenutil.DebugPrintAt(screen, strings.Join(lines, "\n"), 2, 2)
}

func (g *game) compositedFrame() *ebiten.Image {
	img := g.session.Composited()
	if img == nil {
		img = g.session.Rendered()
	}
	if img == nil {
		return nil
	}
	return g.upload(img)
}

func (g *game) upload(img *video.Image) *ebiten.Image {
	if g.frame == nil || g.frame.Bounds().Dx() != img.Width || g.frame.Bounds().Dy() != img.Height {
		g.frame = ebiten.NewImage(img.Width, img.Height)
	}
	g.frame.WritePixels(img.ToRGBA().Pix)
	return g.frame
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	dims := g.session.ScreenDimensions()
	magnification := g.session.Magnification()
	return panelWidth + dims.X*magnification, max(dims.Y*magnification, 240)
}
