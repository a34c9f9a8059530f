// Package terminal renders the inspector in a terminal using tcell. The
// layer queue sits in a left panel; the composited frame is drawn beside
// it with half-block cells, two pixels per character cell.
package terminal

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/valerio/go-framelens/framelens/backend"
)

const (
	queueWidth = 26
	frameTime  = time.Second / 30
)

// Backend implements backend.Backend on a tcell screen.
type Backend struct {
	screen tcell.Screen
	config backend.Config
	cursor int
	quit   bool
}

func New() *Backend {
	return &Backend{}
}

// NewWithScreen runs the backend on a caller-provided screen. Used with
// tcell's simulation screen.
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{screen: screen}
}

func (t *Backend) Init(config backend.Config) error {
	t.config = config

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to open terminal: %w", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	t.screen.EnableMouse()
	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	slog.Info("Terminal backend initialized")
	return nil
}

func (t *Backend) Run(session backend.Session) error {
	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	for !t.quit {
		t.pollEvents(session)
		if t.quit {
			break
		}
		if t.config.OnTick != nil {
			if err := t.config.OnTick(); err != nil {
				return err
			}
		}
		t.draw(session)
		t.screen.Show()
		<-ticker.C
	}
	if t.config.OnQuit != nil {
		t.config.OnQuit()
	}
	return nil
}

func (t *Backend) Cleanup() error {
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}

func (t *Backend) pollEvents(session backend.Session) {
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.handleKey(ev, session)
		case *tcell.EventMouse:
			t.handleMouse(ev, session)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func (t *Backend) handleKey(ev *tcell.EventKey, session backend.Session) {
	items := session.Items()

	switch ev.Key() {
	case tcell.KeyUp:
		if t.cursor > 0 {
			t.cursor--
		}
		return
	case tcell.KeyDown:
		if t.cursor < len(items)-1 {
			t.cursor++
		}
		return
	case tcell.KeyEnter:
		session.SelectIndex(t.cursor)
		return
	case tcell.KeyEscape, tcell.KeyCtrlC:
		t.quit = true
		return
	}

	switch ev.Rune() {
	case ' ':
		if t.cursor < len(items) {
			session.SetLayerEnabled(t.cursor, !items[t.cursor].Checked)
		}
	case 'f':
		session.SetFrozen(!session.Frozen())
	case 's':
		t.saveFrame(session)
	case '+', '=':
		session.SetMagnification(session.Magnification() + 1)
	case '-':
		session.SetMagnification(session.Magnification() - 1)
	case 'q':
		t.quit = true
	}
}

func (t *Backend) handleMouse(ev *tcell.EventMouse, session backend.Session) {
	x, y := ev.Position()
	if x < queueWidth {
		if ev.Buttons()&tcell.Button1 != 0 {
			items := session.Items()
			if y < len(items) {
				t.cursor = y
				session.SelectIndex(y)
			}
		}
		return
	}

	// cells map to native pixels: one wide, two tall
	p := image.Pt(x-queueWidth, y*2).Mul(session.Magnification())
	switch {
	case ev.Buttons()&tcell.Button1 != 0:
		session.SelectAt(p)
	case ev.Buttons()&(tcell.Button2|tcell.Button3) != 0:
		session.DisableAt(p)
	}
}

func (t *Backend) saveFrame(session backend.Session) {
	img := session.Composited()
	if img == nil {
		return
	}
	path := fmt.Sprintf("framelens-%s.png", time.Now().Format("20060102-150405"))
	if err := img.SavePNG(path, session.Magnification()); err != nil {
		slog.Error("Failed to save frame", "path", path, "error", err)
	}
}

func (t *Backend) draw(session backend.Session) {
	t.screen.Clear()
	t.drawQueue(session)
	t.drawFrame(session)
}

func (t *Backend) drawQueue(session backend.Session) {
	items := session.Items()
	if t.cursor >= len(items) && len(items) > 0 {
		t.cursor = len(items) - 1
	}
	style := tcell.StyleDefault
	for i, item := range items {
		line := backend.QueueLine(item, i == t.cursor)
		rowStyle := style
		if i == t.cursor {
			rowStyle = style.Bold(true)
		}
		for col, r := range line {
			if col >= queueWidth-1 {
				break
			}
			t.screen.SetContent(col, i, r, nil, rowStyle)
		}
	}
	if session.Frozen() {
		for col, r := range "[frozen]" {
			t.screen.SetContent(col, len(items)+1, r, nil, style.Foreground(tcell.ColorYellow))
		}
	}
}

func (t *Backend) drawFrame(session backend.Session) {
	img := session.Composited()
	if img == nil {
		img = session.Rendered()
	}
	if img == nil {
		return
	}
	for y := 0; y < img.Height; y += 2 {
		for x := 0; x < img.Width; x++ {
			top := cellColor(img.GetPixel(x, y))
			bottom := tcell.ColorBlack
			if y+1 < img.Height {
				bottom = cellColor(img.GetPixel(x, y+1))
			}
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			t.screen.SetContent(queueWidth+x, y/2, '▀', nil, style)
		}
	}
}

func cellColor(argb uint32) tcell.Color {
	return tcell.NewRGBColor(
		int32(argb>>16&0xFF),
		int32(argb>>8&0xFF),
		int32(argb&0xFF),
	)
}
