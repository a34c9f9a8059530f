// Package backend defines the display frontends the inspector can run
// under. Backends own their platform loop (terminal or window), translate
// input into session calls, and draw the session's layer queue next to
// its composited frame.
package backend

import (
	"fmt"
	"image"

	"github.com/valerio/go-framelens/framelens/inspect"
	"github.com/valerio/go-framelens/framelens/video"
)

// Session is the inspector surface a backend drives. *inspect.Inspector
// satisfies it.
type Session interface {
	Items() []inspect.QueueItem
	Composited() *video.Image
	Rendered() *video.Image
	ScreenDimensions() image.Point

	SelectAt(p image.Point)
	DisableAt(p image.Point)
	SelectIndex(index int)
	SetLayerEnabled(index int, enabled bool)
	SetFrozen(frozen bool)
	Frozen() bool
	SetMagnification(magnification int)
	Magnification() int
}

// Config holds configuration for backends.
type Config struct {
	Title         string
	Magnification int

	// OnTick runs once per display frame, before drawing. The host uses
	// it to advance the machine driving the session.
	OnTick func() error

	// OnQuit is called when the backend requests shutdown.
	OnQuit func()
}

// Backend is a complete display frontend.
type Backend interface {
	// Init prepares platform resources. Required before Run.
	Init(config Config) error

	// Run drives the session until the user quits or OnTick fails.
	Run(session Session) error

	// Cleanup releases resources when shutting down.
	Cleanup() error
}

// QueueLine formats one layer-queue entry for display. The cursor marker
// is the backend's row focus, independent of the highlight selection.
func QueueLine(item inspect.QueueItem, cursor bool) string {
	marker := ' '
	if cursor {
		marker = '>'
	}
	checked := ' '
	if item.Checked {
		checked = 'x'
	}
	selected := ' '
	if item.Selected {
		selected = '*'
	}
	return fmt.Sprintf("%c[%c]%c %s", marker, checked, selected, item.Label)
}
