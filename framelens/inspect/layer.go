// Package inspect decomposes a frozen frame into its visual layers, keeps
// them in an orderable, maskable queue, and replays operator edits through
// a secondary renderer to produce a recomposited frame.
package inspect

import (
	"fmt"
	"image"

	"github.com/valerio/go-framelens/framelens/video"
)

// LayerType classifies a layer by the hardware feature that produced it.
type LayerType int

const (
	LayerNone LayerType = iota
	LayerBackground
	LayerWindow
	LayerSprite
	LayerBackdrop
)

// LayerID identifies one layer by kind and hardware index. Equality is
// structural, so it works as a map key. Index is -1 for kinds without one.
type LayerID struct {
	Type  LayerType
	Index int
}

// NoLayer is the "nothing selected" id.
var NoLayer = LayerID{Type: LayerNone, Index: -1}

// Readable returns the operator-facing label for the layer.
func (id LayerID) Readable() string {
	var typeStr string
	switch id.Type {
	case LayerNone:
		return "None"
	case LayerBackground:
		typeStr = "Background"
	case LayerWindow:
		typeStr = "Window"
	case LayerSprite:
		typeStr = "Sprite"
	case LayerBackdrop:
		typeStr = "Backdrop"
	}
	if id.Index < 0 {
		return typeStr
	}
	return fmt.Sprintf("%s %d", typeStr, id.Index)
}

// Layer is one compositable visual element of a decomposed frame. Image,
// mask and placement are rebuilt wholesale on every decomposition; only
// Enabled is mutated in place afterwards.
type Layer struct {
	ID       LayerID
	Enabled  bool
	Image    *video.Image
	Mask     video.Region
	Location image.Point
	Repeats  bool
}

// QueueItem is the presentation projection of a layer: everything a list
// widget needs, nothing it can mutate. The queue itself stays the source
// of truth.
type QueueItem struct {
	Label    string
	Checked  bool
	Selected bool
	Index    int
}
