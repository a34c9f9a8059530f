package inspect

import (
	"image"

	"github.com/valerio/go-framelens/framelens/core"
)

// Decomposer derives the ordered layer sequence for one frozen frame from
// raw video-controller state. Implementations push layers front-to-back
// (lowest numeric priority first, backdrop last) and must be idempotent:
// identical state yields an identical sequence.
type Decomposer interface {
	// Decompose reads state and pushes one Layer per visible hardware
	// element into the queue. The queue has already been Reset.
	Decompose(state core.MemoryReader, q *LayerQueue)

	// Inject applies the queue's enabled/active configuration to the
	// replayer ahead of a recomposition frame.
	Inject(r core.Replayer, q *LayerQueue, glowFrame int)

	// ScreenDimensions returns the platform's native frame size.
	ScreenDimensions() image.Point
}

// DecomposerFor returns the decomposer for a platform, or nil when the
// platform has no layer decomposition support.
func DecomposerFor(platform core.Platform) Decomposer {
	switch platform {
	case core.PlatformGBA:
		return gbaDecomposer{}
	case core.PlatformGB:
		return gbDecomposer{}
	}
	return nil
}
