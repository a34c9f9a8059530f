package inspect

import "image"

// Locate finds the layer under a point: the first enabled, non-suppressed
// layer in stored order whose mask contains it. Since the queue stores
// layers front-to-back, the first match is the front-most visible layer.
// Returns nil when no layer matches.
//
// Tiling layers repeat across the frame, so the mask is additionally
// tested at the right, down, and right+down wrapped translations. A
// strongly negative offset (the base tile fully left of or above the
// frame) is first folded back by the layer size so the wrapped copies
// cover the visible area.
func (q *LayerQueue) Locate(p image.Point) *Layer {
	for i := range q.layers {
		layer := &q.layers[i]
		if !layer.Enabled || q.IsDisabled(layer.ID) {
			continue
		}

		w, h := layer.Image.Width, layer.Image.Height
		loc := layer.Location
		if layer.Repeats {
			if loc.X+w < 0 {
				loc.X %= w
			}
			if loc.Y+h < 0 {
				loc.Y %= h
			}
			if layer.Mask.Translated(loc.X, loc.Y).Contains(p) ||
				layer.Mask.Translated(loc.X+w, loc.Y).Contains(p) ||
				layer.Mask.Translated(loc.X, loc.Y+h).Contains(p) ||
				layer.Mask.Translated(loc.X+w, loc.Y+h).Contains(p) {
				return layer
			}
			continue
		}

		if layer.Mask.Translated(loc.X, loc.Y).Contains(p) {
			return layer
		}
	}
	return nil
}
