package video

import "image"

// Region is a set of pixel coordinates expressed as rectangles, used as a
// layer's hit-test mask. Rectangles may overlap; containment is a union test.
type Region []image.Rectangle

// FullRegion returns a region covering a whole width x height area.
func FullRegion(width, height int) Region {
	return Region{image.Rect(0, 0, width, height)}
}

// Contains reports whether the point falls inside any rectangle.
func (r Region) Contains(p image.Point) bool {
	for _, rect := range r {
		if p.In(rect) {
			return true
		}
	}
	return false
}

// Translated returns the region shifted by (dx, dy).
func (r Region) Translated(dx, dy int) Region {
	out := make(Region, len(r))
	for i, rect := range r {
		out[i] = rect.Add(image.Pt(dx, dy))
	}
	return out
}

// OpaqueRegion builds the region of non-transparent pixels of an image,
// as one rectangle per horizontal run of opaque pixels.
func OpaqueRegion(img *Image) Region {
	var out Region
	for y := 0; y < img.Height; y++ {
		runStart := -1
		for x := 0; x < img.Width; x++ {
			opaque := img.Pix[y*img.Width+x]>>24 != 0
			if opaque && runStart < 0 {
				runStart = x
			}
			if !opaque && runStart >= 0 {
				out = append(out, image.Rect(runStart, y, x, y+1))
				runStart = -1
			}
		}
		if runStart >= 0 {
			out = append(out, image.Rect(runStart, y, img.Width, y+1))
		}
	}
	return out
}

// MaskFor derives a layer's hit-test mask from its image: the opaque
// region when the image carries transparency, the full bounding rectangle
// otherwise.
func MaskFor(img *Image) Region {
	if img.HasTransparency() {
		return OpaqueRegion(img)
	}
	return FullRegion(img.Width, img.Height)
}
