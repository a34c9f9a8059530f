package video

import (
	"image"
	"image/color"
)

// Image is a simple ARGB pixel buffer used for layer images and
// framebuffers. A pixel value of 0 is fully transparent; opaque pixels
// carry 0xFF in the top byte.
type Image struct {
	Width  int
	Height int
	Pix    []uint32
}

// New creates a transparent image of the given size.
func New(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint32, width*height),
	}
}

// NewSolid creates an image filled with a single opaque color.
func NewSolid(width, height int, argb uint32) *Image {
	img := New(width, height)
	for i := range img.Pix {
		img.Pix[i] = argb | 0xFF000000
	}
	return img
}

func (img *Image) GetPixel(x, y int) uint32 {
	return img.Pix[y*img.Width+x]
}

func (img *Image) SetPixel(x, y int, argb uint32) {
	img.Pix[y*img.Width+x] = argb
}

func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.Width, img.Height)
}

// HasTransparency reports whether any pixel is not fully opaque.
func (img *Image) HasTransparency() bool {
	for _, p := range img.Pix {
		if p>>24 != 0xFF {
			return true
		}
	}
	return false
}

// Mirrored returns a copy flipped horizontally and/or vertically.
// With both flags false the copy is unchanged.
func (img *Image) Mirrored(horizontal, vertical bool) *Image {
	out := New(img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		srcY := y
		if vertical {
			srcY = img.Height - 1 - y
		}
		for x := 0; x < img.Width; x++ {
			srcX := x
			if horizontal {
				srcX = img.Width - 1 - x
			}
			out.Pix[y*out.Width+x] = img.Pix[srcY*img.Width+srcX]
		}
	}
	return out
}

// Clone returns a deep copy of the image.
func (img *Image) Clone() *Image {
	out := New(img.Width, img.Height)
	copy(out.Pix, img.Pix)
	return out
}

// ToRGBA converts the image to a standard library RGBA image.
func (img *Image) ToRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			p := img.Pix[y*img.Width+x]
			out.SetRGBA(x, y, color.RGBA{
				R: uint8(p >> 16),
				G: uint8(p >> 8),
				B: uint8(p),
				A: uint8(p >> 24),
			})
		}
	}
	return out
}

// RGB5To8 converts a 15-bit BGR555 hardware color to opaque ARGB.
// GBA palette entries store blue in the high bits.
func RGB5To8(rgb5 uint16) uint32 {
	r := uint32(rgb5&0x1F) << 3
	g := uint32((rgb5>>5)&0x1F) << 3
	b := uint32((rgb5>>10)&0x1F) << 3
	// replicate the top bits so white reaches 0xFF
	r |= r >> 5
	g |= g >> 5
	b |= b >> 5
	return 0xFF000000 | r<<16 | g<<8 | b
}
