package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRGB5To8(t *testing.T) {
	tests := []struct {
		name     string
		rgb5     uint16
		expected uint32
	}{
		{"black", 0x0000, 0xFF000000},
		{"white", 0x7FFF, 0xFFFFFFFF},
		{"pure red", 0x001F, 0xFFFF0000},
		{"pure green", 0x03E0, 0xFF00FF00},
		{"pure blue", 0x7C00, 0xFF0000FF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RGB5To8(tt.rgb5))
		})
	}
}

func TestMirrored(t *testing.T) {
	img := New(2, 2)
	img.SetPixel(0, 0, 0xFF000001)
	img.SetPixel(1, 0, 0xFF000002)
	img.SetPixel(0, 1, 0xFF000003)
	img.SetPixel(1, 1, 0xFF000004)

	h := img.Mirrored(true, false)
	assert.Equal(t, uint32(0xFF000002), h.GetPixel(0, 0))
	assert.Equal(t, uint32(0xFF000001), h.GetPixel(1, 0))

	v := img.Mirrored(false, true)
	assert.Equal(t, uint32(0xFF000003), v.GetPixel(0, 0))
	assert.Equal(t, uint32(0xFF000001), v.GetPixel(0, 1))

	both := img.Mirrored(true, true)
	assert.Equal(t, uint32(0xFF000004), both.GetPixel(0, 0))

	none := img.Mirrored(false, false)
	assert.Equal(t, img.Pix, none.Pix)
}

func TestHasTransparency(t *testing.T) {
	solid := NewSolid(4, 4, 0x123456)
	assert.False(t, solid.HasTransparency())

	img := New(4, 4)
	assert.True(t, img.HasTransparency())

	img = NewSolid(4, 4, 0)
	img.SetPixel(2, 2, 0)
	assert.True(t, img.HasTransparency())
}

func TestNewSolidForcesOpaque(t *testing.T) {
	img := NewSolid(2, 2, 0x00FF00)
	assert.Equal(t, uint32(0xFF00FF00), img.GetPixel(0, 0))
}
