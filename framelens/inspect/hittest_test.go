package inspect

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valerio/go-framelens/framelens/video"
)

func sizedLayer(id LayerID, w, h int, loc image.Point, repeats bool) Layer {
	img := video.NewSolid(w, h, 0xFFFFFF)
	return Layer{
		ID:       id,
		Image:    img,
		Mask:     video.FullRegion(w, h),
		Location: loc,
		Repeats:  repeats,
	}
}

func TestLocateFrontMostWins(t *testing.T) {
	q := NewLayerQueue()
	front := LayerID{Type: LayerSprite, Index: 0}
	back := LayerID{Type: LayerBackground, Index: 0}
	// stored order is front-to-back
	q.Push(sizedLayer(front, 16, 16, image.Pt(10, 10), false))
	q.Push(sizedLayer(back, 256, 256, image.Pt(0, 0), false))

	hit := q.Locate(image.Pt(12, 12))
	assert.NotNil(t, hit)
	assert.Equal(t, front, hit.ID)

	// outside the sprite the background wins
	hit = q.Locate(image.Pt(100, 100))
	assert.NotNil(t, hit)
	assert.Equal(t, back, hit.ID)
}

func TestLocateSkipsDisabledLayers(t *testing.T) {
	q := NewLayerQueue()
	front := LayerID{Type: LayerSprite, Index: 0}
	back := LayerID{Type: LayerBackground, Index: 0}
	q.Push(sizedLayer(front, 16, 16, image.Pt(10, 10), false))
	q.Push(sizedLayer(back, 256, 256, image.Pt(0, 0), false))

	q.Disable(front)
	hit := q.Locate(image.Pt(12, 12))
	assert.NotNil(t, hit)
	assert.Equal(t, back, hit.ID)
}

func TestLocateEmptyQueue(t *testing.T) {
	q := NewLayerQueue()
	assert.Nil(t, q.Locate(image.Pt(0, 0)))

	id := LayerID{Type: LayerBackground, Index: 0}
	q.Push(sizedLayer(id, 256, 256, image.Pt(0, 0), true))
	q.Disable(id)
	assert.Nil(t, q.Locate(image.Pt(10, 10)), "fully-disabled queue yields no layer")
}

func TestLocateTilingWrap(t *testing.T) {
	q := NewLayerQueue()
	id := LayerID{Type: LayerBackground, Index: 0}
	q.Push(sizedLayer(id, 256, 256, image.Pt(-200, 0), true))

	// primary copy covers x in [-200, 56)
	primary := q.Locate(image.Pt(30, 10))
	assert.NotNil(t, primary)
	assert.Equal(t, id, primary.ID)

	// x=60 is outside the primary copy but inside the wrapped one
	wrapped := q.Locate(image.Pt(60, 10))
	assert.NotNil(t, wrapped)
	assert.Equal(t, id, wrapped.ID, "wrapped copy must hit the same layer")
}

func TestLocateTilingFoldsDeepOffsets(t *testing.T) {
	q := NewLayerQueue()
	id := LayerID{Type: LayerBackground, Index: 0}
	// base tile fully out of frame; folded back to -44
	q.Push(sizedLayer(id, 256, 256, image.Pt(-300, -300), true))

	hit := q.Locate(image.Pt(60, 60))
	assert.NotNil(t, hit)
	assert.Equal(t, id, hit.ID)
}

func TestLocateNonRepeatingDoesNotWrap(t *testing.T) {
	q := NewLayerQueue()
	id := LayerID{Type: LayerSprite, Index: 0}
	q.Push(sizedLayer(id, 256, 256, image.Pt(-200, 0), false))

	assert.NotNil(t, q.Locate(image.Pt(30, 10)))
	assert.Nil(t, q.Locate(image.Pt(60, 10)), "sprites do not tile")
}

func TestLocateRespectsMaskTransparency(t *testing.T) {
	q := NewLayerQueue()
	id := LayerID{Type: LayerSprite, Index: 1}
	img := video.New(8, 8)
	img.SetPixel(4, 4, 0xFF123456)
	q.Push(Layer{
		ID:       id,
		Image:    img,
		Mask:     video.MaskFor(img),
		Location: image.Pt(20, 20),
	})

	assert.Nil(t, q.Locate(image.Pt(20, 20)), "transparent pixel is not part of the layer")
	hit := q.Locate(image.Pt(24, 24))
	assert.NotNil(t, hit)
	assert.Equal(t, id, hit.ID)
}
