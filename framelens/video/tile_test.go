package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTileRowGetPixel(t *testing.T) {
	// classic pandocs example: $3C/$7E decodes to 0 2 3 3 3 3 2 0
	row := TileRow{Low: 0x3C, High: 0x7E}

	expected := []int{0, 2, 3, 3, 3, 3, 2, 0}
	for x, want := range expected {
		assert.Equal(t, want, row.GetPixel(x), "pixel %d", x)
	}
}

func TestTileGetPixelOutOfBounds(t *testing.T) {
	var tile Tile
	tile.Rows[0] = TileRow{Low: 0xFF, High: 0xFF}

	assert.Equal(t, 3, tile.GetPixel(0, 0))
	assert.Equal(t, 0, tile.GetPixel(-1, 0))
	assert.Equal(t, 0, tile.GetPixel(8, 0))
	assert.Equal(t, 0, tile.GetPixel(0, 8))
}

func TestGBPaletteShade(t *testing.T) {
	// identity palette: 11 10 01 00
	palette := uint8(0xE4)

	assert.Equal(t, GBWhite, GBPaletteShade(palette, 0))
	assert.Equal(t, GBLightGrey, GBPaletteShade(palette, 1))
	assert.Equal(t, GBDarkGrey, GBPaletteShade(palette, 2))
	assert.Equal(t, GBBlack, GBPaletteShade(palette, 3))

	// inverted palette: 00 01 10 11
	inverted := uint8(0x1B)
	assert.Equal(t, GBBlack, GBPaletteShade(inverted, 0))
	assert.Equal(t, GBWhite, GBPaletteShade(inverted, 3))
}
