package video

import "github.com/valerio/go-framelens/framelens/bit"

// GB shade colors, darkest to lightest as seen on a DMG screen.
const (
	GBWhite     uint32 = 0xFFFFFFFF
	GBLightGrey uint32 = 0xFF989898
	GBDarkGrey  uint32 = 0xFF4C4C4C
	GBBlack     uint32 = 0xFF000000
)

var gbShades = [4]uint32{GBWhite, GBLightGrey, GBDarkGrey, GBBlack}

// TileRow represents one row of a Game Boy tile pattern (8 pixels).
//
// Tiles are 8x8 pixels with 2 bits per pixel in a bit-plane format: the
// low byte provides bit 0 of each pixel's color, the high byte bit 1.
// Bit 7 is the leftmost pixel.
//
// Reference: https://gbdev.io/pandocs/Tile_Data.html
type TileRow struct {
	Low  byte
	High byte
}

// GetPixel extracts a pixel color index (0-3) from the tile row.
// pixelX should be 0-7, where 0 is the leftmost pixel.
func (t TileRow) GetPixel(pixelX int) int {
	bitIndex := uint8(7 - pixelX)

	pixel := 0
	if bit.IsSet(bitIndex, t.Low) {
		pixel |= 1
	}
	if bit.IsSet(bitIndex, t.High) {
		pixel |= 2
	}

	return pixel
}

// Tile represents a complete 8x8 Game Boy tile pattern (16 bytes in VRAM).
type Tile struct {
	Rows [8]TileRow
}

// GetPixel returns the color index (0-3) for a pixel at (x, y).
func (t *Tile) GetPixel(x, y int) int {
	if y < 0 || y >= 8 || x < 0 || x >= 8 {
		return 0
	}
	return t.Rows[y].GetPixel(x)
}

// GBPaletteShade maps a color index through a DMG palette register
// (BGP/OBP0/OBP1) to an ARGB shade.
func GBPaletteShade(palette uint8, colorIndex int) uint32 {
	shade := (palette >> (uint(colorIndex) * 2)) & 0x03
	return gbShades[shade]
}
