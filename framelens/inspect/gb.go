package inspect

import (
	"image"

	"github.com/valerio/go-framelens/framelens/addr"
	"github.com/valerio/go-framelens/framelens/bit"
	"github.com/valerio/go-framelens/framelens/core"
	"github.com/valerio/go-framelens/framelens/video"
)

// Layer indices the GB replayer understands for whole-layer toggles.
const (
	gbLayerBackground = 0
	gbLayerObj        = 1
	gbLayerWindow     = 2
)

// gbDecomposer derives layers from DMG video state. The Game Boy has no
// priority bands: objects draw above the window, which draws above the
// background, so the queue is objects, window, background, backdrop.
type gbDecomposer struct{}

func (gbDecomposer) ScreenDimensions() image.Point {
	return image.Pt(addr.GBScreenWidth, addr.GBScreenHeight)
}

func (d gbDecomposer) Decompose(state core.MemoryReader, q *LayerQueue) {
	lcdc := state.Read(addr.LCDC)
	bgp := state.Read(addr.BGP)

	if bit.IsSet(1, lcdc) {
		spriteHeight := 8
		if bit.IsSet(2, lcdc) {
			spriteHeight = 16
		}
		screen := image.Rect(0, 0, addr.GBScreenWidth, addr.GBScreenHeight)
		for i := 0; i < addr.GBSpriteCount; i++ {
			base := addr.OAMStart + uint32(i)*4
			y := int(state.Read(base)) - 16
			x := int(state.Read(base+1)) - 8
			if !image.Rect(x, y, x+8, y+spriteHeight).Overlaps(screen) {
				continue
			}
			tileIndex := state.Read(base + 2)
			flags := state.Read(base + 3)

			img := compositeGBObj(state, tileIndex, flags, spriteHeight)
			if bit.IsSet(5, flags) || bit.IsSet(6, flags) {
				img = img.Mirrored(bit.IsSet(5, flags), bit.IsSet(6, flags))
			}
			q.Push(Layer{
				ID:       LayerID{Type: LayerSprite, Index: i},
				Image:    img,
				Mask:     video.MaskFor(img),
				Location: image.Pt(x, y),
			})
		}
	}

	signedTiles := !bit.IsSet(4, lcdc)

	if bit.IsSet(5, lcdc) {
		wx := int(state.Read(addr.WX)) - 7
		wy := int(state.Read(addr.WY))
		if wx < addr.GBScreenWidth && wy < addr.GBScreenHeight {
			mapBase := addr.TilemapLow
			if bit.IsSet(6, lcdc) {
				mapBase = addr.TilemapHigh
			}
			img := compositeGBTilemap(state, mapBase, signedTiles, bgp)
			q.Push(Layer{
				ID:       LayerID{Type: LayerWindow, Index: -1},
				Image:    img,
				Mask:     video.MaskFor(img),
				Location: image.Pt(wx, wy),
			})
		}
	}

	if bit.IsSet(0, lcdc) {
		mapBase := addr.TilemapLow
		if bit.IsSet(3, lcdc) {
			mapBase = addr.TilemapHigh
		}
		img := compositeGBTilemap(state, mapBase, signedTiles, bgp)
		scx := int(state.Read(addr.SCX))
		scy := int(state.Read(addr.SCY))
		q.Push(Layer{
			ID:       LayerID{Type: LayerBackground, Index: -1},
			Image:    img,
			Mask:     video.MaskFor(img),
			Location: image.Pt(-scx, -scy),
			Repeats:  true,
		})
	}

	backdrop := video.GBPaletteShade(bgp, 0)
	img := video.NewSolid(addr.GBScreenWidth, addr.GBScreenHeight, backdrop)
	q.Push(Layer{
		ID:    LayerID{Type: LayerBackdrop, Index: -1},
		Image: img,
		Mask:  video.FullRegion(img.Width, img.Height),
	})
}

func (d gbDecomposer) Inject(r core.Replayer, q *LayerQueue, glowFrame int) {
	r.SetInjectionPoint(core.InjectFirstScanline)
	r.SetBackgroundHighlight(gbLayerBackground, false)
	r.SetBackgroundHighlight(gbLayerWindow, false)
	for i := 0; i < addr.GBSpriteCount; i++ {
		r.SetSpriteHighlight(i, false)
	}
	r.SetHighlightColor(highlightColor)
	r.SetHighlightAmount(glowAmount(glowFrame))

	active := q.Active()
	for i := 0; i < q.Len(); i++ {
		layer := q.Layer(i)
		switch layer.ID.Type {
		case LayerSprite:
			if !layer.Enabled {
				// zero the Y/X bytes so the object lands off-screen
				r.InjectOAM(layer.ID.Index<<1, 0x0000)
			}
			if layer.ID == active {
				r.SetSpriteHighlight(layer.ID.Index, true)
			}
		case LayerWindow:
			r.EnableVideoLayer(gbLayerWindow, layer.Enabled)
			if layer.ID == active {
				r.SetBackgroundHighlight(gbLayerWindow, true)
			}
		case LayerBackground:
			r.EnableVideoLayer(gbLayerBackground, layer.Enabled)
			if layer.ID == active {
				r.SetBackgroundHighlight(gbLayerBackground, true)
			}
		}
	}
}

// fetchGBTile reads a complete tile (8 rows, 2 bytes each) from VRAM.
func fetchGBTile(state core.MemoryReader, tileAddr uint32) video.Tile {
	var tile video.Tile
	for row := 0; row < 8; row++ {
		tile.Rows[row] = video.TileRow{
			Low:  state.Read(tileAddr + uint32(row*2)),
			High: state.Read(tileAddr + uint32(row*2) + 1),
		}
	}
	return tile
}

func gbTileAddr(tileIndex uint8, signed bool) uint32 {
	if signed {
		// signed addressing: index 0 maps to 0x9000, -128 to 0x8800
		return uint32(int(0x9000) + int(int8(tileIndex))*16)
	}
	return addr.VRAMStart + uint32(tileIndex)*16
}

// compositeGBObj renders one object, 8x8 or 8x16. For 8x16 objects the
// hardware ignores the tile index low bit. Color 0 stays transparent.
func compositeGBObj(state core.MemoryReader, tileIndex, flags uint8, height int) *video.Image {
	img := video.New(8, height)
	palette := state.Read(addr.OBP0)
	if bit.IsSet(4, flags) {
		palette = state.Read(addr.OBP1)
	}

	if height == 16 {
		tileIndex &= 0xFE
	}
	for half := 0; half < height/8; half++ {
		tile := fetchGBTile(state, addr.VRAMStart+uint32(tileIndex+uint8(half))*16)
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				index := tile.GetPixel(x, y)
				if index == 0 {
					continue
				}
				img.SetPixel(x, half*8+y, video.GBPaletteShade(palette, index))
			}
		}
	}
	return img
}

// compositeGBTilemap renders a full 256x256 tilemap through the BG
// palette. Every pixel is opaque; on the DMG background color 0 is a real
// color, not transparency.
func compositeGBTilemap(state core.MemoryReader, mapBase uint32, signed bool, bgp uint8) *video.Image {
	img := video.New(addr.GBTilemapSize, addr.GBTilemapSize)
	for ty := 0; ty < 32; ty++ {
		for tx := 0; tx < 32; tx++ {
			tileIndex := state.Read(mapBase + uint32(ty*32+tx))
			tile := fetchGBTile(state, gbTileAddr(tileIndex, signed))
			for y := 0; y < 8; y++ {
				for x := 0; x < 8; x++ {
					shade := video.GBPaletteShade(bgp, tile.GetPixel(x, y))
					img.SetPixel(tx*8+x, ty*8+y, shade)
				}
			}
		}
	}
	return img
}
