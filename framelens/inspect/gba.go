package inspect

import (
	"image"

	"github.com/valerio/go-framelens/framelens/addr"
	"github.com/valerio/go-framelens/framelens/bit"
	"github.com/valerio/go-framelens/framelens/core"
	"github.com/valerio/go-framelens/framelens/video"
)

// gbaDecomposer derives layers from GBA video state: up to 128 objects
// and 4 background planes interleaved across 4 priority bands, plus the
// backdrop. Lower priority values render in front, and bands are walked
// lowest-first, so the queue comes out front-to-back.
type gbaDecomposer struct{}

// [shape][size] pixel dimensions from OAM attribute bits.
var gbaObjSizes = [3][4]image.Point{
	{{X: 8, Y: 8}, {X: 16, Y: 16}, {X: 32, Y: 32}, {X: 64, Y: 64}},
	{{X: 16, Y: 8}, {X: 32, Y: 8}, {X: 32, Y: 16}, {X: 64, Y: 32}},
	{{X: 8, Y: 16}, {X: 8, Y: 32}, {X: 16, Y: 32}, {X: 32, Y: 64}},
}

var gbaTextBGSizes = [4]image.Point{
	{X: 256, Y: 256}, {X: 512, Y: 256}, {X: 256, Y: 512}, {X: 512, Y: 512},
}

var gbaAffineBGSizes = [4]int{128, 256, 512, 1024}

type gbaObj struct {
	Enabled     bool
	Priority    int
	X, Y        int
	Width       int
	Height      int
	HFlip       bool
	VFlip       bool
	Base        int
	Is256Color  bool
	PaletteBank int
	Mapping1D   bool
}

func (gbaDecomposer) ScreenDimensions() image.Point {
	return image.Pt(addr.GBAScreenWidth, addr.GBAScreenHeight)
}

func (d gbaDecomposer) Decompose(state core.MemoryReader, q *LayerQueue) {
	dispcnt := readGBAIO(state, addr.GBADispcnt)
	mode := int(bit.Field16(dispcnt, 0, 3))

	for priority := 0; priority < addr.GBAPriorityCount; priority++ {
		for sprite := 0; sprite < addr.GBASpriteCount; sprite++ {
			info := lookupGBAObj(state, sprite, dispcnt)
			if !info.Enabled || info.Priority != priority {
				continue
			}

			img := compositeGBAObj(state, info)
			if info.HFlip || info.VFlip {
				img = img.Mirrored(info.HFlip, info.VFlip)
			}
			q.Push(Layer{
				ID:       LayerID{Type: LayerSprite, Index: sprite},
				Image:    img,
				Mask:     video.MaskFor(img),
				Location: image.Pt(info.X, info.Y),
			})
		}

		for bg := 0; bg < addr.GBABackgroundCount; bg++ {
			if !gbaBGVisibleInMode(mode, bg) || !bit.IsSet16(uint8(8+bg), dispcnt) {
				continue
			}
			cnt := readGBAIO(state, addr.GBABG0Cnt+uint32(bg)*2)
			if int(bit.Field16(cnt, 0, 2)) != priority {
				continue
			}

			var offset image.Point
			if mode == 0 {
				hofs := readGBAIO(state, addr.GBABG0HOfs+uint32(bg)*4)
				vofs := readGBAIO(state, addr.GBABG0VOfs+uint32(bg)*4)
				offset = image.Pt(-int(hofs&addr.GBAScrollMask), -int(vofs&addr.GBAScrollMask))
			}
			img := compositeGBAMap(state, bg, mode, cnt, dispcnt)
			q.Push(Layer{
				ID:       LayerID{Type: LayerBackground, Index: bg},
				Image:    img,
				Mask:     video.MaskFor(img),
				Location: offset,
				Repeats:  true,
			})
		}
	}

	backdrop := video.RGB5To8(core.Read16(state, addr.GBAPaletteBase))
	img := video.NewSolid(addr.GBAScreenWidth, addr.GBAScreenHeight, backdrop)
	q.Push(Layer{
		ID:    LayerID{Type: LayerBackdrop, Index: -1},
		Image: img,
		Mask:  video.FullRegion(img.Width, img.Height),
	})
}

func (d gbaDecomposer) Inject(r core.Replayer, q *LayerQueue, glowFrame int) {
	r.SetInjectionPoint(core.InjectFirstScanline)
	for i := 0; i < addr.GBABackgroundCount; i++ {
		r.SetBackgroundHighlight(i, false)
	}
	for i := 0; i < addr.GBASpriteCount; i++ {
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
				// set the attr0 disable bit of that object
				r.InjectOAM(layer.ID.Index<<2, 0x0200)
			}
			if layer.ID == active {
				r.SetSpriteHighlight(layer.ID.Index, true)
			}
		case LayerBackground:
			r.EnableVideoLayer(layer.ID.Index, layer.Enabled)
			if layer.ID == active {
				r.SetBackgroundHighlight(layer.ID.Index, true)
			}
		}
	}
}

func readGBAIO(state core.MemoryReader, offset uint32) uint16 {
	return core.Read16(state, addr.GBAIOBase+offset)
}

func gbaBGVisibleInMode(mode, bg int) bool {
	switch mode {
	case 0:
		return true
	case 1:
		return bg <= 2
	case 2:
		return bg >= 2
	default:
		return bg == 2
	}
}

func lookupGBAObj(state core.MemoryReader, index int, dispcnt uint16) gbaObj {
	base := addr.GBAOAMBase + uint32(index)*8
	attr0 := core.Read16(state, base)
	attr1 := core.Read16(state, base+2)
	attr2 := core.Read16(state, base+4)

	affine := bit.IsSet16(8, attr0)
	disabled := !affine && bit.IsSet16(9, attr0)
	shape := int(bit.Field16(attr0, 14, 2))
	size := int(bit.Field16(attr1, 14, 2))
	if shape > 2 {
		// prohibited shape, hardware renders nothing
		return gbaObj{}
	}
	dims := gbaObjSizes[shape][size]

	x := int(attr1 & 0x1FF)
	if x >= 256 {
		x -= 512
	}
	y := int(attr0 & 0xFF)
	if y+dims.Y > 256 {
		y -= 256
	}

	return gbaObj{
		Enabled:     bit.IsSet16(12, dispcnt) && !disabled,
		Priority:    int(bit.Field16(attr2, 10, 2)),
		X:           x,
		Y:           y,
		Width:       dims.X,
		Height:      dims.Y,
		HFlip:       !affine && bit.IsSet16(12, attr1),
		VFlip:       !affine && bit.IsSet16(13, attr1),
		Base:        int(attr2 & 0x3FF),
		Is256Color:  bit.IsSet16(13, attr0),
		PaletteBank: int(bit.Field16(attr2, 12, 4)),
		Mapping1D:   bit.IsSet16(6, dispcnt),
	}
}

// compositeGBAObj renders an object's tiles into an image, leaving color 0
// transparent. Flips are applied by the caller on the finished image.
func compositeGBAObj(state core.MemoryReader, info gbaObj) *video.Image {
	img := video.New(info.Width, info.Height)
	tilesWide := info.Width / 8
	tilesHigh := info.Height / 8
	charStep := 1
	if info.Is256Color {
		charStep = 2
	}

	for ty := 0; ty < tilesHigh; ty++ {
		for tx := 0; tx < tilesWide; tx++ {
			var name int
			if info.Mapping1D {
				name = info.Base + (ty*tilesWide+tx)*charStep
			} else {
				name = info.Base + ty*32 + tx*charStep
			}
			tileAddr := addr.GBAObjCharBase + uint32(name&0x3FF)*32
			drawGBATile(state, img, tileAddr, tx*8, ty*8, info.Is256Color, info.PaletteBank, addr.GBAObjPalette, false, false)
		}
	}
	return img
}

// compositeGBAMap renders a background plane's full pixel area for the
// current mode: tiled text maps, affine maps, or the bitmap modes 3-5.
func compositeGBAMap(state core.MemoryReader, bg, mode int, cnt, dispcnt uint16) *video.Image {
	textBG := mode == 0 || (mode == 1 && bg < 2)
	switch {
	case textBG:
		return compositeGBATextMap(state, cnt)
	case mode <= 2:
		return compositeGBAAffineMap(state, cnt)
	default:
		return compositeGBABitmap(state, mode, dispcnt)
	}
}

func compositeGBATextMap(state core.MemoryReader, cnt uint16) *video.Image {
	size := gbaTextBGSizes[bit.Field16(cnt, 14, 2)]
	charBase := addr.GBAVRAMBase + uint32(bit.Field16(cnt, 2, 2))*0x4000
	screenBase := addr.GBAVRAMBase + uint32(bit.Field16(cnt, 8, 5))*0x800
	is256 := bit.IsSet16(7, cnt)

	img := video.New(size.X, size.Y)
	tilesWide := size.X / 8
	screenblocksWide := tilesWide / 32

	for ty := 0; ty < size.Y/8; ty++ {
		for tx := 0; tx < tilesWide; tx++ {
			screenblock := (ty/32)*screenblocksWide + tx/32
			entryAddr := screenBase + uint32(screenblock)*0x800 + uint32(((ty%32)*32+tx%32)*2)
			entry := core.Read16(state, entryAddr)

			tile := uint32(entry & 0x3FF)
			var tileAddr uint32
			if is256 {
				tileAddr = charBase + tile*64
			} else {
				tileAddr = charBase + tile*32
			}
			drawGBATile(state, img, tileAddr, tx*8, ty*8, is256,
				int(bit.Field16(entry, 12, 4)), addr.GBAPaletteBase,
				bit.IsSet16(10, entry), bit.IsSet16(11, entry))
		}
	}
	return img
}

func compositeGBAAffineMap(state core.MemoryReader, cnt uint16) *video.Image {
	size := gbaAffineBGSizes[bit.Field16(cnt, 14, 2)]
	charBase := addr.GBAVRAMBase + uint32(bit.Field16(cnt, 2, 2))*0x4000
	screenBase := addr.GBAVRAMBase + uint32(bit.Field16(cnt, 8, 5))*0x800

	img := video.New(size, size)
	tilesWide := size / 8
	for ty := 0; ty < tilesWide; ty++ {
		for tx := 0; tx < tilesWide; tx++ {
			tile := uint32(state.Read(screenBase + uint32(ty*tilesWide+tx)))
			drawGBATile(state, img, charBase+tile*64, tx*8, ty*8, true, 0, addr.GBAPaletteBase, false, false)
		}
	}
	return img
}

func compositeGBABitmap(state core.MemoryReader, mode int, dispcnt uint16) *video.Image {
	page := uint32(0)
	if bit.IsSet16(4, dispcnt) {
		page = 0xA000
	}

	switch mode {
	case 3:
		img := video.New(addr.GBAScreenWidth, addr.GBAScreenHeight)
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				pixel := core.Read16(state, addr.GBAVRAMBase+uint32(y*img.Width+x)*2)
				img.SetPixel(x, y, video.RGB5To8(pixel))
			}
		}
		return img
	case 4:
		img := video.New(addr.GBAScreenWidth, addr.GBAScreenHeight)
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				index := state.Read(addr.GBAVRAMBase + page + uint32(y*img.Width+x))
				if index == 0 {
					continue
				}
				entry := core.Read16(state, addr.GBAPaletteBase+uint32(index)*2)
				img.SetPixel(x, y, video.RGB5To8(entry))
			}
		}
		return img
	default: // mode 5
		img := video.New(160, 128)
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				pixel := core.Read16(state, addr.GBAVRAMBase+page+uint32(y*img.Width+x)*2)
				img.SetPixel(x, y, video.RGB5To8(pixel))
			}
		}
		return img
	}
}

// drawGBATile decodes one 8x8 character into img at (dx, dy). Color index
// 0 stays transparent. paletteBase selects BG vs OBJ palette RAM.
func drawGBATile(state core.MemoryReader, img *video.Image, tileAddr uint32, dx, dy int, is256 bool, paletteBank int, paletteBase uint32, hflip, vflip bool) {
	for py := 0; py < 8; py++ {
		srcY := py
		if vflip {
			srcY = 7 - py
		}
		for px := 0; px < 8; px++ {
			srcX := px
			if hflip {
				srcX = 7 - px
			}

			var index int
			if is256 {
				index = int(state.Read(tileAddr + uint32(srcY*8+srcX)))
			} else {
				b := state.Read(tileAddr + uint32(srcY*4+srcX/2))
				if srcX&1 == 0 {
					index = int(b & 0x0F)
				} else {
					index = int(b >> 4)
				}
			}
			if index == 0 {
				continue
			}

			var entry uint32
			if is256 {
				entry = uint32(index) * 2
			} else {
				entry = uint32(paletteBank*16+index) * 2
			}
			color := video.RGB5To8(core.Read16(state, paletteBase+entry))
			img.SetPixel(dx+px, dy+py, color)
		}
	}
}
