package addr

// Game Boy Advance memory map regions, as seen through a raw state reader.
const (
	GBAIOBase      uint32 = 0x04000000
	GBAPaletteBase uint32 = 0x05000000
	GBAObjPalette  uint32 = 0x05000200
	GBAVRAMBase    uint32 = 0x06000000
	GBAObjCharBase uint32 = 0x06010000
	GBAOAMBase     uint32 = 0x07000000
)

// IO register offsets from GBAIOBase. Registers are 16 bits wide.
//
// DISPCNT layout: bits 0-2 video mode, bit 4 bitmap frame select,
// bit 6 1D object character mapping, bits 8-11 BG0-BG3 enable,
// bit 12 object layer enable.
//
// BGnCNT layout: bits 0-1 priority, bits 2-3 character base block (16KiB
// units), bit 7 256-color mode, bits 8-12 screen base block (2KiB units),
// bits 14-15 screen size.
const (
	GBADispcnt uint32 = 0x00
	GBABG0Cnt  uint32 = 0x08
	GBABG0HOfs uint32 = 0x10
	GBABG0VOfs uint32 = 0x12
)

const (
	GBAScreenWidth  = 240
	GBAScreenHeight = 160

	GBASpriteCount     = 128
	GBABackgroundCount = 4
	GBAPriorityCount   = 4

	// Text-mode backgrounds wrap their scroll registers to 9 bits.
	GBAScrollMask = 0x1FF
)
