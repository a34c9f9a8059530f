package addr

// Game Boy video registers and memory regions.
const (
	// LCD Control register.
	LCDC uint32 = 0xFF40
	// Scroll Y (SCY) register.
	SCY uint32 = 0xFF42
	// Scroll X (SCX) register.
	SCX uint32 = 0xFF43
	// BG Palette register.
	BGP uint32 = 0xFF47
	// Object Palette 0 register.
	OBP0 uint32 = 0xFF48
	// Object Palette 1 register.
	OBP1 uint32 = 0xFF49
	// Window Y Position register.
	WY uint32 = 0xFF4A
	// Window X Position register.
	WX uint32 = 0xFF4B
)

const (
	// VRAMStart is the base of tile pattern data.
	VRAMStart uint32 = 0x8000
	// TilemapLow is the 0x9800 tilemap base.
	TilemapLow uint32 = 0x9800
	// TilemapHigh is the 0x9C00 tilemap base.
	TilemapHigh uint32 = 0x9C00
	// OAMStart is the base of Object Attribute Memory (40 sprites, 4 bytes each).
	OAMStart uint32 = 0xFE00
)

const (
	GBScreenWidth  = 160
	GBScreenHeight = 144
	GBTilemapSize  = 256
	GBSpriteCount  = 40
)
