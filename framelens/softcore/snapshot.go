// Package softcore is a pure-software emulation core. It keeps raw video
// state in memory, renders frames by layer decomposition and compositing,
// and replays captured snapshots, so the inspection pipeline can run
// end-to-end without a hardware-accurate emulator behind it.
package softcore

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/valerio/go-framelens/framelens/addr"
	"github.com/valerio/go-framelens/framelens/core"
)

// Captured region sizes per platform.
const (
	gbaIOSize      = 0x400
	gbaPaletteSize = 0x400
	gbaVRAMSize    = 0x18000
	gbaOAMSize     = 0x400

	gbIOBase   uint32 = 0xFF00
	gbIOSize          = 0x80
	gbVRAMSize        = 0x2000
	gbOAMSize         = 0xA0
)

// Snapshot holds one frame's raw video state: registers, palette RAM,
// VRAM and OAM. It doubles as the machine's live state and as the frame
// blob the replayer is seeded from.
type Snapshot struct {
	Platform core.Platform
	IO       []byte
	Palette  []byte
	VRAM     []byte
	OAM      []byte
}

func NewSnapshot(platform core.Platform) *Snapshot {
	switch platform {
	case core.PlatformGBA:
		return &Snapshot{
			Platform: platform,
			IO:       make([]byte, gbaIOSize),
			Palette:  make([]byte, gbaPaletteSize),
			VRAM:     make([]byte, gbaVRAMSize),
			OAM:      make([]byte, gbaOAMSize),
		}
	case core.PlatformGB:
		return &Snapshot{
			Platform: platform,
			IO:       make([]byte, gbIOSize),
			VRAM:     make([]byte, gbVRAMSize),
			OAM:      make([]byte, gbOAMSize),
		}
	}
	return &Snapshot{Platform: platform}
}

// region maps a flat address to its backing slice and offset. The second
// return is false for addresses outside any captured region.
func (s *Snapshot) region(a uint32) ([]byte, uint32, bool) {
	switch s.Platform {
	case core.PlatformGBA:
		switch {
		case a >= addr.GBAOAMBase:
			return s.OAM, a - addr.GBAOAMBase, true
		case a >= addr.GBAVRAMBase:
			return s.VRAM, a - addr.GBAVRAMBase, true
		case a >= addr.GBAPaletteBase:
			return s.Palette, a - addr.GBAPaletteBase, true
		case a >= addr.GBAIOBase:
			return s.IO, a - addr.GBAIOBase, true
		}
	case core.PlatformGB:
		switch {
		case a >= gbIOBase:
			return s.IO, a - gbIOBase, true
		case a >= addr.OAMStart:
			return s.OAM, a - addr.OAMStart, true
		case a >= addr.VRAMStart:
			return s.VRAM, a - addr.VRAMStart, true
		}
	}
	return nil, 0, false
}

// Read implements core.MemoryReader. Addresses outside the captured
// regions read as zero, like open bus rounded down.
func (s *Snapshot) Read(a uint32) uint8 {
	region, offset, ok := s.region(a)
	if !ok || offset >= uint32(len(region)) {
		return 0
	}
	return region[offset]
}

// Write stores one byte, ignoring addresses outside the captured regions.
func (s *Snapshot) Write(a uint32, v uint8) {
	region, offset, ok := s.region(a)
	if !ok || offset >= uint32(len(region)) {
		return
	}
	region[offset] = v
}

// Write16 stores a little-endian halfword.
func (s *Snapshot) Write16(a uint32, v uint16) {
	s.Write(a, uint8(v))
	s.Write(a+1, uint8(v>>8))
}

func (s *Snapshot) Clone() *Snapshot {
	clone := &Snapshot{Platform: s.Platform}
	clone.IO = append([]byte(nil), s.IO...)
	clone.Palette = append([]byte(nil), s.Palette...)
	clone.VRAM = append([]byte(nil), s.VRAM...)
	clone.OAM = append([]byte(nil), s.OAM...)
	return clone
}

// Encode writes the snapshot as one gob stream. The machine emits one
// stream per logged frame.
func (s *Snapshot) Encode(w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot reads the first snapshot from a logged blob. Trailing
// frames from the same log cycle are ignored; the first one is the frame
// the log was started on.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &s, nil
}
