package softcore

import (
	"fmt"
	"io"
	"sync"

	"github.com/valerio/go-framelens/framelens/addr"
	"github.com/valerio/go-framelens/framelens/core"
	"github.com/valerio/go-framelens/framelens/inspect"
	"github.com/valerio/go-framelens/framelens/video"
)

// Machine is a software core.Controller. It owns a Snapshot of video
// state and produces frames by decomposing that state into layers and
// compositing them, the same path the replayer uses. The host drives it
// by calling Advance once per frame.
type Machine struct {
	mu       sync.Mutex
	state    *Snapshot
	platform core.Platform
	pixels   *video.Image
	actions  []func()
	sink     io.Writer
	frame    uint64
}

func NewMachine(platform core.Platform) (*Machine, error) {
	decomposer := inspect.DecomposerFor(platform)
	if decomposer == nil {
		return nil, fmt.Errorf("no software core for platform %s", platform)
	}
	dims := decomposer.ScreenDimensions()
	return &Machine{
		state:    NewSnapshot(platform),
		platform: platform,
		pixels:   video.NewSolid(dims.X, dims.Y, 0xFF000000),
	}, nil
}

// EditState mutates the machine's video state under the lock. Scene
// setup and scripted register writes go through here.
func (m *Machine) EditState(edit func(*Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	edit(m.state)
}

// Advance renders one frame, appends it to the video log if one is
// active, and then fires the scheduled frame actions. Actions run off
// the lock so they can interrupt the machine without deadlocking.
func (m *Machine) Advance() error {
	m.mu.Lock()
	queue := inspect.NewLayerQueue()
	inspect.DecomposerFor(m.platform).Decompose(m.state, queue)
	compositeQueue(queue, m.pixels, defaultCompositeSettings(m.platform))

	var logErr error
	if m.sink != nil {
		logErr = m.state.Encode(m.sink)
	}
	m.frame++
	actions := m.actions
	m.actions = nil
	m.mu.Unlock()

	for _, action := range actions {
		action()
	}
	return logErr
}

// Frame returns the number of frames rendered so far.
func (m *Machine) Frame() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frame
}

func (m *Machine) Pixels() *video.Image { return m.pixels }

func (m *Machine) ScreenDimensions() (int, int) {
	return m.pixels.Width, m.pixels.Height
}

func (m *Machine) Platform() core.Platform { return m.platform }

func (m *Machine) AddFrameAction(action func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, action)
}

func (m *Machine) StartVideoLog(sink io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sink = sink
	return nil
}

func (m *Machine) EndVideoLog() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sink = nil
}

// Interrupt pauses the machine by holding its lock until resume is
// called. Drain has no extra work here; Advance never leaves a frame
// half-rendered.
func (m *Machine) Interrupt(drain bool) func() {
	m.mu.Lock()
	return m.mu.Unlock
}

// VideoState exposes the live state. Only coherent between Interrupt and
// its resume.
func (m *Machine) VideoState() core.MemoryReader { return m.state }

// NewTestMachine builds a GBA machine with a deterministic mode-0 scene:
// a two-tile checkerboard on BG0, a solid BG1 behind it, one sprite, and
// a colored backdrop.
func NewTestMachine() *Machine {
	m, _ := NewMachine(core.PlatformGBA)
	m.EditState(func(s *Snapshot) {
		reg := func(offset uint32) uint32 { return addr.GBAIOBase + offset }

		// mode 0, BG0+BG1+OBJ, 1D object mapping
		s.Write16(reg(addr.GBADispcnt), 0x1340)
		// BG0: priority 0, char base 0, screen base 8
		s.Write16(reg(addr.GBABG0Cnt), 8<<8)
		// BG1: priority 1, char base 0, screen base 9
		s.Write16(reg(addr.GBABG0Cnt+2), 1|9<<8)

		// bg palette: blue backdrop, white and green tile colors
		s.Write16(addr.GBAPaletteBase, 0x7C00)
		s.Write16(addr.GBAPaletteBase+2, 0x7FFF)
		s.Write16(addr.GBAPaletteBase+4, 0x03E0)
		// obj palette entry 1: red
		s.Write16(addr.GBAObjPalette+2, 0x001F)

		// tile 1 solid color 1, tile 2 solid color 2 (4bpp)
		for b := uint32(0); b < 32; b++ {
			s.Write(addr.GBAVRAMBase+32+b, 0x11)
			s.Write(addr.GBAVRAMBase+64+b, 0x22)
			s.Write(addr.GBAObjCharBase+32+b, 0x11)
		}

		// BG0 map: checkerboard of tile 1 and empty tiles
		// BG1 map: solid tile 2
		for ty := uint32(0); ty < 32; ty++ {
			for tx := uint32(0); tx < 32; tx++ {
				entry := (ty*32 + tx) * 2
				if (tx+ty)%2 == 0 {
					s.Write16(addr.GBAVRAMBase+8*0x800+entry, 1)
				}
				s.Write16(addr.GBAVRAMBase+9*0x800+entry, 2)
			}
		}

		// park all objects, then place sprite 0 at (60, 40)
		for i := uint32(0); i < addr.GBASpriteCount; i++ {
			s.Write16(addr.GBAOAMBase+i*8, 0x0200)
		}
		s.Write16(addr.GBAOAMBase+0, 40)
		s.Write16(addr.GBAOAMBase+2, 60)
		s.Write16(addr.GBAOAMBase+4, 1)
	})
	return m
}
