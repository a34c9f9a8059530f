// Package core defines the interfaces the inspector uses to talk to an
// emulation core and to the secondary replay renderer. The inspector never
// touches an emulator directly; it reads frozen state through these
// contracts and drives recomposition through a Replayer.
package core

import (
	"io"

	"github.com/valerio/go-framelens/framelens/video"
)

// Platform identifies the emulated target a controller is running.
type Platform int

const (
	PlatformNone Platform = iota
	PlatformGB
	PlatformGBA
)

func (p Platform) String() string {
	switch p {
	case PlatformGB:
		return "GB"
	case PlatformGBA:
		return "GBA"
	}
	return "none"
}

// MemoryReader provides read-only access to a core's raw video state
// (registers, palette, VRAM, OAM) through a flat 32-bit address space.
// Reads are only coherent while the emulation thread is interrupted.
type MemoryReader interface {
	Read(addr uint32) uint8
}

// Read16 reads a little-endian halfword, the natural width of most
// video-controller registers.
func Read16(r MemoryReader, addr uint32) uint16 {
	return uint16(r.Read(addr)) | uint16(r.Read(addr+1))<<8
}

// Controller is the running emulation core the inspector attaches to.
type Controller interface {
	// Pixels returns the most recently rendered frame.
	Pixels() *video.Image

	// ScreenDimensions returns the native display size.
	ScreenDimensions() (width, height int)

	Platform() Platform

	// AddFrameAction schedules a callback to run once on the emulation
	// thread at the next frame boundary. Callbacks do not repeat; a
	// callback that wants to run every frame re-registers itself.
	AddFrameAction(action func())

	// StartVideoLog begins logging frame state into sink. EndVideoLog
	// stops the current log.
	StartVideoLog(sink io.Writer) error
	EndVideoLog()

	// Interrupt cooperatively pauses the emulation thread and returns a
	// resume function. The pause lasts until resume is called; callers
	// must guarantee resume runs on every exit path. When drain is set the
	// core finishes any in-flight work before the pause takes effect.
	Interrupt(drain bool) (resume func())

	// VideoState exposes the frozen raw video state. Only valid between
	// Interrupt and its resume.
	VideoState() MemoryReader
}

// InjectionPoint controls when injected state changes take effect during
// a replayed frame.
type InjectionPoint int

const (
	// InjectImmediate applies injected state for the whole frame.
	InjectImmediate InjectionPoint = iota
	// InjectFirstScanline freezes injected state after the first
	// scanline, so later logged writes cannot override it.
	InjectFirstScanline
)

// DirtyFlag identifies a class of logged state writes that can be
// suppressed after injection.
type DirtyFlag uint32

const (
	DirtyRegister DirtyFlag = 1 << iota
	DirtyPalette
	DirtyOAM
	DirtyVRAM
)

// Replayer is a secondary renderer instance seeded from a frame snapshot.
// It re-renders the captured frame with modified layer visibility without
// disturbing the live core.
type Replayer interface {
	Init() error
	Deinit()

	// LoadSnapshot hands the replayer the captured frame blob. The format
	// is owned by the snapshot codec, opaque to callers.
	LoadSnapshot(data []byte) error

	// Reset returns the replayer to its initial per-frame state,
	// discarding prior injections.
	Reset()

	// RunFrame renders exactly one frame into the bound video buffer.
	RunFrame()

	SetVideoBuffer(pix []uint32, stride int)
	DesiredVideoDimensions() (width, height int)

	// EnableVideoLayer toggles a whole hardware layer by platform index.
	EnableVideoLayer(index int, enabled bool)

	// Highlight controls for the pulsing active-layer overlay.
	SetBackgroundHighlight(index int, on bool)
	SetSpriteHighlight(index int, on bool)
	SetHighlightColor(argb uint32)
	SetHighlightAmount(amount int)

	SetInjectionPoint(point InjectionPoint)

	// InjectOAM overrides one OAM halfword at the given halfword offset.
	InjectOAM(offset int, value uint16)

	// IgnoreDirtyAfterInjection suppresses the given classes of logged
	// writes after the injection point. Zero restores normal replay.
	IgnoreDirtyAfterInjection(mask DirtyFlag)
}

// ReplayerFactory constructs a Replayer for a captured snapshot blob.
type ReplayerFactory func(snapshot []byte) (Replayer, error)
