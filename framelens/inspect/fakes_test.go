package inspect

import (
	"io"

	"github.com/valerio/go-framelens/framelens/addr"
	"github.com/valerio/go-framelens/framelens/core"
	"github.com/valerio/go-framelens/framelens/video"
)

// fakeMemory is a sparse memory image; unwritten addresses read as zero.
type fakeMemory map[uint32]uint8

func (m fakeMemory) Read(a uint32) uint8 { return m[a] }

func (m fakeMemory) write16(a uint32, v uint16) {
	m[a] = uint8(v)
	m[a+1] = uint8(v >> 8)
}

// gbaScene builds the §-style mode-0 state used across tests: four
// backgrounds at priorities 0-3 and two sprites at priorities 1 and 3,
// everything else explicitly disabled.
func gbaScene() fakeMemory {
	m := fakeMemory{}

	// mode 0, BG0-3 + OBJ enabled, 1D object mapping
	m.write16(addr.GBAIOBase+addr.GBADispcnt, 0x1F40)

	for bg := uint32(0); bg < 4; bg++ {
		// priority == bg index, distinct screen bases clear of char data
		m.write16(addr.GBAIOBase+addr.GBABG0Cnt+bg*2, uint16(bg)|uint16(8+bg)<<8)
	}

	// park every object off the frame via the attr0 disable bit
	for i := uint32(0); i < addr.GBASpriteCount; i++ {
		m.write16(addr.GBAOAMBase+i*8, 0x0200)
	}

	// sprite 0: 8x8 at (40, 30), priority 1, tile 4
	m.write16(addr.GBAOAMBase+0, 30)
	m.write16(addr.GBAOAMBase+2, 40)
	m.write16(addr.GBAOAMBase+4, 4|1<<10)

	// sprite 1: 8x8 at (100, 50), priority 3, tile 6
	m.write16(addr.GBAOAMBase+8, 0x0000|50)
	m.write16(addr.GBAOAMBase+10, 100)
	m.write16(addr.GBAOAMBase+12, 6|3<<10)

	// backdrop color: full-intensity red
	m.write16(addr.GBAPaletteBase, 0x001F)

	// sprite palette entry 1 and a solid 4bpp tile 4 so sprite 0 has
	// opaque pixels
	m.write16(addr.GBAObjPalette+2, 0x7FFF)
	for b := uint32(0); b < 32; b++ {
		m[addr.GBAObjCharBase+4*32+b] = 0x11
	}

	return m
}

type oamInjection struct {
	offset int
	value  uint16
}

type layerToggle struct {
	index   int
	enabled bool
}

// fakeReplayer records every call the injection protocol makes.
type fakeReplayer struct {
	inited   bool
	deinited bool
	snapshot []byte
	resets   int
	frames   int
	pix      []uint32
	stride   int
	width    int
	height   int

	layerToggles     []layerToggle
	oamInjections    []oamInjection
	bgHighlights     map[int]bool
	spriteHighlights map[int]bool
	highlightColor   uint32
	highlightAmount  int
	injectionPoint   core.InjectionPoint
	dirtyMask        core.DirtyFlag
	fill             uint32
}

func newFakeReplayer(width, height int) *fakeReplayer {
	return &fakeReplayer{
		width:            width,
		height:           height,
		bgHighlights:     map[int]bool{},
		spriteHighlights: map[int]bool{},
	}
}

func (r *fakeReplayer) Init() error { r.inited = true; return nil }
func (r *fakeReplayer) Deinit()     { r.deinited = true }

func (r *fakeReplayer) LoadSnapshot(data []byte) error {
	r.snapshot = append([]byte(nil), data...)
	return nil
}

func (r *fakeReplayer) Reset() {
	r.resets++
	r.layerToggles = nil
	r.oamInjections = nil
	r.bgHighlights = map[int]bool{}
	r.spriteHighlights = map[int]bool{}
}

func (r *fakeReplayer) RunFrame() {
	r.frames++
	for i := range r.pix {
		r.pix[i] = r.fill
	}
}

func (r *fakeReplayer) SetVideoBuffer(pix []uint32, stride int) {
	r.pix = pix
	r.stride = stride
}

func (r *fakeReplayer) DesiredVideoDimensions() (int, int) { return r.width, r.height }

func (r *fakeReplayer) EnableVideoLayer(index int, enabled bool) {
	r.layerToggles = append(r.layerToggles, layerToggle{index, enabled})
}

func (r *fakeReplayer) SetBackgroundHighlight(index int, on bool) { r.bgHighlights[index] = on }
func (r *fakeReplayer) SetSpriteHighlight(index int, on bool)     { r.spriteHighlights[index] = on }
func (r *fakeReplayer) SetHighlightColor(argb uint32)             { r.highlightColor = argb }
func (r *fakeReplayer) SetHighlightAmount(amount int)             { r.highlightAmount = amount }
func (r *fakeReplayer) SetInjectionPoint(p core.InjectionPoint)   { r.injectionPoint = p }

func (r *fakeReplayer) InjectOAM(offset int, value uint16) {
	r.oamInjections = append(r.oamInjections, oamInjection{offset, value})
}

func (r *fakeReplayer) IgnoreDirtyAfterInjection(mask core.DirtyFlag) { r.dirtyMask = mask }

// fakeController drives the inspector from tests: frame actions run only
// when the test calls runFrameActions, and the video log sink is exposed
// so tests can simulate logged frame data.
type fakeController struct {
	platform   core.Platform
	state      fakeMemory
	pixels     *video.Image
	actions    []func()
	sink       io.Writer
	interrupts int
	logActive  bool
}

func newFakeController(platform core.Platform, state fakeMemory) *fakeController {
	dims := DecomposerFor(platform).ScreenDimensions()
	return &fakeController{
		platform: platform,
		state:    state,
		pixels:   video.NewSolid(dims.X, dims.Y, 0x336699),
	}
}

func (c *fakeController) Pixels() *video.Image { return c.pixels }

func (c *fakeController) ScreenDimensions() (int, int) {
	return c.pixels.Width, c.pixels.Height
}

func (c *fakeController) Platform() core.Platform { return c.platform }

func (c *fakeController) AddFrameAction(action func()) {
	c.actions = append(c.actions, action)
}

func (c *fakeController) StartVideoLog(sink io.Writer) error {
	c.sink = sink
	c.logActive = true
	return nil
}

func (c *fakeController) EndVideoLog() { c.logActive = false }

func (c *fakeController) Interrupt(drain bool) func() {
	c.interrupts++
	return func() {}
}

func (c *fakeController) VideoState() core.MemoryReader { return c.state }

// runFrameActions fires the pending frame callbacks once, as the emulation
// thread would at a frame boundary.
func (c *fakeController) runFrameActions() {
	actions := c.actions
	c.actions = nil
	for _, action := range actions {
		action()
	}
}

// fakeFactory builds fakeReplayers and keeps every instance it handed out.
type fakeFactory struct {
	width, height int
	fill          uint32
	err           error
	created       []*fakeReplayer
}

func (f *fakeFactory) build(data []byte) (core.Replayer, error) {
	if f.err != nil {
		return nil, f.err
	}
	r := newFakeReplayer(f.width, f.height)
	r.fill = f.fill
	f.created = append(f.created, r)
	return r, nil
}

// recordingPresenter captures every presentation update.
type recordingPresenter struct {
	queues     [][]QueueItem
	rendered   []*video.Image
	composited []*video.Image
}

func (p *recordingPresenter) UpdateQueue(items []QueueItem) { p.queues = append(p.queues, items) }
func (p *recordingPresenter) UpdateRendered(img *video.Image) {
	p.rendered = append(p.rendered, img)
}
func (p *recordingPresenter) UpdateComposited(img *video.Image) {
	p.composited = append(p.composited, img)
}
