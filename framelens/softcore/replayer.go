package softcore

import (
	"fmt"

	"github.com/valerio/go-framelens/framelens/addr"
	"github.com/valerio/go-framelens/framelens/core"
	"github.com/valerio/go-framelens/framelens/inspect"
	"github.com/valerio/go-framelens/framelens/video"
)

// Hardware layer indices used by EnableVideoLayer and the highlight
// controls. GBA backgrounds use their own index; objects are layer 4.
const (
	gbaObjLayer = 4

	gbBGLayer     = 0
	gbObjLayer    = 1
	gbWindowLayer = 2
)

// Replayer re-renders a captured snapshot through the software
// compositor. Layer toggles, OAM overrides and highlights apply before
// each RunFrame; Reset restores the pristine captured frame.
type Replayer struct {
	snapshot   *Snapshot
	decomposer inspect.Decomposer

	pix    []uint32
	stride int
	width  int
	height int

	settings     compositeSettings
	oamOverrides map[uint32]uint8

	injectionPoint core.InjectionPoint
	ignoreMask     core.DirtyFlag
}

// Factory builds a Replayer from a logged snapshot blob. It satisfies
// core.ReplayerFactory.
func Factory(data []byte) (core.Replayer, error) {
	snapshot, err := DecodeSnapshot(data)
	if err != nil {
		return nil, err
	}
	decomposer := inspect.DecomposerFor(snapshot.Platform)
	if decomposer == nil {
		return nil, fmt.Errorf("snapshot for unsupported platform %s", snapshot.Platform)
	}
	dims := decomposer.ScreenDimensions()
	r := &Replayer{
		snapshot:   snapshot,
		decomposer: decomposer,
		width:      dims.X,
		height:     dims.Y,
	}
	r.Reset()
	return r, nil
}

func (r *Replayer) Init() error { return nil }

func (r *Replayer) Deinit() {
	r.pix = nil
	r.snapshot = nil
}

func (r *Replayer) LoadSnapshot(data []byte) error {
	snapshot, err := DecodeSnapshot(data)
	if err != nil {
		return err
	}
	if snapshot.Platform != r.snapshot.Platform {
		return fmt.Errorf("snapshot platform changed from %s to %s", r.snapshot.Platform, snapshot.Platform)
	}
	r.snapshot = snapshot
	return nil
}

func (r *Replayer) Reset() {
	r.settings = defaultCompositeSettings(r.platform())
	r.oamOverrides = map[uint32]uint8{}
	r.injectionPoint = core.InjectImmediate
	r.ignoreMask = 0
}

func (r *Replayer) platform() core.Platform {
	if r.snapshot == nil {
		return core.PlatformNone
	}
	return r.snapshot.Platform
}

func (r *Replayer) SetVideoBuffer(pix []uint32, stride int) {
	r.pix = pix
	r.stride = stride
}

func (r *Replayer) DesiredVideoDimensions() (int, int) {
	return r.width, r.height
}

func (r *Replayer) EnableVideoLayer(index int, enabled bool) {
	r.settings.layerEnabled[index] = enabled
}

func (r *Replayer) SetBackgroundHighlight(index int, on bool) {
	r.settings.bgHighlight[index] = on
}

func (r *Replayer) SetSpriteHighlight(index int, on bool) {
	r.settings.spriteHighlight[index] = on
}

func (r *Replayer) SetHighlightColor(argb uint32) { r.settings.highlightColor = argb }
func (r *Replayer) SetHighlightAmount(amount int) { r.settings.highlightAmount = amount }

func (r *Replayer) SetInjectionPoint(point core.InjectionPoint) {
	r.injectionPoint = point
}

// InjectOAM overrides one OAM halfword. The offset counts halfwords from
// the start of OAM, matching the register file's natural access width.
func (r *Replayer) InjectOAM(offset int, value uint16) {
	base := addr.GBAOAMBase
	if r.platform() == core.PlatformGB {
		base = addr.OAMStart
	}
	byteAddr := base + uint32(offset)*2
	r.oamOverrides[byteAddr] = uint8(value)
	r.oamOverrides[byteAddr+1] = uint8(value >> 8)
}

// IgnoreDirtyAfterInjection records the suppression mask. The software
// core replays no mid-frame writes, so injected state can never be
// overridden here; the mask matters only to log-replaying cores.
func (r *Replayer) IgnoreDirtyAfterInjection(mask core.DirtyFlag) {
	r.ignoreMask = mask
}

// RunFrame decomposes the snapshot, with OAM overrides layered on top,
// and composites the result into the bound video buffer.
func (r *Replayer) RunFrame() {
	if r.pix == nil || r.snapshot == nil {
		return
	}
	state := overlayReader{base: r.snapshot, overrides: r.oamOverrides}
	queue := inspect.NewLayerQueue()
	r.decomposer.Decompose(state, queue)

	dst := &video.Image{Width: r.width, Height: r.height, Pix: r.pix}
	if r.stride != r.width {
		dst = video.New(r.width, r.height)
	}
	compositeQueue(queue, dst, r.settings)
	if r.stride != r.width {
		for y := 0; y < r.height; y++ {
			copy(r.pix[y*r.stride:y*r.stride+r.width], dst.Pix[y*r.width:(y+1)*r.width])
		}
	}
}

// overlayReader patches injected bytes over a base memory image.
type overlayReader struct {
	base      core.MemoryReader
	overrides map[uint32]uint8
}

func (o overlayReader) Read(a uint32) uint8 {
	if v, ok := o.overrides[a]; ok {
		return v
	}
	return o.base.Read(a)
}

// compositeSettings select and tint layers during compositing.
type compositeSettings struct {
	platform        core.Platform
	layerEnabled    map[int]bool
	bgHighlight     map[int]bool
	spriteHighlight map[int]bool
	highlightColor  uint32
	highlightAmount int
}

func defaultCompositeSettings(platform core.Platform) compositeSettings {
	return compositeSettings{
		platform:        platform,
		layerEnabled:    map[int]bool{},
		bgHighlight:     map[int]bool{},
		spriteHighlight: map[int]bool{},
	}
}

// hardwareLayerIndex maps a queue layer to its whole-layer toggle index.
// The backdrop has no toggle.
func hardwareLayerIndex(platform core.Platform, id inspect.LayerID) (int, bool) {
	switch platform {
	case core.PlatformGBA:
		switch id.Type {
		case inspect.LayerBackground:
			return id.Index, true
		case inspect.LayerSprite:
			return gbaObjLayer, true
		}
	case core.PlatformGB:
		switch id.Type {
		case inspect.LayerBackground:
			return gbBGLayer, true
		case inspect.LayerSprite:
			return gbObjLayer, true
		case inspect.LayerWindow:
			return gbWindowLayer, true
		}
	}
	return 0, false
}

func (s compositeSettings) layerVisible(id inspect.LayerID) bool {
	index, ok := hardwareLayerIndex(s.platform, id)
	if !ok {
		return true
	}
	enabled, set := s.layerEnabled[index]
	return !set || enabled
}

func (s compositeSettings) layerHighlighted(id inspect.LayerID) bool {
	switch id.Type {
	case inspect.LayerSprite:
		return s.spriteHighlight[id.Index]
	case inspect.LayerBackground, inspect.LayerWindow:
		index, ok := hardwareLayerIndex(s.platform, id)
		return ok && s.bgHighlight[index]
	}
	return false
}

// compositeQueue paints the queue back to front into dst. Transparent
// source pixels leave the pixel below visible; highlighted layers are
// blended toward the highlight color.
func compositeQueue(queue *inspect.LayerQueue, dst *video.Image, s compositeSettings) {
	for i := range dst.Pix {
		dst.Pix[i] = 0xFF000000
	}
	for i := queue.Len() - 1; i >= 0; i-- {
		layer := queue.Layer(i)
		if !layer.Enabled || !s.layerVisible(layer.ID) {
			continue
		}
		highlight := s.layerHighlighted(layer.ID)
		drawLayer(dst, layer, highlight, s.highlightColor, s.highlightAmount)
	}
}

func drawLayer(dst *video.Image, layer *inspect.Layer, highlight bool, color uint32, amount int) {
	img := layer.Image
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			sx := x - layer.Location.X
			sy := y - layer.Location.Y
			if layer.Repeats {
				sx = ((sx % img.Width) + img.Width) % img.Width
				sy = ((sy % img.Height) + img.Height) % img.Height
			} else if sx < 0 || sy < 0 || sx >= img.Width || sy >= img.Height {
				continue
			}
			pixel := img.GetPixel(sx, sy)
			if pixel == 0 {
				continue
			}
			if highlight {
				pixel = blendHighlight(pixel, color, amount)
			}
			dst.SetPixel(x, y, pixel)
		}
	}
}

// blendHighlight mixes base toward the highlight color; 128 is a full
// replacement, 0 leaves the base untouched.
func blendHighlight(base, highlight uint32, amount int) uint32 {
	if amount <= 0 {
		return base
	}
	if amount > 128 {
		amount = 128
	}
	mix := func(shift uint) uint32 {
		b := int(base >> shift & 0xFF)
		h := int(highlight >> shift & 0xFF)
		return uint32(b+(h-b)*amount/128) << shift
	}
	return 0xFF000000 | mix(16) | mix(8) | mix(0)
}
