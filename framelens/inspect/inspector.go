package inspect

import (
	"errors"
	"image"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/valerio/go-framelens/framelens/core"
	"github.com/valerio/go-framelens/framelens/video"
)

// State tracks where the inspector is in its recompute cycle.
type State int

const (
	StateIdle State = iota
	StateSnapshotPending
	StateInjecting
	StateComposited
)

// highlightColor is blended over the active layer by the replayer.
const highlightColor = 0xFFFFFFFF

// glowAmount is the pulsing highlight intensity for an animation frame:
// a sine over a 60-tick period, swinging between 0 and 128.
func glowAmount(frame int) int {
	return int(math.Round(math.Sin(float64(frame)*math.Pi/30)*64 + 64))
}

// Presenter receives the inspector's output: the projected layer list and
// the raw/composited images. Implementations must not call back into the
// Inspector from these methods; they run under the inspector's lock.
type Presenter interface {
	UpdateQueue(items []QueueItem)
	UpdateRendered(img *video.Image)
	UpdateComposited(img *video.Image)
}

// Options configure an Inspector.
type Options struct {
	// Magnification scales pointer coordinates down and display images
	// up. Values below 1 are treated as 1.
	Magnification int

	// GlowInterval is the highlight animation period. Zero means 33ms.
	GlowInterval time.Duration

	// DisableScanlineEffects suppresses logged palette/OAM/register
	// writes after the injection point, so mid-frame raster tricks don't
	// override operator edits.
	DisableScanlineEffects bool
}

// Inspector decomposes the controller's frames into a layer queue, tracks
// operator edits, and recomposites through a replayer seeded from frame
// snapshots. One lock guards the queue, the replayer and the snapshot
// buffers; raw state reads additionally hold the controller interrupted.
type Inspector struct {
	mu         sync.Mutex
	controller core.Controller
	presenter  Presenter
	decomposer Decomposer
	queue      *LayerQueue
	snapshots  *SnapshotManager

	state           State
	dims            image.Point
	rendered        *video.Image
	composited      *video.Image
	magnification   int
	frozen          bool
	disableScanline bool

	glowFrame    int
	glowInterval time.Duration
	glowStart    sync.Once
	glowStop     chan struct{}

	// alive is shared with scheduled frame callbacks; once cleared,
	// in-flight callbacks become no-ops. Cancellation is cooperative,
	// never forcible.
	alive *atomic.Bool
}

// New attaches an inspector to a running controller. The returned
// inspector has registered its per-frame snapshot callback and begins
// capturing on the next frame boundary.
func New(controller core.Controller, factory core.ReplayerFactory, presenter Presenter, opts Options) (*Inspector, error) {
	decomposer := DecomposerFor(controller.Platform())
	if decomposer == nil {
		return nil, errors.New("platform has no layer decomposition support")
	}

	magnification := opts.Magnification
	if magnification < 1 {
		magnification = 1
	}
	glowInterval := opts.GlowInterval
	if glowInterval == 0 {
		glowInterval = 33 * time.Millisecond
	}

	insp := &Inspector{
		controller:      controller,
		presenter:       presenter,
		decomposer:      decomposer,
		queue:           NewLayerQueue(),
		snapshots:       NewSnapshotManager(controller, factory),
		dims:            decomposer.ScreenDimensions(),
		magnification:   magnification,
		disableScanline: opts.DisableScanlineEffects,
		glowInterval:    glowInterval,
		glowStop:        make(chan struct{}),
		alive:           &atomic.Bool{},
	}
	insp.alive.Store(true)

	if err := insp.snapshots.Start(); err != nil {
		return nil, err
	}

	alive := insp.alive
	controller.AddFrameAction(func() { insp.frameCallback(alive) })
	return insp, nil
}

// frameCallback runs on the emulation thread at each frame boundary. It
// promotes the pending snapshot under a cooperative pause and re-registers
// itself for the next frame.
func (insp *Inspector) frameCallback(alive *atomic.Bool) {
	if !alive.Load() {
		return
	}

	// lock order is always inspector lock first, cooperative pause
	// second; rebuildLocked acquires them in the same order
	insp.mu.Lock()
	insp.state = StateSnapshotPending
	var err error
	func() {
		resume := insp.controller.Interrupt(true)
		defer resume()
		err = insp.snapshots.Refresh()
	}()
	promoted := insp.snapshots.Replayer() != nil
	if err == nil {
		insp.state = StateIdle
	}
	insp.mu.Unlock()

	if err != nil {
		slog.Warn("Snapshot refresh failed", "error", err)
	}
	if promoted {
		insp.startGlow()
	}

	if !alive.Load() {
		return
	}
	insp.controller.AddFrameAction(func() { insp.frameCallback(alive) })
}

// startGlow begins the highlight animation loop once the first snapshot is
// in place. Ticks advance the animation counter and refresh the queue at a
// bounded rate; a tick that arrives while a recompute holds the lock is
// dropped by the ticker, so recomputes never stack.
func (insp *Inspector) startGlow() {
	insp.glowStart.Do(func() {
		ticker := time.NewTicker(insp.glowInterval)
		go func() {
			defer ticker.Stop()
			for {
				select {
				case <-insp.glowStop:
					return
				case <-ticker.C:
					insp.mu.Lock()
					insp.glowFrame++
					if insp.frozen {
						// frozen view: leave the queue alone but keep the
						// highlight pulsing on the static frame
						insp.invalidateLocked()
					} else {
						insp.rebuildLocked()
					}
					insp.mu.Unlock()
				}
			}
		}()
	})
}

// Rebuild decomposes the current frame into a fresh layer queue and
// recomposites. While the view is frozen this is a silent no-op.
func (insp *Inspector) Rebuild() {
	insp.mu.Lock()
	defer insp.mu.Unlock()
	insp.rebuildLocked()
}

func (insp *Inspector) rebuildLocked() {
	if insp.frozen {
		return
	}
	insp.queue.Reset()
	func() {
		resume := insp.controller.Interrupt(false)
		defer resume()
		insp.decomposer.Decompose(insp.controller.VideoState(), insp.queue)
		insp.updateRenderedLocked()
	}()
	insp.dims = insp.decomposer.ScreenDimensions()
	insp.invalidateLocked()
}

// invalidateLocked replays the queue's configuration through the replayer
// and refreshes the presentation. Without a replayer the composited view
// degrades to the raw rendered image.
func (insp *Inspector) invalidateLocked() {
	if replayer := insp.snapshots.Replayer(); replayer != nil {
		insp.state = StateInjecting
		replayer.Reset()
		insp.decomposer.Inject(replayer, insp.queue, insp.glowFrame)
		if insp.disableScanline {
			replayer.IgnoreDirtyAfterInjection(core.DirtyPalette | core.DirtyOAM | core.DirtyRegister)
		} else {
			replayer.IgnoreDirtyAfterInjection(0)
		}
		replayer.RunFrame()
	}
	insp.state = StateComposited

	if insp.presenter != nil {
		insp.presenter.UpdateQueue(insp.queue.Items())
	}

	if fb := insp.snapshots.Framebuffer(); fb != nil {
		insp.composited = fb.Clone()
	} else {
		insp.updateRenderedLocked()
		if insp.rendered != nil {
			insp.composited = insp.rendered.Clone()
		}
	}
	if insp.presenter != nil && insp.composited != nil {
		insp.presenter.UpdateComposited(insp.composited)
	}
}

func (insp *Inspector) updateRenderedLocked() {
	if insp.frozen {
		return
	}
	insp.rendered = insp.controller.Pixels().Clone()
	if insp.presenter != nil {
		insp.presenter.UpdateRendered(insp.rendered)
	}
}

// SelectAt toggles the active highlight on the layer under a pointer
// position, given in magnified display coordinates.
func (insp *Inspector) SelectAt(p image.Point) {
	insp.mu.Lock()
	defer insp.mu.Unlock()
	layer := insp.queue.Locate(p.Div(insp.magnification))
	if layer == nil {
		return
	}
	insp.queue.SetActive(layer.ID)
	insp.glowFrame = 0
	insp.invalidateLocked()
}

// DisableAt disables the layer under a pointer position.
func (insp *Inspector) DisableAt(p image.Point) {
	insp.mu.Lock()
	defer insp.mu.Unlock()
	layer := insp.queue.Locate(p.Div(insp.magnification))
	if layer == nil {
		return
	}
	insp.queue.Disable(layer.ID)
	insp.invalidateLocked()
}

// SetLayerEnabled flips the checkbox state of the i-th queue entry.
func (insp *Inspector) SetLayerEnabled(index int, enabled bool) {
	insp.mu.Lock()
	defer insp.mu.Unlock()
	if index < 0 || index >= insp.queue.Len() {
		return
	}
	insp.queue.SetEnabled(insp.queue.Layer(index).ID, enabled)
	insp.invalidateLocked()
}

// SelectIndex toggles the active highlight on the i-th queue entry. A
// negative index clears the selection.
func (insp *Inspector) SelectIndex(index int) {
	insp.mu.Lock()
	defer insp.mu.Unlock()
	if index < 0 || index >= insp.queue.Len() {
		insp.queue.ClearActive()
	} else {
		insp.queue.SetActive(insp.queue.Layer(index).ID)
		insp.glowFrame = 0
	}
	insp.invalidateLocked()
}

// SetFrozen pauses or resumes queue refresh so the operator can study a
// static frame. All recompute paths respect the flag silently.
func (insp *Inspector) SetFrozen(frozen bool) {
	insp.mu.Lock()
	defer insp.mu.Unlock()
	insp.frozen = frozen
	if !frozen {
		insp.rebuildLocked()
	}
}

func (insp *Inspector) Frozen() bool {
	insp.mu.Lock()
	defer insp.mu.Unlock()
	return insp.frozen
}

func (insp *Inspector) SetDisableScanlineEffects(disable bool) {
	insp.mu.Lock()
	defer insp.mu.Unlock()
	insp.disableScanline = disable
	insp.invalidateLocked()
}

func (insp *Inspector) SetMagnification(magnification int) {
	insp.mu.Lock()
	defer insp.mu.Unlock()
	if magnification < 1 {
		magnification = 1
	}
	insp.magnification = magnification
	insp.invalidateLocked()
}

// ScreenDimensions returns the native display size of the inspected
// platform.
func (insp *Inspector) ScreenDimensions() image.Point {
	insp.mu.Lock()
	defer insp.mu.Unlock()
	return insp.dims
}

func (insp *Inspector) Magnification() int {
	insp.mu.Lock()
	defer insp.mu.Unlock()
	return insp.magnification
}

// Items returns the current presentation projection of the queue.
func (insp *Inspector) Items() []QueueItem {
	insp.mu.Lock()
	defer insp.mu.Unlock()
	return insp.queue.Items()
}

// Composited returns the latest recomposited image, nil before the first
// recompute.
func (insp *Inspector) Composited() *video.Image {
	insp.mu.Lock()
	defer insp.mu.Unlock()
	return insp.composited
}

// Rendered returns the latest raw frame image.
func (insp *Inspector) Rendered() *video.Image {
	insp.mu.Lock()
	defer insp.mu.Unlock()
	return insp.rendered
}

func (insp *Inspector) State() State {
	insp.mu.Lock()
	defer insp.mu.Unlock()
	return insp.state
}

// HighlightAmount returns the current pulsing highlight intensity.
func (insp *Inspector) HighlightAmount() int {
	insp.mu.Lock()
	defer insp.mu.Unlock()
	return glowAmount(insp.glowFrame)
}

// Close clears the liveness flag so scheduled callbacks become no-ops,
// stops the animation loop, and tears down the replayer. Safe to call
// once; the inspector must not be used afterwards.
func (insp *Inspector) Close() {
	insp.mu.Lock()
	defer insp.mu.Unlock()
	insp.alive.Store(false)
	close(insp.glowStop)
	insp.snapshots.Teardown()
}
