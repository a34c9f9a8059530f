package softcore

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturedReplayer runs the full pipeline a live session would: render a
// frame on the test machine, log it, and seed a replayer from the log.
func capturedReplayer(t *testing.T) (*Machine, *Replayer, []uint32) {
	t.Helper()
	m := NewTestMachine()
	var buf bytes.Buffer
	require.NoError(t, m.StartVideoLog(&buf))
	require.NoError(t, m.Advance())

	built, err := Factory(buf.Bytes())
	require.NoError(t, err)
	r := built.(*Replayer)
	require.NoError(t, r.Init())
	require.NoError(t, r.LoadSnapshot(buf.Bytes()))

	w, h := r.DesiredVideoDimensions()
	pix := make([]uint32, w*h)
	r.SetVideoBuffer(pix, w)
	r.Reset()
	return m, r, pix
}

func pixelAt(pix []uint32, stride, x, y int) uint32 {
	return pix[y*stride+x]
}

func TestFactoryRejectsJunk(t *testing.T) {
	_, err := Factory([]byte("garbage"))
	assert.Error(t, err)
}

func TestReplayerMatchesMachineOutput(t *testing.T) {
	m, r, pix := capturedReplayer(t)
	r.RunFrame()
	assert.Equal(t, m.Pixels().Pix, pix)
}

func TestReplayerBackgroundToggle(t *testing.T) {
	_, r, pix := capturedReplayer(t)
	r.EnableVideoLayer(0, false)
	r.RunFrame()

	// without the checkerboard, the solid layer behind it shows through
	assert.Equal(t, uint32(0xFF00FF00), pixelAt(pix, 240, 0, 0))
}

func TestReplayerObjectToggle(t *testing.T) {
	_, r, pix := capturedReplayer(t)
	r.EnableVideoLayer(gbaObjLayer, false)
	r.RunFrame()

	assert.Equal(t, uint32(0xFFFFFFFF), pixelAt(pix, 240, 60, 40))
}

func TestReplayerOAMInjectionSuppressesSprite(t *testing.T) {
	_, r, pix := capturedReplayer(t)
	// set the attr0 disable bit on sprite 0
	r.InjectOAM(0, 0x0200)
	r.RunFrame()

	assert.Equal(t, uint32(0xFFFFFFFF), pixelAt(pix, 240, 60, 40))
}

func TestReplayerHighlightBlending(t *testing.T) {
	_, r, pix := capturedReplayer(t)
	r.SetBackgroundHighlight(1, true)
	r.SetHighlightColor(0xFFFFFFFF)
	r.SetHighlightAmount(64)
	r.RunFrame()

	// a half-strength white highlight pulls green halfway up
	assert.Equal(t, uint32(0xFF7FFF7F), pixelAt(pix, 240, 8, 0))
	// the non-highlighted checkerboard is untouched
	assert.Equal(t, uint32(0xFFFFFFFF), pixelAt(pix, 240, 0, 0))
}

func TestReplayerResetDiscardsInjections(t *testing.T) {
	m, r, pix := capturedReplayer(t)
	r.EnableVideoLayer(0, false)
	r.InjectOAM(0, 0x0200)
	r.SetBackgroundHighlight(1, true)
	r.SetHighlightAmount(128)
	r.RunFrame()

	r.Reset()
	r.RunFrame()
	assert.Equal(t, m.Pixels().Pix, pix)
}

func TestReplayerStridePadding(t *testing.T) {
	_, r, _ := capturedReplayer(t)
	w, h := r.DesiredVideoDimensions()
	stride := w + 16
	pix := make([]uint32, stride*h)
	r.SetVideoBuffer(pix, stride)
	r.RunFrame()

	assert.Equal(t, uint32(0xFFFFFFFF), pixelAt(pix, stride, 0, 0))
	assert.Equal(t, uint32(0xFFFF0000), pixelAt(pix, stride, 60, 40))
	// padding stays untouched
	assert.Equal(t, uint32(0), pix[w])
}

func TestBlendHighlightBounds(t *testing.T) {
	assert.Equal(t, uint32(0xFF00FF00), blendHighlight(0xFF00FF00, 0xFFFFFFFF, 0))
	assert.Equal(t, uint32(0xFFFFFFFF), blendHighlight(0xFF00FF00, 0xFFFFFFFF, 128))
	assert.Equal(t, uint32(0xFFFFFFFF), blendHighlight(0xFF00FF00, 0xFFFFFFFF, 500))
}
