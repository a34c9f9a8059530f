package inspect

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/valerio/go-framelens/framelens/core"
	"github.com/valerio/go-framelens/framelens/video"
)

// SnapshotManager captures frames into transferable buffers and owns the
// secondary replayer's lifecycle. The "next" buffer accumulates the frame
// currently being logged; at each frame boundary it is promoted to
// "current" by copy, the log restarts immediately so no frame is missed,
// and a fresh replayer is built from the promoted snapshot.
//
// Not safe for concurrent use on its own; the Inspector serializes calls
// under its lock.
type SnapshotManager struct {
	controller core.Controller
	factory    core.ReplayerFactory

	next        *bytes.Buffer
	current     []byte
	replayer    core.Replayer
	framebuffer *video.Image
}

func NewSnapshotManager(controller core.Controller, factory core.ReplayerFactory) *SnapshotManager {
	return &SnapshotManager{
		controller: controller,
		factory:    factory,
	}
}

// Start begins logging the first frame.
func (m *SnapshotManager) Start() error {
	m.next = &bytes.Buffer{}
	if err := m.controller.StartVideoLog(m.next); err != nil {
		return fmt.Errorf("failed to start video log: %w", err)
	}
	return nil
}

// Refresh runs at a frame boundary, with the emulation thread interrupted:
// promote the pending log, restart logging, and rebuild the replayer from
// the promoted snapshot. An empty pending log (first call) only restarts.
func (m *SnapshotManager) Refresh() error {
	promoted := append([]byte(nil), m.next.Bytes()...)
	m.controller.EndVideoLog()
	m.next = &bytes.Buffer{}
	if err := m.controller.StartVideoLog(m.next); err != nil {
		return fmt.Errorf("failed to restart video log: %w", err)
	}

	if len(promoted) == 0 {
		return nil
	}
	m.current = promoted
	return m.rebuildReplayer()
}

func (m *SnapshotManager) rebuildReplayer() error {
	if m.replayer != nil {
		m.replayer.Deinit()
		m.replayer = nil
		m.framebuffer = nil
	}

	replayer, err := m.factory(m.current)
	if err != nil {
		return fmt.Errorf("no replayer for snapshot: %w", err)
	}
	if err := replayer.Init(); err != nil {
		return fmt.Errorf("failed to init replayer: %w", err)
	}
	if err := replayer.LoadSnapshot(m.current); err != nil {
		replayer.Deinit()
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	width, height := replayer.DesiredVideoDimensions()
	m.framebuffer = video.New(width, height)
	replayer.SetVideoBuffer(m.framebuffer.Pix, width)
	replayer.Reset()
	m.replayer = replayer

	slog.Debug("Replayer rebuilt", "snapshot_bytes", len(m.current), "width", width, "height", height)
	return nil
}

// Replayer returns the current replayer, nil before the first promotion.
func (m *SnapshotManager) Replayer() core.Replayer {
	return m.replayer
}

// Framebuffer returns the replayer's output image, nil before the first
// promotion.
func (m *SnapshotManager) Framebuffer() *video.Image {
	return m.framebuffer
}

// Teardown releases the replayer and stops logging.
func (m *SnapshotManager) Teardown() {
	if m.replayer != nil {
		m.replayer.Deinit()
		m.replayer = nil
	}
	m.framebuffer = nil
	m.controller.EndVideoLog()
}
