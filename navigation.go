package main

import (
	"errors"
	"log/slog"
	"strings"
)

var arrowKeys = []string{
	"up", "down", "left", "right",
	"shift+up", "shift+down", "shift+left", "shift+right",
}

// arrowDelta is the per-press step for an arrow key. Shift doubles it.
func arrowDelta(key string) (int, int) {
	step := 1
	if k, ok := strings.CutPrefix(key, "shift+"); ok {
		key, step = k, 2
	}
	switch key {
	case "left":
		return -step, 0
	case "right":
		return step, 0
	case "up":
		return 0, -step
	case "down":
		return 0, step
	}
	return 0, 0
}

func (m *model) handlePan(key string) {
	m.canvas.Pan(arrowDelta(key))
}

func (m *model) handleNodeMove(key string) {
	m.moveSelected(arrowDelta(key))
}

func (m *model) moveSelected(dx, dy int) {
	if err := m.canvas.MoveNode(m.selection.NodeID, dx, dy); err != nil {
		m.dropStale(err)
	}
}

func (m *model) resizeSelected(dw, dh int) {
	if err := m.canvas.ResizeNode(m.selection.NodeID, dw, dh); err != nil {
		m.dropStale(err)
	}
}

// dropStale turns an operation on a vanished id into a no-op that clears the
// selection. Anything else is reported in the status bar.
func (m *model) dropStale(err error) {
	if errors.Is(err, ErrNotFound) {
		slog.Debug("stale selection", "err", err)
		m.selection.clear()
		m.mode = ModeNormal
		return
	}
	m.errorMessage = err.Error()
}
