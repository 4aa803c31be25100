package main

import tea "github.com/charmbracelet/bubbletea"

// canvasOrigin is the screen cell of viewport column 0, row 0: one cell in
// from the frame border.
const canvasOrigin = 1

// screenToCanvas maps a terminal cell to logical coordinates. ok is false
// outside the drawn viewport.
func (m *model) screenToCanvas(sx, sy int) (int, int, bool) {
	vp := m.canvas.Viewport
	col, row := sx-canvasOrigin, sy-canvasOrigin
	if col < 0 || row < 0 || col >= vp.Width || row >= vp.Height {
		return 0, 0, false
	}
	return vp.X + col, vp.Y + row, true
}

func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.mode != ModeNormal {
		return nil
	}
	switch msg.Type {
	case tea.MouseLeft:
		x, y, ok := m.screenToCanvas(msg.X, msg.Y)
		if !ok {
			return nil
		}
		m.handlePress(x, y)
	case tea.MouseMotion:
		if m.drag.kind == dragNone {
			return nil
		}
		x, y, ok := m.screenToCanvas(msg.X, msg.Y)
		if !ok {
			return nil
		}
		m.handleDrag(x, y)
	case tea.MouseRelease:
		x, y, ok := m.screenToCanvas(msg.X, msg.Y)
		m.handleRelease(x, y, ok)
	}
	return nil
}

func (m *model) handlePress(x, y int) {
	if id, ok := m.canvas.NodeAt(x, y); ok {
		if p := m.selection.Pending; p != nil {
			if id != p.SourceID {
				p.CandidateID = id
			}
			return
		}
		m.selection.selectNode(id)
		n, _ := m.canvas.Node(id)
		r := n.rect()
		kind := dragMove
		switch {
		case x == r.right() && y == r.bottom():
			kind = dragResize
		case r.onBoundary(point{x, y}):
			kind = dragConnect
			m.selection.Pending = &pendingConnection{SourceID: id, Arrow: true, CandidateID: -1}
		}
		m.drag = dragState{kind: kind, nodeID: id, lastX: x, lastY: y}
		return
	}
	if m.selection.pending() {
		return
	}
	if id, ok := m.canvas.ConnectionAt(x, y); ok {
		m.selection.selectConnection(id)
		return
	}
	m.selection.clear()
}

// handleDrag applies the pointer delta since the last sample as one move or
// resize.
func (m *model) handleDrag(x, y int) {
	dx, dy := x-m.drag.lastX, y-m.drag.lastY
	if dx == 0 && dy == 0 {
		return
	}
	var err error
	switch m.drag.kind {
	case dragConnect:
		if p := m.selection.Pending; p != nil {
			p.CandidateID = m.targetAt(m.drag.nodeID, x, y)
		}
	case dragMove:
		err = m.canvas.MoveNode(m.drag.nodeID, dx, dy)
	case dragResize:
		before, _ := m.canvas.Node(m.drag.nodeID)
		err = m.canvas.ResizeNode(m.drag.nodeID, dx, dy)
		after, _ := m.canvas.Node(m.drag.nodeID)
		// Follow the corner while the size is clamped.
		x = m.drag.lastX + after.Width - before.Width
		y = m.drag.lastY + after.Height - before.Height
	}
	if err != nil {
		m.drag = dragState{}
		m.dropStale(err)
		return
	}
	m.drag.lastX, m.drag.lastY = x, y
}

// targetAt returns the node under the pointer that a connection drag may
// end on, or -1.
func (m *model) targetAt(source, x, y int) int {
	id, ok := m.canvas.NodeAt(x, y)
	if !ok || id == source {
		return -1
	}
	return id
}

// handleRelease ends the drag. A connection drag released over another node
// connects to it with an arrow, and a moved node opens for editing.
func (m *model) handleRelease(x, y int, ok bool) {
	drag := m.drag
	m.drag = dragState{}
	switch drag.kind {
	case dragConnect:
		p := m.selection.Pending
		if p == nil {
			return
		}
		p.CandidateID = -1
		if ok {
			p.CandidateID = m.targetAt(drag.nodeID, x, y)
		}
		if p.CandidateID < 0 {
			m.selection.Pending = nil
			return
		}
		m.commitPending("")
	case dragMove:
		m.mode = ModeInsert
		m.beginInsert("")
	}
}
