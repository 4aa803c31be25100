package main

import (
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

// transition is one row of the controller table. The first row for a
// (mode, key) pair whose guard passes wins; its next mode is entered before
// the effect runs, so an effect may still redirect the mode.
type transition struct {
	guard  func(m *model) bool
	next   Mode
	effect func(m *model, key string) tea.Cmd
}

type transitionTable map[Mode]map[string][]transition

// fallbacks handle keys with no table row in a mode. Modes without a
// fallback ignore unknown keys.
var fallbacks = map[Mode]func(m *model, msg tea.KeyMsg) tea.Cmd{
	ModeInsert: (*model).typeRune,
	ModeHelp: func(m *model, _ tea.KeyMsg) tea.Cmd {
		m.mode = ModeNormal
		return nil
	},
}

var transitions = buildTransitions()

func (t transitionTable) add(mode Mode, keys []string, rows ...transition) {
	if t[mode] == nil {
		t[mode] = make(map[string][]transition)
	}
	for _, key := range keys {
		t[mode][key] = append(t[mode][key], rows...)
	}
}

func keys(k ...string) []string { return k }

func always(*model) bool { return true }

func nodeSelected(m *model) bool {
	return m.selection.hasNode() && !m.selection.pending()
}

func connectionSelected(m *model) bool {
	return m.selection.hasConnection() && !m.selection.pending()
}

func isPending(m *model) bool { return m.selection.pending() }

func notPending(m *model) bool { return !m.selection.pending() }

func buildTransitions() transitionTable {
	t := make(transitionTable)

	// Normal
	t.add(ModeNormal, keys(" ", "space"), transition{guard: notPending, next: ModeLeader})
	t.add(ModeNormal, keys("i"), transition{guard: nodeSelected, next: ModeInsert, effect: (*model).beginInsert})
	t.add(ModeNormal, keys("r"), transition{guard: nodeSelected, next: ModeResize})
	t.add(ModeNormal, keys("tab"),
		transition{guard: isPending, next: ModeNormal, effect: cycleCandidate(Next)},
		transition{guard: always, next: ModeNormal, effect: cycleNode(Next)},
	)
	t.add(ModeNormal, keys("shift+tab"),
		transition{guard: isPending, next: ModeNormal, effect: cycleCandidate(Previous)},
		transition{guard: always, next: ModeNormal, effect: cycleNode(Previous)},
	)
	t.add(ModeNormal, keys("]"), transition{guard: notPending, next: ModeNormal, effect: cycleConnection(Next)})
	t.add(ModeNormal, keys("["), transition{guard: notPending, next: ModeNormal, effect: cycleConnection(Previous)})
	t.add(ModeNormal, arrowKeys,
		transition{guard: nodeSelected, next: ModeNormal, effect: effectKey((*model).handleNodeMove)},
		transition{guard: always, next: ModeNormal, effect: effectKey((*model).handlePan)},
	)
	t.add(ModeNormal, keys("backspace", "delete"),
		transition{guard: nodeSelected, next: ModeNormal, effect: (*model).deleteSelectedNode},
		transition{guard: connectionSelected, next: ModeNormal, effect: (*model).deleteSelectedConnection},
	)
	t.add(ModeNormal, keys("c"), transition{guard: nodeSelected, next: ModeNormal, effect: startPending(false)})
	t.add(ModeNormal, keys("a"),
		transition{guard: nodeSelected, next: ModeNormal, effect: startPending(true)},
		transition{guard: connectionSelected, next: ModeNormal, effect: (*model).toggleSelectedArrow},
	)
	t.add(ModeNormal, keys("enter"), transition{guard: isPending, next: ModeNormal, effect: (*model).commitPending})
	t.add(ModeNormal, keys("esc"),
		transition{guard: isPending, next: ModeNormal, effect: (*model).cancelPending},
		transition{guard: always, next: ModeNormal, effect: (*model).clearSelection},
	)

	// Leader
	t.add(ModeLeader, keys("n"), transition{guard: always, next: ModeNormal, effect: createNode(KindBox)})
	t.add(ModeLeader, keys("d"), transition{guard: always, next: ModeNormal, effect: createNode(KindDiamond)})
	t.add(ModeLeader, keys("t"), transition{guard: always, next: ModeNormal, effect: createNode(KindText)})
	t.add(ModeLeader, keys("w"), transition{guard: always, next: ModeNormal, effect: (*model).save})
	t.add(ModeLeader, keys("c"), transition{guard: always, next: ModeNormal, effect: (*model).copyExport})
	t.add(ModeLeader, keys("h"), transition{guard: always, next: ModeHelp})
	t.add(ModeLeader, keys("q"), transition{guard: always, next: ModeLeader, effect: quit})
	t.add(ModeLeader, keys("esc"), transition{guard: always, next: ModeNormal})

	// Insert
	t.add(ModeInsert, keys("tab"), transition{guard: always, next: ModeNormal, effect: (*model).commitAndAdvance})
	t.add(ModeInsert, keys("esc"), transition{guard: always, next: ModeNormal, effect: (*model).commitText})
	t.add(ModeInsert, keys("enter"), transition{guard: always, next: ModeInsert, effect: appendText("\n")})
	t.add(ModeInsert, keys(" ", "space"), transition{guard: always, next: ModeInsert, effect: appendText(" ")})
	t.add(ModeInsert, keys("backspace"), transition{guard: always, next: ModeInsert, effect: (*model).deleteRune})
	t.add(ModeInsert, keys("ctrl+v"), transition{guard: always, next: ModeInsert, effect: (*model).pasteText})

	// Resize
	t.add(ModeResize, keys("+", "="), transition{guard: always, next: ModeResize, effect: resizeBy(resizeStepX, resizeStepY)})
	t.add(ModeResize, keys("-", "_"), transition{guard: always, next: ModeResize, effect: resizeBy(-resizeStepX, -resizeStepY)})
	t.add(ModeResize, keys("esc", "enter"), transition{guard: always, next: ModeNormal})

	return t
}

// handleKey runs the table row matching the key in the current mode.
func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		return tea.Quit
	}
	for _, row := range transitions[m.mode][key] {
		if !row.guard(m) {
			continue
		}
		m.mode = row.next
		if row.effect == nil {
			return nil
		}
		return row.effect(m, key)
	}
	if fallback, ok := fallbacks[m.mode]; ok {
		return fallback(m, msg)
	}
	return nil
}

func effectKey(f func(m *model, key string)) func(*model, string) tea.Cmd {
	return func(m *model, key string) tea.Cmd {
		f(m, key)
		return nil
	}
}

func quit(*model, string) tea.Cmd { return tea.Quit }

func createNode(kind NodeKind) func(*model, string) tea.Cmd {
	return func(m *model, _ string) tea.Cmd {
		x, y := m.canvas.spawnPosition()
		id := m.canvas.CreateNode(kind, x, y)
		m.selection.clear()
		m.selection.selectNode(id)
		slog.Debug("node created", "id", id, "kind", kind.String(), "x", x, "y", y)
		return nil
	}
}

func cycleNode(dir Direction) func(*model, string) tea.Cmd {
	return func(m *model, _ string) tea.Cmd {
		if id, ok := m.canvas.CycleSelection(m.selection.NodeID, dir); ok {
			m.selection.selectNode(id)
		}
		return nil
	}
}

func cycleConnection(dir Direction) func(*model, string) tea.Cmd {
	return func(m *model, _ string) tea.Cmd {
		if id, ok := m.canvas.CycleConnection(m.selection.ConnID, dir); ok {
			m.selection.selectConnection(id)
		}
		return nil
	}
}

// cycleCandidate walks the node ring from the current candidate, skipping
// the pending source.
func cycleCandidate(dir Direction) func(*model, string) tea.Cmd {
	return func(m *model, _ string) tea.Cmd {
		p := m.selection.Pending
		p.CandidateID = m.nextCandidate(p.SourceID, p.CandidateID, dir)
		return nil
	}
}

func (m *model) nextCandidate(source, from int, dir Direction) int {
	current := from
	if current < 0 {
		current = source
	}
	for range m.canvas.NodeCount() {
		id, ok := m.canvas.CycleSelection(current, dir)
		if !ok {
			return -1
		}
		if id != source {
			return id
		}
		current = id
	}
	return -1
}

func startPending(arrow bool) func(*model, string) tea.Cmd {
	return func(m *model, _ string) tea.Cmd {
		source := m.selection.NodeID
		m.selection.Pending = &pendingConnection{
			SourceID:    source,
			Arrow:       arrow,
			CandidateID: m.nextCandidate(source, -1, Next),
		}
		return nil
	}
}

func (m *model) commitPending(string) tea.Cmd {
	p := m.selection.Pending
	m.selection.Pending = nil
	id, err := m.canvas.CreateConnection(p.SourceID, p.CandidateID, p.Arrow)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			m.statusMessage = "No target to connect"
			return nil
		}
		m.errorMessage = err.Error()
		return nil
	}
	slog.Debug("connection created", "id", id, "from", p.SourceID, "to", p.CandidateID)
	return nil
}

func (m *model) cancelPending(string) tea.Cmd {
	m.selection.Pending = nil
	return nil
}

func (m *model) clearSelection(string) tea.Cmd {
	m.selection.clear()
	return nil
}

func (m *model) toggleSelectedArrow(string) tea.Cmd {
	if _, err := m.canvas.ToggleArrow(m.selection.ConnID); err != nil {
		m.dropStale(err)
	}
	return nil
}

func (m *model) deleteSelectedNode(string) tea.Cmd {
	removed := m.canvas.DeleteNode(m.selection.NodeID)
	slog.Debug("node deleted", "id", m.selection.NodeID, "connections", removed)
	m.selection.clear()
	return nil
}

func (m *model) deleteSelectedConnection(string) tea.Cmd {
	if err := m.canvas.DeleteConnection(m.selection.ConnID); err != nil {
		m.dropStale(err)
		return nil
	}
	m.selection.clear()
	return nil
}

func resizeBy(dw, dh int) func(*model, string) tea.Cmd {
	return func(m *model, _ string) tea.Cmd {
		m.resizeSelected(dw, dh)
		return nil
	}
}

func (m *model) beginInsert(string) tea.Cmd {
	n, ok := m.canvas.Node(m.selection.NodeID)
	if !ok {
		m.dropStale(ErrNotFound)
		return nil
	}
	m.editText = n.Text
	return nil
}

func (m *model) commitText(string) tea.Cmd {
	if err := m.canvas.SetText(m.selection.NodeID, m.editText); err != nil {
		m.dropStale(err)
	}
	m.editText = ""
	return nil
}

func (m *model) commitAndAdvance(key string) tea.Cmd {
	m.commitText(key)
	return cycleNode(Next)(m, key)
}

func appendText(s string) func(*model, string) tea.Cmd {
	return func(m *model, _ string) tea.Cmd {
		m.editText += s
		return nil
	}
}

func (m *model) deleteRune(string) tea.Cmd {
	if runes := []rune(m.editText); len(runes) > 0 {
		m.editText = string(runes[:len(runes)-1])
	}
	return nil
}

func (m *model) typeRune(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyRunes {
		m.editText += string(msg.Runes)
	}
	return nil
}

func (m *model) pasteText(string) tea.Cmd {
	if m.clipboard == nil {
		return nil
	}
	text, err := m.clipboard.Paste()
	if err != nil {
		m.errorMessage = err.Error()
		return nil
	}
	m.editText += text
	return nil
}

func (m *model) save(string) tea.Cmd {
	if m.store == nil {
		m.errorMessage = "no save location configured"
		return nil
	}
	result, err := m.store.Save(m.canvas)
	if err != nil {
		slog.Error("save failed", "err", err)
		m.errorMessage = err.Error()
		return nil
	}
	m.statusMessage = describeSave(result)
	return nil
}

func (m *model) copyExport(string) tea.Cmd {
	if m.clipboard == nil {
		return nil
	}
	grid, warn := RenderExport(m.canvas)
	if err := m.clipboard.Copy(grid.String()); err != nil {
		slog.Error("copy failed", "err", err)
		m.errorMessage = err.Error()
		return nil
	}
	m.statusMessage = "Copied diagram to clipboard"
	if warn != nil {
		m.statusMessage += " (" + warn.Error() + ")"
	}
	return nil
}
