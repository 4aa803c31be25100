package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("8"))

	modeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6"))

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	titleStyle  = lipgloss.NewStyle().Bold(true)

	popupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

// shouldUseColor respects NO_COLOR, CLICOLOR_FORCE and CLICOLOR before
// falling back to TTY detection on stdout.
func shouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")) == "1" {
		return true
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR")) == "0" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func setupColors() {
	if !shouldUseColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// highlight derives the glyph-only render state from the selection.
func (m model) renderHighlight() highlight {
	hl := noHighlight()
	hl.nodeID = m.selection.NodeID
	hl.connID = m.selection.ConnID
	if p := m.selection.Pending; p != nil {
		hl.candidateID = p.CandidateID
		hl.previewArrow = p.Arrow
		src, okSrc := m.canvas.Node(p.SourceID)
		dst, okDst := m.canvas.Node(p.CandidateID)
		if okSrc && okDst {
			hl.preview = Route(src.rect(), dst.rect())
		}
	}
	return hl
}

func (m model) View() string {
	if m.fatal != nil || m.canvas == nil {
		return ""
	}
	vp := m.canvas.Viewport
	if m.mode == ModeHelp {
		body := lipgloss.Place(vp.Width, vp.Height, lipgloss.Center, lipgloss.Center, m.helpView())
		return frameStyle.Render(body) + "\n" + m.statusLine()
	}

	grid := Render(m.canvas, vp, m.renderHighlight())
	return frameStyle.Render(strings.Join(grid.Rows(), "\n")) + "\n" + m.statusLine()
}

func (m model) statusLine() string {
	var parts []string
	parts = append(parts, modeStyle.Render(" "+m.mode.String()+" "))
	parts = append(parts, titleStyle.Render(m.canvas.Title))

	switch m.mode {
	case ModeLeader:
		parts = append(parts, "n box  d diamond  t text  w save  c copy  h help  q quit  esc back")
	case ModeInsert:
		parts = append(parts, "text: "+visibleText(m.editText)+"_")
	case ModeResize:
		if n, ok := m.canvas.Node(m.selection.NodeID); ok {
			parts = append(parts, fmt.Sprintf("%dx%d  +/- resize  enter done", n.Width, n.Height))
		}
	default:
		parts = append(parts, m.selectionSummary())
	}

	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render("ERROR: "+m.errorMessage))
	} else if m.statusMessage != "" {
		parts = append(parts, m.statusMessage)
	}

	line := strings.Join(parts, " | ")
	if m.width > 0 && lipgloss.Width(line) > m.width {
		line = truncate.String(line, uint(m.width))
	}
	return statusStyle.Render(line)
}

func (m model) selectionSummary() string {
	switch {
	case m.selection.pending():
		p := m.selection.Pending
		if p.CandidateID < 0 {
			return fmt.Sprintf("connect from %d: no target", p.SourceID)
		}
		return fmt.Sprintf("connect %d -> %d  tab next  enter connect  esc cancel", p.SourceID, p.CandidateID)
	case m.selection.hasNode():
		if n, ok := m.canvas.Node(m.selection.NodeID); ok {
			return fmt.Sprintf("%s %d at (%d,%d)", n.Kind, n.ID, n.X, n.Y)
		}
	case m.selection.hasConnection():
		if c, ok := m.canvas.Connection(m.selection.ConnID); ok {
			return fmt.Sprintf("connection %d: %d -> %d", c.ID, c.FromID, c.ToID)
		}
	}
	return fmt.Sprintf("(%d,%d)  space menu", m.canvas.Viewport.X, m.canvas.Viewport.Y)
}

// visibleText renders newlines in the edit buffer as a return symbol.
func visibleText(s string) string {
	return strings.ReplaceAll(s, "\n", "⏎")
}

func (m model) helpView() string {
	lines := []string{
		titleStyle.Render("dxgmr help"),
		"",
		"space        open the menu",
		"  n / d / t  new box / diamond / text",
		"  w          save .json and .txt",
		"  c          copy diagram to clipboard",
		"  h          this help",
		"  q          quit",
		"",
		"tab / S-tab  select next / previous node",
		"] / [        select next / previous connection",
		"arrows       move node, or pan (shift: x2)",
		"i            edit text (tab/esc to finish)",
		"r            resize (+/-, enter to finish)",
		"c / a        connect / connect with arrow",
		"a            toggle arrow on connection",
		"del          delete selection",
		"esc          cancel / clear selection",
		"",
		"press any key to return",
	}
	return popupStyle.Render(strings.Join(lines, "\n"))
}
