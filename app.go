package main

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

func newModel(canvas *Canvas, store Saver, clip Clipboard) model {
	return model{
		canvas:    canvas,
		mode:      ModeNormal,
		selection: noSelection(),
		store:     store,
		clipboard: clip,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.canvas.SetViewportSize(msg.Width-2, msg.Height-3)

	case tea.KeyMsg:
		m.statusMessage = ""
		m.errorMessage = ""
		cmd = m.handleKey(msg)

	case tea.MouseMsg:
		cmd = m.handleMouse(msg)

	default:
		return m, nil
	}

	if err := m.canvas.Check(); err != nil {
		slog.Error("canvas integrity check failed", "err", err)
		m.fatal = err
		return m, tea.Quit
	}
	return m, cmd
}

// runEditor starts the interactive session and returns the integrity
// failure that ended it, if any.
func runEditor(canvas *Canvas, store Saver, clip Clipboard, notice string) error {
	m := newModel(canvas, store, clip)
	m.errorMessage = notice

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(model); ok && fm.fatal != nil {
		return fmt.Errorf("editor stopped: %w", fm.fatal)
	}
	return nil
}
