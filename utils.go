package main

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// Clipboard receives the export render on copy and feeds Insert mode on
// paste.
type Clipboard interface {
	Copy(text string) error
	Paste() (string, error)
}

type systemClipboard struct{}

func (systemClipboard) Copy(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return &IOError{Op: "copy to clipboard", Err: err}
	}
	return nil
}

func (systemClipboard) Paste() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", &IOError{Op: "paste from clipboard", Err: err}
	}
	return cleanClipboardText(text), nil
}

// cleanClipboardText normalizes line endings and drops control characters
// other than newlines and tabs, which become a single space.
func cleanClipboardText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n':
			result.WriteRune(r)
		case r == '\t':
			result.WriteRune(' ')
		case r >= 32 && r != 127:
			result.WriteRune(r)
		}
	}
	return result.String()
}

// wrapText breaks text into lines no wider than width display cells.
// Explicit newlines are kept, lines are broken at spaces, and words longer
// than width are split.
func wrapText(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		wrapped := wrap.String(wordwrap.String(paragraph, width), width)
		for _, line := range strings.Split(wrapped, "\n") {
			line = strings.TrimRight(line, " ")
			lines = append(lines, runewidth.Truncate(line, width, ""))
		}
	}
	return lines
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
