package main

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned for operations on ids that are not (or no
	// longer) part of the canvas.
	ErrNotFound = errors.New("not found")

	// ErrIntegrity marks an internal-consistency violation. It is a defect,
	// never a user input error.
	ErrIntegrity = errors.New("integrity violation")
)

// FormatError reports a persisted document that cannot be turned into a
// consistent canvas.
type FormatError struct {
	Path   string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := e.Reason
	if e.Err != nil {
		if msg != "" {
			msg += ": "
		}
		msg += e.Err.Error()
	}
	if e.Path != "" {
		return fmt.Sprintf("invalid diagram %s: %s", e.Path, msg)
	}
	return "invalid diagram: " + msg
}

func (e *FormatError) Unwrap() error { return e.Err }

func formatErrorf(path, format string, args ...any) *FormatError {
	return &FormatError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// IOError wraps a failed save or clipboard operation.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// OverflowWarning is returned next to a complete export render whose content
// is wider than the export limit. The render itself is cut at Limit.
type OverflowWarning struct {
	Width int
	Limit int
}

func (w *OverflowWarning) Error() string {
	return fmt.Sprintf("diagram is %d columns wide, export is limited to %d", w.Width, w.Limit)
}
