package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrDeclined is returned when the user answers no to the final confirm.
	ErrDeclined = errors.New("tui: submission declined")
	// ErrUnknownFormat is returned for output formats the renderer cannot emit.
	ErrUnknownFormat = errors.New("tui: unknown output format")
)
