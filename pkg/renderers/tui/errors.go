package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrEngineRequired is returned by New without an engine.
	ErrEngineRequired = errors.New("tui: engine is required")
)
