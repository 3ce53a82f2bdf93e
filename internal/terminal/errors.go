package terminal

import "errors"

var (
	// ErrClosed is returned by operations on a terminal that was closed.
	ErrClosed = errors.New("terminal closed")
	// ErrInvalidSize is returned for a zero or negative grid geometry.
	ErrInvalidSize = errors.New("invalid terminal size")
	// ErrNoExecutable is returned when no shell could be resolved.
	ErrNoExecutable = errors.New("no executable to start")
	// ErrInvalidHandle is returned for a handle that is not registered.
	ErrInvalidHandle = errors.New("invalid terminal handle")
)
