package rsvg

import (
	"errors"
	"fmt"
)

// Sentinel errors reported by Document operations. Diagnostics coming
// from the engine itself are wrapped in LoadError instead.
var (
	// ErrInvalidInput reports a source value that is neither a byte
	// slice nor a string.
	ErrInvalidInput = errors.New("rsvg: source must be a byte slice or a string")

	// ErrElementNotFound reports an element id which is malformed or
	// absent from the document.
	ErrElementNotFound = errors.New("rsvg: element not found")

	// ErrUnsupportedFormat reports an unknown render format.
	ErrUnsupportedFormat = errors.New("rsvg: unsupported render format")

	// ErrRenderFailed reports a render which repeatedly produced no
	// output for a document with a positive intrinsic size.
	ErrRenderFailed = errors.New("rsvg: render produced no output")

	// ErrClosed reports an operation on a closed document.
	ErrClosed = errors.New("rsvg: document is closed")
)

// LoadError is returned by New when the engine can't parse the
// source. It keeps the engine diagnostic accessible through Unwrap.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("rsvg: load failed: %s", e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
