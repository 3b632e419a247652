package nn

import (
	"errors"
	"io/fs"
)

// Load and save errors.
var (
	ErrModelNotFound     = errors.New("model file not found")
	ErrUnknownLayer      = errors.New("no layer registered under this name")
	ErrUnknownActivation = errors.New("no activation registered under this name")
)

// notFound wraps both ErrModelNotFound and the underlying fs error so callers
// can match either.
type notFound struct {
	path string
	err  error
}

func (e *notFound) Error() string {
	return "model file not found: " + e.path + ": " + e.err.Error()
}

func (e *notFound) Is(target error) bool {
	return target == ErrModelNotFound || target == fs.ErrNotExist
}

func (e *notFound) Unwrap() error {
	return e.err
}
