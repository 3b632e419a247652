package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrMalformed          = errors.New("malformed model data")
	ErrReservedCharacter  = errors.New("name contains a character reserved by the text format")
)

// FormatError provides detailed information about a parse failure.
// It unwraps to ErrMalformed.
type FormatError struct {
	Record  int    // Zero-based layer record index, -1 for the document header
	Field   string // Field being read (e.g. "layer count", "inputRows")
	Details string // Additional details
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Record < 0 {
		return fmt.Sprintf("malformed model data: %s: %s", e.Field, e.Details)
	}
	return fmt.Sprintf("malformed model data: record %d: %s: %s", e.Record, e.Field, e.Details)
}

// Unwrap lets errors.Is match ErrMalformed.
func (e *FormatError) Unwrap() error {
	return ErrMalformed
}
