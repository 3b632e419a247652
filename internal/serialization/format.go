package serialization

import (
	"fmt"
	"strings"
	"time"
)

// DragonVersion is stamped into every document this package writes.
const DragonVersion = "0.1.0"

// Format versions.
const (
	FormatVersionText = 1 // v1: delimiter-scanned text, no metadata
	FormatVersionJSON = 2 // v2: JSON document with id and checksum
)

// Format selects the encoding used by Encode.
type Format int

// Supported formats.
const (
	FormatJSON Format = iota
	FormatText
)

// String returns the format name accepted by ParseFormat.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatText:
		return "text"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat parses "json" or "text" (case insensitive).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "v2", "":
		return FormatJSON, nil
	case "text", "v1":
		return FormatText, nil
	default:
		return 0, fmt.Errorf("unknown model format %q (want json or text)", s)
	}
}

// Options configures Encode.
type Options struct {
	Format Format // Output encoding (default: FormatJSON)
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{Format: FormatJSON}
}

// Record is one serialized layer.
type Record struct {
	Type       string `json:"type"`       // Layer key (e.g. "DenseLayer")
	Activation string `json:"activation"` // Activation key (e.g. "sigmoid")
	Payload    string `json:"payload"`    // Layer-defined shape and parameter text
}

// Document is the decoded form of a model file.
// Text-format files only populate FormatVersion and Layers.
type Document struct {
	FormatVersion int       `json:"format_version"`
	DragonVersion string    `json:"dragon_version,omitempty"`
	ID            string    `json:"id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	Checksum      string    `json:"checksum,omitempty"`
	Layers        []Record  `json:"layers"`
}
