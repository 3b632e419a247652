package serialization

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewDocument stamps records with a fresh id, the current time and their
// checksum.
func NewDocument(records []Record) Document {
	return Document{
		FormatVersion: FormatVersionJSON,
		DragonVersion: DragonVersion,
		ID:            uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
		Checksum:      ComputeChecksum(records),
		Layers:        records,
	}
}

// Encode writes records to w in the format selected by opts.
func Encode(w io.Writer, records []Record, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(NewDocument(records)); err != nil {
			return fmt.Errorf("failed to encode model: %w", err)
		}
		return nil
	case FormatText:
		text, err := encodeText(records)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, text); err != nil {
			return fmt.Errorf("failed to write model: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("encode: %w: %v", ErrUnsupportedVersion, opts.Format)
	}
}

const textDelimiters = ";@!"

func encodeText(records []Record) (string, error) {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(len(records)))
	sb.WriteString("!\n")
	for i, r := range records {
		for _, name := range []string{r.Type, r.Activation} {
			if name == "" || strings.ContainsAny(name, textDelimiters) {
				return "", fmt.Errorf("record %d: %w: %q", i, ErrReservedCharacter, name)
			}
		}
		if strings.ContainsAny(r.Payload, textDelimiters) {
			return "", fmt.Errorf("record %d: payload: %w", i, ErrReservedCharacter)
		}
		fmt.Fprintf(&sb, "%s; %s@ %s!\n", r.Type, r.Activation, r.Payload)
	}
	return sb.String(), nil
}
