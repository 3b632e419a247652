package serialization

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Decode reads a model document in either format.
//
// A JSON document must carry FormatVersionJSON and, when present, a
// checksum matching its records.
func Decode(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read model: %w", err)
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return Document{}, &FormatError{Record: -1, Field: "document", Details: "empty input"}
	}
	if trimmed[0] == '{' {
		return decodeJSON(trimmed)
	}
	return decodeText(string(trimmed))
}

func decodeJSON(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, &FormatError{Record: -1, Field: "document", Details: err.Error()}
	}
	if doc.FormatVersion != FormatVersionJSON {
		return Document{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.FormatVersion)
	}
	if doc.Checksum != "" {
		if err := ValidateChecksum(doc.Layers, doc.Checksum); err != nil {
			return Document{}, err
		}
	}
	return doc, nil
}

func decodeText(text string) (Document, error) {
	head, rest, ok := strings.Cut(text, "!")
	if !ok {
		return Document{}, &FormatError{Record: -1, Field: "layer count", Details: "missing '!' terminator"}
	}
	n, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil || n < 0 {
		return Document{}, &FormatError{Record: -1, Field: "layer count", Details: fmt.Sprintf("%q is not a count", head)}
	}

	records := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		var entry string
		entry, rest, ok = strings.Cut(rest, "!")
		if !ok {
			return Document{}, &FormatError{Record: i, Field: "record", Details: "missing '!' terminator"}
		}
		typ, tail, ok := strings.Cut(entry, ";")
		if !ok {
			return Document{}, &FormatError{Record: i, Field: "type", Details: "missing ';' separator"}
		}
		act, payload, ok := strings.Cut(tail, "@")
		if !ok {
			return Document{}, &FormatError{Record: i, Field: "activation", Details: "missing '@' separator"}
		}
		records = append(records, Record{
			Type:       strings.TrimSpace(typ),
			Activation: strings.TrimSpace(act),
			Payload:    strings.TrimSpace(payload),
		})
	}
	return Document{FormatVersion: FormatVersionText, Layers: records}, nil
}
