package serialization

import (
	"fmt"
	"strconv"
	"strings"
)

// PayloadWriter builds a layer payload. Every token is followed by a
// single space.
type PayloadWriter struct {
	sb strings.Builder
}

// Int appends integer tokens.
func (w *PayloadWriter) Int(values ...int) *PayloadWriter {
	for _, v := range values {
		w.sb.WriteString(strconv.Itoa(v))
		w.sb.WriteByte(' ')
	}
	return w
}

// Floats appends values at 8-decimal fixed precision.
func (w *PayloadWriter) Floats(values []float64) *PayloadWriter {
	for _, v := range values {
		w.sb.WriteString(strconv.FormatFloat(v, 'f', 8, 64))
		w.sb.WriteByte(' ')
	}
	return w
}

// String returns the payload.
func (w *PayloadWriter) String() string {
	return w.sb.String()
}

// Bytes returns the payload as a byte slice.
func (w *PayloadWriter) Bytes() []byte {
	return []byte(w.sb.String())
}

// PayloadReader consumes a payload token by token. The first failure is
// kept and every later call becomes a no-op, so callers check Err once.
type PayloadReader struct {
	tokens []string
	pos    int
	err    error
}

// NewPayloadReader splits payload on whitespace.
func NewPayloadReader(payload []byte) *PayloadReader {
	return &PayloadReader{tokens: strings.Fields(string(payload))}
}

func (r *PayloadReader) next(field string) (string, bool) {
	if r.err != nil {
		return "", false
	}
	if r.pos >= len(r.tokens) {
		r.err = &FormatError{Record: -1, Field: field, Details: "unexpected end of payload"}
		return "", false
	}
	tok := r.tokens[r.pos]
	r.pos++
	return tok, true
}

// Int reads a positive integer named field.
func (r *PayloadReader) Int(field string) int {
	tok, ok := r.next(field)
	if !ok {
		return 0
	}
	v, err := strconv.Atoi(tok)
	if err != nil || v <= 0 {
		r.err = &FormatError{Record: -1, Field: field, Details: fmt.Sprintf("want positive integer, got %q", tok)}
		return 0
	}
	return v
}

// Floats fills dst with the next len(dst) values.
func (r *PayloadReader) Floats(field string, dst []float64) {
	for i := range dst {
		tok, ok := r.next(field)
		if !ok {
			return
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			r.err = &FormatError{Record: -1, Field: field, Details: fmt.Sprintf("value %d: %q is not a number", i, tok)}
			return
		}
		dst[i] = v
	}
}

// Remaining returns the number of unread tokens.
func (r *PayloadReader) Remaining() int {
	return len(r.tokens) - r.pos
}

// Check returns the first failure so far. Unread tokens are not an error.
func (r *PayloadReader) Check() error {
	return r.err
}

// Err returns the first failure, or an error if tokens were left unread.
func (r *PayloadReader) Err() error {
	if r.err == nil && r.Remaining() > 0 {
		return &FormatError{Record: -1, Field: "payload", Details: fmt.Sprintf("%d trailing values", r.Remaining())}
	}
	return r.err
}
