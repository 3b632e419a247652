package serialization

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []Record {
	return []Record{
		{Type: "DenseLayer", Activation: "sigmoid", Payload: "2 1 0.50000000 -0.25000000 0.10000000 "},
		{Type: "PoolingLayer", Activation: "relU10", Payload: "4 4 1 2 2 "},
	}
}

func TestEncodeDecode_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleRecords(), DefaultOptions()))

	doc, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, FormatVersionJSON, doc.FormatVersion)
	assert.Equal(t, DragonVersion, doc.DragonVersion)
	assert.False(t, doc.CreatedAt.IsZero())
	_, err = uuid.Parse(doc.ID)
	assert.NoError(t, err, "id must be a uuid")
	assert.Equal(t, sampleRecords(), doc.Layers)
}

func TestEncodeDecode_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleRecords(), Options{Format: FormatText}))

	text := buf.String()
	assert.True(t, strings.HasPrefix(text, "2!\nDenseLayer; sigmoid@ 2 1 "), text)
	assert.Contains(t, text, "PoolingLayer; relU10@ 4 4 1 2 2 !\n")

	doc, err := Decode(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, FormatVersionText, doc.FormatVersion)
	require.Len(t, doc.Layers, 2)
	for i, want := range sampleRecords() {
		assert.Equal(t, want.Type, doc.Layers[i].Type)
		assert.Equal(t, want.Activation, doc.Layers[i].Activation)
		assert.Equal(t, strings.TrimSpace(want.Payload), doc.Layers[i].Payload)
	}
}

func TestEncode_TextRejectsDelimiters(t *testing.T) {
	for _, name := range []string{"a;b", "a@b", "a!b", ""} {
		records := []Record{{Type: "DenseLayer", Activation: name, Payload: "1 "}}
		err := Encode(&bytes.Buffer{}, records, Options{Format: FormatText})
		assert.ErrorIs(t, err, ErrReservedCharacter, "name %q", name)
	}

	// The JSON form carries any name.
	records := []Record{{Type: "My;Layer!", Activation: "act@2", Payload: "1 "}}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, records, DefaultOptions()))
	doc, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, records, doc.Layers)
}

func TestDecode_ChecksumMismatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleRecords(), DefaultOptions()))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	doc["layers"].([]any)[0].(map[string]any)["payload"] = "2 1 9 9 9 "
	tampered, err := json.Marshal(doc)
	require.NoError(t, err)

	_, err = Decode(bytes.NewReader(tampered))
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestDecode_UnsupportedVersion(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"format_version": 7, "layers": []}`))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", "   \n"},
		{"no count terminator", "3"},
		{"bad count", "x!\n"},
		{"truncated", "2!\nDenseLayer; sigmoid@ 1 1 0.1 0.2 !\n"},
		{"no separator", "1!\nDenseLayer sigmoid@ 1 !\n"},
		{"no activation separator", "1!\nDenseLayer; sigmoid 1 !\n"},
		{"bad json", "{not json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)

			var fe *FormatError
			assert.ErrorAs(t, err, &fe)
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("TEXT")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	assert.Equal(t, "json", f.String())

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}

func TestChecksumOrderSensitive(t *testing.T) {
	records := sampleRecords()
	swapped := []Record{records[1], records[0]}
	assert.NotEqual(t, ComputeChecksum(records), ComputeChecksum(swapped))
	assert.NoError(t, ValidateChecksum(records, ComputeChecksum(records)))
	assert.ErrorIs(t, ValidateChecksum(swapped, ComputeChecksum(records)), ErrChecksumMismatch)
}

func TestPayloadRoundTrip(t *testing.T) {
	var w PayloadWriter
	w.Int(2, 3).Floats([]float64{0.123456789, -1, 2.5})
	assert.Equal(t, "2 3 0.12345679 -1.00000000 2.50000000 ", w.String())

	r := NewPayloadReader(w.Bytes())
	assert.Equal(t, 2, r.Int("rows"))
	assert.Equal(t, 3, r.Int("cols"))
	values := make([]float64, 3)
	r.Floats("values", values)
	require.NoError(t, r.Err())
	assert.Equal(t, []float64{0.12345679, -1, 2.5}, values)
}

func TestPayloadReaderErrors(t *testing.T) {
	r := NewPayloadReader([]byte("2 x"))
	r.Int("rows")
	r.Int("cols")
	assert.ErrorIs(t, r.Err(), ErrMalformed)

	r = NewPayloadReader([]byte("1 0.5"))
	r.Int("n")
	r.Floats("values", make([]float64, 2))
	assert.ErrorIs(t, r.Err(), ErrMalformed)

	r = NewPayloadReader([]byte("1 2"))
	r.Int("n")
	assert.ErrorIs(t, r.Err(), ErrMalformed, "trailing tokens are an error")

	r = NewPayloadReader([]byte("0"))
	r.Int("n")
	assert.ErrorIs(t, r.Err(), ErrMalformed, "dimensions must be positive")
}
