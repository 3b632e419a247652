// Package serialization frames a model as an ordered list of layer records
// and encodes that list to bytes.
//
// Two encodings exist:
//
//	Version 2 (default): a JSON document
//	  {
//	    "format_version": 2,
//	    "dragon_version": "0.1.0",
//	    "id": "<uuid>",
//	    "created_at": "<RFC 3339>",
//	    "checksum": "<sha256 hex over the records>",
//	    "layers": [{"type": "DenseLayer", "activation": "sigmoid", "payload": "2 3 ..."}]
//	  }
//
//	Version 1 (legacy text):
//	  <layerCount>!
//	  <type>; <activation>@ <payload>!
//	  ...
//
// Decode detects the encoding from the first non-space byte. Names in the
// JSON form may contain any character; the text form rejects names that
// contain its delimiters.
//
// Payloads are opaque to this package. Layers build and parse them with
// PayloadWriter and PayloadReader: shape integers followed by parameter
// values, whitespace separated, values at 8-decimal fixed precision.
package serialization
