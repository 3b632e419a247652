package serialization

import (
	"crypto/sha256"
	"encoding/hex"
)

// ComputeChecksum returns the hex SHA-256 of the records, in order.
// Fields are NUL terminated so moving text between fields changes the sum.
func ComputeChecksum(records []Record) string {
	h := sha256.New()
	for _, r := range records {
		for _, field := range []string{r.Type, r.Activation, r.Payload} {
			h.Write([]byte(field))
			h.Write([]byte{0})
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ValidateChecksum compares the records against a stored checksum.
// Returns ErrChecksumMismatch if they don't match.
func ValidateChecksum(records []Record, stored string) error {
	if ComputeChecksum(records) != stored {
		return ErrChecksumMismatch
	}
	return nil
}
