// Package blobs stores serialized models on the local disk or in Google
// Cloud Storage, addressed by a location string.
package blobs

import (
	"context"
	"fmt"
	"strings"
)

// Store reads and writes whole objects.
type Store interface {
	// Read returns the object at key. If no such object exists, Read
	// returns an error for which errors.Is(err, fs.ErrNotExist) is true.
	Read(ctx context.Context, key string) ([]byte, error)
	// Write replaces the object at key. Readers never observe a partial
	// object.
	Write(ctx context.Context, key string, data []byte) error
}

// Location is a parsed model address: either a local path or
// gs://bucket/object.
type Location struct {
	Bucket string // Empty for local paths
	Key    string // File path or object name
}

// ParseLocation splits s into a Location.
func ParseLocation(s string) (Location, error) {
	if s == "" {
		return Location{}, fmt.Errorf("empty location")
	}
	rest, ok := strings.CutPrefix(s, "gs://")
	if !ok {
		return Location{Key: s}, nil
	}
	bucket, object, _ := strings.Cut(rest, "/")
	if bucket == "" || object == "" {
		return Location{}, fmt.Errorf("invalid GCS location %q, want gs://bucket/object", s)
	}
	return Location{Bucket: bucket, Key: object}, nil
}

// IsRemote reports whether the location names a GCS object.
func (l Location) IsRemote() bool {
	return l.Bucket != ""
}

func (l Location) String() string {
	if l.IsRemote() {
		return "gs://" + l.Bucket + "/" + l.Key
	}
	return l.Key
}

// Store returns the Store that serves the location.
func (l Location) Store() Store {
	if l.IsRemote() {
		return &GCSStore{Bucket: l.Bucket}
	}
	return FileStore{}
}
