package blobs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"cloud.google.com/go/storage"
	"k8s.io/klog/v2"
)

// GCSStore keeps objects in a Google Cloud Storage bucket. Credentials come
// from the environment (Application Default Credentials).
type GCSStore struct {
	Bucket string
}

var _ Store = (*GCSStore)(nil)

func (s *GCSStore) url(key string) string {
	return "gs://" + s.Bucket + "/" + key
}

// Read downloads the object. A missing object yields an error matching
// fs.ErrNotExist.
func (s *GCSStore) Read(ctx context.Context, key string) ([]byte, error) {
	log := klog.FromContext(ctx)
	gcsURL := s.url(key)

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating GCS storage client: %w", err)
	}
	defer client.Close()

	log.V(2).Info("downloading model from GCS", "source", gcsURL)

	startedAt := time.Now()
	r, err := client.Bucket(s.Bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("opening object %q: %w: %w", gcsURL, fs.ErrNotExist, err)
		}
		return nil, fmt.Errorf("opening object %q: %w", gcsURL, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("downloading from GCS: %w", err)
	}

	log.V(2).Info("downloaded model from GCS", "source", gcsURL, "bytes", len(data), "duration", time.Since(startedAt))
	return data, nil
}

// Write uploads data, replacing any existing object. The object becomes
// visible only once the upload completes.
func (s *GCSStore) Write(ctx context.Context, key string, data []byte) error {
	log := klog.FromContext(ctx)
	gcsURL := s.url(key)

	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("creating GCS storage client: %w", err)
	}
	defer client.Close()

	log.V(2).Info("uploading model to GCS", "destination", gcsURL)

	startedAt := time.Now()
	w := client.Bucket(s.Bucket).Object(key).NewWriter(ctx)
	w.ContentType = "application/octet-stream"
	n, err := io.Copy(w, bytes.NewReader(data))
	if err != nil {
		_ = w.Close()
		return fmt.Errorf("uploading to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing GCS writer: %w", err)
	}

	log.V(2).Info("uploaded model to GCS", "url", gcsURL, "bytes", n, "duration", time.Since(startedAt))
	return nil
}
