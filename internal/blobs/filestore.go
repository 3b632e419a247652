package blobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/klog/v2"
)

// FileStore keeps objects as files; keys are paths.
type FileStore struct{}

var _ Store = FileStore{}

// Read returns the file contents.
func (FileStore) Read(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(key) //nolint:gosec // G304: key is a user supplied model path
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", key, err)
	}
	return data, nil
}

// Write stages data in a hidden file next to key, then renames it over key,
// so a reader sees either the previous model or the new one. A missing
// directory fails with an error matching fs.ErrNotExist.
func (FileStore) Write(ctx context.Context, key string, data []byte) (err error) {
	log := klog.FromContext(ctx)

	staged, err := os.CreateTemp(filepath.Dir(key), "."+filepath.Base(key)+".*")
	if err != nil {
		return fmt.Errorf("staging %q: %w", key, err)
	}
	defer func() {
		if err == nil {
			return
		}
		_ = staged.Close()
		if rmErr := os.Remove(staged.Name()); rmErr != nil {
			log.Error(rmErr, "Couldn't remove staged model", "path", staged.Name())
		}
	}()

	if err = staged.Chmod(0o644); err != nil {
		return fmt.Errorf("staging %q: %w", key, err)
	}
	if _, err = staged.Write(data); err != nil {
		return fmt.Errorf("staging %q: %w", key, err)
	}
	if err = staged.Sync(); err != nil {
		return fmt.Errorf("syncing %q: %w", key, err)
	}
	if err = staged.Close(); err != nil {
		return fmt.Errorf("staging %q: %w", key, err)
	}
	if err = os.Rename(staged.Name(), key); err != nil {
		return fmt.Errorf("replacing %q: %w", key, err)
	}

	log.V(2).Info("Wrote model", "path", key, "bytes", len(data))
	return nil
}
