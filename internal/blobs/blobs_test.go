package blobs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		in      string
		want    Location
		remote  bool
		wantErr bool
	}{
		{in: "models/xor.json", want: Location{Key: "models/xor.json"}},
		{in: "/tmp/a", want: Location{Key: "/tmp/a"}},
		{in: "gs://bucket/models/xor.json", want: Location{Bucket: "bucket", Key: "models/xor.json"}, remote: true},
		{in: "gs://bucket", wantErr: true},
		{in: "gs:///object", wantErr: true},
		{in: "gs://bucket/", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLocation(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.remote, got.IsRemote())
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestLocationStore(t *testing.T) {
	local, err := ParseLocation("model.json")
	require.NoError(t, err)
	assert.IsType(t, FileStore{}, local.Store())

	remote, err := ParseLocation("gs://b/model.json")
	require.NoError(t, err)
	store, ok := remote.Store().(*GCSStore)
	require.True(t, ok)
	assert.Equal(t, "b", store.Bucket)
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "model.json")

	var store FileStore
	require.NoError(t, store.Write(ctx, path, []byte("first")))
	require.NoError(t, store.Write(ctx, path, []byte("second")))

	data, err := store.Read(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFileStoreMissing(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	_, err := FileStore{}.Read(ctx, filepath.Join(dir, "absent"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	err = FileStore{}.Write(ctx, filepath.Join(dir, "no", "dir", "model"), []byte("x"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFileStoreFailedWriteKeepsPrevious(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")

	var store FileStore
	require.NoError(t, store.Write(ctx, path, []byte("v1")))

	// Renaming a file over a directory fails after staging succeeded.
	target := filepath.Join(dir, "taken")
	require.NoError(t, os.Mkdir(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "x"), nil, 0o600))
	assert.Error(t, store.Write(ctx, target, []byte("v2")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"model.json", "taken"}, names, "staged file is removed")

	data, err := store.Read(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))
}
