package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/dragon/internal/nn"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, version)
}

func TestXORSaveInspectPredict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xor.txt")

	out, err := run(t, "xor", "--epochs", "20", "--save", path, "--format", "text")
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(out, "->"))

	out, err = run(t, "inspect", path)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, nn.DenseName))
	assert.Contains(t, out, "3 layers, 25 parameters")

	out, err = run(t, "predict", path, "1,0")
	require.NoError(t, err)
	assert.Len(t, strings.Fields(out), 1)

	_, err = run(t, "predict", path, "1", "0", "1")
	assert.ErrorContains(t, err, "expects 2 input values")
}

func TestInspectMissingModel(t *testing.T) {
	_, err := run(t, "inspect", filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, nn.ErrModelNotFound)
}

func TestParseValues(t *testing.T) {
	v, err := parseValues([]string{"1,2", "3"})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, v.Data())

	_, err = parseValues([]string{"x"})
	assert.Error(t, err)
	_, err = parseValues([]string{","})
	assert.Error(t, err)
}
