package cpu

import (
	"testing"

	"github.com/born-ml/dragon/internal/tensor"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestCPUBackend_New(t *testing.T) {
	backend := New()
	assert.Equal(t, "CPU", backend.Name())
}

func TestTranspose(t *testing.T) {
	backend := New()
	m := seq(2, 3)

	tr := backend.Transpose(m)
	assert.Equal(t, 3, tr.Rows())
	assert.Equal(t, 2, tr.Cols())
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, tr.Data())

	assert.Equal(t, m.Data(), backend.Transpose(tr).Data())
}

func TestOpTranspose(t *testing.T) {
	backend := New()
	// 1 2 3
	// 4 5 6
	m := seq(2, 3)

	op := backend.OpTranspose(m)
	assert.Equal(t, 3, op.Rows())
	assert.Equal(t, 2, op.Cols())
	// result(i,j) = m(rows-j-1, cols-i-1)
	assert.Equal(t, []float64{6, 3, 5, 2, 4, 1}, op.Data())
}

func TestReverse(t *testing.T) {
	backend := New()
	for _, dims := range [][2]int{{1, 1}, {2, 3}, {3, 3}, {4, 2}} {
		m := tensor.Random(dims[0], dims[1], -5, 5)
		want := backend.OpTranspose(backend.Transpose(m))
		got := backend.Reverse(m)
		assert.Equal(t, want.Rows(), got.Rows())
		assert.Equal(t, want.Data(), got.Data(), "dims %v", dims)
	}
	assert.Equal(t, []float64{4, 3, 2, 1}, backend.Reverse(seq(2, 2)).Data())
}

func TestPad(t *testing.T) {
	backend := New()
	m := seq(2, 2)

	out := backend.Pad(m, 1, 0)
	assert.Equal(t, []float64{
		0, 0, 0, 0,
		0, 1, 2, 0,
		0, 3, 4, 0,
		0, 0, 0, 0,
	}, out.Data())

	filled := backend.Pad(m, 2, -1)
	assert.Equal(t, 6, filled.Rows())
	assert.Equal(t, -1.0, filled.At(0, 5))
	assert.Equal(t, 4.0, filled.At(3, 3))

	assert.Equal(t, m.Data(), backend.Pad(m, 0, 7).Data())
}

func TestCropAndAddAt(t *testing.T) {
	backend := New()
	m := seq(3, 3)

	crop := backend.Crop(m, 2, 2)
	assert.Equal(t, []float64{1, 2, 4, 5}, crop.Data())
	assert.Panics(t, func() { backend.Crop(m, 4, 1) })

	dst := tensor.NewMatrix(3, 3, 1)
	backend.AddAt(dst, crop)
	assert.Equal(t, []float64{2, 3, 1, 5, 6, 1, 1, 1, 1}, dst.Data())

	backend.AddAt(dst, tensor.NewMatrix(3, 3, 1))
	assert.Equal(t, 2.0, dst.At(2, 2))
}

func TestMatMul(t *testing.T) {
	backend := New()
	a := seq(2, 3)
	b := seq(3, 2)

	out := backend.MatMul(a, b)
	assert.Equal(t, []float64{22, 28, 49, 64}, out.Data())

	assert.Panics(t, func() { backend.MatMul(a, a) })
}

func TestMatMul_Unit(t *testing.T) {
	backend := New()
	x := tensor.Random(4, 3, -1, 1)
	if diff := cmp.Diff(x.Data(), backend.MatMul(tensor.Unit(4), x).Data(), approx); diff != "" {
		t.Errorf("unit(N)*X != X (-want +got):\n%s", diff)
	}
}

func TestMatVec(t *testing.T) {
	backend := New()
	a := seq(2, 3)
	out := backend.MatVec(a, tensor.VectorOf(1, 0, -1))

	assert.Equal(t, 2, out.Rows())
	assert.Equal(t, 1, out.Cols())
	assert.Equal(t, []float64{-2, -2}, out.Data())

	assert.Panics(t, func() { backend.MatVec(a, tensor.VectorOf(1, 2)) })
}

func TestOuter(t *testing.T) {
	backend := New()
	v := tensor.VectorOf(1, 2)
	row := backend.Row(tensor.VectorOf(3, 4, 5))

	out := backend.Outer(v, row)
	assert.Equal(t, 2, out.Rows())
	assert.Equal(t, 3, out.Cols())
	assert.Equal(t, []float64{3, 4, 5, 6, 8, 10}, out.Data())

	assert.Panics(t, func() { backend.Outer(v, seq(2, 2)) })
}

func TestDot(t *testing.T) {
	backend := New()
	assert.Equal(t, 32.0, backend.Dot(tensor.VectorOf(1, 2, 3), tensor.VectorOf(4, 5, 6)))
	assert.PanicsWithValue(t, "dot: length mismatch (3 vs 2)", func() {
		backend.Dot(tensor.VectorOf(1, 2, 3), tensor.VectorOf(1, 2))
	})
}
