package cpu

import (
	"fmt"

	"github.com/born-ml/dragon/internal/tensor"
	"gonum.org/v1/gonum/floats"
)

// Transpose swaps rows and columns: result(i, j) = m(j, i).
func (cpu *CPUBackend) Transpose(m *tensor.Matrix) *tensor.Matrix {
	result := tensor.NewMatrix(m.Cols(), m.Rows(), 0)
	dense(result).Copy(dense(m).T())
	return result
}

// Row reinterprets v as a 1 x N matrix. The result borrows v.
func (cpu *CPUBackend) Row(v *tensor.Vector) *tensor.Matrix {
	return v.AsMatrix(1, v.Len())
}

// OpTranspose mirrors m across its anti-diagonal:
// result(i, j) = m(rows-j-1, cols-i-1).
func (cpu *CPUBackend) OpTranspose(m *tensor.Matrix) *tensor.Matrix {
	rows, cols := m.Rows(), m.Cols()
	result := tensor.NewMatrix(cols, rows, 0)
	src, dst := m.Data(), result.Data()
	for i := 0; i < cols; i++ {
		for j := 0; j < rows; j++ {
			dst[i*rows+j] = src[(rows-j-1)*cols+cols-i-1]
		}
	}
	return result
}

// Reverse rotates m by 180 degrees, flipping both axes.
// Equivalent to OpTranspose(Transpose(m)).
func (cpu *CPUBackend) Reverse(m *tensor.Matrix) *tensor.Matrix {
	result := tensor.NewMatrix(m.Rows(), m.Cols(), 0)
	copy(result.Data(), m.Data())
	floats.Reverse(result.Data())
	return result
}

// Pad grows m by size cells of value on every side.
func (cpu *CPUBackend) Pad(m *tensor.Matrix, size int, value float64) *tensor.Matrix {
	if size < 0 {
		panic(fmt.Sprintf("pad: negative size %d", size))
	}
	result := tensor.NewMatrix(m.Rows()+2*size, m.Cols()+2*size, value)
	for i := 0; i < m.Rows(); i++ {
		row := m.Data()[i*m.Cols() : (i+1)*m.Cols()]
		copy(result.Data()[(i+size)*result.Cols()+size:], row)
	}
	return result
}

// Crop copies the top-left rows x cols region of m.
func (cpu *CPUBackend) Crop(m *tensor.Matrix, rows, cols int) *tensor.Matrix {
	if rows > m.Rows() || cols > m.Cols() {
		panic(fmt.Sprintf("crop: [%d,%d] exceeds [%d,%d]", rows, cols, m.Rows(), m.Cols()))
	}
	result := tensor.NewMatrix(rows, cols, 0)
	for i := 0; i < rows; i++ {
		copy(result.Data()[i*cols:(i+1)*cols], m.Data()[i*m.Cols():])
	}
	return result
}

// AddAt adds src into the top-left region of dst.
func (cpu *CPUBackend) AddAt(dst, src *tensor.Matrix) {
	if src.Rows() > dst.Rows() || src.Cols() > dst.Cols() {
		panic(fmt.Sprintf("addat: [%d,%d] exceeds [%d,%d]", src.Rows(), src.Cols(), dst.Rows(), dst.Cols()))
	}
	if src.Rows() == dst.Rows() && src.Cols() == dst.Cols() {
		dst.Add(src)
		return
	}
	for i := 0; i < src.Rows(); i++ {
		floats.Add(dst.Data()[i*dst.Cols():i*dst.Cols()+src.Cols()], src.Data()[i*src.Cols():(i+1)*src.Cols()])
	}
}
