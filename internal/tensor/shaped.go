package tensor

import (
	"fmt"
	"strings"
)

// Vector is a rank-1 tensor.
type Vector struct {
	Tensor
}

// NewVector allocates n elements set to value.
func NewVector(n int, value float64) *Vector {
	return &Vector{newTensor(NewBuffer(n, value), Shape{n}, "vector")}
}

// VectorFrom copies data into a new vector.
func VectorFrom(data []float64) *Vector {
	return &Vector{newTensor(CopyBuffer(data), Shape{len(data)}, "vector")}
}

// VectorOf builds a vector from its elements.
func VectorOf(values ...float64) *Vector {
	return VectorFrom(values)
}

// TakeVector takes ownership of buf as an n-element vector.
// buf is emptied; its length must be n.
func TakeVector(n int, buf *Buffer) *Vector {
	if buf.Len() != n {
		panic(fmt.Sprintf("vector: parameter count mismatch (%d vs %d)", n, buf.Len()))
	}
	return &Vector{newTensor(buf.Move(), Shape{n}, "vector")}
}

// ViewVector borrows n elements of src starting at offset.
func ViewVector(src Backed, offset, n int) *Vector {
	return &Vector{newTensor(viewOf(src.Storage(), offset, n), Shape{n}, "vector")}
}

// Cols returns the number of elements.
func (v *Vector) Cols() int {
	return v.shape[0]
}

// At returns element i.
func (v *Vector) At(i int) float64 {
	return v.Data()[i]
}

// Set assigns element i.
func (v *Vector) Set(i int, value float64) {
	v.Data()[i] = value
}

// Clone deep-copies the vector; the copy always owns its memory.
func (v *Vector) Clone() *Vector {
	return &Vector{v.cloneTensor()}
}

// Assign deep-copies other into v. Panics if v is a view.
func (v *Vector) Assign(other *Vector) {
	v.assign(&other.Tensor)
}

// Swap exchanges contents with other. Panics if either is a view.
func (v *Vector) Swap(other *Vector) {
	v.swap(&other.Tensor)
}

// AsMatrix reinterprets v as a rows x cols matrix without copying.
func (v *Vector) AsMatrix(rows, cols int) *Matrix {
	return ViewMatrix(v, 0, rows, cols)
}

// AsVolume reinterprets v as a depth x rows x cols volume without copying.
func (v *Vector) AsVolume(depth, rows, cols int) *Volume {
	return ViewVolume(v, 0, depth, rows, cols)
}

// String formats the elements on one line.
func (v *Vector) String() string {
	var sb strings.Builder
	writeRows(&sb, v.Data(), 1, v.Len())
	return sb.String()
}

// Matrix is a rank-2 tensor stored row-major: offset = row*cols + col.
type Matrix struct {
	Tensor
}

// NewMatrix allocates rows x cols elements set to value.
func NewMatrix(rows, cols int, value float64) *Matrix {
	return &Matrix{newTensor(NewBuffer(rows*cols, value), Shape{rows, cols}, "matrix")}
}

// MatrixFrom copies rows*cols elements of data into a new matrix.
func MatrixFrom(rows, cols int, data []float64) *Matrix {
	if len(data) < rows*cols {
		panic(fmt.Sprintf("matrix: parameter count mismatch (%d vs %d)", rows*cols, len(data)))
	}
	return &Matrix{newTensor(CopyBuffer(data[:rows*cols]), Shape{rows, cols}, "matrix")}
}

// TakeMatrix takes ownership of buf under a rows x cols shape.
func TakeMatrix(rows, cols int, buf *Buffer) *Matrix {
	if buf.Len() != rows*cols {
		panic(fmt.Sprintf("matrix: parameter count mismatch (%d vs %d)", rows*cols, buf.Len()))
	}
	return &Matrix{newTensor(buf.Move(), Shape{rows, cols}, "matrix")}
}

// ViewMatrix borrows a rows x cols window of src starting at offset.
func ViewMatrix(src Backed, offset, rows, cols int) *Matrix {
	return &Matrix{newTensor(viewOf(src.Storage(), offset, rows*cols), Shape{rows, cols}, "matrix")}
}

// Rows returns the row count.
func (m *Matrix) Rows() int {
	return m.shape[0]
}

// Cols returns the column count.
func (m *Matrix) Cols() int {
	return m.shape[1]
}

// At returns the element at (row, col).
func (m *Matrix) At(row, col int) float64 {
	return m.Data()[row*m.shape[1]+col]
}

// Set assigns the element at (row, col).
func (m *Matrix) Set(row, col int, value float64) {
	m.Data()[row*m.shape[1]+col] = value
}

// Clone deep-copies the matrix.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{m.cloneTensor()}
}

// Assign deep-copies other into m. Panics if m is a view.
func (m *Matrix) Assign(other *Matrix) {
	m.assign(&other.Tensor)
}

// Swap exchanges contents with other. Panics if either is a view.
func (m *Matrix) Swap(other *Matrix) {
	m.swap(&other.Tensor)
}

// Flatten returns a zero-copy vector over all elements.
func (m *Matrix) Flatten() *Vector {
	return ViewVector(m, 0, m.Len())
}

// String formats the matrix one row per line.
func (m *Matrix) String() string {
	var sb strings.Builder
	writeRows(&sb, m.Data(), m.Rows(), m.Cols())
	return sb.String()
}

// Volume is a rank-3 tensor of depth planes, each rows x cols.
type Volume struct {
	Tensor
}

// NewVolume allocates depth x rows x cols elements set to value.
func NewVolume(depth, rows, cols int, value float64) *Volume {
	return &Volume{newTensor(NewBuffer(depth*rows*cols, value), Shape{depth, rows, cols}, "volume")}
}

// VolumeFrom copies depth*rows*cols elements of data into a new volume.
func VolumeFrom(depth, rows, cols int, data []float64) *Volume {
	n := depth * rows * cols
	if len(data) < n {
		panic(fmt.Sprintf("volume: parameter count mismatch (%d vs %d)", n, len(data)))
	}
	return &Volume{newTensor(CopyBuffer(data[:n]), Shape{depth, rows, cols}, "volume")}
}

// TakeVolume takes ownership of buf under a depth x rows x cols shape.
func TakeVolume(depth, rows, cols int, buf *Buffer) *Volume {
	if buf.Len() != depth*rows*cols {
		panic(fmt.Sprintf("volume: parameter count mismatch (%d vs %d)", depth*rows*cols, buf.Len()))
	}
	return &Volume{newTensor(buf.Move(), Shape{depth, rows, cols}, "volume")}
}

// ViewVolume borrows a depth x rows x cols window of src starting at offset.
func ViewVolume(src Backed, offset, depth, rows, cols int) *Volume {
	return &Volume{newTensor(viewOf(src.Storage(), offset, depth*rows*cols), Shape{depth, rows, cols}, "volume")}
}

// Depth returns the number of planes.
func (v *Volume) Depth() int {
	return v.shape[0]
}

// Rows returns the rows per plane.
func (v *Volume) Rows() int {
	return v.shape[1]
}

// Cols returns the columns per plane.
func (v *Volume) Cols() int {
	return v.shape[2]
}

// PlaneLen returns rows*cols.
func (v *Volume) PlaneLen() int {
	return v.shape[1] * v.shape[2]
}

// offset uses rows as the in-plane row stride. This only agrees with the
// row-major plane layout when rows == cols; the layers address planes
// through Plane instead.
func (v *Volume) offset(row, col, depth int) int {
	return depth*v.shape[1]*v.shape[2] + row*v.shape[1] + col
}

// At returns the element at (row, col, depth).
func (v *Volume) At(row, col, depth int) float64 {
	return v.Data()[v.offset(row, col, depth)]
}

// Set assigns the element at (row, col, depth).
func (v *Volume) Set(row, col, depth int, value float64) {
	v.Data()[v.offset(row, col, depth)] = value
}

// Plane returns channel d as a zero-copy rows x cols matrix.
func (v *Volume) Plane(d int) *Matrix {
	if d < 0 || d >= v.Depth() {
		panic(fmt.Sprintf("volume: plane %d out of range for depth %d", d, v.Depth()))
	}
	return ViewMatrix(v, d*v.PlaneLen(), v.Rows(), v.Cols())
}

// Clone deep-copies the volume.
func (v *Volume) Clone() *Volume {
	return &Volume{v.cloneTensor()}
}

// Assign deep-copies other into v. Panics if v is a view.
func (v *Volume) Assign(other *Volume) {
	v.assign(&other.Tensor)
}

// Swap exchanges contents with other. Panics if either is a view.
func (v *Volume) Swap(other *Volume) {
	v.swap(&other.Tensor)
}

// Flatten returns a zero-copy vector over all elements.
func (v *Volume) Flatten() *Vector {
	return ViewVector(v, 0, v.Len())
}

// String formats each plane as a block of rows.
func (v *Volume) String() string {
	var sb strings.Builder
	data := v.Data()
	for d := 0; d < v.Depth(); d++ {
		writeRows(&sb, data[d*v.PlaneLen():(d+1)*v.PlaneLen()], v.Rows(), v.Cols())
		sb.WriteString("\n")
	}
	return sb.String()
}
