package cpu

import (
	"fmt"

	"github.com/born-ml/dragon/internal/tensor"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// dense wraps a matrix as a gonum Dense without copying.
func dense(m *tensor.Matrix) *mat.Dense {
	return mat.NewDense(m.Rows(), m.Cols(), m.Data())
}

// MatMul performs matrix multiplication.
// (R, K) @ (K, C) -> (R, C)
func (cpu *CPUBackend) MatMul(a, b *tensor.Matrix) *tensor.Matrix {
	if a.Cols() != b.Rows() {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]", a.Rows(), a.Cols(), b.Rows(), b.Cols()))
	}
	result := tensor.NewMatrix(a.Rows(), b.Cols(), 0)
	dense(result).Mul(dense(a), dense(b))
	return result
}

// MatVec multiplies a by v treated as a single column.
// (R, K) @ (K) -> (R, 1)
func (cpu *CPUBackend) MatVec(a *tensor.Matrix, v *tensor.Vector) *tensor.Matrix {
	if a.Cols() != v.Len() {
		panic(fmt.Sprintf("matvec: shape mismatch [%d,%d] @ [%d]", a.Rows(), a.Cols(), v.Len()))
	}
	result := tensor.NewMatrix(a.Rows(), 1, 0)
	dst := mat.NewVecDense(a.Rows(), result.Data())
	dst.MulVec(dense(a), mat.NewVecDense(v.Len(), v.Data()))
	return result
}

// Outer multiplies v treated as a single column by a single-row matrix.
// (N) @ (1, C) -> (N, C)
func (cpu *CPUBackend) Outer(v *tensor.Vector, row *tensor.Matrix) *tensor.Matrix {
	if row.Rows() != 1 {
		panic(fmt.Sprintf("outer: right operand must have one row, got [%d,%d]", row.Rows(), row.Cols()))
	}
	result := tensor.NewMatrix(v.Len(), row.Cols(), 0)
	dense(result).Outer(1, mat.NewVecDense(v.Len(), v.Data()), mat.NewVecDense(row.Cols(), row.Data()))
	return result
}

// Dot returns the inner product of two equal-length vectors.
func (cpu *CPUBackend) Dot(a, b *tensor.Vector) float64 {
	if a.Len() != b.Len() {
		panic(fmt.Sprintf("dot: length mismatch (%d vs %d)", a.Len(), b.Len()))
	}
	return floats.Dot(a.Data(), b.Data())
}
