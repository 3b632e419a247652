package cpu

import (
	"fmt"

	"github.com/born-ml/dragon/internal/tensor"
)

// ScaleByStride dilates m by inserting stride-1 zero rows and columns
// between the original samples, undoing the subsampling of a strided
// forward pass. The result is [(rows-1)*stride+1, (cols-1)*stride+1].
func (cpu *CPUBackend) ScaleByStride(m *tensor.Matrix, stride int) *tensor.Matrix {
	if stride <= 0 {
		panic(fmt.Sprintf("scalebystride: stride must be positive, got %d", stride))
	}
	rows := (m.Rows()-1)*stride + 1
	cols := (m.Cols()-1)*stride + 1
	result := tensor.NewMatrix(rows, cols, 0)
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			result.Set(i*stride, j*stride, m.At(i, j))
		}
	}
	return result
}

// CorrelateKernelGrad returns the kernel gradient of a strided correlation:
// the input plane correlated with the dilated output gradient at stride 1.
// Input rows or columns never touched by the forward pass are ignored.
func (cpu *CPUBackend) CorrelateKernelGrad(input, grad *tensor.Matrix, kernelRows, kernelCols, stride int) *tensor.Matrix {
	dilated := grad
	if stride > 1 {
		dilated = cpu.ScaleByStride(grad, stride)
	}
	covered := input
	rows, cols := dilated.Rows()+kernelRows-1, dilated.Cols()+kernelCols-1
	if rows != input.Rows() || cols != input.Cols() {
		covered = cpu.Crop(input, rows, cols)
	}
	return cpu.Correlate(covered, dilated, 1)
}

// CorrelateInputGrad accumulates into inputGrad the gradient of a strided
// correlation with respect to its input: the zero-padded dilated output
// gradient correlated with the 180-degree rotated kernel.
func (cpu *CPUBackend) CorrelateInputGrad(inputGrad, kernel, grad *tensor.Matrix, stride int) {
	if kernel.Rows() != kernel.Cols() {
		panic(fmt.Sprintf("conv2d: kernel must be square, got [%d,%d]", kernel.Rows(), kernel.Cols()))
	}
	dilated := grad
	if stride > 1 {
		dilated = cpu.ScaleByStride(grad, stride)
	}
	full := cpu.Correlate(cpu.Pad(dilated, kernel.Rows()-1, 0), cpu.Reverse(kernel), 1)
	cpu.AddAt(inputGrad, full)
}
