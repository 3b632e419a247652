package cpu

import (
	"fmt"

	"github.com/born-ml/dragon/internal/tensor"
)

// ConvOutputSize returns the number of kernel placements along one axis:
// floor((in - k) / stride) + 1.
func ConvOutputSize(in, k, stride int) int {
	if stride <= 0 {
		panic(fmt.Sprintf("conv2d: stride must be positive, got %d", stride))
	}
	if k > in {
		panic(fmt.Sprintf("conv2d: kernel %d larger than input %d", k, in))
	}
	return (in-k)/stride + 1
}

// Correlate slides kernel over signal with the given stride and returns the
// dot product at every placement. The kernel is not flipped.
//
// Output shape: [ConvOutputSize(rows), ConvOutputSize(cols)]
func (cpu *CPUBackend) Correlate(signal, kernel *tensor.Matrix, stride int) *tensor.Matrix {
	rows := ConvOutputSize(signal.Rows(), kernel.Rows(), stride)
	cols := ConvOutputSize(signal.Cols(), kernel.Cols(), stride)
	result := tensor.NewMatrix(rows, cols, 0)
	correlate(result, signal, kernel, stride)
	return result
}

// CorrelateInto is Correlate writing into result, which must already have
// the output shape. Existing values are overwritten.
func (cpu *CPUBackend) CorrelateInto(result, signal, kernel *tensor.Matrix, stride int) {
	rows := ConvOutputSize(signal.Rows(), kernel.Rows(), stride)
	cols := ConvOutputSize(signal.Cols(), kernel.Cols(), stride)
	if result.Rows() != rows || result.Cols() != cols {
		panic(fmt.Sprintf("conv2d: result is [%d,%d], expected [%d,%d]", result.Rows(), result.Cols(), rows, cols))
	}
	correlate(result, signal, kernel, stride)
}

func correlate(result, signal, kernel *tensor.Matrix, stride int) {
	out, in, k := result.Data(), signal.Data(), kernel.Data()
	outCols, inCols := result.Cols(), signal.Cols()
	kRows, kCols := kernel.Rows(), kernel.Cols()

	for i := 0; i < result.Rows(); i++ {
		for j := 0; j < outCols; j++ {
			sr, sc := i*stride, j*stride
			sum := 0.0
			for x := 0; x < kRows; x++ {
				base := (sr+x)*inCols + sc
				for y := 0; y < kCols; y++ {
					sum += in[base+y] * k[x*kCols+y]
				}
			}
			out[i*outCols+j] = sum
		}
	}
}
