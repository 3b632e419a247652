package nn

import (
	"github.com/born-ml/dragon/internal/tensor"
)

// CostFunc returns d(cost)/d(output) for one example.
type CostFunc func(output, target *tensor.Vector) *tensor.Vector

// SquaredErrorGrad is the gradient of sum((output-target)^2):
// 2*(output-target).
func SquaredErrorGrad(output, target *tensor.Vector) *tensor.Vector {
	grad := output.Clone()
	grad.Sub(target)
	grad.MulScalar(2)
	return grad
}

// SquaredError returns sum((output-target)^2).
func SquaredError(output, target *tensor.Vector) float64 {
	diff := output.Clone()
	diff.Sub(target)
	diff.Mul(diff)
	return diff.Sum()
}
