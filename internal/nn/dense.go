package nn

import (
	"fmt"

	"github.com/born-ml/dragon/internal/optim"
	"github.com/born-ml/dragon/internal/serialization"
	"github.com/born-ml/dragon/internal/tensor"
)

// Dense implements a fully connected layer.
//
// Performs: y = activation(W·x + b)
// where:
//   - x is the input vector with inputSize elements
//   - W is the weight matrix with shape [outputSize, inputSize]
//   - b is the bias vector with outputSize elements
//
// Example:
//
//	layer := nn.NewDense(2, 3, nn.He(2, 3), nn.Sigmoid())
//	output := layer.FeedForward(tensor.VectorOf(0, 1))
type Dense struct {
	activated
	weights *tensor.Matrix // [out, in]
	biases  *tensor.Vector // [out]
}

// NewDense creates a Dense layer. Every weight and bias is drawn from init.
func NewDense(inputSize, outputSize int, init InitFunc, act Activation) *Dense {
	return &Dense{
		activated: activated{act: act},
		weights:   tensor.TakeMatrix(outputSize, inputSize, tensor.InitVector(outputSize*inputSize, init).Move()),
		biases:    tensor.InitVector(outputSize, init),
	}
}

// Name returns "DenseLayer".
func (d *Dense) Name() string { return DenseName }

// Kind returns KindDense.
func (d *Dense) Kind() Kind { return KindDense }

// InputSize returns the number of input nodes.
func (d *Dense) InputSize() int { return d.weights.Cols() }

// OutputSize returns the number of output nodes.
func (d *Dense) OutputSize() int { return d.weights.Rows() }

// Weights returns the weight matrix. Mutating it changes the layer.
func (d *Dense) Weights() *tensor.Matrix { return d.weights }

// Biases returns the bias vector. Mutating it changes the layer.
func (d *Dense) Biases() *tensor.Vector { return d.biases }

// Release frees the parameters. The layer is unusable afterwards.
func (d *Dense) Release() {
	d.weights.Release()
	d.biases.Release()
}

// weightedSum computes W·x + b.
func (d *Dense) weightedSum(input *tensor.Vector) *tensor.Vector {
	mustSize("dense", "input", input, d.InputSize())
	product := backend.MatVec(d.weights, input)
	sum := tensor.TakeVector(d.OutputSize(), product.Move())
	sum.Add(d.biases)
	return sum
}

// FeedForward computes activation(W·x + b).
func (d *Dense) FeedForward(input *tensor.Vector) *tensor.Vector {
	out := d.weightedSum(input)
	d.activate(out)
	return out
}

// PreparePropagate computes the forward pass and keeps input and sum.
func (d *Dense) PreparePropagate(input *tensor.Vector) *PreparedData {
	sum := d.weightedSum(input)
	out := sum.Clone()
	d.activate(out)
	return &PreparedData{Input: input.Clone(), Sum: sum, Output: out}
}

// BackPropagate computes
//
//	local      = act'(sum) ∘ costAfter
//	weightGrad = local ⊗ xᵀ
//	costBefore = Wᵀ·local
//
// then W -= lr·weightGrad, b -= lr·local.
func (d *Dense) BackPropagate(sumsAfter, costAfter, activationsBefore *tensor.Vector, learningRate float64) *tensor.Vector {
	mustSize("dense", "sums", sumsAfter, d.OutputSize())
	mustSize("dense", "cost", costAfter, d.OutputSize())
	mustSize("dense", "activations", activationsBefore, d.InputSize())

	d.localGradient(sumsAfter, costAfter)
	weightGrad := backend.Outer(sumsAfter, backend.Row(activationsBefore))
	costBefore := backend.MatVec(backend.Transpose(d.weights), sumsAfter)

	sgd := optim.SGD{LR: learningRate}
	sgd.Step(d.weights, weightGrad)
	sgd.Step(d.biases, sumsAfter)

	return tensor.TakeVector(d.InputSize(), costBefore.Move())
}

// MarshalText writes "in out weights... biases...".
func (d *Dense) MarshalText() ([]byte, error) {
	var w serialization.PayloadWriter
	w.Int(d.InputSize(), d.OutputSize()).Floats(d.weights.Data()).Floats(d.biases.Data())
	return w.Bytes(), nil
}

// UnmarshalText rebuilds the layer from MarshalText output. The activation
// is left unchanged.
func (d *Dense) UnmarshalText(text []byte) error {
	r := serialization.NewPayloadReader(text)
	in := r.Int("inputSize")
	out := r.Int("outputSize")
	if err := r.Check(); err != nil {
		return fmt.Errorf("dense: %w", err)
	}
	// out*(in+1) counts the weights plus the biases.
	if _, ok := boundedSize(r.Remaining(), out, in+1); !ok {
		return fmt.Errorf("dense: %w", &serialization.FormatError{
			Record: -1, Field: "shape",
			Details: fmt.Sprintf("[%d,%d] needs more than the %d values present", out, in, r.Remaining()),
		})
	}
	weights := tensor.NewMatrix(out, in, 0)
	biases := tensor.NewVector(out, 0)
	r.Floats("weights", weights.Data())
	r.Floats("biases", biases.Data())
	if err := r.Err(); err != nil {
		return fmt.Errorf("dense: %w", err)
	}
	d.weights, d.biases = weights, biases
	return nil
}
