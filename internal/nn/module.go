// Package nn implements the layer engine: the Layer capability interface,
// the four built-in layers and the Model that chains them.
//
// Training is manual backpropagation with plain gradient descent, one
// example at a time:
//   - PreparePropagate runs the forward math and keeps what the backward
//     pass needs (input, pre-activation sum, output).
//   - BackPropagate turns the upstream gradient into the local gradient,
//     updates the layer parameters and returns the gradient for the
//     previous layer.
//
// All tensors crossing the Layer interface are flat Vectors. Layers that
// work on channel volumes reinterpret them with zero-copy plane views.
package nn

import (
	"encoding"
	"fmt"

	"github.com/born-ml/dragon/internal/backend/cpu"
	"github.com/born-ml/dragon/internal/parallel"
	"github.com/born-ml/dragon/internal/tensor"
)

var (
	backend = cpu.New()
	workers = parallel.DefaultConfig()
)

// Built-in layer keys.
const (
	DenseName             = "DenseLayer"
	ConvolutionalName     = "ConvolutionalLayer"
	ConvolutionalTreeName = "ConvolutionalTreeLayer"
	PoolingName           = "PoolingLayer"
)

// Kind tags the built-in layer variants. Layers implemented outside this
// package report KindCustom.
type Kind int

// Layer kinds.
const (
	KindCustom Kind = iota
	KindDense
	KindConvolutional
	KindConvolutionalTree
	KindPooling
)

// String returns the layer key for built-in kinds.
func (k Kind) String() string {
	switch k {
	case KindDense:
		return DenseName
	case KindConvolutional:
		return ConvolutionalName
	case KindConvolutionalTree:
		return ConvolutionalTreeName
	case KindPooling:
		return PoolingName
	default:
		return "Custom"
	}
}

// PreparedData is the forward-pass snapshot one layer needs for its
// backward pass. It lives for a single training step.
type PreparedData struct {
	Input  *tensor.Vector // Copy of the layer input
	Sum    *tensor.Vector // Pre-activation values
	Output *tensor.Vector // Post-activation values
}

// Layer is the capability every layer provides.
//
// Input and output sizes are flat element counts. Passing a vector of the
// wrong size to any method panics.
type Layer interface {
	// Name returns the registry key the layer serializes under.
	Name() string
	// Kind returns the built-in variant, or KindCustom.
	Kind() Kind

	Activation() Activation
	SetActivation(Activation)

	InputSize() int
	OutputSize() int

	// FeedForward is the inference path. It does not mutate the layer.
	FeedForward(input *tensor.Vector) *tensor.Vector

	// PreparePropagate computes the same output as FeedForward and keeps
	// the values BackPropagate needs.
	PreparePropagate(input *tensor.Vector) *PreparedData

	// BackPropagate overwrites sumsAfter with the local gradient
	// (activation derivative at sumsAfter times costAfter), applies
	// param -= learningRate*grad to every parameter, and returns the
	// gradient with respect to the layer input.
	BackPropagate(sumsAfter, costAfter, activationsBefore *tensor.Vector, learningRate float64) *tensor.Vector

	// MarshalText writes shape integers then parameter values.
	encoding.TextMarshaler
	// UnmarshalText rebuilds shape and parameters from MarshalText output.
	encoding.TextUnmarshaler
}

// activated holds the activation shared by every built-in layer.
type activated struct {
	act Activation
}

// Activation returns the layer activation.
func (a *activated) Activation() Activation { return a.act }

// SetActivation replaces the layer activation.
func (a *activated) SetActivation(act Activation) { a.act = act }

// activate applies the activation to v in place.
func (a *activated) activate(v *tensor.Vector) {
	v.Apply(a.act.Forward)
}

// localGradient overwrites sums with act'(sums) * cost.
func (a *activated) localGradient(sums, cost *tensor.Vector) {
	sums.Apply(a.act.Derivative)
	sums.Mul(cost)
}

func mustSize(op, what string, v *tensor.Vector, want int) {
	if v.Len() != want {
		panic(fmt.Sprintf("%s: invalid %s size %d, expected %d", op, what, v.Len(), want))
	}
}

// boundedSize returns the product of dims when every dim is positive and
// the product is at most limit. It divides before multiplying, so a
// corrupt header can never wrap the product.
func boundedSize(limit int, dims ...int) (int, bool) {
	n := 1
	for _, d := range dims {
		if d <= 0 || n > limit/d {
			return 0, false
		}
		n *= d
	}
	return n, true
}
