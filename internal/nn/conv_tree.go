package nn

import (
	"fmt"

	"github.com/born-ml/dragon/internal/serialization"
	"github.com/born-ml/dragon/internal/tensor"
)

// ConvolutionalTree is a depthwise convolution layer. Each input channel
// owns kernelsPerInput private kernels and feeds only the output channels
// those kernels produce:
//
//	out[o] = activation(bias[o] + correlate(in[o/kernelsPerInput], kernel[o], stride))
//
// Output depth = inputDepth * kernelsPerInput.
type ConvolutionalTree struct {
	convBase
}

// NewConvolutionalTree creates a ConvolutionalTree layer. Panics if
// kernelRows != kernelCols or the kernel does not fit.
func NewConvolutionalTree(inputRows, inputCols, inputDepth, kernelRows, kernelCols, kernelsPerInput, stride int,
	init InitFunc, act Activation,
) *ConvolutionalTree {
	in := volumeShape{rows: inputRows, cols: inputCols, depth: inputDepth}
	depth := inputDepth * kernelsPerInput
	return &ConvolutionalTree{newConvBase("convtree", in, kernelRows, kernelCols, depth, depth, stride, init, act)}
}

// Name returns "ConvolutionalTreeLayer".
func (c *ConvolutionalTree) Name() string { return ConvolutionalTreeName }

// Kind returns KindConvolutionalTree.
func (c *ConvolutionalTree) Kind() Kind { return KindConvolutionalTree }

// KernelsPerInput returns how many output channels each input channel feeds.
func (c *ConvolutionalTree) KernelsPerInput() int { return c.out.depth / c.in.depth }

// pairs visits the single input channel that owns output channel o.
func (c *ConvolutionalTree) pairs(o int, visit func(in, kernel int)) {
	visit(o/c.KernelsPerInput(), o)
}

// FeedForward computes the activated depthwise convolution.
func (c *ConvolutionalTree) FeedForward(input *tensor.Vector) *tensor.Vector {
	out := c.forward("convtree", input, c.pairs)
	c.activate(out)
	return out
}

// PreparePropagate computes the forward pass and keeps input and sum.
func (c *ConvolutionalTree) PreparePropagate(input *tensor.Vector) *PreparedData {
	return c.prepare(input, c.forward("convtree", input, c.pairs))
}

// BackPropagate is the Convolutional backward pass restricted to the
// owning input channel of each output channel.
func (c *ConvolutionalTree) BackPropagate(sumsAfter, costAfter, activationsBefore *tensor.Vector, learningRate float64) *tensor.Vector {
	return c.backward("convtree", sumsAfter, costAfter, activationsBefore, learningRate, c.pairs)
}

// MarshalText writes the shape, stride, kernels and biases.
func (c *ConvolutionalTree) MarshalText() ([]byte, error) {
	return c.marshal(), nil
}

// UnmarshalText rebuilds the layer from MarshalText output. The output
// depth must be a multiple of the input depth.
func (c *ConvolutionalTree) UnmarshalText(text []byte) error {
	return c.unmarshal("convtree", text, func(in, out volumeShape) (int, error) {
		if out.depth%in.depth != 0 {
			return 0, &serialization.FormatError{
				Record: -1, Field: "outputDepth",
				Details: fmt.Sprintf("%d is not a multiple of input depth %d", out.depth, in.depth),
			}
		}
		return out.depth, nil
	})
}
