package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/dragon/internal/backend/cpu"
	"github.com/born-ml/dragon/internal/optim"
	"github.com/born-ml/dragon/internal/parallel"
	"github.com/born-ml/dragon/internal/serialization"
	"github.com/born-ml/dragon/internal/tensor"
)

// volumeShape is a channel volume geometry, serialized as rows cols depth.
type volumeShape struct {
	rows, cols, depth int
}

func (s volumeShape) size() int { return s.rows * s.cols * s.depth }

func (s volumeShape) view(v *tensor.Vector) *tensor.Volume {
	return v.AsVolume(s.depth, s.rows, s.cols)
}

// convBase holds the state shared by Convolutional and ConvolutionalTree.
// The two differ only in how output channels pair with kernels and input
// channels.
type convBase struct {
	activated
	in, out volumeShape
	stride  int
	kernels *tensor.Volume // [kernelPlanes, k, k]
	biases  *tensor.Volume // [out.depth, out.rows, out.cols]
}

func newConvBase(op string, in volumeShape, kernelRows, kernelCols, outDepth, kernelPlanes, stride int,
	init InitFunc, act Activation,
) convBase {
	if kernelRows != kernelCols {
		panic(fmt.Sprintf("%s: kernel must be square, got [%d,%d]", op, kernelRows, kernelCols))
	}
	out := volumeShape{
		rows:  cpu.ConvOutputSize(in.rows, kernelRows, stride),
		cols:  cpu.ConvOutputSize(in.cols, kernelCols, stride),
		depth: outDepth,
	}
	k := kernelPlanes * kernelRows * kernelCols
	return convBase{
		activated: activated{act: act},
		in:        in,
		out:       out,
		stride:    stride,
		kernels:   tensor.TakeVolume(kernelPlanes, kernelRows, kernelCols, tensor.InitVector(k, init).Move()),
		biases:    tensor.TakeVolume(out.depth, out.rows, out.cols, tensor.InitVector(out.size(), init).Move()),
	}
}

// InputSize returns rows*cols*depth of the input volume.
func (c *convBase) InputSize() int { return c.in.size() }

// OutputSize returns rows*cols*depth of the output volume.
func (c *convBase) OutputSize() int { return c.out.size() }

// KernelSize returns the side of the square kernels.
func (c *convBase) KernelSize() int { return c.kernels.Rows() }

// Stride returns the kernel step.
func (c *convBase) Stride() int { return c.stride }

// Kernels returns the kernel volume. Mutating it changes the layer.
func (c *convBase) Kernels() *tensor.Volume { return c.kernels }

// Biases returns the bias volume. Mutating it changes the layer.
func (c *convBase) Biases() *tensor.Volume { return c.biases }

// Release frees the parameters. The layer is unusable afterwards.
func (c *convBase) Release() {
	c.kernels.Release()
	c.biases.Release()
}

// forward sums the correlation of every (output, input) pair from pairs
// into a fresh volume, then adds the biases. Output channels are
// independent and run in parallel.
func (c *convBase) forward(op string, input *tensor.Vector, pairs func(o int, visit func(in, kernel int))) *tensor.Vector {
	mustSize(op, "input", input, c.in.size())
	x := c.in.view(input)
	sum := tensor.NewVolume(c.out.depth, c.out.rows, c.out.cols, 0)
	parallel.For(c.out.depth, func(o int) {
		plane := sum.Plane(o)
		scratch := tensor.NewMatrix(c.out.rows, c.out.cols, 0)
		pairs(o, func(i, k int) {
			backend.CorrelateInto(scratch, x.Plane(i), c.kernels.Plane(k), c.stride)
			plane.Add(scratch)
		})
	}, workers)
	sum.Add(c.biases)
	return tensor.TakeVector(c.out.size(), sum.Move())
}

// backward runs the shared backward pass over the same pairing.
func (c *convBase) backward(op string, sumsAfter, costAfter, activationsBefore *tensor.Vector, learningRate float64,
	pairs func(o int, visit func(in, kernel int)),
) *tensor.Vector {
	mustSize(op, "sums", sumsAfter, c.out.size())
	mustSize(op, "cost", costAfter, c.out.size())
	mustSize(op, "activations", activationsBefore, c.in.size())

	c.localGradient(sumsAfter, costAfter)
	local := c.out.view(sumsAfter)
	x := c.in.view(activationsBefore)

	costBefore := tensor.NewVolume(c.in.depth, c.in.rows, c.in.cols, 0)
	kernelGrad := tensor.NewVolume(c.kernels.Depth(), c.kernels.Rows(), c.kernels.Cols(), 0)
	k := c.KernelSize()

	for o := 0; o < c.out.depth; o++ {
		grad := local.Plane(o)
		pairs(o, func(i, kernel int) {
			kernelGrad.Plane(kernel).Add(backend.CorrelateKernelGrad(x.Plane(i), grad, k, k, c.stride))
			backend.CorrelateInputGrad(costBefore.Plane(i), c.kernels.Plane(kernel), grad, c.stride)
		})
	}

	sgd := optim.SGD{LR: learningRate}
	sgd.Step(c.kernels, kernelGrad)
	sgd.Step(c.biases, sumsAfter)

	return tensor.TakeVector(c.in.size(), costBefore.Move())
}

func (c *convBase) prepare(input *tensor.Vector, sum *tensor.Vector) *PreparedData {
	out := sum.Clone()
	c.activate(out)
	return &PreparedData{Input: input.Clone(), Sum: sum, Output: out}
}

// marshal writes "inR inC inD outR outC outD stride kernels... biases...".
func (c *convBase) marshal() []byte {
	var w serialization.PayloadWriter
	w.Int(c.in.rows, c.in.cols, c.in.depth, c.out.rows, c.out.cols, c.out.depth, c.stride)
	w.Floats(c.kernels.Data()).Floats(c.biases.Data())
	return w.Bytes()
}

// unmarshal parses marshal output. The kernel side is recovered from the
// number of values left after the header, so strides that do not tile the
// input round-trip. kernelPlanes maps the geometry to the kernel count.
func (c *convBase) unmarshal(op string, text []byte, kernelPlanes func(in, out volumeShape) (int, error)) error {
	r := serialization.NewPayloadReader(text)
	in := volumeShape{rows: r.Int("inputRows"), cols: r.Int("inputCols"), depth: r.Int("inputDepth")}
	out := volumeShape{rows: r.Int("outputRows"), cols: r.Int("outputCols"), depth: r.Int("outputDepth")}
	stride := r.Int("stride")
	if err := r.Check(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	outSize, outOK := boundedSize(r.Remaining(), out.rows, out.cols, out.depth)
	_, inOK := boundedSize(math.MaxInt, in.rows, in.cols, in.depth)
	if !outOK || !inOK || in.depth > r.Remaining() {
		return fmt.Errorf("%s: %w", op, &serialization.FormatError{
			Record: -1, Field: "shape",
			Details: fmt.Sprintf("%v -> %v does not fit the %d values present", in, out, r.Remaining()),
		})
	}

	planes, err := kernelPlanes(in, out)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	kernelValues := r.Remaining() - outSize
	k := 0
	if kernelValues > 0 {
		k = int(math.Round(math.Sqrt(float64(kernelValues) / float64(planes))))
	}
	if k <= 0 || k*k*planes != kernelValues || k > in.rows || k > in.cols ||
		cpu.ConvOutputSize(in.rows, k, stride) != out.rows || cpu.ConvOutputSize(in.cols, k, stride) != out.cols {
		return fmt.Errorf("%s: %w", op, &serialization.FormatError{
			Record: -1, Field: "kernels",
			Details: fmt.Sprintf("%d values do not fit %d square kernels for %v -> %v stride %d", kernelValues, planes, in, out, stride),
		})
	}

	kernels := tensor.NewVolume(planes, k, k, 0)
	biases := tensor.NewVolume(out.depth, out.rows, out.cols, 0)
	r.Floats("kernels", kernels.Data())
	r.Floats("biases", biases.Data())
	if err := r.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	c.in, c.out, c.stride, c.kernels, c.biases = in, out, stride, kernels, biases
	return nil
}

// Convolutional is a multi-channel 2D convolution layer.
//
// Every output channel o sums, over all input channels i, the strided
// correlation of input plane i with kernel (o, i), adds its bias plane and
// applies the activation:
//
//	out[o] = activation(bias[o] + Σ_i correlate(in[i], kernel[o*inDepth+i], stride))
//
// Kernels must be square. Output rows = floor((inRows-k)/stride)+1, and
// likewise for columns.
type Convolutional struct {
	convBase
}

// NewConvolutional creates a Convolutional layer with kernelCount output
// channels. Panics if kernelRows != kernelCols or the kernel does not fit.
func NewConvolutional(inputRows, inputCols, inputDepth, kernelRows, kernelCols, kernelCount, stride int,
	init InitFunc, act Activation,
) *Convolutional {
	in := volumeShape{rows: inputRows, cols: inputCols, depth: inputDepth}
	return &Convolutional{newConvBase("conv2d", in, kernelRows, kernelCols, kernelCount, kernelCount*inputDepth, stride, init, act)}
}

// Name returns "ConvolutionalLayer".
func (c *Convolutional) Name() string { return ConvolutionalName }

// Kind returns KindConvolutional.
func (c *Convolutional) Kind() Kind { return KindConvolutional }

// pairs visits every input channel for output channel o.
func (c *Convolutional) pairs(o int, visit func(in, kernel int)) {
	for i := 0; i < c.in.depth; i++ {
		visit(i, o*c.in.depth+i)
	}
}

// FeedForward computes the activated convolution.
func (c *Convolutional) FeedForward(input *tensor.Vector) *tensor.Vector {
	out := c.forward("conv2d", input, c.pairs)
	c.activate(out)
	return out
}

// PreparePropagate computes the forward pass and keeps input and sum.
func (c *Convolutional) PreparePropagate(input *tensor.Vector) *PreparedData {
	return c.prepare(input, c.forward("conv2d", input, c.pairs))
}

// BackPropagate computes, for every (output, input) channel pair,
//
//	kernelGrad       = correlate(in[i], dilate(local[o]), 1)
//	costBefore[i]   += correlate(pad(dilate(local[o]), k-1), rot180(kernel), 1)
//
// then kernels -= lr·kernelGrad, biases -= lr·local.
func (c *Convolutional) BackPropagate(sumsAfter, costAfter, activationsBefore *tensor.Vector, learningRate float64) *tensor.Vector {
	return c.backward("conv2d", sumsAfter, costAfter, activationsBefore, learningRate, c.pairs)
}

// MarshalText writes the shape, stride, kernels and biases.
func (c *Convolutional) MarshalText() ([]byte, error) {
	return c.marshal(), nil
}

// UnmarshalText rebuilds the layer from MarshalText output.
func (c *Convolutional) UnmarshalText(text []byte) error {
	return c.unmarshal("conv2d", text, func(in, out volumeShape) (int, error) {
		return in.depth * out.depth, nil
	})
}
