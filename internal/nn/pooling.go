package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/dragon/internal/serialization"
	"github.com/born-ml/dragon/internal/tensor"
)

// Reduction collapses one pooling window to a single value and routes
// the gradient of that value back onto the window.
type Reduction struct {
	Name string
	// Reduce returns the pooled value of window.
	Reduce func(window []float64) float64
	// Route writes d(pooled)/d(window)*grad into dst, len(dst) == len(window).
	Route func(window []float64, grad float64, dst []float64)
}

// argmax returns the index of the first maximum.
func argmax(window []float64) int {
	index := 0
	for i := 1; i < len(window); i++ {
		if window[i] > window[index] {
			index = i
		}
	}
	return index
}

// MaxReduction pools the window maximum. Ties resolve to the first
// maximum in row-major order, which also receives the whole gradient.
func MaxReduction() Reduction {
	return Reduction{
		Name:   "max",
		Reduce: func(window []float64) float64 { return window[argmax(window)] },
		Route: func(window []float64, grad float64, dst []float64) {
			for i := range dst {
				dst[i] = 0
			}
			dst[argmax(window)] = grad
		},
	}
}

// Pooling partitions every channel plane into non-overlapping
// kernelRows x kernelCols windows and reduces each window to one value.
//
// The layer has no parameters and applies no activation; the activation it
// carries (sigmoid by default) is only recorded in saved models.
// BackPropagate recomputes the routing from activationsBefore, so it must
// see the same input the matching PreparePropagate saw.
type Pooling struct {
	activated
	in                     volumeShape
	kernelRows, kernelCols int
	reduction              Reduction
}

// NewPooling creates a Pooling layer. Panics unless the kernel evenly
// divides the input plane.
func NewPooling(inputRows, inputCols, inputDepth, kernelRows, kernelCols int, reduction Reduction) *Pooling {
	if err := checkPoolGeometry(inputRows, inputCols, kernelRows, kernelCols); err != nil {
		panic(fmt.Sprintf("pooling: %v", err))
	}
	return &Pooling{
		activated:  activated{act: Sigmoid()},
		in:         volumeShape{rows: inputRows, cols: inputCols, depth: inputDepth},
		kernelRows: kernelRows,
		kernelCols: kernelCols,
		reduction:  reduction,
	}
}

func checkPoolGeometry(inputRows, inputCols, kernelRows, kernelCols int) error {
	if kernelRows <= 0 || kernelCols <= 0 || inputRows%kernelRows != 0 || inputCols%kernelCols != 0 {
		return fmt.Errorf("input [%d,%d] is not divisible by kernel [%d,%d]", inputRows, inputCols, kernelRows, kernelCols)
	}
	return nil
}

// Name returns "PoolingLayer".
func (p *Pooling) Name() string { return PoolingName }

// Kind returns KindPooling.
func (p *Pooling) Kind() Kind { return KindPooling }

// Reduction returns the window reduction.
func (p *Pooling) Reduction() Reduction { return p.reduction }

func (p *Pooling) outShape() volumeShape {
	return volumeShape{rows: p.in.rows / p.kernelRows, cols: p.in.cols / p.kernelCols, depth: p.in.depth}
}

// InputSize returns rows*cols*depth of the input volume.
func (p *Pooling) InputSize() int { return p.in.size() }

// OutputSize returns the pooled element count.
func (p *Pooling) OutputSize() int { return p.outShape().size() }

// windows calls fn for every window of every channel with the window
// values gathered row-major into a scratch slice.
func (p *Pooling) windows(x *tensor.Volume, fn func(d, i, j int, window []float64)) {
	out := p.outShape()
	window := make([]float64, p.kernelRows*p.kernelCols)
	for d := 0; d < out.depth; d++ {
		plane := x.Plane(d)
		for i := 0; i < out.rows; i++ {
			for j := 0; j < out.cols; j++ {
				for r := 0; r < p.kernelRows; r++ {
					for c := 0; c < p.kernelCols; c++ {
						window[r*p.kernelCols+c] = plane.At(i*p.kernelRows+r, j*p.kernelCols+c)
					}
				}
				fn(d, i, j, window)
			}
		}
	}
}

// FeedForward reduces every window.
func (p *Pooling) FeedForward(input *tensor.Vector) *tensor.Vector {
	mustSize("pooling", "input", input, p.in.size())
	out := p.outShape()
	result := tensor.NewVolume(out.depth, out.rows, out.cols, 0)
	p.windows(p.in.view(input), func(d, i, j int, window []float64) {
		result.Plane(d).Set(i, j, p.reduction.Reduce(window))
	})
	return tensor.TakeVector(out.size(), result.Move())
}

// PreparePropagate computes the forward pass. Sum is a copy of Output.
func (p *Pooling) PreparePropagate(input *tensor.Vector) *PreparedData {
	out := p.FeedForward(input)
	return &PreparedData{Input: input.Clone(), Sum: out.Clone(), Output: out}
}

// BackPropagate routes each window's upstream gradient back onto the
// window; with MaxReduction the whole gradient lands on the maximum.
// sumsAfter is overwritten with costAfter.
func (p *Pooling) BackPropagate(sumsAfter, costAfter, activationsBefore *tensor.Vector, _ float64) *tensor.Vector {
	out := p.outShape()
	mustSize("pooling", "sums", sumsAfter, out.size())
	mustSize("pooling", "cost", costAfter, out.size())
	mustSize("pooling", "activations", activationsBefore, p.in.size())

	copy(sumsAfter.Data(), costAfter.Data())
	cost := out.view(costAfter)
	costBefore := tensor.NewVolume(p.in.depth, p.in.rows, p.in.cols, 0)
	routed := make([]float64, p.kernelRows*p.kernelCols)

	p.windows(p.in.view(activationsBefore), func(d, i, j int, window []float64) {
		p.reduction.Route(window, cost.Plane(d).At(i, j), routed)
		plane := costBefore.Plane(d)
		for r := 0; r < p.kernelRows; r++ {
			for c := 0; c < p.kernelCols; c++ {
				plane.Set(i*p.kernelRows+r, j*p.kernelCols+c, routed[r*p.kernelCols+c])
			}
		}
	})
	return tensor.TakeVector(p.in.size(), costBefore.Move())
}

// MarshalText writes "inR inC inD kR kC".
func (p *Pooling) MarshalText() ([]byte, error) {
	var w serialization.PayloadWriter
	w.Int(p.in.rows, p.in.cols, p.in.depth, p.kernelRows, p.kernelCols)
	return w.Bytes(), nil
}

// UnmarshalText rebuilds the geometry. A layer without a reduction gets
// MaxReduction.
func (p *Pooling) UnmarshalText(text []byte) error {
	r := serialization.NewPayloadReader(text)
	in := volumeShape{rows: r.Int("inputRows"), cols: r.Int("inputCols"), depth: r.Int("inputDepth")}
	kr, kc := r.Int("kernelRows"), r.Int("kernelCols")
	if err := r.Err(); err != nil {
		return fmt.Errorf("pooling: %w", err)
	}
	if _, ok := boundedSize(math.MaxInt, in.rows, in.cols, in.depth); !ok {
		return fmt.Errorf("pooling: %w", &serialization.FormatError{
			Record: -1, Field: "shape", Details: fmt.Sprintf("input %v overflows", in),
		})
	}
	if err := checkPoolGeometry(in.rows, in.cols, kr, kc); err != nil {
		return fmt.Errorf("pooling: %w", &serialization.FormatError{Record: -1, Field: "kernel", Details: err.Error()})
	}
	p.in, p.kernelRows, p.kernelCols = in, kr, kc
	if p.reduction.Reduce == nil {
		p.reduction = MaxReduction()
	}
	if p.act.IsZero() {
		p.act = Sigmoid()
	}
	return nil
}
