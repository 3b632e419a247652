package nn

import (
	"testing"

	"github.com/born-ml/dragon/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDenseForwardAndBackward(t *testing.T) {
	d := NewDense(2, 2, Constant(0), identity())
	copy(d.Weights().Data(), []float64{1, 2, 3, 4})
	d.Biases().Fill(1)

	assert.Equal(t, []float64{4, 8}, d.FeedForward(tensor.VectorOf(1, 1)).Data())

	p := d.PreparePropagate(tensor.VectorOf(1, 1))
	costBefore := d.BackPropagate(p.Sum, tensor.VectorOf(1, 0), p.Input, 0.1)

	assert.Equal(t, []float64{1, 2}, costBefore.Data(), "gradient uses the weights before the update")
	assert.InDeltaSlice(t, []float64{0.9, 1.9, 3, 4}, d.Weights().Data(), 1e-12)
	assert.InDeltaSlice(t, []float64{0.9, 1}, d.Biases().Data(), 1e-12)
	assert.Equal(t, []float64{1, 0}, p.Sum.Data(), "sums are overwritten with the local gradient")
}

func TestDenseRejectsWrongInputSize(t *testing.T) {
	d := NewDense(2, 3, Constant(0), Sigmoid())
	assert.PanicsWithValue(t, "dense: invalid input size 1, expected 2", func() {
		d.FeedForward(tensor.VectorOf(1))
	})
}

func TestConvolutionalForward(t *testing.T) {
	c := NewConvolutional(3, 3, 1, 2, 2, 1, 1, Constant(1), identity())
	c.Biases().Fill(0)

	out := c.FeedForward(tensor.VectorOf(1, 2, 3, 4, 5, 6, 7, 8, 9))
	assert.Equal(t, []float64{12, 16, 24, 28}, out.Data())
	assert.Equal(t, 4, c.OutputSize())
	assert.Equal(t, 2, c.KernelSize())
}

func TestConvolutionalSumsInputChannels(t *testing.T) {
	// Two input channels, two output channels, 1x1 kernels.
	c := NewConvolutional(1, 2, 2, 1, 1, 2, 1, Constant(0), identity())
	copy(c.Kernels().Data(), []float64{1, 10, 2, 20}) // (o0,i0) (o0,i1) (o1,i0) (o1,i1)
	c.Biases().Fill(0)

	out := c.FeedForward(tensor.VectorOf(1, 2, 3, 4))
	assert.Equal(t, []float64{31, 42, 62, 84}, out.Data())
}

func TestConvolutionalTreeRoutesChannels(t *testing.T) {
	// Each input channel feeds two output channels with its own kernels.
	c := NewConvolutionalTree(1, 2, 2, 1, 1, 2, 1, Constant(0), identity())
	copy(c.Kernels().Data(), []float64{1, 2, 3, 4})
	c.Biases().Fill(0)

	assert.Equal(t, 2, c.KernelsPerInput())
	assert.Equal(t, 8, c.OutputSize())
	out := c.FeedForward(tensor.VectorOf(1, 2, 10, 20))
	assert.Equal(t, []float64{1, 2, 2, 4, 30, 60, 40, 80}, out.Data())
}

func TestConvolutionRequiresSquareKernel(t *testing.T) {
	assert.Panics(t, func() { NewConvolutional(4, 4, 1, 2, 3, 1, 1, Constant(0), Sigmoid()) })
	assert.Panics(t, func() { NewConvolutionalTree(4, 4, 1, 3, 2, 1, 1, Constant(0), Sigmoid()) })
}

func TestPrepareMatchesFeedForward(t *testing.T) {
	tests := []struct {
		name  string
		layer Layer
	}{
		{"dense", NewDense(6, 4, Xavier(6, 4), Sigmoid())},
		{"conv", NewConvolutional(4, 4, 2, 3, 3, 3, 1, Xavier(18, 3), ReLU10())},
		{"conv stride", NewConvolutional(5, 5, 1, 2, 2, 2, 2, Xavier(4, 2), Sigmoid())},
		{"tree", NewConvolutionalTree(4, 4, 2, 2, 2, 2, 1, Xavier(4, 2), Sigmoid())},
		{"pooling", NewPooling(4, 4, 2, 2, 2, MaxReduction())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := tensor.RandomVector(tt.layer.InputSize(), -1, 1)
			p := tt.layer.PreparePropagate(x)
			assert.Equal(t, tt.layer.FeedForward(x).Data(), p.Output.Data())
			assert.Equal(t, x.Data(), p.Input.Data())
			assert.Equal(t, tt.layer.OutputSize(), p.Sum.Len())
		})
	}
}

func TestLayerGradients(t *testing.T) {
	tests := []struct {
		name  string
		layer Layer
	}{
		{"dense", NewDense(3, 2, He(3, 2), Sigmoid())},
		{"conv", NewConvolutional(4, 4, 2, 2, 2, 2, 1, Xavier(8, 2), Sigmoid())},
		{"conv stride tiling", NewConvolutional(5, 5, 1, 3, 3, 2, 2, Xavier(9, 2), Sigmoid())},
		{"conv stride remainder", NewConvolutional(6, 6, 1, 3, 3, 1, 2, Xavier(9, 1), Sigmoid())},
		{"tree", NewConvolutionalTree(4, 4, 2, 3, 3, 2, 1, Xavier(9, 2), Sigmoid())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkGradients(t, tt.layer, tensor.RandomVector(tt.layer.InputSize(), -1, 1), 1e-5)
		})
	}
}

func TestPoolingMax(t *testing.T) {
	p := NewPooling(4, 4, 1, 2, 2, MaxReduction())
	x := tensor.VectorOf(
		1, 5, 2, 0,
		3, 4, 8, 1,
		0, 0, 7, 7,
		9, 0, 7, 7,
	)
	assert.Equal(t, 4, p.OutputSize())
	assert.Equal(t, []float64{5, 8, 9, 7}, p.FeedForward(x).Data())

	prep := p.PreparePropagate(x)
	assert.Equal(t, prep.Output.Data(), prep.Sum.Data())

	cost := tensor.VectorOf(1, 2, 3, 4)
	costBefore := p.BackPropagate(prep.Sum, cost, prep.Input, 0.5)

	assert.Equal(t, []float64{
		0, 1, 0, 0,
		0, 0, 2, 0,
		0, 0, 4, 0,
		3, 0, 0, 0,
	}, costBefore.Data(), "gradient lands on the first maximum of each window")
	assert.InDelta(t, cost.Sum(), costBefore.Sum(), 1e-12)
	assert.Equal(t, cost.Data(), prep.Sum.Data())
}

func TestPoolingConservesGradient(t *testing.T) {
	p := NewPooling(6, 4, 3, 3, 2, MaxReduction())
	x := tensor.RandomVector(p.InputSize(), -1, 1)
	prep := p.PreparePropagate(x)
	cost := tensor.RandomVector(p.OutputSize(), -1, 1)

	costBefore := p.BackPropagate(prep.Sum, cost, prep.Input, 1)
	require.Equal(t, p.InputSize(), costBefore.Len())
	assert.InDelta(t, cost.Sum(), costBefore.Sum(), 1e-12)

	nonZero := 0
	for _, g := range costBefore.Data() {
		if g != 0 {
			nonZero++
		}
	}
	assert.LessOrEqual(t, nonZero, p.OutputSize(), "one routed value per window")
}

func TestPoolingGeometry(t *testing.T) {
	assert.Panics(t, func() { NewPooling(5, 4, 1, 2, 2, MaxReduction()) })
	assert.Panics(t, func() { NewPooling(4, 4, 1, 0, 2, MaxReduction()) })

	p := NewPooling(4, 4, 1, 2, 2, MaxReduction())
	assert.Equal(t, "sigmoid", p.Activation().Name())
	assert.Equal(t, KindPooling, p.Kind())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, DenseName, KindDense.String())
	assert.Equal(t, ConvolutionalName, KindConvolutional.String())
	assert.Equal(t, ConvolutionalTreeName, KindConvolutionalTree.String())
	assert.Equal(t, PoolingName, KindPooling.String())
	assert.Equal(t, "Custom", KindCustom.String())
}
