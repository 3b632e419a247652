package nn

import (
	"testing"

	"github.com/born-ml/dragon/internal/tensor"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
)

var central = &fd.Settings{Formula: fd.Central}

func identity() Activation {
	return NewActivation("identity", func(x float64) float64 { return x }, func(float64) float64 { return 1 })
}

// params returns the parameter slices of the built-in parametric layers.
func params(l Layer) [][]float64 {
	switch v := l.(type) {
	case *Dense:
		return [][]float64{v.Weights().Data(), v.Biases().Data()}
	case *Convolutional:
		return [][]float64{v.Kernels().Data(), v.Biases().Data()}
	case *ConvolutionalTree:
		return [][]float64{v.Kernels().Data(), v.Biases().Data()}
	default:
		return nil
	}
}

// cloneLayer deep-copies l through the registry with exact parameters.
func cloneLayer(t *testing.T, l Layer) Layer {
	t.Helper()
	c, err := NewRegistry().NewLayer(l.Name())
	require.NoError(t, err)
	text, err := l.MarshalText()
	require.NoError(t, err)
	require.NoError(t, c.UnmarshalText(text))
	c.SetActivation(l.Activation())
	for i, p := range params(l) {
		copy(params(c)[i], p)
	}
	return c
}

// checkGradients compares one BackPropagate step of l against finite
// differences of sum(FeedForward(x)).
func checkGradients(t *testing.T, l Layer, x *tensor.Vector, tol float64) {
	t.Helper()
	approx := cmpopts.EquateApprox(0, tol)

	trained := cloneLayer(t, l)
	prepared := trained.PreparePropagate(x)
	var before [][]float64
	for _, p := range params(trained) {
		before = append(before, append([]float64(nil), p...))
	}
	inputGrad := trained.BackPropagate(prepared.Sum, tensor.NewVector(l.OutputSize(), 1), prepared.Input, 1)

	for k, p := range params(trained) {
		analytic := make([]float64, len(p))
		for i := range p {
			analytic[i] = before[k][i] - p[i]
		}
		loss := func(v []float64) float64 {
			perturbed := cloneLayer(t, l)
			copy(params(perturbed)[k], v)
			return perturbed.FeedForward(x).Sum()
		}
		numeric := fd.Gradient(nil, loss, append([]float64(nil), params(l)[k]...), central)
		require.True(t, cmp.Equal(numeric, analytic, approx), "parameter group %d:\nnumeric  %v\nanalytic %v", k, numeric, analytic)
	}

	loss := func(v []float64) float64 {
		return l.FeedForward(tensor.VectorFrom(v)).Sum()
	}
	numeric := fd.Gradient(nil, loss, append([]float64(nil), x.Data()...), central)
	require.True(t, cmp.Equal(numeric, inputGrad.Data(), approx), "input gradient:\nnumeric  %v\nanalytic %v", numeric, inputGrad.Data())
}
