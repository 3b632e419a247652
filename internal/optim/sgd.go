// Package optim implements the parameter update rule used by the layers.
package optim

import (
	"fmt"

	"github.com/born-ml/dragon/internal/tensor"
	"gonum.org/v1/gonum/floats"
)

// DefaultLR is the learning rate NewSGD falls back to.
const DefaultLR = 0.01

// Optimizer updates one parameter tensor from its gradient.
type Optimizer interface {
	Step(param, grad tensor.Elements)
	GetLR() float64
}

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig struct {
	LR float64 // Learning rate (default: 0.01)
}

// SGD is plain gradient descent without momentum:
//
//	param = param - lr * gradient
//
// The zero LR is honoured when SGD is built as a literal; only NewSGD
// substitutes the default.
type SGD struct {
	LR float64
}

// NewSGD creates a new SGD optimizer.
func NewSGD(config SGDConfig) SGD {
	if config.LR == 0 {
		config.LR = DefaultLR
	}
	return SGD{LR: config.LR}
}

// Step applies param -= lr * grad in place.
func (s SGD) Step(param, grad tensor.Elements) {
	if param.Len() != grad.Len() {
		panic(fmt.Sprintf("sgd: parameter count mismatch (%d vs %d)", param.Len(), grad.Len()))
	}
	floats.AddScaled(param.Data(), -s.LR, grad.Data())
}

// GetLR returns the learning rate.
func (s SGD) GetLR() float64 {
	return s.LR
}
