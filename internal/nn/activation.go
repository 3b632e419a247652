package nn

import (
	"fmt"
	"math"
)

// Activation is an immutable pointwise function paired with its derivative.
// The name is the key used to serialize it.
type Activation struct {
	name       string
	forward    func(float64) float64
	derivative func(float64) float64
}

// NewActivation creates an activation. Panics if name is empty or either
// function is nil.
func NewActivation(name string, forward, derivative func(float64) float64) Activation {
	if name == "" {
		panic("activation: name cannot be empty")
	}
	if forward == nil || derivative == nil {
		panic(fmt.Sprintf("activation %q: forward and derivative are required", name))
	}
	return Activation{name: name, forward: forward, derivative: derivative}
}

// Name returns the serialization key.
func (a Activation) Name() string { return a.name }

// IsZero reports whether a is the zero Activation.
func (a Activation) IsZero() bool { return a.name == "" }

// Forward evaluates the activation at x.
func (a Activation) Forward(x float64) float64 { return a.forward(x) }

// Derivative evaluates the derivative at the pre-activation value x.
func (a Activation) Derivative(x float64) float64 { return a.derivative(x) }

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// Sigmoid returns the logistic activation 1/(1+e^-x).
func Sigmoid() Activation {
	return NewActivation("sigmoid", sigmoid, func(x float64) float64 {
		s := sigmoid(x)
		return s * (1.0 - s)
	})
}

// leakyReLU builds the ReLU family. With m = 1/ratio (0 when ratio is 0):
//
//	f(x)  = (1+m)x  for x >= 0,  m*x otherwise
//	f'(x) = 1+m     for x >= 0,  m   otherwise
func leakyReLU(name string, ratio int) Activation {
	m := 0.0
	if ratio != 0 {
		m = 1.0 / float64(ratio)
	}
	return NewActivation(name,
		func(x float64) float64 {
			if x >= 0 {
				return (1 + m) * x
			}
			return m * x
		},
		func(x float64) float64 {
			if x >= 0 {
				return 1 + m
			}
			return m
		})
}

// ReLU returns max(0, x).
func ReLU() Activation { return leakyReLU("relU", 0) }

// ReLU10 is the leaky ReLU with slope 1/10.
func ReLU10() Activation { return leakyReLU("relU10", 10) }

// ReLU100 is the leaky ReLU with slope 1/100.
func ReLU100() Activation { return leakyReLU("relU100", 100) }

// ReLU500 is the leaky ReLU with slope 1/500.
func ReLU500() Activation { return leakyReLU("relU500", 500) }
