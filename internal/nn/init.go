package nn

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// InitFunc produces one initial parameter value per call.
type InitFunc func() float64

// uniformInit draws from U(-bound, bound).
func uniformInit(bound float64) InitFunc {
	dist := distuv.Uniform{Min: -bound, Max: bound}
	return dist.Rand
}

// Xavier draws from U(-1/sqrt(fanIn), 1/sqrt(fanIn)).
func Xavier(fanIn, fanOut int) InitFunc {
	return uniformInit(1.0 / math.Sqrt(float64(fanIn)))
}

// NormXavier (Glorot) draws from
// U(-sqrt(6/(fanIn+fanOut)), sqrt(6/(fanIn+fanOut))).
func NormXavier(fanIn, fanOut int) InitFunc {
	return uniformInit(math.Sqrt(6.0 / float64(fanIn+fanOut)))
}

// He draws from U(-sqrt(2/fanIn), sqrt(2/fanIn)).
func He(fanIn, fanOut int) InitFunc {
	return uniformInit(math.Sqrt(2.0 / float64(fanIn)))
}

// Constant returns value on every call.
func Constant(value float64) InitFunc {
	return func() float64 { return value }
}
