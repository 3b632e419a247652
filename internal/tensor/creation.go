package tensor

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Unit creates the n x n identity matrix.
func Unit(n int) *Matrix {
	m := NewMatrix(n, n, 0)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// Random creates a rows x cols matrix with values uniform in [min, max).
func Random(rows, cols int, min, max float64) *Matrix {
	return TakeMatrix(rows, cols, uniform(rows*cols, min, max, false))
}

// RandomVector creates an n-element vector with values uniform in [min, max).
func RandomVector(n int, min, max float64) *Vector {
	return TakeVector(n, uniform(n, min, max, false))
}

// RandomInt creates a rows x cols matrix of uniform values in [min, max)
// rounded down to integers.
func RandomInt(rows, cols int, min, max float64) *Matrix {
	return TakeMatrix(rows, cols, uniform(rows*cols, min, max, true))
}

// RandomIntVector is the rank-1 form of RandomInt.
func RandomIntVector(n int, min, max float64) *Vector {
	return TakeVector(n, uniform(n, min, max, true))
}

// RandomNormal creates a rows x cols matrix sampled from N(mean, dev²).
func RandomNormal(rows, cols int, mean, dev float64) *Matrix {
	return TakeMatrix(rows, cols, normal(rows*cols, mean, dev))
}

// RandomNormalVector is the rank-1 form of RandomNormal.
func RandomNormalVector(n int, mean, dev float64) *Vector {
	return TakeVector(n, normal(n, mean, dev))
}

// InitVector creates an n-element vector, calling fn once per element.
func InitVector(n int, fn func() float64) *Vector {
	v := NewVector(n, 0)
	data := v.Data()
	for i := range data {
		data[i] = fn()
	}
	return v
}

func uniform(n int, min, max float64, floor bool) *Buffer {
	buf := NewBuffer(n, min)
	if max <= min {
		return buf
	}
	dist := distuv.Uniform{Min: min, Max: max}
	data := buf.Data()
	for i := range data {
		x := dist.Rand()
		if floor {
			x = math.Floor(x)
		}
		data[i] = x
	}
	return buf
}

func normal(n int, mean, dev float64) *Buffer {
	buf := NewBuffer(n, mean)
	if dev <= 0 {
		return buf
	}
	dist := distuv.Normal{Mu: mean, Sigma: dev}
	data := buf.Data()
	for i := range data {
		data[i] = dist.Rand()
	}
	return buf
}
