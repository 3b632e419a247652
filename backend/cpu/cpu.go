// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu exposes the pure Go kernels the layers run on: matrix
// products, 2D correlation with stride, and the correlation gradients.
//
// # Basic Usage
//
//	backend := cpu.New()
//	signal := tensor.MatrixFrom(3, 3, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
//	kernel := tensor.NewMatrix(2, 2, 1)
//	out := backend.Correlate(signal, kernel, 1) // [[12 16] [24 28]]
package cpu

import (
	internalcpu "github.com/born-ml/dragon/internal/backend/cpu"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// New creates a new CPU backend.
func New() *Backend {
	return internalcpu.New()
}

// ConvOutputSize returns floor((in-k)/stride)+1, the number of kernel
// positions along one axis. Panics if k > in or stride <= 0.
func ConvOutputSize(in, k, stride int) int {
	return internalcpu.ConvOutputSize(in, k, stride)
}
