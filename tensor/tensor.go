// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the float64 storage and rank 1 to 3 tensors used
// by the Dragon layers.
//
// # Ownership
//
// Every tensor is backed either by an owning Buffer or by a View that
// borrows a window of one. Views are zero-copy and fail fast: once the
// Buffer they borrow from is released, moved, resized or swapped, touching
// the view panics instead of reading stale memory.
//
// # Basic Usage
//
//	v := tensor.VectorOf(1, 2, 3, 4, 5, 6)
//	m := v.AsMatrix(2, 3)    // zero-copy 2x3 view
//	vol := v.AsVolume(2, 1, 3)
//	vol.Plane(1).Set(0, 0, 9) // writes v[3]
//
// Elementwise operations (Add, Sub, Mul, Div and their scalar forms) work
// in place and panic on element count mismatch.
package tensor

import (
	"github.com/born-ml/dragon/internal/tensor"
)

// Storage is the flat element store behind a tensor.
type Storage = tensor.Storage

// Buffer is an owning, contiguous float64 store.
type Buffer = tensor.Buffer

// View borrows a window of a Buffer without copying.
type View = tensor.View

// Shape represents the dimensions of a tensor, outermost first.
type Shape = tensor.Shape

// Elements is implemented by every shaped tensor.
type Elements = tensor.Elements

// Backed is implemented by every shaped tensor a view can borrow from.
type Backed = tensor.Backed

// Vector is a rank-1 tensor.
type Vector = tensor.Vector

// Matrix is a row-major rank-2 tensor.
type Matrix = tensor.Matrix

// Volume is a rank-3 tensor of depth planes.
type Volume = tensor.Volume

// ErrViewMutation is the panic value raised when an ownership operation is
// attempted on a view.
const ErrViewMutation = tensor.ErrViewMutation

// Buffers and views.
var (
	NewBuffer  = tensor.NewBuffer
	CopyBuffer = tensor.CopyBuffer
	WrapBuffer = tensor.WrapBuffer
	NewView    = tensor.NewView
)

// Vector constructors.
var (
	NewVector  = tensor.NewVector
	VectorFrom = tensor.VectorFrom
	VectorOf   = tensor.VectorOf
	TakeVector = tensor.TakeVector
	ViewVector = tensor.ViewVector
)

// Matrix constructors.
var (
	NewMatrix  = tensor.NewMatrix
	MatrixFrom = tensor.MatrixFrom
	TakeMatrix = tensor.TakeMatrix
	ViewMatrix = tensor.ViewMatrix
)

// Volume constructors.
var (
	NewVolume  = tensor.NewVolume
	VolumeFrom = tensor.VolumeFrom
	TakeVolume = tensor.TakeVolume
	ViewVolume = tensor.ViewVolume
)

// Builders.
var (
	Unit               = tensor.Unit
	Random             = tensor.Random
	RandomVector       = tensor.RandomVector
	RandomInt          = tensor.RandomInt
	RandomIntVector    = tensor.RandomIntVector
	RandomNormal       = tensor.RandomNormal
	RandomNormalVector = tensor.RandomNormalVector
	InitVector         = tensor.InitVector
)
