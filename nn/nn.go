// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the Dragon layers and the Model that chains them.
//
// # Overview
//
// A Model is an ordered list of layers. Inference threads a flat vector
// through every layer's FeedForward. Training runs one example at a time:
// PreparePropagate on the way forward, then BackPropagate in reverse, each
// layer updating its own parameters with gradient descent.
//
// Built-in layers:
//   - Dense: fully connected, y = act(W·x + b)
//   - Convolutional: multi-channel strided 2D convolution
//   - ConvolutionalTree: depthwise convolution, kernelsPerInput per channel
//   - Pooling: non-overlapping max pooling
//
// # Basic Usage
//
//	model := nn.NewModel()
//	model.AddLayer(nn.NewDense(2, 3, nn.He(2, 3), nn.Sigmoid()))
//	model.AddLayer(nn.NewDense(3, 1, nn.He(3, 1), nn.Sigmoid()))
//
//	for epoch := 0; epoch < 5000; epoch++ {
//	    nn.TrainModel(model, x, y, nn.SquaredErrorGrad, 1.0)
//	}
//	out := nn.FeedForward(model, x)
//
// # Persistence
//
// Model.Save and Model.Load write and read a JSON document (the default)
// or the legacy delimiter-separated text format. Loading resolves layer and
// activation names through the model Registry; unknown names abort the
// load without changing the model.
package nn

import (
	"github.com/born-ml/dragon/internal/nn"
	"github.com/born-ml/dragon/internal/serialization"
)

// Layer is the capability every layer provides.
type Layer = nn.Layer

// Kind tags the built-in layer variants.
type Kind = nn.Kind

// Layer kinds.
const (
	KindCustom            = nn.KindCustom
	KindDense             = nn.KindDense
	KindConvolutional     = nn.KindConvolutional
	KindConvolutionalTree = nn.KindConvolutionalTree
	KindPooling           = nn.KindPooling
)

// Built-in layer keys.
const (
	DenseName             = nn.DenseName
	ConvolutionalName     = nn.ConvolutionalName
	ConvolutionalTreeName = nn.ConvolutionalTreeName
	PoolingName           = nn.PoolingName
)

// PreparedData is the forward-pass snapshot used by BackPropagate.
type PreparedData = nn.PreparedData

// Dense is a fully connected layer.
type Dense = nn.Dense

// Convolutional is a multi-channel 2D convolution layer.
type Convolutional = nn.Convolutional

// ConvolutionalTree is a depthwise 2D convolution layer.
type ConvolutionalTree = nn.ConvolutionalTree

// Pooling is a non-overlapping window pooling layer.
type Pooling = nn.Pooling

// Reduction collapses a pooling window and routes its gradient.
type Reduction = nn.Reduction

// Activation is a named elementwise function with its derivative.
type Activation = nn.Activation

// InitFunc produces one initial parameter value per call.
type InitFunc = nn.InitFunc

// CostFunc returns the gradient of the cost with respect to the output.
type CostFunc = nn.CostFunc

// Model is an ordered chain of layers.
type Model = nn.Model

// Registry maps layer and activation names to constructors.
type Registry = nn.Registry

// Resolver and factory signatures used by Registry.
type (
	LayerFactory       = nn.LayerFactory
	LayerResolver      = nn.LayerResolver
	ActivationResolver = nn.ActivationResolver
)

// Releaser is implemented by layers that can free their parameters.
type Releaser = nn.Releaser

// Example is one (input, target) training pair.
type Example = nn.Example

// TrainConfig holds configuration for Fit.
type TrainConfig = nn.TrainConfig

// SaveOptions configures Model.Save.
type SaveOptions = serialization.Options

// Save formats.
const (
	FormatJSON = serialization.FormatJSON
	FormatText = serialization.FormatText
)

// Load errors.
var (
	ErrModelNotFound     = nn.ErrModelNotFound
	ErrUnknownLayer      = nn.ErrUnknownLayer
	ErrUnknownActivation = nn.ErrUnknownActivation
)

// Layers.
var (
	NewDense             = nn.NewDense
	NewConvolutional     = nn.NewConvolutional
	NewConvolutionalTree = nn.NewConvolutionalTree
	NewPooling           = nn.NewPooling
	MaxReduction         = nn.MaxReduction
)

// Activations.
var (
	NewActivation = nn.NewActivation
	Sigmoid       = nn.Sigmoid
	ReLU          = nn.ReLU
	ReLU10        = nn.ReLU10
	ReLU100       = nn.ReLU100
	ReLU500       = nn.ReLU500
)

// Initializers.
var (
	Xavier     = nn.Xavier
	NormXavier = nn.NormXavier
	He         = nn.He
	Constant   = nn.Constant
)

// Costs.
var (
	SquaredErrorGrad = nn.SquaredErrorGrad
	SquaredError     = nn.SquaredError
)

// Models and training.
var (
	NewModel           = nn.NewModel
	NewRegistry        = nn.NewRegistry
	FeedForward        = nn.FeedForward
	TrainModel         = nn.TrainModel
	Fit                = nn.Fit
	MeanLoss           = nn.MeanLoss
	DefaultTrainConfig = nn.DefaultTrainConfig
)

// DefaultSaveOptions returns the options Save uses by default (JSON).
func DefaultSaveOptions() SaveOptions {
	return serialization.DefaultOptions()
}
