// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the gradient descent rule the layers apply to
// their parameters.
package optim

import (
	"github.com/born-ml/dragon/internal/optim"
)

// DefaultLR is the learning rate NewSGD falls back to.
const DefaultLR = optim.DefaultLR

// Optimizer updates one parameter tensor from its gradient.
type Optimizer = optim.Optimizer

// SGD is plain gradient descent: param -= lr * grad.
type SGD = optim.SGD

// SGDConfig contains configuration for the SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	sgd := optim.NewSGD(optim.SGDConfig{LR: 0.5})
//	sgd.Step(weights, grad)
func NewSGD(config SGDConfig) SGD {
	return optim.NewSGD(config)
}
