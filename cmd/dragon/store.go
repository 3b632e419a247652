package main

import (
	"context"

	"github.com/born-ml/dragon/internal/nn"
)

// loadModel reads a model from a local path or gs:// URL.
func loadModel(ctx context.Context, location string) (*nn.Model, error) {
	m := nn.NewModel()
	if err := m.LoadLocation(ctx, location); err != nil {
		return nil, err
	}
	return m, nil
}
