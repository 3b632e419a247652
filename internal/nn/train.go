package nn

import (
	"context"
	"fmt"

	"github.com/born-ml/dragon/internal/optim"
	"github.com/born-ml/dragon/internal/tensor"
	"k8s.io/klog/v2"
)

// Example is one (input, target) training pair.
type Example struct {
	Input  *tensor.Vector
	Target *tensor.Vector
}

// TrainConfig holds configuration for Fit.
type TrainConfig struct {
	Epochs       int      // Passes over the dataset (default: 1)
	LearningRate float64  // Gradient descent step (default: optim.DefaultLR)
	Cost         CostFunc // Output gradient (default: SquaredErrorGrad)
	LogEvery     int      // Log the epoch loss every N epochs at V(2); 0 disables
}

// DefaultTrainConfig returns the configuration Fit falls back to.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		Epochs:       1,
		LearningRate: optim.DefaultLR,
		Cost:         SquaredErrorGrad,
	}
}

func (c TrainConfig) withDefaults() TrainConfig {
	def := DefaultTrainConfig()
	if c.Epochs <= 0 {
		c.Epochs = def.Epochs
	}
	if c.LearningRate == 0 {
		c.LearningRate = def.LearningRate
	}
	if c.Cost == nil {
		c.Cost = def.Cost
	}
	return c
}

// Fit runs TrainModel on every example, in order, for cfg.Epochs epochs.
// It returns the mean squared error over the dataset measured with
// FeedForward after the last epoch. Cancelling ctx stops training between
// epochs.
func Fit(ctx context.Context, m *Model, data []Example, cfg TrainConfig) (float64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("fit: empty dataset")
	}
	cfg = cfg.withDefaults()
	log := klog.FromContext(ctx)

	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("fit: stopped at epoch %d: %w", epoch, err)
		}
		for _, ex := range data {
			TrainModel(m, ex.Input, ex.Target, cfg.Cost, cfg.LearningRate)
		}
		if cfg.LogEvery > 0 && epoch%cfg.LogEvery == 0 {
			log.V(2).Info("Training", "epoch", epoch, "loss", MeanLoss(m, data))
		}
	}
	return MeanLoss(m, data), nil
}

// MeanLoss returns the mean SquaredError of the model over data.
func MeanLoss(m *Model, data []Example) float64 {
	total := 0.0
	for _, ex := range data {
		total += SquaredError(FeedForward(m, ex.Input), ex.Target)
	}
	return total / float64(len(data))
}
