package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/born-ml/dragon/internal/nn"
	"github.com/born-ml/dragon/internal/serialization"
	"github.com/born-ml/dragon/internal/tensor"
)

type xorOptions struct {
	epochs int
	lr     float64
	save   string
	format string
}

// envInt returns the integer in $key, or def when unset or invalid.
func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return def
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func newXORCmd() *cobra.Command {
	opts := &xorOptions{}
	cmd := &cobra.Command{
		Use:   "xor",
		Short: "Train a 2-3-3-1 sigmoid network on XOR",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runXOR(cmd, opts)
		},
	}
	cmd.Flags().IntVar(&opts.epochs, "epochs", envInt("DRAGON_EPOCHS", 5000), "Training epochs ($DRAGON_EPOCHS)")
	cmd.Flags().Float64Var(&opts.lr, "lr", envFloat("DRAGON_LR", 1.0), "Learning rate ($DRAGON_LR)")
	cmd.Flags().StringVar(&opts.save, "save", envString("DRAGON_SAVE", ""), "Save the trained model to this path or gs:// URL ($DRAGON_SAVE)")
	cmd.Flags().StringVar(&opts.format, "format", envString("DRAGON_FORMAT", "json"), "Model format: json or text ($DRAGON_FORMAT)")
	return cmd
}

func xorExamples() []nn.Example {
	return []nn.Example{
		{Input: tensor.VectorOf(0, 0), Target: tensor.VectorOf(0)},
		{Input: tensor.VectorOf(0, 1), Target: tensor.VectorOf(1)},
		{Input: tensor.VectorOf(1, 0), Target: tensor.VectorOf(1)},
		{Input: tensor.VectorOf(1, 1), Target: tensor.VectorOf(0)},
	}
}

func runXOR(cmd *cobra.Command, opts *xorOptions) error {
	ctx := cmd.Context()
	log := klog.FromContext(ctx)

	format, err := serialization.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	m := nn.NewModel()
	m.AddLayer(nn.NewDense(2, 3, nn.He(2, 3), nn.Sigmoid()))
	m.AddLayer(nn.NewDense(3, 3, nn.He(3, 3), nn.Sigmoid()))
	m.AddLayer(nn.NewDense(3, 1, nn.He(3, 1), nn.Sigmoid()))

	data := xorExamples()
	log.Info("Training XOR", "epochs", opts.epochs, "lr", opts.lr)
	loss, err := nn.Fit(ctx, m, data, nn.TrainConfig{
		Epochs:       opts.epochs,
		LearningRate: opts.lr,
		LogEvery:     500,
	})
	if err != nil {
		return err
	}
	log.Info("Training finished", "loss", loss)

	out := cmd.OutOrStdout()
	for _, ex := range data {
		y := nn.FeedForward(m, ex.Input)
		fmt.Fprintf(out, "%v -> %.4f (want %v)\n", ex.Input.Data(), y.At(0), ex.Target.At(0))
	}

	if opts.save != "" {
		if err := m.SaveLocation(ctx, opts.save, serialization.Options{Format: format}); err != nil {
			return err
		}
		log.Info("Saved model", "location", opts.save, "format", format)
	}
	return nil
}
