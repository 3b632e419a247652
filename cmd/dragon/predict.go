package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/born-ml/dragon/internal/nn"
	"github.com/born-ml/dragon/internal/tensor"
)

func newPredictCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "predict MODEL VALUE...",
		Short: "Run a saved model on the given input values",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := parseValues(args[1:])
			if err != nil {
				return err
			}
			m, err := loadModel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer m.Release()

			if m.Len() == 0 {
				return fmt.Errorf("model %s has no layers", args[0])
			}
			if want := m.Layer(0).InputSize(); want != input.Len() {
				return fmt.Errorf("model expects %d input values, got %d", want, input.Len())
			}
			out := nn.FeedForward(m, input)
			fmt.Fprintln(cmd.OutOrStdout(), formatValues(out.Data()))
			return nil
		},
	}
}

func parseValues(args []string) (*tensor.Vector, error) {
	values := make([]float64, 0, len(args))
	for _, arg := range args {
		for _, field := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' }) {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid input value %q: %w", field, err)
			}
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no input values")
	}
	return tensor.VectorFrom(values), nil
}

func formatValues(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'f', 6, 64)
	}
	return strings.Join(parts, " ")
}
