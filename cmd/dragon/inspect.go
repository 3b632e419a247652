package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/born-ml/dragon/internal/nn"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect MODEL",
		Short: "List the layers of a saved model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer m.Release()
			renderLayers(cmd.OutOrStdout(), m)
			return nil
		},
	}
}

// layerDetails returns the parameter count and a short geometry summary.
func layerDetails(l nn.Layer) (int, string) {
	switch v := l.(type) {
	case *nn.Dense:
		return v.Weights().Len() + v.Biases().Len(), ""
	case *nn.Convolutional:
		return v.Kernels().Len() + v.Biases().Len(),
			fmt.Sprintf("kernel %dx%d stride %d", v.KernelSize(), v.KernelSize(), v.Stride())
	case *nn.ConvolutionalTree:
		return v.Kernels().Len() + v.Biases().Len(),
			fmt.Sprintf("kernel %dx%d stride %d x%d", v.KernelSize(), v.KernelSize(), v.Stride(), v.KernelsPerInput())
	case *nn.Pooling:
		return 0, v.Reduction().Name
	default:
		return 0, ""
	}
}

func renderLayers(w io.Writer, m *nn.Model) {
	var data [][]string
	total := 0
	for i, l := range m.Layers() {
		params, details := layerDetails(l)
		total += params
		data = append(data, []string{
			strconv.Itoa(i),
			l.Name(),
			l.Activation().Name(),
			strconv.Itoa(l.InputSize()),
			strconv.Itoa(l.OutputSize()),
			strconv.Itoa(params),
			details,
		})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "LAYER", "ACTIVATION", "IN", "OUT", "PARAMS", "DETAILS"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	fmt.Fprintf(w, "\n%d layers, %d parameters\n", m.Len(), total)
}
