// Package main provides the Dragon CLI: train the XOR demo, inspect a saved
// model, and run it on input values. Model paths may be local files or
// gs://bucket/object URLs.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/born-ml/dragon/internal/serialization"
)

const version = "v0.1.0"

func main() {
	klog.InitFlags(nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	ctx = klog.NewContext(ctx, klog.Background())

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "dragon",
		Short:        "Dragon neural network engine",
		SilenceUsage: true,
	}
	root.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	root.AddCommand(
		newVersionCmd(),
		newXORCmd(),
		newInspectCmd(),
		newPredictCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Dragon %s (model format v%d, engine %s)\n",
				version, serialization.FormatVersionJSON, serialization.DragonVersion)
		},
	}
}
