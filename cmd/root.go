// Package cmd assembles the faunawatch command line interface.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faunawatch/faunawatch-go/cmd/serve"
	"github.com/faunawatch/faunawatch-go/internal/buildinfo"
)

// RootCommand creates and returns the root command.
func RootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "faunawatch",
		Version: fmt.Sprintf("%s (built %s)", buildinfo.Version(), buildinfo.BuildDate()),
		Short:   "FaunaWatch detection ingestion and notification backend",
		Long: "FaunaWatch accepts object detections from a remote field camera, " +
			"classifies their priority, raises alerts and pushes live updates " +
			"to connected dashboard clients.",
	}

	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug output")

	rootCmd.AddCommand(serve.Command())

	return rootCmd
}
