package main

import (
	"fmt"

	"github.com/aretw0/verdict/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph <form>",
	Short: "Export the value host dependency graph",
	Long: `Outputs a Mermaid diagram of the value hosts and the dependencies their conditions create.
With --values the form is validated first and each input value host is colored by its status.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		valuesPath, _ := cmd.Flags().GetString("values")

		form, err := openForm(args[0], valuesPath)
		if err != nil {
			return err
		}

		var overlay *graph.Overlay
		if valuesPath != "" {
			if _, err := validateForm(cmd.Context(), form, ""); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			overlay = graph.OverlayFromState(form.State())
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(form.Descriptors(), form.Manager().Dependents, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("values", "", "Values file used to color the graph by validation status")
}
