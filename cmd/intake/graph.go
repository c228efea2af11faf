package main

import (
	"github.com/aretw0/intake/internal/cli"
	"github.com/spf13/cobra"
)

var graphSession string

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [source]",
	Short: "Export the visibility rules as a diagram",
	Long:  `Outputs a Mermaid diagram (graph TD) where each edge shows which answer reveals which question.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 && !cmd.Flags().Changed("source") {
			cfg.Source = args[0]
		}
		return cli.Graph(cmd.Context(), cfg, graphSession, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringVar(&graphSession, "session", "", "Highlight the progress of a stored session")
}
