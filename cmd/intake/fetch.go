package main

import (
	"os"

	"github.com/aretw0/intake/internal/cli"
	"github.com/spf13/cobra"
)

var fetchOutput string

var fetchCmd = &cobra.Command{
	Use:   "fetch <session-id>",
	Short: "Download a partner questionnaire as YAML",
	Long:  `Fetches the questionnaire of a partner checkout session and writes it in the file format read by --source.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if fetchOutput != "" {
			f, err := os.Create(fetchOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		return cli.Fetch(cmd.Context(), cfg, args[0], w)
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "Write to a file instead of stdout")
}
