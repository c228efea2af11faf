package main

import (
	"github.com/aretw0/intake/internal/cli"
	"github.com/spf13/cobra"
)

var runOpts cli.RunOptions

var runCmd = &cobra.Command{
	Use:   "run [source]",
	Short: "Answer a questionnaire in the terminal",
	Long: `Asks the visible questions one at a time and submits the answers at the end.
Type 'back' or 'next' to navigate and 'exit' to stop; with --session the progress is kept.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 && !cmd.Flags().Changed("source") {
			cfg.Source = args[0]
		}
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.Run(ctx, cfg, runOpts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runOpts.SessionID, "session", "", "Session ID to persist and resume")
	runCmd.Flags().BoolVar(&runOpts.Fresh, "fresh", false, "Discard the stored session before starting")
	runCmd.Flags().BoolVar(&runOpts.JSON, "json", false, "Run in JSON mode (NDJSON input/output)")
	runCmd.Flags().StringVar(&runOpts.OfferingID, "offering", "", "Offering variant ID; submits the order to the partner backend")
}
