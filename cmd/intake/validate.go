package main

import (
	"fmt"

	"github.com/aretw0/intake/internal/cli"
	"github.com/spf13/cobra"
)

var validateStrict bool

var validateCmd = &cobra.Command{
	Use:   "validate [source]",
	Short: "Check the questionnaire definitions",
	Long:  `Loads the questionnaire, rejects invalid definitions and warns about rules that can never hold.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 && !cmd.Flags().Changed("source") {
			cfg.Source = args[0]
		}
		if err := cli.Validate(cmd.Context(), cfg, validateStrict, cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Questionnaire is valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Fail on warnings")
}
