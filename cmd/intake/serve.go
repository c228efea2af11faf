package main

import (
	"github.com/aretw0/intake/internal/cli"
	"github.com/spf13/cobra"
)

var serveOpts cli.ServeOptions

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Serves questionnaire sessions over a JSON API with SSE change streams and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.Serve(ctx, cfg, serveOpts)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&cfg.Addr, "addr", "a", cfg.Addr, "Address to listen on ($"+cli.EnvAddr+")")
	serveCmd.Flags().StringSliceVar(&cfg.AllowedOrigins, "allowed-origin", cfg.AllowedOrigins, "Origins allowed by CORS ($"+cli.EnvAllowedOrigins+")")
	serveCmd.Flags().DurationVar(&serveOpts.RequestTimeout, "request-timeout", 0, "Per-request timeout (default 15s)")
}
