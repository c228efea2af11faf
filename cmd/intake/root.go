package main

import (
	"fmt"
	"os"

	"github.com/aretw0/intake/internal/cli"
	"github.com/spf13/cobra"
)

// cfg holds the shared flags. Defaults come from INTAKE_* environment variables.
var cfg = cli.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "intake",
	Short: "intake is a conditional questionnaire engine",
	Long: `intake walks conditional questionnaires: questions appear or hide based on
earlier answers, and the finished answers are submitted as an order payload.

Questionnaires are read from a Loam directory (one markdown file per question),
a YAML/JSON file, or a partner checkout session.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	f := rootCmd.PersistentFlags()
	f.StringVarP(&cfg.Source, "source", "s", cfg.Source, "Questionnaire: Loam directory, YAML/JSON file, or partner session ID ($"+cli.EnvSource+")")
	f.StringVar(&cfg.PartnerURL, "partner-url", cfg.PartnerURL, "Partner checkout backend base URL ($"+cli.EnvPartnerURL+")")
	f.StringVar(&cfg.Store, "store", cfg.Store, "Session store: memory, file, redis or sqlite ($"+cli.EnvStore+")")
	f.StringVar(&cfg.StorePath, "store-path", cfg.StorePath, "File store directory or SQLite DSN ($"+cli.EnvStorePath+")")
	f.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address ($"+cli.EnvRedisAddr+")")
	f.StringVar(&cfg.RedisPassword, "redis-password", cfg.RedisPassword, "Redis password ($"+cli.EnvRedisPassword+")")
	f.IntVar(&cfg.RedisDB, "redis-db", cfg.RedisDB, "Redis database ($"+cli.EnvRedisDB+")")
	f.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Expire idle sessions in Redis, 0 keeps them ($"+cli.EnvSessionTTL+")")
	f.StringVar(&cfg.EncryptionKey, "encryption-key", cfg.EncryptionKey, "32-byte hex or base64 key sealing stored sessions ($"+cli.EnvEncryptionKey+")")
	f.StringSliceVar(&cfg.FallbackKeys, "fallback-key", cfg.FallbackKeys, "Previous encryption keys accepted when reading ($"+cli.EnvFallbackKeys+")")
	f.BoolVar(&cfg.ExclusiveHeuristic, "infer-exclusive", false, "Treat a trailing \"none of the above\" option as exclusive")
	f.BoolVar(&cfg.PruneHidden, "prune-hidden", false, "Leave answers of hidden questions out of the submission")
	f.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug logs on stderr ($"+cli.EnvDebug+")")
}
