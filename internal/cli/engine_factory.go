package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/pkg/adapters/file"
	"github.com/aretw0/intake/pkg/adapters/partner"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/observability"
)

// Source kinds understood by createEngine.
const (
	sourceLoam    = "loam"
	sourceFile    = "file"
	sourcePartner = "partner"
)

// detectSource classifies cfg.Source.
// With a partner URL the source is a session ID; otherwise definition files are
// recognized by extension and anything else is treated as a Loam directory.
func detectSource(cfg Config) string {
	if cfg.PartnerURL != "" {
		return sourcePartner
	}
	switch strings.ToLower(filepath.Ext(cfg.Source)) {
	case ".yaml", ".yml", ".json":
		return sourceFile
	}
	if info, err := os.Stat(cfg.Source); err == nil && !info.IsDir() {
		return sourceFile
	}
	return sourceLoam
}

// createEngine initializes an intake engine with standard CLI conventions.
func createEngine(ctx context.Context, cfg Config, logger *slog.Logger, hooks domain.LifecycleHooks) (*intake.Engine, error) {
	if cfg.Debug {
		hooks = hooks.Merge(observability.LoggingHooks(logger))
	}

	engineOpts := []intake.Option{
		intake.WithLogger(logger),
		intake.WithLifecycleHooks(hooks),
	}
	if cfg.ExclusiveHeuristic {
		engineOpts = append(engineOpts, intake.WithExclusiveHeuristic())
	}
	if cfg.PruneHidden {
		engineOpts = append(engineOpts, intake.WithHiddenAnswerPruning())
	}

	switch detectSource(cfg) {
	case sourcePartner:
		client, err := newPartnerClient(cfg, logger)
		if err != nil {
			return nil, err
		}
		engineOpts = append(engineOpts, intake.WithLoader(client))
	case sourceFile:
		engineOpts = append(engineOpts, intake.WithLoader(file.NewLoader("")))
	}

	engine, err := intake.New(ctx, cfg.Source, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

func newPartnerClient(cfg Config, logger *slog.Logger) (*partner.Client, error) {
	client, err := partner.NewClient(cfg.PartnerURL, partner.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("invalid partner URL: %w", err)
	}
	return client, nil
}
