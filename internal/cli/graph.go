package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/intake/internal/presentation/graph"
	"github.com/aretw0/intake/pkg/domain"
)

// Graph writes a Mermaid diagram of the questionnaire rules.
// With a session ID, the stored session's visible and answered questions are highlighted.
func Graph(ctx context.Context, cfg Config, sessionID string, w io.Writer) error {
	logger := createLogger(cfg.Debug)
	engine, err := createEngine(ctx, cfg, logger, domain.LifecycleHooks{})
	if err != nil {
		return err
	}

	var overlay *graph.GraphOverlay
	if sessionID != "" {
		p, err := openPersistence(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer p.Close()

		stored, err := p.Store.Load(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("error loading session '%s': %w", sessionID, err)
		}
		state, err := engine.Refresh(stored)
		if err != nil {
			return err
		}
		overlay = graph.OverlayFromState(state)
	}

	_, err = io.WriteString(w, graph.GenerateMermaid(engine.Questions(), overlay))
	return err
}
